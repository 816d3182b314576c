// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"fmt"
	"math/rand"
	"net"
	"net/rpc"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/rpc/escrow"
	"github.com/bitmark-inc/escrowd/rpc/node"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/escrowd/rpc/server"
	"github.com/bitmark-inc/escrowd/rpc/token"
)

var port string

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()

	port = fmt.Sprintf("127.0.0.1:%d", rand.Intn(30000)+30000) // 30,000 - 60,000
	c := counter.Counter(0)
	limiters := ratelimit.Group{}
	r := server.Create(logger.New(fixtures.LogCategory), "1.0", &c, &limiters, nil)
	l, _ := net.Listen("tcp", port)

	go r.Accept(l)

	rc := m.Run()

	_ = l.Close()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

// following tests make sure proper methods are registered to server
// every test case error comes from specific method, this makes sure proper
// method is registered, but it also creates dependencies to specific function

func call(t *testing.T, method string, arg interface{}, reply interface{}) error {
	conn, err := net.Dial("tcp", port)
	if nil != err {
		t.Fatalf("dial error: %s", err)
	}
	defer conn.Close()

	client := rpc.NewClient(conn)
	defer client.Close()

	return client.Call(method, arg, reply)
}

func TestEscrowSubmit(t *testing.T) {
	var reply executor.Result
	err := call(t, "Escrow.Submit", &escrow.SubmitArguments{Context: "primary"}, &reply)
	assert.NotNil(t, err, "wrong Escrow.Submit")
	assert.Equal(t, fault.MissingParameters.Error(), err.Error(), "wrong reply")
}

func TestEscrowGet(t *testing.T) {
	var reply executor.EscrowState
	err := call(t, "Escrow.Get", &escrow.GetArguments{Context: "mainnet"}, &reply)
	assert.NotNil(t, err, "wrong Escrow.Get")
	assert.Equal(t, fault.InvalidContext.Error(), err.Error(), "wrong reply")
}

func TestEscrowAddress(t *testing.T) {
	var reply escrow.AddressReply
	err := call(t, "Escrow.Address", &escrow.AddressArguments{}, &reply)
	assert.NotNil(t, err, "wrong Escrow.Address")
	assert.Equal(t, fault.MissingParameters.Error(), err.Error(), "wrong reply")
}

func TestTokenBalance(t *testing.T) {
	var reply executor.TokenBalance
	err := call(t, "Token.Balance", &token.BalanceArguments{}, &reply)
	assert.NotNil(t, err, "wrong Token.Balance")
	assert.Equal(t, fault.MissingParameters.Error(), err.Error(), "wrong reply")
}

func TestTokenMint(t *testing.T) {
	var reply record.Mint
	err := call(t, "Token.Mint", &token.MintArguments{}, &reply)
	assert.NotNil(t, err, "wrong Token.Mint")
	assert.Equal(t, fault.MissingParameters.Error(), err.Error(), "wrong reply")
}

func TestNodeInfo(t *testing.T) {
	var reply node.InfoReply
	err := call(t, "Node.Info", &node.InfoArguments{}, &reply)
	assert.NotNil(t, err, "wrong Node.Info")
	assert.Equal(t, fault.NotInitialised.Error(), err.Error(), "wrong reply")
}
