// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:generate mockgen -source=node.go -destination=../mocks/status.go -package=mocks

package node

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Status - identities and counters of the running node
type Status interface {
	Program() *account.Account
	Validator() *account.Account
	TokenLedger() *account.Account
	CountDelegated() (int, error)
}

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	Status  Status
	counter *counter.Counter
}

// New - create node RPC handler
func New(log *logger.L, limiters *ratelimit.Group, start time.Time, version string, counter *counter.Counter, status Status) *Node {
	return &Node{
		Log:     log,
		Limiter: limiters.New(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		Status:  status,
		counter: counter,
	}
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Chain       string           `json:"chain"`
	Mode        string           `json:"mode"`
	Program     *account.Account `json:"program"`
	Validator   *account.Account `json:"validator"`
	TokenLedger *account.Account `json:"tokenLedger"`
	Delegated   int              `json:"delegated"`
	RPCs        uint64           `json:"rpcs"`
	Version     string           `json:"version"`
	Uptime      string           `json:"uptime"`
}

// Info - return some information about this node
// only enough for clients to determine node state
// for more detail information use the metrics listener
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	if nil == node.Status {
		return fault.NotInitialised
	}

	delegated, err := node.Status.CountDelegated()
	if nil != err {
		return err
	}

	reply.Chain = mode.ChainName()
	reply.Mode = mode.String()
	reply.Program = node.Status.Program()
	reply.Validator = node.Status.Validator()
	reply.TokenLedger = node.Status.TokenLedger()
	reply.Delegated = delegated
	reply.RPCs = node.counter.Uint64()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
