// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node_test

import (
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/mocks"
	"github.com/bitmark-inc/escrowd/rpc/node"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
)

func TestNodeInfo(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_ = mode.Initialise(chain.Testing)
	defer mode.Finalise()
	mode.Set(mode.Normal)

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockStatus(ctl)

	program := fixtures.NewKey().Account()
	validator := fixtures.NewKey().Account()
	ledger := fixtures.NewKey().Account()

	s.EXPECT().Program().Return(program).Times(1)
	s.EXPECT().Validator().Return(validator).Times(1)
	s.EXPECT().TokenLedger().Return(ledger).Times(1)
	s.EXPECT().CountDelegated().Return(3, nil).Times(1)

	ctr := counter.Counter(4)
	n := node.New(logger.New(fixtures.LogCategory), &ratelimit.Group{}, time.Now(), "1.2", &ctr, s)

	var reply node.InfoReply
	err := n.Info(&node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong Info")
	assert.Equal(t, chain.Testing, reply.Chain, "wrong chain")
	assert.Equal(t, mode.Normal.String(), reply.Mode, "wrong mode")
	assert.Equal(t, program, reply.Program, "wrong program")
	assert.Equal(t, validator, reply.Validator, "wrong validator")
	assert.Equal(t, ledger, reply.TokenLedger, "wrong token ledger")
	assert.Equal(t, 3, reply.Delegated, "wrong delegated")
	assert.Equal(t, uint64(4), reply.RPCs, "wrong rpcs")
	assert.Equal(t, "1.2", reply.Version, "wrong version")
}
