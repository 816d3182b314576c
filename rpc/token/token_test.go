// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token_test

import (
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/rpc/mocks"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/escrowd/rpc/token"
)

func TestTokenBalance(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	l := mocks.NewMockLedger(ctl)
	tk := token.New(logger.New(fixtures.LogCategory), &ratelimit.Group{}, l, func() bool { return true })

	mint := fixtures.NewKey().Account()
	owner := fixtures.NewKey().Account()
	balance := &executor.TokenBalance{
		Address: fixtures.NewKey().Account(),
		Account: &record.TokenAccount{
			Mint:   mint,
			Owner:  owner,
			Amount: 900,
		},
	}
	l.EXPECT().TokenBalance(mint, owner).Return(balance, nil).Times(1)

	var reply executor.TokenBalance
	err := tk.Balance(&token.BalanceArguments{Mint: mint, Owner: owner}, &reply)
	assert.Nil(t, err, "wrong Balance")
	assert.Equal(t, uint64(900), reply.Account.Amount, "wrong amount")

	err = tk.Balance(&token.BalanceArguments{Mint: mint}, &reply)
	assert.Equal(t, fault.MissingParameters, err, "accepted missing owner")
}

func TestTokenMint(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	l := mocks.NewMockLedger(ctl)
	tk := token.New(logger.New(fixtures.LogCategory), &ratelimit.Group{}, l, func() bool { return false })

	mint := fixtures.NewKey().Account()

	var reply record.Mint
	err := tk.Mint(&token.MintArguments{Mint: mint}, &reply)
	assert.Equal(t, fault.WrongNetworkForPublicKey, err, "accepted test key on live chain")

	tk.IsTesting = func() bool { return true }

	l.EXPECT().Mint(mint).Return(nil, fault.MintNotFound).Times(1)
	err = tk.Mint(&token.MintArguments{Mint: mint}, &reply)
	assert.Equal(t, fault.MintNotFound, err, "wrong missing mint")

	m := &record.Mint{
		Authority: fixtures.NewKey().Account(),
		Decimals:  6,
		Supply:    2000,
	}
	l.EXPECT().Mint(mint).Return(m, nil).Times(1)
	err = tk.Mint(&token.MintArguments{Mint: mint}, &reply)
	assert.Nil(t, err, "wrong Mint")
	assert.Equal(t, *m, reply, "wrong mint")
}
