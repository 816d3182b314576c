// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:generate mockgen -source=token.go -destination=../mocks/ledger.go -package=mocks

package token

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
)

const (
	rateLimitToken = 200
	rateBurstToken = 100
)

// Ledger - committed token ledger queries
type Ledger interface {
	TokenBalance(*account.Account, *account.Account) (*executor.TokenBalance, error)
	Mint(*account.Account) (*record.Mint, error)
}

// Token - type for the RPC
type Token struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	Ledger    Ledger
	IsTesting func() bool
}

// New - create token RPC handler
func New(log *logger.L, limiters *ratelimit.Group, ledger Ledger, isTesting func() bool) *Token {
	return &Token{
		Log:       log,
		Limiter:   limiters.New(rateLimitToken, rateBurstToken),
		Ledger:    ledger,
		IsTesting: isTesting,
	}
}

// BalanceArguments - owner of an associated token account
type BalanceArguments struct {
	Mint  *account.Account `json:"mint"`
	Owner *account.Account `json:"owner"`
}

// Balance - committed balance of an owner's associated token account
func (t *Token) Balance(arguments *BalanceArguments, reply *executor.TokenBalance) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}

	if nil == arguments || nil == arguments.Mint || nil == arguments.Owner {
		return fault.MissingParameters
	}
	if err := t.network(arguments.Mint, arguments.Owner); nil != err {
		return err
	}

	balance, err := t.Ledger.TokenBalance(arguments.Mint, arguments.Owner)
	if nil != err {
		return err
	}

	*reply = *balance
	return nil
}

// MintArguments - mint to read
type MintArguments struct {
	Mint *account.Account `json:"mint"`
}

// Mint - read a mint
func (t *Token) Mint(arguments *MintArguments, reply *record.Mint) error {
	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}

	if nil == arguments || nil == arguments.Mint {
		return fault.MissingParameters
	}
	if err := t.network(arguments.Mint); nil != err {
		return err
	}

	m, err := t.Ledger.Mint(arguments.Mint)
	if nil != err {
		return err
	}

	*reply = *m
	return nil
}

func (t *Token) network(accounts ...*account.Account) error {
	for _, a := range accounts {
		if a.IsTesting() != t.IsTesting() {
			return fault.WrongNetworkForPublicKey
		}
	}
	return nil
}
