// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/storage"
)

// TokenBalance - associated token account of an owner
type TokenBalance struct {
	Address *account.Account    `json:"address"`
	Account *record.TokenAccount `json:"account"`
}

// Address - escrow address and bump for (mint, owner)
func (e *Executor) Address(mint *account.Account, owner *account.Account) (*account.Account, uint8, error) {
	return e.engine.Address(mint, owner)
}

// Escrow - the record for (mint, owner) as a context sees it
func (e *Executor) Escrow(ctx Context, mint *account.Account, owner *account.Account) (*EscrowState, error) {
	address, _, err := e.engine.Address(mint, owner)
	if nil != err {
		return nil, err
	}
	return e.EscrowAt(ctx, address)
}

// EscrowAt - the record at an address as a context sees it
func (e *Executor) EscrowAt(ctx Context, address *account.Account) (*EscrowState, error) {
	if nil == ctx {
		return nil, fault.InvalidContext
	}
	state, err := e.engine.Read(ctx.Database(), address)
	if nil != err {
		return nil, err
	}
	return &EscrowState{
		Address: address,
		Escrow:  state,
	}, nil
}

// TokenBalance - committed balance of an owner's associated account
func (e *Executor) TokenBalance(mint *account.Account, owner *account.Account) (*TokenBalance, error) {
	address, err := e.ledger.AssociatedAddress(mint, owner)
	if nil != err {
		return nil, err
	}
	result := &TokenBalance{
		Address: address,
	}
	err = e.primary.read(func(trx storage.Transaction) error {
		a, err := e.ledger.Account(trx, address)
		result.Account = a
		return err
	})
	if nil != err {
		return nil, err
	}
	return result, nil
}

// Mint - committed mint record
func (e *Executor) Mint(mint *account.Account) (*record.Mint, error) {
	var m *record.Mint
	err := e.primary.read(func(trx storage.Transaction) error {
		var err error
		m, err = e.ledger.Mint(trx, mint)
		return err
	})
	return m, err
}

// Program - identity of the escrow program
func (e *Executor) Program() *account.Account {
	return e.engine.Program()
}

// Validator - identity of the rollup
func (e *Executor) Validator() *account.Account {
	return e.rollup.Validator()
}

// TokenLedger - identity of the token ledger
func (e *Executor) TokenLedger() *account.Account {
	return e.ledger.Identity()
}
