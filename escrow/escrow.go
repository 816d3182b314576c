// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/capability"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/util"
)

// Create - open the escrow for (mint, owner) with a zero balance
//
// the pooled token account is opened if it does not exist yet
func (e *Engine) Create(trx storage.Transaction, owner *account.Account, mint *account.Account) (*account.Account, *record.Escrow, error) {
	if storage.Ledger != trx.Database() {
		return nil, nil, fault.WrongExecutionContext
	}
	if _, err := e.ledger.Mint(trx, mint); nil != err {
		return nil, nil, err
	}

	address, bump, err := e.Address(mint, owner)
	if nil != err {
		return nil, nil, err
	}
	if trx.Has(e.handles.Escrows, address.Bytes()) {
		return nil, nil, fault.AlreadyExists
	}

	pooled, err := e.ledger.OpenAccount(trx, mint, address)
	if nil != err {
		return nil, nil, err
	}

	escrow := &record.Escrow{
		Owner:         owner,
		Mint:          mint,
		PooledAccount: pooled,
		Balance:       0,
		Delegated:     false,
		Bump:          bump,
	}
	if err := e.put(trx, address, escrow); nil != err {
		return nil, nil, err
	}
	trx.Put(e.handles.MintEscrows, mintIndexKey(mint, address), address.Bytes())

	e.log.Infof("created escrow: %s  mint: %s  owner: %s", address, mint, owner)
	return address, escrow, nil
}

func mintIndexKey(mint *account.Account, address *account.Account) []byte {
	return append(mint.Bytes(), address.Bytes()...)
}

// Deposit - move tokens from a source token account into the pool
func (e *Engine) Deposit(trx storage.Transaction, signer capability.Authority, address *account.Account, source *account.Account, amount uint64) (*record.Escrow, error) {
	if storage.Ledger != trx.Database() {
		return nil, fault.WrongExecutionContext
	}
	escrow, err := e.get(trx, address)
	if nil != err {
		return nil, err
	}
	if !signer.Authorises(escrow.Owner) {
		return nil, fault.InvalidAuthority
	}
	if escrow.Delegated {
		return nil, fault.AccountAlreadyDelegated
	}
	if 0 == amount {
		return nil, fault.InvalidAmount
	}

	src, err := e.ledger.Account(trx, source)
	if nil != err {
		return nil, err
	}
	if src.Amount < amount {
		return nil, fault.InsufficientBalance
	}
	balance, err := util.CheckedAdd(escrow.Balance, amount)
	if nil != err {
		return nil, err
	}

	mint, err := e.ledger.Mint(trx, escrow.Mint)
	if nil != err {
		return nil, err
	}
	err = e.ledger.TransferChecked(trx, source, escrow.PooledAccount, escrow.Mint, amount, mint.Decimals, signer)
	if nil != err {
		return nil, err
	}

	escrow.Balance = balance
	if err := e.put(trx, address, escrow); nil != err {
		return nil, err
	}

	e.log.Infof("deposit: %d  into: %s  balance: %d", amount, address, balance)
	return escrow, nil
}

// Delegate - hand the record to the rollup
//
// the primary copy is flagged delegated and becomes read-only until the
// rollup commits it back
func (e *Engine) Delegate(ledgerTrx storage.Transaction, rollupTrx storage.Transaction, signer capability.Authority, address *account.Account, config DelegateConfig) (*record.Escrow, error) {
	if storage.Ledger != ledgerTrx.Database() || storage.Rollup != rollupTrx.Database() {
		return nil, fault.WrongExecutionContext
	}
	escrow, err := e.get(ledgerTrx, address)
	if nil != err {
		return nil, err
	}
	if !signer.Authorises(escrow.Owner) {
		return nil, fault.InvalidAuthority
	}

	// the program signs the delegation for the record it owns
	c, err := e.capabilityFor(address, escrow)
	if nil != err {
		return nil, err
	}
	defer c.Revoke()

	if escrow.Delegated {
		return nil, fault.AccountAlreadyDelegated
	}

	escrow.Delegated = true
	if err := e.put(ledgerTrx, address, escrow); nil != err {
		return nil, err
	}
	if err := e.delegator.Delegate(rollupTrx, address, escrow, config); nil != err {
		return nil, err
	}

	e.log.Infof("delegated: %s  balance: %d  frequency: %d ms", address, escrow.Balance, config.CommitFrequency)
	return escrow, nil
}

// Transfer - fast transfer between two delegated records in the rollup
//
// only the accounted balances change, real tokens stay in the pooled
// accounts until the commit settles them
func (e *Engine) Transfer(rollupTrx storage.Transaction, signer capability.Authority, sender *account.Account, receiver *account.Account, amount uint64) (*record.Escrow, *record.Escrow, error) {
	if storage.Rollup != rollupTrx.Database() {
		return nil, nil, fault.WrongExecutionContext
	}
	if 0 == amount {
		return nil, nil, fault.InvalidAmount
	}
	from, err := e.get(rollupTrx, sender)
	if nil != err {
		return nil, nil, err
	}
	to, err := e.get(rollupTrx, receiver)
	if nil != err {
		return nil, nil, err
	}
	if !signer.Authorises(from.Owner) {
		return nil, nil, fault.InvalidAuthority
	}
	if sender.Equal(receiver) {
		return nil, nil, fault.SameEscrow
	}
	if !from.Delegated || !to.Delegated {
		return nil, nil, fault.AccountNotDelegated
	}
	if !from.Mint.Equal(to.Mint) {
		return nil, nil, fault.MintMismatch
	}
	if from.Balance < amount {
		return nil, nil, fault.InsufficientBalance
	}

	fromBalance, err := util.CheckedSub(from.Balance, amount)
	if nil != err {
		return nil, nil, err
	}
	toBalance, err := util.CheckedAdd(to.Balance, amount)
	if nil != err {
		return nil, nil, err
	}
	from.Balance = fromBalance
	to.Balance = toBalance

	if err := e.put(rollupTrx, sender, from); nil != err {
		return nil, nil, err
	}
	if err := e.put(rollupTrx, receiver, to); nil != err {
		return nil, nil, err
	}

	e.log.Debugf("transfer: %d  from: %s  to: %s", amount, sender, receiver)
	return from, to, nil
}

// Withdraw - move real tokens between the pooled accounts of two
// undelegated records of the same mint
//
// both accounted balances are then set from the real balances so they
// cannot drift from what the pooled accounts hold
func (e *Engine) Withdraw(trx storage.Transaction, signer capability.Authority, sender *account.Account, receiver *account.Account, amount uint64) (*record.Escrow, *record.Escrow, error) {
	if storage.Ledger != trx.Database() {
		return nil, nil, fault.WrongExecutionContext
	}
	if 0 == amount {
		return nil, nil, fault.InvalidAmount
	}
	from, err := e.get(trx, sender)
	if nil != err {
		return nil, nil, err
	}
	to, err := e.get(trx, receiver)
	if nil != err {
		return nil, nil, err
	}
	if !signer.Authorises(from.Owner) {
		return nil, nil, fault.InvalidAuthority
	}
	if sender.Equal(receiver) {
		return nil, nil, fault.SameEscrow
	}
	if from.Delegated || to.Delegated {
		return nil, nil, fault.AccountAlreadyDelegated
	}
	if !from.Mint.Equal(to.Mint) {
		return nil, nil, fault.MintMismatch
	}

	pooled, err := e.ledger.Account(trx, from.PooledAccount)
	if nil != err {
		return nil, nil, err
	}
	if pooled.Amount < amount || from.Balance < amount {
		return nil, nil, fault.InsufficientBalance
	}

	mint, err := e.ledger.Mint(trx, from.Mint)
	if nil != err {
		return nil, nil, err
	}

	c, err := e.capabilityFor(sender, from)
	if nil != err {
		return nil, nil, err
	}
	err = e.ledger.TransferChecked(trx, from.PooledAccount, to.PooledAccount, from.Mint, amount, mint.Decimals, c)
	c.Revoke()
	if nil != err {
		return nil, nil, err
	}

	if err := e.resync(trx, sender, from); nil != err {
		return nil, nil, err
	}
	if err := e.resync(trx, receiver, to); nil != err {
		return nil, nil, err
	}

	e.log.Infof("withdraw: %d  from: %s  to: %s", amount, sender, receiver)
	return from, to, nil
}

// set the accounted balance from the pooled account
func (e *Engine) resync(trx storage.Transaction, address *account.Account, escrow *record.Escrow) error {
	pooled, err := e.ledger.Account(trx, escrow.PooledAccount)
	if nil != err {
		return err
	}
	escrow.Balance = pooled.Amount
	return e.put(trx, address, escrow)
}
