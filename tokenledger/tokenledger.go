// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package tokenledger - mints and token accounts held in the primary
// ledger database
//
// the escrow only needs the ledger to move N units from one token
// account to another under a signer or a derived capability; mint
// creation and minting exist so that a running node can be funded
package tokenledger

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/capability"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/util"
)

const identitySeed = "escrowd token ledger"

// Ledger - the token primitive consumed by the escrow
type Ledger interface {
	Identity() *account.Account
	CreateMint(trx storage.Transaction, mint *account.Account, authority *account.Account, decimals uint8) error
	MintTo(trx storage.Transaction, mint *account.Account, owner *account.Account, amount uint64, authority capability.Authority) (*account.Account, error)
	AssociatedAddress(mint *account.Account, owner *account.Account) (*account.Account, error)
	OpenAccount(trx storage.Transaction, mint *account.Account, owner *account.Account) (*account.Account, error)
	Mint(trx storage.Transaction, mint *account.Account) (*record.Mint, error)
	Account(trx storage.Transaction, address *account.Account) (*record.TokenAccount, error)
	TransferChecked(trx storage.Transaction, from *account.Account, to *account.Account, mint *account.Account, amount uint64, decimals uint8, authority capability.Authority) error
}

// Handles - the pools the ledger uses
type Handles struct {
	Mints         *storage.PoolHandle
	TokenAccounts *storage.PoolHandle
}

type ledger struct {
	log      *logger.L
	identity *account.Account
	handles  Handles
}

// New - create a token ledger over the primary ledger pools
func New(log *logger.L, handles Handles, testnet bool) Ledger {
	id := sha3.Sum256([]byte(identitySeed))
	return &ledger{
		log: log,
		identity: &account.Account{
			AccountInterface: &account.DerivedAccount{
				Test:    testnet,
				Address: id[:],
			},
		},
		handles: handles,
	}
}

// Identity - the program identity used to derive associated accounts
func (l *ledger) Identity() *account.Account {
	return l.identity
}

// CreateMint - register metadata for a new mint
func (l *ledger) CreateMint(trx storage.Transaction, mint *account.Account, authority *account.Account, decimals uint8) error {
	if nil == mint || nil == authority {
		return fault.MissingParameters
	}
	key := mint.Bytes()
	if trx.Has(l.handles.Mints, key) {
		return fault.MintAlreadyExists
	}
	m := &record.Mint{
		Authority: authority,
		Decimals:  decimals,
	}
	packed, err := m.Pack()
	if nil != err {
		return err
	}
	trx.Put(l.handles.Mints, key, packed)
	l.log.Infof("create mint: %s  decimals: %d", mint, decimals)
	return nil
}

// MintTo - increase supply and credit the owner's associated account
func (l *ledger) MintTo(trx storage.Transaction, mint *account.Account, owner *account.Account, amount uint64, authority capability.Authority) (*account.Account, error) {
	if 0 == amount {
		return nil, fault.InvalidAmount
	}
	if nil == owner {
		return nil, fault.MissingParameters
	}
	// pooled accounts only move through the escrow instructions
	if account.Derived == owner.KeyType() {
		return nil, fault.DerivedOwner
	}
	m, err := l.Mint(trx, mint)
	if nil != err {
		return nil, err
	}
	if !authority.Authorises(m.Authority) {
		return nil, fault.InvalidAuthority
	}
	m.Supply, err = util.CheckedAdd(m.Supply, amount)
	if nil != err {
		return nil, err
	}

	address, err := l.OpenAccount(trx, mint, owner)
	if nil != err {
		return nil, err
	}
	destination, err := l.Account(trx, address)
	if nil != err {
		return nil, err
	}
	destination.Amount, err = util.CheckedAdd(destination.Amount, amount)
	if nil != err {
		return nil, err
	}

	if err := l.putMint(trx, mint, m); nil != err {
		return nil, err
	}
	if err := l.putAccount(trx, address, destination); nil != err {
		return nil, err
	}
	l.log.Debugf("mint to: %s  amount: %d  supply: %d", address, amount, m.Supply)
	return address, nil
}

// AssociatedAddress - the deterministic token account for (mint, owner)
func (l *ledger) AssociatedAddress(mint *account.Account, owner *account.Account) (*account.Account, error) {
	if nil == mint || nil == owner {
		return nil, fault.MissingParameters
	}
	address, _, err := capability.FindAddress(l.identity, [][]byte{owner.PublicKeyBytes(), mint.PublicKeyBytes()})
	return address, err
}

// OpenAccount - return the associated account, creating it if needed
func (l *ledger) OpenAccount(trx storage.Transaction, mint *account.Account, owner *account.Account) (*account.Account, error) {
	if _, err := l.Mint(trx, mint); nil != err {
		return nil, err
	}
	address, err := l.AssociatedAddress(mint, owner)
	if nil != err {
		return nil, err
	}
	if trx.Has(l.handles.TokenAccounts, address.Bytes()) {
		return address, nil
	}
	a := &record.TokenAccount{
		Mint:  mint,
		Owner: owner,
	}
	if err := l.putAccount(trx, address, a); nil != err {
		return nil, err
	}
	l.log.Debugf("open token account: %s  owner: %s", address, owner)
	return address, nil
}

// Mint - read mint metadata
func (l *ledger) Mint(trx storage.Transaction, mint *account.Account) (*record.Mint, error) {
	if nil == mint {
		return nil, fault.MissingParameters
	}
	packed := trx.Get(l.handles.Mints, mint.Bytes())
	if nil == packed {
		return nil, fault.MintNotFound
	}
	return record.UnpackMint(packed)
}

// Account - read a token account
func (l *ledger) Account(trx storage.Transaction, address *account.Account) (*record.TokenAccount, error) {
	if nil == address {
		return nil, fault.MissingParameters
	}
	packed := trx.Get(l.handles.TokenAccounts, address.Bytes())
	if nil == packed {
		return nil, fault.TokenAccountNotFound
	}
	return record.UnpackTokenAccount(packed)
}

// TransferChecked - move amount between two accounts of the same mint
func (l *ledger) TransferChecked(trx storage.Transaction, from *account.Account, to *account.Account, mint *account.Account, amount uint64, decimals uint8, authority capability.Authority) error {
	if 0 == amount {
		return fault.InvalidAmount
	}
	m, err := l.Mint(trx, mint)
	if nil != err {
		return err
	}
	if m.Decimals != decimals {
		return fault.DecimalsMismatch
	}

	source, err := l.Account(trx, from)
	if nil != err {
		return err
	}
	destination, err := l.Account(trx, to)
	if nil != err {
		return err
	}
	if !source.Mint.Equal(mint) || !destination.Mint.Equal(mint) {
		return fault.MintMismatch
	}
	if !authority.Authorises(source.Owner) {
		return fault.InvalidAuthority
	}
	if source.Amount < amount {
		return fault.InsufficientBalance
	}
	if from.Equal(to) {
		return nil
	}

	source.Amount, err = util.CheckedSub(source.Amount, amount)
	if nil != err {
		return err
	}
	destination.Amount, err = util.CheckedAdd(destination.Amount, amount)
	if nil != err {
		return err
	}

	if err := l.putAccount(trx, from, source); nil != err {
		return err
	}
	if err := l.putAccount(trx, to, destination); nil != err {
		return err
	}
	l.log.Debugf("transfer: %d  from: %s  to: %s", amount, from, to)
	return nil
}

func (l *ledger) putMint(trx storage.Transaction, mint *account.Account, m *record.Mint) error {
	packed, err := m.Pack()
	if nil != err {
		return err
	}
	trx.Put(l.handles.Mints, mint.Bytes(), packed)
	return nil
}

func (l *ledger) putAccount(trx storage.Transaction, address *account.Account, a *record.TokenAccount) error {
	packed, err := a.Pack()
	if nil != err {
		return err
	}
	trx.Put(l.handles.TokenAccounts, address.Bytes(), packed)
	return nil
}
