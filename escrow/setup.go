// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package escrow - per (mint, owner) escrow records, their deposits,
// delegation to the rollup, fast transfers while delegated, the commit
// back to the ledger and withdrawals between pooled accounts
//
// every operation receives the transaction of the context it runs in
// and leaves all of its writes in that transaction, so an error from any
// step aborts the whole operation
package escrow

//go:generate mockgen -source=setup.go -destination=mocks/escrow.go -package=mocks

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/capability"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/merkle"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/tokenledger"
)

// Namespace - first seed of every escrow address
const Namespace = "token_escrow"

// MaximumBatch - most records in one commit
const MaximumBatch = 64

// DelegateConfig - how the rollup should hold a delegated record
type DelegateConfig struct {
	CommitFrequency uint32           // milliseconds
	Validator       *account.Account // optional
}

// Delegator - the rollup side of delegation
type Delegator interface {
	Delegate(rollup storage.Transaction, address *account.Account, escrow *record.Escrow, config DelegateConfig) error
}

// Committer - the rollup side of commit and undelegate
//
// stages the final state of every address into the ledger transaction
// with the delegated flag cleared and the removal of the rollup copies
// into the rollup transaction
type Committer interface {
	CommitAndUndelegate(ledger storage.Transaction, rollup storage.Transaction, addresses []*account.Account) ([]*record.Escrow, error)
}

// Handles - pools used by the engine
type Handles struct {
	Escrows       *storage.PoolHandle
	MintEscrows   *storage.PoolHandle
	Commits       *storage.PoolHandle
	RollupEscrows *storage.PoolHandle
}

// Engine - the escrow program
type Engine struct {
	log       *logger.L
	program   *account.Account
	ledger    tokenledger.Ledger
	handles   Handles
	delegator Delegator
	committer Committer
}

// New - create an engine bound to a fixed program identity
func New(log *logger.L, program *account.Account, ledger tokenledger.Ledger, handles Handles, delegator Delegator, committer Committer) *Engine {
	if nil == program {
		fault.Panic("escrow: program identity is required")
	}
	return &Engine{
		log:       log,
		program:   program,
		ledger:    ledger,
		handles:   handles,
		delegator: delegator,
		committer: committer,
	}
}

// Program - the program identity
func (e *Engine) Program() *account.Account {
	return e.program
}

// Ledger - the token ledger collaborator
func (e *Engine) Ledger() tokenledger.Ledger {
	return e.ledger
}

func seeds(mint *account.Account, owner *account.Account) [][]byte {
	return [][]byte{[]byte(Namespace), mint.PublicKeyBytes(), owner.PublicKeyBytes()}
}

// Address - the deterministic address of the (mint, owner) escrow
func (e *Engine) Address(mint *account.Account, owner *account.Account) (*account.Account, uint8, error) {
	if nil == mint || nil == owner {
		return nil, 0, fault.MissingParameters
	}
	return capability.FindAddress(e.program, seeds(mint, owner))
}

// capabilityFor - re-derive the record's signing capability and check
// that it belongs to the address the record was read from
func (e *Engine) capabilityFor(address *account.Account, escrow *record.Escrow) (*capability.Capability, error) {
	c, err := capability.New(e.program, seeds(escrow.Mint, escrow.Owner), escrow.Bump)
	if nil != err {
		return nil, err
	}
	if !c.Account().Equal(address) {
		c.Revoke()
		return nil, fault.NotDerivedAddress
	}
	return c, nil
}

func (e *Engine) pool(trx storage.Transaction) *storage.PoolHandle {
	if storage.Rollup == trx.Database() {
		return e.handles.RollupEscrows
	}
	return e.handles.Escrows
}

// get - read and validate a record in the transaction's context
func (e *Engine) get(trx storage.Transaction, address *account.Account) (*record.Escrow, error) {
	if nil == address {
		return nil, fault.MissingParameters
	}
	packed := trx.Get(e.pool(trx), address.Bytes())
	if nil == packed {
		if storage.Rollup == trx.Database() {
			return nil, fault.AccountNotDelegated
		}
		return nil, fault.EscrowNotFound
	}
	return record.UnpackEscrow(packed)
}

func (e *Engine) put(trx storage.Transaction, address *account.Account, escrow *record.Escrow) error {
	packed, err := escrow.Pack()
	if nil != err {
		return err
	}
	trx.Put(e.pool(trx), address.Bytes(), packed)
	return nil
}

// Read - committed state of an escrow in one database
func (e *Engine) Read(database storage.Database, address *account.Account) (*record.Escrow, error) {
	if nil == address {
		return nil, fault.MissingParameters
	}
	p := e.handles.Escrows
	if storage.Rollup == database {
		p = e.handles.RollupEscrows
	}
	packed := p.Get(address.Bytes())
	if nil == packed {
		if storage.Rollup == database {
			return nil, fault.AccountNotDelegated
		}
		return nil, fault.EscrowNotFound
	}
	return record.UnpackEscrow(packed)
}

// Receipt - a stored commit receipt
func (e *Engine) Receipt(id merkle.Digest) (*record.Commit, error) {
	packed := e.handles.Commits.Get(id[:])
	if nil == packed {
		return nil, fault.EscrowNotFound
	}
	return record.UnpackCommit(packed)
}
