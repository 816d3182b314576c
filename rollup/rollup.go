// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rollup - the delegated execution context
//
// holds delegated copies of escrow records and their delegation
// metadata in the rollup database, and hands final states back to the
// ledger either periodically or on undelegation
package rollup

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/storage"
)

// commit frequency limits in milliseconds
const (
	DefaultCommitFrequency = 30000
	MinimumCommitFrequency = 100
	MaximumCommitFrequency = 0xffffffff
)

// Handles - pools used by the rollup
type Handles struct {
	Escrows       *storage.PoolHandle // rollup copies
	Delegations   *storage.PoolHandle
	LedgerEscrows *storage.PoolHandle
}

// Rollup - the rollup context state
type Rollup struct {
	sync.RWMutex

	log       *logger.L
	validator *account.Account
	handles   Handles
	minimum   uint32
	maximum   uint32

	// unix milliseconds of the last periodic commit per address
	lastCommit map[string]uint64

	now func() time.Time
}

// New - create the rollup context for a validator identity
func New(log *logger.L, validator *account.Account, handles Handles) *Rollup {
	return &Rollup{
		log:        log,
		validator:  validator,
		handles:    handles,
		minimum:    MinimumCommitFrequency,
		maximum:    MaximumCommitFrequency,
		lastCommit: make(map[string]uint64),
		now:        time.Now,
	}
}

// Validator - identity of this rollup
func (r *Rollup) Validator() *account.Account {
	return r.validator
}

// SetFrequencyBounds - change the accepted commit frequency range
func (r *Rollup) SetFrequencyBounds(minimum uint32, maximum uint32) error {
	if 0 == minimum || minimum > maximum {
		return fault.InvalidCommitFrequency
	}
	r.Lock()
	r.minimum = minimum
	r.maximum = maximum
	r.Unlock()
	r.log.Infof("commit frequency bounds: %d..%d ms", minimum, maximum)
	return nil
}

// FrequencyBounds - current accepted commit frequency range
func (r *Rollup) FrequencyBounds() (uint32, uint32) {
	r.RLock()
	defer r.RUnlock()
	return r.minimum, r.maximum
}

func milliseconds(t time.Time) uint64 {
	return uint64(t.UnixNano() / int64(time.Millisecond))
}

// Delegate - accept a record handed over by the ledger
func (r *Rollup) Delegate(trx storage.Transaction, address *account.Account, e *record.Escrow, config escrow.DelegateConfig) error {
	if storage.Rollup != trx.Database() {
		return fault.WrongExecutionContext
	}
	if nil != config.Validator && !config.Validator.Equal(r.validator) {
		return fault.ValidatorMismatch
	}

	frequency := config.CommitFrequency
	if 0 == frequency {
		frequency = DefaultCommitFrequency
	}
	minimum, maximum := r.FrequencyBounds()
	if frequency < minimum || frequency > maximum {
		return fault.InvalidCommitFrequency
	}

	key := address.Bytes()
	if trx.Has(r.handles.Escrows, key) {
		return fault.AccountAlreadyDelegated
	}

	delegated := *e
	delegated.Delegated = true
	packed, err := delegated.Pack()
	if nil != err {
		return err
	}
	trx.Put(r.handles.Escrows, key, packed)

	d := &record.Delegation{
		Validator:       r.validator,
		CommitFrequency: frequency,
		DelegatedAt:     milliseconds(r.now()),
	}
	packed, err = d.Pack()
	if nil != err {
		return err
	}
	trx.Put(r.handles.Delegations, key, packed)

	r.log.Debugf("accepted: %s  frequency: %d ms", address, frequency)
	return nil
}

// load - rollup copy and ledger copy of a delegated record
func (r *Rollup) load(ledgerTrx storage.Transaction, rollupTrx storage.Transaction, address *account.Account) (*record.Escrow, *record.Escrow, error) {
	key := address.Bytes()
	packed := rollupTrx.Get(r.handles.Escrows, key)
	if nil == packed {
		return nil, nil, fault.AccountNotDelegated
	}
	delegated, err := record.UnpackEscrow(packed)
	if nil != err {
		return nil, nil, err
	}

	packed = ledgerTrx.Get(r.handles.LedgerEscrows, key)
	if nil == packed {
		return nil, nil, fault.EscrowNotFound
	}
	primary, err := record.UnpackEscrow(packed)
	if nil != err {
		return nil, nil, err
	}
	if !primary.Delegated {
		return nil, nil, fault.AccountNotDelegated
	}
	if !primary.Mint.Equal(delegated.Mint) || !primary.PooledAccount.Equal(delegated.PooledAccount) {
		return nil, nil, fault.MintMismatch
	}
	return delegated, primary, nil
}

// CommitAndUndelegate - stage final states into the ledger and release
// the rollup copies
func (r *Rollup) CommitAndUndelegate(ledgerTrx storage.Transaction, rollupTrx storage.Transaction, addresses []*account.Account) ([]*record.Escrow, error) {
	if storage.Ledger != ledgerTrx.Database() || storage.Rollup != rollupTrx.Database() {
		return nil, fault.WrongExecutionContext
	}

	states := make([]*record.Escrow, 0, len(addresses))
	for _, address := range addresses {
		delegated, _, err := r.load(ledgerTrx, rollupTrx, address)
		if nil != err {
			return nil, err
		}

		final := *delegated
		final.Delegated = false
		packed, err := final.Pack()
		if nil != err {
			return nil, err
		}

		key := address.Bytes()
		ledgerTrx.Put(r.handles.LedgerEscrows, key, packed)
		rollupTrx.Delete(r.handles.Escrows, key)
		rollupTrx.Delete(r.handles.Delegations, key)

		states = append(states, &final)
	}
	return states, nil
}

// Commit - write the accounted balances to the ledger while keeping the
// records delegated
//
// addresses no longer delegated are skipped; returns the addresses
// committed and their states
func (r *Rollup) Commit(ledgerTrx storage.Transaction, rollupTrx storage.Transaction, addresses []*account.Account) ([]*account.Account, []*record.Escrow, error) {
	if storage.Ledger != ledgerTrx.Database() || storage.Rollup != rollupTrx.Database() {
		return nil, nil, fault.WrongExecutionContext
	}

	committed := make([]*account.Account, 0, len(addresses))
	states := make([]*record.Escrow, 0, len(addresses))
	for _, address := range addresses {
		if !rollupTrx.Has(r.handles.Escrows, address.Bytes()) {
			continue
		}
		delegated, primary, err := r.load(ledgerTrx, rollupTrx, address)
		if nil != err {
			return nil, nil, err
		}
		primary.Balance = delegated.Balance
		packed, err := primary.Pack()
		if nil != err {
			return nil, nil, err
		}
		ledgerTrx.Put(r.handles.LedgerEscrows, address.Bytes(), packed)
		committed = append(committed, address)
		states = append(states, primary)
	}
	return committed, states, nil
}

// Committed - note a completed periodic commit
func (r *Rollup) Committed(addresses []*account.Account, at time.Time) {
	ms := milliseconds(at)
	r.Lock()
	for _, address := range addresses {
		r.lastCommit[string(address.Bytes())] = ms
	}
	r.Unlock()
}

// Due - delegated records whose commit frequency has elapsed
func (r *Rollup) Due(now time.Time) ([]*account.Account, error) {
	ms := milliseconds(now)
	due := make([]*account.Account, 0)
	seen := make(map[string]struct{})

	r.Lock()
	defer r.Unlock()

	err := r.handles.Delegations.NewFetchCursor().Map(func(key []byte, value []byte) error {
		d, err := record.UnpackDelegation(value)
		if nil != err {
			return err
		}
		seen[string(key)] = struct{}{}
		// a commit time from an earlier delegation does not count
		last, ok := r.lastCommit[string(key)]
		if !ok || last < d.DelegatedAt {
			last = d.DelegatedAt
		}
		if ms < last || ms-last < uint64(d.CommitFrequency) {
			return nil
		}
		address, err := account.AccountFromBytes(key)
		if nil != err {
			return err
		}
		due = append(due, address)
		return nil
	})
	if nil != err {
		return nil, err
	}

	// records no longer delegated
	for k := range r.lastCommit {
		if _, ok := seen[k]; !ok {
			delete(r.lastCommit, k)
		}
	}
	return due, nil
}

// Each - call f for every committed delegated address
func (r *Rollup) Each(f func(*account.Account) error) error {
	return r.handles.Delegations.NewFetchCursor().Map(func(key []byte, value []byte) error {
		address, err := account.AccountFromBytes(key)
		if nil != err {
			return err
		}
		return f(address)
	})
}

// Delegation - committed delegation metadata of a record
func (r *Rollup) Delegation(address *account.Account) (*record.Delegation, error) {
	packed := r.handles.Delegations.Get(address.Bytes())
	if nil == packed {
		return nil, fault.AccountNotDelegated
	}
	return record.UnpackDelegation(packed)
}
