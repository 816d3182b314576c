// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rollup

import (
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/storage"
)

var start = time.Unix(1600000000, 0)

func setup(t *testing.T) (*Rollup, storage.Transaction, storage.Transaction) {
	err := fixtures.SetupTestStorage()
	assert.Nil(t, err, "storage")

	r := New(logger.New(fixtures.LogCategory), fixtures.NewKey().Account(), Handles{
		Escrows:       storage.Pool.RollupEscrows,
		Delegations:   storage.Pool.Delegations,
		LedgerEscrows: storage.Pool.Escrows,
	})
	r.now = func() time.Time { return start }

	ledgerTrx, err := storage.NewDBTransaction(storage.Ledger)
	assert.Nil(t, err, "ledger transaction")
	rollupTrx, err := storage.NewDBTransaction(storage.Rollup)
	assert.Nil(t, err, "rollup transaction")
	return r, ledgerTrx, rollupTrx
}

func teardown(ledgerTrx storage.Transaction, rollupTrx storage.Transaction) {
	ledgerTrx.Abort()
	rollupTrx.Abort()
	fixtures.TeardownTestStorage()
}

// a record as the ledger holds it while delegated
func delegatedRecord(t *testing.T, ledgerTrx storage.Transaction, balance uint64) (*account.Account, *record.Escrow) {
	address := fixtures.NewKey().Account()
	e := &record.Escrow{
		Owner:         fixtures.NewKey().Account(),
		Mint:          fixtures.NewKey().Account(),
		PooledAccount: fixtures.NewKey().Account(),
		Balance:       balance,
		Delegated:     true,
		Bump:          255,
	}
	packed, err := e.Pack()
	assert.Nil(t, err, "pack")
	ledgerTrx.Put(storage.Pool.Escrows, address.Bytes(), packed)
	return address, e
}

func TestDelegate(t *testing.T) {
	r, ledgerTrx, rollupTrx := setup(t)
	defer teardown(ledgerTrx, rollupTrx)

	address, e := delegatedRecord(t, ledgerTrx, 100)

	err := r.Delegate(ledgerTrx, address, e, escrow.DelegateConfig{})
	assert.Equal(t, fault.WrongExecutionContext, err, "ledger transaction")

	err = r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{Validator: fixtures.NewKey().Account()})
	assert.Equal(t, fault.ValidatorMismatch, err, "validator")

	err = r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{CommitFrequency: 50})
	assert.Equal(t, fault.InvalidCommitFrequency, err, "below minimum")

	err = r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{Validator: r.Validator()})
	assert.Nil(t, err, "delegate")

	err = r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{})
	assert.Equal(t, fault.AccountAlreadyDelegated, err, "second delegate")

	assert.Nil(t, rollupTrx.Commit(), "commit")

	d, err := r.Delegation(address)
	assert.Nil(t, err, "delegation")
	assert.Equal(t, uint32(DefaultCommitFrequency), d.CommitFrequency, "default frequency")
	assert.Equal(t, milliseconds(start), d.DelegatedAt, "delegated at")
}

func TestFrequencyBounds(t *testing.T) {
	r, ledgerTrx, rollupTrx := setup(t)
	defer teardown(ledgerTrx, rollupTrx)

	assert.Equal(t, fault.InvalidCommitFrequency, r.SetFrequencyBounds(0, 10), "zero minimum")
	assert.Equal(t, fault.InvalidCommitFrequency, r.SetFrequencyBounds(10, 5), "inverted")
	assert.Nil(t, r.SetFrequencyBounds(1000, 2000), "bounds")

	minimum, maximum := r.FrequencyBounds()
	assert.Equal(t, uint32(1000), minimum, "minimum")
	assert.Equal(t, uint32(2000), maximum, "maximum")

	address, e := delegatedRecord(t, ledgerTrx, 1)
	err := r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{CommitFrequency: 3000})
	assert.Equal(t, fault.InvalidCommitFrequency, err, "above maximum")

	// the default is outside these bounds
	err = r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{})
	assert.Equal(t, fault.InvalidCommitFrequency, err, "default")
}

func TestCommitAndUndelegate(t *testing.T) {
	r, ledgerTrx, rollupTrx := setup(t)
	defer teardown(ledgerTrx, rollupTrx)

	address, e := delegatedRecord(t, ledgerTrx, 100)
	err := r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{})
	assert.Nil(t, err, "delegate")

	// accounting inside the rollup
	e.Balance = 60
	packed, err := e.Pack()
	assert.Nil(t, err, "pack")
	rollupTrx.Put(storage.Pool.RollupEscrows, address.Bytes(), packed)

	_, err = r.CommitAndUndelegate(ledgerTrx, rollupTrx, []*account.Account{fixtures.NewKey().Account()})
	assert.Equal(t, fault.AccountNotDelegated, err, "unknown")

	states, err := r.CommitAndUndelegate(ledgerTrx, rollupTrx, []*account.Account{address})
	assert.Nil(t, err, "commit")
	assert.Equal(t, 1, len(states), "states")
	assert.False(t, states[0].Delegated, "delegated")
	assert.Equal(t, uint64(60), states[0].Balance, "balance")

	primary, err := record.UnpackEscrow(ledgerTrx.Get(storage.Pool.Escrows, address.Bytes()))
	assert.Nil(t, err, "ledger copy")
	assert.False(t, primary.Delegated, "ledger delegated")
	assert.Equal(t, uint64(60), primary.Balance, "ledger balance")

	assert.False(t, rollupTrx.Has(storage.Pool.RollupEscrows, address.Bytes()), "rollup copy")
	assert.False(t, rollupTrx.Has(storage.Pool.Delegations, address.Bytes()), "delegation")

	_, err = r.CommitAndUndelegate(ledgerTrx, rollupTrx, []*account.Account{address})
	assert.Equal(t, fault.AccountNotDelegated, err, "already undelegated")
}

func TestCommitKeepsDelegation(t *testing.T) {
	r, ledgerTrx, rollupTrx := setup(t)
	defer teardown(ledgerTrx, rollupTrx)

	address, e := delegatedRecord(t, ledgerTrx, 100)
	err := r.Delegate(rollupTrx, address, e, escrow.DelegateConfig{})
	assert.Nil(t, err, "delegate")

	e.Balance = 40
	packed, err := e.Pack()
	assert.Nil(t, err, "pack")
	rollupTrx.Put(storage.Pool.RollupEscrows, address.Bytes(), packed)

	committed, states, err := r.Commit(ledgerTrx, rollupTrx, []*account.Account{fixtures.NewKey().Account(), address})
	assert.Nil(t, err, "commit")
	assert.Equal(t, 1, len(committed), "undelegated address skipped")
	assert.True(t, address.Equal(committed[0]), "committed address")
	assert.True(t, states[0].Delegated, "delegated")
	assert.Equal(t, uint64(40), states[0].Balance, "balance")

	primary, err := record.UnpackEscrow(ledgerTrx.Get(storage.Pool.Escrows, address.Bytes()))
	assert.Nil(t, err, "ledger copy")
	assert.True(t, primary.Delegated, "ledger delegated")
	assert.Equal(t, uint64(40), primary.Balance, "ledger balance")
	assert.True(t, rollupTrx.Has(storage.Pool.RollupEscrows, address.Bytes()), "rollup copy")
}

func TestDue(t *testing.T) {
	r, ledgerTrx, rollupTrx := setup(t)
	defer teardown(ledgerTrx, rollupTrx)

	fast, e1 := delegatedRecord(t, ledgerTrx, 1)
	slow, e2 := delegatedRecord(t, ledgerTrx, 2)
	assert.Nil(t, r.Delegate(rollupTrx, fast, e1, escrow.DelegateConfig{CommitFrequency: 400}), "fast")
	assert.Nil(t, r.Delegate(rollupTrx, slow, e2, escrow.DelegateConfig{CommitFrequency: 5000}), "slow")
	assert.Nil(t, rollupTrx.Commit(), "commit")

	due, err := r.Due(start.Add(100 * time.Millisecond))
	assert.Nil(t, err, "due")
	assert.Equal(t, 0, len(due), "nothing due")

	due, err = r.Due(start.Add(500 * time.Millisecond))
	assert.Nil(t, err, "due")
	assert.Equal(t, 1, len(due), "fast due")
	assert.True(t, fast.Equal(due[0]), "fast")

	r.Committed(due, start.Add(500*time.Millisecond))
	due, err = r.Due(start.Add(600 * time.Millisecond))
	assert.Nil(t, err, "due")
	assert.Equal(t, 0, len(due), "recently committed")

	due, err = r.Due(start.Add(6 * time.Second))
	assert.Nil(t, err, "due")
	assert.Equal(t, 2, len(due), "both due")
}

func TestDueAfterRedelegate(t *testing.T) {
	r, ledgerTrx, rollupTrx := setup(t)
	defer teardown(ledgerTrx, rollupTrx)

	address, e := delegatedRecord(t, ledgerTrx, 10)
	config := escrow.DelegateConfig{CommitFrequency: 400}
	assert.Nil(t, r.Delegate(rollupTrx, address, e, config), "delegate")
	assert.Nil(t, ledgerTrx.Commit(), "ledger commit")
	assert.Nil(t, rollupTrx.Commit(), "rollup commit")

	r.Committed([]*account.Account{address}, start.Add(500*time.Millisecond))

	first, err := storage.NewDBTransaction(storage.Ledger)
	assert.Nil(t, err, "ledger transaction")
	second, err := storage.NewDBTransaction(storage.Rollup)
	assert.Nil(t, err, "rollup transaction")
	_, err = r.CommitAndUndelegate(first, second, []*account.Account{address})
	assert.Nil(t, err, "undelegate")

	// delegated again before the next tick
	r.now = func() time.Time { return start.Add(time.Second) }
	assert.Nil(t, r.Delegate(second, address, e, config), "delegate again")
	assert.Nil(t, first.Commit(), "ledger commit")
	assert.Nil(t, second.Commit(), "rollup commit")

	due, err := r.Due(start.Add(1200 * time.Millisecond))
	assert.Nil(t, err, "due")
	assert.Equal(t, 0, len(due), "frequency counts from the new delegation")

	due, err = r.Due(start.Add(1400 * time.Millisecond))
	assert.Nil(t, err, "due")
	assert.Equal(t, 1, len(due), "due after the new delegation")
}
