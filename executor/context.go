// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/instruction"
	"github.com/bitmark-inc/escrowd/storage"
)

// Context - one execution domain, runs one operation at a time
type Context interface {
	Name() instruction.Context
	Database() storage.Database
	Execute(func(storage.Transaction) error) error
}

type domain struct {
	sync.Mutex
	log      *logger.L
	name     instruction.Context
	database storage.Database
}

func newDomain(log *logger.L, name instruction.Context, database storage.Database) *domain {
	return &domain{
		log:      log,
		name:     name,
		database: database,
	}
}

func (d *domain) Name() instruction.Context {
	return d.name
}

func (d *domain) Database() storage.Database {
	return d.database
}

// Execute - run f inside a transaction of this domain
//
// commits when f succeeds, aborts otherwise
func (d *domain) Execute(f func(storage.Transaction) error) error {
	d.Lock()
	defer d.Unlock()

	trx, err := storage.NewDBTransaction(d.database)
	if nil != err {
		return err
	}
	if err := f(trx); nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

// executeBoth - run f with transactions of both domains
//
// locks are always taken primary then rollup, and the ledger commits
// before the rollup
func executeBoth(primary *domain, rollup *domain, f func(storage.Transaction, storage.Transaction) error) error {
	primary.Lock()
	defer primary.Unlock()
	rollup.Lock()
	defer rollup.Unlock()

	ledgerTrx, err := storage.NewDBTransaction(primary.database)
	if nil != err {
		return err
	}
	rollupTrx, err := storage.NewDBTransaction(rollup.database)
	if nil != err {
		ledgerTrx.Abort()
		return err
	}

	if err := f(ledgerTrx, rollupTrx); nil != err {
		ledgerTrx.Abort()
		rollupTrx.Abort()
		return err
	}

	if err := ledgerTrx.Commit(); nil != err {
		rollupTrx.Abort()
		return err
	}

	// ledger is already committed
	err = rollupTrx.Commit()
	fault.PanicIfError("executor: rollup commit after ledger commit", err)
	return nil
}

// read - run f against a transaction that is always discarded
func (d *domain) read(f func(storage.Transaction) error) error {
	d.Lock()
	defer d.Unlock()

	trx, err := storage.NewDBTransaction(d.database)
	if nil != err {
		return err
	}
	defer trx.Abort()
	return f(trx)
}
