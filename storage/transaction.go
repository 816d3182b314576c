// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/escrowd/fault"
)

// Transaction - a batch of writes against one database
//
// reads through a transaction see its own pending writes
type Transaction interface {
	Database() Database
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Has(*PoolHandle, []byte) bool
	Commit() error
	Abort()
}

type transactionImpl struct {
	database Database
	access   Access
}

func newTransaction(database Database, access Access) Transaction {
	return &transactionImpl{
		database: database,
		access:   access,
	}
}

func (t *transactionImpl) check(p *PoolHandle) {
	if nil == p || p.database != t.database {
		fault.Panicf("pool does not belong to %s database", t.database)
	}
}

func (t *transactionImpl) Database() Database {
	return t.database
}

func (t *transactionImpl) Put(p *PoolHandle, key []byte, value []byte) {
	t.check(p)
	t.access.Put(p.prefixKey(key), value)
}

func (t *transactionImpl) PutN(p *PoolHandle, key []byte, n uint64) {
	t.Put(p, key, encodeN(n))
}

func (t *transactionImpl) Delete(p *PoolHandle, key []byte) {
	t.check(p)
	t.access.Delete(p.prefixKey(key))
}

func (t *transactionImpl) Get(p *PoolHandle, key []byte) []byte {
	t.check(p)
	value, err := t.access.Get(p.prefixKey(key))
	if leveldb.ErrNotFound == err {
		return nil
	}
	fault.PanicIfError("transaction.Get", err)
	return value
}

func (t *transactionImpl) GetN(p *PoolHandle, key []byte) (uint64, bool) {
	return decodeN(key, t.Get(p, key))
}

func (t *transactionImpl) Has(p *PoolHandle, key []byte) bool {
	t.check(p)
	found, err := t.access.Has(p.prefixKey(key))
	fault.PanicIfError("transaction.Has", err)
	return found
}

func (t *transactionImpl) Commit() error {
	return t.access.Commit()
}

func (t *transactionImpl) Abort() {
	t.access.Abort()
}
