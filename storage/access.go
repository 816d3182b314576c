// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/escrowd/fault"
)

// transaction state errors
var (
	errTransactionInUse  = fault.ProcessError("transaction already in use")
	errTransactionClosed = fault.ProcessError("transaction is closed")
)

// Access - one database plus its pending batch
type Access interface {
	Begin() error
	Put([]byte, []byte)
	Delete([]byte)
	Commit() error
	Abort()
	Get([]byte) ([]byte, error)
	GetCommitted([]byte) ([]byte, error)
	Has([]byte) (bool, error)
	Iterator(*ldb_util.Range) iterator.Iterator
	InUse() bool
}

type accessData struct {
	sync.Mutex
	inUse bool
	db    *leveldb.DB
	batch *leveldb.Batch
	cache Cache
}

func newDA(db *leveldb.DB, cache Cache) Access {
	return &accessData{
		db:    db,
		batch: new(leveldb.Batch),
		cache: cache,
	}
}

func (d *accessData) Begin() error {
	d.Lock()
	defer d.Unlock()

	if d.inUse {
		return errTransactionInUse
	}
	d.inUse = true
	d.batch.Reset()
	d.cache.Clear()
	return nil
}

func (d *accessData) InUse() bool {
	d.Lock()
	defer d.Unlock()
	return d.inUse
}

func (d *accessData) Put(key []byte, value []byte) {
	d.batch.Put(key, value)
	d.cache.Set(dbPut, string(key), value)
}

func (d *accessData) Delete(key []byte) {
	d.batch.Delete(key)
	d.cache.Set(dbDelete, string(key), nil)
}

func (d *accessData) Commit() error {
	d.Lock()
	defer d.Unlock()

	if !d.inUse {
		return errTransactionClosed
	}
	err := d.db.Write(d.batch, nil)
	d.reset()
	return err
}

func (d *accessData) Abort() {
	d.Lock()
	defer d.Unlock()
	d.reset()
}

func (d *accessData) reset() {
	d.batch.Reset()
	d.cache.Clear()
	d.inUse = false
}

// Get - read through the pending batch
func (d *accessData) Get(key []byte) ([]byte, error) {
	value, present, cached := d.cache.Get(string(key))
	if cached {
		if !present {
			return nil, leveldb.ErrNotFound
		}
		return value, nil
	}
	return d.db.Get(key, nil)
}

// GetCommitted - ignore the pending batch
func (d *accessData) GetCommitted(key []byte) ([]byte, error) {
	return d.db.Get(key, nil)
}

func (d *accessData) Has(key []byte) (bool, error) {
	_, present, cached := d.cache.Get(string(key))
	if cached {
		return present, nil
	}
	return d.db.Has(key, nil)
}

func (d *accessData) Iterator(searchRange *ldb_util.Range) iterator.Iterator {
	return d.db.NewIterator(searchRange, nil)
}
