// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/escrowd/fault"
)

// Database - selects one of the two databases
type Database int

// the databases
const (
	Ledger Database = iota
	Rollup
	databaseCount
)

// String - name of the database
func (d Database) String() string {
	switch d {
	case Ledger:
		return "ledger"
	case Rollup:
		return "rollup"
	default:
		return "unknown"
	}
}

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Mints           *PoolHandle `prefix:"M" database:"ledger"`
	TokenAccounts   *PoolHandle `prefix:"A" database:"ledger"`
	Escrows         *PoolHandle `prefix:"E" database:"ledger"`
	MintEscrows     *PoolHandle `prefix:"X" database:"ledger"`
	Commits         *PoolHandle `prefix:"C" database:"ledger"`
	Processed       *PoolHandle `prefix:"P" database:"ledger"`
	TestData        *PoolHandle `prefix:"Z" database:"ledger"`
	RollupEscrows   *PoolHandle `prefix:"E" database:"rollup"`
	Delegations     *PoolHandle `prefix:"D" database:"rollup"`
	RollupProcessed *PoolHandle `prefix:"P" database:"rollup"`
}

// Pool - the set of exported pools
var Pool pools

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentLedgerDBVersion = 0x100
	currentRollupDBVersion = 0x100
)

// holds the database handles
var poolData struct {
	sync.RWMutex
	log    *logger.L
	db     [databaseCount]*leveldb.DB
	access [databaseCount]Access
}

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Initialise - open up the database connections
//
// this must be called before any pool is accessed
func Initialise(database string, readOnly bool) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.db[Ledger] {
		return fault.AlreadyInitialised
	}

	poolData.log = logger.New("storage")

	ok := false
	defer func() {
		if !ok {
			dbClose()
		}
	}()

	versions := [databaseCount]int{
		Ledger: currentLedgerDBVersion,
		Rollup: currentRollupDBVersion,
	}

	for d := Ledger; d < databaseCount; d += 1 {
		name := database + "-" + d.String() + ".leveldb"
		db, version, err := getDB(name, readOnly)
		if nil != err {
			return err
		}
		poolData.db[d] = db

		if version > versions[d] {
			poolData.log.Criticalf("%s database version: %d > current version: %d", d, version, versions[d])
			return fmt.Errorf("%s database version: %d > current version: %d", d, version, versions[d])
		}
		if 0 == version {
			if readOnly {
				return fmt.Errorf("%s database is empty", d)
			}
			if err := putVersion(db, versions[d]); nil != err {
				return err
			}
		}
		poolData.log.Infof("opened %s database: %s  version: 0x%x", d, name, versions[d])

		poolData.access[d] = newDA(db, newCache())
	}

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		var d Database
		switch dbName := fieldInfo.Tag.Get("database"); dbName {
		case "ledger":
			d = Ledger
		case "rollup":
			d = Rollup
		default:
			return fmt.Errorf("pool: %v  has invalid database: %q", fieldInfo, dbName)
		}

		p := &PoolHandle{
			prefix:   prefix,
			limit:    limit,
			database: d,
			access:   poolData.access[d],
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	ok = true // prevent db close
	return nil
}

func dbClose() {
	for d := range poolData.db {
		if nil != poolData.db[d] {
			poolData.db[d].Close()
			poolData.db[d] = nil
		}
		poolData.access[d] = nil
	}
}

// Finalise - close the database connections
func Finalise() {
	poolData.Lock()
	defer poolData.Unlock()

	dbClose()
	Pool = pools{}
	if nil != poolData.log {
		poolData.log.Info("finished")
		poolData.log.Flush()
	}
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

// NewDBTransaction - begin a batch on one database
//
// only one transaction may be open per database; the caller must
// Commit or Abort before another can begin
func NewDBTransaction(database Database) (Transaction, error) {
	poolData.RLock()
	defer poolData.RUnlock()

	if database < Ledger || database >= databaseCount {
		return nil, fault.InvalidContext
	}
	access := poolData.access[database]
	if nil == access {
		return nil, fault.DatabaseIsNotSet
	}
	if err := access.Begin(); nil != err {
		return nil, err
	}
	return newTransaction(database, access), nil
}
