// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test setup: logger, databases and keys
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/storage"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - start logging to a scratch directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

// SetupTestStorage - logger plus empty ledger and rollup databases
func SetupTestStorage() error {
	SetupTestLogger()
	return storage.Initialise(filepath.Join(dir, "escrow"), storage.ReadWrite)
}

// TeardownTestStorage - close databases and remove all files
func TeardownTestStorage() {
	storage.Finalise()
	TeardownTestLogger()
}

// NewKey - a fresh test network key
func NewKey() *account.PrivateKey {
	privateKey, err := account.NewPrivateKey(true)
	if nil != err {
		panic(err)
	}
	return privateKey
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
