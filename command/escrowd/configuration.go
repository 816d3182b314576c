// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/configuration"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/rollup"
	"github.com/bitmark-inc/escrowd/rpc/listeners"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultKeyFile         = "rpc.key"
	defaultCertificateFile = "rpc.crt"

	defaultLevelDBDirectory = "data"

	defaultLogDirectory = "log"
	defaultLogFile      = "escrowd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients   = 10
	defaultRPCBandwidth = 25000000
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location, the name is a prefix for both databases
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// RollupType - rollup identity and commit cadence
type RollupType struct {
	Validator              string `gluamapper:"validator" json:"validator"`
	MinimumCommitFrequency uint32 `gluamapper:"minimum_commit_frequency" json:"minimum_commit_frequency"` // milliseconds
	MaximumCommitFrequency uint32 `gluamapper:"maximum_commit_frequency" json:"maximum_commit_frequency"` // milliseconds
	CheckInterval          uint32 `gluamapper:"check_interval" json:"check_interval"`                     // milliseconds
	MaximumBatch           int    `gluamapper:"maximum_batch" json:"maximum_batch"`
}

// MetricsType - prometheus listener, blank disables it
type MetricsType struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// Configuration - the daemon configuration file
type Configuration struct {
	DataDirectory string                     `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                     `gluamapper:"pidfile" json:"pidfile"`
	Chain         string                     `gluamapper:"chain" json:"chain"`
	Program       string                     `gluamapper:"program" json:"program"`
	Database      DatabaseType               `gluamapper:"database" json:"database"`
	Rollup        RollupType                 `gluamapper:"rollup" json:"rollup"`
	ClientRPC     listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	Metrics       MetricsType                `gluamapper:"metrics" json:"metrics"`
	Logging       logger.Configuration       `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Live,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      "",
		},

		Rollup: RollupType{
			MinimumCommitFrequency: rollup.MinimumCommitFrequency,
			MaximumCommitFrequency: rollup.MaximumCommitFrequency,
			CheckInterval:          uint32(executor.DefaultCheckInterval.Nanoseconds() / 1000000),
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Bandwidth:          defaultRPCBandwidth,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// abort if the chain name is not recognised
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("Chain: %q is not supported", options.Chain)
	}

	// if database was not set use the chain name
	if "" == options.Database.Name {
		options.Database.Name = options.Chain
	}

	testnet := chain.IsTestnet(options.Chain)
	if _, err := identity("program", options.Program, testnet); nil != err {
		return nil, err
	}
	if _, err := identity("validator", options.Rollup.Validator, testnet); nil != err {
		return nil, err
	}

	if options.Rollup.MinimumCommitFrequency > options.Rollup.MaximumCommitFrequency {
		return nil, fmt.Errorf("Rollup: minimum commit frequency: %d exceeds maximum: %d", options.Rollup.MinimumCommitFrequency, options.Rollup.MaximumCommitFrequency)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = configuration.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := os.MkdirAll(d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// identity - decode a base58 account from the configuration
func identity(name string, s string, testnet bool) (*account.Account, error) {
	if "" == s {
		return nil, fmt.Errorf("%s: identity is required", name)
	}
	a, err := account.AccountFromBase58(s)
	if nil != err {
		return nil, fmt.Errorf("%s: %q  error: %s", name, s, err)
	}
	if a.IsTesting() != testnet {
		return nil, fmt.Errorf("%s: %q is for the wrong network", name, s)
	}
	return a, nil
}
