// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/background"
	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rollup"
	"github.com/bitmark-inc/escrowd/rpc"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/tokenledger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "define", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'D'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// variables visible to the configuration script as arg.NAME
	variables := make(map[string]string)
	for _, d := range options["define"] {
		kv := strings.SplitN(d, "=", 2)
		if 2 != len(kv) || "" == kv[0] {
			exitwithstatus.Message("%s: define: %q is not NAME=VALUE", program, d)
		}
		variables[kv[0]] = kv[1]
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	err = mode.Initialise(theConfiguration.Chain)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	testnet := chain.IsTestnet(theConfiguration.Chain)

	// identities were checked while reading the configuration
	programIdentity, _ := identity("program", theConfiguration.Program, testnet)
	validatorIdentity, _ := identity("validator", theConfiguration.Rollup.Validator, testnet)

	// general info
	log.Infof("test mode: %v", mode.IsTesting())
	log.Infof("database: %q", theConfiguration.Database)
	log.Infof("program: %s", programIdentity)
	log.Infof("validator: %s", validatorIdentity)

	// connection info
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "Rollup", theConfiguration.Rollup)

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// token ledger, rollup and escrow engine
	ledger := tokenledger.New(logger.New("tokenledger"), tokenledger.Handles{
		Mints:         storage.Pool.Mints,
		TokenAccounts: storage.Pool.TokenAccounts,
	}, testnet)

	r := rollup.New(logger.New("rollup"), validatorIdentity, rollup.Handles{
		Escrows:       storage.Pool.RollupEscrows,
		Delegations:   storage.Pool.Delegations,
		LedgerEscrows: storage.Pool.Escrows,
	})
	err = r.SetFrequencyBounds(theConfiguration.Rollup.MinimumCommitFrequency, theConfiguration.Rollup.MaximumCommitFrequency)
	if nil != err {
		log.Criticalf("rollup commit frequency error: %s", err)
		exitwithstatus.Message("rollup commit frequency error: %s", err)
	}

	engine := escrow.New(logger.New("escrow"), programIdentity, ledger, escrow.Handles{
		Escrows:       storage.Pool.Escrows,
		MintEscrows:   storage.Pool.MintEscrows,
		Commits:       storage.Pool.Commits,
		RollupEscrows: storage.Pool.RollupEscrows,
	}, r, r)

	registry, err := newRegistry()
	if nil != err {
		log.Criticalf("metrics registry error: %s", err)
		exitwithstatus.Message("metrics registry error: %s", err)
	}
	metrics, err := executor.NewMetrics(registry)
	if nil != err {
		log.Criticalf("metrics error: %s", err)
		exitwithstatus.Message("metrics error: %s", err)
	}

	exec := executor.New(logger.New("executor"), engine, r, executor.Handles{
		Processed:       storage.Pool.Processed,
		RollupProcessed: storage.Pool.RollupProcessed,
	}, metrics, testnet)
	exec.SetCommitBatch(theConfiguration.Rollup.MaximumBatch)

	// the rpc layer takes the certificate and key contents
	rpcConfiguration := theConfiguration.ClientRPC
	rpcConfiguration.Certificate, err = readFile(theConfiguration.ClientRPC.Certificate)
	if nil != err {
		log.Criticalf("rpc certificate error: %s", err)
		exitwithstatus.Message("rpc certificate error: %s", err)
	}
	rpcConfiguration.PrivateKey, err = readFile(theConfiguration.ClientRPC.PrivateKey)
	if nil != err {
		log.Criticalf("rpc private key error: %s", err)
		exitwithstatus.Message("rpc private key error: %s", err)
	}

	// start up the rpc background processes
	err = rpc.Initialise(&rpcConfiguration, exec, version)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	if "" != theConfiguration.Metrics.Listen {
		m, err := startMetrics(logger.New("metrics"), theConfiguration.Metrics.Listen, registry)
		if nil != err {
			log.Criticalf("metrics listen error: %s", err)
			exitwithstatus.Message("metrics listen error: %s", err)
		}
		defer m.stop()
	}

	// reload parts of the configuration when the file changes
	channels := newWatcherChannel()
	watcher, err := newFileWatcher(configurationFile, logger.New(fileWatcherLoggerPrefix), channels)
	if nil != err {
		log.Criticalf("file watcher setup error: %s", err)
		exitwithstatus.Message("file watcher setup error: %s", err)
	}
	if err = watcher.Start(); nil != err {
		log.Criticalf("file watcher start error: %s", err)
		exitwithstatus.Message("file watcher start error: %s", err)
	}
	defer watcher.Stop()

	interval := time.Duration(theConfiguration.Rollup.CheckInterval) * time.Millisecond
	processes := background.Start(background.Processes{
		exec.Committer(interval),
		&reloader{
			log:       logger.New("reload"),
			fileName:  configurationFile,
			variables: variables,
			channels:  channels,
			bounds:    r,
			limit:     rpc.SetRequestLimit,
		},
	}, nil)
	defer processes.Stop()

	mode.Set(mode.Normal)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
	mode.Set(mode.Stopped)
}

func readFile(fileName string) (string, error) {
	b, err := ioutil.ReadFile(fileName)
	if nil != err {
		return "", err
	}
	return string(b), nil
}
