// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/rpc/certificate"
	"github.com/bitmark-inc/escrowd/rpc/listeners"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/escrowd/rpc/server"
)

const (
	tlsName = "client_rpc"
)

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	listener listeners.Listener
	limiters *ratelimit.Group

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// number of open client connections
var connectionCountRPC counter.Counter

// Initialise - start the client RPC listeners
func Initialise(rpcConfiguration *listeners.RPCConfiguration, service server.Service, version string) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to Start if already started
	if globalData.initialised {
		return fault.AlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	tlsConfig, certificateFingerprint, err := certificate.Get(log, tlsName, rpcConfiguration.Certificate, rpcConfiguration.PrivateKey)
	if nil != err {
		return err
	}

	globalData.limiters = &ratelimit.Group{}

	rpcListener, err := listeners.NewRPC(
		rpcConfiguration,
		log,
		&connectionCountRPC,
		server.Create(log, version, &connectionCountRPC, globalData.limiters, service),
		tlsConfig,
		certificateFingerprint,
	)
	if nil != err {
		return err
	}

	setRequestLimit(rpcConfiguration.RequestRate, rpcConfiguration.RequestBurst)

	err = rpcListener.Serve()
	if nil != err {
		rpcListener.Stop()
		return err
	}
	globalData.listener = rpcListener

	// all data initialised
	globalData.initialised = true

	return nil
}

// Finalise - stop all background tasks
func Finalise() error {

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	globalData.listener.Stop()
	globalData.listener = nil

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// SetRequestLimit - change the request rate of every handler,
// zero restores the built in defaults
func SetRequestLimit(requestRate float64, requestBurst int) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.NotInitialised
	}
	setRequestLimit(requestRate, requestBurst)
	return nil
}

func setRequestLimit(requestRate float64, requestBurst int) {
	globalData.log.Infof("request limit: rate: %f  burst: %d", requestRate, requestBurst)
	globalData.limiters.Set(rate.Limit(requestRate), requestBurst)
}

// ConnectionCount - number of open client connections
func ConnectionCount() uint64 {
	return connectionCountRPC.Uint64()
}
