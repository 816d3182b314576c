// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/escrow"
	"github.com/bitmark-inc/escrowd/rpc/node"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/escrowd/rpc/token"
)

// Service - everything the RPC handlers call, provided by the executor
type Service interface {
	escrow.Dispatcher
	token.Ledger
	node.Status
}

// Create - an RPC server with all handlers registered
func Create(log *logger.L, version string, rpcCount *counter.Counter, limiters *ratelimit.Group, service Service) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	var (
		dispatcher escrow.Dispatcher
		ledger     token.Ledger
		status     node.Status
	)
	if nil != service {
		dispatcher = service
		ledger = service
		status = service
	}

	_ = server.Register(escrow.New(log, limiters, dispatcher, mode.IsTesting))
	_ = server.Register(token.New(log, limiters, ledger, mode.IsTesting))
	_ = server.Register(node.New(log, limiters, start, version, rpcCount, status))

	return server
}
