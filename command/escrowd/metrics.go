// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsPath        = "/metrics"
	metricsTimeout     = 10 * time.Second
	metricsStopTimeout = 5 * time.Second
)

// newRegistry - a registry with the runtime collectors
func newRegistry() (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	} {
		if err := registry.Register(c); nil != err {
			return nil, err
		}
	}
	return registry, nil
}

type metricsServer struct {
	log     *logger.L
	address string
	server  *http.Server
}

// startMetrics - serve the registry over plain HTTP
func startMetrics(log *logger.L, listen string, registry *prometheus.Registry) (*metricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	l, err := net.Listen("tcp", listen)
	if nil != err {
		return nil, err
	}

	m := &metricsServer{
		log:     log,
		address: l.Addr().String(),
		server: &http.Server{
			Handler:      mux,
			ReadTimeout:  metricsTimeout,
			WriteTimeout: metricsTimeout,
		},
	}

	log.Infof("metrics listener on: %s%s", m.address, metricsPath)
	go func() {
		if err := m.server.Serve(l); nil != err && http.ErrServerClosed != err {
			log.Errorf("metrics server error: %s", err)
		}
	}()
	return m, nil
}

func (m *metricsServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), metricsStopTimeout)
	defer cancel()
	if err := m.server.Shutdown(ctx); nil != err {
		m.log.Errorf("metrics shutdown error: %s", err)
	}
}
