// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "escrowd"

// Metrics - prometheus collectors for the executor
type Metrics struct {
	instructions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	commits      *prometheus.CounterVec
	delegated    prometheus.Gauge
}

// NewMetrics - create and register the collectors
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		instructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "executor",
				Name:      "instructions_total",
				Help:      "Instructions submitted by context, type and result",
			},
			[]string{"context", "type", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "executor",
				Name:      "instruction_duration_seconds",
				Help:      "Time taken to execute an instruction",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"context"},
		),
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rollup",
				Name:      "commits_total",
				Help:      "Commits from the rollup to the ledger",
			},
			[]string{"kind"},
		),
		delegated: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "rollup",
				Name:      "delegated_records",
				Help:      "Escrow records currently delegated",
			},
		),
	}

	collectors := []prometheus.Collector{m.instructions, m.duration, m.commits, m.delegated}
	for _, c := range collectors {
		if err := registerer.Register(c); nil != err {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) instruction(context string, kind string, err error, start time.Time) {
	if nil == m {
		return
	}
	result := "ok"
	if nil != err {
		result = "error"
	}
	m.instructions.WithLabelValues(context, kind, result).Inc()
	m.duration.WithLabelValues(context).Observe(time.Since(start).Seconds())
}

func (m *Metrics) commit(kind string, records int) {
	if nil == m {
		return
	}
	m.commits.WithLabelValues(kind).Inc()
	if "undelegate" == kind {
		m.delegated.Sub(float64(records))
	}
}

func (m *Metrics) delegate() {
	if nil == m {
		return
	}
	m.delegated.Inc()
}

func (m *Metrics) setDelegated(n int) {
	if nil == m {
		return
	}
	m.delegated.Set(float64(n))
}
