// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"
)

// FrequencyBounds - the rollup settings that can change without restart
type FrequencyBounds interface {
	SetFrequencyBounds(minimum uint32, maximum uint32) error
}

// reloader - background process applying configuration file changes
type reloader struct {
	log       *logger.L
	fileName  string
	variables map[string]string
	channels  WatcherChannel
	bounds    FrequencyBounds
	limit     func(requestRate float64, requestBurst int) error
}

func (r *reloader) Run(args interface{}, shutdown <-chan struct{}) {
	r.log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-r.channels.change:
			if err := r.reload(); nil != err {
				r.log.Errorf("failed to reload configuration from: %q  error: %s", r.fileName, err)
			}
		case <-r.channels.remove:
			r.log.Warnf("configuration file: %q removed, reload disabled", r.fileName)
		}
	}
	r.log.Info("stopped")
}

// reload - re-read the file and apply the reloadable settings,
// everything else needs a restart
func (r *reloader) reload() error {
	options, err := getConfiguration(r.fileName, r.variables)
	if nil != err {
		return err
	}

	minimum := options.Rollup.MinimumCommitFrequency
	maximum := options.Rollup.MaximumCommitFrequency
	if err := r.bounds.SetFrequencyBounds(minimum, maximum); nil != err {
		return err
	}
	r.log.Infof("commit frequency bounds: %d to %d ms", minimum, maximum)

	return r.limit(options.ClientRPC.RequestRate, options.ClientRPC.RequestBurst)
}
