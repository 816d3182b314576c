// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/background"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/rollup"
)

type limitRecorder struct {
	calls chan float64
}

func (l *limitRecorder) set(requestRate float64, requestBurst int) error {
	l.calls <- requestRate
	return nil
}

func TestReloaderAppliesSettings(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := newTestConfigFile(t)
	defer c.remove()

	log := logger.New(fixtures.LogCategory)
	r := rollup.New(log, fixtures.NewKey().Account(), rollup.Handles{})
	limits := &limitRecorder{calls: make(chan float64, 1)}

	channels := newWatcherChannel()
	p := background.Start(background.Processes{
		&reloader{
			log:      log,
			fileName: c.fileName,
			channels: channels,
			bounds:   r,
			limit:    limits.set,
		},
	}, nil)
	defer p.Stop()

	c.write(t, 500, 42)
	channels.change <- struct{}{}

	select {
	case rate := <-limits.calls:
		assert.Equal(t, float64(42), rate, "wrong request rate")
	case <-time.After(5 * time.Second):
		t.Fatal("reload not applied")
	}

	minimum, maximum := r.FrequencyBounds()
	assert.Equal(t, uint32(500), minimum, "wrong minimum")
	assert.Equal(t, uint32(60000), maximum, "wrong maximum")
}

func TestReloaderKeepsSettingsOnError(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := newTestConfigFile(t)
	defer c.remove()

	log := logger.New(fixtures.LogCategory)
	r := rollup.New(log, fixtures.NewKey().Account(), rollup.Handles{})
	limits := &limitRecorder{calls: make(chan float64, 1)}

	rl := &reloader{
		log:      log,
		fileName: c.fileName,
		bounds:   r,
		limit:    limits.set,
	}

	c.write(t, 90000, 7)
	err := rl.reload()
	assert.NotNil(t, err, "accepted inverted bounds")

	minimum, maximum := r.FrequencyBounds()
	assert.Equal(t, uint32(rollup.MinimumCommitFrequency), minimum, "minimum changed")
	assert.Equal(t, uint32(rollup.MaximumCommitFrequency), maximum, "maximum changed")
	assert.Equal(t, 0, len(limits.calls), "limit applied")
}
