// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/background"
)

type ticker struct {
	ticks    uint64
	finished uint64
}

func (state *ticker) Run(args interface{}, shutdown <-chan struct{}) {
	interval := args.(time.Duration)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(interval):
			atomic.AddUint64(&state.ticks, 1)
		}
	}
	atomic.StoreUint64(&state.finished, 1)
}

func TestBackground(t *testing.T) {
	p1 := &ticker{}
	p2 := &ticker{}

	p := background.Start(background.Processes{p1, p2}, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.NotZero(t, atomic.LoadUint64(&p1.ticks), "first process did not run")
	assert.NotZero(t, atomic.LoadUint64(&p2.ticks), "second process did not run")
	assert.Equal(t, uint64(1), atomic.LoadUint64(&p1.finished), "first process did not finish")
	assert.Equal(t, uint64(1), atomic.LoadUint64(&p2.finished), "second process did not finish")

	// second stop returns at once
	p.Stop()
}
