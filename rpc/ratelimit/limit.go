// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/fault"
)

// Limit - limiting for a single request
func Limit(limiter *rate.Limiter) error {
	r := limiter.Reserve()
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}

// LimitN - limiting for a multiple request
func LimitN(limiter *rate.Limiter, count int, maximumCount int) error {
	// invalid count gets limited as a single request
	if count <= 0 || count > maximumCount {

		r := limiter.Reserve()
		if !r.OK() {
			return fault.RateLimiting
		}
		time.Sleep(r.Delay())

		return fault.InvalidCount
	}

	r := limiter.ReserveN(time.Now(), count)
	if !r.OK() {
		return fault.RateLimiting
	}
	time.Sleep(r.Delay())

	return nil
}

type entry struct {
	limiter *rate.Limiter
	limit   rate.Limit
	burst   int
}

// Group - the limiters of one server, adjustable at run time
type Group struct {
	sync.Mutex
	entries []entry
}

// New - create a limiter with its defaults and add it to the group
func (g *Group) New(limit rate.Limit, burst int) *rate.Limiter {
	g.Lock()
	defer g.Unlock()

	l := rate.NewLimiter(limit, burst)
	g.entries = append(g.entries, entry{
		limiter: l,
		limit:   limit,
		burst:   burst,
	})
	return l
}

// Set - apply one limit to every limiter
//
// a zero limit restores each limiter's default
func (g *Group) Set(limit rate.Limit, burst int) {
	g.Lock()
	defer g.Unlock()

	for _, e := range g.entries {
		if limit <= 0 || burst <= 0 {
			e.limiter.SetLimit(e.limit)
			e.limiter.SetBurst(e.burst)
			continue
		}
		e.limiter.SetLimit(limit)
		e.limiter.SetBurst(burst)
	}
}

// Count - number of limiters in the group
func (g *Group) Count() int {
	g.Lock()
	defer g.Unlock()
	return len(g.entries)
}
