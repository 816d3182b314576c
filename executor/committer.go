// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor

import (
	"time"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/background"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/storage"
)

// DefaultCheckInterval - how often delegations are checked for a due
// periodic commit
const DefaultCheckInterval = 100 * time.Millisecond

type committer struct {
	executor *Executor
	interval time.Duration
}

// Committer - background process for periodic commits
func (e *Executor) Committer(interval time.Duration) background.Process {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &committer{
		executor: e,
		interval: interval,
	}
}

func (c *committer) Run(args interface{}, shutdown <-chan struct{}) {
	log := c.executor.log
	log.Info("committer starting…")

	if n, err := c.executor.CountDelegated(); nil == err {
		c.executor.metrics.setDelegated(n)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case now := <-ticker.C:
			if _, err := c.executor.PeriodicCommit(now); nil != err {
				log.Errorf("periodic commit error: %s", err)
			}
		}
	}
	log.Info("committer stopped")
}

// PeriodicCommit - write the balances of every due record to the ledger,
// the records stay delegated
//
// returns the number of records committed
func (e *Executor) PeriodicCommit(now time.Time) (int, error) {
	due, err := e.rollup.Due(now)
	if nil != err {
		return 0, err
	}

	total := 0
	for len(due) > 0 {
		n := len(due)
		if n > e.batch {
			n = e.batch
		}
		batch := due[:n]
		due = due[n:]

		var committed []*account.Account

		err := executeBoth(e.primary, e.rollupCtx, func(ledgerTrx storage.Transaction, rollupTrx storage.Transaction) error {
			addresses, states, err := e.rollup.Commit(ledgerTrx, rollupTrx, batch)
			if nil != err {
				return err
			}
			committed = addresses
			if 0 == len(committed) {
				return nil
			}
			id, err := e.engine.StoreReceipt(ledgerTrx, committed, states)
			if nil != err {
				return err
			}
			e.log.Debugf("periodic commit: %d records  receipt: %s", len(committed), id)
			return nil
		})
		if nil != err {
			return total, err
		}
		if 0 == len(committed) {
			continue
		}
		e.rollup.Committed(committed, now)
		e.metrics.commit("periodic", len(committed))
		total += len(committed)
	}
	return total, nil
}

// SetCommitBatch - records per periodic commit transaction, must be set
// before the committer starts
func (e *Executor) SetCommitBatch(n int) {
	if n <= 0 || n > escrow.MaximumBatch {
		n = escrow.MaximumBatch
	}
	e.batch = n
}

// CountDelegated - number of records held by the rollup
func (e *Executor) CountDelegated() (int, error) {
	n := 0
	err := e.rollup.Each(func(*account.Account) error {
		n += 1
		return nil
	})
	return n, err
}
