// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"time"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/capability"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/merkle"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/util"
)

// CommitResult - receipt id and final states of a commit
type CommitResult struct {
	Id      merkle.Digest
	Escrows []*record.Escrow
}

// CommitAndUndelegate - return a batch of delegated records to the ledger
//
// the committer stages the final states, then real tokens are moved
// between the pooled accounts of each mint so that every pooled account
// holds exactly its record's final balance
func (e *Engine) CommitAndUndelegate(ledgerTrx storage.Transaction, rollupTrx storage.Transaction, addresses []*account.Account) (*CommitResult, error) {
	if storage.Ledger != ledgerTrx.Database() || storage.Rollup != rollupTrx.Database() {
		return nil, fault.WrongExecutionContext
	}
	if 0 == len(addresses) {
		return nil, fault.EmptyBatch
	}
	if len(addresses) > MaximumBatch {
		return nil, fault.TooManyRecords
	}
	seen := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		if nil == address {
			return nil, fault.MissingParameters
		}
		k := string(address.Bytes())
		if _, ok := seen[k]; ok {
			return nil, fault.DuplicateRecord
		}
		seen[k] = struct{}{}
	}

	states, err := e.committer.CommitAndUndelegate(ledgerTrx, rollupTrx, addresses)
	if nil != err {
		return nil, err
	}
	if len(states) != len(addresses) {
		return nil, fault.InvalidCount
	}

	for _, state := range states {
		if state.Delegated {
			return nil, fault.AccountAlreadyDelegated
		}
	}

	mints, err := e.settle(ledgerTrx, addresses, states)
	if nil != err {
		return nil, err
	}

	for _, mint := range mints {
		if err := e.CheckConservation(ledgerTrx, mint); nil != err {
			return nil, err
		}
	}

	id, err := e.receipt(ledgerTrx, addresses, states, true)
	if nil != err {
		return nil, err
	}

	e.log.Infof("committed and undelegated: %d records  receipt: %s", len(addresses), id)
	return &CommitResult{
		Id:      id,
		Escrows: states,
	}, nil
}

type settlement struct {
	address *account.Account
	escrow  *record.Escrow
	delta   uint64
}

// settle - per mint, move real tokens from the pooled accounts holding
// more than their record's balance to those holding less
//
// returns the mints touched in batch order
func (e *Engine) settle(trx storage.Transaction, addresses []*account.Account, states []*record.Escrow) ([]*account.Account, error) {

	type group struct {
		mint      *account.Account
		surpluses []*settlement
		deficits  []*settlement
	}
	order := make([]*group, 0, len(addresses))
	groups := make(map[string]*group)

	for i, address := range addresses {
		escrow := states[i]
		k := string(escrow.Mint.Bytes())
		g, ok := groups[k]
		if !ok {
			g = &group{mint: escrow.Mint}
			groups[k] = g
			order = append(order, g)
		}

		pooled, err := e.ledger.Account(trx, escrow.PooledAccount)
		if nil != err {
			return nil, err
		}
		switch {
		case pooled.Amount > escrow.Balance:
			g.surpluses = append(g.surpluses, &settlement{address: address, escrow: escrow, delta: pooled.Amount - escrow.Balance})
		case pooled.Amount < escrow.Balance:
			g.deficits = append(g.deficits, &settlement{address: address, escrow: escrow, delta: escrow.Balance - pooled.Amount})
		}
	}

	mints := make([]*account.Account, 0, len(order))
	for _, g := range order {
		mints = append(mints, g.mint)

		surplus, err := total(g.surpluses)
		if nil != err {
			return nil, err
		}
		deficit, err := total(g.deficits)
		if nil != err {
			return nil, err
		}
		if surplus != deficit {
			e.log.Errorf("mint: %s  surplus: %d  deficit: %d", g.mint, surplus, deficit)
			return nil, fault.BatchNotBalanced
		}
		if 0 == surplus {
			continue
		}

		mint, err := e.ledger.Mint(trx, g.mint)
		if nil != err {
			return nil, err
		}

		d := 0
		for _, s := range g.surpluses {
			c, err := e.capabilityFor(s.address, s.escrow)
			if nil != err {
				return nil, err
			}
			err = e.drain(trx, c, s, g.deficits, &d, mint.Decimals)
			c.Revoke()
			if nil != err {
				return nil, err
			}
		}
	}
	return mints, nil
}

// drain - move one surplus into the outstanding deficits, in order
func (e *Engine) drain(trx storage.Transaction, c *capability.Capability, s *settlement, deficits []*settlement, d *int, decimals uint8) error {
	for s.delta > 0 && *d < len(deficits) {
		target := deficits[*d]
		amount := s.delta
		if target.delta < amount {
			amount = target.delta
		}
		err := e.ledger.TransferChecked(trx, s.escrow.PooledAccount, target.escrow.PooledAccount, s.escrow.Mint, amount, decimals, c)
		if nil != err {
			return err
		}
		e.log.Debugf("settle: %d  from: %s  to: %s", amount, s.address, target.address)
		s.delta -= amount
		target.delta -= amount
		if 0 == target.delta {
			*d += 1
		}
	}
	return nil
}

func total(items []*settlement) (uint64, error) {
	sum := uint64(0)
	for _, item := range items {
		var err error
		sum, err = util.CheckedAdd(sum, item.delta)
		if nil != err {
			return 0, err
		}
	}
	return sum, nil
}

// receipt - store a commit record keyed by the merkle root of the
// packed states
func (e *Engine) receipt(trx storage.Transaction, addresses []*account.Account, states []*record.Escrow, undelegated bool) (merkle.Digest, error) {
	ids := make([]merkle.Digest, len(states))
	for i, state := range states {
		packed, err := state.Pack()
		if nil != err {
			return merkle.Digest{}, err
		}
		ids[i] = merkle.NewDigest(append(addresses[i].Bytes(), packed...))
	}
	id := merkle.Root(ids)

	c := &record.Commit{
		Undelegated: undelegated,
		Timestamp:   uint64(time.Now().UnixNano() / int64(time.Millisecond)),
		Escrows:     addresses,
	}
	packed, err := c.Pack()
	if nil != err {
		return merkle.Digest{}, err
	}
	trx.Put(e.handles.Commits, id[:], packed)
	return id, nil
}

// Conservation - sum of accounted balances, sum of pooled account
// balances and whether any record of the mint is delegated
func (e *Engine) Conservation(trx storage.Transaction, mint *account.Account) (uint64, uint64, bool, error) {
	accounted := uint64(0)
	pooled := uint64(0)
	delegated := false

	cursor := e.handles.MintEscrows.NewFetchCursor().Prefix(mint.Bytes())
	err := cursor.Map(func(key []byte, value []byte) error {
		address, err := account.AccountFromBytes(value)
		if nil != err {
			return err
		}
		escrow, err := e.get(trx, address)
		if nil != err {
			return err
		}
		if escrow.Delegated {
			delegated = true
		}
		accounted, err = util.CheckedAdd(accounted, escrow.Balance)
		if nil != err {
			return err
		}
		a, err := e.ledger.Account(trx, escrow.PooledAccount)
		if nil != err {
			return err
		}
		pooled, err = util.CheckedAdd(pooled, a.Amount)
		return err
	})
	if nil != err {
		return 0, 0, false, err
	}
	return accounted, pooled, delegated, nil
}

// CheckConservation - when no record of the mint is delegated the sum of
// accounted balances must equal the sum of the pooled accounts
func (e *Engine) CheckConservation(trx storage.Transaction, mint *account.Account) error {
	accounted, pooled, delegated, err := e.Conservation(trx, mint)
	if nil != err {
		return err
	}
	if delegated {
		return nil
	}
	if accounted != pooled {
		e.log.Criticalf("conservation violated for mint: %s  accounted: %d  pooled: %d", mint, accounted, pooled)
		return fault.ConservationViolated
	}
	return nil
}

// StoreReceipt - receipt for a periodic commit that keeps the records
// delegated
func (e *Engine) StoreReceipt(trx storage.Transaction, addresses []*account.Account, states []*record.Escrow) (merkle.Digest, error) {
	if len(addresses) != len(states) {
		return merkle.Digest{}, fault.InvalidCount
	}
	return e.receipt(trx, addresses, states, false)
}
