// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package executor

import (
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/fixtures"
	"github.com/bitmark-inc/escrowd/instruction"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rollup"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/tokenledger"
)

func setupExecutor(t *testing.T) *Executor {
	err := fixtures.SetupTestStorage()
	assert.Nil(t, err, "storage")

	err = mode.Initialise(chain.Testing)
	assert.Nil(t, err, "mode")
	mode.Set(mode.Normal)

	log := logger.New(fixtures.LogCategory)
	l := tokenledger.New(log, tokenledger.Handles{
		Mints:         storage.Pool.Mints,
		TokenAccounts: storage.Pool.TokenAccounts,
	}, true)
	r := rollup.New(log, fixtures.NewKey().Account(), rollup.Handles{
		Escrows:       storage.Pool.RollupEscrows,
		Delegations:   storage.Pool.Delegations,
		LedgerEscrows: storage.Pool.Escrows,
	})
	engine := escrow.New(log, fixtures.NewKey().Account(), l, escrow.Handles{
		Escrows:       storage.Pool.Escrows,
		MintEscrows:   storage.Pool.MintEscrows,
		Commits:       storage.Pool.Commits,
		RollupEscrows: storage.Pool.RollupEscrows,
	}, r, r)

	metrics, err := NewMetrics(prometheus.NewRegistry())
	assert.Nil(t, err, "metrics")

	return New(log, engine, r, Handles{
		Processed:       storage.Pool.Processed,
		RollupProcessed: storage.Pool.RollupProcessed,
	}, metrics, true)
}

func teardownExecutor() {
	_ = mode.Finalise()
	fixtures.TeardownTestStorage()
}

func submit(t *testing.T, e *Executor, ctx Context, i instruction.Instruction, key *account.PrivateKey) (*Result, error) {
	packed, err := instruction.Sign(i, key)
	assert.Nil(t, err, "sign")
	return e.Submit(ctx, packed)
}

func TestSubmitFlow(t *testing.T) {
	e := setupExecutor(t)
	defer teardownExecutor()

	authority := fixtures.NewKey()
	alice := fixtures.NewKey()
	bob := fixtures.NewKey()
	mint := fixtures.NewKey().Account()

	_, err := submit(t, e, e.Primary(), &instruction.CreateMint{Mint: mint, Authority: authority.Account(), Decimals: 6}, authority)
	assert.Nil(t, err, "create mint")

	_, err = submit(t, e, e.Primary(), &instruction.CreateMint{Mint: mint, Authority: authority.Account(), Decimals: 2}, authority)
	assert.Equal(t, fault.MintAlreadyExists, err, "second create mint")

	mintTo, err := instruction.Sign(&instruction.MintTo{Mint: mint, Owner: alice.Account(), Amount: 1000, Authority: authority.Account(), Nonce: 1}, authority)
	assert.Nil(t, err, "sign mint to")
	result, err := e.Submit(e.Primary(), mintTo)
	assert.Nil(t, err, "mint to")
	aliceTA := result.Account

	_, err = e.Submit(e.Primary(), mintTo)
	assert.Equal(t, fault.InstructionAlreadyProcessed, err, "replay")

	result, err = submit(t, e, e.Primary(), &instruction.CreateEscrow{Mint: mint, Owner: alice.Account()}, alice)
	assert.Nil(t, err, "create r1")
	r1 := result.Account

	_, err = submit(t, e, e.Primary(), &instruction.CreateEscrow{Mint: mint, Owner: alice.Account()}, alice)
	assert.Equal(t, fault.AlreadyExists, err, "create r1 again")

	result, err = submit(t, e, e.Primary(), &instruction.CreateEscrow{Mint: mint, Owner: bob.Account()}, bob)
	assert.Nil(t, err, "create r2")
	r2 := result.Account

	result, err = submit(t, e, e.Primary(), &instruction.Deposit{Escrow: r1, Source: aliceTA, Amount: 100, Owner: alice.Account(), Nonce: 2}, alice)
	assert.Nil(t, err, "deposit")
	assert.Equal(t, uint64(100), result.Escrows[0].Escrow.Balance, "deposit balance")

	delegate := &instruction.Delegate{Escrow: r1, CommitFrequency: 400, Owner: alice.Account(), Nonce: 3}
	_, err = submit(t, e, e.Rollup(), delegate, alice)
	assert.Equal(t, fault.WrongExecutionContext, err, "delegate in rollup")

	_, err = submit(t, e, e.Primary(), delegate, alice)
	assert.Nil(t, err, "delegate r1")
	_, err = submit(t, e, e.Primary(), &instruction.Delegate{Escrow: r2, CommitFrequency: 400, Validator: e.Validator(), Owner: bob.Account(), Nonce: 4}, bob)
	assert.Nil(t, err, "delegate r2")
	assert.Equal(t, float64(2), testutil.ToFloat64(e.metrics.delegated), "delegated gauge")

	_, err = submit(t, e, e.Primary(), &instruction.Deposit{Escrow: r1, Source: aliceTA, Amount: 1, Owner: alice.Account(), Nonce: 5}, alice)
	assert.Equal(t, fault.AccountAlreadyDelegated, err, "deposit while delegated")

	transfer := &instruction.EscrowTransfer{Sender: r1, Receiver: r2, Amount: 30, Owner: alice.Account(), Nonce: 6}
	_, err = submit(t, e, e.Primary(), transfer, alice)
	assert.Equal(t, fault.WrongExecutionContext, err, "transfer in primary")

	result, err = submit(t, e, e.Rollup(), transfer, alice)
	assert.Nil(t, err, "transfer")
	assert.Equal(t, uint64(70), result.Escrows[0].Escrow.Balance, "sender")
	assert.Equal(t, uint64(30), result.Escrows[1].Escrow.Balance, "receiver")

	state, err := e.Escrow(e.Primary(), mint, alice.Account())
	assert.Nil(t, err, "primary view")
	assert.Equal(t, uint64(100), state.Escrow.Balance, "primary balance before commit")
	assert.True(t, state.Escrow.Delegated, "primary delegated")

	n, err := e.PeriodicCommit(time.Now().Add(time.Second))
	assert.Nil(t, err, "periodic commit")
	assert.Equal(t, 2, n, "periodic records")

	state, err = e.EscrowAt(e.Primary(), r1)
	assert.Nil(t, err, "primary view")
	assert.Equal(t, uint64(70), state.Escrow.Balance, "primary balance after periodic commit")
	assert.True(t, state.Escrow.Delegated, "still delegated")

	result, err = submit(t, e, e.Rollup(), &instruction.CommitAndUndelegate{Escrows: []*account.Account{r1, r2}, Payer: bob.Account(), Nonce: 7}, bob)
	assert.Nil(t, err, "commit and undelegate")
	assert.NotNil(t, result.Commit, "receipt")
	assert.Equal(t, float64(0), testutil.ToFloat64(e.metrics.delegated), "delegated gauge")

	_, err = e.EscrowAt(e.Rollup(), r1)
	assert.Equal(t, fault.AccountNotDelegated, err, "rollup copy removed")

	result, err = submit(t, e, e.Primary(), &instruction.Withdraw{Sender: r1, Receiver: r2, Amount: 70, Owner: alice.Account(), Nonce: 8}, alice)
	assert.Nil(t, err, "withdraw")
	assert.Equal(t, uint64(0), result.Escrows[0].Escrow.Balance, "r1")
	assert.Equal(t, uint64(100), result.Escrows[1].Escrow.Balance, "r2")

	balance, err := e.TokenBalance(mint, alice.Account())
	assert.Nil(t, err, "token balance")
	assert.Equal(t, uint64(900), balance.Account.Amount, "alice tokens")
	assert.True(t, aliceTA.Equal(balance.Address), "alice token account")

	m, err := e.Mint(mint)
	assert.Nil(t, err, "mint")
	assert.Equal(t, uint64(1000), m.Supply, "supply")

	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.instructions.WithLabelValues("primary", "Deposit", "ok")), "deposit ok")
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.instructions.WithLabelValues("primary", "Deposit", "error")), "deposit error")
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.commits.WithLabelValues("undelegate")), "undelegate commits")
	assert.Equal(t, float64(1), testutil.ToFloat64(e.metrics.commits.WithLabelValues("periodic")), "periodic commits")
}

func TestSubmitRejects(t *testing.T) {
	e := setupExecutor(t)
	defer teardownExecutor()

	_, err := e.Submit(e.Primary(), instruction.Packed{0x01, 0x02})
	assert.Equal(t, fault.NotInstructionPack, err, "garbage")

	owner := fixtures.NewKey()
	packed, err := instruction.Sign(&instruction.CreateEscrow{Mint: fixtures.NewKey().Account(), Owner: owner.Account()}, owner)
	assert.Nil(t, err, "sign")

	_, err = e.Submit(e.Primary(), append(packed, 0x00))
	assert.Equal(t, fault.NotInstructionPack, err, "trailing bytes")

	_, err = e.Submit(nil, packed)
	assert.Equal(t, fault.WrongExecutionContext, err, "no context")

	_, err = e.Submit(e.Primary(), packed)
	assert.Equal(t, fault.MintNotFound, err, "unknown mint")

	mode.Set(mode.Stopped)
	_, err = e.Submit(e.Primary(), packed)
	assert.Equal(t, fault.NotAvailableDuringShutdown, err, "shutdown")
}

func TestCommitter(t *testing.T) {
	e := setupExecutor(t)
	defer teardownExecutor()

	n, err := e.PeriodicCommit(time.Now())
	assert.Nil(t, err, "nothing delegated")
	assert.Equal(t, 0, n, "nothing committed")

	n, err = e.CountDelegated()
	assert.Nil(t, err, "count")
	assert.Equal(t, 0, n, "count")

	c := e.Committer(time.Millisecond)
	c.Run(nil, closed())

	e.SetCommitBatch(5)
	assert.Equal(t, 5, e.batch, "wrong batch")
	e.SetCommitBatch(0)
	assert.Equal(t, escrow.MaximumBatch, e.batch, "zero batch")
	e.SetCommitBatch(escrow.MaximumBatch + 1)
	assert.Equal(t, escrow.MaximumBatch, e.batch, "oversize batch")
}

func closed() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
