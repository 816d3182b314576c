// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package executor - runs signed instructions in the primary and
// rollup contexts
package executor

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/capability"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/instruction"
	"github.com/bitmark-inc/escrowd/merkle"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/rollup"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/tokenledger"
)

// Handles - replay protection pools, one per context
type Handles struct {
	Processed       *storage.PoolHandle
	RollupProcessed *storage.PoolHandle
}

// Executor - dispatcher for both contexts
type Executor struct {
	log     *logger.L
	engine  *escrow.Engine
	ledger  tokenledger.Ledger
	rollup  *rollup.Rollup
	handles Handles
	metrics *Metrics
	testnet bool
	batch   int

	primary   *domain
	rollupCtx *domain
}

// EscrowState - an escrow address and its record
type EscrowState struct {
	Address *account.Account `json:"address"`
	Escrow  *record.Escrow   `json:"escrow"`
}

// Result - outcome of a submitted instruction
type Result struct {
	Id      merkle.Digest    `json:"id"`
	Type    string           `json:"type"`
	Account *account.Account `json:"account,omitempty"`
	Escrows []EscrowState    `json:"escrows,omitempty"`
	Commit  *merkle.Digest   `json:"commit,omitempty"`
}

// New - create an executor, metrics may be nil
func New(log *logger.L, engine *escrow.Engine, r *rollup.Rollup, handles Handles, metrics *Metrics, testnet bool) *Executor {
	return &Executor{
		log:       log,
		engine:    engine,
		ledger:    engine.Ledger(),
		rollup:    r,
		handles:   handles,
		metrics:   metrics,
		testnet:   testnet,
		batch:     escrow.MaximumBatch,
		primary:   newDomain(log, instruction.Primary, storage.Ledger),
		rollupCtx: newDomain(log, instruction.Rollup, storage.Rollup),
	}
}

// Primary - the primary ledger context
func (e *Executor) Primary() Context {
	return e.primary
}

// Rollup - the rollup context
func (e *Executor) Rollup() Context {
	return e.rollupCtx
}

// ContextFor - context by name
func (e *Executor) ContextFor(name instruction.Context) Context {
	if instruction.Rollup == name {
		return e.rollupCtx
	}
	return e.primary
}

// Submit - unpack, check and run one instruction in a context
func (e *Executor) Submit(ctx Context, packed instruction.Packed) (*Result, error) {
	if mode.Is(mode.Stopped) {
		return nil, fault.NotAvailableDuringShutdown
	}

	i, n, err := packed.Unpack(e.testnet)
	if nil != err {
		return nil, err
	}
	if n != len(packed) {
		return nil, fault.NotInstructionPack
	}

	if nil == ctx || i.Context() != ctx.Name() {
		return nil, fault.WrongExecutionContext
	}

	start := time.Now()
	result := &Result{
		Id:   packed.MakeId(),
		Type: typeName(packed.Type()),
	}

	err = e.run(i, result)
	e.metrics.instruction(ctx.Name().String(), result.Type, err, start)
	if nil != err {
		e.log.Debugf("%s: %s  error: %s", result.Type, result.Id, err)
		return nil, err
	}
	e.log.Infof("%s: %s", result.Type, result.Id)
	return result, nil
}

// replay - record an instruction id, rejecting one already seen
func (e *Executor) replay(trx storage.Transaction, id merkle.Digest) error {
	p := e.handles.Processed
	if storage.Rollup == trx.Database() {
		p = e.handles.RollupProcessed
	}
	if trx.Has(p, id[:]) {
		return fault.InstructionAlreadyProcessed
	}
	trx.PutN(p, id[:], uint64(time.Now().Unix()))
	return nil
}

func (e *Executor) run(i instruction.Instruction, result *Result) error {
	switch t := i.(type) {

	case *instruction.CreateMint:
		return e.primary.Execute(func(trx storage.Transaction) error {
			result.Account = t.Mint
			return e.ledger.CreateMint(trx, t.Mint, t.Authority, uint8(t.Decimals))
		})

	case *instruction.MintTo:
		return e.primary.Execute(func(trx storage.Transaction) error {
			if err := e.replay(trx, result.Id); nil != err {
				return err
			}
			address, err := e.ledger.MintTo(trx, t.Mint, t.Owner, t.Amount, capability.NewSigner(t.Authority))
			result.Account = address
			return err
		})

	case *instruction.CreateEscrow:
		return e.primary.Execute(func(trx storage.Transaction) error {
			address, state, err := e.engine.Create(trx, t.Owner, t.Mint)
			if nil != err {
				return err
			}
			result.Account = address
			result.Escrows = []EscrowState{{Address: address, Escrow: state}}
			return nil
		})

	case *instruction.Deposit:
		return e.primary.Execute(func(trx storage.Transaction) error {
			if err := e.replay(trx, result.Id); nil != err {
				return err
			}
			state, err := e.engine.Deposit(trx, capability.NewSigner(t.Owner), t.Escrow, t.Source, t.Amount)
			if nil != err {
				return err
			}
			result.Escrows = []EscrowState{{Address: t.Escrow, Escrow: state}}
			return nil
		})

	case *instruction.Delegate:
		if t.CommitFrequency > instruction.MaximumFrequency {
			return fault.InvalidCommitFrequency
		}
		config := escrow.DelegateConfig{
			CommitFrequency: uint32(t.CommitFrequency),
			Validator:       t.Validator,
		}
		err := executeBoth(e.primary, e.rollupCtx, func(ledgerTrx storage.Transaction, rollupTrx storage.Transaction) error {
			if err := e.replay(ledgerTrx, result.Id); nil != err {
				return err
			}
			state, err := e.engine.Delegate(ledgerTrx, rollupTrx, capability.NewSigner(t.Owner), t.Escrow, config)
			if nil != err {
				return err
			}
			result.Escrows = []EscrowState{{Address: t.Escrow, Escrow: state}}
			return nil
		})
		if nil == err {
			e.metrics.delegate()
		}
		return err

	case *instruction.EscrowTransfer:
		return e.rollupCtx.Execute(func(trx storage.Transaction) error {
			if err := e.replay(trx, result.Id); nil != err {
				return err
			}
			from, to, err := e.engine.Transfer(trx, capability.NewSigner(t.Owner), t.Sender, t.Receiver, t.Amount)
			if nil != err {
				return err
			}
			result.Escrows = []EscrowState{
				{Address: t.Sender, Escrow: from},
				{Address: t.Receiver, Escrow: to},
			}
			return nil
		})

	case *instruction.CommitAndUndelegate:
		err := executeBoth(e.primary, e.rollupCtx, func(ledgerTrx storage.Transaction, rollupTrx storage.Transaction) error {
			if err := e.replay(rollupTrx, result.Id); nil != err {
				return err
			}
			commit, err := e.engine.CommitAndUndelegate(ledgerTrx, rollupTrx, t.Escrows)
			if nil != err {
				return err
			}
			result.Commit = &commit.Id
			result.Escrows = make([]EscrowState, len(t.Escrows))
			for j, address := range t.Escrows {
				result.Escrows[j] = EscrowState{Address: address, Escrow: commit.Escrows[j]}
			}
			return nil
		})
		if nil == err {
			e.metrics.commit("undelegate", len(t.Escrows))
		}
		return err

	case *instruction.Withdraw:
		return e.primary.Execute(func(trx storage.Transaction) error {
			if err := e.replay(trx, result.Id); nil != err {
				return err
			}
			from, to, err := e.engine.Withdraw(trx, capability.NewSigner(t.Owner), t.Sender, t.Receiver, t.Amount)
			if nil != err {
				return err
			}
			result.Escrows = []EscrowState{
				{Address: t.Sender, Escrow: from},
				{Address: t.Receiver, Escrow: to},
			}
			return nil
		})

	default:
		return fault.NotInstructionPack
	}
}

func typeName(tag instruction.TagType) string {
	switch tag {
	case instruction.CreateMintTag:
		return "CreateMint"
	case instruction.MintToTag:
		return "MintTo"
	case instruction.CreateEscrowTag:
		return "CreateEscrow"
	case instruction.DepositTag:
		return "Deposit"
	case instruction.DelegateTag:
		return "Delegate"
	case instruction.EscrowTransferTag:
		return "EscrowTransfer"
	case instruction.CommitAndUndelegateTag:
		return "CommitAndUndelegate"
	case instruction.WithdrawTag:
		return "Withdraw"
	default:
		return "Unknown"
	}
}
