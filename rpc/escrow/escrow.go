// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:generate mockgen -source=escrow.go -destination=../mocks/dispatcher.go -package=mocks

package escrow

import (
	"encoding/hex"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/instruction"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
)

const (
	rateLimitEscrow = 200
	rateBurstEscrow = 100
)

// Dispatcher - the parts of the executor used by the escrow calls
type Dispatcher interface {
	ContextFor(instruction.Context) executor.Context
	Submit(executor.Context, instruction.Packed) (*executor.Result, error)
	EscrowAt(executor.Context, *account.Account) (*executor.EscrowState, error)
	Address(*account.Account, *account.Account) (*account.Account, uint8, error)
}

// Escrow - type for the RPC
type Escrow struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	Dispatcher Dispatcher
	IsTesting  func() bool
}

// New - create escrow RPC handler
func New(log *logger.L, limiters *ratelimit.Group, dispatcher Dispatcher, isTesting func() bool) *Escrow {
	return &Escrow{
		Log:        log,
		Limiter:    limiters.New(rateLimitEscrow, rateBurstEscrow),
		Dispatcher: dispatcher,
		IsTesting:  isTesting,
	}
}

// ---

// SubmitArguments - a signed instruction for one context
type SubmitArguments struct {
	Context     string `json:"context"`
	Instruction string `json:"instruction"` // hex
}

// Submit - run a signed instruction
func (e *Escrow) Submit(arguments *SubmitArguments, reply *executor.Result) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	if nil == arguments || "" == arguments.Instruction {
		return fault.MissingParameters
	}

	name, err := instruction.ContextFromString(arguments.Context)
	if nil != err {
		return err
	}

	packed, err := hex.DecodeString(arguments.Instruction)
	if nil != err {
		return err
	}

	e.Log.Debugf("Escrow.Submit: context: %s  type: %d  bytes: %d", name, instruction.Packed(packed).Type(), len(packed))

	result, err := e.Dispatcher.Submit(e.Dispatcher.ContextFor(name), packed)
	if nil != err {
		return err
	}

	*reply = *result
	return nil
}

// ---

// GetArguments - either an address or a (mint, owner) pair
type GetArguments struct {
	Context string           `json:"context"`
	Address *account.Account `json:"address,omitempty"`
	Mint    *account.Account `json:"mint,omitempty"`
	Owner   *account.Account `json:"owner,omitempty"`
}

// Get - an escrow record as a context sees it
func (e *Escrow) Get(arguments *GetArguments, reply *executor.EscrowState) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	if nil == arguments {
		return fault.MissingParameters
	}

	name, err := instruction.ContextFromString(arguments.Context)
	if nil != err {
		return err
	}

	address := arguments.Address
	if nil == address {
		address, err = e.address(arguments.Mint, arguments.Owner)
		if nil != err {
			return err
		}
	} else if address.IsTesting() != e.IsTesting() {
		return fault.WrongNetworkForPublicKey
	}

	state, err := e.Dispatcher.EscrowAt(e.Dispatcher.ContextFor(name), address)
	if nil != err {
		return err
	}

	*reply = *state
	return nil
}

// ---

// AddressArguments - the seeds of an escrow address
type AddressArguments struct {
	Mint  *account.Account `json:"mint"`
	Owner *account.Account `json:"owner"`
}

// AddressReply - derived escrow address
type AddressReply struct {
	Address *account.Account `json:"address"`
	Bump    uint8            `json:"bump"`
}

// Address - compute the escrow address of (mint, owner)
func (e *Escrow) Address(arguments *AddressArguments, reply *AddressReply) error {
	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	if nil == arguments {
		return fault.MissingParameters
	}
	if err := e.check(arguments.Mint, arguments.Owner); nil != err {
		return err
	}

	address, bump, err := e.Dispatcher.Address(arguments.Mint, arguments.Owner)
	if nil != err {
		return err
	}

	reply.Address = address
	reply.Bump = bump
	return nil
}

func (e *Escrow) address(mint *account.Account, owner *account.Account) (*account.Account, error) {
	if err := e.check(mint, owner); nil != err {
		return nil, err
	}
	address, _, err := e.Dispatcher.Address(mint, owner)
	return address, err
}

func (e *Escrow) check(mint *account.Account, owner *account.Account) error {
	if nil == mint || nil == owner {
		return fault.MissingParameters
	}
	if mint.IsTesting() != e.IsTesting() || owner.IsTesting() != e.IsTesting() {
		return fault.WrongNetworkForPublicKey
	}
	return nil
}
