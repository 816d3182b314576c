// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package instruction - signed requests submitted to an execution context
//
// Pack writes Varint64(tag) followed by the fields in struct order with
// the signature last; Unpack validates the layout, the network of every
// account and the signature before returning a typed instruction
package instruction

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/merkle"
	"github.com/bitmark-inc/escrowd/util"
)

// TagType - type code for instructions
type TagType uint64

// enumerated instruction types
const (
	NullTag                TagType = iota
	CreateMintTag          TagType = iota
	MintToTag              TagType = iota
	CreateEscrowTag        TagType = iota
	DepositTag             TagType = iota
	DelegateTag            TagType = iota
	EscrowTransferTag      TagType = iota
	CommitAndUndelegateTag TagType = iota
	WithdrawTag            TagType = iota

	// this item must be last
	InvalidTag TagType = iota
)

// Context - the execution context an instruction must be submitted to
type Context int

// the two contexts
const (
	Primary Context = iota
	Rollup
)

// String - context name
func (c Context) String() string {
	switch c {
	case Primary:
		return "primary"
	case Rollup:
		return "rollup"
	default:
		return "invalid"
	}
}

// ContextFromString - parse a context name
func ContextFromString(s string) (Context, error) {
	switch s {
	case "primary", "ledger":
		return Primary, nil
	case "rollup":
		return Rollup, nil
	default:
		return Primary, fault.InvalidContext
	}
}

// limits
const (
	maxSignatureLength = 64
	maxAccountLength   = 64
	MaximumDecimals    = 18
	MaximumBatch       = 64
	MaximumFrequency   = 0xffffffff // milliseconds, fits 32 bits
)

// Packed - packed records are just a byte slice
type Packed []byte

// Instruction - generic instruction interface
type Instruction interface {
	Pack(signer *account.Account) (Packed, error)
	Signer() *account.Account
	Context() Context
	setSignature(account.Signature)
}

// CreateMint - register a new token type
type CreateMint struct {
	Mint      *account.Account  `json:"mint"`
	Authority *account.Account  `json:"authority"`
	Decimals  uint64            `json:"decimals"`
	Signature account.Signature `json:"signature"`
}

// MintTo - create new tokens in an owner's associated token account
type MintTo struct {
	Mint      *account.Account  `json:"mint"`
	Owner     *account.Account  `json:"owner"`
	Amount    uint64            `json:"amount,string"`
	Authority *account.Account  `json:"authority"`
	Nonce     uint64            `json:"nonce,string"`
	Signature account.Signature `json:"signature"`
}

// CreateEscrow - create the escrow record for (mint, owner)
type CreateEscrow struct {
	Mint      *account.Account  `json:"mint"`
	Owner     *account.Account  `json:"owner"`
	Signature account.Signature `json:"signature"`
}

// Deposit - move tokens from a source token account into an escrow
type Deposit struct {
	Escrow    *account.Account  `json:"escrow"`
	Source    *account.Account  `json:"source"`
	Amount    uint64            `json:"amount,string"`
	Owner     *account.Account  `json:"owner"`
	Nonce     uint64            `json:"nonce,string"`
	Signature account.Signature `json:"signature"`
}

// Delegate - hand an escrow to the rollup
type Delegate struct {
	Escrow          *account.Account  `json:"escrow"`
	CommitFrequency uint64            `json:"commitFrequency"` // milliseconds
	Validator       *account.Account  `json:"validator,omitempty"`
	Owner           *account.Account  `json:"owner"`
	Nonce           uint64            `json:"nonce,string"`
	Signature       account.Signature `json:"signature"`
}

// EscrowTransfer - accounting only transfer between delegated escrows
type EscrowTransfer struct {
	Sender    *account.Account  `json:"sender"`
	Receiver  *account.Account  `json:"receiver"`
	Amount    uint64            `json:"amount,string"`
	Owner     *account.Account  `json:"owner"`
	Nonce     uint64            `json:"nonce,string"`
	Signature account.Signature `json:"signature"`
}

// CommitAndUndelegate - return a batch of escrows to the primary ledger
type CommitAndUndelegate struct {
	Escrows   []*account.Account `json:"escrows"`
	Payer     *account.Account   `json:"payer"`
	Nonce     uint64             `json:"nonce,string"`
	Signature account.Signature  `json:"signature"`
}

// Withdraw - move pooled tokens between two undelegated escrows
type Withdraw struct {
	Sender    *account.Account  `json:"sender"`
	Receiver  *account.Account  `json:"receiver"`
	Amount    uint64            `json:"amount,string"`
	Owner     *account.Account  `json:"owner"`
	Nonce     uint64            `json:"nonce,string"`
	Signature account.Signature `json:"signature"`
}

// Type - extract the instruction type code
func (record Packed) Type() TagType {
	recordType, n := util.FromVarint64(record)
	if 0 == n || recordType >= uint64(InvalidTag) {
		return InvalidTag
	}
	return TagType(recordType)
}

// MakeId - the identifier of a packed instruction
func (record Packed) MakeId() merkle.Digest {
	return merkle.NewDigest(record)
}

// Sign - pack, sign the unsigned message and pack again
func Sign(i Instruction, privateKey *account.PrivateKey) (Packed, error) {
	signer := i.Signer()
	if nil == signer {
		return nil, fault.MissingParameters
	}
	if !signer.Equal(privateKey.Account()) {
		return nil, fault.InvalidAuthority
	}
	message, err := i.Pack(signer)
	if nil == err {
		return message, nil
	}
	if fault.InvalidSignature != err {
		return nil, err
	}
	i.setSignature(privateKey.Sign(message))
	return i.Pack(signer)
}

// Signer and Context for each instruction

func (i *CreateMint) Signer() *account.Account          { return i.Authority }
func (i *MintTo) Signer() *account.Account              { return i.Authority }
func (i *CreateEscrow) Signer() *account.Account        { return i.Owner }
func (i *Deposit) Signer() *account.Account             { return i.Owner }
func (i *Delegate) Signer() *account.Account            { return i.Owner }
func (i *EscrowTransfer) Signer() *account.Account      { return i.Owner }
func (i *CommitAndUndelegate) Signer() *account.Account { return i.Payer }
func (i *Withdraw) Signer() *account.Account            { return i.Owner }

func (i *CreateMint) Context() Context          { return Primary }
func (i *MintTo) Context() Context              { return Primary }
func (i *CreateEscrow) Context() Context        { return Primary }
func (i *Deposit) Context() Context             { return Primary }
func (i *Delegate) Context() Context            { return Primary }
func (i *EscrowTransfer) Context() Context      { return Rollup }
func (i *CommitAndUndelegate) Context() Context { return Rollup }
func (i *Withdraw) Context() Context            { return Primary }

func (i *CreateMint) setSignature(s account.Signature)          { i.Signature = s }
func (i *MintTo) setSignature(s account.Signature)              { i.Signature = s }
func (i *CreateEscrow) setSignature(s account.Signature)        { i.Signature = s }
func (i *Deposit) setSignature(s account.Signature)             { i.Signature = s }
func (i *Delegate) setSignature(s account.Signature)            { i.Signature = s }
func (i *EscrowTransfer) setSignature(s account.Signature)      { i.Signature = s }
func (i *CommitAndUndelegate) setSignature(s account.Signature) { i.Signature = s }
func (i *Withdraw) setSignature(s account.Signature)            { i.Signature = s }
