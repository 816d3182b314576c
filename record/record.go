// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - persisted state layouts and their validation
//
// every value stored in a pool is a Packed record beginning with a
// varint type tag; Unpack checks the complete layout against the tag
// expected by the caller and fails with fault.SchemaMismatch for any
// truncated, oversized or mistyped value
package record

import (
	"encoding/binary"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

// Type - record type code
type Type uint64

// enumerated record types
const (
	NullTag         Type = iota
	EscrowTag       Type = iota
	TokenAccountTag Type = iota
	MintTag         Type = iota
	DelegationTag   Type = iota
	CommitTag       Type = iota

	// this item must be last
	InvalidTag Type = iota
)

// Packed - packed records are just a byte slice
type Packed []byte

// flag bits in escrow records
const (
	delegatedFlag = 0x01
	knownFlags    = delegatedFlag
)

// MaximumCommitRecords - limit on addresses in one commit receipt
const MaximumCommitRecords = 256

// Escrow - the bookkeeping for one (mint, owner) pair
type Escrow struct {
	Owner         *account.Account `json:"owner"`
	Mint          *account.Account `json:"mint"`
	PooledAccount *account.Account `json:"pooledAccount"`
	Balance       uint64           `json:"balance,string"`
	Delegated     bool             `json:"delegated"`
	Bump          uint8            `json:"bump"`
}

// TokenAccount - a holding of one mint by one owner
type TokenAccount struct {
	Mint   *account.Account `json:"mint"`
	Owner  *account.Account `json:"owner"`
	Amount uint64           `json:"amount,string"`
}

// Mint - metadata for a token type
type Mint struct {
	Authority *account.Account `json:"authority"`
	Decimals  uint8            `json:"decimals"`
	Supply    uint64           `json:"supply,string"`
}

// Delegation - rollup side metadata for a delegated escrow
type Delegation struct {
	Validator       *account.Account `json:"validator"`
	CommitFrequency uint32           `json:"commitFrequency"` // milliseconds
	DelegatedAt     uint64           `json:"delegatedAt"`     // unix milliseconds
}

// Commit - receipt for one flush from the rollup to the ledger
type Commit struct {
	Undelegated bool               `json:"undelegated"`
	Timestamp   uint64             `json:"timestamp"` // unix milliseconds
	Escrows     []*account.Account `json:"escrows"`
}

// Type - extract the record type code
func (record Packed) Type() Type {
	recordType, n := util.FromVarint64(record)
	if 0 == n || recordType >= uint64(InvalidTag) {
		return InvalidTag
	}
	return Type(recordType)
}

// Pack - escrow record
func (e *Escrow) Pack() (Packed, error) {
	if nil == e.Owner || nil == e.Mint || nil == e.PooledAccount {
		return nil, fault.MissingParameters
	}
	flags := byte(0)
	if e.Delegated {
		flags |= delegatedFlag
	}

	message := util.ToVarint64(uint64(EscrowTag))
	message = appendAccount(message, e.Owner)
	message = appendAccount(message, e.Mint)
	message = appendAccount(message, e.PooledAccount)
	message = appendUint64(message, e.Balance)
	message = append(message, flags, e.Bump)
	return message, nil
}

// Pack - token account
func (a *TokenAccount) Pack() (Packed, error) {
	if nil == a.Mint || nil == a.Owner {
		return nil, fault.MissingParameters
	}
	message := util.ToVarint64(uint64(TokenAccountTag))
	message = appendAccount(message, a.Mint)
	message = appendAccount(message, a.Owner)
	message = appendUint64(message, a.Amount)
	return message, nil
}

// Pack - mint
func (m *Mint) Pack() (Packed, error) {
	if nil == m.Authority {
		return nil, fault.MissingParameters
	}
	message := util.ToVarint64(uint64(MintTag))
	message = appendAccount(message, m.Authority)
	message = append(message, m.Decimals)
	message = appendUint64(message, m.Supply)
	return message, nil
}

// Pack - delegation metadata
func (d *Delegation) Pack() (Packed, error) {
	if nil == d.Validator {
		return nil, fault.MissingParameters
	}
	message := util.ToVarint64(uint64(DelegationTag))
	message = appendAccount(message, d.Validator)
	frequency := make([]byte, 4)
	binary.BigEndian.PutUint32(frequency, d.CommitFrequency)
	message = append(message, frequency...)
	message = append(message, util.ToVarint64(d.DelegatedAt)...)
	return message, nil
}

// Pack - commit receipt
func (c *Commit) Pack() (Packed, error) {
	if 0 == len(c.Escrows) {
		return nil, fault.EmptyBatch
	}
	if len(c.Escrows) > MaximumCommitRecords {
		return nil, fault.TooManyRecords
	}
	undelegated := byte(0)
	if c.Undelegated {
		undelegated = 1
	}
	message := util.ToVarint64(uint64(CommitTag))
	message = append(message, undelegated)
	message = append(message, util.ToVarint64(c.Timestamp)...)
	message = append(message, util.ToVarint64(uint64(len(c.Escrows)))...)
	for _, a := range c.Escrows {
		if nil == a {
			return nil, fault.MissingParameters
		}
		message = appendAccount(message, a)
	}
	return message, nil
}

// append a length-prefixed account
func appendAccount(buffer []byte, a *account.Account) []byte {
	b := a.Bytes()
	buffer = append(buffer, util.ToVarint64(uint64(len(b)))...)
	return append(buffer, b...)
}

// append a fixed size big endian value
func appendUint64(buffer []byte, value uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, value)
	return append(buffer, b...)
}
