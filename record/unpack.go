// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/binary"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

// maximum encoded account size
const maximumAccountLength = 64

// reader - sequential decoder, the first failure sticks
type reader struct {
	buffer []byte
	n      int
	err    error
}

func newReader(record Packed, expected Type) *reader {
	r := &reader{buffer: record}
	if Type(r.varint()) != expected {
		r.err = fault.SchemaMismatch
	}
	return r
}

func (r *reader) varint() uint64 {
	if nil != r.err {
		return 0
	}
	value, count := util.FromVarint64(r.buffer[r.n:])
	if 0 == count {
		r.err = fault.SchemaMismatch
		return 0
	}
	r.n += count
	return value
}

func (r *reader) bytes(length int) []byte {
	if nil != r.err {
		return nil
	}
	if length < 0 || r.n+length > len(r.buffer) {
		r.err = fault.SchemaMismatch
		return nil
	}
	b := r.buffer[r.n : r.n+length]
	r.n += length
	return b
}

func (r *reader) account() *account.Account {
	if nil != r.err {
		return nil
	}
	length, count := util.ClippedVarint64(r.buffer[r.n:], 1, maximumAccountLength)
	if 0 == count {
		r.err = fault.SchemaMismatch
		return nil
	}
	r.n += count
	b := r.bytes(length)
	if nil != r.err {
		return nil
	}
	a, err := account.AccountFromBytes(b)
	if nil != err {
		r.err = fault.SchemaMismatch
		return nil
	}
	return a
}

func (r *reader) uint64() uint64 {
	b := r.bytes(8)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *reader) uint32() uint32 {
	b := r.bytes(4)
	if nil == b {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *reader) byte() byte {
	b := r.bytes(1)
	if nil == b {
		return 0
	}
	return b[0]
}

// finish - all bytes must have been consumed
func (r *reader) finish() error {
	if nil == r.err && r.n != len(r.buffer) {
		r.err = fault.SchemaMismatch
	}
	return r.err
}

// UnpackEscrow - validate and decode an escrow record
func UnpackEscrow(record Packed) (*Escrow, error) {
	r := newReader(record, EscrowTag)
	e := &Escrow{
		Owner:         r.account(),
		Mint:          r.account(),
		PooledAccount: r.account(),
		Balance:       r.uint64(),
	}
	flags := r.byte()
	e.Bump = r.byte()
	if err := r.finish(); nil != err {
		return nil, err
	}
	if 0 != flags&^knownFlags {
		return nil, fault.SchemaMismatch
	}
	e.Delegated = 0 != flags&delegatedFlag
	return e, nil
}

// UnpackTokenAccount - validate and decode a token account
func UnpackTokenAccount(record Packed) (*TokenAccount, error) {
	r := newReader(record, TokenAccountTag)
	a := &TokenAccount{
		Mint:   r.account(),
		Owner:  r.account(),
		Amount: r.uint64(),
	}
	if err := r.finish(); nil != err {
		return nil, err
	}
	return a, nil
}

// UnpackMint - validate and decode mint metadata
func UnpackMint(record Packed) (*Mint, error) {
	r := newReader(record, MintTag)
	m := &Mint{
		Authority: r.account(),
		Decimals:  r.byte(),
		Supply:    r.uint64(),
	}
	if err := r.finish(); nil != err {
		return nil, err
	}
	return m, nil
}

// UnpackDelegation - validate and decode delegation metadata
func UnpackDelegation(record Packed) (*Delegation, error) {
	r := newReader(record, DelegationTag)
	d := &Delegation{
		Validator:       r.account(),
		CommitFrequency: r.uint32(),
		DelegatedAt:     r.varint(),
	}
	if err := r.finish(); nil != err {
		return nil, err
	}
	return d, nil
}

// UnpackCommit - validate and decode a commit receipt
func UnpackCommit(record Packed) (*Commit, error) {
	r := newReader(record, CommitTag)
	undelegated := r.byte()
	c := &Commit{
		Undelegated: 1 == undelegated,
		Timestamp:   r.varint(),
	}
	count := r.varint()
	if nil == r.err && (0 == count || count > MaximumCommitRecords || undelegated > 1) {
		return nil, fault.SchemaMismatch
	}
	for i := uint64(0); i < count && nil == r.err; i += 1 {
		c.Escrows = append(c.Escrows, r.account())
	}
	if err := r.finish(); nil != err {
		return nil, err
	}
	return c, nil
}
