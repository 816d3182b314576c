// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instruction

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

// decoder state, the first failure sticks
type decoder struct {
	record  Packed
	n       int
	testnet bool
	err     error
}

func (d *decoder) fail(err error) {
	if nil == d.err {
		d.err = err
	}
}

func (d *decoder) uint64() uint64 {
	if nil != d.err {
		return 0
	}
	value, count := util.FromVarint64(d.record[d.n:])
	if 0 == count {
		d.fail(fault.NotInstructionPack)
		return 0
	}
	d.n += count
	return value
}

func (d *decoder) field(minimum int, maximum int) []byte {
	if nil != d.err {
		return nil
	}
	var length, count int
	if 0 == minimum {
		// ClippedVarint64 cannot return a zero value distinct from failure
		value, c := util.FromVarint64(d.record[d.n:])
		if 0 == c || value > uint64(maximum) {
			d.fail(fault.NotInstructionPack)
			return nil
		}
		length, count = int(value), c
	} else {
		length, count = util.ClippedVarint64(d.record[d.n:], minimum, maximum)
		if 0 == count {
			d.fail(fault.NotInstructionPack)
			return nil
		}
	}
	d.n += count
	if d.n+length > len(d.record) {
		d.fail(fault.NotInstructionPack)
		return nil
	}
	b := d.record[d.n : d.n+length]
	d.n += length
	return b
}

func (d *decoder) account() *account.Account {
	b := d.field(1, maxAccountLength)
	if nil != d.err {
		return nil
	}
	return d.checkAccount(b)
}

func (d *decoder) optionalAccount() *account.Account {
	b := d.field(0, maxAccountLength)
	if nil != d.err || 0 == len(b) {
		return nil
	}
	return d.checkAccount(b)
}

func (d *decoder) checkAccount(b []byte) *account.Account {
	a, err := account.AccountFromBytes(b)
	if nil != err {
		d.fail(err)
		return nil
	}
	if a.IsTesting() != d.testnet {
		d.fail(fault.WrongNetworkForPublicKey)
		return nil
	}
	return a
}

// the signature is the last field; verify it against the preceding bytes
func (d *decoder) signature(signer *account.Account) account.Signature {
	if nil != d.err {
		return nil
	}
	message := d.record[:d.n]
	b := d.field(1, maxSignatureLength)
	if nil != d.err {
		return nil
	}
	if d.n != len(d.record) {
		d.fail(fault.NotInstructionPack)
		return nil
	}
	signature := make(account.Signature, len(b))
	copy(signature, b)
	if err := signer.CheckSignature(message, signature); nil != err {
		d.fail(err)
		return nil
	}
	return signature
}

// Unpack - turn a byte slice into an instruction
//
// the signature is verified; returns the instruction and the number
// of bytes consumed
func (record Packed) Unpack(testnet bool) (i Instruction, n int, e error) {
	defer func() {
		if r := recover(); nil != r {
			i = nil
			n = 0
			e = fault.NotInstructionPack
		}
	}()

	d := &decoder{
		record:  record,
		testnet: testnet,
	}

	switch TagType(d.uint64()) {

	case CreateMintTag:
		t := &CreateMint{
			Mint:      d.account(),
			Authority: d.account(),
			Decimals:  d.uint64(),
		}
		if nil == d.err && t.Decimals > MaximumDecimals {
			d.fail(fault.InvalidCount)
		}
		t.Signature = d.signature(t.Authority)
		i = t

	case MintToTag:
		t := &MintTo{
			Mint:      d.account(),
			Owner:     d.account(),
			Amount:    d.uint64(),
			Authority: d.account(),
			Nonce:     d.uint64(),
		}
		if nil == d.err && 0 == t.Amount {
			d.fail(fault.InvalidAmount)
		}
		if nil == d.err && account.Derived == t.Owner.KeyType() {
			d.fail(fault.DerivedOwner)
		}
		t.Signature = d.signature(t.Authority)
		i = t

	case CreateEscrowTag:
		t := &CreateEscrow{
			Mint:  d.account(),
			Owner: d.account(),
		}
		t.Signature = d.signature(t.Owner)
		i = t

	case DepositTag:
		t := &Deposit{
			Escrow: d.account(),
			Source: d.account(),
			Amount: d.uint64(),
			Owner:  d.account(),
			Nonce:  d.uint64(),
		}
		t.Signature = d.signature(t.Owner)
		i = t

	case DelegateTag:
		t := &Delegate{
			Escrow:          d.account(),
			CommitFrequency: d.uint64(),
			Validator:       d.optionalAccount(),
			Owner:           d.account(),
			Nonce:           d.uint64(),
		}
		if nil == d.err && t.CommitFrequency > MaximumFrequency {
			d.fail(fault.InvalidCommitFrequency)
		}
		t.Signature = d.signature(t.Owner)
		i = t

	case EscrowTransferTag:
		t := &EscrowTransfer{
			Sender:   d.account(),
			Receiver: d.account(),
			Amount:   d.uint64(),
			Owner:    d.account(),
			Nonce:    d.uint64(),
		}
		t.Signature = d.signature(t.Owner)
		i = t

	case CommitAndUndelegateTag:
		count := d.uint64()
		if nil == d.err && (0 == count || count > MaximumBatch) {
			d.fail(fault.NotInstructionPack)
		}
		t := &CommitAndUndelegate{}
		for j := uint64(0); j < count && nil == d.err; j += 1 {
			t.Escrows = append(t.Escrows, d.account())
		}
		t.Payer = d.account()
		t.Nonce = d.uint64()
		t.Signature = d.signature(t.Payer)
		i = t

	case WithdrawTag:
		t := &Withdraw{
			Sender:   d.account(),
			Receiver: d.account(),
			Amount:   d.uint64(),
			Owner:    d.account(),
			Nonce:    d.uint64(),
		}
		t.Signature = d.signature(t.Owner)
		i = t

	default:
		d.fail(fault.NotInstructionPack)
	}

	if nil != d.err {
		return nil, 0, d.err
	}
	return i, d.n, nil
}
