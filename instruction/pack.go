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

// Pack - CreateMint
//
// NOTE: returns the "unsigned" message on signature failure so that a
//       client can sign it
func (i *CreateMint) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Mint || nil == i.Authority {
		return nil, fault.MissingParameters
	}
	if i.Decimals > MaximumDecimals {
		return nil, fault.InvalidCount
	}
	message := util.ToVarint64(uint64(CreateMintTag))
	message = appendAccount(message, i.Mint)
	message = appendAccount(message, i.Authority)
	message = appendUint64(message, i.Decimals)
	return signed(message, signer, i.Signature)
}

// Pack - MintTo
func (i *MintTo) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Mint || nil == i.Owner || nil == i.Authority {
		return nil, fault.MissingParameters
	}
	if 0 == i.Amount {
		return nil, fault.InvalidAmount
	}
	if account.Derived == i.Owner.KeyType() {
		return nil, fault.DerivedOwner
	}
	message := util.ToVarint64(uint64(MintToTag))
	message = appendAccount(message, i.Mint)
	message = appendAccount(message, i.Owner)
	message = appendUint64(message, i.Amount)
	message = appendAccount(message, i.Authority)
	message = appendUint64(message, i.Nonce)
	return signed(message, signer, i.Signature)
}

// Pack - CreateEscrow
func (i *CreateEscrow) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Mint || nil == i.Owner {
		return nil, fault.MissingParameters
	}
	message := util.ToVarint64(uint64(CreateEscrowTag))
	message = appendAccount(message, i.Mint)
	message = appendAccount(message, i.Owner)
	return signed(message, signer, i.Signature)
}

// Pack - Deposit
//
// a zero amount is packed so that the escrow can reject it
func (i *Deposit) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Escrow || nil == i.Source || nil == i.Owner {
		return nil, fault.MissingParameters
	}
	message := util.ToVarint64(uint64(DepositTag))
	message = appendAccount(message, i.Escrow)
	message = appendAccount(message, i.Source)
	message = appendUint64(message, i.Amount)
	message = appendAccount(message, i.Owner)
	message = appendUint64(message, i.Nonce)
	return signed(message, signer, i.Signature)
}

// Pack - Delegate
func (i *Delegate) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Escrow || nil == i.Owner {
		return nil, fault.MissingParameters
	}
	if i.CommitFrequency > MaximumFrequency {
		return nil, fault.InvalidCommitFrequency
	}
	message := util.ToVarint64(uint64(DelegateTag))
	message = appendAccount(message, i.Escrow)
	message = appendUint64(message, i.CommitFrequency)
	message = appendOptionalAccount(message, i.Validator)
	message = appendAccount(message, i.Owner)
	message = appendUint64(message, i.Nonce)
	return signed(message, signer, i.Signature)
}

// Pack - EscrowTransfer
func (i *EscrowTransfer) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Sender || nil == i.Receiver || nil == i.Owner {
		return nil, fault.MissingParameters
	}
	message := util.ToVarint64(uint64(EscrowTransferTag))
	message = appendAccount(message, i.Sender)
	message = appendAccount(message, i.Receiver)
	message = appendUint64(message, i.Amount)
	message = appendAccount(message, i.Owner)
	message = appendUint64(message, i.Nonce)
	return signed(message, signer, i.Signature)
}

// Pack - CommitAndUndelegate
func (i *CommitAndUndelegate) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Payer {
		return nil, fault.MissingParameters
	}
	if 0 == len(i.Escrows) {
		return nil, fault.EmptyBatch
	}
	if len(i.Escrows) > MaximumBatch {
		return nil, fault.TooManyRecords
	}
	message := util.ToVarint64(uint64(CommitAndUndelegateTag))
	message = appendUint64(message, uint64(len(i.Escrows)))
	for _, e := range i.Escrows {
		if nil == e {
			return nil, fault.MissingParameters
		}
		message = appendAccount(message, e)
	}
	message = appendAccount(message, i.Payer)
	message = appendUint64(message, i.Nonce)
	return signed(message, signer, i.Signature)
}

// Pack - Withdraw
func (i *Withdraw) Pack(signer *account.Account) (Packed, error) {
	if nil == i.Sender || nil == i.Receiver || nil == i.Owner {
		return nil, fault.MissingParameters
	}
	message := util.ToVarint64(uint64(WithdrawTag))
	message = appendAccount(message, i.Sender)
	message = appendAccount(message, i.Receiver)
	message = appendUint64(message, i.Amount)
	message = appendAccount(message, i.Owner)
	message = appendUint64(message, i.Nonce)
	return signed(message, signer, i.Signature)
}

// check the signature over the message and append it last
func signed(message []byte, signer *account.Account, signature account.Signature) (Packed, error) {
	if len(signature) > maxSignatureLength {
		return nil, fault.SignatureTooLong
	}
	if nil == signer {
		return nil, fault.MissingParameters
	}
	if err := signer.CheckSignature(message, signature); nil != err {
		return message, err
	}
	return appendBytes(message, signature), nil
}

// append a single field to a buffer
//
// the field is prefixed by Varint64(length)
func appendBytes(buffer []byte, data []byte) []byte {
	l := util.ToVarint64(uint64(len(data)))
	buffer = append(buffer, l...)
	return append(buffer, data...)
}

// append a an account to a buffer
func appendAccount(buffer []byte, a *account.Account) []byte {
	return appendBytes(buffer, a.Bytes())
}

// an absent account is a zero length field
func appendOptionalAccount(buffer []byte, a *account.Account) []byte {
	if nil == a {
		return appendBytes(buffer, nil)
	}
	return appendAccount(buffer, a)
}

// append a Varint64 to buffer
func appendUint64(buffer []byte, value uint64) []byte {
	return append(buffer, util.ToVarint64(value)...)
}
