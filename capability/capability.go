// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package capability - deterministic addresses derived from a program
// identity and a list of seeds, and the authorities that may act for
// an account
//
// a derived address is a SHA3-256 digest that does not decode to an
// ed25519 curve point, so no private key can exist for it; the only way
// to act as that address is through a Capability constructed from the
// same program identity, seeds and bump value
package capability

import (
	"sync"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
)

// limits on seeds
const (
	MaximumSeeds      = 16
	MaximumSeedLength = 32
)

const derivationMarker = "ProgramDerivedAddress"

// Authority - something that can approve a movement of funds owned by an account
type Authority interface {
	Authorises(owner *account.Account) bool
}

// Signer - an account whose signature was already verified for the
// current instruction
type Signer struct {
	account *account.Account
}

// NewSigner - wrap a verified signing account
func NewSigner(a *account.Account) Signer {
	return Signer{account: a}
}

// Account - the signing account
func (s Signer) Account() *account.Account {
	return s.account
}

// Authorises - only its own account
func (s Signer) Authorises(owner *account.Account) bool {
	return s.account.Equal(owner)
}

// Capability - the right to act as a derived address for the duration
// of one atomic operation
type Capability struct {
	sync.Mutex
	address *account.Account
	bump    uint8
	revoked bool
}

// FindAddress - search bump values from 255 downwards for the first
// that gives an off-curve address
func FindAddress(program *account.Account, seeds [][]byte) (*account.Account, uint8, error) {
	for bump := 255; bump >= 0; bump -= 1 {
		address, err := CreateAddress(program, seeds, uint8(bump))
		if nil == err {
			return address, uint8(bump), nil
		}
		if fault.NotDerivedAddress != err {
			return nil, 0, err
		}
	}
	return nil, 0, fault.NoDerivedAddress
}

// CreateAddress - derive the address for one specific bump value
func CreateAddress(program *account.Account, seeds [][]byte, bump uint8) (*account.Account, error) {
	if nil == program || len(seeds) > MaximumSeeds {
		return nil, fault.InvalidSeeds
	}

	h := sha3.New256()
	for _, seed := range seeds {
		if len(seed) > MaximumSeedLength {
			return nil, fault.InvalidSeeds
		}
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(program.PublicKeyBytes())
	h.Write([]byte(derivationMarker))
	digest := h.Sum(nil)

	if isOnCurve(digest) {
		return nil, fault.NotDerivedAddress
	}

	return &account.Account{
		AccountInterface: &account.DerivedAccount{
			Test:    program.IsTesting(),
			Address: digest,
		},
	}, nil
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return nil == err
}

// New - recreate the capability for a derived address
//
// fails unless the seeds and bump re-derive an off-curve address
func New(program *account.Account, seeds [][]byte, bump uint8) (*Capability, error) {
	address, err := CreateAddress(program, seeds, bump)
	if nil != err {
		return nil, err
	}
	return &Capability{
		address: address,
		bump:    bump,
	}, nil
}

// Account - the derived address this capability acts for
func (c *Capability) Account() *account.Account {
	return c.address
}

// Bump - the bump value used in derivation
func (c *Capability) Bump() uint8 {
	return c.bump
}

// Authorises - true only for the derived address and only until revoked
func (c *Capability) Authorises(owner *account.Account) bool {
	c.Lock()
	defer c.Unlock()

	return !c.revoked && c.address.Equal(owner)
}

// Revoke - end of the operation that created the capability
func (c *Capability) Revoke() {
	c.Lock()
	c.revoked = true
	c.Unlock()
}
