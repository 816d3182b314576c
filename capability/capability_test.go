// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package capability_test

import (
	"bytes"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/capability"
	"github.com/bitmark-inc/escrowd/fault"
)

func newAccount(t *testing.T) *account.Account {
	privateKey, err := account.NewPrivateKey(true)
	assert.Nil(t, err)
	return privateKey.Account()
}

func TestFindAddressDeterministic(t *testing.T) {
	program := newAccount(t)
	mint := newAccount(t)
	owner := newAccount(t)
	seeds := [][]byte{[]byte("token_escrow"), mint.PublicKeyBytes(), owner.PublicKeyBytes()}

	address1, bump1, err := capability.FindAddress(program, seeds)
	assert.Nil(t, err)
	address2, bump2, err := capability.FindAddress(program, seeds)
	assert.Nil(t, err)

	assert.True(t, address1.Equal(address2))
	assert.Equal(t, bump1, bump2)
	assert.Equal(t, account.Derived, address1.KeyType())
	assert.True(t, address1.IsTesting())

	_, err = new(edwards25519.Point).SetBytes(address1.PublicKeyBytes())
	assert.NotNil(t, err, "derived address must be off curve")

	other := newAccount(t)
	address3, _, err := capability.FindAddress(program, [][]byte{[]byte("token_escrow"), mint.PublicKeyBytes(), other.PublicKeyBytes()})
	assert.Nil(t, err)
	assert.False(t, address1.Equal(address3))
}

func TestInvalidSeeds(t *testing.T) {
	program := newAccount(t)

	_, _, err := capability.FindAddress(program, [][]byte{bytes.Repeat([]byte{1}, capability.MaximumSeedLength+1)})
	assert.Equal(t, fault.InvalidSeeds, err)

	tooMany := make([][]byte, capability.MaximumSeeds+1)
	_, _, err = capability.FindAddress(program, tooMany)
	assert.Equal(t, fault.InvalidSeeds, err)
}

func TestCapability(t *testing.T) {
	program := newAccount(t)
	seeds := [][]byte{[]byte("token_escrow"), []byte("mint"), []byte("owner")}

	address, bump, err := capability.FindAddress(program, seeds)
	assert.Nil(t, err)

	c, err := capability.New(program, seeds, bump)
	assert.Nil(t, err)
	assert.True(t, address.Equal(c.Account()))
	assert.Equal(t, bump, c.Bump())

	assert.True(t, c.Authorises(address))
	assert.False(t, c.Authorises(program))

	c.Revoke()
	assert.False(t, c.Authorises(address), "revoked capability")
}

func TestSigner(t *testing.T) {
	a := newAccount(t)
	b := newAccount(t)
	s := capability.NewSigner(a)

	assert.True(t, s.Authorises(a))
	assert.False(t, s.Authorises(b))
	assert.True(t, a.Equal(s.Account()))
}
