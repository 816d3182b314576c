// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
)

const seedHex = "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"

func TestED25519RoundTrip(t *testing.T) {
	privateKey, err := account.PrivateKeyFromHex(seedHex, true)
	assert.Nil(t, err)

	a := privateKey.Account()
	assert.Equal(t, account.ED25519, a.KeyType())
	assert.True(t, a.IsTesting())

	fromBase58, err := account.AccountFromBase58(a.String())
	assert.Nil(t, err)
	assert.True(t, a.Equal(fromBase58))

	fromBytes, err := account.AccountFromBytes(a.Bytes())
	assert.Nil(t, err)
	assert.True(t, a.Equal(fromBytes))

	full, err := account.PrivateKeyFromHex(privateKey.String(), true)
	assert.Nil(t, err)
	assert.True(t, a.Equal(full.Account()))
}

func TestSignature(t *testing.T) {
	privateKey, err := account.NewPrivateKey(false)
	assert.Nil(t, err)

	message := []byte("deposit 100")
	signature := privateKey.Sign(message)

	a := privateKey.Account()
	assert.Nil(t, a.CheckSignature(message, signature))
	assert.Equal(t, fault.InvalidSignature, a.CheckSignature([]byte("deposit 101"), signature))
	assert.Equal(t, fault.InvalidSignature, a.CheckSignature(message, signature[1:]))
}

func TestDerivedAccount(t *testing.T) {
	a := &account.Account{
		AccountInterface: &account.DerivedAccount{
			Test:    true,
			Address: bytes.Repeat([]byte{0x5a}, account.DerivedKeySize),
		},
	}
	assert.Equal(t, account.Derived, a.KeyType())

	b, err := account.AccountFromBase58(a.String())
	assert.Nil(t, err)
	assert.True(t, a.Equal(b))

	assert.Equal(t, fault.InvalidSignature, a.CheckSignature([]byte("x"), make([]byte, 64)))

	_, err = account.AccountFromBytes(append(a.Bytes(), 0x00))
	assert.Equal(t, fault.InvalidKeyLength, err)
}

func TestAccountDecodeErrors(t *testing.T) {
	privateKey, _ := account.NewPrivateKey(false)
	s := privateKey.Account().String()

	// flip the last character to break the checksum
	last := s[len(s)-1]
	replacement := byte('2')
	if '2' == last {
		replacement = '3'
	}
	_, err := account.AccountFromBase58(s[:len(s)-1] + string(replacement))
	assert.NotNil(t, err)

	_, err = account.AccountFromBase58("")
	assert.Equal(t, fault.CannotDecodeAccount, err)

	_, err = account.AccountFromBytes([]byte{0x10})
	assert.Equal(t, fault.NotPublicKey, err)

	_, err = account.AccountFromBytes([]byte{0x71, 0x00})
	assert.Equal(t, fault.InvalidKeyType, err)
}

func TestAccountJSON(t *testing.T) {
	privateKey, _ := account.NewPrivateKey(true)
	a := privateKey.Account()

	b, err := json.Marshal(a)
	assert.Nil(t, err)
	assert.Equal(t, `"`+a.String()+`"`, string(b))

	var decoded account.Account
	assert.Nil(t, json.Unmarshal(b, &decoded))
	assert.True(t, a.Equal(&decoded))
}
