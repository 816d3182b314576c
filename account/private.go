// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/escrowd/fault"
)

// PrivateKey - an ed25519 signing key
type PrivateKey struct {
	Test       bool
	PrivateKey ed25519.PrivateKey
}

// NewPrivateKey - generate a fresh key pair
func NewPrivateKey(test bool) (*PrivateKey, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}
	return &PrivateKey{
		Test:       test,
		PrivateKey: privateKey,
	}, nil
}

// PrivateKeyFromHex - accepts either a 32 byte seed or a full
// 64 byte [private key][public key] in hex
func PrivateKeyFromHex(s string, test bool) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if nil != err {
		return nil, err
	}
	switch len(b) {
	case ed25519.SeedSize:
		return &PrivateKey{Test: test, PrivateKey: ed25519.NewKeyFromSeed(b)}, nil
	case ed25519.PrivateKeySize:
		privateKey := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
		if !bytes.Equal(privateKey, b) {
			return nil, fault.InvalidKeyLength
		}
		return &PrivateKey{Test: test, PrivateKey: privateKey}, nil
	default:
		return nil, fault.InvalidKeyLength
	}
}

// Account - the public account for this key
func (privateKey *PrivateKey) Account() *Account {
	publicKey := make([]byte, ed25519.PublicKeySize)
	copy(publicKey, privateKey.PrivateKey.Public().(ed25519.PublicKey))
	return &Account{
		AccountInterface: &ED25519Account{
			Test:      privateKey.Test,
			PublicKey: publicKey,
		},
	}
}

// Sign - sign a message
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.PrivateKey, message)
}

// String - hex of the full private key
func (privateKey *PrivateKey) String() string {
	return hex.EncodeToString(privateKey.PrivateKey)
}
