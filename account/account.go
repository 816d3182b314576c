// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

// enumeration of supported key algorithms
const (
	// list of valid algorithms
	ED25519 = iota + 1 // ordinary signing key
	Derived            // off-curve address derived from seeds, has no private key
	// end of list (one greater than last item)
	algorithmLimit
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmShift = 4 // shift 4 bits to get algorithm

	// DerivedKeySize - size of a derived address
	DerivedKeySize = 32
)

// Account - base type for accounts
type Account struct {
	AccountInterface
}

// AccountInterface - the methods every key type supports
type AccountInterface interface {
	KeyType() int
	PublicKeyBytes() []byte
	CheckSignature(message []byte, signature Signature) error
	Bytes() []byte
	String() string
	MarshalText() ([]byte, error)
	IsTesting() bool
}

// ED25519Account - for ed25519 signatures
type ED25519Account struct {
	Test      bool
	PublicKey []byte
}

// DerivedAccount - an address computed from seeds under a program
// identity, it can never produce a signature
type DerivedAccount struct {
	Test    bool
	Address []byte
}

// AccountFromBase58 - this converts a Base58 encoded string and returns an account
//
// one of the specific account types are returned using the base "AccountInterface"
// interface type to allow individual methods to be called.
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {
	accountDecoded := util.FromBase58(accountBase58Encoded)
	if len(accountDecoded) <= checksumLength {
		return nil, fault.CannotDecodeAccount
	}

	checksumStart := len(accountDecoded) - checksumLength
	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	return AccountFromBytes(accountDecoded[:checksumStart])
}

// AccountFromBytes - this converts a byte encoded buffer and returns an account
func AccountFromBytes(accountBytes []byte) (*Account, error) {
	keyVariant, keyVariantLength := util.FromVarint64(accountBytes)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.NotPublicKey
	}

	keyAlgorithm := keyVariant >> algorithmShift
	if keyAlgorithm < ED25519 || keyAlgorithm >= algorithmLimit {
		return nil, fault.InvalidKeyType
	}

	isTest := 0 != keyVariant&testKeyCode

	keyLength := len(accountBytes) - keyVariantLength
	key := make([]byte, keyLength)
	copy(key, accountBytes[keyVariantLength:])

	switch keyAlgorithm {
	case ED25519:
		if keyLength != ed25519.PublicKeySize {
			return nil, fault.InvalidKeyLength
		}
		account := &Account{
			AccountInterface: &ED25519Account{
				Test:      isTest,
				PublicKey: key,
			},
		}
		return account, nil
	case Derived:
		if keyLength != DerivedKeySize {
			return nil, fault.InvalidKeyLength
		}
		account := &Account{
			AccountInterface: &DerivedAccount{
				Test:    isTest,
				Address: key,
			},
		}
		return account, nil
	default:
		return nil, fault.InvalidKeyType
	}
}

// Equal - true if both accounts encode identically
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == other || nil == account.AccountInterface || nil == other.AccountInterface {
		return false
	}
	return bytes.Equal(account.Bytes(), other.Bytes())
}

// UnmarshalText - convert Base58 JSON form to an account
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	account.AccountInterface = a.AccountInterface
	return nil
}

func keyBytes(algorithm int, test bool, key []byte) []byte {
	keyVariant := uint64(algorithm<<algorithmShift) | publicKeyCode
	if test {
		keyVariant |= testKeyCode
	}
	return append(util.ToVarint64(keyVariant), key...)
}

func keyString(buffer []byte) string {
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return util.ToBase58(buffer)
}

// ED25519
// -------

// KeyType - key type code (see enumeration above)
func (account *ED25519Account) KeyType() int {
	return ED25519
}

// PublicKeyBytes - fetch the public key as byte slice
func (account *ED25519Account) PublicKeyBytes() []byte {
	return account.PublicKey[:]
}

// CheckSignature - check the signature of a message
func (account *ED25519Account) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}
	if !ed25519.Verify(account.PublicKey[:], message, signature) {
		return fault.InvalidSignature
	}
	return nil
}

// Bytes - byte slice for encoded key
func (account *ED25519Account) Bytes() []byte {
	return keyBytes(ED25519, account.Test, account.PublicKey)
}

// String - base58 encoding of encoded key
func (account *ED25519Account) String() string {
	return keyString(account.Bytes())
}

// MarshalText - convert an account to its Base58 JSON form
func (account ED25519Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// IsTesting - return whether the public key is in test mode or not
func (account ED25519Account) IsTesting() bool {
	return account.Test
}

// Derived
// -------

// KeyType - key type code (see enumeration above)
func (account *DerivedAccount) KeyType() int {
	return Derived
}

// PublicKeyBytes - the derived address
func (account *DerivedAccount) PublicKeyBytes() []byte {
	return account.Address[:]
}

// CheckSignature - always fails
func (account *DerivedAccount) CheckSignature(message []byte, signature Signature) error {
	return fault.InvalidSignature
}

// Bytes - byte slice for encoded key
func (account *DerivedAccount) Bytes() []byte {
	return keyBytes(Derived, account.Test, account.Address)
}

// String - base58 encoding of encoded key
func (account *DerivedAccount) String() string {
	return keyString(account.Bytes())
}

// MarshalText - convert an account to its Base58 JSON form
func (account DerivedAccount) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// IsTesting - return whether the address is in test mode or not
func (account DerivedAccount) IsTesting() bool {
	return account.Test
}
