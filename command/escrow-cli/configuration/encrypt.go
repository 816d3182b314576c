// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bitmark-inc/escrowd/account"
)

// key derivation parameters
const (
	argonIterations  = 5
	argonMemory      = 1 << 16 // KiB
	argonParallelism = 4
	argonKeyLength   = 32
)

// Private - decrypted identity
type Private struct {
	PrivateKey  *account.PrivateKey
	Description string
}

// decryptIdentity - check if password unlocks data in the configuration file
func decryptIdentity(password string, identity *Identity, testnet bool) (*Private, error) {

	salt := new(Salt)
	err := salt.UnmarshalText([]byte(identity.Salt))
	if err != nil || identity.Data == "" {
		return nil, ErrNotPrivateKey
	}

	key := generateKey(password, salt)

	data, err := decryptData(identity.Data, key)
	if err != nil {
		return nil, ErrWrongPassword
	}

	privateKey, err := account.PrivateKeyFromHex(data, testnet)
	if err != nil {
		return nil, err
	}
	if privateKey.Account().String() != identity.Account {
		return nil, ErrWrongPassword
	}

	r := Private{
		PrivateKey:  privateKey,
		Description: identity.Description,
	}
	return &r, nil
}

func hashPassword(password string) (*Salt, *[32]byte, error) {
	salt, err := MakeSalt()
	if err != nil {
		return nil, nil, err
	}

	return salt, generateKey(password, salt), nil
}

func generateKey(password string, salt *Salt) *[32]byte {

	hash := argon2.IDKey([]byte(password), salt.Bytes(), argonIterations, argonMemory, argonParallelism, argonKeyLength)

	var secretKey [32]byte
	copy(secretKey[:], hash)

	return &secretKey
}

// encrypt a string and convert to hex
func encryptData(data string, secretKey *[32]byte) (string, error) {

	// ensure data not too small or too large
	l := len(data)
	if l < 32 || l >= 16384 {
		return "", ErrCryptoFailed
	}

	// a random 192 bit nonce is stored in front of the ciphertext
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", ErrCryptoFailed
	}

	ciphertext := secretbox.Seal(nonce[:], []byte(data), &nonce, secretKey)

	return hex.EncodeToString(ciphertext), nil
}

// decrypt a hex string and return plaintext
func decryptData(ciphertext string, secretKey *[32]byte) (string, error) {

	if ciphertext == "" {
		return "", ErrCryptoFailed
	}

	encrypted, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}
	if len(encrypted) <= 24 {
		return "", ErrCryptoFailed
	}

	var nonce [24]byte
	copy(nonce[:], encrypted[:24])

	decrypted, ok := secretbox.Open(nil, encrypted[24:], &nonce, secretKey)
	if !ok {
		return "", ErrCryptoFailed
	}

	return string(decrypted), nil
}
