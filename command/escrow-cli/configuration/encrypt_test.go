// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// test encrypt and decrypt one string with various passwords
func TestEncryptDecrypt(t *testing.T) {

	plainText := "The Quick Brown Fox Jumps Over The Lazy Dog"

	passwords := []string{"test", "123", "444", "m,erRGhtk%$33ug62sd al/fajfb.adv"}

	for _, password := range passwords {
		salt, key, err := hashPassword(password)
		if nil != err {
			t.Fatalf("hash error: %s", err)
		}

		encrypted, err := encryptData(plainText, key)
		if nil != err {
			t.Fatalf("encrypt error: %s", err)
		}

		decrypted, err := decryptData(encrypted, generateKey(password, salt))
		if nil != err {
			t.Fatalf("decrypt error: %s", err)
		}
		assert.Equal(t, plainText, decrypted, "wrong plain text")

		_, err = decryptData(encrypted, generateKey(password+"x", salt))
		assert.Equal(t, ErrCryptoFailed, err, "decrypted with wrong password")
	}
}

func TestEncryptSizeLimits(t *testing.T) {
	_, key, err := hashPassword("password")
	assert.Nil(t, err, "hash")

	_, err = encryptData("short", key)
	assert.Equal(t, ErrCryptoFailed, err, "accepted short data")

	_, err = decryptData("", key)
	assert.Equal(t, ErrCryptoFailed, err, "accepted empty ciphertext")

	_, err = decryptData("00112233", key)
	assert.Equal(t, ErrCryptoFailed, err, "accepted truncated ciphertext")
}

func TestSalt(t *testing.T) {
	salt, err := MakeSalt()
	assert.Nil(t, err, "make salt")

	text, err := salt.MarshalText()
	assert.Nil(t, err, "marshal")
	assert.Equal(t, salt.String(), string(text), "text mismatch")

	decoded := new(Salt)
	err = decoded.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, *salt, *decoded, "salt mismatch")

	err = decoded.UnmarshalText([]byte("0011"))
	assert.Equal(t, ErrUnmarshalTextFail, err, "accepted short salt")
}
