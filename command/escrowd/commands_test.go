// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
)

func TestGetFilenameWithDirectory(t *testing.T) {
	assert.Equal(t, "rpc.crt", getFilenameWithDirectory(nil, "rpc.crt"), "wrong default")
	assert.Equal(t, "/etc/escrowd/rpc.crt", getFilenameWithDirectory([]string{"/etc/escrowd", "x"}, "rpc.crt"), "wrong directory")
}

func TestMakeIdentity(t *testing.T) {
	dir, err := ioutil.TempDir("", "identity")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	privateKeyFile := filepath.Join(dir, "program.private")
	publicKeyFile := filepath.Join(dir, "program.public")

	a, err := makeIdentity(privateKeyFile, publicKeyFile, true)
	assert.Nil(t, err, "wrong makeIdentity")
	assert.True(t, a.IsTesting(), "wrong network")

	public, _ := ioutil.ReadFile(publicKeyFile)
	decoded, err := account.AccountFromBase58(strings.TrimSpace(string(public)))
	assert.Nil(t, err, "public key file")
	assert.Equal(t, a.String(), decoded.String(), "wrong public key file")

	private, _ := ioutil.ReadFile(privateKeyFile)
	key, err := account.PrivateKeyFromHex(strings.TrimSpace(string(private)), true)
	assert.Nil(t, err, "private key file")
	assert.Equal(t, a.String(), key.Account().String(), "key pair mismatch")

	_, err = makeIdentity(privateKeyFile, publicKeyFile, true)
	assert.Equal(t, fault.KeyFileExists, err, "overwrote identity")
}
