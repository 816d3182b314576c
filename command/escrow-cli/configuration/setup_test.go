// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/command/escrow-cli/configuration"
)

const password = "correct horse battery staple"

func newConfiguration() *configuration.Configuration {
	return &configuration.Configuration{
		DefaultIdentity: "alice",
		TestNet:         true,
		Connections:     []string{"127.0.0.1:2130"},
		Identities:      make(map[string]configuration.Identity),
	}
}

func TestAddIdentity(t *testing.T) {
	config := newConfiguration()

	key, _ := account.NewPrivateKey(true)
	err := config.AddIdentity("alice", "first", key, password)
	assert.Nil(t, err, "wrong AddIdentity")

	err = config.AddIdentity("alice", "again", key, password)
	assert.Equal(t, configuration.ErrIdentityNameAlreadyExists, err, "duplicate name")

	live, _ := account.NewPrivateKey(false)
	err = config.AddIdentity("bob", "live", live, password)
	assert.Equal(t, configuration.ErrWrongNetwork, err, "live key on testnet")

	a, err := config.Account("alice")
	assert.Nil(t, err, "wrong Account")
	assert.Equal(t, key.Account().String(), a.String(), "wrong account")

	private, err := config.Private(password, "alice")
	assert.Nil(t, err, "wrong Private")
	assert.Equal(t, key.String(), private.PrivateKey.String(), "wrong private key")
	assert.Equal(t, "first", private.Description, "wrong description")

	_, err = config.Private("wrong password", "alice")
	assert.Equal(t, configuration.ErrWrongPassword, err, "accepted wrong password")

	_, err = config.Private(password, "nobody")
	assert.Equal(t, configuration.ErrIdentityNameNotFound, err, "found missing identity")
}

func TestAddReceiveOnlyIdentity(t *testing.T) {
	config := newConfiguration()

	key, _ := account.NewPrivateKey(true)
	err := config.AddReceiveOnlyIdentity("carol", "receiver", key.Account().String())
	assert.Nil(t, err, "wrong AddReceiveOnlyIdentity")

	_, err = config.Private(password, "carol")
	assert.Equal(t, configuration.ErrNotPrivateKey, err, "receive only identity decrypted")

	err = config.AddReceiveOnlyIdentity("dave", "bad", "not-an-account")
	assert.NotNil(t, err, "accepted bad account")

	live, _ := account.NewPrivateKey(false)
	err = config.AddReceiveOnlyIdentity("erin", "live", live.Account().String())
	assert.Equal(t, configuration.ErrWrongNetwork, err, "live account on testnet")
}

func TestSaveAndLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrow-cli")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "testing-escrow-cli.json")

	config := newConfiguration()
	key, _ := account.NewPrivateKey(true)
	_ = config.AddIdentity("alice", "first", key, password)
	_ = config.AddReceiveOnlyIdentity("bob", "second", key.Account().String())

	err = configuration.Save(filename, config)
	assert.Nil(t, err, "first save")

	err = configuration.Save(filename, config)
	assert.Nil(t, err, "second save")

	_, err = os.Stat(filename + ".bk")
	assert.Nil(t, err, "no backup file")

	loaded, err := configuration.Load(filename)
	assert.Nil(t, err, "wrong Load")
	assert.Equal(t, config, loaded, "configuration changed")
	assert.Equal(t, []string{"alice", "bob"}, loaded.Names(), "wrong names")

	private, err := loaded.Private(password, "alice")
	assert.Nil(t, err, "decrypt after load")
	assert.Equal(t, key.String(), private.PrivateKey.String(), "wrong key after load")
}
