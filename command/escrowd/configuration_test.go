// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/fixtures"
)

const configurationTemplate = `
local M = {}
M.data_directory = "."
M.chain = arg["chain"] or "testing"
M.program = "%s"
M.rollup = {
    validator = "%s",
    minimum_commit_frequency = %d,
    maximum_commit_frequency = 60 * 1000,
    check_interval = 250,
    maximum_batch = 16,
}
M.client_rpc = {
    maximum_connections = 50,
    bandwidth = 25000000,
    listen = { "127.0.0.1:2130" },
    certificate = "rpc.crt",
    private_key = "rpc.key",
    request_rate = %d,
    request_burst = 20,
}
M.metrics = { listen = "127.0.0.1:2131" }
M.logging = {
    size = 65536,
    count = 5,
    console = false,
    levels = { DEFAULT = "info" },
}
return M
`

type testConfigFile struct {
	dir       string
	fileName  string
	program   string
	validator string
}

func newTestConfigFile(t *testing.T) *testConfigFile {
	dir, err := ioutil.TempDir("", "escrowd")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	c := &testConfigFile{
		dir:       dir,
		fileName:  filepath.Join(dir, "escrowd.conf"),
		program:   fixtures.NewKey().Account().String(),
		validator: fixtures.NewKey().Account().String(),
	}
	c.write(t, 100, 0)
	return c
}

func (c *testConfigFile) write(t *testing.T, minimum uint32, requestRate int) {
	s := fmt.Sprintf(configurationTemplate, c.program, c.validator, minimum, requestRate)
	if err := ioutil.WriteFile(c.fileName, []byte(s), 0600); nil != err {
		t.Fatalf("write configuration error: %s", err)
	}
}

func (c *testConfigFile) remove() {
	_ = os.RemoveAll(c.dir)
}

func TestGetConfiguration(t *testing.T) {
	c := newTestConfigFile(t)
	defer c.remove()

	options, err := getConfiguration(c.fileName, nil)
	assert.Nil(t, err, "wrong getConfiguration")

	dir, _ := filepath.Abs(c.dir)
	assert.Equal(t, dir, options.DataDirectory, "wrong data directory")
	assert.Equal(t, chain.Testing, options.Chain, "wrong chain")
	assert.Equal(t, filepath.Join(dir, "data", chain.Testing), options.Database.Name, "wrong database")
	assert.Equal(t, filepath.Join(dir, "rpc.crt"), options.ClientRPC.Certificate, "wrong certificate")
	assert.Equal(t, filepath.Join(dir, "log"), options.Logging.Directory, "wrong log directory")
	assert.Equal(t, defaultLogFile, options.Logging.File, "wrong default log file")
	assert.Equal(t, uint32(100), options.Rollup.MinimumCommitFrequency, "wrong minimum")
	assert.Equal(t, uint32(60000), options.Rollup.MaximumCommitFrequency, "wrong maximum")
	assert.Equal(t, uint32(250), options.Rollup.CheckInterval, "wrong interval")
	assert.Equal(t, 16, options.Rollup.MaximumBatch, "wrong batch")
	assert.Equal(t, uint64(50), options.ClientRPC.MaximumConnections, "wrong connections")
	assert.Equal(t, 20, options.ClientRPC.RequestBurst, "wrong burst")
	assert.Equal(t, "127.0.0.1:2131", options.Metrics.Listen, "wrong metrics")
	assert.Equal(t, "info", options.Logging.Levels["DEFAULT"], "wrong log level")

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.Nil(t, err, "database directory not created")
}

func TestGetConfigurationErrors(t *testing.T) {
	c := newTestConfigFile(t)
	defer c.remove()

	_, err := getConfiguration(c.fileName, map[string]string{"chain": "moon"})
	assert.NotNil(t, err, "accepted unknown chain")

	// test keys on the live chain
	_, err = getConfiguration(c.fileName, map[string]string{"chain": chain.Live})
	assert.NotNil(t, err, "accepted wrong network identity")

	c.program = "not-base58"
	c.write(t, 100, 0)
	_, err = getConfiguration(c.fileName, nil)
	assert.NotNil(t, err, "accepted bad program")

	c.program = fixtures.NewKey().Account().String()
	c.write(t, 90000, 0)
	_, err = getConfiguration(c.fileName, nil)
	assert.NotNil(t, err, "accepted inverted bounds")

	_, err = getConfiguration(filepath.Join(c.dir, "missing.conf"), nil)
	assert.NotNil(t, err, "accepted missing file")
}
