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

	"github.com/bitmark-inc/escrowd/configuration"
)

type rollupType struct {
	MinimumFrequency uint32 `gluamapper:"minimum_frequency"`
	MaximumFrequency uint32 `gluamapper:"maximum_frequency"`
}

type testConfiguration struct {
	DataDirectory string            `gluamapper:"data_directory"`
	Chain         string            `gluamapper:"chain"`
	Listen        []string          `gluamapper:"listen"`
	Rollup        rollupType        `gluamapper:"rollup"`
	Levels        map[string]string `gluamapper:"levels"`
}

const script = `
local M = {}
M.data_directory = "."
M.chain = arg["chain"] or "local"
M.listen = { "127.0.0.1:2130", "[::1]:2130" }
M.rollup = {
    minimum_frequency = 100,
    maximum_frequency = 60 * 1000,
}
M.levels = { main = "info", DEFAULT = "critical" }
return M
`

func writeScript(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "configuration")
	assert.Nil(t, err, "temp dir")
	fileName := filepath.Join(dir, "escrowd.conf")
	err = ioutil.WriteFile(fileName, []byte(script), 0600)
	assert.Nil(t, err, "write")
	return fileName, func() { _ = os.RemoveAll(dir) }
}

func TestParseConfigurationFile(t *testing.T) {
	fileName, cleanup := writeScript(t)
	defer cleanup()

	c := &testConfiguration{}
	err := configuration.ParseConfigurationFile(fileName, c, nil)
	assert.Nil(t, err, "parse")
	assert.Equal(t, ".", c.DataDirectory, "data directory")
	assert.Equal(t, "local", c.Chain, "chain")
	assert.Equal(t, []string{"127.0.0.1:2130", "[::1]:2130"}, c.Listen, "listen")
	assert.Equal(t, uint32(100), c.Rollup.MinimumFrequency, "minimum")
	assert.Equal(t, uint32(60000), c.Rollup.MaximumFrequency, "maximum")
	assert.Equal(t, "info", c.Levels["main"], "levels")
}

func TestParseWithVariables(t *testing.T) {
	fileName, cleanup := writeScript(t)
	defer cleanup()

	c := &testConfiguration{}
	err := configuration.ParseConfigurationFile(fileName, c, map[string]string{"chain": "testing"})
	assert.Nil(t, err, "parse")
	assert.Equal(t, "testing", c.Chain, "chain")
}

func TestParseMissingFile(t *testing.T) {
	c := &testConfiguration{}
	err := configuration.ParseConfigurationFile("/nonexistent/escrowd.conf", c, nil)
	assert.NotNil(t, err, "missing file")
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/log", configuration.EnsureAbsolute("/data", "log"), "relative")
	assert.Equal(t, "/var/log", configuration.EnsureAbsolute("/data", "/var/log"), "absolute")
	assert.Equal(t, "/data/x", configuration.EnsureAbsolute("/data", "./y/../x"), "cleaned")
}
