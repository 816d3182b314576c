// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/command/escrow-cli/rpccalls"
	"github.com/bitmark-inc/escrowd/fault"
)

// errors reported to the command line
var (
	ErrInvalidName        = fault.InvalidError("identity name is required")
	ErrInvalidDescription = fault.InvalidError("description is required")
	ErrInvalidConnect     = fault.InvalidError("connect must be HOST:PORT")
	ErrInvalidAmount      = fault.InvalidError("amount is required")
	ErrInvalidMint        = fault.InvalidError("mint is required")
	ErrInvalidReceiver    = fault.InvalidError("receiver is required")
	ErrIncompatible       = fault.InvalidError("incompatible options")
	ErrNoConnections      = fault.NotFoundError("no connections configured")
)

func checkNetwork(network string) (string, error) {
	switch network {
	case "live", "bitmark":
		return "live", nil
	case "testing", "test":
		return "testing", nil
	case "local", "regression":
		return "local", nil
	default:
		return "", fmt.Errorf("network: %q can only be live/testing/local", network)
	}
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if "" == name {
		return "", ErrInvalidName
	}
	return name, nil
}

func checkDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if "" == description {
		return "", ErrInvalidDescription
	}
	return description, nil
}

// comma separated HOST:PORT list
func checkConnect(connect string) ([]string, error) {
	connections := []string{}
	for _, c := range strings.Split(connect, ",") {
		c = strings.TrimSpace(c)
		if "" == c {
			continue
		}
		host, port, err := net.SplitHostPort(c)
		if nil != err || "" == host {
			return nil, ErrInvalidConnect
		}
		if n, err := strconv.Atoi(port); nil != err || n < 1 || n > 65535 {
			return nil, ErrInvalidConnect
		}
		connections = append(connections, c)
	}
	if 0 == len(connections) {
		return nil, ErrInvalidConnect
	}
	return connections, nil
}

func checkAmount(amount uint64) (uint64, error) {
	if 0 == amount {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// new key or one given as hex
func checkKey(key string, testnet bool) (*account.PrivateKey, error) {
	if "" == key {
		return account.NewPrivateKey(testnet)
	}
	return account.PrivateKeyFromHex(key, testnet)
}

// checkFileExists - true if path is a directory
func checkFileExists(name string) (bool, error) {
	info, err := os.Stat(name)
	if nil != err {
		return false, err
	}
	return info.IsDir(), nil
}

// identityName - selected identity or the default one
func identityName(c *cli.Context, m *metadata) string {
	name := c.GlobalString("identity")
	if "" == name {
		name = m.config.DefaultIdentity
	}
	return name
}

// resolveAccount - an identity name or a base58 account, blank means the
// current identity
func resolveAccount(c *cli.Context, m *metadata, s string) (*account.Account, error) {
	if "" == s {
		s = identityName(c, m)
	}
	if _, ok := m.config.Identities[s]; ok {
		return m.config.Account(s)
	}
	a, err := account.AccountFromBase58(s)
	if nil != err {
		return nil, err
	}
	if a.IsTesting() != m.testnet {
		return nil, fault.WrongNetworkForPublicKey
	}
	return a, nil
}

// requiredAccount - like resolveAccount but blank is an error
func requiredAccount(c *cli.Context, m *metadata, s string, blank error) (*account.Account, error) {
	if "" == strings.TrimSpace(s) {
		return nil, blank
	}
	return resolveAccount(c, m, s)
}

// privateKey - decrypt the current identity
func privateKey(c *cli.Context, m *metadata) (*account.PrivateKey, error) {
	name := identityName(c, m)

	password := c.GlobalString("password")
	if "" == password {
		var err error
		password, err = promptPassword(name)
		if nil != err {
			return nil, err
		}
	}

	private, err := m.config.Private(password, name)
	if nil != err {
		return nil, err
	}
	return private.PrivateKey, nil
}

// connect - first reachable escrowd
func connect(m *metadata) (*rpccalls.Client, error) {
	if 0 == len(m.config.Connections) {
		return nil, ErrNoConnections
	}
	var lastError error
	for _, c := range m.config.Connections {
		if m.verbose {
			fmt.Fprintf(m.e, "connecting to: %s\n", c)
		}
		client, err := rpccalls.NewClient(m.testnet, c, m.verbose, m.e)
		if nil == err {
			return client, nil
		}
		lastError = err
	}
	return nil, lastError
}

// nonce - distinguishes otherwise identical instructions
func nonce() uint64 {
	return uint64(time.Now().UnixNano())
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}
