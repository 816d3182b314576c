// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/configuration"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/rpc/certificate"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"

	privateKeySuffix = ".private"
	publicKeySuffix  = ".public"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.MakeSelfSigned("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-identity", "id":
		if len(arguments) < 1 || ("program" != arguments[0] && "validator" != arguments[0]) {
			exitwithstatus.Message("error: identity must be one of: program, validator")
		}
		name := arguments[0]
		arguments = arguments[1:]

		testnet := false
		if len(arguments) >= 2 {
			switch arguments[1] {
			case "test", "testing", "local":
				testnet = true
			case "live":
			default:
				exitwithstatus.Message("error: network must be one of: live, test")
			}
		}

		privateKeyFilename := getFilenameWithDirectory(arguments, name+privateKeySuffix)
		publicKeyFilename := getFilenameWithDirectory(arguments, name+publicKeySuffix)

		a, err := makeIdentity(privateKeyFilename, publicKeyFilename, testnet)
		if nil != err {
			fmt.Printf("generate %s private key: %q and public key: %q error: %s\n", name, privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated %s private key: %q and public key: %q\n", name, privateKeyFilename, publicKeyFilename)
		fmt.Printf("%s identity: %s\n", name, a)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)    - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]         - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-identity KIND [DIR [NET]] (id)  - KIND is program or validator, NET is live or test\n")
		fmt.Printf("                                        create private key in: %q\n", "DIR/KIND"+privateKeySuffix)
		fmt.Printf("                                        and the public key in: %q\n", "DIR/KIND"+publicKeySuffix)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		_, _ = out.WriteTo(os.Stdout)
		_, _ = os.Stdout.WriteString("\n")

	default: // unknown commands fall through to the daemon
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}

// makeIdentity - write a new key pair, the private key as hex and the
// public key as its base58 account
func makeIdentity(privateKeyFilename string, publicKeyFilename string, testnet bool) (*account.Account, error) {
	if configuration.EnsureFileExists(privateKeyFilename) || configuration.EnsureFileExists(publicKeyFilename) {
		return nil, fault.KeyFileExists
	}

	privateKey, err := account.NewPrivateKey(testnet)
	if nil != err {
		return nil, err
	}
	a := privateKey.Account()

	if err = ioutil.WriteFile(privateKeyFilename, []byte(privateKey.String()+"\n"), 0600); nil != err {
		return nil, err
	}
	if err = ioutil.WriteFile(publicKeyFilename, []byte(a.String()+"\n"), 0666); nil != err {
		_ = os.Remove(privateKeyFilename)
		return nil, err
	}
	return a, nil
}
