// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/command/escrow-cli/configuration"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	save    bool
	testnet bool
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "escrow-cli"
	app.Usage = "escrow and rollup client"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	mintFlag := cli.StringFlag{
		Name:  "mint, m",
		Value: "",
		Usage: "*mint `ACCOUNT`",
	}
	amountFlag := cli.Uint64Flag{
		Name:  "amount, a",
		Value: 0,
		Usage: "*token `AMOUNT` in base units",
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "network, n",
			Value: "testing",
			Usage: " connect to escrowd `NETWORK` [live|testing|local]",
		},
		cli.StringFlag{
			Name:  "identity, i",
			Value: "",
			Usage: " identity `NAME` [default identity]",
		},
		cli.StringFlag{
			Name:   "password, p",
			Value:  "",
			Usage:  " identity `PASSWORD`",
			EnvVar: "ESCROW_CLI_PASSWORD",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "setup",
			Usage:     "initialise escrow-cli configuration",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*escrowd host/IP and port, `HOST:PORT`",
				},
				cli.StringFlag{
					Name:  "description, d",
					Value: "",
					Usage: "*identity description `STRING`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " use an existing private key `HEX`",
				},
			},
			Action: runSetup,
		},
		{
			Name:      "add",
			Usage:     "add a new identity to config file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "description, d",
					Value: "",
					Usage: "*identity description `STRING`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " use an existing private key `HEX`",
				},
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: " receive only identity for `ACCOUNT`",
				},
			},
			Action: runAdd,
		},
		{
			Name:   "list",
			Usage:  "list identities",
			Action: runList,
		},
		{
			Name:      "create-mint",
			Usage:     "register a new token type with the current identity as authority",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "decimals, d",
					Value: 0,
					Usage: " number of `DECIMALS`",
				},
			},
			Action: runCreateMint,
		},
		{
			Name:      "mint",
			Usage:     "mint tokens to an owner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				mintFlag,
				amountFlag,
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " receiving identity `NAME` or account [current identity]",
				},
			},
			Action: runMint,
		},
		{
			Name:      "create",
			Usage:     "create the escrow of the current identity for a mint",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{mintFlag},
			Action:    runCreate,
		},
		{
			Name:      "deposit",
			Usage:     "move tokens from the token account into the escrow",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{mintFlag, amountFlag},
			Action:    runDeposit,
		},
		{
			Name:      "delegate",
			Usage:     "hand the escrow to the rollup",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				mintFlag,
				cli.Uint64Flag{
					Name:  "frequency, f",
					Value: 30000,
					Usage: " commit frequency `MILLISECONDS`",
				},
				cli.StringFlag{
					Name:  "validator, V",
					Value: "",
					Usage: " expected validator `ACCOUNT`",
				},
			},
			Action: runDelegate,
		},
		{
			Name:      "transfer",
			Usage:     "transfer between delegated escrows on the rollup",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				mintFlag,
				amountFlag,
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*receiving identity `NAME` or account",
				},
			},
			Action: runTransfer,
		},
		{
			Name:      "undelegate",
			Usage:     "commit escrows back to the ledger and undelegate them",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				mintFlag,
				cli.StringSliceFlag{
					Name:  "owner, o",
					Usage: " owner `NAME` or account, repeatable [current identity]",
				},
			},
			Action: runUndelegate,
		},
		{
			Name:      "withdraw",
			Usage:     "move pooled tokens between undelegated escrows",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				mintFlag,
				amountFlag,
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*receiving identity `NAME` or account",
				},
			},
			Action: runWithdraw,
		},
		{
			Name:      "escrow",
			Usage:     "show an escrow as a context sees it",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				mintFlag,
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " owner `NAME` or account [current identity]",
				},
				cli.StringFlag{
					Name:  "context, c",
					Value: "primary",
					Usage: " execution `CONTEXT` [primary|rollup]",
				},
			},
			Action: runEscrow,
		},
		{
			Name:      "balance",
			Usage:     "show a token account balance",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				mintFlag,
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " owner `NAME` or account [current identity]",
				},
			},
			Action: runBalance,
		},
		{
			Name:   "info",
			Usage:  "display escrowd info",
			Action: runInfo,
		},
		{
			Name:  "version",
			Usage: "display escrow-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "" == command || "version" == command || "help" == command || "h" == command {
			return nil
		}

		network, err := checkNetwork(c.GlobalString("network"))
		if nil != err {
			return err
		}

		p := os.Getenv("XDG_CONFIG_HOME")
		if "" == p {
			return fmt.Errorf("XDG_CONFIG_HOME environment is not set")
		}
		dir, err := checkFileExists(p)
		if nil != err {
			return err
		}
		if !dir {
			return fmt.Errorf("not a directory: %q", p)
		}
		file := path.Join(p, app.Name, network+"-"+app.Name+".json")

		if verbose {
			fmt.Fprintf(e, "file: %q\n", file)
		}

		if "setup" == command {
			// do not run setup if there is an existing configuration
			if _, err := checkFileExists(file); nil == err {
				return fmt.Errorf("not overwriting existing configuration: %q", file)
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				save:    false,
				testnet: "live" != network,
				verbose: verbose,
				e:       e,
				w:       w,
			}

		} else {

			if verbose {
				fmt.Fprintf(e, "reading config file: %s\n", file)
			}

			config, err := configuration.Load(file)
			if nil != err {
				return err
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				config:  config,
				testnet: config.TestNet,
				save:    false,
				verbose: verbose,
				e:       e,
				w:       w,
			}
		}

		return nil
	}

	// update the configuration if required
	app.After = func(c *cli.Context) error {
		e := c.App.ErrWriter
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		if m.save {
			if c.GlobalBool("verbose") {
				fmt.Fprintf(e, "updating config file: %s\n", m.file)
			}
			return configuration.Save(m.file, m.config)
		}
		return nil
	}

	return app
}
