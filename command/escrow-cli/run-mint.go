// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/instruction"
)

type createMintReply struct {
	Mint   *account.Account `json:"mint"`
	Result *executor.Result `json:"result"`
}

func runCreateMint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	decimals := c.Uint64("decimals")
	if decimals > instruction.MaximumDecimals {
		return fmt.Errorf("decimals: %d exceeds: %d", decimals, instruction.MaximumDecimals)
	}

	authority, err := privateKey(c, m)
	if nil != err {
		return err
	}

	// the mint is only an identifier, its key is discarded
	mintKey, err := account.NewPrivateKey(m.testnet)
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	i := &instruction.CreateMint{
		Mint:      mintKey.Account(),
		Authority: authority.Account(),
		Decimals:  decimals,
	}
	result, err := client.Submit(i, authority)
	if nil != err {
		return err
	}

	return printJson(m.w, createMintReply{
		Mint:   i.Mint,
		Result: result,
	})
}

func runMint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mint, err := requiredAccount(c, m, c.String("mint"), ErrInvalidMint)
	if nil != err {
		return err
	}
	amount, err := checkAmount(c.Uint64("amount"))
	if nil != err {
		return err
	}
	owner, err := resolveAccount(c, m, c.String("owner"))
	if nil != err {
		return err
	}

	authority, err := privateKey(c, m)
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	result, err := client.Submit(&instruction.MintTo{
		Mint:      mint,
		Owner:     owner,
		Amount:    amount,
		Authority: authority.Account(),
		Nonce:     nonce(),
	}, authority)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}
