// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/instruction"
)

func runCreate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mint, err := requiredAccount(c, m, c.String("mint"), ErrInvalidMint)
	if nil != err {
		return err
	}

	owner, err := privateKey(c, m)
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	result, err := client.Submit(&instruction.CreateEscrow{
		Mint:  mint,
		Owner: owner.Account(),
	}, owner)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}

func runDeposit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mint, err := requiredAccount(c, m, c.String("mint"), ErrInvalidMint)
	if nil != err {
		return err
	}
	amount, err := checkAmount(c.Uint64("amount"))
	if nil != err {
		return err
	}

	owner, err := privateKey(c, m)
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	escrowAddress, err := client.Address(mint, owner.Account())
	if nil != err {
		return err
	}
	source, err := client.Balance(mint, owner.Account())
	if nil != err {
		return err
	}

	result, err := client.Submit(&instruction.Deposit{
		Escrow: escrowAddress,
		Source: source.Address,
		Amount: amount,
		Owner:  owner.Account(),
		Nonce:  nonce(),
	}, owner)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}

func runDelegate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mint, err := requiredAccount(c, m, c.String("mint"), ErrInvalidMint)
	if nil != err {
		return err
	}

	i := &instruction.Delegate{
		CommitFrequency: c.Uint64("frequency"),
		Nonce:           nonce(),
	}
	if v := c.String("validator"); "" != v {
		i.Validator, err = resolveAccount(c, m, v)
		if nil != err {
			return err
		}
	}

	owner, err := privateKey(c, m)
	if nil != err {
		return err
	}
	i.Owner = owner.Account()

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	i.Escrow, err = client.Address(mint, owner.Account())
	if nil != err {
		return err
	}

	result, err := client.Submit(i, owner)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}

func runEscrow(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mint, err := requiredAccount(c, m, c.String("mint"), ErrInvalidMint)
	if nil != err {
		return err
	}
	owner, err := resolveAccount(c, m, c.String("owner"))
	if nil != err {
		return err
	}
	context, err := instruction.ContextFromString(c.String("context"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	state, err := client.Escrow(context, mint, owner)
	if nil != err {
		return err
	}

	return printJson(m.w, state)
}
