// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/command/escrow-cli/rpccalls"
	"github.com/bitmark-inc/escrowd/instruction"
)

// movement - common arguments of transfer and withdraw
type movement struct {
	client   *rpccalls.Client
	owner    *account.PrivateKey
	sender   *account.Account
	receiver *account.Account
	amount   uint64
}

func prepareMovement(c *cli.Context, m *metadata) (*movement, error) {

	mint, err := requiredAccount(c, m, c.String("mint"), ErrInvalidMint)
	if nil != err {
		return nil, err
	}
	amount, err := checkAmount(c.Uint64("amount"))
	if nil != err {
		return nil, err
	}
	receiverOwner, err := requiredAccount(c, m, c.String("receiver"), ErrInvalidReceiver)
	if nil != err {
		return nil, err
	}

	owner, err := privateKey(c, m)
	if nil != err {
		return nil, err
	}

	client, err := connect(m)
	if nil != err {
		return nil, err
	}

	sender, err := client.Address(mint, owner.Account())
	if nil != err {
		client.Close()
		return nil, err
	}
	receiver, err := client.Address(mint, receiverOwner)
	if nil != err {
		client.Close()
		return nil, err
	}

	return &movement{
		client:   client,
		owner:    owner,
		sender:   sender,
		receiver: receiver,
		amount:   amount,
	}, nil
}

func runTransfer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mv, err := prepareMovement(c, m)
	if nil != err {
		return err
	}
	defer mv.client.Close()

	result, err := mv.client.Submit(&instruction.EscrowTransfer{
		Sender:   mv.sender,
		Receiver: mv.receiver,
		Amount:   mv.amount,
		Owner:    mv.owner.Account(),
		Nonce:    nonce(),
	}, mv.owner)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}

func runWithdraw(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mv, err := prepareMovement(c, m)
	if nil != err {
		return err
	}
	defer mv.client.Close()

	result, err := mv.client.Submit(&instruction.Withdraw{
		Sender:   mv.sender,
		Receiver: mv.receiver,
		Amount:   mv.amount,
		Owner:    mv.owner.Account(),
		Nonce:    nonce(),
	}, mv.owner)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}
