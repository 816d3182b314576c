// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/instruction"
)

func runUndelegate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mint, err := requiredAccount(c, m, c.String("mint"), ErrInvalidMint)
	if nil != err {
		return err
	}

	names := c.StringSlice("owner")
	if 0 == len(names) {
		names = []string{""}
	}
	if len(names) > instruction.MaximumBatch {
		return fmt.Errorf("owners: %d exceeds batch limit: %d", len(names), instruction.MaximumBatch)
	}

	owners := make([]*account.Account, 0, len(names))
	for _, name := range names {
		owner, err := resolveAccount(c, m, name)
		if nil != err {
			return err
		}
		owners = append(owners, owner)
	}

	payer, err := privateKey(c, m)
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	escrows := make([]*account.Account, 0, len(owners))
	for _, owner := range owners {
		address, err := client.Address(mint, owner)
		if nil != err {
			return err
		}
		escrows = append(escrows, address)
	}

	result, err := client.Submit(&instruction.CommitAndUndelegate{
		Escrows: escrows,
		Payer:   payer.Account(),
		Nonce:   nonce(),
	}, payer)
	if nil != err {
		return err
	}

	return printJson(m.w, result)
}
