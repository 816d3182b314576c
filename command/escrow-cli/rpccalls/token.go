// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/record"
	"github.com/bitmark-inc/escrowd/rpc/token"
)

// Balance - committed token account of an owner
func (client *Client) Balance(mint *account.Account, owner *account.Account) (*executor.TokenBalance, error) {
	args := token.BalanceArguments{
		Mint:  mint,
		Owner: owner,
	}
	client.printJson("Balance Request", args)

	var reply executor.TokenBalance
	if err := client.client.Call("Token.Balance", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Balance Reply", reply)
	return &reply, nil
}

// Mint - read a mint record
func (client *Client) Mint(mint *account.Account) (*record.Mint, error) {
	args := token.MintArguments{
		Mint: mint,
	}

	var reply record.Mint
	if err := client.client.Call("Token.Mint", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Mint Reply", reply)
	return &reply, nil
}
