// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"encoding/hex"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/executor"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/instruction"
	"github.com/bitmark-inc/escrowd/rpc/escrow"
)

// Submit - sign an instruction and send it to the context it runs in
func (client *Client) Submit(i instruction.Instruction, privateKey *account.PrivateKey) (*executor.Result, error) {
	if privateKey.Test != client.testnet {
		return nil, fault.WrongNetworkForPublicKey
	}

	packed, err := instruction.Sign(i, privateKey)
	if nil != err {
		return nil, err
	}

	client.printJson("Instruction", i)

	args := escrow.SubmitArguments{
		Context:     i.Context().String(),
		Instruction: hex.EncodeToString(packed),
	}
	client.printJson("Submit Request", args)

	var reply executor.Result
	if err := client.client.Call("Escrow.Submit", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Submit Reply", reply)
	return &reply, nil
}

// Address - derived escrow address of (mint, owner)
func (client *Client) Address(mint *account.Account, owner *account.Account) (*account.Account, error) {
	args := escrow.AddressArguments{
		Mint:  mint,
		Owner: owner,
	}

	var reply escrow.AddressReply
	if err := client.client.Call("Escrow.Address", &args, &reply); err != nil {
		return nil, err
	}

	client.printJson("Address Reply", reply)
	return reply.Address, nil
}

// Escrow - the escrow of (mint, owner) as a context sees it
func (client *Client) Escrow(context instruction.Context, mint *account.Account, owner *account.Account) (*executor.EscrowState, error) {
	args := escrow.GetArguments{
		Context: context.String(),
		Mint:    mint,
		Owner:   owner,
	}
	client.printJson("Escrow Request", args)

	var reply executor.EscrowState
	if err := client.client.Call("Escrow.Get", &args, &reply); err != nil {
		return nil, err
	}

	return &reply, nil
}
