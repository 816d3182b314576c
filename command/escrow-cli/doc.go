// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// escrow-cli - command line client for escrowd
//
// identities are kept in $XDG_CONFIG_HOME/escrow-cli/NETWORK-escrow-cli.json
// with private keys encrypted under a password
package main
