// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// two LevelDB databases are used, one per execution context:
//
//   <name>-ledger.leveldb   the primary ledger: mints, token accounts,
//                           escrow records, commit receipts
//   <name>-rollup.leveldb   delegated escrow copies and their delegation
//                           metadata
//
// each database is divided into pools by a single prefix byte; writes
// are staged in a batch by a Transaction and become visible to other
// readers only on Commit
package storage
