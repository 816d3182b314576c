// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"github.com/bitmark-inc/escrowd/fault"
)

// errors specific to the identities file
var (
	ErrCryptoFailed              = fault.ProcessError("encryption failed")
	ErrIdentityNameAlreadyExists = fault.ExistsError("identity name already exists")
	ErrIdentityNameNotFound      = fault.NotFoundError("identity name not found")
	ErrNotPrivateKey             = fault.InvalidError("identity has no private key")
	ErrUnmarshalTextFail         = fault.RecordError("unmarshal text failed")
	ErrWrongNetwork              = fault.InvalidError("identity is for the wrong network")
	ErrWrongPassword             = fault.InvalidError("wrong password")
)
