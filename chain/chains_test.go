// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/chain"
)

func TestValid(t *testing.T) {
	assert.True(t, chain.Valid(chain.Live), "live")
	assert.True(t, chain.Valid(chain.Testing), "testing")
	assert.True(t, chain.Valid(chain.Local), "local")
	assert.False(t, chain.Valid("bitcoin"), "unknown")

	assert.False(t, chain.IsTestnet(chain.Live), "live is not test")
	assert.True(t, chain.IsTestnet(chain.Local), "local is test")
}
