// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

func TestCanonicalIPandPort(t *testing.T) {
	items := []struct {
		in  string
		out string
		err error
	}{
		{"127.0.0.1:2130", "127.0.0.1:2130", nil},
		{" 127.0.0.1 : 2130 ", "127.0.0.1:2130", nil},
		{"[::1]:2130", "[::1]:2130", nil},
		{"*:2130", ":2130", nil},
		{"127.0.0.1:0", "", fault.InvalidPortNumber},
		{"127.0.0.1:65536", "", fault.InvalidPortNumber},
		{"localhost:2130", "", fault.InvalidIpAddress},
		{"no-port", "", fault.InvalidIpAddress},
	}

	for i, item := range items {
		out, err := util.CanonicalIPandPort(item.in)
		assert.Equal(t, item.err, err, "%d: error for %q", i, item.in)
		assert.Equal(t, item.out, out, "%d: result for %q", i, item.in)
	}
}
