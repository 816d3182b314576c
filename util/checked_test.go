// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

func TestCheckedAdd(t *testing.T) {
	sum, err := util.CheckedAdd(100, 30)
	assert.Nil(t, err)
	assert.Equal(t, uint64(130), sum)

	sum, err = util.CheckedAdd(math.MaxUint64-1, 1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = util.CheckedAdd(math.MaxUint64, 1)
	assert.Equal(t, fault.MathOverflow, err)
}

func TestCheckedSub(t *testing.T) {
	difference, err := util.CheckedSub(100, 30)
	assert.Nil(t, err)
	assert.Equal(t, uint64(70), difference)

	difference, err = util.CheckedSub(30, 30)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), difference)

	_, err = util.CheckedSub(30, 31)
	assert.Equal(t, fault.MathOverflow, err)
}

func TestBase58(t *testing.T) {
	b := []byte{0x00, 0x01, 0x02, 0xfe, 0xff}
	assert.Equal(t, b, util.FromBase58(util.ToBase58(b)))
	assert.Equal(t, []byte{}, util.FromBase58("0OIl"), "invalid characters")
}
