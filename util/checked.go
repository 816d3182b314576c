// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"math/bits"

	"github.com/bitmark-inc/escrowd/fault"
)

// CheckedAdd - a + b or MathOverflow
func CheckedAdd(a uint64, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if 0 != carry {
		return 0, fault.MathOverflow
	}
	return sum, nil
}

// CheckedSub - a - b or MathOverflow if it would go below zero
func CheckedSub(a uint64, b uint64) (uint64, error) {
	difference, borrow := bits.Sub64(a, b, 0)
	if 0 != borrow {
		return 0, fault.MathOverflow
	}
	return difference, nil
}
