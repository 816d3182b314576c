// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/merkle"
)

func digests(items ...string) []merkle.Digest {
	result := make([]merkle.Digest, len(items))
	for i, s := range items {
		result[i] = merkle.NewDigest([]byte(s))
	}
	return result
}

func pair(a merkle.Digest, b merkle.Digest) merkle.Digest {
	return merkle.NewDigest(append(a[:], b[:]...))
}

func TestRootSingle(t *testing.T) {
	ids := digests("one")
	assert.Equal(t, ids[0], merkle.Root(ids))
	assert.Equal(t, merkle.Digest{}, merkle.Root(nil))
}

func TestRootOdd(t *testing.T) {
	ids := digests("one", "two", "three")

	left := pair(ids[0], ids[1])
	right := pair(ids[2], ids[2])
	expected := pair(left, right)

	tree := merkle.FullMerkleTree(ids)
	assert.Equal(t, 6, len(tree))
	assert.Equal(t, expected, merkle.Root(ids))
}

func TestDigestText(t *testing.T) {
	d := merkle.NewDigest([]byte("escrow"))

	b, err := json.Marshal(d)
	assert.Nil(t, err)

	var decoded merkle.Digest
	assert.Nil(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, d, decoded)

	assert.Equal(t, fault.NotDigest, decoded.UnmarshalText([]byte("abcd")))
	assert.Equal(t, fault.NotDigest, merkle.DigestFromBytes(&decoded, []byte{1, 2, 3}))
}
