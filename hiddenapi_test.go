// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHiddenAPIClassData(t *testing.T) {
	var buf []byte
	buf = writeULEB128(buf, uint64(Whitelist))
	buf = writeULEB128(buf, uint64(Greylist))
	buf = writeULEB128(buf, uint64(GreylistMaxQ))

	r := newReader(buf)
	data, err := parseHiddenAPIClassData(r, 0, 3)
	require.NoError(t, err)
	require.Len(t, data.FlagsByMember, 3)
	assert.Equal(t, Whitelist, data.FlagsByMember[0])
	assert.Equal(t, Greylist, data.FlagsByMember[1])
	assert.Equal(t, GreylistMaxQ, data.FlagsByMember[2])
}

func TestParseHiddenAPIClassDataZeroMembers(t *testing.T) {
	r := newReader(nil)
	data, err := parseHiddenAPIClassData(r, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, data.FlagsByMember)
}
