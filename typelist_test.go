// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeListZeroOffsetIsEmpty(t *testing.T) {
	r := newReader(nil)
	tl, err := parseTypeList(r, 0)
	require.NoError(t, err)
	assert.Empty(t, tl.TypeIdxs)
}

func TestParseTypeListEntries(t *testing.T) {
	var buf []byte
	buf = append(buf, u32le(3)...)
	buf = append(buf, u16le(5)...)
	buf = append(buf, u16le(9)...)
	buf = append(buf, u16le(2)...)

	r := newReader(buf)
	tl, err := parseTypeList(r, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint16{5, 9, 2}, tl.TypeIdxs)
}

func TestEncodeTypeListRoundTrip(t *testing.T) {
	want := &TypeList{TypeIdxs: []uint16{1, 2, 3}}
	buf := encodeTypeList(want)

	r := newReader(buf)
	got, err := parseTypeList(r, 0)
	require.NoError(t, err)
	assert.Equal(t, want.TypeIdxs, got.TypeIdxs)
}

func TestEncodeTypeListEmpty(t *testing.T) {
	buf := encodeTypeList(&TypeList{})
	assert.Equal(t, u32le(0), buf)
}
