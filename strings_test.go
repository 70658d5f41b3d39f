// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStringPoolImage builds a DEX image whose string pool holds the
// given strings (which must already be in ascending MUTF-8 byte order,
// matching DEX's sort requirement), returning the buffer and header.
func buildStringPoolImage(t *testing.T, strs []string) ([]byte, *Header) {
	t.Helper()
	if len(strs) > 0 {
		sorted := append([]string{}, strs...)
		sort.Slice(sorted, func(i, j int) bool {
			return compareBytes(encodeMUTF8(sorted[i]), encodeMUTF8(sorted[j])) < 0
		})
		require.Equal(t, strs, sorted, "test strings must already be sorted")
	}

	b := newImageBuilder()
	dataStart := uint32(len(b.buf))

	offsets := make([]uint32, len(strs))
	for i, s := range strs {
		off := uint32(len(b.buf))
		offsets[i] = off
		encoded := encodeMUTF8(s)
		b.buf = writeULEB128(b.buf, utf16Len(s))
		b.buf = append(b.buf, encoded...)
		b.buf = append(b.buf, 0x00)
	}

	stringIDsOff := uint32(len(b.buf))
	for _, off := range offsets {
		b.buf = append(b.buf, u32le(off)...)
	}

	mapOff := uint32(len(b.buf))
	b.appendMapList([]MapItem{
		{ItemType: ItemHeader, Size: 1, Offset: 0},
		{ItemType: ItemStringID, Size: uint32(len(strs)), Offset: stringIDsOff},
		{ItemType: ItemStringData, Size: uint32(len(strs)), Offset: dataStart},
		{ItemType: ItemMap, Size: 1, Offset: mapOff},
	})

	b.writeHeader(headerSpec{
		mapOff:        mapOff,
		dataOff:       dataStart,
		dataSize:      uint32(len(b.buf)) - dataStart,
		stringIDsSize: uint32(len(strs)),
		stringIDsOff:  stringIDsOff,
	})
	buf := b.finish()

	r := newReader(buf)
	h, err := parseHeader(r, &Options{})
	require.NoError(t, err)
	return buf, h
}

func TestStringEngineGet(t *testing.T) {
	strs := []string{"Bar", "Foo", "Zzz"}
	buf, h := buildStringPoolImage(t, strs)
	r := newReader(buf)
	eng := newStringEngine(r, h)

	for i, want := range strs {
		id, err := eng.IDAt(uint32(i))
		require.NoError(t, err)
		got, err := eng.Get(id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStringEngineFindRoundTrip(t *testing.T) {
	strs := []string{"Bar", "Foo", "Zzz"}
	buf, h := buildStringPoolImage(t, strs)
	r := newReader(buf)
	eng := newStringEngine(r, h)

	i := len(strs) / 2
	id, err := eng.IDAt(uint32(i))
	require.NoError(t, err)
	s, err := eng.Get(id)
	require.NoError(t, err)

	idx, foundID, err := eng.Find(s)
	require.NoError(t, err)
	assert.Equal(t, uint32(i), idx)
	assert.Equal(t, id, foundID)

	// Repeat lookup exercises the xxhash-memoized path.
	idx2, _, err := eng.Find(s)
	require.NoError(t, err)
	assert.Equal(t, idx, idx2)
}

func TestStringEngineFindNotFound(t *testing.T) {
	buf, h := buildStringPoolImage(t, []string{"Bar", "Foo"})
	r := newReader(buf)
	eng := newStringEngine(r, h)

	_, _, err := eng.Find("Missing")
	require.Error(t, err)
	var sErr *StringError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, StringNotFound, sErr.Kind)
}

func TestStringEngineEmptyPool(t *testing.T) {
	buf, h := buildStringPoolImage(t, nil)
	r := newReader(buf)
	eng := newStringEngine(r, h)
	assert.Equal(t, uint32(0), eng.Len())

	_, _, err := eng.Find("anything")
	require.Error(t, err)
}

func TestStringEngineIndexOutOfBounds(t *testing.T) {
	buf, h := buildStringPoolImage(t, []string{"Bar"})
	r := newReader(buf)
	eng := newStringEngine(r, h)

	_, err := eng.IDAt(5)
	require.Error(t, err)
	var sErr *StringError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, IndexOutOfBounds, sErr.Kind)
}
