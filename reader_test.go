// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderScalars(t *testing.T) {
	r := newReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	u8, err := r.u8(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)

	u16, err := r.u16(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), u16)

	u32, err := r.u32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), u32)

	u64, err := r.u64(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0807060504030201), u64)
}

func TestReaderOutOfBounds(t *testing.T) {
	r := newReader([]byte{0x01, 0x02})
	_, err := r.u32(0)
	require.Error(t, err)
	var secErr *SectionError
	require.ErrorAs(t, err, &secErr)
	assert.Equal(t, BadOffset, secErr.Kind)
}

func TestReaderCursorAdvances(t *testing.T) {
	r := newReader([]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	cursor := uint32(0)

	v, err := r.cursorU16(&cursor)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBBAA), v)
	assert.Equal(t, uint32(2), cursor)

	v32, err := r.cursorU32(&cursor)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFEEDDCC), v32)
	assert.Equal(t, uint32(6), cursor)
}

func TestReaderBytesIntegerOverflow(t *testing.T) {
	r := newReader(make([]byte, 10))
	_, err := r.bytes(^uint32(0)-2, 10)
	require.Error(t, err)
}
