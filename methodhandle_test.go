// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMethodHandleInvokeStatic(t *testing.T) {
	buf := append(u16le(uint16(MethodHandleInvokeStatic)), u16le(0)...)
	buf = append(buf, u16le(7)...)
	buf = append(buf, u16le(0)...)

	r := newReader(buf)
	mh, err := readMethodHandle(r, 0)
	require.NoError(t, err)
	assert.Equal(t, MethodHandleInvokeStatic, mh.Type)
	assert.False(t, mh.Type.isField())
	assert.Equal(t, uint32(7), mh.FieldOrMethodID)
}

func TestReadMethodHandleStaticGetIsField(t *testing.T) {
	buf := append(u16le(uint16(MethodHandleStaticGet)), u16le(0)...)
	buf = append(buf, u16le(3)...)
	buf = append(buf, u16le(0)...)

	r := newReader(buf)
	mh, err := readMethodHandle(r, 0)
	require.NoError(t, err)
	assert.True(t, mh.Type.isField())
}

func TestReadMethodHandleInvalidType(t *testing.T) {
	buf := append(u16le(0xFF), u16le(0)...)
	buf = append(buf, u16le(0)...)
	buf = append(buf, u16le(0)...)

	r := newReader(buf)
	_, err := readMethodHandle(r, 0)
	require.Error(t, err)
	var mhe *MethodHandleError
	require.ErrorAs(t, err, &mhe)
}
