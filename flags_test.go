// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessFlagsHas(t *testing.T) {
	f := AccPublic | AccStatic | AccFinal
	assert.True(t, f.Has(AccPublic))
	assert.True(t, f.Has(AccStatic))
	assert.False(t, f.Has(AccPrivate))
	assert.False(t, f.Has(AccAbstract))
}

func TestAccessFlagsStringOrderAndJoin(t *testing.T) {
	f := AccStatic | AccPublic | AccFinal
	assert.Equal(t, "public static final", f.String())
}

func TestAccessFlagsStringEmpty(t *testing.T) {
	assert.Equal(t, "", AccessFlags(0).String())
}

func TestAccessFlagsStringAliasedBits(t *testing.T) {
	// AccBridge and AccVolatile alias 0x40; the generic Stringer always
	// reports the field-ish name.
	assert.Equal(t, "volatile", AccessFlags(AccBridge).String())
	assert.Equal(t, "transient", AccessFlags(AccVarargs).String())
}

func TestReadAccessFlags(t *testing.T) {
	var buf []byte
	buf = writeULEB128(buf, uint64(AccPublic|AccStatic))

	r := newReader(buf)
	var cursor uint32
	flags, err := readAccessFlags(r, &cursor)
	require.NoError(t, err)
	assert.Equal(t, AccPublic|AccStatic, flags)
	assert.True(t, flags.Has(AccPublic))
}
