// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldWithoutInitialValue(t *testing.T) {
	f := newField(nil, EncodedField{FieldIdx: 7, AccessFlags: AccPrivate}, nil, 0)
	assert.EqualValues(t, 7, f.Index())
	assert.True(t, f.AccessFlags().Has(AccPrivate))

	_, ok := f.InitialValue()
	assert.False(t, ok)

	assert.Equal(t, 0, f.Annotations().Len())
}

func TestFieldWithInitialValue(t *testing.T) {
	iv := EncodedValue{Type: ValueInt, Int: -1}
	f := newField(nil, EncodedField{FieldIdx: 0, AccessFlags: AccPublic | AccStatic}, &iv, 0)

	got, ok := f.InitialValue()
	require.True(t, ok)
	assert.Equal(t, ValueInt, got.Type)
	assert.EqualValues(t, -1, got.Int)
}

func TestFieldAnnotations(t *testing.T) {
	var buf []byte
	annOff := uint32(len(buf))
	buf = append(buf, byte(VisibilityRuntime))
	buf = writeULEB128(buf, 11) // type_idx
	buf = writeULEB128(buf, 0) // size

	setOff := uint32(len(buf))
	buf = append(buf, u32le(1)...)
	buf = append(buf, u32le(annOff)...)

	r := newReader(buf)
	fl := newField(&File{r: r}, EncodedField{FieldIdx: 2}, nil, setOff)

	anns, err := fl.Annotations().All()
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Equal(t, VisibilityRuntime, anns[0].Visibility)
	assert.EqualValues(t, 11, anns[0].Value.TypeIdx)
}
