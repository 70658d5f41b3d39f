// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMethodWithParamsImage builds a DEX image with one class "LFoo;"
// declaring a single direct method "bar(II)V" that has a code body,
// debug-info parameter names "a"/"b", and a Signature annotation.
func buildMethodWithParamsImage(t *testing.T) *File {
	t.Helper()
	b := newImageBuilder()

	strs := []string{
		"I", "LFoo;", "Ldalvik/annotation/Signature;", "Ljava/lang/Object;",
		"Ljava/util/List;", "V", "VII", "a", "b", "bar", "value",
	}
	offs := make([]uint32, len(strs))
	for i, s := range strs {
		offs[i] = appendStringDataItem(b, s)
	}
	stringIDsOff := uint32(len(b.buf))
	for _, off := range offs {
		b.append(u32le(off))
	}

	typeIDsOff := uint32(len(b.buf))
	// type0="I"(0), type1="LFoo;"(1), type2="Ljava/lang/Object;"(3),
	// type3="Ldalvik/annotation/Signature;"(2), type4="V"(5)
	for _, strIdx := range []uint32{0, 1, 3, 2, 5} {
		b.append(u32le(strIdx))
	}

	paramsOff := uint32(len(b.buf))
	b.append(u32le(2))
	b.append(u16le(0))
	b.append(u16le(0))

	protoIDsOff := uint32(len(b.buf))
	b.append(u32le(6)) // shorty = "VII"
	b.append(u32le(4)) // return type = V (type4)
	b.append(u32le(paramsOff))

	fieldIDsOff := uint32(len(b.buf))

	methodIDsOff := uint32(len(b.buf))
	b.append(u16le(1)) // class = LFoo; (type1)
	b.append(u16le(0)) // proto 0
	b.append(u32le(9)) // name = "bar"

	debugInfoOff := uint32(len(b.buf))
	var di []byte
	di = writeULEB128(di, 1) // line_start
	di = writeULEB128(di, 2) // params_size
	di = writeULEB128p1(di, 7)
	di = writeULEB128p1(di, 8)
	di = append(di, 0x00) // end_sequence
	b.append(di)

	codeItemOff := uint32(len(b.buf))
	b.append(u16le(2)) // registers_size
	b.append(u16le(2)) // ins_size
	b.append(u16le(0)) // outs_size
	b.append(u16le(0)) // tries_size
	b.append(u32le(debugInfoOff))
	b.append(u32le(1)) // insns_size
	b.append(u16le(0)) // one NOP

	annOff := uint32(len(b.buf))
	b.buf = append(b.buf, byte(VisibilityRuntime))
	b.buf = writeULEB128(b.buf, 3) // type_idx = Signature (type3)
	b.buf = writeULEB128(b.buf, 1) // one element
	b.buf = writeULEB128(b.buf, 10) // name_idx = "value"
	b.buf = append(b.buf, 0x17, 0x04) // encoded_value: string idx 4 ("Ljava/util/List;")

	setOff := uint32(len(b.buf))
	b.append(u32le(1))
	b.append(u32le(annOff))

	dirOff := uint32(len(b.buf))
	b.append(u32le(0)) // class_annotations_off
	b.append(u32le(0)) // fields_size
	b.append(u32le(1)) // methods_size
	b.append(u32le(0)) // parameters_size
	b.append(u32le(0)) // method_idx
	b.append(u32le(setOff))

	classDataOff := uint32(len(b.buf))
	var cd []byte
	cd = writeULEB128(cd, 0) // static_fields_size
	cd = writeULEB128(cd, 0) // instance_fields_size
	cd = writeULEB128(cd, 1) // direct_methods_size
	cd = writeULEB128(cd, 0) // virtual_methods_size
	cd = writeULEB128(cd, 0)
	cd = writeULEB128(cd, uint64(AccPublic))
	cd = writeULEB128(cd, uint64(codeItemOff))
	b.append(cd)

	classDefsOff := uint32(len(b.buf))
	b.append(u32le(1))
	b.append(u32le(uint32(AccPublic)))
	b.append(u32le(2))
	b.append(u32le(0))
	b.append(u32le(NoIndex))
	b.append(u32le(dirOff))
	b.append(u32le(classDataOff))
	b.append(u32le(0))

	mapOff := uint32(len(b.buf))
	b.appendMapList([]MapItem{
		{ItemType: ItemHeader, Size: 1, Offset: 0},
		{ItemType: ItemStringID, Size: uint32(len(strs)), Offset: stringIDsOff},
		{ItemType: ItemTypeID, Size: 5, Offset: typeIDsOff},
		{ItemType: ItemProtoID, Size: 1, Offset: protoIDsOff},
		{ItemType: ItemMethodID, Size: 1, Offset: methodIDsOff},
		{ItemType: ItemClassDef, Size: 1, Offset: classDefsOff},
		{ItemType: ItemClassData, Size: 1, Offset: classDataOff},
		{ItemType: ItemStringData, Size: uint32(len(strs)), Offset: offs[0]},
		{ItemType: ItemMap, Size: 1, Offset: mapOff},
	})

	b.writeHeader(headerSpec{
		mapOff:        mapOff,
		dataOff:       offs[0],
		dataSize:      uint32(len(b.buf)) - offs[0],
		stringIDsSize: uint32(len(strs)),
		stringIDsOff:  stringIDsOff,
		typeIDsSize:   5,
		typeIDsOff:    typeIDsOff,
		protoIDsSize:  1,
		protoIDsOff:   protoIDsOff,
		fieldIDsSize:  0,
		fieldIDsOff:   fieldIDsOff,
		methodIDsSize: 1,
		methodIDsOff:  methodIDsOff,
		classDefsSize: 1,
		classDefsOff:  classDefsOff,
	})
	buf := b.finish()

	f, err := OpenBytes(buf, nil)
	require.NoError(t, err)
	require.NoError(t, f.Parse())
	return f
}

func TestMethodParametersAndNames(t *testing.T) {
	f := buildMethodWithParamsImage(t)
	classes, err := f.Classes().All()
	require.NoError(t, err)
	require.Len(t, classes, 1)

	methods, err := classes[0].DirectMethods().All()
	require.NoError(t, err)
	require.Len(t, methods, 1)
	m := methods[0]

	assert.Equal(t, "bar", m.Name())
	assert.Equal(t, "LFoo;", m.DefiningClass())

	shorty, err := m.Shorty()
	require.NoError(t, err)
	assert.Equal(t, "VII", shorty)

	params, err := m.Parameters()
	require.NoError(t, err)
	require.Equal(t, 2, params.Len())

	p0, err := params.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "I", p0.Type())
	name, ok := p0.Name()
	require.True(t, ok)
	assert.Equal(t, "a", name)

	p1, err := params.Get(1)
	require.NoError(t, err)
	name1, ok := p1.Name()
	require.True(t, ok)
	assert.Equal(t, "b", name1)
}

func TestMethodImplementationPresent(t *testing.T) {
	f := buildMethodWithParamsImage(t)
	classes, err := f.Classes().All()
	require.NoError(t, err)
	methods, err := classes[0].DirectMethods().All()
	require.NoError(t, err)

	impl, ok, err := methods[0].Implementation()
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 2, impl.Code.RegistersSize)
	assert.Empty(t, impl.Code.Tries)
}

func TestMethodSignatureAnnotation(t *testing.T) {
	f := buildMethodWithParamsImage(t)
	classes, err := f.Classes().All()
	require.NoError(t, err)
	methods, err := classes[0].DirectMethods().All()
	require.NoError(t, err)

	sig, ok, err := methods[0].Signature()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ljava/util/List;", sig)
}
