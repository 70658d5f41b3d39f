// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// This file holds the fixed-stride ID-pool records. Each record is a
// plain value type; range-checking of the indices they carry is done
// by the layer that dereferences them (the object model).

// StringIDStride is the byte width of a string-id pool record.
const StringIDStride = 4

// TypeIDStride is the byte width of a type-id pool record.
const TypeIDStride = 4

// ProtoIDStride is the byte width of a proto-id pool record.
const ProtoIDStride = 12

// FieldIDStride is the byte width of a field-id pool record.
const FieldIDStride = 8

// MethodIDStride is the byte width of a method-id pool record.
const MethodIDStride = 8

// ClassDefStride is the byte width of a class-def pool record.
const ClassDefStride = 32

// CallSiteIDStride is the byte width of a call-site-id pool record.
const CallSiteIDStride = 4

// MethodHandleStride is the byte width of a method-handle pool record.
const MethodHandleStride = 8

// StringID is the u32 data-offset of a string-data item.
type StringID struct {
	Offset uint32
}

// TypeID indexes the string pool for a type descriptor.
type TypeID struct {
	DescriptorIdx uint32
}

// ProtoID is a method prototype: return type plus parameter list.
type ProtoID struct {
	ShortyIdx     uint32
	ReturnTypeIdx uint32
	ParametersOff uint32
}

// FieldID names a field by its defining class, type, and name.
type FieldID struct {
	ClassIdx uint16
	TypeIdx  uint16
	NameIdx  uint32
}

// MethodID names a method by its defining class, prototype, and name.
type MethodID struct {
	ClassIdx uint16
	ProtoIdx uint16
	NameIdx  uint32
}

// ClassDef is a class definition record.
type ClassDef struct {
	ClassIdx       uint32
	AccessFlags    AccessFlags
	SuperclassIdx  uint32
	InterfacesOff  uint32
	SourceFileIdx  uint32
	AnnotationsOff uint32
	ClassDataOff   uint32
	StaticValuesOff uint32
}

// CallSiteID is the offset of a call-site-item (an EncodedArray).
type CallSiteID struct {
	CallSiteOff uint32
}

func readStringID(r *reader, off uint32) (StringID, error) {
	v, err := r.u32(off)
	return StringID{Offset: v}, err
}

func readTypeID(r *reader, off uint32) (TypeID, error) {
	v, err := r.u32(off)
	return TypeID{DescriptorIdx: v}, err
}

func readProtoID(r *reader, off uint32) (ProtoID, error) {
	shorty, err := r.u32(off)
	if err != nil {
		return ProtoID{}, err
	}
	ret, err := r.u32(off + 4)
	if err != nil {
		return ProtoID{}, err
	}
	params, err := r.u32(off + 8)
	if err != nil {
		return ProtoID{}, err
	}
	return ProtoID{ShortyIdx: shorty, ReturnTypeIdx: ret, ParametersOff: params}, nil
}

func readFieldID(r *reader, off uint32) (FieldID, error) {
	classIdx, err := r.u16(off)
	if err != nil {
		return FieldID{}, err
	}
	typeIdx, err := r.u16(off + 2)
	if err != nil {
		return FieldID{}, err
	}
	nameIdx, err := r.u32(off + 4)
	if err != nil {
		return FieldID{}, err
	}
	return FieldID{ClassIdx: classIdx, TypeIdx: typeIdx, NameIdx: nameIdx}, nil
}

func readMethodID(r *reader, off uint32) (MethodID, error) {
	classIdx, err := r.u16(off)
	if err != nil {
		return MethodID{}, err
	}
	protoIdx, err := r.u16(off + 2)
	if err != nil {
		return MethodID{}, err
	}
	nameIdx, err := r.u32(off + 4)
	if err != nil {
		return MethodID{}, err
	}
	return MethodID{ClassIdx: classIdx, ProtoIdx: protoIdx, NameIdx: nameIdx}, nil
}

func readClassDef(r *reader, off uint32) (ClassDef, error) {
	cursor := off
	classIdx, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	accessFlags, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	superclassIdx, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	interfacesOff, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	sourceFileIdx, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	annotationsOff, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	classDataOff, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	staticValuesOff, err := r.cursorU32(&cursor)
	if err != nil {
		return ClassDef{}, err
	}
	return ClassDef{
		ClassIdx:        classIdx,
		AccessFlags:     AccessFlags(accessFlags),
		SuperclassIdx:   superclassIdx,
		InterfacesOff:   interfacesOff,
		SourceFileIdx:   sourceFileIdx,
		AnnotationsOff:  annotationsOff,
		ClassDataOff:    classDataOff,
		StaticValuesOff: staticValuesOff,
	}, nil
}

func readCallSiteID(r *reader, off uint32) (CallSiteID, error) {
	v, err := r.u32(off)
	return CallSiteID{CallSiteOff: v}, err
}
