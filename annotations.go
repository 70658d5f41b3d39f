// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Visibility is an annotation's retention/visibility tag, per
// original_source/src/raw/annotations.rs.
type Visibility uint8

const (
	VisibilityBuild   Visibility = 0x00
	VisibilityRuntime Visibility = 0x01
	VisibilitySystem  Visibility = 0x02
)

func (v Visibility) valid() bool {
	return v == VisibilityBuild || v == VisibilityRuntime || v == VisibilitySystem
}

// AnnotationElement is one (name, value) pair of an EncodedAnnotation.
type AnnotationElement struct {
	NameIdx uint32
	Value   EncodedValue
}

// EncodedAnnotation is the (type, elements) payload shared by the
// Annotation item, the Annotation EncodedValue kind, and
// encoded-array-wrapped annotations.
type EncodedAnnotation struct {
	TypeIdx  uint32
	Elements []AnnotationElement
}

// Annotation is visibility:u8 followed by an EncodedAnnotation.
type Annotation struct {
	Visibility Visibility
	Value      EncodedAnnotation
}

// AnnotationSetItem is a u32-size-prefixed list of annotation_item
// offsets.
type AnnotationSetItem struct {
	EntryOffsets []uint32
}

// AnnotationSetRefList is a u32-size-prefixed list of
// annotation_set_item offsets (0 meaning "no annotations for this
// parameter"), used for per-parameter annotations.
type AnnotationSetRefList struct {
	EntryOffsets []uint32
}

// FieldAnnotation / MethodAnnotation / ParameterAnnotation associate a
// pool index with the offset of its annotation set (or, for
// parameters, its annotation-set-ref-list).
type FieldAnnotation struct {
	FieldIdx       uint32
	AnnotationsOff uint32
}

type MethodAnnotation struct {
	MethodIdx      uint32
	AnnotationsOff uint32
}

type ParameterAnnotation struct {
	MethodIdx      uint32
	AnnotationsOff uint32
}

// AnnotationsDirectory is the per-class table linking fields, methods,
// and parameters to their annotation sets. The three inner arrays are
// sorted ascending by their `_idx`.
type AnnotationsDirectory struct {
	ClassAnnotationsOff  uint32
	FieldAnnotations     []FieldAnnotation
	MethodAnnotations    []MethodAnnotation
	ParameterAnnotations []ParameterAnnotation
}

func parseAnnotation(r *reader, off uint32) (*Annotation, error) {
	cursor := off
	vis, err := r.u8(cursor)
	if err != nil {
		return nil, err
	}
	cursor++
	if !Visibility(vis).valid() {
		return nil, &AnnotationError{Kind: InvalidVisibility, Visibility: vis}
	}
	ea, err := parseEncodedAnnotation(r, &cursor)
	if err != nil {
		return nil, err
	}
	return &Annotation{Visibility: Visibility(vis), Value: *ea}, nil
}

func parseEncodedAnnotation(r *reader, cursor *uint32) (*EncodedAnnotation, error) {
	typeIdx, err := r.uleb(cursor)
	if err != nil {
		return nil, err
	}
	size, err := r.uleb(cursor)
	if err != nil {
		return nil, err
	}
	elems := make([]AnnotationElement, 0, size)
	for i := uint64(0); i < size; i++ {
		nameIdx, err := r.uleb(cursor)
		if err != nil {
			return nil, err
		}
		val, err := parseEncodedValue(r, cursor)
		if err != nil {
			return nil, err
		}
		elems = append(elems, AnnotationElement{NameIdx: uint32(nameIdx), Value: val})
	}
	return &EncodedAnnotation{TypeIdx: uint32(typeIdx), Elements: elems}, nil
}

func parseAnnotationSetItem(r *reader, off uint32) (*AnnotationSetItem, error) {
	if off == 0 {
		return &AnnotationSetItem{}, nil
	}
	cursor := off
	size, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}
	offs := make([]uint32, 0, size)
	for i := uint32(0); i < size; i++ {
		v, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		offs = append(offs, v)
	}
	return &AnnotationSetItem{EntryOffsets: offs}, nil
}

func parseAnnotationSetRefList(r *reader, off uint32) (*AnnotationSetRefList, error) {
	if off == 0 {
		return &AnnotationSetRefList{}, nil
	}
	cursor := off
	size, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}
	offs := make([]uint32, 0, size)
	for i := uint32(0); i < size; i++ {
		v, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		offs = append(offs, v)
	}
	return &AnnotationSetRefList{EntryOffsets: offs}, nil
}

func parseAnnotationsDirectory(r *reader, off uint32) (*AnnotationsDirectory, error) {
	if off == 0 {
		return &AnnotationsDirectory{}, nil
	}
	cursor := off
	classAnnotationsOff, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}
	fieldsSize, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}
	methodsSize, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}
	parametersSize, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}

	fields := make([]FieldAnnotation, 0, fieldsSize)
	for i := uint32(0); i < fieldsSize; i++ {
		idx, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		offv, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldAnnotation{FieldIdx: idx, AnnotationsOff: offv})
	}

	methods := make([]MethodAnnotation, 0, methodsSize)
	for i := uint32(0); i < methodsSize; i++ {
		idx, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		offv, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		methods = append(methods, MethodAnnotation{MethodIdx: idx, AnnotationsOff: offv})
	}

	params := make([]ParameterAnnotation, 0, parametersSize)
	for i := uint32(0); i < parametersSize; i++ {
		idx, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		offv, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		params = append(params, ParameterAnnotation{MethodIdx: idx, AnnotationsOff: offv})
	}

	return &AnnotationsDirectory{
		ClassAnnotationsOff:  classAnnotationsOff,
		FieldAnnotations:     fields,
		MethodAnnotations:    methods,
		ParameterAnnotations: params,
	}, nil
}
