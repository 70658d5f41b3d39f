// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Field is a lazy view over one EncodedField: its FieldID is resolved
// into a defining-class descriptor, type descriptor, and name on
// first access.
type Field struct {
	file           *File
	raw            EncodedField
	initialValue   *EncodedValue
	annotationsOff uint32

	id lazy[FieldID]
}

func newField(f *File, raw EncodedField, initial *EncodedValue, annotationsOff uint32) *Field {
	return &Field{file: f, raw: raw, initialValue: initial, annotationsOff: annotationsOff}
}

// Index returns the reconstructed absolute field-pool index.
func (fld *Field) Index() uint32 { return fld.raw.FieldIdx }

// AccessFlags returns the field's declared access flags.
func (fld *Field) AccessFlags() AccessFlags { return fld.raw.AccessFlags }

func (fld *Field) fieldID() (FieldID, error) {
	return fld.id.get(func() (FieldID, error) {
		return fld.file.FieldAt(fld.raw.FieldIdx)
	})
}

// Name resolves the field's name string.
func (fld *Field) Name() (string, error) {
	id, err := fld.fieldID()
	if err != nil {
		return "", err
	}
	return fld.file.StringAt(id.NameIdx)
}

// Type resolves the field's declared type descriptor.
func (fld *Field) Type() (string, error) {
	id, err := fld.fieldID()
	if err != nil {
		return "", err
	}
	return fld.file.TypeDescriptor(uint32(id.TypeIdx))
}

// DefiningClass resolves the descriptor of the class that declares
// this field.
func (fld *Field) DefiningClass() (string, error) {
	id, err := fld.fieldID()
	if err != nil {
		return "", err
	}
	return fld.file.TypeDescriptor(uint32(id.ClassIdx))
}

// InitialValue is the compile-time constant this static field was
// initialized to, if the class's static-values array reached this
// far; (nil, false) otherwise. Always (nil, false) for instance
// fields.
func (fld *Field) InitialValue() (*EncodedValue, bool) {
	if fld.initialValue == nil {
		return nil, false
	}
	return fld.initialValue, true
}

// Annotations is a lazy sequence over this field's annotation set, as
// filtered from the owning class's annotations directory.
func (fld *Field) Annotations() Seq[*Annotation] {
	if fld.annotationsOff == 0 {
		return emptySeq[*Annotation]()
	}
	set, err := parseAnnotationSetItem(fld.file.r, fld.annotationsOff)
	if err != nil {
		return newSeq(0, func(int) (*Annotation, error) { return nil, err })
	}
	return newSeq(len(set.EntryOffsets), func(i int) (*Annotation, error) {
		return parseAnnotation(fld.file.r, set.EntryOffsets[i])
	})
}
