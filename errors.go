// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "fmt"

// Sub-kind tags for SectionError, HeaderError and the rest of the
// typed error taxonomy. Each aggregates failures by the component that
// raised them, following a sentinel-error-per-concern convention while
// carrying a structured payload (offending offset/value/cause) rather
// than just a message string.
type (
	// HeaderErrorKind classifies header-validation failures.
	HeaderErrorKind int
	// MapListErrorKind classifies map-list failures.
	MapListErrorKind int
	// StringErrorKind classifies string-engine failures.
	StringErrorKind int
	// SectionErrorKind classifies fixed-stride section failures.
	SectionErrorKind int
	// ClassErrorKind classifies class-pool failures.
	ClassErrorKind int
	// AnnotationErrorKind classifies annotation failures.
	AnnotationErrorKind int
	// EncodedValueErrorKind classifies EncodedValue codec failures.
	EncodedValueErrorKind int
	// DebugInfoErrorKind classifies debug-info opcode failures.
	DebugInfoErrorKind int
	// CodeErrorKind classifies code-item/exception-table failures.
	CodeErrorKind int
	// MethodHandleErrorKind classifies method-handle failures.
	MethodHandleErrorKind int
)

const (
	InvalidMagic HeaderErrorKind = iota
	InvalidEndianTag
	InvalidChecksum
	InvalidVersion
	InvalidLength
)

const (
	InvalidTypeID MapListErrorKind = iota
)

const (
	StringNotFound StringErrorKind = iota
	IndexOutOfBounds
	OffsetOutOfBounds
	Malformed
)

const (
	BadSection SectionErrorKind = iota
	BadOffset
	BadInput
)

const (
	ClassIndexOutOfBounds ClassErrorKind = iota
	InvalidMapList
)

const (
	InvalidVisibility AnnotationErrorKind = iota
)

const (
	InvalidValueType EncodedValueErrorKind = iota
	ValueNotFound
)

const (
	InvalidOperation DebugInfoErrorKind = iota
)

const (
	InvalidExceptionHandler CodeErrorKind = iota
)

const (
	InvalidMethodHandleType MethodHandleErrorKind = iota
)

// HeaderError reports a failure decoding or validating the file header.
type HeaderError struct {
	Kind  HeaderErrorKind
	Value uint32
}

func (e *HeaderError) Error() string {
	switch e.Kind {
	case InvalidMagic:
		return "dex: invalid magic"
	case InvalidEndianTag:
		return fmt.Sprintf("dex: invalid endian tag 0x%08x", e.Value)
	case InvalidChecksum:
		return "dex: checksum mismatch"
	case InvalidVersion:
		return "dex: invalid version digits in magic"
	case InvalidLength:
		return fmt.Sprintf("dex: invalid file length %d", e.Value)
	default:
		return "dex: header error"
	}
}

// MapListError reports a failure decoding the map list.
type MapListError struct {
	Kind    MapListErrorKind
	ItemType uint16
}

func (e *MapListError) Error() string {
	return fmt.Sprintf("dex: invalid map-list item type 0x%04x", e.ItemType)
}

// StringError reports a string-engine failure.
type StringError struct {
	Kind  StringErrorKind
	Value uint32
	Cause error
}

func (e *StringError) Error() string {
	switch e.Kind {
	case StringNotFound:
		return "dex: string not found"
	case IndexOutOfBounds:
		return fmt.Sprintf("dex: string index %d out of bounds", e.Value)
	case OffsetOutOfBounds:
		return fmt.Sprintf("dex: string offset %d outside data section", e.Value)
	case Malformed:
		return fmt.Sprintf("dex: malformed mutf-8 at byte %d: %v", e.Value, e.Cause)
	default:
		return "dex: string error"
	}
}

func (e *StringError) Unwrap() error { return e.Cause }

// SectionError reports a fixed-stride section failure.
type SectionError struct {
	Kind   SectionErrorKind
	Name   string
	Offset uint64
}

func (e *SectionError) Error() string {
	switch e.Kind {
	case BadSection:
		return fmt.Sprintf("dex: bad section %q", e.Name)
	case BadOffset:
		return fmt.Sprintf("dex: offset 0x%x outside buffer", e.Offset)
	case BadInput:
		return "dex: malformed variable-length integer"
	default:
		return "dex: section error"
	}
}

// ClassError reports a class-pool failure.
type ClassError struct {
	Kind     ClassErrorKind
	Index    uint32
	Size     uint32
	ItemType uint16
}

func (e *ClassError) Error() string {
	switch e.Kind {
	case ClassIndexOutOfBounds:
		return fmt.Sprintf("dex: class index %d out of bounds (size %d)", e.Index, e.Size)
	case InvalidMapList:
		return fmt.Sprintf("dex: invalid map-list entry for item type 0x%04x", e.ItemType)
	default:
		return "dex: class error"
	}
}

// AnnotationError reports an annotation-decode failure.
type AnnotationError struct {
	Kind       AnnotationErrorKind
	Visibility uint8
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("dex: invalid annotation visibility 0x%02x", e.Visibility)
}

// EncodedValueError reports an EncodedValue-decode failure.
type EncodedValueError struct {
	Kind      EncodedValueErrorKind
	ValueType uint8
	ValueKind string
	Index     uint32
}

func (e *EncodedValueError) Error() string {
	switch e.Kind {
	case InvalidValueType:
		return fmt.Sprintf("dex: invalid encoded-value type 0x%02x", e.ValueType)
	case ValueNotFound:
		return fmt.Sprintf("dex: %s value %d not found", e.ValueKind, e.Index)
	default:
		return "dex: encoded-value error"
	}
}

// DebugInfoError reports a debug-info opcode-stream failure.
type DebugInfoError struct {
	Kind      DebugInfoErrorKind
	Operation uint8
}

func (e *DebugInfoError) Error() string {
	return fmt.Sprintf("dex: invalid debug-info opcode 0x%02x", e.Operation)
}

// CodeError reports a code-item / exception-table failure.
type CodeError struct {
	Kind      CodeErrorKind
	HandlerOff uint16
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("dex: invalid exception handler offset %d", e.HandlerOff)
}

// MethodHandleError reports a method-handle decode failure.
type MethodHandleError struct {
	Kind MethodHandleErrorKind
	Type uint16
}

func (e *MethodHandleError) Error() string {
	return fmt.Sprintf("dex: invalid method handle type 0x%04x", e.Type)
}

// Underlying wraps a low-level cause (I/O or arithmetic overflow) that
// does not belong to any specific decoder's taxonomy.
type Underlying struct {
	Cause error
	Arith bool
}

func (e *Underlying) Error() string {
	if e.Arith {
		return fmt.Sprintf("dex: arithmetic overflow: %v", e.Cause)
	}
	return fmt.Sprintf("dex: io error: %v", e.Cause)
}

func (e *Underlying) Unwrap() error { return e.Cause }
