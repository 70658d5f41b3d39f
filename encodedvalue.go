// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "math"

// ValueType is the low 5 bits of an encoded_value header byte, per
// original_source/src/raw/encoded_value.rs.
type ValueType uint8

const (
	ValueByte         ValueType = 0x00
	ValueShort        ValueType = 0x02
	ValueChar         ValueType = 0x03
	ValueInt          ValueType = 0x04
	ValueLong         ValueType = 0x06
	ValueFloat        ValueType = 0x10
	ValueDouble       ValueType = 0x11
	ValueMethodType   ValueType = 0x15
	ValueMethodHandle ValueType = 0x16
	ValueString       ValueType = 0x17
	ValueTypeIdx      ValueType = 0x18
	ValueField        ValueType = 0x19
	ValueMethod       ValueType = 0x1a
	ValueEnum         ValueType = 0x1b
	ValueArray        ValueType = 0x1c
	ValueAnnotation   ValueType = 0x1d
	ValueNull         ValueType = 0x1e
	ValueBoolean      ValueType = 0x1f
)

// EncodedValue is a decoded encoded_value: exactly one of the fields
// below is meaningful, selected by Type. Signed integral kinds land in
// Int (sign-extended); zero-extended pool-index kinds and Char land in
// UInt; Float/Double hold the bit-reinterpreted IEEE-754 value;
// Boolean holds the single bit packed into the header's value_arg.
type EncodedValue struct {
	Type       ValueType
	Int        int64
	UInt       uint64
	Float32    float32
	Float64    float64
	Bool       bool
	Array      []EncodedValue
	Annotation *EncodedAnnotation
}

// EncodedArray is a bare encoded_array: a ULEB128 size followed by
// that many encoded_value entries, used both as the Array EncodedValue
// payload and as the encoded_array_item referenced by a class_def's
// static_values_off.
type EncodedArray struct {
	Values []EncodedValue
}

func parseEncodedArrayItem(r *reader, off uint32) (*EncodedArray, error) {
	if off == 0 {
		return &EncodedArray{}, nil
	}
	cursor := off
	arr, err := parseEncodedArray(r, &cursor)
	if err != nil {
		return nil, err
	}
	return arr, nil
}

func parseEncodedArray(r *reader, cursor *uint32) (*EncodedArray, error) {
	size, err := r.uleb(cursor)
	if err != nil {
		return nil, err
	}
	values := make([]EncodedValue, 0, size)
	for i := uint64(0); i < size; i++ {
		v, err := parseEncodedValue(r, cursor)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &EncodedArray{Values: values}, nil
}

// signExtend decodes b as a little-endian two's-complement integer of
// len(b) bytes (1-8), sign-extended to 64 bits.
func signExtend(b []byte) int64 {
	var v uint64
	for i, c := range b {
		v |= uint64(c) << uint(8*i)
	}
	n := len(b)
	if n == 0 || n >= 8 {
		return int64(v)
	}
	shift := uint(64 - 8*n)
	return int64(v<<shift) >> shift
}

// zeroExtend decodes b as a little-endian unsigned integer of len(b)
// bytes (1-8), zero-extended to 64 bits.
func zeroExtend(b []byte) uint64 {
	var v uint64
	for i, c := range b {
		v |= uint64(c) << uint(8*i)
	}
	return v
}

// rightZeroExtend decodes b (the high-order bytes of an IEEE-754
// value) and zero-pads the low-order bytes up to width, per the
// float/double encoding's "left over bits are zero" convention.
func rightZeroExtend(b []byte, width int) uint64 {
	var v uint64
	for i, c := range b {
		v |= uint64(c) << uint(8*i)
	}
	return v << uint(8*(width-len(b)))
}

// parseEncodedValue decodes one encoded_value at *cursor, advancing it
// past the header byte and its payload.
func parseEncodedValue(r *reader, cursor *uint32) (EncodedValue, error) {
	header, err := r.u8(*cursor)
	if err != nil {
		return EncodedValue{}, err
	}
	*cursor++

	valueType := ValueType(header & 0x1f)
	valueArg := int(header>>5) + 1

	switch valueType {
	case ValueByte:
		b, err := r.cursorBytes(cursor, 1)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Type: valueType, Int: signExtend(b)}, nil

	case ValueShort, ValueInt, ValueLong:
		b, err := r.cursorBytes(cursor, uint32(valueArg))
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Type: valueType, Int: signExtend(b)}, nil

	case ValueChar, ValueMethodType, ValueMethodHandle, ValueString,
		ValueTypeIdx, ValueField, ValueMethod, ValueEnum:
		b, err := r.cursorBytes(cursor, uint32(valueArg))
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Type: valueType, UInt: zeroExtend(b)}, nil

	case ValueFloat:
		b, err := r.cursorBytes(cursor, uint32(valueArg))
		if err != nil {
			return EncodedValue{}, err
		}
		bits := uint32(rightZeroExtend(b, 4))
		return EncodedValue{Type: valueType, Float32: math.Float32frombits(bits)}, nil

	case ValueDouble:
		b, err := r.cursorBytes(cursor, uint32(valueArg))
		if err != nil {
			return EncodedValue{}, err
		}
		bits := rightZeroExtend(b, 8)
		return EncodedValue{Type: valueType, Float64: math.Float64frombits(bits)}, nil

	case ValueArray:
		arr, err := parseEncodedArray(r, cursor)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Type: valueType, Array: arr.Values}, nil

	case ValueAnnotation:
		ea, err := parseEncodedAnnotation(r, cursor)
		if err != nil {
			return EncodedValue{}, err
		}
		return EncodedValue{Type: valueType, Annotation: ea}, nil

	case ValueNull:
		return EncodedValue{Type: valueType}, nil

	case ValueBoolean:
		return EncodedValue{Type: valueType, Bool: header>>5 == 1}, nil

	default:
		return EncodedValue{}, &EncodedValueError{Kind: InvalidValueType, ValueType: uint8(valueType)}
	}
}

func encodeEncodedValue(v EncodedValue) []byte {
	switch v.Type {
	case ValueNull:
		return []byte{byte(ValueNull)}
	case ValueBoolean:
		arg := byte(0)
		if v.Bool {
			arg = 1
		}
		return []byte{(arg << 5) | byte(ValueBoolean)}
	case ValueByte:
		return append([]byte{byte(ValueByte)}, byte(v.Int))
	case ValueShort, ValueInt, ValueLong:
		b := minimalSignedBytes(v.Int, valueTypeMaxBytes(v.Type))
		header := byte((len(b)-1)<<5) | byte(v.Type)
		return append([]byte{header}, b...)
	case ValueChar, ValueMethodType, ValueMethodHandle, ValueString,
		ValueTypeIdx, ValueField, ValueMethod, ValueEnum:
		b := minimalUnsignedBytes(v.UInt, valueTypeMaxBytes(v.Type))
		header := byte((len(b)-1)<<5) | byte(v.Type)
		return append([]byte{header}, b...)
	case ValueFloat:
		bits := math.Float32bits(v.Float32)
		b := minimalFloatBytes(uint64(bits), 4)
		header := byte((len(b)-1)<<5) | byte(ValueFloat)
		return append([]byte{header}, b...)
	case ValueDouble:
		bits := math.Float64bits(v.Float64)
		b := minimalFloatBytes(bits, 8)
		header := byte((len(b)-1)<<5) | byte(ValueDouble)
		return append([]byte{header}, b...)
	case ValueArray:
		var out []byte
		out = append(out, byte(ValueArray))
		out = writeULEB128(out, uint64(len(v.Array)))
		for _, elem := range v.Array {
			out = append(out, encodeEncodedValue(elem)...)
		}
		return out
	case ValueAnnotation:
		var out []byte
		out = append(out, byte(ValueAnnotation))
		out = encodeEncodedAnnotation(out, *v.Annotation)
		return out
	default:
		return nil
	}
}

func encodeEncodedAnnotation(out []byte, ea EncodedAnnotation) []byte {
	out = writeULEB128(out, uint64(ea.TypeIdx))
	out = writeULEB128(out, uint64(len(ea.Elements)))
	for _, el := range ea.Elements {
		out = writeULEB128(out, uint64(el.NameIdx))
		out = append(out, encodeEncodedValue(el.Value)...)
	}
	return out
}

func encodeEncodedArray(arr EncodedArray) []byte {
	out := writeULEB128(nil, uint64(len(arr.Values)))
	for _, v := range arr.Values {
		out = append(out, encodeEncodedValue(v)...)
	}
	return out
}

func valueTypeMaxBytes(t ValueType) int {
	switch t {
	case ValueShort, ValueChar:
		return 2
	case ValueInt, ValueMethodType, ValueMethodHandle, ValueString,
		ValueTypeIdx, ValueField, ValueMethod, ValueEnum:
		return 4
	case ValueLong:
		return 8
	default:
		return 8
	}
}

// minimalSignedBytes returns the fewest little-endian bytes (at least
// 1, at most max) that sign-extend back to v.
func minimalSignedBytes(v int64, max int) []byte {
	n := 1
	for n < max {
		shift := uint(8*n - 1)
		top := v >> shift
		if top == 0 || top == -1 {
			break
		}
		n++
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(v >> uint(8*i))
	}
	return b
}

// minimalUnsignedBytes returns the fewest little-endian bytes (at
// least 1, at most max) that zero-extend back to v.
func minimalUnsignedBytes(v uint64, max int) []byte {
	n := 1
	for n < max && v>>uint(8*n) != 0 {
		n++
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(v >> uint(8*i))
	}
	return b
}

// minimalFloatBytes returns the fewest high-order little-endian bytes
// (at least 1, at most width) whose right-zero-extension reproduces
// bits exactly.
func minimalFloatBytes(bits uint64, width int) []byte {
	n := width
	for n > 1 {
		lowByte := (bits >> uint(8*(width-n))) & 0xff
		if lowByte != 0 {
			break
		}
		n--
	}
	full := make([]byte, width)
	for i := 0; i < width; i++ {
		full[i] = byte(bits >> uint(8*i))
	}
	return full[width-n:]
}
