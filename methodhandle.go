// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// MethodHandleType classifies a method_handle_item's kind, per
// original_source/src/raw/method_handle.rs.
type MethodHandleType uint16

const (
	MethodHandleStaticPut         MethodHandleType = 0x00
	MethodHandleStaticGet         MethodHandleType = 0x01
	MethodHandleInstancePut       MethodHandleType = 0x02
	MethodHandleInstanceGet       MethodHandleType = 0x03
	MethodHandleInvokeStatic      MethodHandleType = 0x04
	MethodHandleInvokeInstance    MethodHandleType = 0x05
	MethodHandleInvokeConstructor MethodHandleType = 0x06
	MethodHandleInvokeDirect      MethodHandleType = 0x07
	MethodHandleInvokeInterface   MethodHandleType = 0x08
)

func (t MethodHandleType) valid() bool {
	return t <= MethodHandleInvokeInterface
}

// isField reports whether this handle type resolves its member index
// against the field-id pool (Get/Put kinds) rather than the method-id
// pool (Invoke kinds).
func (t MethodHandleType) isField() bool {
	switch t {
	case MethodHandleStaticPut, MethodHandleStaticGet,
		MethodHandleInstancePut, MethodHandleInstanceGet:
		return true
	default:
		return false
	}
}

// MethodHandle is a decoded method_handle_item: an 8-byte record with
// two reserved u16 padding fields.
type MethodHandle struct {
	Type            MethodHandleType
	FieldOrMethodID uint32
}

func readMethodHandle(r *reader, off uint32) (*MethodHandle, error) {
	cursor := off
	ty, err := r.cursorU16(&cursor)
	if err != nil {
		return nil, err
	}
	if !MethodHandleType(ty).valid() {
		return nil, &MethodHandleError{Kind: InvalidMethodHandleType, Type: ty}
	}
	cursor += 2 // reserved1
	fieldOrMethodID, err := r.cursorU16(&cursor)
	if err != nil {
		return nil, err
	}
	cursor += 2 // reserved2
	return &MethodHandle{Type: MethodHandleType(ty), FieldOrMethodID: uint32(fieldOrMethodID)}, nil
}
