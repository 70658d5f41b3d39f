// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "encoding/binary"

// reader threads a cursor through an immutable byte slice, reading
// fixed-width little-endian scalars and raw byte ranges with bounds
// checking on every access. This generalizes a file-receiver's
// ReadUint32/ReadUint16/ReadBytesAtOffset helpers into a standalone
// cursor type, since DEX decoding threads a cursor through far more
// nested item kinds than a flat directory parser does.
type reader struct {
	buf []byte
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) size() uint32 { return uint32(len(r.buf)) }

func (r *reader) u8(offset uint32) (uint8, error) {
	if offset+1 > r.size() {
		return 0, &SectionError{Kind: BadOffset, Offset: uint64(offset)}
	}
	return r.buf[offset], nil
}

func (r *reader) u16(offset uint32) (uint16, error) {
	if offset+2 > r.size() {
		return 0, &SectionError{Kind: BadOffset, Offset: uint64(offset)}
	}
	return binary.LittleEndian.Uint16(r.buf[offset:]), nil
}

func (r *reader) u32(offset uint32) (uint32, error) {
	if offset+4 > r.size() {
		return 0, &SectionError{Kind: BadOffset, Offset: uint64(offset)}
	}
	return binary.LittleEndian.Uint32(r.buf[offset:]), nil
}

func (r *reader) u64(offset uint32) (uint64, error) {
	if offset+8 > r.size() {
		return 0, &SectionError{Kind: BadOffset, Offset: uint64(offset)}
	}
	return binary.LittleEndian.Uint64(r.buf[offset:]), nil
}

// bytes returns a sub-slice [offset, offset+size) without copying.
func (r *reader) bytes(offset, size uint32) ([]byte, error) {
	total := offset + size
	if total < offset && size > 0 {
		return nil, &Underlying{Arith: true}
	}
	if offset > r.size() || total > r.size() {
		return nil, &SectionError{Kind: BadOffset, Offset: uint64(offset)}
	}
	return r.buf[offset:total], nil
}

// uleb reads a ULEB128 at *cursor, advancing it.
func (r *reader) uleb(cursor *uint32) (uint64, error) {
	return readULEB128(r.buf, cursor)
}

// sleb reads a SLEB128 at *cursor, advancing it.
func (r *reader) sleb(cursor *uint32) (int64, error) {
	return readSLEB128(r.buf, cursor)
}

// ulebP1 reads a ULEB128p1 at *cursor, advancing it.
func (r *reader) ulebP1(cursor *uint32) (uint64, bool, error) {
	return readULEB128p1(r.buf, cursor)
}

// cursorU16 reads a u16 at *cursor and advances it by 2.
func (r *reader) cursorU16(cursor *uint32) (uint16, error) {
	v, err := r.u16(*cursor)
	if err != nil {
		return 0, err
	}
	*cursor += 2
	return v, nil
}

// cursorU32 reads a u32 at *cursor and advances it by 4.
func (r *reader) cursorU32(cursor *uint32) (uint32, error) {
	v, err := r.u32(*cursor)
	if err != nil {
		return 0, err
	}
	*cursor += 4
	return v, nil
}

// cursorBytes reads size raw bytes at *cursor and advances it.
func (r *reader) cursorBytes(cursor *uint32, size uint32) ([]byte, error) {
	v, err := r.bytes(*cursor, size)
	if err != nil {
		return nil, err
	}
	*cursor += size
	return v, nil
}
