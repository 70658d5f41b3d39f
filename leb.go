// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Variable-length integer codecs used throughout the DEX wire format:
// ULEB128, SLEB128, and ULEB128p1 (a ULEB128 offset by one so that an
// encoded zero means "absent").

// readULEB128 decodes an unsigned LEB128 value starting at src[*cursor],
// advancing *cursor past the bytes consumed.
func readULEB128(src []byte, cursor *uint32) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < 10; i++ {
		if uint64(*cursor) >= uint64(len(src)) {
			return 0, &SectionError{Kind: BadOffset, Offset: uint64(*cursor)}
		}
		b := src[*cursor]
		*cursor++

		if shift == 63 {
			// 10th byte: only the low bit may be set.
			if b != 0x00 && b != 0x01 {
				return 0, &SectionError{Kind: BadInput}
			}
			result |= uint64(b&0x01) << shift
			return result, nil
		}

		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, &SectionError{Kind: BadInput}
}

// readSLEB128 decodes a signed LEB128 value, sign-extending the result
// when the final byte's continuation-adjacent sign bit (0x40) is set.
func readSLEB128(src []byte, cursor *uint32) (int64, error) {
	var result int64
	var shift uint
	var b byte
	for {
		if uint64(*cursor) >= uint64(len(src)) {
			return 0, &SectionError{Kind: BadOffset, Offset: uint64(*cursor)}
		}
		b = src[*cursor]
		*cursor++

		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, &SectionError{Kind: BadInput}
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

// readULEB128p1 decodes a ULEB128p1 value: the wire value v decodes to
// (v-1, true), or (0, false) when v == 0 ("absent").
func readULEB128p1(src []byte, cursor *uint32) (uint64, bool, error) {
	v, err := readULEB128(src, cursor)
	if err != nil {
		return 0, false, err
	}
	if v == 0 {
		return 0, false, nil
	}
	return v - 1, true, nil
}

// writeULEB128 appends the minimal ULEB128 encoding of v to dst.
func writeULEB128(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			dst = append(dst, b|0x80)
		} else {
			dst = append(dst, b)
			return dst
		}
	}
}

// writeSLEB128 appends the minimal SLEB128 encoding of v to dst.
func writeSLEB128(dst []byte, v int64) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// writeULEB128p1 appends the minimal ULEB128p1 encoding of v.
func writeULEB128p1(dst []byte, v uint64) []byte {
	return writeULEB128(dst, v+1)
}
