// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"encoding/binary"
	"hash/adler32"
)

// Writer accumulates new strings against an already-parsed File and
// re-emits a fresh, valid image. This is scoped to representability,
// not a general DEX builder (see DESIGN.md): the source buffer is
// never mutated, every existing item (ID pools, class-data, code,
// annotations, debug-info) is carried through byte-identical at its
// original offset, and only new strings are appended.
type Writer struct {
	file    *File
	pending []string
}

// NewWriter wraps an already-Parsed File for writing.
func NewWriter(f *File) *Writer {
	return &Writer{file: f}
}

// AddString appends s to the side list of new strings,
// and returns its eventual string-pool index (stable: the index a
// caller gets back is valid in the buffer Emit later produces, and
// does not disturb any existing index). Appended strings are not
// re-sorted against the existing pool, so FindString on the emitted
// buffer will not locate them by binary search; callers needing that
// must track the returned index themselves.
func (w *Writer) AddString(s string) uint32 {
	w.pending = append(w.pending, s)
	return w.file.Header.StringIDsSize + uint32(len(w.pending)) - 1
}

// Emit produces a fresh buffer: the source image copied verbatim
// (every pool, class-data item, code item, annotation, and debug-info
// item stays at its original byte offset, satisfying round-trip
// fidelity for every untouched item), the pending strings appended as
// new string_data items, a relocated string_id pool (old
// entries followed by new ones, so existing pool indices are
// undisturbed), and a relocated map list whose ItemStringID and
// ItemMap entries point at the new locations. Header fields, file
// size, and the Adler-32 checksum are recomputed to match.
func (w *Writer) Emit() ([]byte, error) {
	f := w.file
	h := f.Header

	out := append([]byte(nil), f.r.buf...)

	newStringOffs := make([]uint32, len(w.pending))
	for i, s := range w.pending {
		newStringOffs[i] = uint32(len(out))
		out = writeULEB128(out, utf16Len(s))
		out = append(out, encodeMUTF8(s)...)
		out = append(out, 0x00)
	}
	dataEnd := uint32(len(out))

	newStringIDsOff := uint32(len(out))
	for i := uint32(0); i < h.StringIDsSize; i++ {
		id, err := readStringID(f.r, h.StringIDsOff+i*StringIDStride)
		if err != nil {
			return nil, err
		}
		out = appendU32LE(out, id.Offset)
	}
	for _, off := range newStringOffs {
		out = appendU32LE(out, off)
	}
	newStringIDsSize := h.StringIDsSize + uint32(len(w.pending))

	newMapOff := uint32(len(out))
	out = appendU32LE(out, uint32(len(f.MapList.Items)))
	for _, it := range f.MapList.Items {
		switch it.ItemType {
		case ItemStringID:
			it.Size, it.Offset = newStringIDsSize, newStringIDsOff
		case ItemMap:
			it.Offset = newMapOff
		}
		out = appendU16LE(out, uint16(it.ItemType))
		out = appendU16LE(out, 0)
		out = appendU32LE(out, it.Size)
		out = appendU32LE(out, it.Offset)
	}

	patchHeader(out, newStringIDsSize, newStringIDsOff, newMapOff, h.DataOff, dataEnd-h.DataOff)
	return out, nil
}

// patchHeader overwrites the header fields that move when new strings
// are appended, then recomputes file_size and the Adler-32 checksum
// over everything past the checksum field, matching the layout
// parseHeader reads.
func patchHeader(out []byte, stringIDsSize, stringIDsOff, mapOff, dataOff, dataSize uint32) {
	binary.LittleEndian.PutUint32(out[52:], mapOff)
	binary.LittleEndian.PutUint32(out[56:], stringIDsSize)
	binary.LittleEndian.PutUint32(out[60:], stringIDsOff)
	binary.LittleEndian.PutUint32(out[104:], dataSize)
	binary.LittleEndian.PutUint32(out[108:], dataOff)
	binary.LittleEndian.PutUint32(out[32:], uint32(len(out)))
	cs := adler32.Checksum(out[12:])
	binary.LittleEndian.PutUint32(out[8:], cs)
}
