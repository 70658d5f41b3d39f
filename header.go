// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"hash/adler32"

	"github.com/hashicorp/go-version"
)

// HeaderSize is the fixed size in bytes of the DEX header.
const HeaderSize = 112

// EndianConstant is the only endian tag this engine accepts; a
// big-endian image (the byte-swapped constant) is rejected outright.
const EndianConstant uint32 = 0x12345678

// NoIndex is the sentinel meaning "this optional index is absent".
const NoIndex uint32 = 0xFFFFFFFF

var dexMagicPrefix = [4]byte{'d', 'e', 'x', '\n'}

// Header is the fixed 112-byte DEX header, field-for-field per
// https://source.android.com/docs/core/runtime/dex-format.
type Header struct {
	Magic             [8]byte `json:"-"`
	Checksum          uint32  `json:"checksum"`
	Signature         [20]byte `json:"signature"`
	FileSize          uint32  `json:"file_size"`
	HeaderSize        uint32  `json:"header_size"`
	EndianTag         uint32  `json:"endian_tag"`
	LinkSize          uint32  `json:"link_size"`
	LinkOff           uint32  `json:"link_off"`
	MapOff            uint32  `json:"map_off"`
	StringIDsSize     uint32  `json:"string_ids_size"`
	StringIDsOff      uint32  `json:"string_ids_off"`
	TypeIDsSize       uint32  `json:"type_ids_size"`
	TypeIDsOff        uint32  `json:"type_ids_off"`
	ProtoIDsSize      uint32  `json:"proto_ids_size"`
	ProtoIDsOff       uint32  `json:"proto_ids_off"`
	FieldIDsSize      uint32  `json:"field_ids_size"`
	FieldIDsOff       uint32  `json:"field_ids_off"`
	MethodIDsSize     uint32  `json:"method_ids_size"`
	MethodIDsOff      uint32  `json:"method_ids_off"`
	ClassDefsSize     uint32  `json:"class_defs_size"`
	ClassDefsOff      uint32  `json:"class_defs_off"`
	DataSize          uint32  `json:"data_size"`
	DataOff           uint32  `json:"data_off"`
}

// Version returns the 3-ASCII-digit format version carried in the
// magic (bytes 4..7), parsed into a comparable go-version.Version so
// format-gated features (call-site-ids and method-handles need at
// least "038") can be checked with ordinary constraint comparisons
// instead of ad hoc string compares.
func (h *Header) Version() (*version.Version, error) {
	digits := string(h.Magic[4:7])
	return version.NewVersion(digits)
}

// inDataSection reports whether off falls inside the header's data
// section.
func (h *Header) inDataSection(off uint32) bool {
	return off >= h.DataOff && off < h.DataOff+h.DataSize
}

// parseHeader reads and validates the header at the start of buf.
// It does not read the map list; callers combine it with
// parseMapList.
func parseHeader(r *reader, opts *Options) (*Header, error) {
	size := r.size()
	if size < HeaderSize {
		return nil, &HeaderError{Kind: InvalidLength, Value: size}
	}

	magic, err := r.bytes(0, 8)
	if err != nil {
		return nil, err
	}
	var h Header
	copy(h.Magic[:], magic)

	if h.Magic[0] != dexMagicPrefix[0] || h.Magic[1] != dexMagicPrefix[1] ||
		h.Magic[2] != dexMagicPrefix[2] || h.Magic[3] != dexMagicPrefix[3] ||
		h.Magic[7] != 0x00 {
		return nil, &HeaderError{Kind: InvalidMagic}
	}
	for _, d := range h.Magic[4:7] {
		if d < '0' || d > '9' {
			return nil, &HeaderError{Kind: InvalidVersion}
		}
	}

	checksum, err := r.u32(8)
	if err != nil {
		return nil, err
	}
	h.Checksum = checksum

	sig, err := r.bytes(12, 20)
	if err != nil {
		return nil, err
	}
	copy(h.Signature[:], sig)

	if !opts.SkipChecksum {
		rest, err := r.bytes(12, size-12)
		if err != nil {
			return nil, err
		}
		if adler32.Checksum(rest) != checksum {
			return nil, &HeaderError{Kind: InvalidChecksum}
		}
	}

	cursor := uint32(32)
	fields := []*uint32{
		&h.FileSize, &h.HeaderSize, &h.EndianTag,
		&h.LinkSize, &h.LinkOff, &h.MapOff,
		&h.StringIDsSize, &h.StringIDsOff,
		&h.TypeIDsSize, &h.TypeIDsOff,
		&h.ProtoIDsSize, &h.ProtoIDsOff,
		&h.FieldIDsSize, &h.FieldIDsOff,
		&h.MethodIDsSize, &h.MethodIDsOff,
		&h.ClassDefsSize, &h.ClassDefsOff,
		&h.DataSize, &h.DataOff,
	}
	for _, f := range fields {
		v, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		*f = v
	}

	if h.EndianTag != EndianConstant {
		return nil, &HeaderError{Kind: InvalidEndianTag, Value: h.EndianTag}
	}
	if h.FileSize != size {
		return nil, &HeaderError{Kind: InvalidLength, Value: h.FileSize}
	}

	return &h, nil
}
