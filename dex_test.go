// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"encoding/binary"
	"hash/adler32"
)

// imageBuilder assembles small, valid DEX byte images in-code for
// table-driven tests, since there are no binary DEX fixtures on hand.
// Testing against minimal, exactly-specified images stands in for
// testing against real files.
type imageBuilder struct {
	buf []byte
}

func newImageBuilder() *imageBuilder {
	b := &imageBuilder{buf: make([]byte, HeaderSize)}
	return b
}

// append writes data at the current end of the buffer, returning its
// offset, and grows the buffer.
func (b *imageBuilder) append(data []byte) uint32 {
	off := uint32(len(b.buf))
	b.buf = append(b.buf, data...)
	return off
}

// alignTo4 pads the buffer to the next 4-byte boundary.
func (b *imageBuilder) alignTo4() {
	for len(b.buf)%4 != 0 {
		b.buf = append(b.buf, 0)
	}
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// finish fixes up file_size and the checksum. The other header fields
// must already have been written via writeHeader.
func (b *imageBuilder) finish() []byte {
	binary.LittleEndian.PutUint32(b.buf[32:], uint32(len(b.buf))) // file_size
	cs := adler32.Checksum(b.buf[12:])
	binary.LittleEndian.PutUint32(b.buf[8:], cs)
	return b.buf
}

// writeHeader stamps every header field except checksum/file_size
// (fixed up by finish). mapOff, dataOff and dataSize are supplied by
// the caller since they depend on what the test appended.
type headerSpec struct {
	version                                        string
	mapOff, dataOff, dataSize                       uint32
	stringIDsSize, stringIDsOff                     uint32
	typeIDsSize, typeIDsOff                         uint32
	protoIDsSize, protoIDsOff                       uint32
	fieldIDsSize, fieldIDsOff                       uint32
	methodIDsSize, methodIDsOff                     uint32
	classDefsSize, classDefsOff                     uint32
}

func (b *imageBuilder) writeHeader(spec headerSpec) {
	if spec.version == "" {
		spec.version = "039"
	}
	copy(b.buf[0:4], []byte("dex\n"))
	copy(b.buf[4:7], []byte(spec.version))
	b.buf[7] = 0x00
	binary.LittleEndian.PutUint32(b.buf[36:], HeaderSize) // header_size
	binary.LittleEndian.PutUint32(b.buf[40:], EndianConstant)
	binary.LittleEndian.PutUint32(b.buf[44:], 0) // link_size
	binary.LittleEndian.PutUint32(b.buf[48:], 0) // link_off
	binary.LittleEndian.PutUint32(b.buf[52:], spec.mapOff)
	binary.LittleEndian.PutUint32(b.buf[56:], spec.stringIDsSize)
	binary.LittleEndian.PutUint32(b.buf[60:], spec.stringIDsOff)
	binary.LittleEndian.PutUint32(b.buf[64:], spec.typeIDsSize)
	binary.LittleEndian.PutUint32(b.buf[68:], spec.typeIDsOff)
	binary.LittleEndian.PutUint32(b.buf[72:], spec.protoIDsSize)
	binary.LittleEndian.PutUint32(b.buf[76:], spec.protoIDsOff)
	binary.LittleEndian.PutUint32(b.buf[80:], spec.fieldIDsSize)
	binary.LittleEndian.PutUint32(b.buf[84:], spec.fieldIDsOff)
	binary.LittleEndian.PutUint32(b.buf[88:], spec.methodIDsSize)
	binary.LittleEndian.PutUint32(b.buf[92:], spec.methodIDsOff)
	binary.LittleEndian.PutUint32(b.buf[96:], spec.classDefsSize)
	binary.LittleEndian.PutUint32(b.buf[100:], spec.classDefsOff)
	binary.LittleEndian.PutUint32(b.buf[104:], spec.dataSize)
	binary.LittleEndian.PutUint32(b.buf[108:], spec.dataOff)
}

// appendMapList appends a map list built from the given entries and
// returns its offset.
func (b *imageBuilder) appendMapList(entries []MapItem) uint32 {
	off := uint32(len(b.buf))
	b.buf = append(b.buf, u32le(uint32(len(entries)))...)
	for _, e := range entries {
		b.buf = append(b.buf, u16le(uint16(e.ItemType))...)
		b.buf = append(b.buf, u16le(0)...)
		b.buf = append(b.buf, u32le(e.Size)...)
		b.buf = append(b.buf, u32le(e.Offset)...)
	}
	return off
}

// buildEmptyHeaderImage builds a bare header with every pool size
// zero and an empty data section.
func buildEmptyHeaderImage() []byte {
	b := newImageBuilder()
	mapOff := uint32(len(b.buf))
	b.appendMapList([]MapItem{
		{ItemType: ItemHeader, Size: 1, Offset: 0},
		{ItemType: ItemMap, Size: 1, Offset: mapOff},
	})
	b.writeHeader(headerSpec{
		mapOff:   mapOff,
		dataOff:  mapOff,
		dataSize: uint32(len(b.buf)) - mapOff,
	})
	return b.finish()
}
