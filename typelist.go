// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// TypeList is a u32-size-prefixed list of type-pool indices, used for
// both a class's interfaces and a prototype's parameters.
type TypeList struct {
	TypeIdxs []uint16
}

// parseTypeList decodes a TypeList at off. off == 0 yields an empty
// list without reading anything.
func parseTypeList(r *reader, off uint32) (*TypeList, error) {
	if off == 0 {
		return &TypeList{}, nil
	}
	cursor := off
	size, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}
	items := make([]uint16, 0, size)
	for i := uint32(0); i < size; i++ {
		v, err := r.cursorU16(&cursor)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return &TypeList{TypeIdxs: items}, nil
}

// encodeTypeList writes a TypeList's wire form (size prefix + u16 per
// entry; the format specifies no extra padding for odd-length lists
// measured in entries, since each entry is itself a half-word).
func encodeTypeList(tl *TypeList) []byte {
	out := make([]byte, 0, 4+2*len(tl.TypeIdxs))
	out = appendU32LE(out, uint32(len(tl.TypeIdxs)))
	for _, idx := range tl.TypeIdxs {
		out = appendU16LE(out, idx)
	}
	return out
}
