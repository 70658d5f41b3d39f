// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// TryItem describes one protected instruction range and the offset
// (relative to the handler list start, not the file) of its handler
// entry.
type TryItem struct {
	StartAddr  uint32
	InsnCount  uint16
	HandlerOff uint16
}

// CodeItem is a method's bytecode body: registers/ins/outs layout,
// the raw 16-bit instruction stream (never disassembled), and its
// try/catch table.
type CodeItem struct {
	RegistersSize uint16
	InsSize       uint16
	OutsSize      uint16
	TriesSize     uint16
	DebugInfoOff  uint32
	Insns         []uint16
	Tries         []TryItem
	Handlers      *encodedCatchHandlerList // nil iff TriesSize == 0
}

// parseCodeItem decodes the code-item at off, applying the padding and
// handler-presence rules:
//   - a 2-byte pad word precedes `tries` iff insns_size is odd AND
//     tries_size > 0;
//   - `handlers` is present iff tries_size > 0.
func parseCodeItem(r *reader, off uint32) (*CodeItem, error) {
	cursor := off

	registersSize, err := r.cursorU16(&cursor)
	if err != nil {
		return nil, err
	}
	insSize, err := r.cursorU16(&cursor)
	if err != nil {
		return nil, err
	}
	outsSize, err := r.cursorU16(&cursor)
	if err != nil {
		return nil, err
	}
	triesSize, err := r.cursorU16(&cursor)
	if err != nil {
		return nil, err
	}
	debugInfoOff, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}
	insnsSize, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}

	insns := make([]uint16, 0, insnsSize)
	for i := uint32(0); i < insnsSize; i++ {
		v, err := r.cursorU16(&cursor)
		if err != nil {
			return nil, err
		}
		insns = append(insns, v)
	}

	ci := &CodeItem{
		RegistersSize: registersSize,
		InsSize:       insSize,
		OutsSize:      outsSize,
		TriesSize:     triesSize,
		DebugInfoOff:  debugInfoOff,
		Insns:         insns,
	}

	if triesSize == 0 {
		return ci, nil
	}

	if insnsSize%2 != 0 {
		cursor += 2 // padding word
	}

	tries := make([]TryItem, 0, triesSize)
	for i := uint16(0); i < triesSize; i++ {
		startAddr, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		insnCount, err := r.cursorU16(&cursor)
		if err != nil {
			return nil, err
		}
		handlerOff, err := r.cursorU16(&cursor)
		if err != nil {
			return nil, err
		}
		tries = append(tries, TryItem{StartAddr: startAddr, InsnCount: insnCount, HandlerOff: handlerOff})
	}
	ci.Tries = tries

	handlers, err := parseCatchHandlerList(r, cursor)
	if err != nil {
		return nil, err
	}
	ci.Handlers = handlers

	return ci, nil
}
