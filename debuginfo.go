// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Debug-info opcode tail. The only required outputs are LineStart and
// ParameterNames; the opcode stream itself is skimmed (not interpreted
// into a full line table) -- reconstructing a DWARF-like debug-line
// state machine is out of scope.
const (
	dbgEndSequence      = 0x00
	dbgAdvancePC        = 0x01
	dbgAdvanceLine      = 0x02
	dbgStartLocal       = 0x03
	dbgStartLocalExt    = 0x04
	dbgEndLocal         = 0x05
	dbgRestartLocal     = 0x06
	dbgSetPrologueEnd   = 0x07
	dbgSetEpilogueBegin = 0x08
	dbgSetFile          = 0x09
	dbgFirstSpecial     = 0x0A
)

// ParamNameIdx is one element of a debug-info parameter-name list: a
// string-pool index, present or absent per the ULEB128p1 encoding.
type ParamNameIdx struct {
	Idx     uint32
	Present bool
}

// DebugInfo is the decoded header of a debug_info_item: the starting
// line number and the (possibly sparse) parameter name list. The
// opcode tail is walked only far enough to find EndSequence; callers
// needing the reconstructed line table are out of scope here.
type DebugInfo struct {
	LineStart      uint64
	ParameterNames []ParamNameIdx
}

// parseDebugInfo decodes the debug-info item at off.
func parseDebugInfo(r *reader, off uint32) (*DebugInfo, error) {
	cursor := off

	lineStart, err := r.uleb(&cursor)
	if err != nil {
		return nil, err
	}
	paramsSize, err := r.uleb(&cursor)
	if err != nil {
		return nil, err
	}

	names := make([]ParamNameIdx, 0, paramsSize)
	for i := uint64(0); i < paramsSize; i++ {
		v, present, err := r.ulebP1(&cursor)
		if err != nil {
			return nil, err
		}
		names = append(names, ParamNameIdx{Idx: uint32(v), Present: present})
	}

	if err := skimDebugOpcodes(r, &cursor); err != nil {
		return nil, err
	}

	return &DebugInfo{LineStart: lineStart, ParameterNames: names}, nil
}

// skimDebugOpcodes advances cursor past the debug opcode stream until
// EndSequence, validating opcode bytes but not materializing a line
// table.
func skimDebugOpcodes(r *reader, cursor *uint32) error {
	for {
		op, err := r.u8(*cursor)
		if err != nil {
			return err
		}
		*cursor++

		switch {
		case op == dbgEndSequence:
			return nil
		case op == dbgAdvancePC:
			if _, err := r.uleb(cursor); err != nil {
				return err
			}
		case op == dbgAdvanceLine:
			if _, err := r.sleb(cursor); err != nil {
				return err
			}
		case op == dbgStartLocal:
			if _, err := r.uleb(cursor); err != nil {
				return err
			}
			if _, _, err := r.ulebP1(cursor); err != nil {
				return err
			}
			if _, _, err := r.ulebP1(cursor); err != nil {
				return err
			}
		case op == dbgStartLocalExt:
			if _, err := r.uleb(cursor); err != nil {
				return err
			}
			if _, _, err := r.ulebP1(cursor); err != nil {
				return err
			}
			if _, _, err := r.ulebP1(cursor); err != nil {
				return err
			}
			if _, _, err := r.ulebP1(cursor); err != nil {
				return err
			}
		case op == dbgEndLocal, op == dbgRestartLocal:
			if _, err := r.uleb(cursor); err != nil {
				return err
			}
		case op == dbgSetPrologueEnd, op == dbgSetEpilogueBegin:
			// no operands
		case op == dbgSetFile:
			if _, _, err := r.ulebP1(cursor); err != nil {
				return err
			}
		case op >= dbgFirstSpecial:
			// special opcodes: no operands, encode (line, address)
			// advances arithmetically in their own byte value.
		default:
			return &DebugInfoError{Kind: InvalidOperation, Operation: op}
		}
	}
}
