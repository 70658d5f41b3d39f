// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// rawCatchHandler is one decoded encoded_catch_handler entry: a run of
// typed (type_idx, addr) pairs, plus an optional catch-all address.
// size <= 0 in the wire form means "plus a catch-all"; the pair count
// is |size|.
type rawCatchHandler struct {
	Pairs         []typeAddrPair
	CatchAllAddr  uint64
	HasCatchAll   bool
}

type typeAddrPair struct {
	TypeIdx uint32
	Addr    uint64
}

// encodedCatchHandlerList is the decoded handler list embedded inside
// a code-item, with each handler's byte offset from the list start
// recorded alongside it so TryItem.handler_off can address it.
type encodedCatchHandlerList struct {
	handlers    []rawCatchHandler
	byOffset    map[uint16]int // list-relative byte offset -> index into handlers
}

// find resolves a TryItem.handler_off (offset from the handler-list
// start) to its handler. A linear scan would be fine given how few
// handlers a method typically has, but the byOffset map gives O(1)
// since offsets are known exactly at decode time anyway.
func (l *encodedCatchHandlerList) find(handlerOff uint16) (*rawCatchHandler, error) {
	idx, ok := l.byOffset[handlerOff]
	if !ok {
		return nil, &CodeError{Kind: InvalidExceptionHandler, HandlerOff: handlerOff}
	}
	return &l.handlers[idx], nil
}

// parseCatchHandlerList decodes the list starting at off (which is
// itself the list's "start" for handler_off purposes).
func parseCatchHandlerList(r *reader, off uint32) (*encodedCatchHandlerList, error) {
	cursor := off
	count, err := r.uleb(&cursor)
	if err != nil {
		return nil, err
	}

	list := &encodedCatchHandlerList{
		handlers: make([]rawCatchHandler, 0, count),
		byOffset: make(map[uint16]int, count),
	}

	for i := uint64(0); i < count; i++ {
		handlerStart := cursor - off
		size, err := r.sleb(&cursor)
		if err != nil {
			return nil, err
		}

		n := size
		if n < 0 {
			n = -n
		}
		pairs := make([]typeAddrPair, 0, n)
		for p := int64(0); p < n; p++ {
			typeIdx, err := r.uleb(&cursor)
			if err != nil {
				return nil, err
			}
			addr, err := r.uleb(&cursor)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, typeAddrPair{TypeIdx: uint32(typeIdx), Addr: addr})
		}

		h := rawCatchHandler{Pairs: pairs}
		if size <= 0 {
			addr, err := r.uleb(&cursor)
			if err != nil {
				return nil, err
			}
			h.CatchAllAddr = addr
			h.HasCatchAll = true
		}

		list.handlers = append(list.handlers, h)
		list.byOffset[uint16(handlerStart)] = len(list.handlers) - 1
	}

	return list, nil
}
