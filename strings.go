// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// stringEngine is the pool view + offset-keyed memoization cache.
// This generalizes a per-file stream cache (a MetadataStreams-style
// map keyed by stream name) to DEX's string pool.
type stringEngine struct {
	r       *reader
	header  *Header
	section *section

	mu    sync.RWMutex
	cache map[uint32]string

	// hashIndex memoizes query -> pool index for repeat find() calls,
	// pre-hashed with xxhash to short-circuit the binary search for a
	// query already resolved once.
	hashMu    sync.RWMutex
	hashIndex map[uint64]uint32
}

func newStringEngine(r *reader, h *Header) *stringEngine {
	return &stringEngine{
		r:         r,
		header:    h,
		section:   newSection(r, "string_ids", h.StringIDsOff, h.StringIDsSize, StringIDStride),
		cache:     make(map[uint32]string),
		hashIndex: make(map[uint64]uint32),
	}
}

// Len returns the number of entries in the string pool.
func (s *stringEngine) Len() uint32 { return s.header.StringIDsSize }

// IDAt returns the StringID at pool index i.
func (s *stringEngine) IDAt(i uint32) (StringID, error) {
	if i >= s.Len() {
		return StringID{}, &StringError{Kind: IndexOutOfBounds, Value: i}
	}
	return readStringID(s.r, s.section.recordOffset(i))
}

// IDAtTypeIdx loads the TypeID at type-pool index t, then resolves it
// to the StringID of its descriptor.
func (s *stringEngine) IDAtTypeIdx(typeSection *section, t uint32) (StringID, error) {
	if t >= typeSection.len() {
		return StringID{}, &StringError{Kind: IndexOutOfBounds, Value: t}
	}
	tid, err := readTypeID(s.r, typeSection.recordOffset(t))
	if err != nil {
		return StringID{}, err
	}
	return s.IDAt(tid.DescriptorIdx)
}

// Get decodes (with memoization) the string at the given StringID.
func (s *stringEngine) Get(id StringID) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[id.Offset]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	if !s.header.inDataSection(id.Offset) {
		return "", &StringError{Kind: OffsetOutOfBounds, Value: id.Offset}
	}

	cursor := id.Offset
	_, err := s.r.uleb(&cursor) // decoded UTF-16 length, informational only
	if err != nil {
		return "", err
	}
	// Find the encoded length by scanning for the terminating NUL.
	end := cursor
	for {
		b, err := s.r.u8(end)
		if err != nil {
			return "", &StringError{Kind: Malformed, Value: cursor, Cause: err}
		}
		if b == 0x00 {
			break
		}
		end++
	}
	raw, err := s.r.bytes(cursor, end-cursor)
	if err != nil {
		return "", err
	}
	decoded, err := decodeMUTF8(raw)
	if err != nil {
		return "", &StringError{Kind: Malformed, Value: cursor, Cause: err}
	}

	s.mu.Lock()
	// Duplicate inserts for the same offset are benign: both decodes
	// yield identical strings, so the second writer simply overwrites
	// with an identical value.
	s.cache[id.Offset] = decoded
	s.mu.Unlock()
	return decoded, nil
}

// Find binary-searches the string-id pool by content.
// Comparison and ordering are byte-exact over the MUTF-8 encoding,
// matching DEX's own sort order.
func (s *stringEngine) Find(query string) (uint32, StringID, error) {
	encoded := encodeMUTF8(query)
	h := xxhash.Sum64(encoded)

	s.hashMu.RLock()
	if idx, ok := s.hashIndex[h]; ok {
		s.hashMu.RUnlock()
		id, err := s.IDAt(idx)
		return idx, id, err
	}
	s.hashMu.RUnlock()

	// The comparator needs the decoded candidate's raw MUTF-8 bytes,
	// which requires dereferencing each record's offset field, so this
	// walks the pool directly rather than through section.binarySearch
	// (which only compares raw fixed-stride record bytes).
	lo, hi := uint32(0), s.Len()
	for lo < hi {
		mid := lo + (hi-lo)/2
		id, err := s.IDAt(mid)
		if err != nil {
			return 0, StringID{}, err
		}
		candBytes, err := s.rawBytesAt(id.Offset)
		if err != nil {
			return 0, StringID{}, err
		}
		cmp := compareBytes(candBytes, encoded)
		switch {
		case cmp == 0:
			s.hashMu.Lock()
			s.hashIndex[h] = mid
			s.hashMu.Unlock()
			return mid, id, nil
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, StringID{}, &StringError{Kind: StringNotFound}
}

// rawBytesAt returns the raw (still-MUTF-8) encoded bytes of the
// string-data item at off, without transcoding, for comparator use.
func (s *stringEngine) rawBytesAt(off uint32) ([]byte, error) {
	cursor := off
	if _, err := s.r.uleb(&cursor); err != nil {
		return nil, err
	}
	end := cursor
	for {
		b, err := s.r.u8(end)
		if err != nil {
			return nil, err
		}
		if b == 0x00 {
			break
		}
		end++
	}
	return s.r.bytes(cursor, end-cursor)
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
