// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// section is a fixed-stride view over a contiguous run of the buffer,
// generalizing a plain byte-range-over-the-image view to DEX's densely
// packed ID pools: every record is `stride` bytes wide and decoded on
// demand by a caller-supplied decode function.
type section struct {
	r       *reader
	name    string
	start   uint32
	count   uint32
	stride  uint32
}

func newSection(r *reader, name string, start, count, stride uint32) *section {
	return &section{r: r, name: name, start: start, count: count, stride: stride}
}

func (s *section) len() uint32 { return s.count }

// recordBytes returns the raw bytes of the i-th record.
func (s *section) recordBytes(i uint32) ([]byte, error) {
	if i >= s.count {
		return nil, &SectionError{Kind: BadSection, Name: s.name, Offset: uint64(i)}
	}
	off := s.start + i*s.stride
	return s.r.bytes(off, s.stride)
}

// recordOffset returns the absolute byte offset of the i-th record.
func (s *section) recordOffset(i uint32) uint32 {
	return s.start + i*s.stride
}

// binarySearch performs a classic half-open binary search over the
// section, returning the index of the first record whose compare
// callback reports 0 against key, or (0, false) on a miss. compare
// receives the record's raw bytes and reports <0/0/>0 the way
// bytes.Compare does. Returns an error only on a decode I/O failure;
// a clean miss is (0, false, nil).
func (s *section) binarySearch(compare func(record []byte) (int, error)) (uint32, bool, error) {
	lo, hi := uint32(0), s.count
	for lo < hi {
		mid := lo + (hi-lo)/2
		rec, err := s.recordBytes(mid)
		if err != nil {
			return 0, false, err
		}
		cmp, err := compare(rec)
		if err != nil {
			return 0, false, err
		}
		switch {
		case cmp == 0:
			return mid, true, nil
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false, nil
}
