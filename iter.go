// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Seq is a restartable, bounded lazy sequence: its length is known up
// front, and each element is produced on demand rather than decoded
// eagerly. A producer returning an error surfaces it from Get rather
// than panicking.
type Seq[T any] struct {
	size    int
	produce func(i int) (T, error)
}

// newSeq builds a Seq of the given size backed by produce.
func newSeq[T any](size int, produce func(i int) (T, error)) Seq[T] {
	return Seq[T]{size: size, produce: produce}
}

// emptySeq returns a zero-length Seq of T.
func emptySeq[T any]() Seq[T] {
	return Seq[T]{produce: func(int) (T, error) {
		var zero T
		return zero, nil
	}}
}

// Len reports the sequence's element count.
func (s Seq[T]) Len() int { return s.size }

// Get decodes the i-th element. Safe to call repeatedly and in any
// order; nothing is cached, so repeated calls for the same index
// re-decode.
func (s Seq[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= s.size {
		return zero, &SectionError{Kind: BadOffset, Offset: uint64(i)}
	}
	return s.produce(i)
}

// All materializes the whole sequence, stopping at the first error.
func (s Seq[T]) All() ([]T, error) {
	out := make([]T, 0, s.size)
	for i := 0; i < s.size; i++ {
		v, err := s.produce(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
