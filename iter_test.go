// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqGetAndLen(t *testing.T) {
	s := newSeq(3, func(i int) (int, error) { return i * i, nil })
	assert.Equal(t, 3, s.Len())

	v, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestSeqGetOutOfBounds(t *testing.T) {
	s := newSeq(2, func(i int) (int, error) { return i, nil })

	_, err := s.Get(-1)
	require.Error(t, err)
	_, err = s.Get(2)
	require.Error(t, err)
	se, ok := err.(*SectionError)
	require.True(t, ok)
	assert.Equal(t, BadOffset, se.Kind)
}

func TestSeqGetPropagatesProducerError(t *testing.T) {
	boom := errors.New("boom")
	s := newSeq(1, func(i int) (int, error) { return 0, boom })

	_, err := s.Get(0)
	assert.Same(t, boom, err)
}

func TestSeqAll(t *testing.T) {
	s := newSeq(4, func(i int) (int, error) { return i + 10, nil })
	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12, 13}, all)
}

func TestSeqAllStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	s := newSeq(5, func(i int) (int, error) {
		calls++
		if i == 2 {
			return 0, boom
		}
		return i, nil
	})

	_, err := s.All()
	assert.Same(t, boom, err)
	assert.Equal(t, 3, calls)
}

func TestEmptySeq(t *testing.T) {
	s := emptySeq[string]()
	assert.Equal(t, 0, s.Len())
	all, err := s.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSeqIsRestartable(t *testing.T) {
	calls := 0
	s := newSeq(1, func(i int) (int, error) {
		calls++
		return 42, nil
	})

	_, _ = s.Get(0)
	_, _ = s.Get(0)
	assert.Equal(t, 2, calls, "Get does not cache: each call re-invokes the producer")
}
