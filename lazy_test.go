// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyGetComputesOnce(t *testing.T) {
	var l lazy[int]
	calls := 0

	v, err := l.get(func() (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = l.get(func() (int, error) {
		calls++
		return 99, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v, "second get observes the first result, not a recomputed one")
	assert.Equal(t, 1, calls)
}

func TestLazyGetMemoizesError(t *testing.T) {
	var l lazy[int]
	boom := errors.New("boom")
	calls := 0

	_, err := l.get(func() (int, error) {
		calls++
		return 0, boom
	})
	assert.Same(t, boom, err)

	_, err = l.get(func() (int, error) {
		calls++
		return 1, nil
	})
	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestLazyGetConcurrentWinnerTakesAll(t *testing.T) {
	var l lazy[int]
	var wg sync.WaitGroup
	results := make([]int, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, _ := l.get(func() (int, error) { return 123, nil })
			results[idx] = v
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 123, r)
	}
}
