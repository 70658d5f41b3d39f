// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "sync"

// lazy is a single-assignment memoized cell: the first caller to
// resolve it computes the value (and any decode error) once; every
// later caller, on the same goroutine or a different one, observes
// that same result without recomputation, matching the "concurrent get
// on the same offset is safe" rule of the concurrency model.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(f func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.val, l.err = f()
	})
	return l.val, l.err
}
