// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Fuzz is the legacy go-fuzz entry point, kept alongside FuzzParse
// (fuzz_test.go) for corpora built against the older convention.
func Fuzz(data []byte) int {
	f, err := OpenBytes(data, &Options{Fast: false})
	if err != nil {
		return 0
	}
	if err := f.Parse(); err != nil {
		return 0
	}
	return 1
}
