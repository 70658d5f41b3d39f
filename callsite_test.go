// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCallSite(t *testing.T) {
	buf := []byte{0, 0, 0, 0} // padding: offset 0 means "absent" by convention
	off := uint32(len(buf))
	buf = writeULEB128(buf, 3) // 3 encoded values
	buf = append(buf, byte(ValueMethodHandle))
	buf = append(buf, 2)
	buf = append(buf, byte(ValueString))
	buf = append(buf, 5)
	buf = append(buf, byte(ValueString))
	buf = append(buf, 9)

	r := newReader(buf)
	cs, err := resolveCallSite(r, CallSiteID{CallSiteOff: off})
	require.NoError(t, err)
	require.Len(t, cs.Values, 3)
	assert.Equal(t, ValueMethodHandle, cs.Values[0].Type)
	assert.Equal(t, uint64(2), cs.Values[0].UInt)
}

func TestResolveCallSiteZeroOffset(t *testing.T) {
	r := newReader(nil)
	cs, err := resolveCallSite(r, CallSiteID{CallSiteOff: 0})
	require.NoError(t, err)
	assert.Empty(t, cs.Values)
}
