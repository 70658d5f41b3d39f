// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// CallSite is a resolved call-site-item: the bootstrap-method handle
// index, method name, method type, and any extra arguments, packed
// into a three-plus-element encoded_array at CallSiteID.CallSiteOff
// (supplemented feature; the distilled spec names CallSiteId as a raw
// ID-pool entry but does not unpack its payload).
type CallSite struct {
	Values []EncodedValue
}

// resolveCallSite decodes the encoded_array living at a CallSiteID's
// offset. Per invoke-custom's wire convention its first three values
// are (method_handle_idx, method_name string_idx, method_type proto
// descriptor string_idx), followed by zero or more bootstrap arguments;
// this engine exposes them uninterpreted, leaving argument-type
// dispatch to the caller.
func resolveCallSite(r *reader, id CallSiteID) (*CallSite, error) {
	arr, err := parseEncodedArrayItem(r, id.CallSiteOff)
	if err != nil {
		return nil, err
	}
	return &CallSite{Values: arr.Values}, nil
}
