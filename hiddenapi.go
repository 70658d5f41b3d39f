// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// RestrictionFlag is the hiddenapi-class-data restriction level for a
// field or method. The map-list item type `hiddenapi-class-data` is
// a recognized item type with no dedicated parser elsewhere; this
// file fills that gap.
type RestrictionFlag uint64

const (
	Whitelist    RestrictionFlag = 0
	Greylist     RestrictionFlag = 1
	Blacklist    RestrictionFlag = 2
	GreylistMaxO RestrictionFlag = 3
	GreylistMaxP RestrictionFlag = 4
	GreylistMaxQ RestrictionFlag = 5
	GreylistMaxR RestrictionFlag = 6
)

// HiddenAPIClassData is the parallel, ULEB128-encoded restriction-flag
// array for one class's fields and methods, decoded lazily off
// Class.HiddenAPIFlags().
type HiddenAPIClassData struct {
	FlagsByMember []RestrictionFlag
}

// parseHiddenAPIClassData decodes the per-member restriction-flag
// array starting at off, for a class whose field/method lists total
// memberCount entries (static+instance fields, direct+virtual
// methods, in that order -- the same order class-data enumerates
// them).
func parseHiddenAPIClassData(r *reader, off uint32, memberCount int) (*HiddenAPIClassData, error) {
	cursor := off
	flags := make([]RestrictionFlag, 0, memberCount)
	for i := 0; i < memberCount; i++ {
		v, err := r.uleb(&cursor)
		if err != nil {
			return nil, err
		}
		flags = append(flags, RestrictionFlag(v))
	}
	return &HiddenAPIClassData{FlagsByMember: flags}, nil
}
