// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// ItemType enumerates the map-list item kinds, per
// original_source/src/raw/map_list.rs.
type ItemType uint16

const (
	ItemHeader                  ItemType = 0x0000
	ItemStringID                ItemType = 0x0001
	ItemTypeID                  ItemType = 0x0002
	ItemProtoID                 ItemType = 0x0003
	ItemFieldID                 ItemType = 0x0004
	ItemMethodID                ItemType = 0x0005
	ItemClassDef                ItemType = 0x0006
	ItemCallSiteID               ItemType = 0x0007
	ItemMethodHandle            ItemType = 0x0008
	ItemMap                     ItemType = 0x1000
	ItemTypeList                ItemType = 0x1001
	ItemAnnotationSetRefList    ItemType = 0x1002
	ItemAnnotationSet           ItemType = 0x1003
	ItemClassData               ItemType = 0x2000
	ItemCode                    ItemType = 0x2001
	ItemStringData              ItemType = 0x2002
	ItemDebugInfo               ItemType = 0x2003
	ItemAnnotation              ItemType = 0x2004
	ItemEncodedArray            ItemType = 0x2005
	ItemAnnotationsDirectory    ItemType = 0x2006
	ItemHiddenAPIClassData      ItemType = 0xF000
)

func (t ItemType) known() bool {
	switch t {
	case ItemHeader, ItemStringID, ItemTypeID, ItemProtoID, ItemFieldID,
		ItemMethodID, ItemClassDef, ItemCallSiteID, ItemMethodHandle,
		ItemMap, ItemTypeList, ItemAnnotationSetRefList, ItemAnnotationSet,
		ItemClassData, ItemCode, ItemStringData, ItemDebugInfo,
		ItemAnnotation, ItemEncodedArray, ItemAnnotationsDirectory,
		ItemHiddenAPIClassData:
		return true
	}
	return false
}

// MapItem is a single entry of the map list.
type MapItem struct {
	ItemType ItemType
	Size     uint32
	Offset   uint32
}

// MapList is the ordered sequence of MapItems found at header.MapOff.
// Each ItemType appears at most once.
type MapList struct {
	Items []MapItem
	byType map[ItemType]MapItem
}

// Get returns the map entry for the given item type, if present.
func (m *MapList) Get(t ItemType) (MapItem, bool) {
	mi, ok := m.byType[t]
	return mi, ok
}

// parseMapList decodes the map list at off, rejecting unknown item
// types.
func parseMapList(r *reader, off uint32) (*MapList, error) {
	cursor := off
	size, err := r.cursorU32(&cursor)
	if err != nil {
		return nil, err
	}

	ml := &MapList{
		Items:  make([]MapItem, 0, size),
		byType: make(map[ItemType]MapItem, size),
	}
	for i := uint32(0); i < size; i++ {
		typeVal, err := r.cursorU16(&cursor)
		if err != nil {
			return nil, err
		}
		cursor += 2 // reserved u16, unused
		itemSize, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}
		itemOff, err := r.cursorU32(&cursor)
		if err != nil {
			return nil, err
		}

		it := ItemType(typeVal)
		if !it.known() {
			return nil, &MapListError{Kind: InvalidTypeID, ItemType: typeVal}
		}
		mi := MapItem{ItemType: it, Size: itemSize, Offset: itemOff}
		ml.Items = append(ml.Items, mi)
		ml.byType[it] = mi
	}
	return ml, nil
}
