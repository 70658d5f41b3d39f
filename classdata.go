// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// EncodedField is one field entry of a class-data item. FieldIdx is
// already reconstructed from the delta-encoded wire form.
type EncodedField struct {
	FieldIdx    uint32
	AccessFlags AccessFlags
}

// EncodedMethod is one method entry of a class-data item, likewise
// delta-reconstructed.
type EncodedMethod struct {
	MethodIdx   uint32
	AccessFlags AccessFlags
	CodeOff     uint32
}

// ClassData is the decoded class-data item: four runs of members, in
// declaration order.
type ClassData struct {
	StaticFields   []EncodedField
	InstanceFields []EncodedField
	DirectMethods  []EncodedMethod
	VirtualMethods []EncodedMethod
}

// parseClassData decodes the class-data item at off. off == 0 is
// handled by the caller (Class.classDataItem()); this function always
// expects a valid item start.
func parseClassData(r *reader, off uint32) (*ClassData, error) {
	cursor := off

	staticFieldsSize, err := r.uleb(&cursor)
	if err != nil {
		return nil, err
	}
	instanceFieldsSize, err := r.uleb(&cursor)
	if err != nil {
		return nil, err
	}
	directMethodsSize, err := r.uleb(&cursor)
	if err != nil {
		return nil, err
	}
	virtualMethodsSize, err := r.uleb(&cursor)
	if err != nil {
		return nil, err
	}

	staticFields, err := readEncodedFields(r, &cursor, staticFieldsSize)
	if err != nil {
		return nil, err
	}
	instanceFields, err := readEncodedFields(r, &cursor, instanceFieldsSize)
	if err != nil {
		return nil, err
	}
	directMethods, err := readEncodedMethods(r, &cursor, directMethodsSize)
	if err != nil {
		return nil, err
	}
	virtualMethods, err := readEncodedMethods(r, &cursor, virtualMethodsSize)
	if err != nil {
		return nil, err
	}

	return &ClassData{
		StaticFields:   staticFields,
		InstanceFields: instanceFields,
		DirectMethods:  directMethods,
		VirtualMethods: virtualMethods,
	}, nil
}

func readEncodedFields(r *reader, cursor *uint32, count uint64) ([]EncodedField, error) {
	fields := make([]EncodedField, 0, count)
	var idx uint32
	for i := uint64(0); i < count; i++ {
		diff, err := r.uleb(cursor)
		if err != nil {
			return nil, err
		}
		accessFlags, err := r.uleb(cursor)
		if err != nil {
			return nil, err
		}
		idx += uint32(diff)
		fields = append(fields, EncodedField{FieldIdx: idx, AccessFlags: AccessFlags(accessFlags)})
	}
	return fields, nil
}

func readEncodedMethods(r *reader, cursor *uint32, count uint64) ([]EncodedMethod, error) {
	methods := make([]EncodedMethod, 0, count)
	var idx uint32
	for i := uint64(0); i < count; i++ {
		diff, err := r.uleb(cursor)
		if err != nil {
			return nil, err
		}
		accessFlags, err := r.uleb(cursor)
		if err != nil {
			return nil, err
		}
		codeOff, err := r.uleb(cursor)
		if err != nil {
			return nil, err
		}
		idx += uint32(diff)
		methods = append(methods, EncodedMethod{
			MethodIdx:   idx,
			AccessFlags: AccessFlags(accessFlags),
			CodeOff:     uint32(codeOff),
		})
	}
	return methods, nil
}
