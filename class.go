// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// Class is a lazy view over one ClassDef: the raw record is resolved
// eagerly, but its descriptor, annotations directory, and static
// initial values are each single-assignment cells resolved on first
// access.
type Class struct {
	file *File
	def  ClassDef

	descriptor   lazy[string]
	directory    lazy[*AnnotationsDirectory]
	staticValues lazy[*EncodedArray]
	classData    lazy[*ClassData]
}

func newClass(f *File, def ClassDef) *Class {
	return &Class{file: f, def: def}
}

// Def returns the underlying raw record.
func (c *Class) Def() ClassDef { return c.def }

// Descriptor resolves class_idx via the type pool into the string pool.
func (c *Class) Descriptor() (string, error) {
	return c.descriptor.get(func() (string, error) {
		return c.file.TypeDescriptor(c.def.ClassIdx)
	})
}

// Superclass resolves superclass_idx, or ("", false, nil) when it is
// NO_INDEX (a class with no declared superclass, i.e. java.lang.Object
// or an interface).
func (c *Class) Superclass() (string, bool, error) {
	if c.def.SuperclassIdx == NoIndex {
		return "", false, nil
	}
	s, err := c.file.TypeDescriptor(c.def.SuperclassIdx)
	return s, true, err
}

// Interfaces is a lazy sequence over the type-list at interfaces_off;
// empty when interfaces_off == 0.
func (c *Class) Interfaces() Seq[string] {
	if c.def.InterfacesOff == 0 {
		return emptySeq[string]()
	}
	tl, err := parseTypeList(c.file.r, c.def.InterfacesOff)
	if err != nil {
		return newSeq(0, func(int) (string, error) { return "", err })
	}
	return newSeq(len(tl.TypeIdxs), func(i int) (string, error) {
		return c.file.TypeDescriptor(uint32(tl.TypeIdxs[i]))
	})
}

func (c *Class) annotationsDirectory() (*AnnotationsDirectory, error) {
	return c.directory.get(func() (*AnnotationsDirectory, error) {
		return parseAnnotationsDirectory(c.file.r, c.def.AnnotationsOff)
	})
}

// Annotations is a lazy sequence over the class's own annotations
// (not those of its fields/methods/parameters); empty when the
// directory is absent or class_annotations_off == 0.
func (c *Class) Annotations() Seq[*Annotation] {
	dir, err := c.annotationsDirectory()
	if err != nil {
		return newSeq(0, func(int) (*Annotation, error) { return nil, err })
	}
	if dir.ClassAnnotationsOff == 0 {
		return emptySeq[*Annotation]()
	}
	set, err := parseAnnotationSetItem(c.file.r, dir.ClassAnnotationsOff)
	if err != nil {
		return newSeq(0, func(int) (*Annotation, error) { return nil, err })
	}
	return newSeq(len(set.EntryOffsets), func(i int) (*Annotation, error) {
		return parseAnnotation(c.file.r, set.EntryOffsets[i])
	})
}

func (c *Class) classDataItem() (*ClassData, error) {
	if c.def.ClassDataOff == 0 {
		return &ClassData{}, nil
	}
	return c.classData.get(func() (*ClassData, error) {
		return parseClassData(c.file.r, c.def.ClassDataOff)
	})
}

func (c *Class) staticValuesArray() (*EncodedArray, error) {
	return c.staticValues.get(func() (*EncodedArray, error) {
		return parseEncodedArrayItem(c.file.r, c.def.StaticValuesOff)
	})
}

// StaticFields is a lazy sequence over the class-data's static-field
// run. The i-th entry, if one exists in the static-values array,
// becomes that field's InitialValue; fields beyond the array's length
// get no initial value (the runtime default for their type applies).
func (c *Class) StaticFields() Seq[*Field] {
	cd, err := c.classDataItem()
	if err != nil {
		return newSeq(0, func(int) (*Field, error) { return nil, err })
	}
	sv, err := c.staticValuesArray()
	if err != nil {
		return newSeq(0, func(int) (*Field, error) { return nil, err })
	}
	dir, err := c.annotationsDirectory()
	if err != nil {
		return newSeq(0, func(int) (*Field, error) { return nil, err })
	}
	return newSeq(len(cd.StaticFields), func(i int) (*Field, error) {
		ef := cd.StaticFields[i]
		var initial *EncodedValue
		if i < len(sv.Values) {
			v := sv.Values[i]
			initial = &v
		}
		return newField(c.file, ef, initial, fieldAnnotations(dir, ef.FieldIdx)), nil
	})
}

// InstanceFields is a lazy sequence over the class-data's
// instance-field run. Instance fields never have compile-time initial
// values.
func (c *Class) InstanceFields() Seq[*Field] {
	cd, err := c.classDataItem()
	if err != nil {
		return newSeq(0, func(int) (*Field, error) { return nil, err })
	}
	dir, err := c.annotationsDirectory()
	if err != nil {
		return newSeq(0, func(int) (*Field, error) { return nil, err })
	}
	return newSeq(len(cd.InstanceFields), func(i int) (*Field, error) {
		ef := cd.InstanceFields[i]
		return newField(c.file, ef, nil, fieldAnnotations(dir, ef.FieldIdx)), nil
	})
}

// Fields is StaticFields followed by InstanceFields.
func (c *Class) Fields() Seq[*Field] {
	return concatSeq(c.StaticFields(), c.InstanceFields())
}

// DirectMethods is a lazy sequence over the class-data's direct-method
// run (static, private, and constructor methods).
func (c *Class) DirectMethods() Seq[*Method] {
	return c.methodSeq(func(cd *ClassData) []EncodedMethod { return cd.DirectMethods })
}

// VirtualMethods is a lazy sequence over the class-data's
// virtual-method run (overridable instance methods).
func (c *Class) VirtualMethods() Seq[*Method] {
	return c.methodSeq(func(cd *ClassData) []EncodedMethod { return cd.VirtualMethods })
}

// Methods is DirectMethods followed by VirtualMethods.
func (c *Class) Methods() Seq[*Method] {
	return concatSeq(c.DirectMethods(), c.VirtualMethods())
}

func (c *Class) methodSeq(pick func(*ClassData) []EncodedMethod) Seq[*Method] {
	cd, err := c.classDataItem()
	if err != nil {
		return newSeq(0, func(int) (*Method, error) { return nil, err })
	}
	dir, err := c.annotationsDirectory()
	if err != nil {
		return newSeq(0, func(int) (*Method, error) { return nil, err })
	}
	run := pick(cd)
	return newSeq(len(run), func(i int) (*Method, error) {
		return newMethod(c.file, run[i], methodAnnotations(dir, run[i].MethodIdx),
			parameterAnnotations(dir, run[i].MethodIdx))
	})
}

// SourceFile resolves source_file_idx, or ("", false, nil) when it is
// NO_INDEX (supplemented feature: debug provenance of the class).
func (c *Class) SourceFile() (string, bool, error) {
	if c.def.SourceFileIdx == NoIndex {
		return "", false, nil
	}
	s, err := c.file.StringAt(c.def.SourceFileIdx)
	return s, true, err
}

// HiddenAPIFlags resolves this class's hidden-api-class-data entry, if
// the image carries one (supplemented feature, Android-platform-DEX
// only). Returns (nil, nil) when the map list has no hiddenapi section.
func (c *Class) HiddenAPIFlags(memberCount int) (*HiddenAPIClassData, error) {
	mi, ok := c.file.MapList.Get(ItemHiddenAPIClassData)
	if !ok {
		return nil, nil
	}
	return parseHiddenAPIClassData(c.file.r, mi.Offset, memberCount)
}

func fieldAnnotations(dir *AnnotationsDirectory, fieldIdx uint32) uint32 {
	for _, fa := range dir.FieldAnnotations {
		if fa.FieldIdx == fieldIdx {
			return fa.AnnotationsOff
		}
	}
	return 0
}

func methodAnnotations(dir *AnnotationsDirectory, methodIdx uint32) uint32 {
	for _, ma := range dir.MethodAnnotations {
		if ma.MethodIdx == methodIdx {
			return ma.AnnotationsOff
		}
	}
	return 0
}

func parameterAnnotations(dir *AnnotationsDirectory, methodIdx uint32) uint32 {
	for _, pa := range dir.ParameterAnnotations {
		if pa.MethodIdx == methodIdx {
			return pa.AnnotationsOff
		}
	}
	return 0
}

// concatSeq chains two sequences without materializing either.
func concatSeq[T any](a, b Seq[T]) Seq[T] {
	return newSeq(a.Len()+b.Len(), func(i int) (T, error) {
		if i < a.Len() {
			return a.Get(i)
		}
		return b.Get(i - a.Len())
	})
}
