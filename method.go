// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

// signatureAnnotationDescriptor is the well-known descriptor javac
// emits generic-signature metadata under.
const signatureAnnotationDescriptor = "Ldalvik/annotation/Signature;"

// Method is a lazy view over one EncodedMethod. Its MethodID, ProtoID,
// and defining-class descriptor are resolved eagerly (they are always
// needed just to identify the method); its parameters and bytecode
// body stay lazy.
type Method struct {
	file           *File
	raw            EncodedMethod
	annotationsOff uint32
	paramsAnnOff   uint32

	methodID  MethodID
	protoID   ProtoID
	className string
	name      string

	impl lazy[*Implementation]
}

func newMethod(f *File, raw EncodedMethod, annotationsOff, paramsAnnOff uint32) (*Method, error) {
	mid, err := f.MethodAt(raw.MethodIdx)
	if err != nil {
		return nil, err
	}
	proto, err := f.ProtoAt(uint32(mid.ProtoIdx))
	if err != nil {
		return nil, err
	}
	className, err := f.TypeDescriptor(uint32(mid.ClassIdx))
	if err != nil {
		return nil, err
	}
	name, err := f.StringAt(mid.NameIdx)
	if err != nil {
		return nil, err
	}
	return &Method{
		file:           f,
		raw:            raw,
		annotationsOff: annotationsOff,
		paramsAnnOff:   paramsAnnOff,
		methodID:       mid,
		protoID:        proto,
		className:      className,
		name:           name,
	}, nil
}

// Index returns the reconstructed absolute method-pool index.
func (m *Method) Index() uint32 { return m.raw.MethodIdx }

// AccessFlags returns the method's declared access flags.
func (m *Method) AccessFlags() AccessFlags { return m.raw.AccessFlags }

// Name returns the method's name.
func (m *Method) Name() string { return m.name }

// DefiningClass returns the descriptor of the class that declares
// this method.
func (m *Method) DefiningClass() string { return m.className }

// ReturnType resolves the method's return-type descriptor.
func (m *Method) ReturnType() (string, error) {
	return m.file.TypeDescriptor(m.protoID.ReturnTypeIdx)
}

// Shorty resolves the method's shorty descriptor (a compact encoding
// of the parameter/return types, e.g. "VII" for void(int,int)).
func (m *Method) Shorty() (string, error) {
	return m.file.StringAt(m.protoID.ShortyIdx)
}

// Parameter is one formal parameter: its declared type and, when
// present in the method's debug-info, its source name.
type Parameter struct {
	file    *File
	annOff  uint32
	typ     string
	name    string
	hasName bool
}

// Type returns the parameter's declared type descriptor.
func (p *Parameter) Type() string { return p.typ }

// Name returns the parameter's debug-info source name, if the
// debug-info item carried one for this slot.
func (p *Parameter) Name() (string, bool) { return p.name, p.hasName }

// Annotations is a lazy sequence over this parameter's own annotation
// set, resolved from the method's per-parameter annotation-set-ref
// list.
func (p *Parameter) Annotations() Seq[*Annotation] {
	if p.annOff == 0 {
		return emptySeq[*Annotation]()
	}
	set, err := parseAnnotationSetItem(p.file.r, p.annOff)
	if err != nil {
		return newSeq(0, func(int) (*Annotation, error) { return nil, err })
	}
	return newSeq(len(set.EntryOffsets), func(i int) (*Annotation, error) {
		return parseAnnotation(p.file.r, set.EntryOffsets[i])
	})
}

// Signature looks for a Signature annotation on this parameter and
// returns the concatenation of its value array's string elements.
func (p *Parameter) Signature() (string, bool, error) {
	return signatureFromAnnotations(p.file, p.Annotations)
}

// Parameters zips the proto's parameter type-list with the code-item's
// debug-info parameter names (when a body exists). Names are absent
// element-wise when the debug-info item is missing, shorter than the
// parameter list, or the method has no code (abstract/native).
func (m *Method) Parameters() (Seq[*Parameter], error) {
	var types []uint16
	if m.protoID.ParametersOff != 0 {
		tl, err := parseTypeList(m.file.r, m.protoID.ParametersOff)
		if err != nil {
			return Seq[*Parameter]{}, err
		}
		types = tl.TypeIdxs
	}

	var names []ParamNameIdx
	if m.raw.CodeOff != 0 {
		ci, err := parseCodeItem(m.file.r, m.raw.CodeOff)
		if err != nil {
			return Seq[*Parameter]{}, err
		}
		if ci.DebugInfoOff != 0 {
			di, err := parseDebugInfo(m.file.r, ci.DebugInfoOff)
			if err != nil {
				return Seq[*Parameter]{}, err
			}
			names = di.ParameterNames
		}
	}

	var annOffs []uint32
	if m.paramsAnnOff != 0 {
		refs, err := parseAnnotationSetRefList(m.file.r, m.paramsAnnOff)
		if err != nil {
			return Seq[*Parameter]{}, err
		}
		annOffs = refs.EntryOffsets
	}

	return newSeq(len(types), func(i int) (*Parameter, error) {
		typ, err := m.file.TypeDescriptor(uint32(types[i]))
		if err != nil {
			return nil, err
		}
		p := &Parameter{file: m.file, typ: typ}
		if i < len(annOffs) {
			p.annOff = annOffs[i]
		}
		if i < len(names) && names[i].Present {
			nm, err := m.file.StringAt(names[i].Idx)
			if err != nil {
				return nil, err
			}
			p.name, p.hasName = nm, true
		}
		return p, nil
	}), nil
}

// Implementation is a method's bytecode body.
type Implementation struct {
	Code *CodeItem
}

// TryBlocks is a convenience view resolving each TryItem's handler
// list entry together, so callers don't separately dereference
// HandlerOff (supplemented feature; the distilled spec exposes Tries
// and Handlers but leaves pairing them to the caller).
func (impl *Implementation) TryBlocks() ([]ResolvedTryBlock, error) {
	blocks := make([]ResolvedTryBlock, 0, len(impl.Code.Tries))
	for _, t := range impl.Code.Tries {
		h, err := impl.Code.Handlers.find(t.HandlerOff)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, ResolvedTryBlock{Try: t, Handler: *h})
	}
	return blocks, nil
}

// ResolvedTryBlock pairs a TryItem with its already-dereferenced
// handler list entry.
type ResolvedTryBlock struct {
	Try     TryItem
	Handler rawCatchHandler
}

// Implementation lazily decodes the code-item at code_off. A method
// with code_off == 0 (abstract or native) has none: (nil, false, nil).
func (m *Method) Implementation() (*Implementation, bool, error) {
	if m.raw.CodeOff == 0 {
		return nil, false, nil
	}
	impl, err := m.impl.get(func() (*Implementation, error) {
		ci, err := parseCodeItem(m.file.r, m.raw.CodeOff)
		if err != nil {
			return nil, err
		}
		return &Implementation{Code: ci}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return impl, true, nil
}

// Annotations is a lazy sequence over this method's annotation set.
func (m *Method) Annotations() Seq[*Annotation] {
	if m.annotationsOff == 0 {
		return emptySeq[*Annotation]()
	}
	set, err := parseAnnotationSetItem(m.file.r, m.annotationsOff)
	if err != nil {
		return newSeq(0, func(int) (*Annotation, error) { return nil, err })
	}
	return newSeq(len(set.EntryOffsets), func(i int) (*Annotation, error) {
		return parseAnnotation(m.file.r, set.EntryOffsets[i])
	})
}

// Signature looks for a Signature annotation on this method and
// returns the concatenation of its value array's string elements.
func (m *Method) Signature() (string, bool, error) {
	return signatureFromAnnotations(m.file, m.Annotations)
}

func signatureFromAnnotations(file *File, seq func() Seq[*Annotation]) (string, bool, error) {
	annotations := seq()
	for i := 0; i < annotations.Len(); i++ {
		a, err := annotations.Get(i)
		if err != nil {
			return "", false, err
		}
		descriptor, err := file.TypeDescriptor(a.Value.TypeIdx)
		if err != nil {
			return "", false, err
		}
		if descriptor != signatureAnnotationDescriptor {
			continue
		}
		var out string
		for _, el := range a.Value.Elements {
			if el.Value.Type == ValueString {
				s, err := file.StringAt(uint32(el.Value.UInt))
				if err != nil {
					return "", false, err
				}
				out += s
			}
		}
		return out, true, nil
	}
	return "", false, nil
}
