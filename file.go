// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import (
	"context"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/saferwall/dex/internal/tracing"
	"github.com/saferwall/dex/log"
)

// DefaultMaxClassDataMembers is the value Options.MaxClassDataMembers
// takes when left zero. The class-data decoder does not consult it, so
// no member-count cap is enforced.
const DefaultMaxClassDataMembers = 1 << 20

// Options configures how a File is opened and parsed.
type Options struct {
	// Fast parses only the header, map list, and ID pools, skipping
	// the walk that reads every class_def record. By default (false),
	// Parse reads each ClassDef and records unreadable ones in
	// Anomalies. Class-data, code, debug-info and annotations are not
	// decoded by Parse in either mode; they stay lazy.
	Fast bool

	// SkipChecksum disables the Adler-32 integrity check, by default
	// (false). Useful when re-parsing output already produced by this
	// module's own writer.
	SkipChecksum bool

	// MaxClassDataMembers is stored with the options, by default
	// DefaultMaxClassDataMembers; the class-data decoder does not
	// consult it.
	MaxClassDataMembers uint32

	// Logger receives non-fatal parse diagnostics. Defaults to a
	// stderr logger filtered to LevelError.
	Logger log.Logger

	// TracerProvider, if set, wraps each Parse phase (header, map
	// list, ID pools, class-def walk) in a span. Defaults to the
	// global no-op tracer, so tracing is off unless a caller installs
	// a provider.
	TracerProvider trace.TracerProvider
}

// File is an open, parsed DEX image: the header, map list, and every
// fixed-stride ID pool, plus the lazy accessors the object model is
// built from.
type File struct {
	Header    *Header
	MapList   *MapList
	Anomalies []string

	strings *stringEngine
	types   *section
	protos  *section
	fields  *section
	methods *section
	classes *section

	callSites     *section
	methodHandles *section

	r      *reader
	data   mmap.MMap
	f      *os.File
	opts   *Options
	logger *log.Helper
	tracer trace.Tracer
}

// Open memory-maps the named file and wraps it in a File. Callers
// must call Close when done.
func Open(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file, err := newFile(data, opts)
	if err != nil {
		_ = data.Unmap()
		f.Close()
		return nil, err
	}
	file.data = data
	file.f = f
	return file, nil
}

// OpenBytes wraps an in-memory buffer in a File. Close is a no-op for
// files opened this way (there is no descriptor or mapping to release).
func OpenBytes(data []byte, opts *Options) (*File, error) {
	return newFile(data, opts)
}

func newFile(data []byte, opts *Options) (*File, error) {
	if opts == nil {
		opts = &Options{}
	}
	if opts.MaxClassDataMembers == 0 {
		opts.MaxClassDataMembers = DefaultMaxClassDataMembers
	}

	var logger log.Logger
	if opts.Logger == nil {
		logger = log.NewStdLogger(os.Stderr)
		logger = log.NewFilter(logger, log.FilterLevel(log.LevelError))
	} else {
		logger = opts.Logger
	}

	file := &File{
		opts:   opts,
		logger: log.NewHelper(logger),
		tracer: tracing.TracerFor(opts.TracerProvider),
		r:      newReader(data),
	}
	return file, nil
}

// Close releases the underlying mapping and descriptor, if any.
func (f *File) Close() error {
	if f.data != nil {
		_ = f.data.Unmap()
	}
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

// Parse decodes the header, map list, and the six fixed-stride ID
// pools. Pool records are validated structurally (bounds, sentinel
// handling) but member-level payloads (class-data, code, annotations)
// stay lazy, resolved only when the object model dereferences them.
// It is equivalent to ParseContext(context.Background()).
func (f *File) Parse() error {
	return f.ParseContext(context.Background())
}

// ParseContext is Parse, with each phase (header, map list, ID pools,
// class-def validation walk) wrapped in a span under ctx when a
// TracerProvider was configured.
func (f *File) ParseContext(ctx context.Context) error {
	hctx, hspan := tracing.StartPhase(ctx, f.tracer, "header")
	h, err := parseHeader(f.r, f.opts)
	hspan.End()
	if err != nil {
		return err
	}
	f.Header = h

	_, mspan := tracing.StartPhase(hctx, f.tracer, "map-list")
	ml, err := parseMapList(f.r, h.MapOff)
	mspan.End()
	if err != nil {
		return err
	}
	f.MapList = ml

	_, pspan := tracing.StartPhase(hctx, f.tracer, "id-pools")
	f.strings = newStringEngine(f.r, h)
	f.types = newSection(f.r, "type_ids", h.TypeIDsOff, h.TypeIDsSize, TypeIDStride)
	f.protos = newSection(f.r, "proto_ids", h.ProtoIDsOff, h.ProtoIDsSize, ProtoIDStride)
	f.fields = newSection(f.r, "field_ids", h.FieldIDsOff, h.FieldIDsSize, FieldIDStride)
	f.methods = newSection(f.r, "method_ids", h.MethodIDsOff, h.MethodIDsSize, MethodIDStride)
	f.classes = newSection(f.r, "class_defs", h.ClassDefsOff, h.ClassDefsSize, ClassDefStride)

	if mi, ok := ml.Get(ItemCallSiteID); ok {
		f.callSites = newSection(f.r, "call_site_ids", mi.Offset, mi.Size, CallSiteIDStride)
	}
	if mi, ok := ml.Get(ItemMethodHandle); ok {
		f.methodHandles = newSection(f.r, "method_handles", mi.Offset, mi.Size, MethodHandleStride)
	}
	// The class_defs entry is redundant with the header's
	// ClassDefsOff/ClassDefsSize fields; a mismatch between the two
	// means the image disagrees with itself about where classes live.
	if mi, ok := ml.Get(ItemClassDef); ok {
		if mi.Offset != h.ClassDefsOff || mi.Size != h.ClassDefsSize {
			pspan.End()
			return &ClassError{Kind: InvalidMapList, ItemType: uint16(ItemClassDef)}
		}
	}
	pspan.End()

	if f.opts.Fast {
		return nil
	}

	_, cspan := tracing.StartPhase(hctx, f.tracer, "class-defs")
	defer cspan.End()
	for i := uint32(0); i < f.classes.len(); i++ {
		if _, err := readClassDef(f.r, f.classes.recordOffset(i)); err != nil {
			f.logger.Warnf("class_def %d: %v", i, err)
			f.Anomalies = append(f.Anomalies, "malformed class_def")
		}
	}

	return nil
}

// StringAt resolves the i-th string-pool entry.
func (f *File) StringAt(i uint32) (string, error) {
	id, err := f.strings.IDAt(i)
	if err != nil {
		return "", err
	}
	return f.strings.Get(id)
}

// TypeDescriptor resolves type-pool index i to its descriptor string.
func (f *File) TypeDescriptor(i uint32) (string, error) {
	id, err := f.strings.IDAtTypeIdx(f.types, i)
	if err != nil {
		return "", err
	}
	return f.strings.Get(id)
}

// FindString binary-searches the string pool by content.
func (f *File) FindString(s string) (uint32, error) {
	idx, _, err := f.strings.Find(s)
	return idx, err
}

// ProtoAt resolves the i-th proto-pool entry.
func (f *File) ProtoAt(i uint32) (ProtoID, error) {
	if i >= f.protos.len() {
		return ProtoID{}, &SectionError{Kind: BadSection, Name: "proto_ids", Offset: uint64(i)}
	}
	return readProtoID(f.r, f.protos.recordOffset(i))
}

// FieldAt resolves the i-th field-pool entry.
func (f *File) FieldAt(i uint32) (FieldID, error) {
	if i >= f.fields.len() {
		return FieldID{}, &SectionError{Kind: BadSection, Name: "field_ids", Offset: uint64(i)}
	}
	return readFieldID(f.r, f.fields.recordOffset(i))
}

// MethodAt resolves the i-th method-pool entry.
func (f *File) MethodAt(i uint32) (MethodID, error) {
	if i >= f.methods.len() {
		return MethodID{}, &SectionError{Kind: BadSection, Name: "method_ids", Offset: uint64(i)}
	}
	return readMethodID(f.r, f.methods.recordOffset(i))
}

// CallSiteAt resolves the i-th call-site-pool entry into its decoded
// bootstrap arguments.
func (f *File) CallSiteAt(i uint32) (*CallSite, error) {
	if f.callSites == nil || i >= f.callSites.len() {
		return nil, &SectionError{Kind: BadSection, Name: "call_site_ids", Offset: uint64(i)}
	}
	id, err := readCallSiteID(f.r, f.callSites.recordOffset(i))
	if err != nil {
		return nil, err
	}
	return resolveCallSite(f.r, id)
}

// MethodHandleAt resolves the i-th method-handle-pool entry.
func (f *File) MethodHandleAt(i uint32) (*MethodHandle, error) {
	if f.methodHandles == nil || i >= f.methodHandles.len() {
		return nil, &SectionError{Kind: BadSection, Name: "method_handles", Offset: uint64(i)}
	}
	return readMethodHandle(f.r, f.methodHandles.recordOffset(i))
}

// ClassAt resolves the i-th class-def-pool entry.
func (f *File) ClassAt(i uint32) (*Class, error) {
	if i >= f.classes.len() {
		return nil, &ClassError{Kind: ClassIndexOutOfBounds, Index: i, Size: f.classes.len()}
	}
	def, err := readClassDef(f.r, f.classes.recordOffset(i))
	if err != nil {
		return nil, err
	}
	return newClass(f, def), nil
}

// Classes returns a lazy sequence over the class-def pool.
func (f *File) Classes() Seq[*Class] {
	return newSeq(int(f.classes.len()), func(i int) (*Class, error) {
		return f.ClassAt(uint32(i))
	})
}

// ClassByDescriptor linearly scans the class-def pool for a class
// whose descriptor matches d. Returns (nil, nil) on a clean miss.
func (f *File) ClassByDescriptor(d string) (*Class, error) {
	idx, _, err := f.strings.Find(d)
	if err != nil {
		if se, ok := err.(*StringError); ok && se.Kind == StringNotFound {
			return nil, nil
		}
		return nil, err
	}
	for i := uint32(0); i < f.classes.len(); i++ {
		def, err := readClassDef(f.r, f.classes.recordOffset(i))
		if err != nil {
			return nil, err
		}
		tid, err := readTypeID(f.r, f.types.recordOffset(def.ClassIdx))
		if err != nil {
			return nil, err
		}
		if tid.DescriptorIdx == idx {
			return newClass(f, def), nil
		}
	}
	return nil, nil
}
