// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dex

import "strings"

// AccessFlags is the access-flags bitmask shared by classes, fields,
// and methods, per original_source/src/raw/flags.rs. It follows the
// teacher's bitmask-with-Stringer convention (see
// ImageFileCharacteristics in the PE ancestor of this package).
type AccessFlags uint32

const (
	AccPublic               AccessFlags = 0x1
	AccPrivate              AccessFlags = 0x2
	AccProtected            AccessFlags = 0x4
	AccStatic               AccessFlags = 0x8
	AccFinal                AccessFlags = 0x10
	AccSynchronized         AccessFlags = 0x20
	AccVolatile             AccessFlags = 0x40
	AccBridge               AccessFlags = 0x40
	AccTransient            AccessFlags = 0x80
	AccVarargs              AccessFlags = 0x80
	AccNative               AccessFlags = 0x100
	AccInterface            AccessFlags = 0x200
	AccAbstract             AccessFlags = 0x400
	AccStrict               AccessFlags = 0x800
	AccSynthetic            AccessFlags = 0x1000
	AccAnnotation           AccessFlags = 0x2000
	AccEnum                 AccessFlags = 0x4000
	AccConstructor          AccessFlags = 0x10000
	AccDeclaredSynchronized AccessFlags = 0x20000
)

var accessFlagNames = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccVolatile, "volatile"},
	{AccTransient, "transient"},
	{AccNative, "native"},
	{AccInterface, "interface"},
	{AccAbstract, "abstract"},
	{AccStrict, "strictfp"},
	{AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"},
	{AccEnum, "enum"},
	{AccConstructor, "constructor"},
	{AccDeclaredSynchronized, "declared-synchronized"},
}

// String renders the flags as a space-separated list of Java keywords,
// in declaration order. Bridge/Volatile and Varargs/Transient alias
// the same bit; which keyword is meant depends on the member kind
// (field vs method), so this generic Stringer prints the field-ish
// names ("volatile", "transient") and leaves the method-specific alias ("bridge",
// "varargs") to callers that know the member kind.
func (f AccessFlags) String() string {
	var parts []string
	for _, e := range accessFlagNames {
		if f&e.flag != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}

func (f AccessFlags) Has(bit AccessFlags) bool { return f&bit != 0 }

func readAccessFlags(r *reader, cursor *uint32) (AccessFlags, error) {
	v, err := r.uleb(cursor)
	if err != nil {
		return 0, err
	}
	return AccessFlags(v), nil
}
