// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package value implements the JSON value tree of spec.md §3 "Value
// tree": a tagged sum type with a short-string optimization, built and
// read entirely against an arena.Arena.
//
// Grounded on _examples/original_source/src/nxt_conf_json.c
// (nxt_conf_json_value_t's tagged union) and hexinfra/gorox's
// hemi/libraries/config/value.go (a Kind/Data pair serving the same
// role, though gorox's variant boxes into `any` — this one stays
// allocation-free per value, which is the point of the exercise).
package value

import "github.com/hexstack/vconf/internal/arena"

// Kind is the active variant of a Value (spec.md §3).
type Kind uint8

const (
	Null Kind = iota
	Bool
	Integer
	Number // reserved, never produced by Parse (spec.md §4.1 "Numbers")
	ShortString
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case ShortString, String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// shortStringMax is the inline capacity of the short-string variant
// (spec.md §3 "short-string (inline, up to 14 bytes ...)").
const shortStringMax = 14

// Member is one (name, value) pair of an Object. name is always a
// ShortString or String Value (spec.md §3 invariant ii).
type Member struct {
	Name  Value
	Value Value
}

// Value is the tagged sum type. Only the field(s) matching kind are
// meaningful; this mirrors the original's union but as a flat struct,
// which is the idiomatic Go rendition (a real union would need unsafe
// and buys nothing here — Value is small and copied by value throughout
// this package, exactly like the C nxt_conf_json_value_t is copied by
// value in nxt_conf_json_copy_value).
type Value struct {
	kind Kind

	boolean bool
	integer int64

	shortLen uint8
	shortBuf [shortStringMax]byte
	heapStr  string
	elems    []Value
	members  []Member
}

// NullValue, BoolValue and IntValue are convenience zero-allocation
// constructors.
func NullValue() Value       { return Value{kind: Null} }
func BoolValue(b bool) Value { return Value{kind: Bool, boolean: b} }
func IntValue(i int64) Value { return Value{kind: Integer, integer: i} }

// StringValue builds a String/ShortString Value out of s, choosing the
// inline representation when it fits (spec.md §8 property 5).
func StringValue(s string) Value {
	if len(s) <= shortStringMax {
		v := Value{kind: ShortString, shortLen: uint8(len(s))}
		copy(v.shortBuf[:], s)
		return v
	}
	return Value{kind: String, heapStr: s}
}

// NewArray allocates an Array value of exactly n elements out of a
// (spec.md §3 invariant iv: "arrays ... are sized exactly at
// construction").
func NewArray(a *arena.Arena, n int) Value {
	return Value{kind: Array, elems: arena.Alloc[Value](a, n)}
}

// NewObject allocates an Object value of exactly n members out of a.
func NewObject(a *arena.Arena, n int) Value {
	return Value{kind: Object, members: arena.Alloc[Member](a, n)}
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNull() bool   { return v.kind == Null }
func (v *Value) IsBool() bool   { return v.kind == Bool }
func (v *Value) IsInt() bool    { return v.kind == Integer }
func (v *Value) IsString() bool { return v.kind == ShortString || v.kind == String }
func (v *Value) IsArray() bool  { return v.kind == Array }
func (v *Value) IsObject() bool { return v.kind == Object }

func (v *Value) Bool() bool { return v.boolean }
func (v *Value) Int() int64 { return v.integer }

// Str returns the decoded string for either string variant.
func (v *Value) Str() string {
	if v.kind == ShortString {
		return string(v.shortBuf[:v.shortLen])
	}
	return v.heapStr
}

// StrEqual compares against b without allocating a string for the
// short-string case (used by MemberIndex, and so by the path walker and
// the patch compiler — spec.md §4.2 "byte-exact" comparison).
func (v *Value) StrEqual(b []byte) bool {
	if v.kind == ShortString {
		return len(b) == int(v.shortLen) && string(v.shortBuf[:v.shortLen]) == string(b)
	}
	return v.heapStr == string(b)
}

// Elems returns the array's element slots in order. The returned slice
// aliases the value tree; callers must not resize it (count is
// immutable per spec.md §3 invariant iv).
func (v *Value) Elems() []Value { return v.elems }

// Members returns the object's member slots in insertion order.
func (v *Value) Members() []Member { return v.members }

// Len returns element/member count for Array/Object, 0 otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.elems)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// MemberIndex returns the index of the member named name, and whether it
// was found. Carried from the original's nxt_conf_json_object_get_member
// out-parameter (§ SPEC_FULL.md "Supplemented features").
func (v *Value) MemberIndex(name []byte) (int, bool) {
	if v.kind != Object {
		return 0, false
	}
	for i := range v.members {
		if v.members[i].Name.StrEqual(name) {
			return i, true
		}
	}
	return 0, false
}

// Member looks up a member by name directly.
func (v *Value) Member(name []byte) (*Value, bool) {
	if i, ok := v.MemberIndex(name); ok {
		return &v.members[i].Value, true
	}
	return nil, false
}

// MemberAt returns a pointer to the value of the i'th member, for
// callers (the patch compiler) that already resolved the index via
// MemberIndex and need to descend into it.
func (v *Value) MemberAt(i int) *Value { return &v.members[i].Value }

// NewArenaString builds a String/ShortString Value for s, deep-copying
// into arena a when s doesn't fit inline. Used by the patch compiler to
// build a CREATE op's new member name (spec.md §4.3 "allocate a member
// record with the new name (short- or heap-string per length ≤ 14)").
func NewArenaString(a *arena.Arena, s string) Value {
	if len(s) <= shortStringMax {
		return StringValue(s)
	}
	buf := a.Get(len(s))
	copy(buf, s)
	return Value{kind: String, heapStr: unsafeString(buf)}
}
