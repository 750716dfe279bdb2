// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package value

import (
	"testing"

	"github.com/hexstack/vconf/internal/arena"
)

func TestStringValueShortLongBoundary(t *testing.T) {
	short := StringValue("exactly14char.") // 14 bytes
	if short.Kind() != ShortString {
		t.Fatalf("14-byte string got kind %v, want ShortString", short.Kind())
	}
	if short.Str() != "exactly14char." {
		t.Errorf("Str() = %q", short.Str())
	}

	long := StringValue("exactly15chars.")
	if long.Kind() != String {
		t.Fatalf("15-byte string got kind %v, want String", long.Kind())
	}
}

func TestStrEqualNoAlloc(t *testing.T) {
	v := StringValue("hello")
	if !v.StrEqual([]byte("hello")) {
		t.Error("StrEqual should match identical bytes")
	}
	if v.StrEqual([]byte("world")) {
		t.Error("StrEqual should not match different bytes")
	}
	hello := []byte("hello")
	if n := testing.AllocsPerRun(100, func() { v.StrEqual(hello) }); n != 0 {
		t.Errorf("StrEqual allocated %v times per call, want 0", n)
	}
	long := StringValue("this is a heap-resident string over 14 bytes")
	if !long.StrEqual([]byte("this is a heap-resident string over 14 bytes")) {
		t.Error("StrEqual should match heap string contents")
	}
}

func TestNewArrayAndObjectSizedExactly(t *testing.T) {
	a := arena.New(arena.DefaultPool)
	arr := NewArray(a, 3)
	if arr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", arr.Len())
	}
	obj := NewObject(a, 2)
	if obj.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", obj.Len())
	}
}

func TestMemberIndexAndMember(t *testing.T) {
	a := arena.New(arena.DefaultPool)
	obj := NewObject(a, 2)
	members := obj.Members()
	members[0] = Member{Name: StringValue("a"), Value: IntValue(1)}
	members[1] = Member{Name: StringValue("b"), Value: IntValue(2)}

	idx, ok := obj.MemberIndex([]byte("b"))
	if !ok || idx != 1 {
		t.Fatalf("MemberIndex(b) = (%d, %v), want (1, true)", idx, ok)
	}
	v, ok := obj.Member([]byte("a"))
	if !ok || v.Int() != 1 {
		t.Fatalf("Member(a) = (%v, %v), want (1, true)", v, ok)
	}
	if _, ok := obj.MemberIndex([]byte("missing")); ok {
		t.Error("MemberIndex(missing) should fail")
	}
}
