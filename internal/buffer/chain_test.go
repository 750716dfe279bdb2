// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package buffer

import "testing"

func TestGetReturnsRequestedCapacity(t *testing.T) {
	b := Get(64)
	if len(b.Bytes()) != 64 {
		t.Fatalf("len(Bytes()) = %d, want 64", len(b.Bytes()))
	}
	Put(b)
}

func TestPutThenGetReusesBackingArray(t *testing.T) {
	b := Get(128)
	backing := &b.Bytes()[0]
	Put(b)

	reused := Get(64)
	if &reused.Bytes()[0] != backing {
		t.Skip("pool reuse is best-effort under sync.Pool; not guaranteed across GC")
	}
}

func TestBufDataReflectsSetLen(t *testing.T) {
	b := Get(16)
	copy(b.Bytes(), []byte("hello"))
	b.SetLen(5)
	if got := string(b.Data()); got != "hello" {
		t.Errorf("Data() = %q, want \"hello\"", got)
	}
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}
	Put(b)
}

func TestChainAppendAndLen(t *testing.T) {
	var c Chain
	if c.Len() != 0 {
		t.Fatalf("empty chain Len() = %d, want 0", c.Len())
	}
	a := Get(8)
	a.SetLen(8)
	c.Append(a)
	b := Get(8)
	b.SetLen(4)
	c.Append(b)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if c.Head() != a || c.Head().Next() != b {
		t.Error("chain links are not in append order")
	}
	c.Release()
	if c.Len() != 0 || c.Head() != nil {
		t.Error("Release did not empty the chain")
	}
}

func TestChainReleaseOnEmptyChainIsSafe(t *testing.T) {
	var c Chain
	c.Release() // must not panic
}
