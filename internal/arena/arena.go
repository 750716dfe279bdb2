// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package arena

import "unsafe"

// Arena is a single-shot bump allocator: every allocation lives until
// Destroy releases the whole arena as a unit (spec.md §3 "Lifecycle" and
// §9 "Arenas vs per-value free"). One Arena is owned by exactly one
// goroutine at a time — it carries no internal locking.
type Arena struct {
	pool  *Pool
	slabs [][]byte // every slab ever drawn, returned to pool on Destroy
	cur   []byte   // current slab, growing from the front
	used  int      // bytes used in cur
	slab  int      // preferred slab size for the next Get
}

// New creates an arena drawing slabs from pool (spec's create operation,
// specialised to a single arena rather than the pool itself — Pool is the
// shared "create(a,b,c,d)" collaborator, New is what a single request or
// connection calls to get its own bump region).
func New(pool *Pool) *Arena {
	if pool == nil {
		pool = DefaultPool
	}
	return &Arena{pool: pool, slab: pool.pageSize}
}

func alignUp(n int) int { return (n + alignMask) &^ alignMask }

// Get returns size bytes with no zeroing guarantee, or nil if size is
// negative (the only failure mode of a bump allocator backed by the Go
// runtime — unlike the C arena this never fails for memory-exhaustion
// reasons the caller can observe, but Zget/Align/Get keep the null-return
// contract for API parity with spec.md §6).
func (a *Arena) Get(size int) []byte {
	if size < 0 {
		return nil
	}
	if size == 0 {
		return a.cur[a.used:a.used]
	}
	if a.used+size > len(a.cur) {
		a.grow(size)
	}
	p := a.cur[a.used : a.used+size : a.used+size]
	a.used += size
	return p
}

// Align returns size bytes at an 8-byte aligned offset within the current
// slab, used for the contiguous inline slot arrays backing arrays and
// objects (spec.md §3 "arrays and objects are sized exactly at
// construction").
func (a *Arena) Align(size int) []byte {
	if size < 0 {
		return nil
	}
	aligned := alignUp(a.used)
	if aligned > len(a.cur) || aligned+size > len(a.cur) {
		a.grow(size + alignMask)
		aligned = alignUp(a.used)
	}
	p := a.cur[aligned : aligned+size : aligned+size]
	a.used = aligned + size
	return p
}

// Zget is Get with the returned bytes explicitly zeroed. Reused slab
// memory is not zero on reuse (unlike a fresh make()), so this must clear
// explicitly rather than relying on Go's zero-on-allocate guarantee.
func (a *Arena) Zget(size int) []byte {
	p := a.Get(size)
	for i := range p {
		p[i] = 0
	}
	return p
}

// Free is a no-op: bump pools never free individual allocations
// (spec.md §6).
func (a *Arena) Free(p []byte) {}

func (a *Arena) grow(need int) {
	size := a.slab
	for size < need {
		size *= 2
	}
	a.slabs = append(a.slabs, a.cur[:a.used])
	a.cur = a.pool.getSlab(size)
	a.used = 0
}

// Destroy releases every slab this arena drew back to the shared Pool.
// Any Value/Op referencing bytes from this arena becomes invalid the
// instant Destroy returns — callers must not retain pointers past this
// call (spec.md §3 "lives until the arena is destroyed").
func (a *Arena) Destroy() {
	for _, s := range a.slabs {
		a.pool.putSlab(s)
	}
	if a.cur != nil {
		a.pool.putSlab(a.cur)
	}
	a.slabs = nil
	a.cur = nil
	a.used = 0
}

// Alloc bump-allocates a slice of n zeroed T values out of a, aligned per
// alignUp. This is how the value tree gets its contiguous inline array
// and object member slots (spec.md §3 "arrays ... count + contiguous
// inline value slots") without a second, type-erased allocator: the
// bytes still come from the same slabs Get/Align hand out, so a single
// Destroy releases both the raw byte allocations (strings, parse
// scratch space) and the typed slot arrays together.
func Alloc[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	buf := a.Align(size * n)
	if buf == nil {
		return nil
	}
	s := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n)
	var z T
	for i := range s {
		s[i] = z
	}
	return s
}

// Used reports bytes handed out by Get/Align/Zget across all slabs since
// creation (or since the last Destroy), including Align's padding.
func (a *Arena) Used() int {
	total := a.used
	for _, s := range a.slabs {
		total += len(s)
	}
	return total
}
