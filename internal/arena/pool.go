// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package arena implements the bump/slab allocator consumed by the value
// tree and HTTP/1 cores (spec.md §6 "Arena (consumed interface)").
//
// The pooling mechanism below the bump allocator is lifted from gorox's
// hemi/internal/common.go: fixed-size chunks are recycled through a small
// number of sync.Pool buckets instead of being handed back to the
// garbage collector on every request/connection.
package arena

import "sync"

const (
	slabSmall  = 4 << 10  // 4K, mirrors gorox's pool4K
	slabLarge  = 16 << 10 // 16K, mirrors gorox's pool16K
	slabHuge   = 64 << 10 // 64K, added for large JSON documents
	alignShift = 3        // 8-byte alignment for value/member arrays
	alignMask  = 1<<alignShift - 1
)

// Pool is the process-wide slab source. It is safe for concurrent use by
// many Arenas on many goroutines; only the Arena built on top of one Pool
// call is single-goroutine, matching spec.md §5 ("Arenas are never shared
// across threads").
type Pool struct {
	small sync.Pool
	large sync.Pool
	huge  sync.Pool

	minChunk int
	maxChunk int
	avgChunk int
	pageSize int
}

// NewPool mirrors the shape of the arena's consumed create(a,b,c,d)
// operation (spec.md §6): pageSize is the slab size an Arena requests
// first; getSlab rounds every request up to its 4K, 16K or 64K bucket, so
// no pooled slab is smaller than 4K. minChunk/maxChunk/avgChunk are
// stored but not consulted.
func NewPool(pageSize, minChunk, maxChunk, avgChunk int) *Pool {
	if pageSize <= 0 {
		pageSize = slabSmall
	}
	return &Pool{
		minChunk: minChunk,
		maxChunk: maxChunk,
		avgChunk: avgChunk,
		pageSize: pageSize,
	}
}

// DefaultPool is a ready-to-use pool sized for JSON config documents and
// HTTP header buffers alike.
var DefaultPool = NewPool(slabSmall, 16, slabHuge, 256)

func (p *Pool) getSlab(size int) []byte {
	switch {
	case size <= slabSmall:
		if b, ok := p.small.Get().([]byte); ok {
			return b
		}
		return make([]byte, slabSmall)
	case size <= slabLarge:
		if b, ok := p.large.Get().([]byte); ok {
			return b
		}
		return make([]byte, slabLarge)
	case size <= slabHuge:
		if b, ok := p.huge.Get().([]byte); ok {
			return b
		}
		return make([]byte, slabHuge)
	default:
		// Oversized slab: never pooled, released to the GC on Destroy.
		return make([]byte, size)
	}
}

func (p *Pool) putSlab(b []byte) {
	switch cap(b) {
	case slabSmall:
		p.small.Put(b[:slabSmall])
	case slabLarge:
		p.large.Put(b[:slabLarge])
	case slabHuge:
		p.huge.Put(b[:slabHuge])
	default:
		// oversized, let the GC reclaim it
	}
}
