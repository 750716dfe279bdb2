// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package buffer implements the singly linked buffer chain used to hold
// HTTP/1 header data (spec.md §3 "a list of header buffers
// (buffers, singly linked; at most N ...)").
//
// Grounded on hexinfra/gorox's hemi/internal/common.go Piece type: a
// pooled node carrying either inline text or (in gorox) a file handle. We
// drop the file-content variant — this core only ever frames buffers of
// bytes read from or destined for a socket.
package buffer

import "sync"

// Buf is one node of a connection's buffer chain.
type Buf struct {
	next *Buf
	data []byte
	size int // logical length in use, <= cap(data)
}

func (b *Buf) Data() []byte  { return b.data[:b.size] }
func (b *Buf) Cap() int      { return cap(b.data) }
func (b *Buf) Len() int      { return b.size }
func (b *Buf) SetLen(n int)  { b.size = n }
func (b *Buf) Next() *Buf    { return b.next }
func (b *Buf) Bytes() []byte { return b.data }

var pool sync.Pool

// Get returns a *Buf with a backing array of at least size bytes, reused
// from the pool when possible (mirrors gorox's GetPiece/poolPiece).
func Get(size int) *Buf {
	if x := pool.Get(); x != nil {
		buf := x.(*Buf)
		if cap(buf.data) >= size {
			buf.data = buf.data[:size]
			buf.size = 0
			buf.next = nil
			return buf
		}
		// Too small for this request, drop it and allocate fresh below.
	}
	return &Buf{data: make([]byte, size)}
}

// Put returns buf to the pool. Callers must not touch buf afterwards.
func Put(buf *Buf) {
	buf.next = nil
	buf.size = 0
	pool.Put(buf)
}

// Chain is a connection's list of overflow header buffers (spec.md §3,
// §4.6 "Header growth"). The zero value is an empty chain.
type Chain struct {
	head *Buf
	tail *Buf
	n    int
}

// Append links buf onto the end of the chain, taking ownership of it.
func (c *Chain) Append(buf *Buf) {
	if c.head == nil {
		c.head, c.tail = buf, buf
	} else {
		c.tail.next = buf
		c.tail = buf
	}
	c.n++
}

// Len reports the number of buffers currently linked. readHeaderBlock
// enforces the large_header_buffers cap with its own counter, not Len.
func (c *Chain) Len() int { return c.n }

// Head returns the first buffer in the chain, or nil if empty.
func (c *Chain) Head() *Buf { return c.head }

// TotalLen reports the combined logical length of every buffer linked
// into the chain (mirrors gorox's Chain.Size()).
func (c *Chain) TotalLen() int {
	n := 0
	for b := c.head; b != nil; b = b.next {
		n += b.Len()
	}
	return n
}

// Flatten concatenates every buffer's data into one contiguous slice.
// Callers materialize a chain only once they need contiguous bytes
// (e.g. handing a header block to a parser); until then the chain
// holds the bytes without a second copy.
func (c *Chain) Flatten() []byte {
	out := make([]byte, 0, c.TotalLen())
	for b := c.head; b != nil; b = b.next {
		out = append(out, b.Data()...)
	}
	return out
}

// Release returns every buffer in the chain to the pool and empties it.
func (c *Chain) Release() {
	for b := c.head; b != nil; {
		next := b.next
		Put(b)
		b = next
	}
	c.head, c.tail, c.n = nil, nil, 0
}
