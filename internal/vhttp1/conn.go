// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vhttp1

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexstack/vconf/internal/buffer"
	"github.com/hexstack/vconf/internal/metrics"
	"github.com/hexstack/vconf/internal/vhttp1/status"
	"github.com/hexstack/vconf/internal/vlog"
)

// Conn drives one accepted TCP connection through the state machine of
// spec.md §3/§4.6. Grounded on hexinfra/gorox's hemi/internal/http1.go
// conn type — one goroutine per connection, blocking reads with
// deadlines standing in for the original's cooperative suspend points.
type Conn struct {
	id      string
	netConn net.Conn
	cfg     Config
	handler Handler
	logger  *vlog.Logger
	metrics *metrics.Metrics
	ctx     context.Context

	state     State
	keepalive bool
	te        TransferEncoding

	// pending holds bytes already pulled off the socket that belong to
	// the next message — either the tail of a header read that also
	// swallowed body bytes, or a second pipelined request that arrived
	// in the same TCP segment as the first (spec.md §4.6 "if residual
	// bytes of the next request are already buffered, move them to the
	// start of the buffer and re-invoke header-parse directly").
	pending []byte
}

func newConn(nc net.Conn, cfg Config, h Handler, lg *vlog.Logger, m *metrics.Metrics) *Conn {
	return &Conn{
		id:      uuid.NewString(),
		netConn: nc,
		cfg:     cfg,
		handler: h,
		logger:  lg,
		metrics: m,
		state:   StateIdle,
	}
}

// run executes the request/response loop until the peer or an error
// closes the connection (spec.md §4.6 keepalive/close collapsing).
func (c *Conn) run(ctx context.Context) {
	c.ctx = ctx
	defer c.netConn.Close()

	if c.metrics != nil {
		c.metrics.ConnectionsOpened.Add(ctx, 1)
	}
	if c.logger != nil {
		c.logger.Debug("connection accepted")
	}

	for {
		c.state = StateIdle
		c.keepalive = true
		c.te = TENone

		if c.cfg.IdleTimeout > 0 {
			_ = c.netConn.SetReadDeadline(time.Now().Add(c.cfg.IdleTimeout))
		}

		req, failCode, eof := c.readRequest()
		if eof {
			return
		}
		if failCode != 0 {
			c.sendError(failCode)
			return
		}

		c.state = StateRequestReady
		resp := c.handler.Serve(req)
		if resp == nil {
			resp = &Response{StatusCode: status.InternalServerError, HasContentLength: true}
		}

		c.state = StateSend
		if err := c.writeResponse(req, resp); err != nil {
			return
		}
		if c.metrics != nil {
			c.metrics.RequestsServed.Add(ctx, 1)
		}
		if !c.keepalive {
			return
		}
	}
}

// readRequest advances a connection through read-header → header-parse
// → read-body, returning either a fully parsed *Request, a non-zero
// HTTP status code to fail the connection with, or eof=true for a clean
// idle-time close (spec.md §4.6 state table).
func (c *Conn) readRequest() (req *Request, failCode int, eof bool) {
	c.state = StateReadHeader
	headerBytes, residual, growthErr, initialEOF := c.readHeaderBlock()
	if initialEOF {
		return nil, 0, true
	}
	if growthErr != 0 {
		return nil, growthErr, false
	}

	c.state = StateHeaderParse
	req = &Request{LocalAddr: c.netConn.LocalAddr().String()}
	switch parseHeaderBlock(headerBytes, req) {
	case parseBadRequest:
		return nil, status.BadRequest, false
	case parseVersionUnsupported:
		return nil, status.HTTPVersionNotSupported, false
	}
	c.keepalive = req.VersionMinor == 1

	switch applyFieldDispatch(c, req) {
	case dispatchBadRequest:
		return nil, status.BadRequest, false
	case dispatchNotImplemented:
		return nil, status.NotImplemented, false
	}

	if c.te == TEChunked {
		return nil, status.LengthRequired, false
	}
	if req.HasContentLen && req.ContentLength > c.cfg.MaxBodySize {
		return nil, status.ContentTooLarge, false
	}

	c.state = StateReadBody
	body, bodyErr := c.readBody(req, residual)
	if bodyErr != 0 {
		return nil, bodyErr, false
	}
	req.Body = body
	if c.metrics != nil {
		c.metrics.BodyBytesRead.Record(c.ctx, int64(len(body)))
	}
	return req, 0, false
}

// readHeaderBlock reads from the connection until it has a complete
// header block (request line through the blank line), growing across a
// buffer.Chain whose LargeHeaderBufferSize-sized nodes are capped at
// LargeHeaderBuffers — the first, HeaderBufferSize-sized node doesn't
// count against that cap, matching spec.md §4.6's "header-too-large"
// edge case, which bounds the number of *large* header buffers.
//
// Any bytes read past the header terminator (body bytes, or a second
// pipelined request) are returned as residual rather than discarded,
// per spec.md §4.6's keepalive residual-move rule. c.pending seeds the
// chain with bytes left over from a previous call, so a pipelined
// request already sitting in memory never touches the socket again.
func (c *Conn) readHeaderBlock() (block []byte, residual []byte, failCode int, eof bool) {
	maxBuffers := c.cfg.LargeHeaderBuffers
	if maxBuffers <= 0 {
		maxBuffers = 1
	}

	var chain buffer.Chain
	defer chain.Release()

	total := 0
	var carry []byte

	if len(c.pending) > 0 {
		seed := buffer.Get(len(c.pending))
		seed.SetLen(len(c.pending))
		copy(seed.Bytes(), c.pending)
		c.pending = nil
		chain.Append(seed)
		total = seed.Len()
		if end := findHeaderEnd(seed.Data()); end >= 0 {
			flat := chain.Flatten()
			return flat[:end], flat[end:], 0, false
		}
		carry = tailBytes(seed.Data(), 3)
	}

	size := c.cfg.HeaderBufferSize
	firstBuffer := true
	largeBuffers := 0

	if c.cfg.HeaderReadTimeout > 0 {
		_ = c.netConn.SetReadDeadline(time.Now().Add(c.cfg.HeaderReadTimeout))
	}

	for {
		buf := buffer.Get(size)
		n, err := c.netConn.Read(buf.Bytes())
		if n > 0 {
			buf.SetLen(n)
			chain.Append(buf)

			window := append(append([]byte(nil), carry...), buf.Data()...)
			if idx := findHeaderEnd(window); idx >= 0 {
				end := total - len(carry) + idx
				flat := chain.Flatten()
				return flat[:end], flat[end:], 0, false
			}
			carry = tailBytes(window, 3)
			total += n

			if !firstBuffer {
				largeBuffers++
				if largeBuffers >= maxBuffers {
					return nil, nil, status.RequestHeaderFieldsTooLarge, false
				}
			}
			firstBuffer = false
			size = c.cfg.LargeHeaderBufferSize
		} else {
			buffer.Put(buf)
		}
		if err != nil {
			if err == io.EOF && total == 0 {
				return nil, nil, 0, true
			}
			return nil, nil, status.RequestTimeout, false
		}
	}
}

// tailBytes returns a copy of the last n bytes of b (or all of b, if
// shorter), used to detect a header terminator straddling two reads
// without re-scanning everything read so far.
func tailBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return append([]byte(nil), b...)
	}
	return append([]byte(nil), b[len(b)-n:]...)
}

// readBody consumes the request body per Content-Length (spec.md §4.6
// body-read edge cases); readRequest has already answered a
// Content-Length over MaxBodySize with 413. alreadyRead is the
// residual returned by readHeaderBlock — bytes the header read already
// pulled off the socket that belong to the body (or, when the request
// has no body, to whatever follows it). Chunked requests never reach
// here: readRequest rejects Transfer-Encoding: chunked with 411 before
// the body-read state. Any bytes left over past the body are stashed
// in c.pending for the next readHeaderBlock call to pick up.
func (c *Conn) readBody(req *Request, alreadyRead []byte) (body []byte, failCode int) {
	need := int64(0)
	if req.HasContentLen {
		need = req.ContentLength
	}
	if need == 0 {
		c.pending = alreadyRead
		return nil, 0
	}

	if int64(len(alreadyRead)) >= need {
		c.pending = alreadyRead[need:]
		return alreadyRead[:need], 0
	}

	buf := make([]byte, need)
	copy(buf, alreadyRead)
	if c.cfg.BodyReadTimeout > 0 {
		_ = c.netConn.SetReadDeadline(time.Now().Add(c.cfg.BodyReadTimeout))
	}
	if _, err := io.ReadFull(c.netConn, buf[len(alreadyRead):]); err != nil {
		return nil, status.RequestTimeout
	}
	return buf, 0
}

// sendError answers a failing connection with a minimal status-only
// response before closing (spec.md §7 "collapse every failure mode
// into an HTTP status code and a connection close").
func (c *Conn) sendError(code int) {
	resp := &Response{StatusCode: code, HasContentLength: true}
	req := &Request{VersionMinor: 1}
	c.keepalive = false
	_ = c.writeResponse(req, resp)
	if c.logger != nil {
		c.logger.Warn("connection failed", zap.Int("status", code))
	}
}
