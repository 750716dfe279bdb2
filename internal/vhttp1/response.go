// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vhttp1

import (
	"strconv"
	"time"

	"github.com/hexstack/vconf/internal/vhttp1/status"
)

// writeResponse serializes resp onto the connection, choosing among
// three body-framing modes per spec.md §4.6 "Response framing": normal
// Content-Length framing; chunked framing when the response carries no
// Content-Length and the client is HTTP/1.1; and, when the response
// carries no Content-Length and the client is HTTP/1.0 (which cannot
// parse chunked encoding), close-delimited framing — the connection
// close itself marks the end of the body.
func (c *Conn) writeResponse(req *Request, resp *Response) error {
	chunked := !resp.HasContentLength && req.VersionMinor == 1
	closeDelimited := !resp.HasContentLength && req.VersionMinor == 0
	if closeDelimited {
		c.keepalive = false
	}

	buf := make([]byte, 0, 256+len(resp.Body))
	buf = append(buf, status.Line(resp.StatusCode)...)

	wroteConnection := false
	for _, f := range resp.Fields {
		buf = appendFieldLine(buf, f.Name, f.Value)
		if equalFold(f.Name, "connection") {
			wroteConnection = true
		}
	}
	switch {
	case wroteConnection:
		// Handler already set an explicit Connection value; honor it.
	case closeDelimited:
		// No Content-Length and the client can't parse chunked framing:
		// closing the connection is what delimits the body, so this
		// must be stated explicitly even though close already matches
		// HTTP/1.0's default.
		buf = appendFieldLine(buf, "Connection", "close")
	case (req.VersionMinor == 1) != c.keepalive:
		// Otherwise only announce Connection when it differs from the
		// version's default (HTTP/1.1 defaults to keep-alive, HTTP/1.0
		// to close).
		if c.keepalive {
			buf = appendFieldLine(buf, "Connection", "keep-alive")
		} else {
			buf = appendFieldLine(buf, "Connection", "close")
		}
	}

	switch {
	case chunked:
		buf = appendFieldLine(buf, "Transfer-Encoding", "chunked")
	case closeDelimited:
		// No Content-Length, no Transfer-Encoding: the body runs to EOF.
	default:
		buf = appendFieldLine(buf, "Content-Length", strconv.Itoa(len(resp.Body)))
	}
	buf = append(buf, '\r', '\n')

	if chunked {
		buf = appendChunk(buf, resp.Body)
		buf = append(buf, "0\r\n\r\n"...)
		if c.metrics != nil {
			c.metrics.ChunkedResponses.Add(c.ctx, 1)
		}
	} else {
		buf = append(buf, resp.Body...)
	}

	if c.cfg.SendTimeout > 0 {
		_ = c.netConn.SetWriteDeadline(time.Now().Add(c.cfg.SendTimeout))
	}
	_, err := c.netConn.Write(buf)
	return err
}

func appendFieldLine(buf []byte, name, value string) []byte {
	buf = append(buf, name...)
	buf = append(buf, ':', ' ')
	buf = append(buf, value...)
	buf = append(buf, '\r', '\n')
	return buf
}

// appendChunk frames body as a single RFC 7230 §4.1 chunk (hex size,
// CRLF, data, CRLF). A real streaming server would emit many chunks as
// data becomes available; this demo's Handler returns a complete body,
// so one chunk carries it (spec.md §4.6 does not require multi-chunk
// bodies, only that chunked framing be produced when applicable).
func appendChunk(buf []byte, body []byte) []byte {
	if len(body) == 0 {
		return buf
	}
	buf = append(buf, strconv.FormatInt(int64(len(body)), 16)...)
	buf = append(buf, '\r', '\n')
	buf = append(buf, body...)
	buf = append(buf, '\r', '\n')
	return buf
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
