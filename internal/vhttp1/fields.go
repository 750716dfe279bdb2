// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vhttp1

import "strings"

// dispatchOutcome is what a field handler reports back to
// applyFieldDispatch (spec.md §4.6 "header-field dispatch": most fields
// just get stored, a few control framing and can fail the request).
type dispatchOutcome uint8

const (
	dispatchStored dispatchOutcome = iota
	dispatchBadRequest
	dispatchNotImplemented
)

// fieldHandler mutates req/conn state in response to one recognized
// field. Grounded on nxt_h1proto.c's nxt_h1p_fields[] dispatch table
// (name → handler function pointer).
type fieldHandler func(c *Conn, req *Request, value string) dispatchOutcome

var fieldHandlers = map[string]fieldHandler{
	"connection":        handleConnection,
	"transfer-encoding": handleTransferEncoding,
	"content-length":    handleContentLength,
	"host":              handleHost,
	"cookie":            handleCookie,
	"content-type":      handleContentType,
}

// applyFieldDispatch walks req.Fields (already tokenized by
// parseHeaderBlock) through fieldHandlers, matching spec.md §4.6's
// "iterate parsed fields through a field-name hash; unrecognized fields
// are stored verbatim and otherwise ignored" (SPEC_FULL.md supplemented
// feature: unrecognized-field passthrough — they stay in req.Fields
// as-is, since Fields already holds every parsed field).
func applyFieldDispatch(c *Conn, req *Request) dispatchOutcome {
	for _, f := range req.Fields {
		h, ok := fieldHandlers[f.Name]
		if !ok {
			continue
		}
		if outcome := h(c, req, f.Value); outcome != dispatchStored {
			return outcome
		}
	}
	return dispatchStored
}

// handleConnection implements spec.md §4.6's keepalive negotiation and
// §9 open question 1: matched case-sensitively against "close", per the
// spec's explicit "do not silently 'fix' this without flagging it"
// instruction (see DESIGN.md "Open Question decisions").
func handleConnection(c *Conn, req *Request, value string) dispatchOutcome {
	for _, tok := range strings.Split(value, ",") {
		if strings.TrimSpace(tok) == "close" {
			c.keepalive = false
		}
	}
	return dispatchStored
}

// handleTransferEncoding recognizes "chunked" (case-insensitively) and
// rejects any other non-empty coding, "identity" included, as unsupported
// with a 501; an empty value is ignored.
func handleTransferEncoding(c *Conn, req *Request, value string) dispatchOutcome {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "chunked":
		c.te = TEChunked
	case "":
		// no-op
	default:
		c.te = TEUnsupported
		return dispatchNotImplemented
	}
	return dispatchStored
}

// handleContentLength stores and validates Content-Length (spec.md
// §4.6: a malformed value is a 400). The value is validated whether or
// not the request also carries Transfer-Encoding.
func handleContentLength(c *Conn, req *Request, value string) dispatchOutcome {
	if req.HasContentLen {
		// A second Content-Length field is a bad request, even when it
		// repeats the same value, rather than silently taking the last
		// one.
		return dispatchBadRequest
	}
	n, ok := parseContentLength(value)
	if !ok {
		return dispatchBadRequest
	}
	req.HasContentLen = true
	req.ContentLength = n
	return dispatchStored
}

func handleHost(c *Conn, req *Request, value string) dispatchOutcome {
	req.Host = value
	return dispatchStored
}

func handleCookie(c *Conn, req *Request, value string) dispatchOutcome {
	if req.Cookie == "" {
		req.Cookie = value
	} else {
		// RFC 7230 §3.2.2 allows repeated Cookie fields to be folded
		// with "; " the way a single Cookie header would be.
		req.Cookie += "; " + value
	}
	return dispatchStored
}

func handleContentType(c *Conn, req *Request, value string) dispatchOutcome {
	req.ContentType = value
	return dispatchStored
}
