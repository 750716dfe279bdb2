// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package vhttp1 implements the HTTP/1.x connection state machine of
// spec.md §3 "HTTP/1 connection state" and §4.6, driving a single client
// connection through idle → read-header → body-read → response-send →
// keepalive/close.
//
// Grounded on hexinfra/gorox's hemi/internal/server_http1.go (gate/
// accept loop), hemi/internal/http1.go + hemi/internal/web_codec_http1.go
// (incremental header/body parsing, chunked framing) and
// _examples/original_source/src/nxt_h1proto.c (state names/transitions,
// field dispatch table, status group tables — see internal/vhttp1/status).
package vhttp1

import "time"

// State is one node of the per-connection state machine (spec.md §3,
// §4.6 table). Named after nxt_h1proto.c's nxt_h1p_*_state constants.
type State uint8

const (
	StateIdle State = iota
	StateReadHeader
	StateHeaderParse
	StateReadBody
	StateRequestReady
	StateSend
	StateClose
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReadHeader:
		return "read-header"
	case StateHeaderParse:
		return "header-parse"
	case StateReadBody:
		return "read-body"
	case StateRequestReady:
		return "request-ready"
	case StateSend:
		return "send"
	case StateClose:
		return "close"
	default:
		return "?"
	}
}

// TransferEncoding is the request's Transfer-Encoding classification
// (spec.md §3 invariant, §4.6 "Header-field dispatch").
type TransferEncoding uint8

const (
	TENone TransferEncoding = iota
	TEChunked
	TEUnsupported
)

// Config carries the buffer sizes and per-state timeouts named
// throughout spec.md §4.6 as external configuration. These are the demo
// binary's own settings (SPEC_FULL.md ambient CLI, wired via cobra/viper
// in cmd/vconfd) — not the value-tree "configuration file loading from
// disk" spec.md §1 calls an external collaborator.
type Config struct {
	HeaderBufferSize      int
	LargeHeaderBufferSize int
	LargeHeaderBuffers    int
	MaxBodySize           int64

	IdleTimeout       time.Duration
	HeaderReadTimeout time.Duration
	BodyReadTimeout   time.Duration
	SendTimeout       time.Duration
}

// DefaultConfig mirrors typical nginx-Unit-style defaults.
func DefaultConfig() Config {
	return Config{
		HeaderBufferSize:      8 << 10,
		LargeHeaderBufferSize: 64 << 10,
		LargeHeaderBuffers:    4,
		MaxBodySize:           16 << 20,
		IdleTimeout:           75 * time.Second,
		HeaderReadTimeout:     30 * time.Second,
		BodyReadTimeout:       30 * time.Second,
		SendTimeout:           30 * time.Second,
	}
}

// Field is one parsed (name, value) header field. Names are ASCII
// lower-cased by the parser (spec.md §1 "opaque tokenizer" collaborator;
// see header.go).
type Field struct {
	Name  string
	Value string
}

// Request is the request currently in flight on a connection (spec.md §3
// "the current request (or none)").
type Request struct {
	Method       string
	Target       string
	VersionMinor int // 0 or 1

	Fields []Field

	Host          string
	Cookie        string
	ContentType   string
	HasContentLen bool
	ContentLength int64

	Body []byte

	// LocalAddr is the connection's local socket address, carried from
	// the original's nxt_h1p_request_local_addr (SPEC_FULL.md
	// "Supplemented features").
	LocalAddr string
}

// Response is what an upstream handler hands back for framing (spec.md
// §1 "hand the parsed request to an upper layer and await its response
// buffer chain").
type Response struct {
	StatusCode int
	Fields     []Field
	Body       []byte
	// HasContentLength distinguishes an explicit Content-Length: 0 from
	// "no Content-Length field at all", which controls chunked framing
	// (spec.md §4.6 "if there is no Content-Length on the response and
	// the client is HTTP/1.1, set chunked=1").
	HasContentLength bool
}

// Handler is the upstream collaborator a Conn hands parsed requests to
// (spec.md §1 Non-goals: "any application dispatch logic beyond ...").
type Handler interface {
	Serve(*Request) *Response
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(*Request) *Response

func (f HandlerFunc) Serve(r *Request) *Response { return f(r) }
