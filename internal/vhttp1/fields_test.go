// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vhttp1

import "testing"

func newTestConn() *Conn {
	return &Conn{cfg: DefaultConfig(), keepalive: true}
}

func TestHandleConnectionCloseCaseSensitive(t *testing.T) {
	c := newTestConn()
	req := &Request{}
	handleConnection(c, req, "Close") // wrong case: must NOT trigger close
	if !c.keepalive {
		t.Error("keepalive should remain true: \"Close\" (capitalized) must not match")
	}
	handleConnection(c, req, "close")
	if c.keepalive {
		t.Error("keepalive should be false after exact-case \"close\" token")
	}
}

func TestHandleTransferEncodingChunked(t *testing.T) {
	c := newTestConn()
	req := &Request{}
	if out := handleTransferEncoding(c, req, "chunked"); out != dispatchStored {
		t.Fatalf("outcome = %v, want dispatchStored", out)
	}
	if c.te != TEChunked {
		t.Errorf("te = %v, want TEChunked", c.te)
	}
}

func TestHandleTransferEncodingUnsupported(t *testing.T) {
	c := newTestConn()
	req := &Request{}
	out := handleTransferEncoding(c, req, "gzip")
	if out != dispatchNotImplemented {
		t.Fatalf("outcome = %v, want dispatchNotImplemented", out)
	}
	if c.te != TEUnsupported {
		t.Errorf("te = %v, want TEUnsupported", c.te)
	}
}

func TestHandleContentLengthRejectsDuplicate(t *testing.T) {
	c := newTestConn()
	req := &Request{}
	if out := handleContentLength(c, req, "10"); out != dispatchStored || req.ContentLength != 10 {
		t.Fatalf("first Content-Length: outcome=%v req=%+v", out, req)
	}
	if out := handleContentLength(c, req, "20"); out != dispatchBadRequest {
		t.Errorf("duplicate Content-Length: outcome=%v, want dispatchBadRequest", out)
	}
}

func TestHandleCookieFoldsRepeats(t *testing.T) {
	c := newTestConn()
	req := &Request{}
	handleCookie(c, req, "a=1")
	handleCookie(c, req, "b=2")
	if req.Cookie != "a=1; b=2" {
		t.Errorf("Cookie = %q, want \"a=1; b=2\"", req.Cookie)
	}
}

func TestApplyFieldDispatchUnrecognizedPassthrough(t *testing.T) {
	c := newTestConn()
	req := &Request{Fields: []Field{{Name: "x-custom", Value: "anything"}}}
	if out := applyFieldDispatch(c, req); out != dispatchStored {
		t.Fatalf("outcome = %v, want dispatchStored", out)
	}
	if len(req.Fields) != 1 || req.Fields[0].Value != "anything" {
		t.Errorf("unrecognized field was altered: %+v", req.Fields)
	}
}

func TestApplyFieldDispatchStopsOnFailure(t *testing.T) {
	c := newTestConn()
	req := &Request{Fields: []Field{
		{Name: "content-length", Value: "not-a-number"},
		{Name: "host", Value: "example.com"},
	}}
	if out := applyFieldDispatch(c, req); out != dispatchBadRequest {
		t.Fatalf("outcome = %v, want dispatchBadRequest", out)
	}
	if req.Host != "" {
		t.Error("dispatch should stop before processing later fields once one fails")
	}
}
