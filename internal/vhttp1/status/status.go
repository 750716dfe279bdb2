// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package status holds the read-only response status-line tables
// (spec.md §4.6 "Response framing": "status line from preallocated
// tables indexed by status - group_base for groups {2xx, 3xx, 4xx, 5xx};
// unknown codes render HTTP/1.1 NNN\r\n with a numeric-only status").
//
// Grounded on _examples/original_source/src/nxt_h1proto.c's
// nxt_http_success/nxt_http_redirection/nxt_http_client_error/
// nxt_http_server_error tables and hexinfra/gorox's
// hemi/internal/http.go status code constants (reused here for the
// numeric values named by spec.md §7's error taxonomy).
package status

import "strconv"

const (
	OK                          = 200
	Created                     = 201
	NoContent                   = 204
	MovedPermanently            = 301
	Found                       = 302
	NotModified                 = 304
	BadRequest                  = 400
	Forbidden                   = 403
	NotFound                    = 404
	RequestTimeout              = 408
	LengthRequired              = 411
	ContentTooLarge             = 413
	URITooLong                  = 414
	RequestHeaderFieldsTooLarge = 431
	InternalServerError         = 500
	NotImplemented              = 501
	HTTPVersionNotSupported     = 505
)

// line is a preallocated "NNN Reason-Phrase" status line, matching the
// original's per-group nxt_str_t tables indexed by status-group_base.
type line struct {
	code   int
	phrase string
}

var success = []line{
	{200, "OK"},
	{201, "Created"},
	{202, "Accepted"},
	{204, "No Content"},
	{206, "Partial Content"},
}

var redirection = []line{
	{301, "Moved Permanently"},
	{302, "Found"},
	{303, "See Other"},
	{304, "Not Modified"},
	{307, "Temporary Redirect"},
	{308, "Permanent Redirect"},
}

var clientError = []line{
	{400, "Bad Request"},
	{401, "Unauthorized"},
	{403, "Forbidden"},
	{404, "Not Found"},
	{405, "Method Not Allowed"},
	{408, "Request Timeout"},
	{411, "Length Required"},
	{413, "Content Too Large"},
	{414, "URI Too Long"},
	{431, "Request Header Fields Too Large"},
}

var serverError = []line{
	{500, "Internal Server Error"},
	{501, "Not Implemented"},
	{502, "Bad Gateway"},
	{503, "Service Unavailable"},
	{505, "HTTP Version Not Supported"},
}

// Phrase returns the reason phrase for code, and whether it was found in
// one of the four group tables. An unknown code (found=false) renders
// with no reason phrase per spec.md §4.6.
func Phrase(code int) (phrase string, found bool) {
	var table []line
	switch {
	case code >= 200 && code < 300:
		table = success
	case code >= 300 && code < 400:
		table = redirection
	case code >= 400 && code < 500:
		table = clientError
	case code >= 500 && code < 600:
		table = serverError
	default:
		return "", false
	}
	for _, l := range table {
		if l.code == code {
			return l.phrase, true
		}
	}
	return "", false
}

// Line renders the full "HTTP/1.1 NNN Reason\r\n" (or, for an unknown
// code, "HTTP/1.1 NNN\r\n") status line.
func Line(code int) string {
	if phrase, ok := Phrase(code); ok {
		return "HTTP/1.1 " + strconv.Itoa(code) + " " + phrase + "\r\n"
	}
	return "HTTP/1.1 " + strconv.Itoa(code) + "\r\n"
}
