// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vhttp1

import (
	"bytes"
	"strconv"
	"strings"
)

// parseResult is what parseHeaderBlock reports back to the state machine
// (spec.md §4.6 "header-parse" transitions: ready-for-body, bad-request,
// unsupported-version). Header-too-large is decided earlier, by
// readHeaderBlock.
type parseResult uint8

const (
	parseOK parseResult = iota
	parseBadRequest
	parseVersionUnsupported
)

// findHeaderEnd locates the blank line terminating the header block,
// tolerating a bare "\n\n" in addition to "\r\n\r\n" the way gorox's
// http1 header scanner does for leniency with non-conforming clients.
func findHeaderEnd(buf []byte) int {
	if i := bytes.Index(buf, []byte("\r\n\r\n")); i >= 0 {
		return i + 4
	}
	if i := bytes.Index(buf, []byte("\n\n")); i >= 0 {
		return i + 2
	}
	return -1
}

// requestLineStatus distinguishes a malformed request line from a
// well-formed but unsupported HTTP version, so the caller can answer
// 400 versus 505 respectively (spec.md §4.6, §7 error taxonomy).
type requestLineStatus uint8

const (
	requestLineOK requestLineStatus = iota
	requestLineMalformed
	requestLineUnsupportedVersion
)

// parseRequestLine splits "METHOD SP target SP HTTP/1.x" into parts.
// Grounded on nxt_h1proto.c's nxt_h1p_conn_request_line_state token
// scan, rendered as a single split since Go strings make that natural.
func parseRequestLine(line []byte) (method, target string, versionMinor int, status requestLineStatus) {
	s := string(bytes.TrimRight(line, "\r\n"))
	parts := strings.SplitN(s, " ", 3)
	if len(parts) != 3 {
		return "", "", 0, requestLineMalformed
	}
	method, target, version := parts[0], parts[1], parts[2]
	if method == "" || target == "" {
		return "", "", 0, requestLineMalformed
	}
	switch version {
	case "HTTP/1.0":
		return method, target, 0, requestLineOK
	case "HTTP/1.1":
		return method, target, 1, requestLineOK
	}
	if !strings.HasPrefix(version, "HTTP/") {
		return "", "", 0, requestLineMalformed
	}
	// Well-formed but unsupported version, e.g. "HTTP/2.0" spoken over
	// a plaintext h1 listener, or "HTTP/0.9".
	return "", "", 0, requestLineUnsupportedVersion
}

// parseFieldLine splits "Name: value" into a lower-cased name and a
// trimmed value (spec.md §1 "opaque tokenizer" collaborator — trivial
// enough here to implement directly rather than stub out).
func parseFieldLine(line []byte) (name, value string, ok bool) {
	line = bytes.TrimRight(line, "\r\n")
	i := bytes.IndexByte(line, ':')
	if i <= 0 {
		return "", "", false
	}
	rawName := line[:i]
	for _, c := range rawName {
		if !isTChar(c) {
			return "", "", false
		}
	}
	name = strings.ToLower(string(rawName))
	value = string(bytes.Trim(line[i+1:], " \t"))
	return name, value, true
}

func isTChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

// parseHeaderBlock parses a complete header block (request line plus
// CRLF-terminated field lines, ending at the blank line) into req.
// Grounded on nxt_h1proto.c's overall header state machine collapsed
// into one pass, since Go's blocking-read-per-goroutine model (see
// conn.go) doesn't need the original's byte-at-a-time state resumption.
func parseHeaderBlock(block []byte, req *Request) parseResult {
	lines := splitLines(block)
	if len(lines) == 0 {
		return parseBadRequest
	}
	method, target, versionMinor, rlStatus := parseRequestLine(lines[0])
	switch rlStatus {
	case requestLineMalformed:
		return parseBadRequest
	case requestLineUnsupportedVersion:
		return parseVersionUnsupported
	}
	req.Method = method
	req.Target = target
	req.VersionMinor = versionMinor

	for _, l := range lines[1:] {
		if len(l) == 0 {
			continue
		}
		name, value, ok := parseFieldLine(l)
		if !ok {
			return parseBadRequest
		}
		req.Fields = append(req.Fields, Field{Name: name, Value: value})
	}
	return parseOK
}

// splitLines breaks a header block into CRLF- or LF-terminated lines,
// dropping the trailing blank line.
func splitLines(block []byte) [][]byte {
	var lines [][]byte
	for len(block) > 0 {
		i := bytes.IndexByte(block, '\n')
		if i < 0 {
			lines = append(lines, block)
			break
		}
		line := block[:i]
		lines = append(lines, line)
		block = block[i+1:]
	}
	if len(lines) > 0 && len(bytes.TrimRight(lines[len(lines)-1], "\r\n")) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseChunkSize reads the hex size from a chunk-size line, ignoring any
// ";ext" extension. The request path does not call it: chunked requests get 411.
func parseChunkSize(line []byte) (int64, bool) {
	if i := bytes.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	n, err := strconv.ParseUint(string(bytes.TrimRight(line, " \t\r\n")), 16, 63)
	if err != nil {
		return 0, false
	}
	return int64(n), true
}

// parseContentLength validates a Content-Length field value the way
// nxt_h1proto.c's nxt_h1p_content_length rejects anything but a plain
// non-negative decimal integer (no signs, no leading '+', no
// whitespace-embedded digits).
func parseContentLength(v string) (int64, bool) {
	if v == "" {
		return 0, false
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
