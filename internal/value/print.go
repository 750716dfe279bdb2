// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package value

import (
	"strconv"
)

// PrintOptions controls Print's output mode (spec.md §4.5).
type PrintOptions struct {
	Pretty bool
}

// printState carries the pretty-printer's mutable cursor, mirroring the
// original's nxt_conf_json_pretty_t{level, more_space} threaded by
// pointer through recursive print calls (SPEC_FULL.md "Supplemented
// features").
type printState struct {
	level     int
	moreSpace bool
}

// Print serializes v to JSON bytes (spec.md §4.5). Unlike the original's
// two-pass size-then-write scheme (which exists in C to avoid a
// reallocating growable buffer), this builds directly into a
// strings.Builder-style growable []byte — the byte-count pre-pass buys
// nothing in Go, where append() already amortizes growth, and the
// resulting bytes are identical either way.
func (v *Value) Print(pretty bool) []byte {
	buf := make([]byte, 0, 256)
	st := printState{}
	buf = v.print(buf, pretty, &st)
	return buf
}

func (v *Value) print(buf []byte, pretty bool, st *printState) []byte {
	switch v.kind {
	case Null:
		return append(buf, "null"...)
	case Bool:
		if v.boolean {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case Integer:
		return strconv.AppendInt(buf, v.integer, 10)
	case ShortString, String:
		return appendEscapedString(buf, v.Str())
	case Array:
		return v.printArray(buf, pretty, st)
	case Object:
		return v.printObject(buf, pretty, st)
	default:
		return append(buf, "null"...)
	}
}

func (v *Value) printArray(buf []byte, pretty bool, st *printState) []byte {
	buf = append(buf, '[')
	st.level++
	for i := range v.elems {
		if i > 0 {
			buf = append(buf, ',')
		}
		if pretty {
			buf = appendNewline(buf, st.level)
		}
		buf = v.elems[i].print(buf, pretty, st)
	}
	st.level--
	if pretty && len(v.elems) > 0 {
		buf = appendNewline(buf, st.level)
	}
	return append(buf, ']')
}

func (v *Value) printObject(buf []byte, pretty bool, st *printState) []byte {
	buf = append(buf, '{')
	st.level++
	moreSpace := false
	for i := range v.members {
		m := &v.members[i]
		if i > 0 {
			buf = append(buf, ',')
		}
		if pretty {
			if moreSpace {
				buf = appendNewline(buf, st.level)
			}
			buf = appendNewline(buf, st.level)
		}
		buf = appendEscapedString(buf, m.Name.Str())
		buf = append(buf, ':')
		if pretty {
			buf = append(buf, ' ')
		}
		before := len(buf)
		buf = m.Value.print(buf, pretty, st)
		// A blank line separates this member from the next one iff it
		// ended with a nested non-empty object/array (spec.md §4.5
		// "more_space toggle").
		moreSpace = pretty && isNestedNonEmpty(&m.Value) && len(buf) > before
	}
	st.level--
	if pretty && len(v.members) > 0 {
		buf = appendNewline(buf, st.level)
	}
	return append(buf, '}')
}

func isNestedNonEmpty(v *Value) bool {
	switch v.kind {
	case Array:
		return len(v.elems) > 0
	case Object:
		return len(v.members) > 0
	default:
		return false
	}
}

func appendNewline(buf []byte, level int) []byte {
	buf = append(buf, '\r', '\n')
	for i := 0; i < level; i++ {
		buf = append(buf, '\t')
	}
	return buf
}

const hexDigits = "0123456789ABCDEF"

// appendEscapedString appends s as a quoted JSON string, escaping per
// spec.md §4.5: \\ and \" are backslash-escaped, \n \r \t \b \f use their
// short forms, any other byte < 0x20 becomes \u00XX with uppercase hex.
func appendEscapedString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}
