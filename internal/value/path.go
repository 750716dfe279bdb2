// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package value

import "strconv"

// Get resolves a slash-delimited path against root (spec.md §4.2). An
// empty path yields root itself; a missing member or a non-object
// encountered mid-walk yields (nil, false).
//
// Grounded on nxt_conf_json_get_value / nxt_conf_json_path_next_token in
// _examples/original_source/src/nxt_conf_json.c.
func Get(root *Value, path string) (*Value, bool) {
	if path == "" {
		return root, true
	}
	cur := root
	for _, seg := range splitPath(path) {
		if cur.kind != Object {
			return nil, false
		}
		next, ok := cur.Member([]byte(seg))
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// GetArrayIndexed extends Get so that a segment consisting entirely of
// decimal digits may also select an array element by index, in addition
// to the object-member walk spec.md §4.2 describes. This is additive: it
// is never used by Get itself, so §4.2's documented all-object behavior
// is unchanged for existing callers (see SPEC_FULL.md "Supplemented
// features").
func GetArrayIndexed(root *Value, path string) (*Value, bool) {
	if path == "" {
		return root, true
	}
	cur := root
	for _, seg := range splitPath(path) {
		switch cur.kind {
		case Object:
			next, ok := cur.Member([]byte(seg))
			if !ok {
				return nil, false
			}
			cur = next
		case Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.elems) {
				return nil, false
			}
			cur = &cur.elems[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// SplitPath exposes splitPath to other packages (the patch compiler
// walks the same segment tokenization Get uses).
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return splitPath(path)
}

// splitPath tokenizes "/a/b/c" into ["a","b","c"], mirroring
// nxt_conf_json_path_next_token's behaviour of treating the path as
// starting with a leading '/' and each token running up to the next '/'.
// A path not starting with '/' is treated as a single segment (spec.md
// gives no escaping rule for this case; we take the simplest reading).
func splitPath(path string) []string {
	if path[0] != '/' {
		return []string{path}
	}
	var segs []string
	i := 1
	for i <= len(path) {
		start := i
		for i < len(path) && path[i] != '/' {
			i++
		}
		segs = append(segs, path[start:i])
		i++
	}
	return segs
}
