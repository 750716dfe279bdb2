// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package patch

import (
	"github.com/hexstack/vconf/internal/arena"
	"github.com/hexstack/vconf/internal/value"
)

// Clone applies op (which may be nil, meaning "copy unchanged") to root
// and returns a new root built in a (spec.md §4.4). Subtrees op doesn't
// touch are not shared with root: every untouched array, object and heap
// string is copied into a as well. Only a Replace/Create value supplied
// to Compile is referenced as-is. Grounded on nxt_conf_json_clone_value.
func Clone(root *value.Value, op *Op, a *arena.Arena) (*value.Value, error) {
	v, err := cloneValue(root, op, a)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func cloneValue(v *value.Value, op *Op, a *arena.Arena) (value.Value, error) {
	if op != nil && v.Kind() != value.Object {
		return value.Value{}, ErrOpOnArray
	}
	switch v.Kind() {
	case value.Null, value.Bool, value.Integer, value.ShortString:
		// Primitives, and short strings (already inline), copy by value
		// (spec.md §4.4 "copy the union by value" / "short-strings are
		// copied inline").
		return *v, nil
	case value.String:
		// Strings are always deep-copied into the new arena, even when
		// unchanged (spec.md §4.4 "Strings: always deep-copied").
		return value.NewArenaString(a, v.Str()), nil
	case value.Array:
		return cloneArray(v, a)
	case value.Object:
		return cloneObject(v, op, a)
	default:
		return *v, nil
	}
}

func cloneArray(v *value.Value, a *arena.Arena) (value.Value, error) {
	src := v.Elems()
	dst := value.NewArray(a, len(src))
	out := dst.Elems()
	for i := range src {
		c, err := cloneValue(&src[i], nil, a)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = c
	}
	return dst, nil
}

// cloneObject is the structural-copy heart of the executor. It walks src
// members and the op-chain in lockstep with two cursors, s (source) and
// d (destination): PASS copies verbatim up to the target index then
// recurses into it with the nested chain; CREATE appends; REPLACE
// substitutes the value in place without recursing; DELETE skips a
// source member. Grounded on nxt_conf_json_copy_object.
func cloneObject(src *value.Value, op *Op, a *arena.Arena) (value.Value, error) {
	srcMembers := src.Members()
	count := len(srcMembers)
	if op != nil {
		switch op.Action {
		case Create:
			count++
		case Delete:
			count--
		}
	}

	dst := value.NewObject(a, count)
	out := dst.Members()

	s, d := 0, 0
	cur := op
	for d != count {
		var index int
		if cur == nil || cur.Action == Create {
			index = len(srcMembers)
		} else {
			index = cur.Index
		}
		for s != index {
			m := &srcMembers[s]
			nameCopy, err := cloneValue(&m.Name, nil, a)
			if err != nil {
				return value.Value{}, err
			}
			valCopy, err := cloneValue(&m.Value, nil, a)
			if err != nil {
				return value.Value{}, err
			}
			out[d] = value.Member{Name: nameCopy, Value: valCopy}
			s++
			d++
		}
		if cur == nil {
			break
		}
		switch cur.Action {
		case Pass:
			m := &srcMembers[s]
			nameCopy, err := cloneValue(&m.Name, nil, a)
			if err != nil {
				return value.Value{}, err
			}
			valCopy, err := cloneValue(&m.Value, cur.Sub, a)
			if err != nil {
				return value.Value{}, err
			}
			out[d] = value.Member{Name: nameCopy, Value: valCopy}
			s++
			d++
		case Create:
			// The new member's name was already built into this same
			// arena at compile time (value.NewArenaString in
			// Compile) — no need to duplicate it a second time.
			out[d] = cur.NewMember
			d++
		case Replace:
			m := &srcMembers[s]
			nameCopy, err := cloneValue(&m.Name, nil, a)
			if err != nil {
				return value.Value{}, err
			}
			out[d] = value.Member{Name: nameCopy, Value: cur.NewValue}
			s++
			d++
		case Delete:
			s++
		}
		cur = cur.Next
	}

	return dst, nil
}
