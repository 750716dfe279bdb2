// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package patch

import (
	"github.com/hexstack/vconf/internal/arena"
	"github.com/hexstack/vconf/internal/value"
)

// Compile walks path against root and builds an op-chain describing how
// to turn root into a copy carrying newValue at that path, or (when
// newValue is nil) how to delete the member at that path (spec.md §4.3).
//
// Grounded on nxt_conf_json_op_compile.
func Compile(root *value.Value, newValue *value.Value, path string, a *arena.Arena) (*Op, Status, error) {
	segs := value.SplitPath(path)
	if len(segs) == 0 {
		// Patching the root itself (empty path) is not expressible as an
		// op-chain: an op always targets a member index within some
		// object. Nothing in spec.md's scenarios patches the root.
		return nil, Declined, nil
	}

	cur := root
	var chain *Op
	parent := &chain

	for i, seg := range segs {
		last := i == len(segs)-1

		if cur.Kind() != value.Object {
			return chain, Declined, nil
		}
		idx, found := cur.MemberIndex([]byte(seg))

		opSlot := arena.Alloc[Op](a, 1)
		if opSlot == nil {
			return nil, Error, errAlloc
		}
		op := &opSlot[0]
		op.Index = idx
		*parent = op

		if !last {
			if !found {
				return chain, Declined, nil
			}
			op.Action = Pass
			cur = cur.MemberAt(idx)
			parent = &op.Sub
			continue
		}

		// Terminal segment.
		if newValue == nil {
			if !found {
				return chain, Declined, nil
			}
			op.Action = Delete
			return chain, OK, nil
		}
		if found {
			op.Action = Replace
			op.NewValue = *newValue
			return chain, OK, nil
		}
		op.Action = Create
		op.NewMember = value.Member{
			Name:  value.NewArenaString(a, seg),
			Value: *newValue,
		}
		return chain, OK, nil
	}

	return chain, Declined, nil // unreachable: the loop always returns
}
