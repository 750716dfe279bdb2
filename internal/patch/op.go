// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package patch implements the overlay-patch compiler and executor of
// spec.md §3 "Patch op-chain" and §4.3-§4.4: compiling a path + new value
// into a linked chain of edit instructions, then applying that chain to
// produce a structurally-shared modified copy of a value tree.
//
// Grounded on _examples/original_source/src/nxt_conf_json.c's
// nxt_conf_json_op_compile / nxt_conf_json_clone_value /
// nxt_conf_json_copy_object.
package patch

import "github.com/hexstack/vconf/internal/value"

// Action is the terminal (or pass-through) instruction an Op carries
// (spec.md §3 "Patch op-chain").
type Action uint8

const (
	Pass Action = iota
	Create
	Replace
	Delete
)

// Op is one edit instruction. next is the horizontal sibling link at the
// same nesting level; a Pass op's ctx points at the sub-chain for the
// next level down (spec.md §4.3 "next is the horizontal link, ctx at a
// PASS op is the nested sub-chain").
type Op struct {
	Index  int // target member index within the current object
	Action Action
	// NewValue holds the replacement value for Replace.
	NewValue value.Value
	// NewMember holds the freshly-built member for Create (name+value).
	NewMember value.Member
	// Sub is the nested op-chain a Pass op descends into.
	Sub *Op
	// Next is the sibling op-chain at this same level.
	Next *Op
}

// Status is Compile's outcome (spec.md §4.3).
type Status uint8

const (
	OK Status = iota
	Declined
	Error
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Declined:
		return "DECLINED"
	case Error:
		return "ERROR"
	default:
		return "?"
	}
}
