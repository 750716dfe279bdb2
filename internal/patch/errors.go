// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package patch

import "errors"

// errAlloc surfaces an arena allocation failure as spec.md §7's
// Resource-exhaustion kind (ERROR status, not a panic).
var errAlloc = errors.New("patch: arena allocation failed")

// ErrOpOnArray is returned when an op-chain targets a value that turned
// out to be an array rather than an object (spec.md §4.4 "Op application
// on array elements is not supported ... passing an op through an array
// is an error").
var ErrOpOnArray = errors.New("patch: op cannot target an array element")
