// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import "errors"

// Error kinds (see §7 of the design spec). Codec errors are built by
// wrapping one of these sentinels with fmt.Errorf and a %w verb, so callers
// can still branch with errors.Is after the path/context has been added.
var (
	// ErrMalformedWire reports an unexpected tag byte, truncated input, or
	// trailing bytes after a complete top-level decode.
	ErrMalformedWire = errors.New("soia: malformed wire data")

	// ErrSchemaMismatch reports a JSON shape that does not match what the
	// serializer expected (e.g. a string where a number was required).
	ErrSchemaMismatch = errors.New("soia: json value does not match schema")

	// ErrDuplicateRegistration reports two methods (or two fields, or two
	// variants) registered under the same number.
	ErrDuplicateRegistration = errors.New("soia: duplicate registration")

	// ErrFinalizedMutation reports an attempt to add a field or variant to
	// a descriptor after it has already been finalized.
	ErrFinalizedMutation = errors.New("soia: descriptor already finalized")
)

// ErrUnknownTag is never returned to a caller: an unrecognized field or
// variant number is not fatal (§7). It names that error kind for callers
// that want to refer to it (e.g. in documentation or logging); struct.go and
// enum.go don't construct it themselves, they just skip and optionally
// capture the unrecognized slot/variant directly.
var ErrUnknownTag = errors.New("soia: unknown field or variant number")
