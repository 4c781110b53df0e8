// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

// Unrecognized is the opaque carrier a struct or enum instance uses to hold
// data a decoder did not understand but must reproduce verbatim when
// re-encoded in the same format (§3, §9 design note 2). Bytes and JSON are
// independent: a value decoded from the wire only ever populates Bytes, a
// value decoded from JSON only ever populates JSON, and an encoder only
// ever re-emits the field matching its own output format — round-tripping
// through a different format is explicitly allowed to drop the data (§3).
type Unrecognized struct {
	// Bytes is the verbatim captured wire span. For a struct this is the
	// concatenation of every trailing slot (beyond every field number the
	// struct declares) that this reader did not recognize, in slot order;
	// Count records how many such slots it represents, which the struct
	// encoder needs to compute the correct re-encoded frame size. For an
	// enum this is the entire variant span (header tag(s) plus payload)
	// and Count is unused.
	Bytes []byte
	Count int

	// JSON is the verbatim captured JSON subtree: for a struct, the
	// trailing dense-JSON array elements ([]any) beyond every declared
	// field number; for an enum, the single raw dense-JSON element (a
	// number, or a [number, payload] pair).
	JSON any
}
