// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import (
	"fmt"
	"math"
)

// writeNonNegInt writes a non-negative integer using the narrowest tag in
// §4.1 that losslessly represents it. Negative numbers must go through
// writeInt64 instead; this helper is also used for length prefixes, which
// are always non-negative.
func writeNonNegInt(w *writer, v uint64) {
	switch {
	case v <= maxSmallNumber:
		w.writeByte(byte(v))
	case v <= math.MaxUint16:
		w.writeByte(_TAG_U16)
		w.writeUint16(uint16(v))
	case v <= math.MaxUint32:
		w.writeByte(_TAG_U32)
		w.writeUint32(uint32(v))
	default:
		w.writeByte(_TAG_U64)
		w.writeUint64(v)
	}
}

// writeInt64 writes a signed integer using the narrowest tag in §4.1.
func writeInt64(w *writer, v int64) {
	switch {
	case v >= 0:
		writeNonNegInt(w, uint64(v))
	case v >= -256:
		w.writeByte(_TAG_NEG_I8)
		w.writeByte(byte(v + 256))
	case v >= -65536:
		w.writeByte(_TAG_NEG_I16)
		w.writeUint16(uint16(v + 65536))
	case v >= math.MinInt32:
		w.writeByte(_TAG_NEG_I32)
		w.writeUint32(uint32(int32(v)))
	default:
		w.writeByte(_TAG_NEG_I64)
		w.writeUint64(uint64(v))
	}
}

// readNumber decodes any of the §4.1 number tags into a signed 64-bit value.
// Decoders accept every valid representation, not just the narrowest one.
func readNumber(r *reader) (int64, error) {
	tag, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case tag <= maxSmallNumber:
		return int64(tag), nil
	case tag == _TAG_U16:
		v, err := r.readUint16()
		return int64(v), err
	case tag == _TAG_U32:
		v, err := r.readUint32()
		return int64(v), err
	case tag == _TAG_U64:
		v, err := r.readUint64()
		return int64(v), err
	case tag == _TAG_NEG_I8:
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		return int64(b) - 256, nil
	case tag == _TAG_NEG_I16:
		v, err := r.readUint16()
		if err != nil {
			return 0, err
		}
		return int64(v) - 65536, nil
	case tag == _TAG_NEG_I32:
		v, err := r.readUint32()
		return int64(int32(v)), err
	case tag == _TAG_NEG_I64, tag == _TAG_TIMESTAMP:
		v, err := r.readUint64()
		return int64(v), err
	}
	return 0, fmt.Errorf("%w: unexpected number tag 0x%02x", ErrMalformedWire, tag)
}

// readUnsignedNumber is readNumber with any negative result rejected (used
// for length prefixes, where a negative result would itself be malformed
// wire data). A 234-tagged value of 2^63 or more reads as negative and is
// rejected here too; the uint64 decoder reads that tag itself.
func readUnsignedNumber(r *reader) (uint64, error) {
	v, err := readNumber(r)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative length prefix", ErrMalformedWire)
	}
	return uint64(v), nil
}
