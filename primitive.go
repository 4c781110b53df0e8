// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxSafeInteger is the largest magnitude integer that round-trips through
// a JSON number without precision loss (2^53), per §4.2.
const maxSafeInteger = 1 << 53

// minTimestampMillis/maxTimestampMillis bound timestamps to the range the
// spec requires (§4.2): +/- 8_640_000_000_000_000 ms (roughly +/-273,790
// years, the same bound ECMAScript's Date uses).
const (
	minTimestampMillis int64 = -8_640_000_000_000_000
	maxTimestampMillis int64 = 8_640_000_000_000_000
)

func clampTimestampMillis(ms int64) int64 {
	if ms < minTimestampMillis {
		return minTimestampMillis
	}
	if ms > maxTimestampMillis {
		return maxTimestampMillis
	}
	return ms
}

// --- bool ---

type boolSerializer struct{}

// Bool returns the Serializer for the bool primitive (§4.2).
func Bool() Serializer[bool] { return boolSerializer{} }

func (boolSerializer) encode(w *writer, v bool) {
	if v {
		w.writeByte(1)
	} else {
		w.writeByte(0)
	}
}

func (boolSerializer) decode(r *reader, keep bool) (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: bad bool tag 0x%02x", ErrMalformedWire, b)
}

func (boolSerializer) toJSON(v bool, flavor Flavor) any {
	if flavor == Readable {
		return v
	}
	if v {
		return float64(1)
	}
	return float64(0)
}

func (boolSerializer) fromJSON(j any, keep bool) (bool, error) {
	switch jt := j.(type) {
	case bool:
		return jt, nil
	case jsonNumber:
		n, err := jt.Int64()
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return n != 0, nil
	case float64:
		return jt != 0, nil
	}
	return false, fmt.Errorf("%w: expected bool, got %T", ErrSchemaMismatch, j)
}

func (boolSerializer) isDefault(v bool) bool { return !v }

func (boolSerializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveBool}
}

// --- int32 ---

type int32Serializer struct{}

// Int32 returns the Serializer for the int32 primitive (§4.2).
func Int32() Serializer[int32] { return int32Serializer{} }

func (int32Serializer) encode(w *writer, v int32) { writeInt64(w, int64(v)) }

func (int32Serializer) decode(r *reader, keep bool) (int32, error) {
	n, err := readNumber(r)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: int32 out of range: %d", ErrMalformedWire, n)
	}
	return int32(n), nil
}

func (int32Serializer) toJSON(v int32, flavor Flavor) any { return float64(v) }

func (int32Serializer) fromJSON(j any, keep bool) (int32, error) {
	n, err := jsonToInt64(j)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: int32 out of range: %d", ErrSchemaMismatch, n)
	}
	return int32(n), nil
}

func (int32Serializer) isDefault(v int32) bool { return v == 0 }

func (int32Serializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveInt32}
}

// --- int64 ---

type int64Serializer struct{}

// Int64 returns the Serializer for the int64 primitive (§4.2).
func Int64() Serializer[int64] { return int64Serializer{} }

func (int64Serializer) encode(w *writer, v int64) { writeInt64(w, v) }

func (int64Serializer) decode(r *reader, keep bool) (int64, error) { return readNumber(r) }

func (int64Serializer) toJSON(v int64, flavor Flavor) any {
	if v > maxSafeInteger || v < -maxSafeInteger {
		return strconv.FormatInt(v, 10)
	}
	return float64(v)
}

func (int64Serializer) fromJSON(j any, keep bool) (int64, error) {
	if s, ok := j.(string); ok {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return n, nil
	}
	return jsonToInt64(j)
}

func (int64Serializer) isDefault(v int64) bool { return v == 0 }

func (int64Serializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveInt64}
}

// --- uint64 ---

type uint64Serializer struct{}

// Uint64 returns the Serializer for the uint64 primitive (§4.2).
func Uint64() Serializer[uint64] { return uint64Serializer{} }

func (uint64Serializer) encode(w *writer, v uint64) { writeNonNegInt(w, v) }

func (uint64Serializer) decode(r *reader, keep bool) (uint64, error) {
	// Tag 234 carries a full u64; read it unsigned so values of 2^63 and
	// above are not taken for negative numbers.
	if tag, ok := r.peekByte(); ok && tag == _TAG_U64 {
		r.pos++
		return r.readUint64()
	}
	return readUnsignedNumber(r)
}

func (uint64Serializer) toJSON(v uint64, flavor Flavor) any {
	if v > maxSafeInteger {
		return strconv.FormatUint(v, 10)
	}
	return float64(v)
}

func (uint64Serializer) fromJSON(j any, keep bool) (uint64, error) {
	if s, ok := j.(string); ok {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return n, nil
	}
	n, err := jsonToInt64(j)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative uint64", ErrSchemaMismatch)
	}
	return uint64(n), nil
}

func (uint64Serializer) isDefault(v uint64) bool { return v == 0 }

func (uint64Serializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveUint64}
}

// --- float32 / float64 ---

type float32Serializer struct{}

// Float32 returns the Serializer for the float32 primitive (§4.2).
func Float32() Serializer[float32] { return float32Serializer{} }

func (float32Serializer) encode(w *writer, v float32) {
	if v == 0 {
		w.writeByte(0)
		return
	}
	w.writeByte(_TAG_FLOAT32)
	w.writeUint32(math.Float32bits(v))
}

func (float32Serializer) decode(r *reader, keep bool) (float32, error) {
	tag, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if tag == 0 {
		return 0, nil
	}
	if tag != _TAG_FLOAT32 {
		return 0, fmt.Errorf("%w: bad float32 tag 0x%02x", ErrMalformedWire, tag)
	}
	bits, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func (float32Serializer) toJSON(v float32, flavor Flavor) any { return floatToJSON(float64(v)) }

func (float32Serializer) fromJSON(j any, keep bool) (float32, error) {
	f, err := jsonToFloat(j)
	return float32(f), err
}

func (float32Serializer) isDefault(v float32) bool { return v == 0 }

func (float32Serializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveFloat32}
}

type float64Serializer struct{}

// Float64 returns the Serializer for the float64 primitive (§4.2).
func Float64() Serializer[float64] { return float64Serializer{} }

func (float64Serializer) encode(w *writer, v float64) {
	if v == 0 {
		w.writeByte(0)
		return
	}
	w.writeByte(_TAG_FLOAT64)
	w.writeUint64(math.Float64bits(v))
}

func (float64Serializer) decode(r *reader, keep bool) (float64, error) {
	tag, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if tag == 0 {
		return 0, nil
	}
	if tag != _TAG_FLOAT64 {
		return 0, fmt.Errorf("%w: bad float64 tag 0x%02x", ErrMalformedWire, tag)
	}
	bits, err := r.readUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func (float64Serializer) toJSON(v float64, flavor Flavor) any { return floatToJSON(v) }

func (float64Serializer) fromJSON(j any, keep bool) (float64, error) { return jsonToFloat(j) }

func (float64Serializer) isDefault(v float64) bool { return v == 0 }

func (float64Serializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveFloat64}
}

func floatToJSON(v float64) any {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return v
	}
}

func jsonToFloat(j any) (float64, error) {
	switch jt := j.(type) {
	case string:
		switch jt {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		f, err := strconv.ParseFloat(jt, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return f, nil
	case jsonNumber:
		f, err := jt.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return f, nil
	case float64:
		return jt, nil
	}
	return 0, fmt.Errorf("%w: expected number, got %T", ErrSchemaMismatch, j)
}

// --- string ---

type stringSerializer struct{}

// String returns the Serializer for the string primitive (§4.2).
func String() Serializer[string] { return stringSerializer{} }

func (stringSerializer) encode(w *writer, v string) {
	if v == "" {
		w.writeByte(_TAG_EMPTY_STRING)
		return
	}
	w.writeByte(_TAG_STRING)
	writeNonNegInt(w, uint64(len(v)))
	w.writeBytes([]byte(v))
}

func (stringSerializer) decode(r *reader, keep bool) (string, error) {
	tag, err := r.readByte()
	if err != nil {
		return "", err
	}
	switch tag {
	case _TAG_EMPTY_STRING, _TAG_DEFAULT:
		return "", nil
	case _TAG_STRING:
		n, err := readUnsignedNumber(r)
		if err != nil {
			return "", err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%w: bad string tag 0x%02x", ErrMalformedWire, tag)
}

func (stringSerializer) toJSON(v string, flavor Flavor) any { return v }

func (stringSerializer) fromJSON(j any, keep bool) (string, error) {
	if s, ok := j.(string); ok {
		return s, nil
	}
	if jsonIsZeroNumber(j) {
		return "", nil
	}
	return "", fmt.Errorf("%w: expected string, got %T", ErrSchemaMismatch, j)
}

func (stringSerializer) isDefault(v string) bool { return v == "" }

func (stringSerializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveString}
}

// --- bytes ---

type bytesSerializer struct{}

// Bytes returns the Serializer for the bytes primitive (§4.2).
func Bytes() Serializer[[]byte] { return bytesSerializer{} }

func (bytesSerializer) encode(w *writer, v []byte) {
	if len(v) == 0 {
		w.writeByte(_TAG_EMPTY_BYTES)
		return
	}
	w.writeByte(_TAG_BYTES)
	writeNonNegInt(w, uint64(len(v)))
	w.writeBytes(v)
}

func (bytesSerializer) decode(r *reader, keep bool) ([]byte, error) {
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case _TAG_EMPTY_BYTES, _TAG_DEFAULT:
		return []byte{}, nil
	case _TAG_BYTES:
		n, err := readUnsignedNumber(r)
		if err != nil {
			return nil, err
		}
		b, err := r.readN(int(n))
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	}
	return nil, fmt.Errorf("%w: bad bytes tag 0x%02x", ErrMalformedWire, tag)
}

func (bytesSerializer) toJSON(v []byte, flavor Flavor) any {
	b64 := base64.StdEncoding.EncodeToString(v)
	if flavor == Dense {
		return b64
	}
	return map[string]any{"base64": b64, "size": float64(len(v))}
}

func (bytesSerializer) fromJSON(j any, keep bool) ([]byte, error) {
	switch jt := j.(type) {
	case string:
		return decodeBase64(jt)
	case map[string]any:
		b64, _ := jt["base64"].(string)
		return decodeBase64(b64)
	}
	if jsonIsZeroNumber(j) {
		return []byte{}, nil
	}
	return nil, fmt.Errorf("%w: expected bytes, got %T", ErrSchemaMismatch, j)
}

func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return b, nil
}

func (bytesSerializer) isDefault(v []byte) bool { return len(v) == 0 }

func (bytesSerializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveBytes}
}

// --- timestamp ---

type timestampSerializer struct{}

// Timestamp returns the Serializer for the timestamp primitive (§4.2). Time
// values are truncated to millisecond precision and clamped to +/-
// 8_640_000_000_000_000 ms on both encode and decode.
func Timestamp() Serializer[time.Time] { return timestampSerializer{} }

func unixMillis(t time.Time) int64 {
	return clampTimestampMillis(t.UnixMilli())
}

func fromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(clampTimestampMillis(ms)).UTC()
}

func (timestampSerializer) encode(w *writer, v time.Time) {
	ms := unixMillis(v)
	if ms == 0 {
		w.writeByte(0)
		return
	}
	w.writeByte(_TAG_TIMESTAMP)
	w.writeUint64(uint64(ms))
}

func (timestampSerializer) decode(r *reader, keep bool) (time.Time, error) {
	tag, err := r.readByte()
	if err != nil {
		return time.Time{}, err
	}
	if tag == 0 {
		return fromUnixMillis(0), nil
	}
	if tag != _TAG_TIMESTAMP {
		return time.Time{}, fmt.Errorf("%w: bad timestamp tag 0x%02x", ErrMalformedWire, tag)
	}
	bits, err := r.readUint64()
	if err != nil {
		return time.Time{}, err
	}
	return fromUnixMillis(int64(bits)), nil
}

func (timestampSerializer) toJSON(v time.Time, flavor Flavor) any {
	ms := unixMillis(v)
	if flavor == Dense {
		return float64(ms)
	}
	return map[string]any{
		"unix_millis": float64(ms),
		"formatted":   fromUnixMillis(ms).Format(time.RFC3339Nano),
	}
}

func (timestampSerializer) fromJSON(j any, keep bool) (time.Time, error) {
	switch jt := j.(type) {
	case jsonNumber:
		n, err := jt.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return fromUnixMillis(n), nil
	case float64:
		return fromUnixMillis(int64(jt)), nil
	case map[string]any:
		n, err := jsonToInt64(jt["unix_millis"])
		if err != nil {
			return time.Time{}, err
		}
		return fromUnixMillis(n), nil
	}
	return time.Time{}, fmt.Errorf("%w: expected timestamp, got %T", ErrSchemaMismatch, j)
}

func (timestampSerializer) isDefault(v time.Time) bool { return unixMillis(v) == 0 }

func (timestampSerializer) signature() TypeSignature {
	return TypeSignature{Kind: KindPrimitive, Primitive: PrimitiveTimestamp}
}
