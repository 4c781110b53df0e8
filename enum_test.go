// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soia

import (
	"reflect"
	"testing"
)

const (
	shapeCircle int32 = iota + 1
	shapeSquare
	shapeTriangle // added later; older schemas won't know about it
)

func shapeSerializerV1() Serializer[Enum] {
	b := NewEnum("soia_test/shape.soia", "ShapeV1")
	AddConstant(b, shapeCircle, "circle")
	AddConstant(b, shapeSquare, "square")
	return b.Build()
}

func shapeSerializerV2() Serializer[Enum] {
	b := NewEnum("soia_test/shape.soia", "ShapeV2")
	AddConstant(b, shapeCircle, "circle")
	AddConstant(b, shapeSquare, "square")
	AddConstant(b, shapeTriangle, "triangle")
	return b.Build()
}

func TestEnumDefaultIsOneByte(t *testing.T) {
	s := shapeSerializerV2()
	b := ToBytes(s, Enum{})
	if len(b) != 5 || b[4] != _TAG_DEFAULT {
		t.Fatalf("expected 4-byte magic + 1 default byte, got %x", b)
	}
}

func TestEnumConstantRoundTrip(t *testing.T) {
	s := shapeSerializerV2()
	v := NewConstant(shapeSquare)
	b := ToBytes(s, v)
	got, err := FromBytes(s, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(v) {
		t.Fatalf("got %+v, want %+v", got, v)
	}
}

// TestEnumUnknownVariantPreservedOnWire exercises §8's "enum
// unknown-preservation" scenario directly: an older reader that does not
// know about "triangle" must still round-trip a message naming it, when
// asked to keep unrecognized values.
func TestEnumUnknownVariantPreservedOnWire(t *testing.T) {
	newer := shapeSerializerV2()
	older := shapeSerializerV1()

	msg := ToBytes(newer, NewConstant(shapeTriangle))

	decoded, err := FromBytes(older, msg, true)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Unrecognized() == nil {
		t.Fatalf("expected unrecognized variant to be captured, got %+v", decoded)
	}

	reencoded := ToBytes(older, decoded)
	if !reflect.DeepEqual(reencoded, msg) {
		t.Fatalf("re-encoded bytes differ:\n got  %x\n want %x", reencoded, msg)
	}
}

func TestEnumUnknownVariantDroppedWithoutKeep(t *testing.T) {
	newer := shapeSerializerV2()
	older := shapeSerializerV1()

	msg := ToBytes(newer, NewConstant(shapeTriangle))

	decoded, err := FromBytes(older, msg, false)
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.Equal(Enum{}) {
		t.Fatalf("expected default value, got %+v", decoded)
	}
}

func TestEnumValueVariantRoundTrip(t *testing.T) {
	b := NewEnum("soia_test/withpayload.soia", "WithPayload")
	AddConstant(b, 1, "none")
	AddValue(b, 2, "label", String())
	s := b.Build()

	v := NewValue(2, "hello")
	bytes := ToBytes(s, v)
	got, err := FromBytes(s, bytes, false)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(v) {
		t.Fatalf("got %+v, want %+v", got, v)
	}

	j, err := ToJSONCode(s, v, Dense)
	if err != nil {
		t.Fatal(err)
	}
	gotFromJSON, err := FromJSONCode(s, j, false)
	if err != nil || !gotFromJSON.Equal(v) {
		t.Fatalf("json round trip: got %+v, %v (json=%s)", gotFromJSON, err, j)
	}
}
