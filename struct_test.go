// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soia

import (
	"reflect"
	"testing"
)

type point3 struct {
	X, Y, Z int32
}

func point3Serializer() Serializer[point3] {
	b := NewStruct[point3]("soia_test/point3.soia", "Point3")
	AddField(b, 0, "x", Int32(), func(p *point3) int32 { return p.X }, func(p *point3, v int32) { p.X = v })
	AddField(b, 1, "y", Int32(), func(p *point3) int32 { return p.Y }, func(p *point3, v int32) { p.Y = v })
	AddField(b, 2, "z", Int32(), func(p *point3) int32 { return p.Z }, func(p *point3, v int32) { p.Z = v })
	return b.Build()
}

func TestStructAllDefaultIsOneByte(t *testing.T) {
	s := point3Serializer()
	b := ToBytes(s, point3{})
	if len(b) != 5 || b[4] != _TAG_DEFAULT {
		t.Fatalf("expected 4-byte magic + 1 default byte, got %x", b)
	}
}

// TestStructWithHole exercises a hole in the slot vector: only X and Z are
// set, so the frame covers slots 0..2, with slot 1 (Y) emitted as a default
// byte, and the value must survive a wire round trip.
func TestStructWithHole(t *testing.T) {
	s := point3Serializer()
	v := point3{X: 1, Z: 3}
	b := ToBytes(s, v)
	got, err := FromBytes(s, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Fatalf("got %+v, want %+v", got, v)
	}
}

// point2 is an older schema that only knows about the first two fields of
// what point3 later became, used to exercise the unrecognized-tail carrier.
type point2 struct {
	X, Y         int32
	Unrecognized *Unrecognized
}

func point2Serializer() Serializer[point2] {
	b := NewStruct[point2]("soia_test/point3.soia", "Point2")
	AddField(b, 0, "x", Int32(), func(p *point2) int32 { return p.X }, func(p *point2, v int32) { p.X = v })
	AddField(b, 1, "y", Int32(), func(p *point2) int32 { return p.Y }, func(p *point2, v int32) { p.Y = v })
	UnrecognizedField(b,
		func(p *point2) *Unrecognized { return p.Unrecognized },
		func(p *point2, u *Unrecognized) { p.Unrecognized = u })
	return b.Build()
}

func TestStructUnrecognizedTailPreservedOnWire(t *testing.T) {
	newer := point3Serializer()
	older := point2Serializer()

	msg := ToBytes(newer, point3{X: 1, Y: 2, Z: 3})

	decoded, err := FromBytes(older, msg, true)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.X != 1 || decoded.Y != 2 {
		t.Fatalf("known fields not decoded: %+v", decoded)
	}
	if decoded.Unrecognized == nil || decoded.Unrecognized.Count != 1 {
		t.Fatalf("expected one trailing slot captured, got %+v", decoded.Unrecognized)
	}

	// Re-encoding with the older schema must reproduce the original bytes
	// byte-for-byte (§8 property 6: same-format round trip is exact).
	reencoded := ToBytes(older, decoded)
	if !reflect.DeepEqual(reencoded, msg) {
		t.Fatalf("re-encoded bytes differ:\n got  %x\n want %x", reencoded, msg)
	}
}

// TestStructUnrecognizedTailPreservedOnWireWithDefaultDeclaredField exercises
// the case TestStructUnrecognizedTailPreservedOnWire doesn't: the highest
// declared (non-tail) field holds its default value. The re-encode must
// still frame the declared region through the older schema's maxDeclared
// slot (not just its own highest non-default slot), or the tail gets
// shifted into Y's position instead of staying after it.
func TestStructUnrecognizedTailPreservedOnWireWithDefaultDeclaredField(t *testing.T) {
	newer := point3Serializer()
	older := point2Serializer()

	msg := ToBytes(newer, point3{X: 1, Y: 0, Z: 3})

	decoded, err := FromBytes(older, msg, true)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.X != 1 || decoded.Y != 0 {
		t.Fatalf("known fields not decoded: %+v", decoded)
	}
	if decoded.Unrecognized == nil || decoded.Unrecognized.Count != 1 {
		t.Fatalf("expected one trailing slot captured, got %+v", decoded.Unrecognized)
	}

	reencoded := ToBytes(older, decoded)
	if !reflect.DeepEqual(reencoded, msg) {
		t.Fatalf("re-encoded bytes differ:\n got  %x\n want %x", reencoded, msg)
	}
}

// TestStructUnrecognizedTailPreservedOnDenseJSON is the dense-JSON analog of
// TestStructUnrecognizedTailPreservedOnWireWithDefaultDeclaredField: the
// captured tail element's JSON array index must match the slot it was
// originally read from, even when the last declared field before it is at
// its default value.
func TestStructUnrecognizedTailPreservedOnDenseJSON(t *testing.T) {
	newer := point3Serializer()
	older := point2Serializer()

	code, err := ToJSONCode(newer, point3{X: 1, Y: 0, Z: 3}, Dense)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := FromJSONCode(older, code, true)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Unrecognized == nil || len(decoded.Unrecognized.JSON.([]any)) != 1 {
		t.Fatalf("expected one trailing slot captured, got %+v", decoded.Unrecognized)
	}

	reencoded, err := ToJSONCode(older, decoded, Dense)
	if err != nil {
		t.Fatal(err)
	}
	if string(reencoded) != string(code) {
		t.Fatalf("re-encoded JSON differs:\n got  %s\n want %s", reencoded, code)
	}
}

func TestStructUnrecognizedTailDroppedWithoutKeep(t *testing.T) {
	newer := point3Serializer()
	older := point2Serializer()

	msg := ToBytes(newer, point3{X: 1, Y: 2, Z: 3})

	decoded, err := FromBytes(older, msg, false)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Unrecognized != nil {
		t.Fatalf("expected no captured tail, got %+v", decoded.Unrecognized)
	}
}

func TestFreezeAndToBuilderAreIndependentCopies(t *testing.T) {
	type withSlice struct {
		Tags []string
	}
	builder := &withSlice{Tags: []string{"a", "b"}}
	frozen := Freeze(builder)

	builder.Tags[0] = "mutated"
	if frozen.Tags[0] != "a" {
		t.Fatalf("Freeze did not deep-copy: frozen mutated to %q", frozen.Tags[0])
	}

	builder2 := ToBuilder(frozen)
	builder2.Tags[1] = "mutated-too"
	if frozen.Tags[1] != "b" {
		t.Fatalf("ToBuilder did not deep-copy: frozen mutated to %q", frozen.Tags[1])
	}
}
