// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soia

import (
	"reflect"
	"testing"
)

func TestDefaultValueIsFiveBytes(t *testing.T) {
	b := ToBytes[bool](Bool(), false)
	if len(b) != 5 {
		t.Fatalf("ToBytes(default) = %d bytes, want 5: %x", len(b), b)
	}
	if string(b[:4]) != "skir" {
		t.Fatalf("missing magic prefix: %x", b)
	}
	if b[4] != _TAG_DEFAULT {
		t.Fatalf("expected trailing default tag, got 0x%02x", b[4])
	}
}

func TestInt32NegativeRoundTrip(t *testing.T) {
	s := Int32()
	v := int32(-257)
	b := ToBytes(s, v)
	got, err := FromBytes(s, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Fatalf("got %d, want %d", got, v)
	}
}

func TestStringRoundTripWireAndJSON(t *testing.T) {
	s := String()
	v := "hello"
	b := ToBytes(s, v)
	got, err := FromBytes(s, b, false)
	if err != nil || got != v {
		t.Fatalf("wire round trip: got %q, %v", got, err)
	}

	for _, flavor := range []Flavor{Dense, Readable} {
		j, err := ToJSONCode(s, v, flavor)
		if err != nil {
			t.Fatal(err)
		}
		got, err := FromJSONCode(s, j, false)
		if err != nil || got != v {
			t.Fatalf("%s json round trip: got %q, %v (json=%s)", flavor, got, err, j)
		}
	}
}

func TestListRoundTrip(t *testing.T) {
	s := List(String())
	v := []string{"a", "b"}
	b := ToBytes(s, v)
	got, err := FromBytes(s, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, v) {
		t.Fatalf("got %#v, want %#v", got, v)
	}

	j, err := ToJSONCode(s, v, Dense)
	if err != nil {
		t.Fatal(err)
	}
	gotFromJSON, err := FromJSONCode(s, j, false)
	if err != nil || !reflect.DeepEqual(gotFromJSON, v) {
		t.Fatalf("json round trip: got %#v, %v", gotFromJSON, err)
	}
}

func TestOptionalRoundTrip(t *testing.T) {
	s := Optional(String())

	v := "x"
	b := ToBytes(s, &v)
	got, err := FromBytes(s, b, false)
	if err != nil || got == nil || *got != v {
		t.Fatalf("present round trip: got %v, %v", got, err)
	}

	b = ToBytes[*string](s, nil)
	got, err = FromBytes(s, b, false)
	if err != nil || got != nil {
		t.Fatalf("absent round trip: got %v, %v", got, err)
	}
}

func TestMalformedWireReturnsError(t *testing.T) {
	_, err := FromBytes(String(), []byte("nope"), false)
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestRejectsOldMagic(t *testing.T) {
	data := append([]byte("soia"), 0)
	_, err := FromBytes(Bool(), data, false)
	if err == nil {
		t.Fatal("expected error for soia-magic message")
	}
}
