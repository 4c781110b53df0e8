// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testtypes

import (
	"reflect"
	"testing"

	soia "github.com/gepheum/soia-go"
)

func TestPointWireRoundTrip(t *testing.T) {
	p := Point{X: 3, Y: -4}
	b := soia.ToBytes(PointSerializer, p)
	got, err := soia.FromBytes(PointSerializer, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestColorConstantAndValueVariant(t *testing.T) {
	for _, c := range []testcaseColor{
		{name: "unknown", value: ColorUnknown()},
		{name: "red", value: ColorRed()},
		{name: "custom", value: ColorCustom(RGB{R: 10, G: 20, B: 30})},
	} {
		t.Run(c.name, func(t *testing.T) {
			b := soia.ToBytes(ColorSerializer, c.value)
			got, err := soia.FromBytes(ColorSerializer, b, false)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(c.value) {
				t.Fatalf("got %+v, want %+v", got, c.value)
			}
		})
	}
}

type testcaseColor struct {
	name  string
	value Color
}

func TestUserDenseAndReadableJSON(t *testing.T) {
	email := "alice@example.com"
	u := User{
		Name:          "Alice",
		Email:         &email,
		Tags:          []string{"admin", "eng"},
		FavoriteColor: ColorCustom(RGB{R: 1, G: 2, B: 3}),
	}

	for _, flavor := range []soia.Flavor{soia.Dense, soia.Readable} {
		j, err := soia.ToJSONCode(UserSerializer, u, flavor)
		if err != nil {
			t.Fatal(err)
		}
		got, err := soia.FromJSONCode(UserSerializer, j, false)
		if err != nil {
			t.Fatalf("%s: %v (json=%s)", flavor, err, j)
		}
		if got.Name != u.Name || !reflect.DeepEqual(got.Tags, u.Tags) {
			t.Fatalf("%s: got %+v, want %+v (json=%s)", flavor, got, u, j)
		}
		if got.Email == nil || *got.Email != *u.Email {
			t.Fatalf("%s: email not preserved: %+v (json=%s)", flavor, got, j)
		}
		if !got.FavoriteColor.Equal(u.FavoriteColor) {
			t.Fatalf("%s: color not preserved: %+v (json=%s)", flavor, got.FavoriteColor, j)
		}
	}
}

func TestUserWireDefaultIsFiveBytes(t *testing.T) {
	b := soia.ToBytes(UserSerializer, User{})
	if len(b) != 5 {
		t.Fatalf("expected 5-byte default message, got %d: %x", len(b), b)
	}
}

func TestGroupKeyedListLookup(t *testing.T) {
	alice := User{Name: "alice"}
	bob := User{Name: "bob"}
	g := Group{
		Title: "core",
		Members: soia.KeyedSlice[User, string]{
			Items:   []User{alice, bob},
			KeyFunc: func(u User) string { return u.Name },
		},
	}

	if got, ok := g.Members.Get("bob"); !ok || got.Name != "bob" {
		t.Fatalf("Get(%q) = %+v, %v", "bob", got, ok)
	}
	if _, ok := g.Members.Get("carol"); ok {
		t.Fatal("Get(carol) unexpectedly found")
	}

	b := soia.ToBytes(GroupSerializer, g)
	decoded, err := soia.FromBytes(GroupSerializer, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.Members.Equal(g.Members) {
		t.Fatalf("members not preserved: got %+v, want %+v", decoded.Members, g.Members)
	}
	if got, ok := decoded.Members.Get("alice"); !ok || got.Name != "alice" {
		t.Fatalf("decoded lookup broken: %+v, %v", got, ok)
	}
}
