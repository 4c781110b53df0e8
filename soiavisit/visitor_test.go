package soiavisit_test

import (
	"reflect"
	"testing"

	"github.com/gepheum/soia-go/soiavisit"
	"github.com/gepheum/soia-go/testtypes"
)

// TestIdentityTransformerIsObservablyIdentity exercises §8 property 8: a
// Visitor whose methods all return their argument unchanged must make
// Transform itself the identity function, for a struct, a nested record
// field and a list field all at once.
func TestIdentityTransformerIsObservablyIdentity(t *testing.T) {
	email := "alice@example.com"
	u := testtypes.User{
		Name:          "Alice",
		Email:         &email,
		Tags:          []string{"admin", "eng"},
		FavoriteColor: testtypes.ColorCustom(testtypes.RGB{R: 1, G: 2, B: 3}),
	}

	got := soiavisit.Transform(testtypes.UserSerializer, u, soiavisit.BaseVisitor{})

	if got.Name != u.Name || !reflect.DeepEqual(got.Tags, u.Tags) {
		t.Fatalf("got %+v, want %+v", got, u)
	}
	if got.Email == nil || *got.Email != *u.Email {
		t.Fatalf("email not preserved: %+v", got)
	}
	if !got.FavoriteColor.Equal(u.FavoriteColor) {
		t.Fatalf("color not preserved: %+v", got.FavoriteColor)
	}
}

// redactStrings replaces every string leaf with a fixed placeholder,
// exercising VisitString's ability to reach into a nested struct field
// (FavoriteColor's RGB payload has no strings, but Name and Tags do).
type redactStrings struct{ soiavisit.BaseVisitor }

func (redactStrings) VisitString(string) any { return "[redacted]" }

func TestTransformRedactsNestedStrings(t *testing.T) {
	u := testtypes.User{Name: "Alice", Tags: []string{"admin", "eng"}}

	got := soiavisit.Transform(testtypes.UserSerializer, u, redactStrings{})

	if got.Name != "[redacted]" {
		t.Fatalf("Name not redacted: %+v", got)
	}
	want := []string{"[redacted]", "[redacted]"}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("Tags not redacted: %+v", got.Tags)
	}
}

// TestTransformRewritesEnumPayload exercises the enum `mapValue`/VisitEnum
// path: doubling every channel of a Color's RGB payload.
func TestTransformRewritesEnumPayload(t *testing.T) {
	c := testtypes.ColorCustom(testtypes.RGB{R: 1, G: 2, B: 3})

	got := soiavisit.Transform(testtypes.ColorSerializer, c, soiavisit.BaseVisitor{})
	if !got.Equal(c) {
		t.Fatalf("identity pass changed value: %+v", got)
	}

	doubled := soiavisit.Transform(testtypes.ColorSerializer, c, doublingVisitor{})
	rgb, ok := doubled.Payload().(testtypes.RGB)
	if !ok {
		t.Fatalf("expected RGB payload, got %T", doubled.Payload())
	}
	if rgb != (testtypes.RGB{R: 2, G: 4, B: 6}) {
		t.Fatalf("got %+v, want {2 4 6}", rgb)
	}
}

type doublingVisitor struct{ soiavisit.BaseVisitor }

func (doublingVisitor) VisitInt32(v int32) any { return v * 2 }
