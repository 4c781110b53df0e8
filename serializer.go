// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Flavor selects between the two JSON forms a Serializer can produce.
// Dense uses numeric tags and arrays (compact, suitable for persistence);
// Readable uses names and objects (suitable for debugging). See §6.2.
type Flavor int

const (
	Dense Flavor = iota
	Readable
)

func (f Flavor) String() string {
	if f == Readable {
		return "readable"
	}
	return "dense"
}

// Serializer is the vtable every wire/JSON-convertible type implements:
// encode/decode to the binary wire format, toJSON/fromJSON to either JSON
// flavor, and isDefault for the default-elision rule of §4.5/doc.go. User
// code never implements this directly; it is assembled from the
// constructors in primitive.go, list.go, optional.go, struct.go and
// enum.go (see spec.md §9's design note on a Serializer<T> vtable).
type Serializer[T any] interface {
	encode(w *writer, v T)
	decode(r *reader, keep bool) (T, error)
	toJSON(v T, flavor Flavor) any
	fromJSON(j any, keep bool) (T, error)
	isDefault(v T) bool

	// signature returns the reflective type descriptor for this
	// serializer's type (C7). Defined on the interface so soiareflect and
	// soiavisit can stay decoupled from each concrete serializer's
	// internals.
	signature() TypeSignature
}

// Signature returns the reflective type descriptor (C7) for s's type.
// signature() itself is unexported so user code can never implement
// Serializer directly; Signature is the one door back out to soiareflect
// and soiavisit, which live in separate packages and so cannot call an
// unexported interface method on a value they did not construct.
func Signature[T any](s Serializer[T]) TypeSignature {
	return s.signature()
}

// ToBytes encodes v to the binary wire format, including the 4-byte magic
// prefix. A value equal to its type's default always produces exactly 5
// bytes (§8 property 5).
func ToBytes[T any](s Serializer[T], v T) []byte {
	w := newWriter()
	w.writeBytes(magicSkir[:])
	s.encode(w, v)
	return w.bytes()
}

// FromBytes decodes a message produced by ToBytes. keepUnrecognizedValues
// controls whether slots/variants unknown to s are preserved (true) or
// silently defaulted (false) — see §4.5, §4.6 and §8 properties 6-7.
func FromBytes[T any](s Serializer[T], data []byte, keepUnrecognizedValues bool) (T, error) {
	var zero T
	if len(data) < 4 {
		return zero, fmt.Errorf("%w: message too short for magic", ErrMalformedWire)
	}
	switch {
	case bytes.Equal(data[:4], magicSkir[:]):
		// ok
	case bytes.Equal(data[:4], magicSoia[:]):
		return zero, fmt.Errorf("%w: %q magic is not supported by this implementation, only %q", ErrMalformedWire, magicSoia, magicSkir)
	default:
		return zero, fmt.Errorf("%w: missing magic prefix", ErrMalformedWire)
	}
	r := newReader(data[4:])
	v, err := s.decode(r, keepUnrecognizedValues)
	if err != nil {
		return zero, err
	}
	if !r.atEnd() {
		return zero, fmt.Errorf("%w: %d trailing byte(s) after top-level value", ErrMalformedWire, r.remaining())
	}
	return v, nil
}

// ToJSONValue converts v to its JSON tree representation (the same shape
// ToJSONCode would marshal to text), without the marshal step. Used by
// soiarpc, which decodes a whole request body to a tree once and then needs
// to hand a sub-tree to a serializer directly.
func ToJSONValue[T any](s Serializer[T], v T, flavor Flavor) any {
	return s.toJSON(v, flavor)
}

// FromJSONValue parses v from an already-decoded JSON tree (as produced by
// encoding/json.Unmarshal into an any, or by ToJSONValue), the counterpart
// to ToJSONValue.
func FromJSONValue[T any](s Serializer[T], j any, keepUnrecognizedValues bool) (T, error) {
	return s.fromJSON(j, keepUnrecognizedValues)
}

// ToJSONCode serializes v to JSON text in the requested flavor.
func ToJSONCode[T any](s Serializer[T], v T, flavor Flavor) ([]byte, error) {
	return json.Marshal(s.toJSON(v, flavor))
}

// FromJSONCode parses JSON text produced by ToJSONCode (in either flavor;
// the readable/dense decoders both accept their own flavor, and most
// primitive decoders accept either, per §4.2-§4.6).
func FromJSONCode[T any](s Serializer[T], data []byte, keepUnrecognizedValues bool) (T, error) {
	var zero T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return s.fromJSON(tree, keepUnrecognizedValues)
}
