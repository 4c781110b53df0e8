// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import "fmt"

// optionalSerializer is Serializer[*T]; a nil pointer represents "absent"
// per §4.4. Note the same ambiguity the design spec documents for C4: a
// present inner value whose own wire encoding happens to be the single
// byte 0 (bool false, int32(0), ...) is indistinguishable on the wire from
// "absent", and decodes as absent. This is the behavior §4.4 describes, not
// an implementation bug. The same holds for a present struct whose every
// field is default and for the default enum variant, both of which also
// encode as the single byte 0. Only strings, bytes and lists, whose empty
// forms have their own tags (242, 244, 246), round-trip a present default.
type optionalSerializer[T any] struct {
	inner Serializer[T]
}

// Optional returns the Serializer for a nullable wrapper around inner
// (§4.4, C4).
func Optional[T any](inner Serializer[T]) Serializer[*T] {
	return optionalSerializer[T]{inner: inner}
}

func (s optionalSerializer[T]) encode(w *writer, v *T) {
	if v == nil {
		w.writeByte(_TAG_DEFAULT)
		return
	}
	s.inner.encode(w, *v)
}

func (s optionalSerializer[T]) decode(r *reader, keep bool) (*T, error) {
	tag, ok := r.peekByte()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformedWire)
	}
	if tag == _TAG_DEFAULT {
		if _, err := r.readByte(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := s.inner.decode(r, keep)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s optionalSerializer[T]) toJSON(v *T, flavor Flavor) any {
	if v == nil {
		return nil
	}
	return s.inner.toJSON(*v, flavor)
}

func (s optionalSerializer[T]) fromJSON(j any, keep bool) (*T, error) {
	if j == nil {
		return nil, nil
	}
	v, err := s.inner.fromJSON(j, keep)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s optionalSerializer[T]) isDefault(v *T) bool { return v == nil }

func (s optionalSerializer[T]) signature() TypeSignature {
	item := s.inner.signature()
	return TypeSignature{Kind: KindOptional, Item: &item}
}

// MapOptional replaces a present value with fn's result (fn receives the
// current value boxed as any and the wrapped type's signature); an absent
// value passes through unchanged. This is soiavisit's optional transformer
// (§4.8's `map` for optionals); the identity function satisfies §8's
// identity-transformer property.
func MapOptional[T any](s Serializer[*T], v *T, fn func(value any, sig TypeSignature) any) *T {
	os, ok := s.(optionalSerializer[T])
	if !ok || v == nil {
		return v
	}
	replaced := fn(*v, os.inner.signature())
	if typed, ok := replaced.(T); ok {
		return &typed
	}
	return v
}
