// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import (
	"fmt"
	"reflect"
)

// Enum is the runtime representation every enum type in this package uses:
// a variant number, an optional payload for value variants, and an opaque
// Unrecognized carrier for variants this process's descriptor does not
// know about (§4.6, C6). A `.soia`-generated named enum type is expected to
// be a defined alias of Enum (`type Color = soia.Enum`) with package-level
// constructor functions (ColorRed(), ColorCustom(rgb)...) built from
// NewConstant/NewValue below; see testtypes for worked examples.
type Enum struct {
	number       int32
	payload      any
	unrecognized *Unrecognized
}

// NewConstant returns the Enum value for constant variant number n.
func NewConstant(n int32) Enum { return Enum{number: n} }

// NewValue returns the Enum value for value variant number n carrying
// payload.
func NewValue[F any](n int32, payload F) Enum { return Enum{number: n, payload: payload} }

// Number returns the variant number. 0 denotes the reserved unknown/default
// variant.
func (e Enum) Number() int32 { return e.number }

// Payload returns the value-variant payload, or nil for a constant variant
// (including the default variant).
func (e Enum) Payload() any { return e.payload }

// Unrecognized returns the opaque carrier populated when this value was
// decoded as an unknown variant with keepUnrecognizedValues set, or nil.
func (e Enum) Unrecognized() *Unrecognized { return e.unrecognized }

// Equal reports field-wise equality, ignoring the Unrecognized carrier:
// two enum values naming the same variant and payload are equal regardless
// of whether one of them happens to also carry a captured unknown span from
// decoding a newer message.
func (e Enum) Equal(o Enum) bool {
	return e.number == o.number && deepEqual(e.payload, o.payload)
}

func (e Enum) isDefaultEnum() bool { return e.number == 0 && e.unrecognized == nil }

// deepCopy implements selfDeepCopier: Enum's fields are deliberately
// unexported (Number/Payload/Unrecognized are the only reads allowed), which
// hides them from deepCopyValue's reflect-based struct walk even within this
// package, so Freeze/ToBuilder need this explicit hook instead.
func (e Enum) deepCopy() any {
	cp := e
	if e.unrecognized != nil {
		u := *e.unrecognized
		cp.unrecognized = &u
	}
	if e.payload != nil {
		cp.payload = deepCopyValue(reflect.ValueOf(e.payload)).Interface()
	}
	return cp
}

// enumValueVariant closes over one value variant's payload type, the same
// way fieldBinding does for struct fields.
type enumValueVariant struct {
	name         string
	number       int32
	signature    TypeSignature
	encode       func(w *writer, payload any)
	decodePayload func(r *reader, keep bool) (any, error)
	toJSON       func(payload any, flavor Flavor) any
	fromJSON     func(j any, keep bool) (any, error)
}

// EnumBuilder assembles the Serializer for an enum type (§4.6, C6).
type EnumBuilder struct {
	desc      *RecordDescriptor
	constants map[int32]string
	values    map[int32]*enumValueVariant
	byName    map[string]int32
	built     bool
}

// NewEnum starts an EnumBuilder for the record identified by (modulePath,
// qualifiedName).
func NewEnum(modulePath, qualifiedName string) *EnumBuilder {
	return &EnumBuilder{
		desc: &RecordDescriptor{
			Kind:          RecordEnum,
			ModulePath:    modulePath,
			QualifiedName: qualifiedName,
		},
		constants: map[int32]string{},
		values:    map[int32]*enumValueVariant{},
		byName:    map[string]int32{},
	}
}

// AddConstant registers a payload-less variant. Number 0 is reserved for
// the implicit unknown/default variant and must not be registered.
func AddConstant(b *EnumBuilder, number int32, name string) *EnumBuilder {
	b.checkMutable()
	if number == 0 {
		panic(fmt.Errorf("%w: variant number 0 is reserved on %s", ErrDuplicateRegistration, b.desc.ID()))
	}
	b.checkNumberFree(number)
	b.constants[number] = name
	b.byName[name] = number
	b.desc.Variants = append(b.desc.Variants, &VariantDescriptor{Name: name, Number: number})
	return b
}

// AddValue registers a value variant carrying a payload of type F.
func AddValue[F any](b *EnumBuilder, number int32, name string, ser Serializer[F]) *EnumBuilder {
	b.checkMutable()
	if number == 0 {
		panic(fmt.Errorf("%w: variant number 0 is reserved on %s", ErrDuplicateRegistration, b.desc.ID()))
	}
	b.checkNumberFree(number)
	sig := ser.signature()
	vv := &enumValueVariant{
		name:      name,
		number:    number,
		signature: sig,
		encode:    func(w *writer, payload any) { ser.encode(w, payload.(F)) },
		decodePayload: func(r *reader, keep bool) (any, error) {
			return ser.decode(r, keep)
		},
		toJSON:   func(payload any, flavor Flavor) any { return ser.toJSON(payload.(F), flavor) },
		fromJSON: func(j any, keep bool) (any, error) { return ser.fromJSON(j, keep) },
	}
	b.values[number] = vv
	b.byName[name] = number
	b.desc.Variants = append(b.desc.Variants, &VariantDescriptor{Name: name, Number: number, Type: &sig})
	return b
}

// RemoveNumbers marks variant numbers as permanently retired: a message
// still carrying one of these numbers always decodes to the default
// variant, regardless of keepUnrecognizedValues (§4.6).
func RemoveNumbers(b *EnumBuilder, numbers ...int32) *EnumBuilder {
	b.desc.RemovedNumbers = append(b.desc.RemovedNumbers, numbers...)
	return b
}

func (b *EnumBuilder) checkMutable() {
	if b.built {
		panic(fmt.Errorf("%w: %s is already built", ErrFinalizedMutation, b.desc.ID()))
	}
}

func (b *EnumBuilder) checkNumberFree(n int32) {
	if _, ok := b.constants[n]; ok {
		panic(fmt.Errorf("%w: variant number %d already registered on %s", ErrDuplicateRegistration, n, b.desc.ID()))
	}
	if _, ok := b.values[n]; ok {
		panic(fmt.Errorf("%w: variant number %d already registered on %s", ErrDuplicateRegistration, n, b.desc.ID()))
	}
}

// Build finalizes the descriptor and returns the assembled Serializer.
func (b *EnumBuilder) Build() Serializer[Enum] {
	b.built = true
	b.desc.finalized = true
	desc := registerRecord(b.desc)
	es := &enumSerializer{
		desc:      desc,
		constants: b.constants,
		values:    b.values,
		byName:    b.byName,
	}
	desc.mapFn = func(v any, fn func(value any, sig TypeSignature) any) any {
		typed, ok := v.(Enum)
		if !ok {
			return v
		}
		return MapValue(es, typed, fn)
	}
	return es
}

type enumSerializer struct {
	desc      *RecordDescriptor
	constants map[int32]string
	values    map[int32]*enumValueVariant
	byName    map[string]int32
}

func (s *enumSerializer) encode(w *writer, v Enum) {
	if v.unrecognized != nil && v.unrecognized.Bytes != nil {
		w.writeBytes(v.unrecognized.Bytes)
		return
	}
	if v.number == 0 {
		w.writeByte(_TAG_DEFAULT)
		return
	}
	if _, ok := s.constants[v.number]; ok {
		writeNonNegInt(w, uint64(v.number))
		return
	}
	if vv, ok := s.values[v.number]; ok {
		switch {
		case v.number >= 1 && v.number <= 4:
			w.writeByte(byte(_TAG_ENUM_SMALL_MIN - 1 + v.number))
		default:
			w.writeByte(_TAG_ENUM_EXTENDED)
			writeNonNegInt(w, uint64(v.number))
		}
		vv.encode(w, v.payload)
		return
	}
	// A variant number not known to this descriptor and with no captured
	// span: nothing tells us how to frame a payload, so fall back to
	// emitting it as a bare constant number. Constructing such a value
	// without going through NewConstant/NewValue against this same
	// descriptor is a programmer error this encoder cannot detect.
	writeNonNegInt(w, uint64(v.number))
}

func (s *enumSerializer) decode(r *reader, keep bool) (Enum, error) {
	peeked, ok := r.peekByte()
	if !ok {
		return Enum{}, fmt.Errorf("%w: unexpected end of input", ErrMalformedWire)
	}
	switch {
	case peeked >= _TAG_ENUM_SMALL_MIN && peeked <= _TAG_ENUM_SMALL_MAX:
		start := r.pos
		if _, err := r.readByte(); err != nil {
			return Enum{}, err
		}
		n := int32(peeked - (_TAG_ENUM_SMALL_MIN - 1))
		return s.decodeValueVariant(r, n, keep, start)
	case peeked == _TAG_ENUM_EXTENDED:
		start := r.pos
		if _, err := r.readByte(); err != nil {
			return Enum{}, err
		}
		n, err := readUnsignedNumber(r)
		if err != nil {
			return Enum{}, err
		}
		return s.decodeValueVariant(r, int32(n), keep, start)
	default:
		start := r.pos
		n, err := readNumber(r)
		if err != nil {
			return Enum{}, err
		}
		if n < 0 {
			return Enum{}, fmt.Errorf("%w: negative enum variant number", ErrMalformedWire)
		}
		return s.decodeConstant(int32(n), keep, r, start)
	}
}

func (s *enumSerializer) decodeConstant(n int32, keep bool, r *reader, start int) (Enum, error) {
	if n == 0 {
		return Enum{}, nil
	}
	if isRemovedNumber(s.desc.RemovedNumbers, n) {
		return Enum{}, nil
	}
	if _, ok := s.constants[n]; ok {
		return Enum{number: n}, nil
	}
	if keep {
		span := append([]byte(nil), r.data[start:r.pos]...)
		return Enum{unrecognized: &Unrecognized{Bytes: span}}, nil
	}
	return Enum{}, nil
}

func (s *enumSerializer) decodeValueVariant(r *reader, n int32, keep bool, start int) (Enum, error) {
	if isRemovedNumber(s.desc.RemovedNumbers, n) {
		if err := skipValue(r); err != nil {
			return Enum{}, err
		}
		return Enum{}, nil
	}
	if vv, ok := s.values[n]; ok {
		payload, err := vv.decodePayload(r, keep)
		if err != nil {
			return Enum{}, err
		}
		return Enum{number: n, payload: payload}, nil
	}
	if err := skipValue(r); err != nil {
		return Enum{}, err
	}
	if keep {
		span := append([]byte(nil), r.data[start:r.pos]...)
		return Enum{unrecognized: &Unrecognized{Bytes: span}}, nil
	}
	return Enum{}, nil
}

func (s *enumSerializer) toJSON(v Enum, flavor Flavor) any {
	if v.unrecognized != nil && v.unrecognized.JSON != nil {
		return v.unrecognized.JSON
	}
	if v.number == 0 {
		if flavor == Readable {
			return "?"
		}
		return jsonZero
	}
	if name, ok := s.constants[v.number]; ok {
		if flavor == Readable {
			return name
		}
		return float64(v.number)
	}
	if vv, ok := s.values[v.number]; ok {
		payloadJSON := vv.toJSON(v.payload, flavor)
		if flavor == Readable {
			return map[string]any{"kind": vv.name, "value": payloadJSON}
		}
		return []any{float64(v.number), payloadJSON}
	}
	if flavor == Readable {
		return "?"
	}
	return float64(v.number)
}

func (s *enumSerializer) fromJSON(j any, keep bool) (Enum, error) {
	if str, ok := j.(string); ok {
		if n, ok := s.byName[str]; ok {
			if _, isConst := s.constants[n]; isConst {
				return Enum{number: n}, nil
			}
		}
		if str == "?" || str == "" {
			return Enum{}, nil
		}
		return Enum{}, fmt.Errorf("%w: unrecognized enum constant name %q", ErrSchemaMismatch, str)
	}
	if obj, ok := j.(map[string]any); ok {
		kind, _ := obj["kind"].(string)
		n, ok := s.byName[kind]
		if !ok {
			return Enum{}, nil // readable form is lossy for unrecognized variants
		}
		vv, ok := s.values[n]
		if !ok {
			return Enum{}, fmt.Errorf("%w: %q is not a value variant", ErrSchemaMismatch, kind)
		}
		payload, err := vv.fromJSON(obj["value"], keep)
		if err != nil {
			return Enum{}, err
		}
		return Enum{number: n, payload: payload}, nil
	}
	if jsonIsZeroNumber(j) {
		return Enum{}, nil
	}
	if arr, ok := j.([]any); ok {
		if len(arr) != 2 {
			return Enum{}, fmt.Errorf("%w: enum value variant array must have 2 elements, got %d", ErrSchemaMismatch, len(arr))
		}
		n, err := jsonToInt64(arr[0])
		if err != nil {
			return Enum{}, err
		}
		if isRemovedNumber(s.desc.RemovedNumbers, int32(n)) {
			return Enum{}, nil
		}
		if vv, ok := s.values[int32(n)]; ok {
			payload, err := vv.fromJSON(arr[1], keep)
			if err != nil {
				return Enum{}, err
			}
			return Enum{number: int32(n), payload: payload}, nil
		}
		if keep {
			return Enum{unrecognized: &Unrecognized{JSON: arr}}, nil
		}
		return Enum{}, nil
	}
	n, err := jsonToInt64(j)
	if err != nil {
		return Enum{}, fmt.Errorf("%w: expected enum name, object or array, got %T", ErrSchemaMismatch, j)
	}
	if n == 0 || isRemovedNumber(s.desc.RemovedNumbers, int32(n)) {
		return Enum{}, nil
	}
	if _, ok := s.constants[int32(n)]; ok {
		return Enum{number: int32(n)}, nil
	}
	if keep {
		return Enum{unrecognized: &Unrecognized{JSON: j}}, nil
	}
	return Enum{}, nil
}

func (s *enumSerializer) isDefault(v Enum) bool { return v.isDefaultEnum() }

func (s *enumSerializer) signature() TypeSignature {
	return TypeSignature{Kind: KindRecord, Record: s.desc}
}

// MapValue replaces v's value-variant payload with fn's result (fn receives
// the current payload boxed as any and the payload type's signature).
// Constants and the default/unknown variant pass through unchanged. This is
// soiavisit's enum transformer (§4.8's `mapValue`); the identity function
// satisfies §8's identity-transformer property.
func MapValue(s Serializer[Enum], v Enum, fn func(value any, sig TypeSignature) any) Enum {
	es, ok := s.(*enumSerializer)
	if !ok {
		return v
	}
	vv, ok := es.values[v.number]
	if !ok {
		return v
	}
	v.payload = fn(v.payload, vv.signature)
	return v
}
