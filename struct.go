// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import (
	"fmt"
	"reflect"
	"sort"
)

// fieldBinding closes over a single field's accessor pair and its
// Serializer, erasing the field's own concrete type F so a structSerializer
// can hold a uniform slice of them. This is the runtime shape that a
// `.soia`-generated Go struct would be paired with at init time (spec.md
// §9's design note): the struct type itself stays a plain Go struct with
// plain exported fields, and a package-level StructBuilder wires each field
// number to a getter/setter pair plus the Serializer for that field's type.
type fieldBinding[T any] struct {
	number    int32
	name      string
	signature TypeSignature
	encode    func(w *writer, v *T)
	decode    func(r *reader, v *T, keep bool) error
	toJSON    func(v *T, flavor Flavor) any
	fromJSON  func(v *T, j any, keep bool) error
	isDefault func(v *T) bool
	mapField  func(v *T, fn func(value any, sig TypeSignature) any)
}

// StructBuilder assembles the Serializer for a struct type T one field at a
// time, then produces the reflective descriptor and a RecordStruct
// Serializer together (§4.5, C5).
type StructBuilder[T any] struct {
	desc            *RecordDescriptor
	fields          map[int32]*fieldBinding[T]
	byName          map[string]*fieldBinding[T]
	getUnrecognized func(*T) *Unrecognized
	setUnrecognized func(*T, *Unrecognized)
	built           bool
}

// NewStruct starts a StructBuilder for the record identified by
// (modulePath, qualifiedName).
func NewStruct[T any](modulePath, qualifiedName string) *StructBuilder[T] {
	return &StructBuilder[T]{
		desc: &RecordDescriptor{
			Kind:          RecordStruct,
			ModulePath:    modulePath,
			QualifiedName: qualifiedName,
		},
		fields: map[int32]*fieldBinding[T]{},
		byName: map[string]*fieldBinding[T]{},
	}
}

// AddField registers field number slot, reachable through get/set, whose
// wire type is described by ser. Field numbers must be unique within a
// struct and are never reused once removed (RemoveFields records that).
func AddField[T any, F any](b *StructBuilder[T], slot int32, name string, ser Serializer[F], get func(*T) F, set func(*T, F)) *StructBuilder[T] {
	if b.built {
		panic(fmt.Errorf("%w: %s is already built", ErrFinalizedMutation, b.desc.ID()))
	}
	if _, exists := b.fields[slot]; exists {
		panic(fmt.Errorf("%w: field number %d already registered on %s", ErrDuplicateRegistration, slot, b.desc.ID()))
	}
	fb := &fieldBinding[T]{
		number:    slot,
		name:      name,
		signature: ser.signature(),
		encode:    func(w *writer, v *T) { ser.encode(w, get(v)) },
		decode: func(r *reader, v *T, keep bool) error {
			fv, err := ser.decode(r, keep)
			if err != nil {
				return err
			}
			set(v, fv)
			return nil
		},
		toJSON: func(v *T, flavor Flavor) any { return ser.toJSON(get(v), flavor) },
		fromJSON: func(v *T, j any, keep bool) error {
			fv, err := ser.fromJSON(j, keep)
			if err != nil {
				return err
			}
			set(v, fv)
			return nil
		},
		isDefault: func(v *T) bool { return ser.isDefault(get(v)) },
	}
	fb.mapField = func(v *T, fn func(value any, sig TypeSignature) any) {
		replaced := fn(get(v), fb.signature)
		if typed, ok := replaced.(F); ok {
			set(v, typed)
		}
	}
	b.fields[slot] = fb
	b.byName[name] = fb
	b.desc.Fields = append(b.desc.Fields, &FieldDescriptor{Name: name, Number: slot, Type: fb.signature})
	return b
}

// RemoveFields marks field numbers as permanently retired: a message that
// still carries one of these slots always decodes it to default, regardless
// of keepUnrecognizedValues (§4.5).
func RemoveFields[T any](b *StructBuilder[T], slots ...int32) *StructBuilder[T] {
	b.desc.RemovedFields = append(b.desc.RemovedFields, slots...)
	return b
}

// UnrecognizedField wires get/set for the struct's *Unrecognized carrier
// field, used to preserve slots this build doesn't declare (§4.5). Optional:
// a struct with no unrecognized field still round-trips every field it
// declares, it just drops data from slots it has never heard of.
func UnrecognizedField[T any](b *StructBuilder[T], get func(*T) *Unrecognized, set func(*T, *Unrecognized)) *StructBuilder[T] {
	b.getUnrecognized = get
	b.setUnrecognized = set
	return b
}

// Build finalizes the descriptor and returns the assembled Serializer.
func (b *StructBuilder[T]) Build() Serializer[T] {
	b.built = true
	b.desc.finalized = true
	desc := registerRecord(b.desc)
	maxDeclared := int32(-1)
	for slot := range b.fields {
		if slot > maxDeclared {
			maxDeclared = slot
		}
	}
	ss := &structSerializer[T]{
		desc:            desc,
		fields:          b.fields,
		byName:          b.byName,
		maxDeclared:     maxDeclared,
		getUnrecognized: b.getUnrecognized,
		setUnrecognized: b.setUnrecognized,
	}
	desc.mapFn = func(v any, fn func(value any, sig TypeSignature) any) any {
		typed, ok := v.(T)
		if !ok {
			return v
		}
		return MapFields[T](ss, typed, fn)
	}
	return ss
}

type structSerializer[T any] struct {
	desc            *RecordDescriptor
	fields          map[int32]*fieldBinding[T]
	byName          map[string]*fieldBinding[T]
	maxDeclared     int32
	getUnrecognized func(*T) *Unrecognized
	setUnrecognized func(*T, *Unrecognized)
}

func (s *structSerializer[T]) highestNonDefault(v *T) int32 {
	hi := int32(-1)
	for slot, fb := range s.fields {
		if slot > hi && !fb.isDefault(v) {
			hi = slot
		}
	}
	return hi
}

func (s *structSerializer[T]) tail(v *T) *Unrecognized {
	if s.getUnrecognized == nil {
		return nil
	}
	return s.getUnrecognized(v)
}

func (s *structSerializer[T]) encode(w *writer, v T) {
	hi := s.highestNonDefault(&v)
	tail := s.tail(&v)
	tailCount := 0
	if tail != nil && tail.Bytes != nil {
		tailCount = tail.Count
	}
	// A captured tail was read starting at slot maxDeclared+1 (decode below
	// keys it off s.maxDeclared, not off the decoded value's own highest
	// non-default slot), so re-encoding must frame the declared region
	// through maxDeclared whenever a tail is present — otherwise any
	// default-valued declared slots above hi get silently dropped and the
	// tail bytes shift left of their original absolute positions.
	declaredEnd := hi
	if tailCount > 0 && s.maxDeclared > declaredEnd {
		declaredEnd = s.maxDeclared
	}
	size := int(declaredEnd) + 1 + tailCount
	if size < 0 {
		size = 0
	}
	encodeFrameHeader(w, size, _TAG_DEFAULT)
	for slot := int32(0); slot <= declaredEnd; slot++ {
		if fb, ok := s.fields[slot]; ok {
			fb.encode(w, &v)
		} else {
			w.writeByte(_TAG_DEFAULT)
		}
	}
	if tailCount > 0 {
		w.writeBytes(tail.Bytes)
	}
}

func (s *structSerializer[T]) decode(r *reader, keep bool) (T, error) {
	var v T
	size, err := decodeFrameSize(r)
	if err != nil {
		return v, err
	}
	var tailBuf *writer
	tailCount := 0
	for slot := 0; slot < size; slot++ {
		if fb, ok := s.fields[int32(slot)]; ok {
			if err := fb.decode(r, &v, keep); err != nil {
				return v, err
			}
			continue
		}
		if isRemovedNumber(s.desc.RemovedFields, int32(slot)) {
			if err := skipValue(r); err != nil {
				return v, err
			}
			continue
		}
		start := r.pos
		if err := skipValue(r); err != nil {
			return v, err
		}
		if keep && int32(slot) > s.maxDeclared {
			if tailBuf == nil {
				tailBuf = newWriter()
			}
			tailBuf.writeBytes(r.data[start:r.pos])
			tailCount++
		}
	}
	if tailBuf != nil && s.setUnrecognized != nil {
		s.setUnrecognized(&v, &Unrecognized{Bytes: tailBuf.bytes(), Count: tailCount})
	}
	return v, nil
}

func (s *structSerializer[T]) sortedFields() []*fieldBinding[T] {
	out := make([]*fieldBinding[T], 0, len(s.fields))
	for _, fb := range s.fields {
		out = append(out, fb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].number < out[j].number })
	return out
}

func (s *structSerializer[T]) toJSON(v T, flavor Flavor) any {
	if flavor == Readable {
		obj := make(map[string]any, len(s.fields))
		for _, fb := range s.sortedFields() {
			if fb.isDefault(&v) {
				continue
			}
			obj[fb.name] = fb.toJSON(&v, flavor)
		}
		return obj
	}

	hi := s.highestNonDefault(&v)
	tail := s.tail(&v)
	var tailJSON []any
	if tail != nil {
		if arr, ok := tail.JSON.([]any); ok {
			tailJSON = arr
		}
	}
	// See the matching comment in encode: a captured tail's absolute slot
	// positions start at maxDeclared+1, so the declared region must be
	// framed through maxDeclared (not just hi) whenever a tail is present.
	declaredEnd := hi
	if len(tailJSON) > 0 && s.maxDeclared > declaredEnd {
		declaredEnd = s.maxDeclared
	}
	size := int(declaredEnd) + 1 + len(tailJSON)
	if size == 0 {
		return jsonZero
	}
	arr := make([]any, size)
	for slot := int32(0); slot <= declaredEnd; slot++ {
		if fb, ok := s.fields[slot]; ok {
			arr[slot] = fb.toJSON(&v, Dense)
		} else {
			arr[slot] = jsonZero
		}
	}
	for i, el := range tailJSON {
		arr[int(declaredEnd)+1+i] = el
	}
	return arr
}

func (s *structSerializer[T]) fromJSON(j any, keep bool) (T, error) {
	var v T
	if flavorObj, ok := j.(map[string]any); ok {
		for name, el := range flavorObj {
			fb, ok := s.byName[name]
			if !ok {
				continue // readable form is lossy for unrecognized keys, §6.2
			}
			if err := fb.fromJSON(&v, el, keep); err != nil {
				return v, err
			}
		}
		return v, nil
	}
	if jsonIsZeroNumber(j) {
		return v, nil
	}
	arr, ok := j.([]any)
	if !ok {
		return v, fmt.Errorf("%w: expected struct array or object, got %T", ErrSchemaMismatch, j)
	}
	var tailJSON []any
	for idx, el := range arr {
		slot := int32(idx)
		if fb, ok := s.fields[slot]; ok {
			if err := fb.fromJSON(&v, el, keep); err != nil {
				return v, err
			}
			continue
		}
		if isRemovedNumber(s.desc.RemovedFields, slot) {
			continue
		}
		if keep && slot > s.maxDeclared {
			tailJSON = append(tailJSON, el)
		}
	}
	if len(tailJSON) > 0 && s.setUnrecognized != nil {
		s.setUnrecognized(&v, &Unrecognized{JSON: tailJSON})
	}
	return v, nil
}

func (s *structSerializer[T]) isDefault(v T) bool {
	return s.highestNonDefault(&v) < 0 && s.tail(&v) == nil
}

func (s *structSerializer[T]) signature() TypeSignature {
	return TypeSignature{Kind: KindRecord, Record: s.desc}
}

// jsonZero is the dense-JSON representation of "this slot/field was never
// set", shared by struct slots and the all-default struct shortcut. Matches
// the plain float64(0) primitive.go's int/float encoders emit for zero.
var jsonZero any = float64(0)

// MapFields rebuilds v field-by-field, replacing each field's current value
// with fn's result; fn receives the field's value boxed as any together
// with its type signature, and must return a value assignable back to that
// same field's type (a mismatched type is dropped, leaving the field
// unchanged). This is soiavisit's struct transformer (§4.8's `mapFields`):
// the identity function (return the value unchanged) satisfies §8's
// identity-transformer property, since every field is read and set back
// without modification. A serializer that isn't a struct leaves v alone.
func MapFields[T any](s Serializer[T], v T, fn func(value any, sig TypeSignature) any) T {
	ss, ok := s.(*structSerializer[T])
	if !ok {
		return v
	}
	for _, fb := range ss.fields {
		fb.mapField(&v, fn)
	}
	return v
}

// --- Frozen / Builder duality (§3) ---

// Freeze produces an independent, deeply-copied value from a mutable
// builder pointer. Because Go struct values already copy by value, a
// "frozen" instance is simply a T obtained by deep-copying every
// pointer/slice/map reachable from *builder, so later mutation of the
// builder (or of slices/maps it shares with other code) can never be
// observed through the frozen value.
func Freeze[T any](builder *T) T {
	cp := deepCopyValue(reflect.ValueOf(*builder))
	return cp.Interface().(T)
}

// ToBuilder returns a mutable, deeply-copied pointer seeded from frozen, so
// mutating the builder can never be observed through frozen itself.
func ToBuilder[T any](frozen T) *T {
	cp := deepCopyValue(reflect.ValueOf(frozen)).Interface().(T)
	return &cp
}

// selfDeepCopier lets a type whose state lives in unexported fields (Enum,
// specifically) hand deepCopyValue an independent copy directly, since
// reflection cannot see those fields even from this same package.
type selfDeepCopier interface{ deepCopy() any }

func deepCopyValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		cp := reflect.New(v.Type().Elem())
		cp.Elem().Set(deepCopyValue(v.Elem()))
		return cp
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			cp.Index(i).Set(deepCopyValue(v.Index(i)))
		}
		return cp
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		cp := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), deepCopyValue(iter.Value()))
		}
		return cp
	case reflect.Struct:
		if v.CanInterface() {
			if dc, ok := v.Interface().(selfDeepCopier); ok {
				return reflect.ValueOf(dc.deepCopy())
			}
		}
		cp := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if !f.CanInterface() {
				// Unexported field: every field this library's own types
				// need deep-copied (KeyedSlice's Items/KeyFunc, a struct's
				// Unrecognized carrier, ...) is exported for exactly this
				// reason, so this path is only reached for a field outside
				// the library's control; it is left zero-valued.
				continue
			}
			cp.Field(i).Set(deepCopyValue(f))
		}
		return cp
	default:
		return v
	}
}
