package soiavisit

import (
	"fmt"
	"reflect"
	"time"

	soia "github.com/gepheum/soia-go"
)

// Visitor is called once per descriptor node as Transform walks a value.
// Every method receives the node it was called for already rebuilt from its
// own children (composites are visited bottom-up) and returns the value to
// substitute in its place. Embed BaseVisitor to inherit identity behavior
// for methods you don't care about: per §8's identity-transformer property,
// a Visitor whose methods all return their argument unchanged makes
// Transform itself the identity function.
type Visitor interface {
	VisitBool(v bool) any
	VisitInt32(v int32) any
	VisitInt64(v int64) any
	VisitUint64(v uint64) any
	VisitFloat32(v float32) any
	VisitFloat64(v float64) any
	VisitTimestamp(v time.Time) any
	VisitString(v string) any
	VisitBytes(v []byte) any

	// VisitOptional, VisitArray, VisitStruct and VisitEnum receive the
	// composite's own TypeSignature (the "equivalence witness" of §4.8: it
	// names the exact item/field/payload shape every value Transform
	// handed to this node's children was built from, so a Visitor that
	// wants to recurse further itself — rather than just post-process the
	// bottom-up result — can do so against a proven-matching descriptor
	// instead of an untyped guess) and the value already rebuilt from its
	// children.
	VisitOptional(sig soia.TypeSignature, v any) any
	VisitArray(sig soia.TypeSignature, v any) any
	VisitStruct(sig soia.TypeSignature, v any) any
	VisitEnum(sig soia.TypeSignature, v any) any
}

// BaseVisitor implements Visitor with the identity function everywhere.
// Embed it in a struct that overrides only the methods it needs.
type BaseVisitor struct{}

func (BaseVisitor) VisitBool(v bool) any             { return v }
func (BaseVisitor) VisitInt32(v int32) any           { return v }
func (BaseVisitor) VisitInt64(v int64) any           { return v }
func (BaseVisitor) VisitUint64(v uint64) any         { return v }
func (BaseVisitor) VisitFloat32(v float32) any       { return v }
func (BaseVisitor) VisitFloat64(v float64) any       { return v }
func (BaseVisitor) VisitTimestamp(v time.Time) any   { return v }
func (BaseVisitor) VisitString(v string) any         { return v }
func (BaseVisitor) VisitBytes(v []byte) any          { return v }
func (BaseVisitor) VisitOptional(_ soia.TypeSignature, v any) any { return v }
func (BaseVisitor) VisitArray(_ soia.TypeSignature, v any) any    { return v }
func (BaseVisitor) VisitStruct(_ soia.TypeSignature, v any) any   { return v }
func (BaseVisitor) VisitEnum(_ soia.TypeSignature, v any) any     { return v }

// Transform rebuilds v by applying visitor at every node of s's descriptor
// tree, struct fields and enum payloads included (§4.8).
func Transform[T any](s soia.Serializer[T], v T, visitor Visitor) T {
	sig := soia.Signature(s)
	result := transform(v, sig, visitor)
	typed, _ := result.(T)
	return typed
}

func transform(v any, sig soia.TypeSignature, visitor Visitor) any {
	switch sig.Kind {
	case soia.KindPrimitive:
		return transformPrimitive(v, sig.Primitive, visitor)
	case soia.KindOptional:
		return transformOptional(v, sig, visitor)
	case soia.KindArray:
		return transformArray(v, sig, visitor)
	case soia.KindRecord:
		children := func(child any, childSig soia.TypeSignature) any {
			return transform(child, childSig, visitor)
		}
		rebuilt := sig.Record.MapChildren(v, children)
		if sig.Record.Kind == soia.RecordStruct {
			return visitor.VisitStruct(sig, rebuilt)
		}
		return visitor.VisitEnum(sig, rebuilt)
	default:
		panic(fmt.Sprintf("soiavisit: unknown type signature kind %d", sig.Kind))
	}
}

func transformPrimitive(v any, kind soia.PrimitiveKind, visitor Visitor) any {
	switch kind {
	case soia.PrimitiveBool:
		return visitor.VisitBool(v.(bool))
	case soia.PrimitiveInt32:
		return visitor.VisitInt32(v.(int32))
	case soia.PrimitiveInt64:
		return visitor.VisitInt64(v.(int64))
	case soia.PrimitiveUint64:
		return visitor.VisitUint64(v.(uint64))
	case soia.PrimitiveFloat32:
		return visitor.VisitFloat32(v.(float32))
	case soia.PrimitiveFloat64:
		return visitor.VisitFloat64(v.(float64))
	case soia.PrimitiveTimestamp:
		return visitor.VisitTimestamp(v.(time.Time))
	case soia.PrimitiveString:
		return visitor.VisitString(v.(string))
	case soia.PrimitiveBytes:
		return visitor.VisitBytes(v.([]byte))
	default:
		panic(fmt.Sprintf("soiavisit: unknown primitive kind %d", kind))
	}
}

// transformOptional unwraps a *T, recurses into the pointee if present, and
// rewraps. Pointer (not record) shape is the one place Transform falls back
// to reflect instead of a soia-package door: there is no per-field closure
// to erase here, just a single level of indirection.
func transformOptional(v any, sig soia.TypeSignature, visitor Visitor) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return visitor.VisitOptional(sig, v)
	}
	inner := transform(rv.Elem().Interface(), *sig.Item, visitor)
	ptr := reflect.New(rv.Type().Elem())
	if inner != nil {
		ptr.Elem().Set(reflect.ValueOf(inner))
	}
	return visitor.VisitOptional(sig, ptr.Interface())
}

// transformArray handles both a plain []T and a soia.KeyedSlice[T,K], whose
// Items/KeyFunc fields are both exported for exactly this kind of generic
// reflect-based access (see list.go).
func transformArray(v any, sig soia.TypeSignature, visitor Visitor) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return visitor.VisitArray(sig, v)
	}
	if rv.Kind() == reflect.Struct {
		itemsField := rv.FieldByName("Items")
		out := reflect.MakeSlice(itemsField.Type(), itemsField.Len(), itemsField.Len())
		for i := 0; i < itemsField.Len(); i++ {
			child := transform(itemsField.Index(i).Interface(), *sig.Item, visitor)
			if child != nil {
				out.Index(i).Set(reflect.ValueOf(child))
			}
		}
		rebuilt := reflect.New(rv.Type()).Elem()
		rebuilt.FieldByName("Items").Set(out)
		rebuilt.FieldByName("KeyFunc").Set(rv.FieldByName("KeyFunc"))
		return visitor.VisitArray(sig, rebuilt.Interface())
	}

	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		child := transform(rv.Index(i).Interface(), *sig.Item, visitor)
		if child != nil {
			out.Index(i).Set(reflect.ValueOf(child))
		}
	}
	return visitor.VisitArray(sig, out.Interface())
}
