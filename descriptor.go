package soia

// This file defines the reflective type-descriptor data model (C7 of the
// design spec). The descriptors themselves live in the soia package (next
// to the serializers that produce them) so that every Serializer[T] can
// expose one without an import cycle; soiareflect builds the
// self-describing JSON form and the two-pass parser on top of these types,
// and soiavisit builds the visitor/transformer API on top of them.

// Kind identifies which shape a TypeSignature has.
type Kind int

const (
	KindPrimitive Kind = iota
	KindOptional
	KindArray
	KindRecord
)

// PrimitiveKind identifies which of the nine primitive types a primitive
// TypeSignature denotes.
type PrimitiveKind int

const (
	PrimitiveBool PrimitiveKind = iota
	PrimitiveInt32
	PrimitiveInt64
	PrimitiveUint64
	PrimitiveFloat32
	PrimitiveFloat64
	PrimitiveTimestamp
	PrimitiveString
	PrimitiveBytes
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt32:
		return "int32"
	case PrimitiveInt64:
		return "int64"
	case PrimitiveUint64:
		return "uint64"
	case PrimitiveFloat32:
		return "float32"
	case PrimitiveFloat64:
		return "float64"
	case PrimitiveTimestamp:
		return "timestamp"
	case PrimitiveString:
		return "string"
	case PrimitiveBytes:
		return "bytes"
	}
	return "unknown"
}

// TypeSignature is a node in a descriptor tree: either a primitive, an
// optional wrapping one inner signature, an array (list) with an item
// signature and optional key-chain, or a reference to a RecordDescriptor.
type TypeSignature struct {
	Kind      Kind
	Primitive PrimitiveKind    // valid when Kind == KindPrimitive
	Item      *TypeSignature   // valid when Kind == KindOptional or KindArray
	KeyChain  string           // valid when Kind == KindArray and a key extractor is set
	Record    *RecordDescriptor // valid when Kind == KindRecord
}

// RecordKind distinguishes struct records from enum records.
type RecordKind int

const (
	RecordStruct RecordKind = iota
	RecordEnum
)

// RecordDescriptor describes a struct or enum type. Identity is
// (ModulePath, QualifiedName); two descriptors sharing that identity in the
// same process must be the same *RecordDescriptor value (enforced by the
// registry in registry.go).
type RecordDescriptor struct {
	Kind          RecordKind
	ModulePath    string
	QualifiedName string

	// Struct-only.
	Fields        []*FieldDescriptor
	RemovedFields []int32

	// Enum-only.
	Variants       []*VariantDescriptor
	RemovedNumbers []int32

	finalized bool

	// mapFn is a type-erased door into MapFields/MapValue, set by
	// StructBuilder.Build/EnumBuilder.Build once T (or, for enums, the
	// fixed Enum type) is statically known. It lets soiavisit recurse into
	// a record's immediate children from a boxed any value without ever
	// knowing the record's concrete Go type itself — see MapChildren.
	mapFn func(v any, fn func(value any, sig TypeSignature) any) any
}

// MapChildren rebuilds v by applying fn to each of this record's immediate
// children (a struct's fields, or an enum's value-variant payload) and
// substituting fn's results, the same way MapFields/MapValue do for a
// statically-typed caller. v must be the same concrete Go type this record
// was registered for; MapChildren returns v unchanged if it is not (or if
// this descriptor predates Build, e.g. a descriptor reconstructed by
// soiareflect.Parse, which never sets mapFn).
func (d *RecordDescriptor) MapChildren(v any, fn func(value any, sig TypeSignature) any) any {
	if d.mapFn == nil {
		return v
	}
	return d.mapFn(v, fn)
}

// ID is the string used to key this record in a self-describing JSON
// "records" table: "<module_path>:<qualified_name>".
func (d *RecordDescriptor) ID() string {
	return d.ModulePath + ":" + d.QualifiedName
}

// FieldDescriptor describes one struct field.
type FieldDescriptor struct {
	Name   string
	Number int32
	Type   TypeSignature
}

// VariantDescriptor describes one enum variant. Value variants have a
// non-nil Type; constant variants have a nil Type.
type VariantDescriptor struct {
	Name   string
	Number int32
	Type   *TypeSignature
}

// IsConstant reports whether this variant carries no payload.
func (v *VariantDescriptor) IsConstant() bool {
	return v.Type == nil
}
