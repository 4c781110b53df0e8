// Package soiavisit implements the visitor / reflective transformer (C8):
// a per-kind dispatch over a value's type descriptor, plus a generic
// Transform that rebuilds a value by applying a Visitor at every node.
//
// The dispatch itself is grounded on sbunce-bson's bson.go print function,
// which type-switches over a BSON value's fixed wire kind; here the switch
// is over soia.TypeSignature.Kind, an open, user-registered descriptor tree
// instead of a fixed set of kinds, so recursing into a struct's fields or
// an enum's payload can't be written as a plain Go type switch — it goes
// through the type-erased RecordDescriptor.MapChildren door instead (set up
// when the struct/enum's Serializer is built, back in package soia, the one
// place that still has the concrete Go type statically in hand).
package soiavisit
