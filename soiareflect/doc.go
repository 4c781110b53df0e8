// Package soiareflect builds the self-describing JSON form of a type
// descriptor (C7) and parses it back.
//
// The shape mirrors spec.md §4.7: a top-level envelope carries a shared
// "records" table keyed by "<module_path>:<qualified_name>" plus a "type"
// entry point referencing into it. Struct and enum records can reference
// each other, including themselves (a record containing a list of itself,
// or two records that reference each other), so parsing is two-pass: the
// first pass allocates every record descriptor named in the table with an
// empty field/variant list, and the second pass fills those lists in,
// resolving record references against the descriptors already allocated in
// pass one rather than recursively re-parsing them.
//
// This generalizes the value-kind family sbunce-bson's bson.go builds for
// its own documents (Doc/Map/Slice/BSON) into an open, user-registered
// descriptor tree: where bson.go's "type" is one of a fixed set of wire
// kinds, a soia type descriptor can reference an arbitrary number of
// mutually-recursive record types, which is why the table-plus-entry-point
// shape (and the two-pass parse) is needed here and not there.
package soiareflect
