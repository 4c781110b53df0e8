/*
Package soia implements the wire, dense-JSON and readable-JSON codecs for a
family of user-defined record types (structs and enums) plus a handful of
primitive and container types.

 Wire grammar

 message  ::= magic body
 magic    ::= "skir"                          4-byte magic, see FromBytes
 body     ::= value
 value    ::= number | string | bytes | list | struct | enum

 Tag byte (first byte of any encoded value, see §6.1 of the design spec):

 tag        meaning
 0          default value of the surrounding context, or absent optional
 1..231     small non-negative int, or enum constant variant of that number
 232        u16 follows (little-endian)
 233        u32 follows
 234        u64 follows
 235        i8-range negative int follows (value = b - 256)
 236        i16-range negative int follows (value = s - 65536)
 237        i32 follows
 238        i64 follows
 239        i64 Unix-millis timestamp follows
 240        f32 bits follow
 241        f64 bits follow
 242        empty string
 243        string follows: length prefix (tag 0..234 form) then UTF-8 bytes
 244        empty bytes
 245        bytes follow: length prefix then raw bytes
 246..249   list of size 0..3, items follow inline
 248        also, in an enum position: value variant with arbitrary number;
            number (tag 0..234 form) then payload
 250        list follows: length prefix then items
 251..254   enum value variant with small number n = tag-250 (1..4), payload follows

 Values ≥ 242 are reserved for composite framing; encoders always choose the
 smallest tag that losslessly represents a given number (§4.1).

 Struct and enum instances carry an optional Unrecognized tail: bytes (for a
 wire decode) and/or a JSON element (for a JSON decode) that the reader did
 not understand but a round-trip through the *same* format must reproduce
 verbatim.

 Default elision

 A value equal to its type's canonical default encodes to a single tag
 byte: 0 for 0, false, the epoch timestamp, an absent optional, a struct
 with every field default and enum variant 0; 242 for "", 244 for empty
 bytes and 246 for an empty list. A top-level ToBytes of a default value is
 therefore always exactly 5 bytes: the 4-byte magic plus that single byte.
*/
package soia
