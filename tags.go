package soia

// Wire tags. A single byte selects the interpretation of the value that
// follows it (see doc.go and §6.1 of the design spec).
const (
	_TAG_DEFAULT        = 0x00 // default value, or absent optional
	_TAG_U16             = 232 // followed by little-endian u16
	_TAG_U32             = 233 // followed by little-endian u32
	_TAG_U64             = 234 // followed by little-endian u64
	_TAG_NEG_I8          = 235 // followed by u8 b; value = b - 256
	_TAG_NEG_I16         = 236 // followed by le u16 s; value = s - 65536
	_TAG_NEG_I32         = 237 // followed by le i32
	_TAG_NEG_I64         = 238 // followed by le i64
	_TAG_TIMESTAMP       = 239 // followed by le i64 unix-millis (reserved for timestamps)
	_TAG_FLOAT32         = 240 // followed by le u32, reinterpreted as f32
	_TAG_FLOAT64         = 241 // followed by le u64, reinterpreted as f64
	_TAG_EMPTY_STRING    = 242
	_TAG_STRING          = 243 // length prefix (§4.1) then UTF-8 bytes
	_TAG_EMPTY_BYTES     = 244
	_TAG_BYTES           = 245 // length prefix (§4.1) then raw bytes
	_TAG_LIST_INLINE_MIN = 246 // list with size 0..3; size = tag - 246
	_TAG_LIST_INLINE_MAX = 249
	_TAG_LIST_LONG       = 250 // list, length prefix (§4.1) then items
	_TAG_ENUM_SMALL_MIN  = 251 // enum value variant, number = tag - 250 (1..4)
	_TAG_ENUM_SMALL_MAX  = 254
	_TAG_ENUM_EXTENDED   = 248 // enum value variant, number follows (§4.1), then payload

	// maxSmallNumber is the largest value representable as a bare tag byte
	// (also the largest enum constant-variant number that fits in one byte).
	maxSmallNumber = 231
)

// magicSkir is the 4-byte prefix identifying a top-level binary message in
// this implementation's chosen dialect. magicSoia is the older variant seen
// elsewhere in the corpus; FromBytes rejects it explicitly rather than
// silently accepting both (§9 "dual identifier magic").
var (
	magicSkir = [4]byte{'s', 'k', 'i', 'r'}
	magicSoia = [4]byte{'s', 'o', 'i', 'a'}
)
