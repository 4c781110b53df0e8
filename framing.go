package soia

import "fmt"

// encodeFrameHeader writes the §4.3 size header shared by lists, structs
// and keyed lists. zeroTag is the byte written when size is 0: lists always
// use _TAG_LIST_INLINE_MIN (246, per §4.3's "size 0 -> byte 246"), while a
// struct's slot vector uses plain byte 0 for "every field is default"
// (§4.5). Every other size uses the same inline-count / length-prefixed
// shape regardless of zeroTag.
func encodeFrameHeader(w *writer, size int, zeroTag byte) {
	switch {
	case size == 0:
		w.writeByte(zeroTag)
	case size <= 3:
		w.writeByte(byte(_TAG_LIST_INLINE_MIN + size))
	default:
		w.writeByte(_TAG_LIST_LONG)
		writeNonNegInt(w, uint64(size))
	}
}

// decodeFrameSize reads a §4.3 size header. Byte 0 decodes as size 0
// regardless of which zeroTag an encoder used to write it (§4.5 requires
// decoders accept the bare 0 as the empty/default frame universally).
func decodeFrameSize(r *reader) (int, error) {
	tag, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case tag == _TAG_DEFAULT:
		return 0, nil
	case tag >= _TAG_LIST_INLINE_MIN && tag <= _TAG_LIST_INLINE_MAX:
		return int(tag - _TAG_LIST_INLINE_MIN), nil
	case tag == _TAG_LIST_LONG:
		n, err := readUnsignedNumber(r)
		if err != nil {
			return 0, err
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: bad frame size tag 0x%02x", ErrMalformedWire, tag)
	}
}

func isRemovedNumber(removed []int32, n int32) bool {
	for _, r := range removed {
		if r == n {
			return true
		}
	}
	return false
}
