package soia

import "fmt"

// skipValue structurally parses and discards exactly one wire value without
// knowing its declared type, advancing r past it. This is what lets a
// struct decoder step over a slot it does not recognize (and, combined with
// recording r.pos before and after, capture its raw bytes for the
// Unrecognized tail) and lets an enum decoder discard the payload of an
// unrecognized value variant. Every tag in the §6.1 table is self-delimiting
// given only the tag byte, so this never needs to know whether the value
// in question is a number, a string, a nested struct, a list or an enum.
func skipValue(r *reader) error {
	tag, err := r.readByte()
	if err != nil {
		return err
	}
	switch {
	case tag <= maxSmallNumber:
		return nil
	case tag == _TAG_U16:
		_, err := r.readN(2)
		return err
	case tag == _TAG_U32:
		_, err := r.readN(4)
		return err
	case tag == _TAG_U64:
		_, err := r.readN(8)
		return err
	case tag == _TAG_NEG_I8:
		_, err := r.readN(1)
		return err
	case tag == _TAG_NEG_I16:
		_, err := r.readN(2)
		return err
	case tag == _TAG_NEG_I32:
		_, err := r.readN(4)
		return err
	case tag == _TAG_NEG_I64:
		_, err := r.readN(8)
		return err
	case tag == _TAG_TIMESTAMP:
		_, err := r.readN(8)
		return err
	case tag == _TAG_FLOAT32:
		_, err := r.readN(4)
		return err
	case tag == _TAG_FLOAT64:
		_, err := r.readN(8)
		return err
	case tag == _TAG_EMPTY_STRING, tag == _TAG_EMPTY_BYTES:
		return nil
	case tag == _TAG_STRING, tag == _TAG_BYTES:
		n, err := readUnsignedNumber(r)
		if err != nil {
			return err
		}
		_, err = r.readN(int(n))
		return err
	case tag >= _TAG_LIST_INLINE_MIN && tag <= _TAG_LIST_INLINE_MAX:
		return skipItems(r, int(tag-_TAG_LIST_INLINE_MIN))
	case tag == _TAG_LIST_LONG:
		n, err := readUnsignedNumber(r)
		if err != nil {
			return err
		}
		return skipItems(r, int(n))
	case tag >= _TAG_ENUM_SMALL_MIN && tag <= _TAG_ENUM_SMALL_MAX:
		return skipValue(r)
	case tag == _TAG_ENUM_EXTENDED:
		if _, err := readUnsignedNumber(r); err != nil {
			return err
		}
		return skipValue(r)
	default:
		return fmt.Errorf("%w: unrecognized tag 0x%02x", ErrMalformedWire, tag)
	}
}

func skipItems(r *reader, n int) error {
	for i := 0; i < n; i++ {
		if err := skipValue(r); err != nil {
			return err
		}
	}
	return nil
}
