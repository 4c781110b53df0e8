// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// writer is the mutable byte buffer every encoder appends to. It owns no
// resources beyond the in-memory buffer, so it needs no Close; per §5, a
// writer is local to a single encode call and never shared across goroutines.
type writer struct {
	buf bytes.Buffer
}

func newWriter() *writer {
	return &writer{}
}

func (w *writer) writeByte(b byte) {
	w.buf.WriteByte(b)
}

func (w *writer) writeBytes(b []byte) {
	w.buf.Write(b)
}

func (w *writer) writeUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) writeUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) writeUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

func (w *writer) len() int {
	return w.buf.Len()
}

// reader is a cursor over a decode buffer. Like writer, it is local to a
// single decode call (§5): no shared mutable state is observed across calls.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) atEnd() bool {
	return r.pos >= len(r.data)
}

func (r *reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("%w: %v", ErrMalformedWire, io.ErrUnexpectedEOF)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// peekByte returns the next byte without advancing the cursor. Used by the
// enum decoder to classify the next value (small-number variant, extended
// variant, or a plain constant number) before committing to a decode path,
// and by the optional decoder to check for the absent sentinel.
func (r *reader) peekByte() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	return r.data[r.pos], true
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrMalformedWire, n, r.remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) readUint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
