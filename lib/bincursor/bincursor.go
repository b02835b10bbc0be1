// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bincursor

import (
	"encoding/binary"

	"github.com/bureau-foundation/imagebox/lib/imgerr"
)

// Cursor reads primitive values from a byte slice, advancing past each
// value it reads. The zero value is an empty cursor.
type Cursor struct {
	buf []byte
}

// New returns a cursor positioned at the start of buf. The cursor
// never modifies buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Empty reports whether all bytes have been consumed.
func (c *Cursor) Empty() bool {
	return len(c.buf) == 0
}

// Rest returns the unread remainder without consuming it. The returned
// slice aliases the backing buffer.
func (c *Cursor) Rest() []byte {
	return c.buf
}

// Take consumes and returns the next n bytes as a subslice of the
// backing buffer.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf) {
		return nil, imgerr.ErrTruncated
	}
	taken := c.buf[:n:n]
	c.buf = c.buf[n:]
	return taken, nil
}

// Skip consumes and discards the next n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.Take(n)
	return err
}

// U8 consumes one byte.
func (c *Cursor) U8() (byte, error) {
	if len(c.buf) < 1 {
		return 0, imgerr.ErrTruncated
	}
	b := c.buf[0]
	c.buf = c.buf[1:]
	return b, nil
}

// U16BE consumes a big-endian 16-bit value.
func (c *Cursor) U16BE() (uint16, error) {
	if len(c.buf) < 2 {
		return 0, imgerr.ErrTruncated
	}
	v := binary.BigEndian.Uint16(c.buf)
	c.buf = c.buf[2:]
	return v, nil
}

// U32BE consumes a big-endian 32-bit value.
func (c *Cursor) U32BE() (uint32, error) {
	if len(c.buf) < 4 {
		return 0, imgerr.ErrTruncated
	}
	v := binary.BigEndian.Uint32(c.buf)
	c.buf = c.buf[4:]
	return v, nil
}

// U32LE consumes a little-endian 32-bit value.
func (c *Cursor) U32LE() (uint32, error) {
	if len(c.buf) < 4 {
		return 0, imgerr.ErrTruncated
	}
	v := binary.LittleEndian.Uint32(c.buf)
	c.buf = c.buf[4:]
	return v, nil
}

// FourCC consumes a 4-byte identifier.
func (c *Cursor) FourCC() ([4]byte, error) {
	var id [4]byte
	if len(c.buf) < 4 {
		return id, imgerr.ErrTruncated
	}
	copy(id[:], c.buf)
	c.buf = c.buf[4:]
	return id, nil
}
