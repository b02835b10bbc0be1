// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bincursor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bureau-foundation/imagebox/lib/imgerr"
)

func TestPrimitiveReads(t *testing.T) {
	cur := New([]byte{0x01, 0x12, 0x34, 0xDE, 0xAD, 0xBE, 0xEF, 0x78, 0x56, 0x34, 0x12, 'W', 'E', 'B', 'P', 0xAA})

	b, err := cur.U8()
	if err != nil || b != 0x01 {
		t.Fatalf("U8 = %#x, %v; want 0x01, nil", b, err)
	}

	v16, err := cur.U16BE()
	if err != nil || v16 != 0x1234 {
		t.Fatalf("U16BE = %#x, %v; want 0x1234, nil", v16, err)
	}

	v32, err := cur.U32BE()
	if err != nil || v32 != 0xDEADBEEF {
		t.Fatalf("U32BE = %#x, %v; want 0xdeadbeef, nil", v32, err)
	}

	v32, err = cur.U32LE()
	if err != nil || v32 != 0x12345678 {
		t.Fatalf("U32LE = %#x, %v; want 0x12345678, nil", v32, err)
	}

	id, err := cur.FourCC()
	if err != nil || id != [4]byte{'W', 'E', 'B', 'P'} {
		t.Fatalf("FourCC = %q, %v; want WEBP, nil", id[:], err)
	}

	if cur.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cur.Len())
	}
}

func TestTakeAliasesBuffer(t *testing.T) {
	backing := []byte{1, 2, 3, 4, 5}
	cur := New(backing)

	taken, err := cur.Take(3)
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if !bytes.Equal(taken, []byte{1, 2, 3}) {
		t.Fatalf("Take = %v, want [1 2 3]", taken)
	}
	if &taken[0] != &backing[0] {
		t.Error("Take copied instead of slicing the backing buffer")
	}
	if cur.Len() != 2 {
		t.Fatalf("Len after Take = %d, want 2", cur.Len())
	}
}

func TestTruncatedReads(t *testing.T) {
	// Every primitive must fail with ErrTruncated on a buffer that is
	// one byte too short, leaving the cursor position unchanged.
	tests := []struct {
		name string
		buf  []byte
		read func(*Cursor) error
	}{
		{"U8", nil, func(c *Cursor) error { _, err := c.U8(); return err }},
		{"U16BE", []byte{0x12}, func(c *Cursor) error { _, err := c.U16BE(); return err }},
		{"U32BE", []byte{1, 2, 3}, func(c *Cursor) error { _, err := c.U32BE(); return err }},
		{"U32LE", []byte{1, 2, 3}, func(c *Cursor) error { _, err := c.U32LE(); return err }},
		{"FourCC", []byte{'R', 'I', 'F'}, func(c *Cursor) error { _, err := c.FourCC(); return err }},
		{"Take", []byte{1, 2}, func(c *Cursor) error { _, err := c.Take(3); return err }},
		{"Skip", []byte{1, 2}, func(c *Cursor) error { return c.Skip(3) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := New(tt.buf)
			before := cur.Len()
			if err := tt.read(cur); !errors.Is(err, imgerr.ErrTruncated) {
				t.Fatalf("error = %v, want ErrTruncated", err)
			}
			if cur.Len() != before {
				t.Errorf("failed read consumed bytes: len %d -> %d", before, cur.Len())
			}
		})
	}
}

func TestNegativeTake(t *testing.T) {
	cur := New([]byte{1, 2, 3})
	if _, err := cur.Take(-1); !errors.Is(err, imgerr.ErrTruncated) {
		t.Fatalf("Take(-1) error = %v, want ErrTruncated", err)
	}
}
