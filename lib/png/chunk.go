// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/bureau-foundation/imagebox/lib/bincursor"
	"github.com/bureau-foundation/imagebox/lib/imgerr"
)

// Chunk is a single PNG chunk: a 4-byte kind, its contents, and the
// CRC covering both. The CRC is computed on construction and verified
// on parse, so a Chunk in hand is always internally consistent.
type Chunk struct {
	kind     [4]byte
	contents []byte
	crc      [4]byte
}

// NewChunk builds a chunk of the given kind, computing its CRC.
func NewChunk(kind [4]byte, contents []byte) Chunk {
	return Chunk{kind: kind, contents: contents, crc: computeCRC(kind, contents)}
}

// readChunk parses one chunk from the cursor. The contents alias the
// cursor's buffer. Returns imgerr.ErrBadCRC if the stored CRC does
// not match the chunk data, and imgerr.ErrTruncated if the buffer
// ends mid-chunk.
func readChunk(cur *bincursor.Cursor) (Chunk, error) {
	length, err := cur.U32BE()
	if err != nil {
		return Chunk{}, fmt.Errorf("reading chunk length: %w", err)
	}
	kind, err := cur.FourCC()
	if err != nil {
		return Chunk{}, fmt.Errorf("reading chunk kind: %w", err)
	}
	contents, err := cur.Take(int(length))
	if err != nil {
		return Chunk{}, fmt.Errorf("reading %q contents: %w", kind[:], err)
	}
	crc, err := cur.FourCC()
	if err != nil {
		return Chunk{}, fmt.Errorf("reading %q crc: %w", kind[:], err)
	}

	if crc != computeCRC(kind, contents) {
		return Chunk{}, fmt.Errorf("chunk %q: %w", kind[:], imgerr.ErrBadCRC)
	}
	return Chunk{kind: kind, contents: contents, crc: crc}, nil
}

// Kind returns the chunk's 4-byte type code.
func (c *Chunk) Kind() [4]byte {
	return c.kind
}

// Contents returns the chunk payload, excluding length, kind, and CRC.
func (c *Chunk) Contents() []byte {
	return c.contents
}

// EncodedLen returns the on-wire size: length field, kind, contents,
// and CRC.
func (c *Chunk) EncodedLen() int {
	return 4 + 4 + len(c.contents) + 4
}

// FragmentAt yields three fragments: the 8-byte length-and-kind
// header, the contents, and the CRC.
func (c *Chunk) FragmentAt(pos *int) ([]byte, bool) {
	switch *pos {
	case 0:
		header := make([]byte, 8)
		binary.BigEndian.PutUint32(header, uint32(len(c.contents)))
		copy(header[4:], c.kind[:])
		return header, true
	case 1:
		return c.contents, true
	case 2:
		return c.crc[:], true
	default:
		*pos -= 3
		return nil, false
	}
}

func computeCRC(kind [4]byte, contents []byte) [4]byte {
	h := crc32.NewIEEE()
	h.Write(kind[:])
	h.Write(contents)

	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], h.Sum32())
	return crc
}
