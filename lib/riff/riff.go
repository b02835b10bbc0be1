// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package riff

import (
	"encoding/binary"
	"fmt"

	"github.com/bureau-foundation/imagebox/lib/bincursor"
	"github.com/bureau-foundation/imagebox/lib/fragment"
	"github.com/bureau-foundation/imagebox/lib/imgerr"
)

// IDRIFF is the id required of a top-level chunk.
var IDRIFF = [4]byte{'R', 'I', 'F', 'F'}

var (
	idLIST = [4]byte{'L', 'I', 'S', 'T'}
	idSEQT = [4]byte{'s', 'e', 'q', 't'}
)

var padByte = []byte{0x00}

// hasSubchunks reports whether a chunk with this id holds nested
// chunks rather than opaque data.
func hasSubchunks(id [4]byte) bool {
	return id == IDRIFF || id == idLIST || id == idSEQT
}

// hasKind reports whether a subchunk-bearing id is followed by a
// 4-byte kind tag at the start of its content.
func hasKind(id [4]byte) bool {
	return id == IDRIFF || id == idLIST
}

// Chunk is a single RIFF chunk: a 4-byte id and its content, which is
// either a nested chunk list or opaque data.
type Chunk struct {
	id      [4]byte
	content Content
}

// Content is the payload of a chunk. It is implemented only by *List
// and Data.
type Content interface {
	fragment.Fragmenter

	// ContentLen is the logical content size as stored in the
	// chunk's length field, excluding any padding byte.
	ContentLen() int

	sealedContent()
}

// List is the content of a subchunk-bearing chunk: an optional kind
// tag followed by nested chunks.
type List struct {
	Kind      [4]byte
	HasKind   bool
	Subchunks []Chunk
}

// Data is the opaque content of a leaf chunk.
type Data []byte

// NewChunk builds a chunk from an id and content.
func NewChunk(id [4]byte, content Content) Chunk {
	return Chunk{id: id, content: content}
}

// FromBytes parses a top-level RIFF chunk from buf. Data payloads
// alias buf.
//
// Returns imgerr.ErrWrongSignature if the outermost id is not "RIFF",
// and imgerr.ErrTruncated if the data ends mid-chunk.
func FromBytes(buf []byte) (Chunk, error) {
	return readChunk(bincursor.New(buf), true)
}

func readChunk(cur *bincursor.Cursor, checkRIFFID bool) (Chunk, error) {
	id, err := cur.FourCC()
	if err != nil {
		return Chunk{}, fmt.Errorf("reading chunk id: %w", err)
	}
	if checkRIFFID && id != IDRIFF {
		return Chunk{}, fmt.Errorf("chunk id %q: %w", id[:], imgerr.ErrWrongSignature)
	}

	content, err := readContent(cur, id)
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{id: id, content: content}, nil
}

func readContent(cur *bincursor.Cursor, id [4]byte) (Content, error) {
	length, err := cur.U32LE()
	if err != nil {
		return nil, fmt.Errorf("reading %q length: %w", id[:], err)
	}
	raw, err := cur.Take(int(length))
	if err != nil {
		return nil, fmt.Errorf("reading %q content: %w", id[:], err)
	}

	if !hasSubchunks(id) {
		// The padding byte lives outside the logical content.
		if length%2 != 0 {
			if err := cur.Skip(1); err != nil {
				return nil, fmt.Errorf("reading %q padding: %w", id[:], err)
			}
		}
		return Data(raw), nil
	}

	inner := bincursor.New(raw)
	list := &List{}
	if hasKind(id) {
		kind, err := inner.FourCC()
		if err != nil {
			return nil, fmt.Errorf("reading %q kind: %w", id[:], err)
		}
		list.Kind = kind
		list.HasKind = true
	}
	for !inner.Empty() {
		sub, err := readChunk(inner, false)
		if err != nil {
			return nil, err
		}
		list.Subchunks = append(list.Subchunks, sub)
	}
	return list, nil
}

// ID returns the chunk's 4-byte id.
func (c *Chunk) ID() [4]byte {
	return c.id
}

// Content returns the chunk's content.
func (c *Chunk) Content() Content {
	return c.content
}

// SetContent replaces the chunk's content.
func (c *Chunk) SetContent(content Content) {
	c.content = content
}

// EncodedLen returns the on-wire size: id, length field, and content,
// rounded up to even for the padding byte.
func (c *Chunk) EncodedLen() int {
	n := 4 + 4 + c.content.ContentLen()
	return n + n%2
}

// FragmentAt yields the 8-byte id-and-length header followed by the
// content's fragments. The length field stores the unpadded content
// size.
func (c *Chunk) FragmentAt(pos *int) ([]byte, bool) {
	if *pos == 0 {
		header := make([]byte, 8)
		copy(header, c.id[:])
		binary.LittleEndian.PutUint32(header[4:], uint32(c.content.ContentLen()))
		return header, true
	}
	*pos--
	return c.content.FragmentAt(pos)
}

// Encoder returns a lazy encoder over the chunk's fragments.
func (c *Chunk) Encoder() *fragment.Encoder {
	return fragment.NewEncoder(c)
}

// ContentLen of a list is the kind tag, if any, plus every subchunk's
// full on-wire size. Subchunk sizes are already even, so a list never
// needs padding of its own.
func (l *List) ContentLen() int {
	n := 0
	if l.HasKind {
		n += 4
	}
	for i := range l.Subchunks {
		n += l.Subchunks[i].EncodedLen()
	}
	return n
}

// EncodedLen implements fragment.Fragmenter. For content inside a
// chunk it equals ContentLen; lists carry no padding.
func (l *List) EncodedLen() int {
	return l.ContentLen()
}

// FragmentAt yields the kind tag, if any, then each subchunk's
// fragments in order.
func (l *List) FragmentAt(pos *int) ([]byte, bool) {
	if l.HasKind {
		if *pos == 0 {
			return l.Kind[:], true
		}
		*pos--
	}
	for i := range l.Subchunks {
		if frag, ok := l.Subchunks[i].FragmentAt(pos); ok {
			return frag, true
		}
	}
	return nil, false
}

func (*List) sealedContent() {}

// ContentLen of data is its raw byte length.
func (d Data) ContentLen() int {
	return len(d)
}

// EncodedLen includes the padding byte for odd-length data.
func (d Data) EncodedLen() int {
	return len(d) + len(d)%2
}

// FragmentAt yields the data, then the padding byte when the length
// is odd.
func (d Data) FragmentAt(pos *int) ([]byte, bool) {
	switch {
	case *pos == 0:
		return d, true
	case *pos == 1 && len(d)%2 == 1:
		return padByte, true
	default:
		*pos -= 1 + len(d)%2
		return nil, false
	}
}

func (d Data) sealedContent() {}
