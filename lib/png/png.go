// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/bureau-foundation/imagebox/lib/bincursor"
	"github.com/bureau-foundation/imagebox/lib/fragment"
	"github.com/bureau-foundation/imagebox/lib/imgerr"
)

// signature is the fixed 8-byte PNG file header.
var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Chunk kinds with dedicated handling.
var (
	KindICCP = [4]byte{'i', 'C', 'C', 'P'}
	KindEXIF = [4]byte{'e', 'X', 'I', 'f'}
)

// iccpName is the profile name written into freshly built iCCP
// chunks. Readers treat the name as a label only.
const iccpName = "icc"

// Image is a parsed PNG: the fixed signature followed by an ordered
// list of chunks.
type Image struct {
	chunks []Chunk
}

// New returns an Image consisting of the given chunks.
func New(chunks []Chunk) *Image {
	return &Image{chunks: chunks}
}

// FromBytes parses a PNG from buf. Chunk payloads alias buf.
//
// Returns imgerr.ErrWrongSignature if buf does not start with the
// PNG signature, imgerr.ErrBadCRC on a corrupt chunk, and
// imgerr.ErrTruncated if the data ends mid-chunk.
func FromBytes(buf []byte) (*Image, error) {
	cur := bincursor.New(buf)

	sig, err := cur.Take(len(signature))
	if err != nil {
		return nil, fmt.Errorf("reading signature: %w", err)
	}
	if !bytes.Equal(sig, signature) {
		return nil, fmt.Errorf("first %d bytes %#x: %w", len(signature), sig, imgerr.ErrWrongSignature)
	}

	img := &Image{}
	for !cur.Empty() {
		chunk, err := readChunk(cur)
		if err != nil {
			return nil, err
		}
		img.chunks = append(img.chunks, chunk)
	}
	return img, nil
}

// Chunks returns the ordered chunk list.
func (img *Image) Chunks() []Chunk {
	return img.chunks
}

// ChunkByKind returns the first chunk with the given kind.
func (img *Image) ChunkByKind(kind [4]byte) (*Chunk, bool) {
	for i := range img.chunks {
		if img.chunks[i].kind == kind {
			return &img.chunks[i], true
		}
	}
	return nil, false
}

// ChunksByKind returns every chunk with the given kind, in file order.
func (img *Image) ChunksByKind(kind [4]byte) []*Chunk {
	var out []*Chunk
	for i := range img.chunks {
		if img.chunks[i].kind == kind {
			out = append(out, &img.chunks[i])
		}
	}
	return out
}

// RemoveChunksByKind removes every chunk with the given kind.
func (img *Image) RemoveChunksByKind(kind [4]byte) {
	out := img.chunks[:0]
	for i := range img.chunks {
		if img.chunks[i].kind != kind {
			out = append(out, img.chunks[i])
		}
	}
	img.chunks = out
}

// EncodedLen returns the total encoded size: the signature plus every
// chunk with its framing.
func (img *Image) EncodedLen() int {
	n := len(signature)
	for i := range img.chunks {
		n += img.chunks[i].EncodedLen()
	}
	return n
}

// FragmentAt yields the signature followed by each chunk's fragments
// in order.
func (img *Image) FragmentAt(pos *int) ([]byte, bool) {
	if *pos == 0 {
		return signature, true
	}
	*pos--
	for i := range img.chunks {
		if frag, ok := img.chunks[i].FragmentAt(pos); ok {
			return frag, true
		}
	}
	return nil, false
}

// Encoder returns a lazy encoder over the image's fragments.
func (img *Image) Encoder() *fragment.Encoder {
	return fragment.NewEncoder(img)
}

// ICCProfile returns the decompressed ICC profile from the iCCP
// chunk, or nil when none is embedded. A malformed or undecodable
// iCCP chunk also yields nil: non-conforming producers are common
// enough that their output is treated as profile-free rather than
// rejected.
func (img *Image) ICCProfile() []byte {
	chunk, ok := img.ChunkByKind(KindICCP)
	if !ok {
		return nil
	}
	contents := chunk.Contents()

	// Skip the null-terminated profile name.
	sep := bytes.IndexByte(contents, 0)
	if sep < 0 || sep+1 >= len(contents) {
		return nil
	}
	// Only compression method 0 (zlib) is defined.
	if contents[sep+1] != 0 {
		return nil
	}

	r, err := zlib.NewReader(bytes.NewReader(contents[sep+2:]))
	if err != nil {
		return nil
	}
	defer r.Close()

	profile, err := io.ReadAll(r)
	if err != nil {
		return nil
	}
	return profile
}

// SetICCProfile replaces the embedded ICC profile. Any existing iCCP
// chunk is removed; a non-nil profile is zlib-compressed and inserted
// immediately after the header chunk.
func (img *Image) SetICCProfile(profile []byte) {
	img.RemoveChunksByKind(KindICCP)

	if profile == nil {
		return
	}

	var contents bytes.Buffer
	contents.WriteString(iccpName)
	contents.WriteByte(0)
	contents.WriteByte(0)

	w, err := zlib.NewWriterLevel(&contents, zlib.BestCompression)
	if err != nil {
		panic(err)
	}
	w.Write(profile)
	w.Close()

	img.insertChunk(1, NewChunk(KindICCP, contents.Bytes()))
}

// EXIF returns the raw contents of the eXIf chunk, or nil when none
// is embedded.
func (img *Image) EXIF() []byte {
	chunk, ok := img.ChunkByKind(KindEXIF)
	if !ok {
		return nil
	}
	return chunk.Contents()
}

// SetEXIF replaces the embedded EXIF metadata. Any existing eXIf
// chunk is removed; a non-nil blob is stored verbatim in a new chunk
// inserted just before the final chunk, which by convention is the
// image terminator.
func (img *Image) SetEXIF(exif []byte) {
	img.RemoveChunksByKind(KindEXIF)

	if exif == nil {
		return
	}
	img.insertChunk(len(img.chunks)-1, NewChunk(KindEXIF, exif))
}

// insertChunk inserts chunk at index at, clamped to the list bounds.
func (img *Image) insertChunk(at int, chunk Chunk) {
	at = min(max(at, 0), len(img.chunks))
	out := make([]Chunk, 0, len(img.chunks)+1)
	out = append(out, img.chunks[:at]...)
	out = append(out, chunk)
	out = append(out, img.chunks[at:]...)
	img.chunks = out
}
