// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webp

import (
	"bytes"
	"fmt"

	"github.com/bureau-foundation/imagebox/lib/fragment"
	"github.com/bureau-foundation/imagebox/lib/imgerr"
	"github.com/bureau-foundation/imagebox/lib/riff"
)

// Kind describes a WebP image's container layout.
type Kind int

const (
	// KindLossy is a simple lossy image: a bare VP8 bitstream.
	KindLossy Kind = iota
	// KindLossless is a simple lossless image: a bare VP8L bitstream.
	KindLossless
	// KindExtended is the VP8X layout that carries feature chunks.
	KindExtended
)

func (k Kind) String() string {
	switch k {
	case KindLossy:
		return "lossy"
	case KindLossless:
		return "lossless"
	case KindExtended:
		return "extended"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Chunk ids defined by the WebP container format.
var (
	IDVP8  = [4]byte{'V', 'P', '8', ' '}
	IDVP8L = [4]byte{'V', 'P', '8', 'L'}
	IDVP8X = [4]byte{'V', 'P', '8', 'X'}
	IDICCP = [4]byte{'I', 'C', 'C', 'P'}
	IDEXIF = [4]byte{'E', 'X', 'I', 'F'}
	IDALPH = [4]byte{'A', 'L', 'P', 'H'}
	IDANIM = [4]byte{'A', 'N', 'I', 'M'}
	IDANMF = [4]byte{'A', 'N', 'M', 'F'}
	IDXMP  = [4]byte{'X', 'M', 'P', ' '}
)

var kindWEBP = [4]byte{'W', 'E', 'B', 'P'}

// VP8X feature flag bits.
const (
	flagICCP = 1 << 5
	flagEXIF = 1 << 3
)

const exifPrefix = "Exif\x00\x00"

// IsWebP reports whether buf starts like a WebP file. It checks only
// the outer framing, not structural validity.
func IsWebP(buf []byte) bool {
	return len(buf) > 12 && bytes.Equal(buf[:4], riff.IDRIFF[:]) && bytes.Equal(buf[8:12], kindWEBP[:])
}

// Image is a parsed WebP: a RIFF chunk whose list kind is "WEBP".
type Image struct {
	root riff.Chunk
}

// New wraps a RIFF chunk as a WebP image. Returns
// imgerr.ErrWrongSignature unless the chunk id is "RIFF" and its list
// kind is "WEBP".
func New(root riff.Chunk) (*Image, error) {
	if root.ID() != riff.IDRIFF {
		return nil, fmt.Errorf("chunk id %q: %w", root.ID(), imgerr.ErrWrongSignature)
	}
	list, ok := root.Content().(*riff.List)
	if !ok || !list.HasKind || list.Kind != kindWEBP {
		return nil, fmt.Errorf("RIFF kind is not WEBP: %w", imgerr.ErrWrongSignature)
	}
	return &Image{root: root}, nil
}

// FromBytes parses a WebP from buf. Chunk payloads alias buf.
func FromBytes(buf []byte) (*Image, error) {
	root, err := riff.FromBytes(buf)
	if err != nil {
		return nil, err
	}
	return New(root)
}

// Kind returns the container layout: extended if a VP8X chunk is
// present, lossless if a VP8L bitstream is, lossy otherwise.
func (img *Image) Kind() Kind {
	switch {
	case img.HasChunk(IDVP8X):
		return KindExtended
	case img.HasChunk(IDVP8L):
		return KindLossless
	default:
		return KindLossy
	}
}

// list returns the root's subchunk list. The constructor guarantees
// the root content is a kinded list.
func (img *Image) list() *riff.List {
	return img.root.Content().(*riff.List)
}

// Chunks returns the image's subchunks in file order.
func (img *Image) Chunks() []riff.Chunk {
	return img.list().Subchunks
}

// HasChunk reports whether a chunk with the given id exists.
func (img *Image) HasChunk(id [4]byte) bool {
	_, ok := img.ChunkByID(id)
	return ok
}

// ChunkByID returns the first chunk with the given id.
func (img *Image) ChunkByID(id [4]byte) (*riff.Chunk, bool) {
	chunks := img.Chunks()
	for i := range chunks {
		if chunks[i].ID() == id {
			return &chunks[i], true
		}
	}
	return nil, false
}

// RemoveChunksByID removes every chunk with the given id.
func (img *Image) RemoveChunksByID(id [4]byte) {
	list := img.list()
	out := list.Subchunks[:0]
	for i := range list.Subchunks {
		if list.Subchunks[i].ID() != id {
			out = append(out, list.Subchunks[i])
		}
	}
	list.Subchunks = out
}

// chunkData returns the opaque contents of the first chunk with the
// given id, or nil if the chunk is absent or holds a nested list.
func (img *Image) chunkData(id [4]byte) []byte {
	chunk, ok := img.ChunkByID(id)
	if !ok {
		return nil
	}
	data, ok := chunk.Content().(riff.Data)
	if !ok {
		return nil
	}
	return data
}

// Dimensions returns the canvas width and height. For extended images
// they come from the VP8X header; otherwise they are decoded from the
// VP8 or VP8L bitstream header. ok is false when no source yields
// them.
func (img *Image) Dimensions() (width, height uint32, ok bool) {
	if data := img.chunkData(IDVP8X); len(data) >= 10 {
		width = u24LE(data[4:7]) + 1
		height = u24LE(data[7:10]) + 1
		return width, height, true
	}
	if data := img.chunkData(IDVP8); data != nil {
		return decodeVP8Dimensions(data)
	}
	if data := img.chunkData(IDVP8L); data != nil {
		return decodeVP8LDimensions(data)
	}
	return 0, 0, false
}

// EncodedLen returns the total encoded size of the RIFF container.
func (img *Image) EncodedLen() int {
	return img.root.EncodedLen()
}

// FragmentAt yields the underlying RIFF chunk's fragments.
func (img *Image) FragmentAt(pos *int) ([]byte, bool) {
	return img.root.FragmentAt(pos)
}

// Encoder returns a lazy encoder over the image's fragments.
func (img *Image) Encoder() *fragment.Encoder {
	return fragment.NewEncoder(img)
}

// ICCProfile returns the raw contents of the ICCP chunk, or nil when
// none is embedded.
func (img *Image) ICCProfile() []byte {
	return img.chunkData(IDICCP)
}

// SetICCProfile replaces the embedded ICC profile. Any existing ICCP
// chunk is removed; a non-nil profile is stored verbatim in a new
// chunk placed ahead of the image-data chunks. The container layout
// is then re-normalized.
func (img *Image) SetICCProfile(profile []byte) {
	img.RemoveChunksByID(IDICCP)

	if profile != nil {
		pos := img.metadataInsertIndex()
		img.insertChunk(pos, riff.NewChunk(IDICCP, riff.Data(profile)))
	}

	img.normalizeKind()
}

// EXIF returns the embedded EXIF blob without its "Exif\0\0" prefix,
// or nil when none is embedded or the EXIF chunk lacks the prefix.
func (img *Image) EXIF() []byte {
	data := img.chunkData(IDEXIF)
	if !bytes.HasPrefix(data, []byte(exifPrefix)) {
		return nil
	}
	return data[len(exifPrefix):]
}

// SetEXIF replaces the embedded EXIF metadata. Any existing EXIF
// chunk is removed; a non-nil blob is wrapped with the "Exif\0\0"
// prefix and appended as the last chunk. The container layout is then
// re-normalized.
func (img *Image) SetEXIF(exif []byte) {
	img.RemoveChunksByID(IDEXIF)

	if exif != nil {
		contents := make([]byte, 0, len(exifPrefix)+len(exif))
		contents = append(contents, exifPrefix...)
		contents = append(contents, exif...)
		list := img.list()
		list.Subchunks = append(list.Subchunks, riff.NewChunk(IDEXIF, riff.Data(contents)))
	}

	img.normalizeKind()
}

// metadataInsertIndex picks where a fresh ICCP chunk goes: before the
// VP8 bitstream of a simple lossy image, directly after the VP8L or
// VP8X chunk otherwise, and at the front when neither exists.
func (img *Image) metadataInsertIndex() int {
	chunks := img.Chunks()
	if img.Kind() == KindLossy {
		for i := range chunks {
			if chunks[i].ID() == IDVP8 {
				return i
			}
		}
		return 0
	}
	for i := range chunks {
		if chunks[i].ID() == IDVP8L || chunks[i].ID() == IDVP8X {
			return i + 1
		}
	}
	return 0
}

// normalizeKind reconciles the container layout with the chunks now
// present. An image holding ICCP or EXIF chunks needs the extended
// layout: a VP8X chunk is synthesized when missing and its feature
// flags refreshed when present. An extended image without metadata is
// demoted by dropping the VP8X chunk.
func (img *Image) normalizeKind() {
	needsExtended := img.HasChunk(IDICCP) || img.HasChunk(IDEXIF)
	hasVP8X := img.HasChunk(IDVP8X)

	switch {
	case needsExtended && !hasVP8X:
		width, height, ok := img.Dimensions()
		if !ok {
			// Without dimensions a VP8X header cannot be built; the
			// metadata chunks stay as written.
			return
		}
		content := make([]byte, 10)
		content[0] = img.featureFlags()
		putU24LE(content[4:7], width-1)
		putU24LE(content[7:10], height-1)

		pos := 0
		for i, chunk := range img.Chunks() {
			if chunk.ID() == IDICCP {
				pos = i
				break
			}
		}
		img.insertChunk(pos, riff.NewChunk(IDVP8X, riff.Data(content)))

	case !needsExtended && hasVP8X:
		img.RemoveChunksByID(IDVP8X)

	case needsExtended && hasVP8X:
		chunk, _ := img.ChunkByID(IDVP8X)
		data, ok := chunk.Content().(riff.Data)
		if !ok || len(data) < 10 {
			return
		}
		// The stored header may alias the parse input; flags are
		// rewritten into a fresh buffer.
		content := make([]byte, len(data))
		copy(content, data)
		content[0] = (content[0] &^ (flagICCP | flagEXIF)) | img.featureFlags()
		chunk.SetContent(riff.Data(content))
	}
}

// featureFlags builds the VP8X flags byte from the chunks present.
func (img *Image) featureFlags() byte {
	var flags byte
	if img.HasChunk(IDICCP) {
		flags |= flagICCP
	}
	if img.HasChunk(IDEXIF) {
		flags |= flagEXIF
	}
	return flags
}

func (img *Image) insertChunk(at int, chunk riff.Chunk) {
	list := img.list()
	at = min(max(at, 0), len(list.Subchunks))
	out := make([]riff.Chunk, 0, len(list.Subchunks)+1)
	out = append(out, list.Subchunks[:at]...)
	out = append(out, chunk)
	out = append(out, list.Subchunks[at:]...)
	list.Subchunks = out
}

func u24LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func putU24LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
