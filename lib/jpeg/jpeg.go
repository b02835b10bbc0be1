// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jpeg

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/bureau-foundation/imagebox/lib/bincursor"
	"github.com/bureau-foundation/imagebox/lib/fragment"
	"github.com/bureau-foundation/imagebox/lib/imgerr"
)

// metadataInsertIndex is where freshly built ICC and EXIF segments are
// inserted: after the leading markers every producer emits (JFIF APP0
// and friends) and before the image-structure segments.
const metadataInsertIndex = 3

var (
	soiBytes = []byte{markerPrefix, MarkerSOI}
	eoiBytes = []byte{markerPrefix, MarkerEOI}
)

// Image is a parsed JPEG: an ordered list of segments, conceptually
// preceded by an implicit SOI marker and followed by an implicit EOI,
// both of which the encoder always writes.
type Image struct {
	segments []Segment
}

// New returns an Image consisting of the given segments.
func New(segments []Segment) *Image {
	return &Image{segments: segments}
}

// FromBytes parses a JPEG from buf. Segment payloads alias buf.
//
// Returns imgerr.ErrWrongSignature if buf does not begin with an SOI
// marker, and imgerr.ErrTruncated if the data ends mid-segment or
// mid-scan.
func FromBytes(buf []byte) (*Image, error) {
	cur := bincursor.New(buf)

	sig, err := cur.Take(2)
	if err != nil {
		return nil, fmt.Errorf("reading SOI marker: %w", err)
	}
	if !bytes.Equal(sig, soiBytes) {
		return nil, fmt.Errorf("first two bytes %#x: %w", sig, imgerr.ErrWrongSignature)
	}

	img := &Image{}
	for {
		b, err := cur.U8()
		if err != nil {
			return nil, fmt.Errorf("reading marker prefix: %w", err)
		}
		if b != markerPrefix {
			// Junk between segments; skip to the next marker the way
			// decoders do.
			continue
		}

		// Consecutive 0xFF bytes are fill; the first other byte is
		// the marker.
		marker := markerPrefix
		for marker == markerPrefix {
			marker, err = cur.U8()
			if err != nil {
				return nil, fmt.Errorf("reading marker: %w", err)
			}
		}

		if marker == MarkerEOI {
			return img, nil
		}

		if !hasLength(marker) {
			img.segments = append(img.segments, NewSegment(marker))
			continue
		}

		length, err := cur.U16BE()
		if err != nil {
			return nil, fmt.Errorf("reading segment %#x length: %w", marker, err)
		}
		if length < 2 {
			return nil, fmt.Errorf("segment %#x length %d smaller than its own field: %w", marker, length, imgerr.ErrTruncated)
		}
		contents, err := cur.Take(int(length) - 2)
		if err != nil {
			return nil, fmt.Errorf("reading segment %#x contents: %w", marker, err)
		}

		if !hasEntropy(marker) {
			img.segments = append(img.segments, NewSegmentWithContents(marker, contents))
			continue
		}

		// The scan payload is followed by entropy-coded data; the
		// stream is closed once the scan terminates.
		entropy, err := scanEntropy(cur.Rest())
		if err != nil {
			return nil, err
		}
		img.segments = append(img.segments, NewSegmentWithEntropy(marker, contents, entropy))
		return img, nil
	}
}

// scanEntropy walks byte-stuffed entropy-coded data and returns the
// slice up to but excluding the terminal marker. A 0xFF followed by
// the stuffing byte is escaped image data; restart markers belong to
// the scan; any other marker terminates it. Data that ends without a
// terminal marker is truncated.
func scanEntropy(rest []byte) ([]byte, error) {
	i := 0
	for {
		j := bytes.IndexByte(rest[i:], markerPrefix)
		if j < 0 || i+j+1 >= len(rest) {
			return nil, fmt.Errorf("scan data ends without a terminal marker: %w", imgerr.ErrTruncated)
		}
		at := i + j
		next := rest[at+1]
		switch {
		case next == stuffingByte:
			i = at + 2
		case next >= MarkerRST0 && next <= MarkerRST7:
			i = at + 2
		case next == markerPrefix:
			// Fill byte; the marker may start at the next position.
			i = at + 1
		default:
			return rest[:at:at], nil
		}
	}
}

// Segments returns the ordered segment list. Mutating an element is
// visible to the Image; use the setter methods to change the list
// itself.
func (img *Image) Segments() []Segment {
	return img.segments
}

// SegmentByMarker returns the first segment with the given marker.
func (img *Image) SegmentByMarker(marker byte) (*Segment, bool) {
	for i := range img.segments {
		if img.segments[i].marker == marker {
			return &img.segments[i], true
		}
	}
	return nil, false
}

// SegmentsByMarker returns every segment with the given marker, in
// stream order.
func (img *Image) SegmentsByMarker(marker byte) []*Segment {
	var out []*Segment
	for i := range img.segments {
		if img.segments[i].marker == marker {
			out = append(out, &img.segments[i])
		}
	}
	return out
}

// EncodedLen returns the total encoded size: SOI, every segment with
// its framing and entropy, and the terminal EOI.
func (img *Image) EncodedLen() int {
	n := 2 + 2
	for i := range img.segments {
		n += img.segments[i].EncodedLen()
	}
	return n
}

// FragmentAt yields the SOI marker, each segment's fragments in order,
// and the terminal EOI marker.
func (img *Image) FragmentAt(pos *int) ([]byte, bool) {
	if *pos == 0 {
		return soiBytes, true
	}
	*pos--
	for i := range img.segments {
		if frag, ok := img.segments[i].FragmentAt(pos); ok {
			return frag, true
		}
	}
	if *pos == 0 {
		return eoiBytes, true
	}
	*pos--
	return nil, false
}

// Encoder returns a lazy encoder over the image's fragments.
func (img *Image) Encoder() *fragment.Encoder {
	return fragment.NewEncoder(img)
}

// ICCProfile reassembles the embedded ICC profile from its APP2
// segments, or returns nil when none is embedded.
//
// Slices are concatenated in sequence-number order regardless of their
// physical order in the file. A run with an out-of-range sequence
// number, a disagreeing count, a count that does not match the number
// of slices, or a duplicate sequence number is rejected as a whole
// (nil, not an error). A single-slice profile is returned directly
// without copying.
func (img *Image) ICCProfile() []byte {
	type iccPart struct {
		seqno byte
		part  []byte
	}

	var parts []iccPart
	var count byte
	for i := range img.segments {
		seqno, n, part, ok := img.segments[i].icc()
		if !ok {
			continue
		}
		if len(parts) == 0 {
			count = n
		} else if n != count {
			return nil
		}
		parts = append(parts, iccPart{seqno: seqno, part: part})
	}

	if len(parts) == 0 {
		return nil
	}
	if len(parts) == 1 {
		return parts[0].part
	}
	if int(count) != len(parts) {
		return nil
	}
	for _, p := range parts {
		if p.seqno == 0 || p.seqno > count {
			return nil
		}
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].seqno < parts[j].seqno })

	total := 0
	for i, p := range parts {
		if i > 0 && p.seqno == parts[i-1].seqno {
			return nil
		}
		total += len(p.part)
	}

	profile := make([]byte, 0, total)
	for _, p := range parts {
		profile = append(profile, p.part...)
	}
	return profile
}

// SetICCProfile replaces the embedded ICC profile. Every existing
// ICC-tagged APP2 segment is removed; a non-nil profile is split into
// segments of at most 65519 bytes and inserted as a contiguous run
// early in the stream.
func (img *Image) SetICCProfile(profile []byte) {
	img.segments = removeMatching(img.segments, func(s *Segment) bool {
		_, _, _, ok := s.icc()
		return ok
	})

	if profile == nil {
		return
	}

	count := (len(profile) + iccSegmentMaxLen - 1) / iccSegmentMaxLen
	if count == 0 {
		count = 1
	}
	run := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		start := i * iccSegmentMaxLen
		end := min(len(profile), start+iccSegmentMaxLen)
		run = append(run, newICCSegment(byte(i+1), byte(count), profile[start:end]))
	}
	img.insertSegments(metadataInsertIndex, run)
}

// EXIF returns the embedded EXIF blob without its "Exif\0\0" prefix,
// or nil when none is embedded.
func (img *Image) EXIF() []byte {
	for i := range img.segments {
		if blob, ok := img.segments[i].exif(); ok {
			return blob
		}
	}
	return nil
}

// SetEXIF replaces the embedded EXIF metadata. Any existing EXIF APP1
// segment is removed; a non-nil blob is wrapped with the "Exif\0\0"
// prefix and inserted early in the stream.
func (img *Image) SetEXIF(exif []byte) {
	img.segments = removeMatching(img.segments, func(s *Segment) bool {
		_, ok := s.exif()
		return ok
	})

	if exif == nil {
		return
	}
	img.insertSegments(metadataInsertIndex, []Segment{newEXIFSegment(exif)})
}

// insertSegments inserts run at index at, clamped so that sparse
// streams (fewer leading markers than usual) still accept metadata
// and the scan segment stays last.
func (img *Image) insertSegments(at int, run []Segment) {
	at = min(at, len(img.segments))
	for i := range img.segments {
		if img.segments[i].HasEntropy() {
			at = min(at, i)
			break
		}
	}
	out := make([]Segment, 0, len(img.segments)+len(run))
	out = append(out, img.segments[:at]...)
	out = append(out, run...)
	out = append(out, img.segments[at:]...)
	img.segments = out
}

// removeMatching filters segments in place, dropping those for which
// match returns true.
func removeMatching(segments []Segment, match func(*Segment) bool) []Segment {
	out := segments[:0]
	for i := range segments {
		if !match(&segments[i]) {
			out = append(out, segments[i])
		}
	}
	return out
}
