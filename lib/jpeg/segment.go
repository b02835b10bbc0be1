// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jpeg

import (
	"bytes"
	"encoding/binary"
)

// iccPrefix tags an APP2 segment as carrying one slice of an embedded
// ICC profile. The prefix is followed by a 1-based sequence number and
// the total sequence count, one byte each.
var iccPrefix = []byte("ICC_PROFILE\x00")

// exifPrefix tags an APP1 segment as carrying EXIF metadata.
var exifPrefix = []byte("Exif\x00\x00")

// iccSegmentMaxLen is the largest ICC payload slice that fits in one
// APP2 segment: the 16-bit length field covers itself (2 bytes) and
// the 14-byte ICC prefix+sequence header.
const iccSegmentMaxLen = 65535 - 2 - 14

// Segment is one marker-delimited unit of a JPEG stream.
//
// Contents holds the payload without the 2-byte length field. Entropy
// is non-empty only on the scan segment and holds the byte-stuffed
// entropy-coded data in its on-wire form, up to but excluding the
// terminal marker; the terminal EOI is written by the owning Image.
type Segment struct {
	marker   byte
	contents []byte
	entropy  []byte
}

// NewSegment returns an empty segment for marker.
func NewSegment(marker byte) Segment {
	return Segment{marker: marker}
}

// NewSegmentWithContents returns a segment for marker carrying
// contents. Contents plus the 2-byte length field must fit in 16 bits.
func NewSegmentWithContents(marker byte, contents []byte) Segment {
	return Segment{marker: marker, contents: contents}
}

// NewSegmentWithEntropy returns a scan segment carrying contents
// followed by raw byte-stuffed entropy data.
func NewSegmentWithEntropy(marker byte, contents, entropy []byte) Segment {
	return Segment{marker: marker, contents: contents, entropy: entropy}
}

// newICCSegment builds one APP2 segment holding the seqno-th of count
// slices of an ICC profile.
func newICCSegment(seqno, count byte, part []byte) Segment {
	contents := make([]byte, 0, len(iccPrefix)+2+len(part))
	contents = append(contents, iccPrefix...)
	contents = append(contents, seqno, count)
	contents = append(contents, part...)
	return NewSegmentWithContents(MarkerAPP2, contents)
}

// newEXIFSegment builds the APP1 segment holding an EXIF blob.
func newEXIFSegment(exif []byte) Segment {
	contents := make([]byte, 0, len(exifPrefix)+len(exif))
	contents = append(contents, exifPrefix...)
	contents = append(contents, exif...)
	return NewSegmentWithContents(MarkerAPP1, contents)
}

// Marker returns the second marker byte (the first is always 0xFF).
func (s *Segment) Marker() byte {
	return s.marker
}

// Contents returns the segment payload, excluding the length field.
func (s *Segment) Contents() []byte {
	return s.contents
}

// Entropy returns the raw byte-stuffed entropy-coded data following
// the payload, or nil for non-scan segments.
func (s *Segment) Entropy() []byte {
	return s.entropy
}

// HasEntropy reports whether this is the scan segment.
func (s *Segment) HasEntropy() bool {
	return len(s.entropy) > 0
}

// EncodedLen returns the segment's on-wire size: 2 marker bytes, the
// length field when the marker carries one, the payload, and the
// entropy data.
func (s *Segment) EncodedLen() int {
	n := 2 + len(s.contents) + len(s.entropy)
	if hasLength(s.marker) {
		n += 2
	}
	return n
}

// icc returns the sequence header and profile slice if this is an
// ICC-tagged APP2 segment.
func (s *Segment) icc() (seqno, count byte, part []byte, ok bool) {
	if s.marker != MarkerAPP2 || !bytes.HasPrefix(s.contents, iccPrefix) {
		return 0, 0, nil, false
	}
	rest := s.contents[len(iccPrefix):]
	if len(rest) < 2 {
		return 0, 0, nil, false
	}
	return rest[0], rest[1], rest[2:], true
}

// exif returns the EXIF blob if this is an EXIF-tagged APP1 segment.
func (s *Segment) exif() ([]byte, bool) {
	if s.marker != MarkerAPP1 || !bytes.HasPrefix(s.contents, exifPrefix) {
		return nil, false
	}
	return s.contents[len(exifPrefix):], true
}

// FragmentAt yields the segment's framing bytes, payload and entropy
// as up to three fragments.
func (s *Segment) FragmentAt(pos *int) ([]byte, bool) {
	if *pos == 0 {
		return s.framing(), true
	}
	*pos--
	if len(s.contents) > 0 {
		if *pos == 0 {
			return s.contents, true
		}
		*pos--
	}
	if len(s.entropy) > 0 {
		if *pos == 0 {
			return s.entropy, true
		}
		*pos--
	}
	return nil, false
}

// framing builds the marker bytes plus, for length-bearing markers,
// the big-endian length field (payload size + the field itself).
func (s *Segment) framing() []byte {
	if !hasLength(s.marker) {
		return []byte{markerPrefix, s.marker}
	}
	head := make([]byte, 4)
	head[0] = markerPrefix
	head[1] = s.marker
	binary.BigEndian.PutUint16(head[2:], uint16(len(s.contents)+2))
	return head
}
