// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jpeg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bureau-foundation/imagebox/lib/imgerr"
)

// buildTestJPEG assembles a small but structurally complete JPEG:
// JFIF APP0, a quantization table, a frame header, and a scan whose
// entropy data exercises byte stuffing and restart markers.
func buildTestJPEG() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, MarkerSOI})

	writeSegment := func(marker byte, contents []byte) {
		length := len(contents) + 2
		buf.Write([]byte{0xFF, marker, byte(length >> 8), byte(length)})
		buf.Write(contents)
	}

	writeSegment(MarkerAPP0, []byte("JFIF\x00\x01\x02\x00\x00\x01\x00\x01\x00\x00"))
	writeSegment(MarkerDQT, bytes.Repeat([]byte{0x10}, 65))
	writeSegment(MarkerSOF0, []byte{8, 0, 1, 0, 1, 1, 0x11, 0x11, 0})
	writeSegment(MarkerSOS, []byte{1, 0x11, 0, 63, 0})

	// Entropy data with a stuffed 0xFF and a restart marker.
	buf.Write([]byte{0x12, 0x34, 0xFF, 0x00, 0x56, 0xFF, MarkerRST0, 0x78})
	buf.Write([]byte{0xFF, MarkerEOI})
	return buf.Bytes()
}

func TestFromBytesRoundTrip(t *testing.T) {
	// A parsed JPEG must re-encode to the exact input bytes, and
	// EncodedLen must match without encoding.
	input := buildTestJPEG()
	img, err := FromBytes(input)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if got, want := len(img.Segments()), 4; got != want {
		t.Fatalf("segment count = %d, want %d", got, want)
	}
	if got, want := img.EncodedLen(), len(input); got != want {
		t.Fatalf("EncodedLen() = %d, want %d", got, want)
	}

	out := img.Encoder().Bytes()
	if !bytes.Equal(out, input) {
		t.Fatalf("re-encoded bytes differ from input:\n got %x\nwant %x", out, input)
	}
}

func TestFromBytesMinimal(t *testing.T) {
	// The smallest well-formed JPEG is SOI immediately followed by
	// EOI: no segments, four encoded bytes.
	input := []byte{0xFF, MarkerSOI, 0xFF, MarkerEOI}
	img, err := FromBytes(input)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if len(img.Segments()) != 0 {
		t.Fatalf("segment count = %d, want 0", len(img.Segments()))
	}
	if got := img.EncodedLen(); got != 4 {
		t.Fatalf("EncodedLen() = %d, want 4", got)
	}
	if out := img.Encoder().Bytes(); !bytes.Equal(out, input) {
		t.Fatalf("re-encoded bytes = %x, want %x", out, input)
	}
}

func TestFromBytesWrongSignature(t *testing.T) {
	_, err := FromBytes([]byte("\x89PNG\r\n\x1a\n"))
	if !errors.Is(err, imgerr.ErrWrongSignature) {
		t.Fatalf("err = %v, want ErrWrongSignature", err)
	}
}

func TestFromBytesTruncated(t *testing.T) {
	// Every proper prefix of a valid JPEG must fail cleanly: either
	// a truncation error or, for prefixes that happen to end on a
	// segment boundary before the scan, no error at all. No input
	// may cause a panic or an out-of-bounds read.
	input := buildTestJPEG()
	for n := 0; n < len(input); n++ {
		img, err := FromBytes(input[:n])
		if err == nil && img == nil {
			t.Fatalf("prefix %d: nil image with nil error", n)
		}
	}

	// A scan with no terminal marker is truncated.
	cut := input[:len(input)-2]
	if _, err := FromBytes(cut); !errors.Is(err, imgerr.ErrTruncated) {
		t.Fatalf("unterminated scan: err = %v, want ErrTruncated", err)
	}
}

func TestEntropyKeepsRestartMarkers(t *testing.T) {
	// Restart markers and stuffed 0xFF bytes belong to the scan; the
	// entropy slice runs up to but excludes the terminal EOI.
	img, err := FromBytes(buildTestJPEG())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	scan, ok := img.SegmentByMarker(MarkerSOS)
	if !ok {
		t.Fatalf("no scan segment")
	}
	want := []byte{0x12, 0x34, 0xFF, 0x00, 0x56, 0xFF, MarkerRST0, 0x78}
	if !bytes.Equal(scan.Entropy(), want) {
		t.Fatalf("entropy = %x, want %x", scan.Entropy(), want)
	}
}

func TestSegmentsWithoutLength(t *testing.T) {
	// A marker outside the length-bearing ranges becomes an empty
	// segment and parsing continues.
	input := []byte{
		0xFF, MarkerSOI,
		0xFF, MarkerTEM,
		0xFF, MarkerEOI,
	}
	img, err := FromBytes(input)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if len(img.Segments()) != 1 {
		t.Fatalf("segment count = %d, want 1", len(img.Segments()))
	}
	seg := img.Segments()[0]
	if seg.Marker() != MarkerTEM || len(seg.Contents()) != 0 {
		t.Fatalf("segment = %#x with %d content bytes, want TEM with none", seg.Marker(), len(seg.Contents()))
	}
	if out := img.Encoder().Bytes(); !bytes.Equal(out, input) {
		t.Fatalf("re-encoded bytes = %x, want %x", out, input)
	}
}

func TestFillBytesSkipped(t *testing.T) {
	// Repeated 0xFF bytes before a marker are fill and are not part
	// of any segment.
	input := []byte{
		0xFF, MarkerSOI,
		0xFF, 0xFF, 0xFF, MarkerTEM,
		0xFF, MarkerEOI,
	}
	img, err := FromBytes(input)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if len(img.Segments()) != 1 || img.Segments()[0].Marker() != MarkerTEM {
		t.Fatalf("segments = %+v, want a single TEM segment", img.Segments())
	}
}

func TestICCProfileSingleSegment(t *testing.T) {
	// A single ICC slice is returned directly and aliases the
	// segment contents.
	img := New(nil)
	img.SetICCProfile([]byte("acsp-profile-data"))

	got := img.ICCProfile()
	if !bytes.Equal(got, []byte("acsp-profile-data")) {
		t.Fatalf("ICCProfile() = %q", got)
	}
}

func TestICCProfileMultiSegmentOutOfOrder(t *testing.T) {
	// Slices are concatenated in sequence-number order even when the
	// file stores them out of order.
	img := New([]Segment{
		newICCSegment(2, 3, []byte("bbb")),
		newICCSegment(3, 3, []byte("ccc")),
		newICCSegment(1, 3, []byte("aaa")),
	})
	if got := img.ICCProfile(); !bytes.Equal(got, []byte("aaabbbccc")) {
		t.Fatalf("ICCProfile() = %q, want aaabbbccc", got)
	}
}

func TestICCProfileRejectsInconsistentRuns(t *testing.T) {
	// Multi-slice runs with bad sequence numbering are rejected as a
	// whole rather than reassembled into a corrupt profile.
	cases := []struct {
		name     string
		segments []Segment
	}{
		{"zero seqno", []Segment{
			newICCSegment(0, 2, []byte("aa")),
			newICCSegment(1, 2, []byte("bb")),
		}},
		{"seqno beyond count", []Segment{
			newICCSegment(1, 2, []byte("aa")),
			newICCSegment(3, 2, []byte("bb")),
		}},
		{"count disagreement", []Segment{
			newICCSegment(1, 2, []byte("aa")),
			newICCSegment(2, 3, []byte("bb")),
		}},
		{"missing slice", []Segment{
			newICCSegment(1, 3, []byte("aa")),
			newICCSegment(2, 3, []byte("bb")),
		}},
		{"duplicate seqno", []Segment{
			newICCSegment(1, 2, []byte("aa")),
			newICCSegment(1, 2, []byte("bb")),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img := New(tc.segments)
			if got := img.ICCProfile(); got != nil {
				t.Fatalf("ICCProfile() = %q, want nil", got)
			}
		})
	}
}

func TestSetICCProfileSplitsLargeProfiles(t *testing.T) {
	// A profile larger than one segment's capacity is split into a
	// contiguous numbered run that reassembles exactly.
	profile := bytes.Repeat([]byte{0xAB}, 2*iccSegmentMaxLen+100)
	img, err := FromBytes(buildTestJPEG())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	img.SetICCProfile(profile)

	run := img.SegmentsByMarker(MarkerAPP2)
	if len(run) != 3 {
		t.Fatalf("APP2 segment count = %d, want 3", len(run))
	}
	if !bytes.Equal(img.ICCProfile(), profile) {
		t.Fatalf("reassembled profile differs from input")
	}

	// Re-setting replaces rather than accumulates.
	img.SetICCProfile([]byte("small"))
	if got := len(img.SegmentsByMarker(MarkerAPP2)); got != 1 {
		t.Fatalf("APP2 segment count after re-set = %d, want 1", got)
	}
	if !bytes.Equal(img.ICCProfile(), []byte("small")) {
		t.Fatalf("ICCProfile() after re-set = %q", img.ICCProfile())
	}

	img.SetICCProfile(nil)
	if img.ICCProfile() != nil {
		t.Fatalf("ICCProfile() after removal is non-nil")
	}
}

func TestSetICCProfileInsertPosition(t *testing.T) {
	// The run lands at index 3 when the stream has enough leading
	// segments, and is clamped for sparse streams.
	img, err := FromBytes(buildTestJPEG())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	img.SetICCProfile([]byte("p"))
	if got := img.Segments()[3].Marker(); got != MarkerAPP2 {
		t.Fatalf("segment at index 3 has marker %#x, want APP2", got)
	}

	sparse := New(nil)
	sparse.SetICCProfile([]byte("p"))
	if got := len(sparse.Segments()); got != 1 {
		t.Fatalf("sparse segment count = %d, want 1", got)
	}

	// A stream with fewer than three leading segments keeps the scan
	// segment last.
	short, err := FromBytes([]byte{
		0xFF, MarkerSOI,
		0xFF, MarkerSOS, 0x00, 0x03, 0x01,
		0xAB,
		0xFF, MarkerEOI,
	})
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	short.SetICCProfile([]byte("p"))
	segments := short.Segments()
	if got := segments[0].Marker(); got != MarkerAPP2 {
		t.Fatalf("segment at index 0 has marker %#x, want APP2", got)
	}
	if !segments[len(segments)-1].HasEntropy() {
		t.Fatalf("scan segment is no longer last after SetICCProfile")
	}
}

func TestReplaceOwnMetadataKeepsBytes(t *testing.T) {
	// Re-embedding an image's own ICC profile and EXIF payload
	// reproduces the file byte for byte, including a multi-segment
	// profile run.
	img, err := FromBytes(buildTestJPEG())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	img.SetICCProfile(bytes.Repeat([]byte{0xA5}, iccSegmentMaxLen+10))
	img.SetEXIF([]byte("MM\x00\x2A\x00\x00\x00\x08"))
	original := img.Encoder().Bytes()

	reparsed, err := FromBytes(original)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	reparsed.SetICCProfile(reparsed.ICCProfile())
	reparsed.SetEXIF(reparsed.EXIF())
	if got := reparsed.Encoder().Bytes(); !bytes.Equal(got, original) {
		t.Fatalf("re-setting own metadata changed the encoding:\n got %x\nwant %x", got, original)
	}
}

func TestEXIFRoundTrip(t *testing.T) {
	// SetEXIF wraps the blob with the Exif prefix; EXIF strips it.
	img, err := FromBytes(buildTestJPEG())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if img.EXIF() != nil {
		t.Fatalf("fresh image reports EXIF data")
	}

	blob := []byte("MM\x00\x2A\x00\x00\x00\x08")
	img.SetEXIF(blob)
	if !bytes.Equal(img.EXIF(), blob) {
		t.Fatalf("EXIF() = %x, want %x", img.EXIF(), blob)
	}

	seg, ok := img.SegmentByMarker(MarkerAPP1)
	if !ok {
		t.Fatalf("no APP1 segment after SetEXIF")
	}
	if !bytes.HasPrefix(seg.Contents(), []byte(exifPrefix)) {
		t.Fatalf("APP1 contents lack the Exif prefix: %x", seg.Contents())
	}

	img.SetEXIF(nil)
	if img.EXIF() != nil {
		t.Fatalf("EXIF() after removal is non-nil")
	}
	if _, ok := img.SegmentByMarker(MarkerAPP1); ok {
		t.Fatalf("APP1 segment survived removal")
	}
}

func TestMetadataPreservesRoundTrip(t *testing.T) {
	// Injected metadata re-encodes into a stream that parses back to
	// the same profile and EXIF blob, with EncodedLen still exact.
	img, err := FromBytes(buildTestJPEG())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	img.SetICCProfile([]byte("profile"))
	img.SetEXIF([]byte("exif-blob"))

	out := img.Encoder().Bytes()
	if len(out) != img.EncodedLen() {
		t.Fatalf("encoded %d bytes, EncodedLen() = %d", len(out), img.EncodedLen())
	}

	back, err := FromBytes(out)
	if err != nil {
		t.Fatalf("reparsing encoded image: %v", err)
	}
	if !bytes.Equal(back.ICCProfile(), []byte("profile")) {
		t.Fatalf("ICCProfile() after round trip = %q", back.ICCProfile())
	}
	if !bytes.Equal(back.EXIF(), []byte("exif-blob")) {
		t.Fatalf("EXIF() after round trip = %q", back.EXIF())
	}
}
