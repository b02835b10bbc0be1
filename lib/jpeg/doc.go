// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jpeg parses and rebuilds the segment structure of JPEG
// files.
//
// The parser splits a file into marker-delimited segments without
// decoding any pixel data; the scan segment keeps its entropy-coded
// tail as an opaque byte-stuffed slice of the input. Segment payloads
// alias the input buffer, so parsing allocates only the segment list.
// ICC profiles (multi-segment APP2) and EXIF blobs (APP1) can be
// extracted and replaced; everything else round-trips byte-for-byte.
package jpeg
