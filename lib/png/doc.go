// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package png parses and rebuilds the chunk structure of PNG files.
//
// The parser splits a file into CRC-verified chunks without decoding
// any pixel data; chunk payloads alias the input buffer. ICC profiles
// (zlib-compressed iCCP chunks) and EXIF blobs (eXIf chunks) can be
// extracted and replaced; everything else round-trips byte-for-byte.
package png
