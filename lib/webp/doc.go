// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package webp parses and rebuilds WebP images on top of the RIFF
// container.
//
// A WebP is a RIFF chunk with list kind "WEBP". The package reads
// canvas dimensions from the VP8X, VP8, or VP8L chunk, and edits
// ICCP/EXIF metadata chunks. Metadata edits keep the container
// well-formed: adding metadata to a simple lossy or lossless image
// promotes it to the extended layout by synthesizing a VP8X chunk,
// and removing the last metadata chunk demotes it back.
package webp
