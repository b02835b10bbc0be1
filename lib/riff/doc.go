// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package riff parses and rebuilds RIFF container files.
//
// A RIFF file is a tree: chunks whose id marks them as
// subchunk-bearing hold a list of nested chunks (optionally preceded
// by a 4-byte kind tag), all others hold opaque data. Odd-length data
// is padded on the wire with one byte that is not counted by the
// length field. Data payloads alias the input buffer.
package riff
