// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content hashing for image payloads.
//
// Digests identify segment and chunk payloads across edits: two files
// whose image data hashes identically differ only in metadata. The
// canonical wire format is the lowercase hex encoding of the 32-byte
// digest.
package binhash
