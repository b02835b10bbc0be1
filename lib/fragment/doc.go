// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fragment implements the lazy, index-addressed encoder shared
// by every container format in imagebox.
//
// A parsed container is a tree of framing headers and payload slices
// into the original input buffer. Rather than concatenating them
// eagerly, each node exposes the Fragmenter capability ("produce the
// nth output fragment") and parents compose children by index
// rebasing, so one monotonically increasing index walks the whole tree
// depth-first. Encoder turns that capability into a pull sequence with
// streaming (WriteTo), flattening (Bytes) and io.Reader adaptations.
package fragment
