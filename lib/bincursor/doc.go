// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bincursor provides a bounds-checked cursor over an immutable
// byte slice.
//
// Every primitive read fails with imgerr.ErrTruncated when fewer bytes
// remain than required, so parsers built on the cursor are total over
// arbitrary input: no slice indexing panic can be triggered by a
// truncated or adversarial file. Take returns subslices of the backing
// buffer, never copies, so the container types built on top share the
// original buffer for the lifetime of the parse result.
package bincursor
