// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dynimg dispatches over the supported image formats.
//
// FromBytes sniffs a buffer's signature and hands it to the matching
// parser, returning the result behind the format-independent Image
// interface. An unrecognized signature is a legitimate outcome, not
// an error: callers distinguish "not an image we know" from "a JPEG,
// but corrupt".
package dynimg
