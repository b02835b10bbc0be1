// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package imgerr

import "errors"

var (
	// ErrWrongSignature reports that the magic bytes (or the
	// recognized-kind tag of a container root) did not match the
	// expected signature.
	ErrWrongSignature = errors.New("file signature does not match the expected signature")

	// ErrBadCRC reports that a PNG chunk's stored CRC does not match
	// the CRC computed over its kind and contents.
	ErrBadCRC = errors.New("chunk CRC does not match the computed CRC")

	// ErrTruncated reports that the input ran out of bytes in the
	// middle of a field or payload.
	ErrTruncated = errors.New("truncated input")
)
