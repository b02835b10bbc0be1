// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webp

import "encoding/binary"

// decodeVP8Dimensions reads width and height from a lossy VP8
// bitstream's keyframe header: a 3-byte frame tag whose low bit is 0
// for keyframes, the 3-byte start code, and two 14-bit dimension
// fields. Returns ok=false on anything that is not a well-formed
// keyframe header.
func decodeVP8Dimensions(data []byte) (width, height uint32, ok bool) {
	if len(data) < 10 {
		return 0, 0, false
	}

	tag := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	if tag&1 != 0 {
		// Interframe; it carries no dimensions.
		return 0, 0, false
	}
	if data[3] != 0x9D || data[4] != 0x01 || data[5] != 0x2A {
		return 0, 0, false
	}

	width = uint32(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
	height = uint32(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
	return width, height, true
}

// decodeVP8LDimensions reads width and height from a lossless VP8L
// bitstream header: the 0x2F signature byte followed by two 14-bit
// value-minus-one fields packed least-significant-bit first.
func decodeVP8LDimensions(data []byte) (width, height uint32, ok bool) {
	if len(data) < 5 || data[0] != 0x2F {
		return 0, 0, false
	}

	bits := binary.LittleEndian.Uint32(data[1:5])
	width = bits&0x3FFF + 1
	height = bits>>14&0x3FFF + 1
	return width, height, true
}
