// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jpeg

// Marker framing bytes. Every marker on the wire is the prefix byte
// followed by its second byte; inside entropy-coded data a literal
// 0xFF is escaped by a stuffing byte.
const (
	markerPrefix byte = 0xFF
	stuffingByte byte = 0x00
)

// Second marker bytes, ISO/IEC 10918-1 table B.1.
const (
	// Temporary use in arithmetic coding.
	MarkerTEM byte = 0x01

	// Start of Frame, non-differential and differential variants.
	// DHT, JPG and DAC sit inside the SOF range.
	MarkerSOF0  byte = 0xC0
	MarkerSOF1  byte = 0xC1
	MarkerSOF2  byte = 0xC2
	MarkerSOF3  byte = 0xC3
	MarkerDHT   byte = 0xC4
	MarkerSOF5  byte = 0xC5
	MarkerSOF6  byte = 0xC6
	MarkerSOF7  byte = 0xC7
	MarkerJPG   byte = 0xC8
	MarkerSOF9  byte = 0xC9
	MarkerSOF10 byte = 0xCA
	MarkerSOF11 byte = 0xCB
	MarkerDAC   byte = 0xCC
	MarkerSOF13 byte = 0xCD
	MarkerSOF14 byte = 0xCE
	MarkerSOF15 byte = 0xCF

	// Restart markers.
	MarkerRST0 byte = 0xD0
	MarkerRST7 byte = 0xD7

	MarkerSOI byte = 0xD8 // Start of Image
	MarkerEOI byte = 0xD9 // End of Image
	MarkerSOS byte = 0xDA // Start of Scan
	MarkerDQT byte = 0xDB // Define Quantization Table
	MarkerDNL byte = 0xDC // Define Number of Lines
	MarkerDRI byte = 0xDD // Define Restart Interval
	MarkerDHP byte = 0xDE // Define Hierarchical Progression
	MarkerEXP byte = 0xDF // Expand Reference Component

	// Application segments. APP0 carries JFIF, APP1 EXIF/XMP, APP2
	// ICC profiles.
	MarkerAPP0  byte = 0xE0
	MarkerAPP1  byte = 0xE1
	MarkerAPP2  byte = 0xE2
	MarkerAPP15 byte = 0xEF

	MarkerCOM byte = 0xFE // Comment
)

// hasLength reports whether a marker is followed by a 2-byte
// big-endian length field covering itself plus the segment payload.
func hasLength(marker byte) bool {
	switch {
	case marker >= MarkerRST0 && marker <= MarkerRST7:
		return true
	case marker >= MarkerAPP0 && marker <= MarkerAPP15:
		return true
	case marker >= MarkerSOF0 && marker <= MarkerSOF15:
		return true
	case marker == MarkerSOS, marker == MarkerCOM, marker == MarkerDQT, marker == MarkerDRI:
		return true
	default:
		return false
	}
}

// hasEntropy reports whether a marker's payload is immediately
// followed by entropy-coded scan data.
func hasEntropy(marker byte) bool {
	return marker == MarkerSOS
}
