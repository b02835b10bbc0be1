// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dynimg

import (
	"bytes"

	"github.com/bureau-foundation/imagebox/lib/fragment"
	"github.com/bureau-foundation/imagebox/lib/jpeg"
	"github.com/bureau-foundation/imagebox/lib/png"
	"github.com/bureau-foundation/imagebox/lib/webp"
)

// Image is the format-independent view of a parsed image container:
// lazy fragment encoding plus ICC and EXIF metadata access. A nil
// slice from the getters means the metadata is absent; a nil slice to
// the setters removes it.
type Image interface {
	fragment.Fragmenter

	Encoder() *fragment.Encoder

	ICCProfile() []byte
	SetICCProfile(profile []byte)

	EXIF() []byte
	SetEXIF(exif []byte)
}

var (
	jpegSignature = []byte{0xFF, 0xD8}
	pngSignature  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
)

// FromBytes sniffs buf's signature and parses it with the matching
// format. ok is false when no supported format matches; err is
// non-nil only when a recognized format fails to parse.
func FromBytes(buf []byte) (img Image, ok bool, err error) {
	switch {
	case bytes.HasPrefix(buf, jpegSignature):
		img, err := jpeg.FromBytes(buf)
		if err != nil {
			return nil, true, err
		}
		return img, true, nil
	case bytes.HasPrefix(buf, pngSignature):
		img, err := png.FromBytes(buf)
		if err != nil {
			return nil, true, err
		}
		return img, true, nil
	case webp.IsWebP(buf):
		img, err := webp.FromBytes(buf)
		if err != nil {
			return nil, true, err
		}
		return img, true, nil
	default:
		return nil, false, nil
	}
}
