// Copyright 2025 The Slicer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// ----------------

// Package rgbapng decodes 8-bit RGB and RGBA PNG files to a tightly packed
// RGBA raster.
//
// It deliberately accepts only a narrow profile of the PNG format: bit depth
// 8, colour type 2 (truecolour) or 6 (truecolour with alpha), no interlacing.
// RGB images may carry a tRNS chunk declaring a single chroma-key colour,
// which decodes to alpha 0. Everything else (palettes, grayscale, 16-bit
// samples, Adam7) is rejected as unsupported rather than half-handled.
//
// Chunk CRC-32 fields are read but not verified. Integrity is delegated to
// the inflate step (whose byte count must match exactly) and to the content
// sanity checks; a decoder that re-hashes every chunk pays for integrity the
// compressed stream already guarantees in practice.
package rgbapng

import (
	"errors"
	"os"

	pkgerrors "github.com/pkg/errors"
)

const (
	// MaxDimension bounds each image axis.
	MaxDimension = 1000000
)

var (
	ErrInvalidSignature = errors.New("rgbapng: invalid signature")
	ErrTruncated        = errors.New("rgbapng: truncated input")
	ErrUnsupported      = errors.New("rgbapng: unsupported png profile")
	ErrCorrupt          = errors.New("rgbapng: corrupt png data")
)

var signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Chunk type four-byte codes, big-endian.
const (
	chunkIHDR = 0x49484452
	chunkIDAT = 0x49444154
	chunkIEND = 0x49454e44
	chunkTRNS = 0x74524e53
)

// Image is the immutable decode output. RGBA holds Width*Height*4 bytes in
// row-major order, top to bottom, with bytes R, G, B, A per pixel. HasAlpha
// is true iff the source was colour type 6 or carried a tRNS chroma-key.
type Image struct {
	Width    int
	Height   int
	RGBA     []byte
	HasAlpha bool
}

// IsSignature reports whether b begins with the 8-byte PNG magic.
func IsSignature(b []byte) bool {
	if len(b) < len(signature) {
		return false
	}
	for i, c := range signature {
		if b[i] != c {
			return false
		}
	}
	return true
}

func u32be(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

type ihdr struct {
	width       uint32
	height      uint32
	bitDepth    byte
	colorType   byte
	compression byte
	filter      byte
	interlace   byte
}

type trns struct {
	present bool
	r, g, b byte
}

func parseIHDR(data []byte) (ihdr, bool) {
	if len(data) != 13 {
		return ihdr{}, false
	}
	return ihdr{
		width:       u32be(data[0:]),
		height:      u32be(data[4:]),
		bitDepth:    data[8],
		colorType:   data[9],
		compression: data[10],
		filter:      data[11],
		interlace:   data[12],
	}, true
}

// parseTRNSRGB reads a truecolour tRNS payload. The samples are 16-bit; the
// high byte wins when the value exceeds 255, otherwise the low byte, matching
// how 16-to-8 reduction treats encoders that store 8-bit keys in either half.
func parseTRNSRGB(data []byte, out *trns) {
	if len(data) < 6 {
		return
	}
	vr := uint16(data[0])<<8 | uint16(data[1])
	vg := uint16(data[2])<<8 | uint16(data[3])
	vb := uint16(data[4])<<8 | uint16(data[5])
	reduce := func(v uint16) byte {
		if v > 255 {
			return byte(v >> 8)
		}
		return byte(v)
	}
	out.r = reduce(vr)
	out.g = reduce(vg)
	out.b = reduce(vb)
	out.present = true
}

func (h *ihdr) validate() error {
	if h.width == 0 || h.height == 0 ||
		h.width > MaxDimension || h.height > MaxDimension {
		return ErrUnsupported
	}
	if h.compression != 0 || h.filter != 0 || h.interlace != 0 {
		return ErrUnsupported
	}
	if h.bitDepth != 8 || (h.colorType != 2 && h.colorType != 6) {
		return ErrUnsupported
	}
	return nil
}

// Decode parses a whole PNG file held in memory and returns the decoded
// image. No partial image is ever returned: the error is nil iff every stage
// (chunk walk, inflate, unfilter, expand) succeeded.
func Decode(data []byte) (*Image, error) {
	if !IsSignature(data) {
		return nil, ErrInvalidSignature
	}

	var (
		hdr      ihdr
		key      trns
		seenIHDR bool
		seenIEND bool
		idat     []byte
	)

	pos := len(signature)
	for !seenIEND {
		// length:u32be, type:4 bytes, data:length bytes, crc:4 bytes. The
		// CRC is skipped, not checked.
		if pos > len(data) || len(data)-pos < 12 {
			return nil, ErrTruncated
		}
		length := u32be(data[pos:])
		chunkType := u32be(data[pos+4:])
		pos += 8
		if uint64(length) > uint64(len(data)-pos-4) {
			return nil, ErrTruncated
		}
		chunkData := data[pos : pos+int(length)]
		pos += int(length) + 4

		switch chunkType {
		case chunkIHDR:
			if seenIHDR {
				return nil, ErrCorrupt
			}
			var ok bool
			if hdr, ok = parseIHDR(chunkData); !ok {
				return nil, ErrCorrupt
			}
			seenIHDR = true

		case chunkIDAT:
			if !seenIHDR {
				return nil, ErrCorrupt
			}
			idat = append(idat, chunkData...)

		case chunkTRNS:
			if seenIHDR && hdr.colorType == 2 {
				parseTRNSRGB(chunkData, &key)
			}

		case chunkIEND:
			seenIEND = true

		default:
			// Ancillary chunk.
		}
	}

	if !seenIHDR || len(idat) == 0 {
		return nil, ErrCorrupt
	}
	if err := hdr.validate(); err != nil {
		return nil, err
	}

	channels := 3
	if hdr.colorType == 6 {
		channels = 4
	}
	width := int(hdr.width)
	height := int(hdr.height)

	// Overflow-checked size arithmetic. Dimensions are already bounded by
	// MaxDimension, but the checks keep the arithmetic honest on 32-bit
	// builds too.
	rowBytes, ok := mulCheck(width, channels)
	if !ok {
		return nil, ErrUnsupported
	}
	decodedSize, ok := mulCheck(height, rowBytes)
	if !ok {
		return nil, ErrUnsupported
	}
	encodedSize, ok := addCheck(decodedSize, height) // one filter byte per row
	if !ok {
		return nil, ErrUnsupported
	}
	outSize, ok := mulCheck(width*4, height)
	if !ok {
		return nil, ErrUnsupported
	}

	raw := make([]byte, encodedSize)
	if err := inflateIDAT(idat, raw); err != nil {
		return nil, pkgerrors.WithMessage(ErrCorrupt, err.Error())
	}

	rgba := make([]byte, outSize)
	if err := decodeRawToRGBA(rgba, raw, width, height, channels, key); err != nil {
		return nil, pkgerrors.WithMessage(ErrCorrupt, err.Error())
	}

	return &Image{
		Width:    width,
		Height:   height,
		RGBA:     rgba,
		HasAlpha: hdr.colorType == 6 || key.present,
	}, nil
}

// DecodeFile reads path fully into memory and decodes it. Errors carry the
// path as context; the underlying taxonomy error remains matchable with
// errors.Is.
func DecodeFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "rgbapng: read %q", path)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "%q", path)
	}
	return img, nil
}

func mulCheck(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

func addCheck(a, b int) (int, bool) {
	s := a + b
	if s < a {
		return 0, false
	}
	return s, true
}
