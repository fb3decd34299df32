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

// Package pngfixture synthesises small PNG files for decoder tests: exact
// control over the IHDR fields, the per-row filter types (applied forward,
// so the decoder has real filtered data to reverse) and the tRNS payload.
// The emitted chunks carry correct CRCs, so the files are also valid input
// for the standard library's image/png when a cross-check is wanted.
package pngfixture

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
)

// Options describes the fixture. Pix holds Width*Height*channels raw
// samples (3 channels for ColorType 2, 4 for ColorType 6). Filters gives
// one PNG filter type per row; nil means all zero. TRNS, when non-nil, is
// emitted verbatim as a tRNS chunk between IHDR and IDAT.
type Options struct {
	Width     int
	Height    int
	ColorType byte
	BitDepth  byte // 0 means 8
	Interlace byte
	Filters   []byte
	TRNS      []byte
	Pix       []byte
}

func channels(colorType byte) int {
	if colorType == 6 {
		return 4
	}
	return 3
}

// Build returns the complete PNG byte stream.
func Build(o Options) []byte {
	if o.BitDepth == 0 {
		o.BitDepth = 8
	}
	ch := channels(o.ColorType)
	rowBytes := o.Width * ch
	bpp := ch

	// Apply the forward filters row by row against the raw samples.
	encoded := make([]byte, 0, o.Height*(rowBytes+1))
	for y := 0; y < o.Height; y++ {
		filter := byte(0)
		if y < len(o.Filters) {
			filter = o.Filters[y]
		}
		encoded = append(encoded, filter)
		row := o.Pix[y*rowBytes : (y+1)*rowBytes]
		var prev []byte
		if y > 0 {
			prev = o.Pix[(y-1)*rowBytes : y*rowBytes]
		}
		for x := 0; x < rowBytes; x++ {
			var left, up, upLeft byte
			if x >= bpp {
				left = row[x-bpp]
			}
			if prev != nil {
				up = prev[x]
				if x >= bpp {
					upLeft = prev[x-bpp]
				}
			}
			var pred byte
			switch filter {
			case 0:
				pred = 0
			case 1:
				pred = left
			case 2:
				pred = up
			case 3:
				pred = byte((int(left) + int(up)) / 2)
			case 4:
				pred = paethRef(left, up, upLeft)
			}
			encoded = append(encoded, row[x]-pred)
		}
	}

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write(encoded)
	zw.Close()

	var out bytes.Buffer
	out.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(o.Width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(o.Height))
	ihdr[8] = o.BitDepth
	ihdr[9] = o.ColorType
	ihdr[10] = 0
	ihdr[11] = 0
	ihdr[12] = o.Interlace
	writeChunk(&out, "IHDR", ihdr)

	if o.TRNS != nil {
		writeChunk(&out, "tRNS", o.TRNS)
	}
	writeChunk(&out, "IDAT", z.Bytes())
	writeChunk(&out, "IEND", nil)
	return out.Bytes()
}

// TRNSRGB encodes an 8-bit chroma-key as the 16-bit-per-sample tRNS payload
// for colour type 2, low byte carrying the value.
func TRNSRGB(r, g, b byte) []byte {
	return []byte{0, r, 0, g, 0, b}
}

func writeChunk(out *bytes.Buffer, chunkType string, data []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	out.Write(length[:])
	out.WriteString(chunkType)
	out.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	out.Write(sum[:])
}

// paethRef is the reference predictor, duplicated here so the fixture
// package stays independent of the decoder under test.
func paethRef(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := p-int(a), p-int(b), p-int(c)
	if pa < 0 {
		pa = -pa
	}
	if pb < 0 {
		pb = -pb
	}
	if pc < 0 {
		pc = -pc
	}
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}
