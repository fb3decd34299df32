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

package rgbapng

import (
	"encoding/binary"
	"errors"
)

// PNG filter types, per the PNG specification.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

var errUnknownFilter = errors.New("rgbapng: unknown filter type")

// addBytesWide adds b into a byte-wise, modulo 256, writing to dst, 32 bytes
// per iteration in four 8-byte lanes. The masked-carry form keeps lane sums
// from bleeding into their neighbours, which is what lets a 64-bit word stand
// in for a vector register.
func addBytesWide(dst, a, b []byte) {
	const msb = 0x8080808080808080
	n := len(dst)
	i := 0
	for ; i+32 <= n; i += 32 {
		for j := i; j < i+32; j += 8 {
			x := binary.LittleEndian.Uint64(a[j:])
			y := binary.LittleEndian.Uint64(b[j:])
			s := ((x &^ msb) + (y &^ msb)) ^ ((x ^ y) & msb)
			binary.LittleEndian.PutUint64(dst[j:], s)
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

func addBytesScalar(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

// wideAddThreshold is the minimum row width for the word-at-a-time Up path.
const wideAddThreshold = 64

// unfilterRowBPP4 reverses one filtered row of 4-byte pixels. src[0] is the
// filter type, src[1:] the filtered bytes; prev is the unfiltered row above,
// or nil on the top row. The Sub/Average/Paeth loops seed the first pixel
// explicitly so the body can index dst[x-4..x-1] without edge cases.
func unfilterRowBPP4(dst, src, prev []byte) error {
	filter := src[0]
	src = src[1:]
	n := len(dst)

	switch filter {
	case ftNone:
		copy(dst, src)
		return nil

	case ftSub:
		if n == 0 {
			return nil
		}
		dst[0] = src[0]
		dst[1] = src[1]
		dst[2] = src[2]
		dst[3] = src[3]
		for x := 4; x < n; x += 4 {
			dst[x+0] = src[x+0] + dst[x-4]
			dst[x+1] = src[x+1] + dst[x-3]
			dst[x+2] = src[x+2] + dst[x-2]
			dst[x+3] = src[x+3] + dst[x-1]
		}
		return nil

	case ftUp:
		if prev == nil {
			copy(dst, src)
			return nil
		}
		if n >= wideAddThreshold {
			addBytesWide(dst, src, prev)
			return nil
		}
		addBytesScalar(dst, src, prev)
		return nil

	case ftAverage:
		if n == 0 {
			return nil
		}
		if prev == nil {
			dst[0] = src[0]
			dst[1] = src[1]
			dst[2] = src[2]
			dst[3] = src[3]
			for x := 4; x < n; x += 4 {
				dst[x+0] = src[x+0] + dst[x-4]>>1
				dst[x+1] = src[x+1] + dst[x-3]>>1
				dst[x+2] = src[x+2] + dst[x-2]>>1
				dst[x+3] = src[x+3] + dst[x-1]>>1
			}
			return nil
		}
		dst[0] = src[0] + prev[0]>>1
		dst[1] = src[1] + prev[1]>>1
		dst[2] = src[2] + prev[2]>>1
		dst[3] = src[3] + prev[3]>>1
		for x := 4; x < n; x += 4 {
			dst[x+0] = src[x+0] + uint8((int(dst[x-4])+int(prev[x+0]))>>1)
			dst[x+1] = src[x+1] + uint8((int(dst[x-3])+int(prev[x+1]))>>1)
			dst[x+2] = src[x+2] + uint8((int(dst[x-2])+int(prev[x+2]))>>1)
			dst[x+3] = src[x+3] + uint8((int(dst[x-1])+int(prev[x+3]))>>1)
		}
		return nil

	case ftPaeth:
		if n == 0 {
			return nil
		}
		if prev == nil {
			// Paeth degenerates to Sub on the top row.
			dst[0] = src[0]
			dst[1] = src[1]
			dst[2] = src[2]
			dst[3] = src[3]
			for x := 4; x < n; x += 4 {
				dst[x+0] = src[x+0] + dst[x-4]
				dst[x+1] = src[x+1] + dst[x-3]
				dst[x+2] = src[x+2] + dst[x-2]
				dst[x+3] = src[x+3] + dst[x-1]
			}
			return nil
		}
		dst[0] = src[0] + prev[0]
		dst[1] = src[1] + prev[1]
		dst[2] = src[2] + prev[2]
		dst[3] = src[3] + prev[3]
		for x := 4; x < n; x += 4 {
			dst[x+0] = src[x+0] + paeth(dst[x-4], prev[x+0], prev[x-4])
			dst[x+1] = src[x+1] + paeth(dst[x-3], prev[x+1], prev[x-3])
			dst[x+2] = src[x+2] + paeth(dst[x-2], prev[x+2], prev[x-2])
			dst[x+3] = src[x+3] + paeth(dst[x-1], prev[x+3], prev[x-1])
		}
		return nil
	}
	return errUnknownFilter
}

// unfilterRowBPP3 is the 3-byte-pixel twin of unfilterRowBPP4.
func unfilterRowBPP3(dst, src, prev []byte) error {
	filter := src[0]
	src = src[1:]
	n := len(dst)

	switch filter {
	case ftNone:
		copy(dst, src)
		return nil

	case ftSub:
		if n < 3 {
			return nil
		}
		dst[0] = src[0]
		dst[1] = src[1]
		dst[2] = src[2]
		for x := 3; x < n; x += 3 {
			dst[x+0] = src[x+0] + dst[x-3]
			dst[x+1] = src[x+1] + dst[x-2]
			dst[x+2] = src[x+2] + dst[x-1]
		}
		return nil

	case ftUp:
		if prev == nil {
			copy(dst, src)
			return nil
		}
		if n >= wideAddThreshold {
			addBytesWide(dst, src, prev)
			return nil
		}
		addBytesScalar(dst, src, prev)
		return nil

	case ftAverage:
		if n < 3 {
			return nil
		}
		if prev == nil {
			dst[0] = src[0]
			dst[1] = src[1]
			dst[2] = src[2]
			for x := 3; x < n; x += 3 {
				dst[x+0] = src[x+0] + dst[x-3]>>1
				dst[x+1] = src[x+1] + dst[x-2]>>1
				dst[x+2] = src[x+2] + dst[x-1]>>1
			}
			return nil
		}
		dst[0] = src[0] + prev[0]>>1
		dst[1] = src[1] + prev[1]>>1
		dst[2] = src[2] + prev[2]>>1
		for x := 3; x < n; x += 3 {
			dst[x+0] = src[x+0] + uint8((int(dst[x-3])+int(prev[x+0]))>>1)
			dst[x+1] = src[x+1] + uint8((int(dst[x-2])+int(prev[x+1]))>>1)
			dst[x+2] = src[x+2] + uint8((int(dst[x-1])+int(prev[x+2]))>>1)
		}
		return nil

	case ftPaeth:
		if n < 3 {
			return nil
		}
		if prev == nil {
			dst[0] = src[0]
			dst[1] = src[1]
			dst[2] = src[2]
			for x := 3; x < n; x += 3 {
				dst[x+0] = src[x+0] + dst[x-3]
				dst[x+1] = src[x+1] + dst[x-2]
				dst[x+2] = src[x+2] + dst[x-1]
			}
			return nil
		}
		dst[0] = src[0] + prev[0]
		dst[1] = src[1] + prev[1]
		dst[2] = src[2] + prev[2]
		for x := 3; x < n; x += 3 {
			dst[x+0] = src[x+0] + paeth(dst[x-3], prev[x+0], prev[x-3])
			dst[x+1] = src[x+1] + paeth(dst[x-2], prev[x+1], prev[x-2])
			dst[x+2] = src[x+2] + paeth(dst[x-1], prev[x+2], prev[x-1])
		}
		return nil
	}
	return errUnknownFilter
}

// unfilterRow dispatches on bytes-per-pixel. The accepted profile only
// produces bpp 3 and 4; the generic path keeps the function total.
func unfilterRow(dst, src, prev []byte, bpp int) error {
	switch bpp {
	case 4:
		return unfilterRowBPP4(dst, src, prev)
	case 3:
		return unfilterRowBPP3(dst, src, prev)
	}

	filter := src[0]
	src = src[1:]
	switch filter {
	case ftNone:
		copy(dst, src)
	case ftSub:
		for x := range dst {
			var left uint8
			if x >= bpp {
				left = dst[x-bpp]
			}
			dst[x] = src[x] + left
		}
	case ftUp:
		if prev == nil {
			copy(dst, src)
			return nil
		}
		addBytesScalar(dst, src, prev)
	case ftAverage:
		for x := range dst {
			var left, up uint8
			if x >= bpp {
				left = dst[x-bpp]
			}
			if prev != nil {
				up = prev[x]
			}
			dst[x] = src[x] + uint8((int(left)+int(up))>>1)
		}
	case ftPaeth:
		for x := range dst {
			var left, up, upLeft uint8
			if x >= bpp {
				left = dst[x-bpp]
			}
			if prev != nil {
				up = prev[x]
				if x >= bpp {
					upLeft = prev[x-bpp]
				}
			}
			dst[x] = src[x] + paeth(left, up, upLeft)
		}
	default:
		return errUnknownFilter
	}
	return nil
}
