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
	"bytes"
	"math/rand"
	"testing"
)

// unfilterRowRef is a deliberately naive reconstruction used as the oracle
// for the unrolled bpp-specialised paths.
func unfilterRowRef(dst, src, prev []byte, bpp int) bool {
	filter := src[0]
	src = src[1:]
	for x := range dst {
		var left, up, upLeft int
		if x >= bpp {
			left = int(dst[x-bpp])
		}
		if prev != nil {
			up = int(prev[x])
			if x >= bpp {
				upLeft = int(prev[x-bpp])
			}
		}
		switch filter {
		case 0:
			dst[x] = src[x]
		case 1:
			dst[x] = src[x] + byte(left)
		case 2:
			dst[x] = src[x] + byte(up)
		case 3:
			dst[x] = src[x] + byte((left+up)>>1)
		case 4:
			dst[x] = src[x] + paethArith(byte(left), byte(up), byte(upLeft))
		default:
			return false
		}
	}
	return true
}

func TestUnfilterRowMatchesReference(t *testing.T) {
	paethInitTables()
	rng := rand.New(rand.NewSource(7))

	for _, bpp := range []int{3, 4} {
		// Widths straddling the 64-byte wide-add threshold, plus a
		// one-pixel row.
		for _, pixels := range []int{1, 2, 5, 16, 21, 22, 64, 100} {
			rowBytes := pixels * bpp
			src := make([]byte, 1+rowBytes)
			prev := make([]byte, rowBytes)
			for i := range src {
				src[i] = byte(rng.Intn(256))
			}
			for i := range prev {
				prev[i] = byte(rng.Intn(256))
			}

			for filter := byte(0); filter <= 4; filter++ {
				src[0] = filter
				for _, withPrev := range []bool{false, true} {
					p := prev
					if !withPrev {
						p = nil
					}
					got := make([]byte, rowBytes)
					want := make([]byte, rowBytes)
					if err := unfilterRow(got, src, p, bpp); err != nil {
						t.Fatalf("bpp=%d pixels=%d filter=%d prev=%v: %v",
							bpp, pixels, filter, withPrev, err)
					}
					unfilterRowRef(want, src, p, bpp)
					if !bytes.Equal(got, want) {
						t.Fatalf("bpp=%d pixels=%d filter=%d prev=%v: mismatch\ngot  % 02X\nwant % 02X",
							bpp, pixels, filter, withPrev, got, want)
					}
				}
			}
		}
	}
}

func TestUnfilterRowGenericBPP(t *testing.T) {
	paethInitTables()
	rng := rand.New(rand.NewSource(8))

	const bpp = 2 // outside the accepted profile, exercises the slow path
	const rowBytes = 2 * 13
	src := make([]byte, 1+rowBytes)
	prev := make([]byte, rowBytes)
	for i := range src {
		src[i] = byte(rng.Intn(256))
	}
	for i := range prev {
		prev[i] = byte(rng.Intn(256))
	}

	for filter := byte(0); filter <= 4; filter++ {
		src[0] = filter
		got := make([]byte, rowBytes)
		want := make([]byte, rowBytes)
		if err := unfilterRow(got, src, prev, bpp); err != nil {
			t.Fatalf("filter=%d: %v", filter, err)
		}
		unfilterRowRef(want, src, prev, bpp)
		if !bytes.Equal(got, want) {
			t.Fatalf("filter=%d: mismatch", filter)
		}
	}
}

func TestUnfilterRowUnknownFilter(t *testing.T) {
	for _, bpp := range []int{2, 3, 4} {
		src := []byte{5, 1, 2, 3, 4}
		dst := make([]byte, 4)
		if err := unfilterRow(dst, src, nil, bpp); err == nil {
			t.Fatalf("bpp=%d: filter type 5 accepted", bpp)
		}
	}
}

func TestAddBytesWideMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, n := range []int{0, 1, 7, 8, 31, 32, 33, 63, 64, 65, 255, 1024} {
		a := make([]byte, n)
		b := make([]byte, n)
		for i := 0; i < n; i++ {
			a[i] = byte(rng.Intn(256))
			b[i] = byte(rng.Intn(256))
		}
		wide := make([]byte, n)
		scalar := make([]byte, n)
		addBytesWide(wide, a, b)
		addBytesScalar(scalar, a, b)
		if !bytes.Equal(wide, scalar) {
			t.Fatalf("n=%d: SWAR add diverges from scalar", n)
		}
	}
}

func TestPaethImplementationsAgree(t *testing.T) {
	paethInitTables()
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			for c := 0; c < 256; c++ {
				arith := paethArith(byte(a), byte(b), byte(c))
				table := paethTable(byte(a), byte(b), byte(c))
				if arith != table {
					t.Fatalf("paeth(%d, %d, %d): arith=%d table=%d", a, b, c, arith, table)
				}
			}
		}
	}
}
