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

import "sync"

// The Paeth predictor selects among the left (a), upper (b) and upper-left
// (c) neighbours, whichever is closest to a+b-c. Two implementations live
// here: a branch-minimised arithmetic form and a pair of absolute-difference
// lookup tables. Which one backs the decoder is a build-time choice (the
// slicer_paeth_arith tag); both must be byte-identical, and the tests hold
// them to that.

// paethArith is the reference form.
func paethArith(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := p - int(a)
	pb := p - int(b)
	pc := p - int(c)
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

// The tables give |d| for d in [-255, 255] and [-510, 510], biased by 255
// and 510. pa = |b-c|, pb = |a-c| and pc = |a+b-2c| index them directly.
var (
	paethOnce sync.Once
	abs255    [511]uint16
	abs510    [1021]uint16
)

func paethInitTables() {
	paethOnce.Do(func() {
		for i := -255; i <= 255; i++ {
			v := i
			if v < 0 {
				v = -v
			}
			abs255[i+255] = uint16(v)
		}
		for i := -510; i <= 510; i++ {
			v := i
			if v < 0 {
				v = -v
			}
			abs510[i+510] = uint16(v)
		}
	})
}

// paethTable is the table-driven form. paethInitTables must have run.
func paethTable(a, b, c uint8) uint8 {
	pa := abs255[int(b)-int(c)+255]
	pb := abs255[int(a)-int(c)+255]
	pc := abs510[int(a)+int(b)-2*int(c)+510]
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}
