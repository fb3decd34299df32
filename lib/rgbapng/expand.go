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
	"errors"
	"os"
	"strconv"
	"sync"
)

// Worker fan-out thresholds for the RGB expansion. Small images finish
// faster on one core than the goroutines take to schedule.
const (
	expandMinRows   = 64
	expandMinPixels = 400000
)

var (
	threadsOnce  sync.Once
	threadsValue = 1
)

// parseThreads validates a worker-count setting: an integer in [1, 128].
func parseThreads(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > 128 {
		return 0, errors.New("rgbapng: thread count out of range")
	}
	return v, nil
}

// configuredThreads reads SLICER_PNG_THREADS once. Valid settings are
// honoured; anything malformed or out of range keeps the default of 1.
func configuredThreads() int {
	threadsOnce.Do(func() {
		s := os.Getenv("SLICER_PNG_THREADS")
		if s == "" {
			return
		}
		if v, err := parseThreads(s); err == nil {
			threadsValue = v
		}
	})
	return threadsValue
}

// expandRowsRGBA copies unfiltered RGB scanlines for rows [y0, y1) into the
// packed RGBA output, alpha 255, or alpha 0 where a chroma-key matches.
func expandRowsRGBA(rgba, scan []byte, width, y0, y1 int, key trns) {
	rowBytes := width * 3
	outRowBytes := width * 4

	if !key.present {
		for y := y0; y < y1; y++ {
			expandRowQuad(rgba[y*outRowBytes:(y+1)*outRowBytes], scan[y*rowBytes:(y+1)*rowBytes], width)
		}
		return
	}

	for y := y0; y < y1; y++ {
		in := scan[y*rowBytes : (y+1)*rowBytes]
		out := rgba[y*outRowBytes : (y+1)*outRowBytes]
		for x := 0; x < width; x++ {
			r := in[x*3+0]
			g := in[x*3+1]
			b := in[x*3+2]
			out[x*4+0] = r
			out[x*4+1] = g
			out[x*4+2] = b
			if r == key.r && g == key.g && b == key.b {
				out[x*4+3] = 0
			} else {
				out[x*4+3] = 255
			}
		}
	}
}

// expandRowQuad widens one RGB row to RGBA four pixels per iteration,
// 12 source bytes to 16 output bytes, with a scalar tail. The slice
// re-headers give the compiler a fixed window to elide bounds checks in.
func expandRowQuad(out, in []byte, width int) {
	x := 0
	for ; x+4 <= width; x += 4 {
		o := out[x*4 : x*4+16 : x*4+16]
		i := in[x*3 : x*3+12 : x*3+12]
		o[0], o[1], o[2], o[3] = i[0], i[1], i[2], 255
		o[4], o[5], o[6], o[7] = i[3], i[4], i[5], 255
		o[8], o[9], o[10], o[11] = i[6], i[7], i[8], 255
		o[12], o[13], o[14], o[15] = i[9], i[10], i[11], 255
	}
	for ; x < width; x++ {
		out[x*4+0] = in[x*3+0]
		out[x*4+1] = in[x*3+1]
		out[x*4+2] = in[x*3+2]
		out[x*4+3] = 255
	}
}

// expandRowScalar is the reference expansion. It exists so the quad path has
// something to be held byte-identical against.
func expandRowScalar(out, in []byte, width int) {
	for x := 0; x < width; x++ {
		out[x*4+0] = in[x*3+0]
		out[x*4+1] = in[x*3+1]
		out[x*4+2] = in[x*3+2]
		out[x*4+3] = 255
	}
}

// expandRGBToRGBA fans the expansion out over threads contiguous row ranges
// when the image is large enough, joining all workers before returning. The
// workers write disjoint row ranges, so the join is the only synchronisation.
func expandRGBToRGBA(rgba, scan []byte, width, height, threads int, key trns) {
	if threads <= 1 || height < expandMinRows || width*height < expandMinPixels {
		expandRowsRGBA(rgba, scan, width, 0, height, key)
		return
	}
	if threads > height {
		threads = height
	}

	chunk := (height + threads - 1) / threads
	var wg sync.WaitGroup
	for i := 1; i < threads; i++ {
		y0 := i * chunk
		y1 := y0 + chunk
		if y0 >= height {
			break
		}
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			expandRowsRGBA(rgba, scan, width, y0, y1, key)
		}(y0, y1)
	}
	y1 := chunk
	if y1 > height {
		y1 = height
	}
	expandRowsRGBA(rgba, scan, width, 0, y1, key)
	wg.Wait()
}

// decodeRawToRGBA runs the unfilter + expand pipeline over the inflated
// scanline buffer. RGBA sources unfilter straight into the output raster,
// using the previous output row as the filter predecessor. RGB sources
// either stream through two scratch rows (single-threaded) or unfilter the
// whole image first so the expansion can be partitioned across workers.
func decodeRawToRGBA(rgba, raw []byte, width, height, channels int, key trns) error {
	paethInitTables()

	rowBytes := width * channels
	outRowBytes := width * 4

	if channels == 4 {
		for y := 0; y < height; y++ {
			src := raw[y*(rowBytes+1) : (y+1)*(rowBytes+1)]
			var prev []byte
			if y > 0 {
				prev = rgba[(y-1)*outRowBytes : y*outRowBytes]
			}
			dst := rgba[y*outRowBytes : (y+1)*outRowBytes]
			if err := unfilterRow(dst, src, prev, 4); err != nil {
				return err
			}
		}
		return nil
	}

	threads := configuredThreads()
	if threads <= 1 {
		rowState := make([]byte, rowBytes*2)
		prevRow := rowState[:rowBytes]
		curRow := rowState[rowBytes:]

		for y := 0; y < height; y++ {
			src := raw[y*(rowBytes+1) : (y+1)*(rowBytes+1)]
			var prev []byte
			if y > 0 {
				prev = prevRow
			}
			if err := unfilterRow(curRow, src, prev, 3); err != nil {
				return err
			}
			expandRowsRGBA(rgba[y*outRowBytes:(y+1)*outRowBytes], curRow, width, 0, 1, key)
			prevRow, curRow = curRow, prevRow
		}
		return nil
	}

	scan := make([]byte, rowBytes*height)
	for y := 0; y < height; y++ {
		src := raw[y*(rowBytes+1) : (y+1)*(rowBytes+1)]
		var prev []byte
		if y > 0 {
			prev = scan[(y-1)*rowBytes : y*rowBytes]
		}
		if err := unfilterRow(scan[y*rowBytes:(y+1)*rowBytes], src, prev, 3); err != nil {
			return err
		}
	}
	expandRGBToRGBA(rgba, scan, width, height, threads, key)
	return nil
}
