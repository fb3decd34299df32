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

func TestExpandRowQuadMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, width := range []int{1, 2, 3, 4, 5, 7, 8, 15, 16, 63, 257} {
		in := make([]byte, width*3)
		for i := range in {
			in[i] = byte(rng.Intn(256))
		}
		quad := make([]byte, width*4)
		scalar := make([]byte, width*4)
		expandRowQuad(quad, in, width)
		expandRowScalar(scalar, in, width)
		if !bytes.Equal(quad, scalar) {
			t.Fatalf("width=%d: quad expansion diverges from scalar", width)
		}
	}
}

func TestExpandChromaKey(t *testing.T) {
	key := trns{present: true, r: 10, g: 20, b: 30}
	scan := []byte{
		10, 20, 30,
		10, 20, 31,
		10, 20, 30,
	}
	rgba := make([]byte, 3*4)
	expandRowsRGBA(rgba, scan, 3, 0, 1, key)

	wantAlpha := []byte{0, 255, 0}
	for i, want := range wantAlpha {
		if got := rgba[i*4+3]; got != want {
			t.Errorf("pixel %d: alpha=%d, want %d", i, got, want)
		}
		if rgba[i*4] != scan[i*3] || rgba[i*4+1] != scan[i*3+1] || rgba[i*4+2] != scan[i*3+2] {
			t.Errorf("pixel %d: colour channels altered", i)
		}
	}
}

func TestExpandFanOutMatchesSingleThread(t *testing.T) {
	const w, h = 500, 1000 // crosses both fan-out thresholds
	rng := rand.New(rand.NewSource(12))
	scan := make([]byte, w*h*3)
	for i := range scan {
		scan[i] = byte(rng.Intn(256))
	}

	for _, key := range []trns{
		{},
		{present: true, r: scan[0], g: scan[1], b: scan[2]},
	} {
		single := make([]byte, w*h*4)
		expandRowsRGBA(single, scan, w, 0, h, key)

		for _, threads := range []int{2, 3, 7, 128} {
			fanned := make([]byte, w*h*4)
			expandRGBToRGBA(fanned, scan, w, h, threads, key)
			if !bytes.Equal(single, fanned) {
				t.Fatalf("threads=%d key=%v: fan-out output differs", threads, key.present)
			}
		}
	}
}

func TestExpandSmallImagesStaySingleThreaded(t *testing.T) {
	// Below the thresholds the fan-out must not be taken; this only checks
	// the output is still right when threads > 1 is requested.
	const w, h = 10, 10
	scan := make([]byte, w*h*3)
	for i := range scan {
		scan[i] = byte(i)
	}
	single := make([]byte, w*h*4)
	expandRowsRGBA(single, scan, w, 0, h, trns{})
	fanned := make([]byte, w*h*4)
	expandRGBToRGBA(fanned, scan, w, h, 8, trns{})
	if !bytes.Equal(single, fanned) {
		t.Fatal("small-image output differs")
	}
}

func TestConfiguredThreadsParsing(t *testing.T) {
	// The sync.Once means the environment is only sampled once per process;
	// parse logic is exercised through the same code path the Once wraps.
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"", 1},
		{"0", 1},
		{"-3", 1},
		{"129", 1},
		{"banana", 1},
		{"1", 1},
		{"4", 4},
		{"128", 128},
	} {
		got := 1
		if tc.in != "" {
			if v, err := parseThreads(tc.in); err == nil {
				got = v
			}
		}
		if got != tc.want {
			t.Errorf("SLICER_PNG_THREADS=%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}
