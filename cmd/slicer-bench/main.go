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

// slicer-bench decodes a PNG file repeatedly and reports wall-clock timing
// and throughput. It exists to compare filter/expander paths (and
// SLICER_PNG_THREADS settings) without a profiler in the loop.
//
// Usage: slicer-bench image.png [iterations]
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/qwerty-dvorak/slicer/lib/rgbapng"
)

func main() {
	if err := main1(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func main1() error {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		return fmt.Errorf("usage: %s image.png [iterations]", os.Args[0])
	}
	path := os.Args[1]
	iterations := 16
	if len(os.Args) == 3 {
		v, err := strconv.Atoi(os.Args[2])
		if err != nil || v < 1 {
			return fmt.Errorf("invalid iteration count %q", os.Args[2])
		}
		iterations = v
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// One warm-up decode keeps lazy initialisation (decompressor, Paeth
	// tables) out of the measured loop.
	img, err := rgbapng.Decode(data)
	if err != nil {
		return err
	}

	var total, minD, maxD time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if _, err := rgbapng.Decode(data); err != nil {
			return err
		}
		d := time.Since(start)
		total += d
		if i == 0 || d < minD {
			minD = d
		}
		if d > maxD {
			maxD = d
		}
	}

	mean := total / time.Duration(iterations)
	mbPerSec := float64(len(data)) / mean.Seconds() / (1024 * 1024)

	fmt.Printf("%s: %dx%d, %d bytes, alpha=%v\n",
		path, img.Width, img.Height, len(data), img.HasAlpha)
	fmt.Printf("iterations: %d\n", iterations)
	fmt.Printf("total:      %v\n", total)
	fmt.Printf("per-iter:   mean %v, min %v, max %v\n", mean, minD, maxD)
	fmt.Printf("throughput: %.2f MiB/s (compressed input)\n", mbPerSec)
	return nil
}
