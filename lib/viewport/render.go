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

package viewport

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/qwerty-dvorak/slicer/lib/rgbapng"
)

// BackgroundMode selects what shows through transparent pixels and around
// the image.
type BackgroundMode int

const (
	BackgroundCheckered BackgroundMode = iota
	BackgroundSolid
)

// Background configures the backdrop fill.
type Background struct {
	Mode    BackgroundMode
	R, G, B uint8
}

// Checker cells are 16 px squares alternating between two grays.
const (
	checkerShift = 4
	checkerDark  = 120
	checkerLight = 200
)

// Render fills dst with the backdrop and composites the scaled image into
// the view rectangle. dst is a window-sized RGBA buffer; scaling uses an
// approximate bilinear kernel, which is what keeps pan/zoom interactive on
// large rasters.
func Render(dst *image.RGBA, img *rgbapng.Image, v View, bg Background) {
	fillBackground(dst, bg)
	if img == nil || !v.Valid() {
		return
	}

	src := &image.NRGBA{
		Pix:    img.RGBA,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	target := image.Rect(v.OffX, v.OffY, v.OffX+v.DrawW, v.OffY+v.DrawH)
	draw.ApproxBiLinear.Scale(dst, target, src, src.Rect, draw.Over, nil)
}

func fillBackground(dst *image.RGBA, bg Background) {
	b := dst.Rect
	if bg.Mode == BackgroundSolid {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				row[i+0] = bg.R
				row[i+1] = bg.G
				row[i+2] = bg.B
				row[i+3] = 255
			}
		}
		return
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)]
		for x := 0; x < len(row)/4; x++ {
			c := uint8(checkerLight)
			if ((x>>checkerShift)+(y>>checkerShift))&1 != 0 {
				c = checkerDark
			}
			row[x*4+0] = c
			row[x*4+1] = c
			row[x*4+2] = c
			row[x*4+3] = 255
		}
	}
}
