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

// Package viewport maps between image pixels and screen pixels for a
// fit-to-window view with zoom and pan, and renders the decoded raster over
// a checkered or solid backdrop. It is the projection the partition editor's
// hit testing runs against.
package viewport

// Params is the user-controlled part of the view: a zoom factor applied on
// top of the fit-to-window scale, and a pixel pan offset.
type Params struct {
	Zoom float64
	PanX int
	PanY int
}

// View is a resolved projection: where the image's scaled rectangle sits in
// the window, and how big it is. The zero View (empty draw rectangle) maps
// nothing.
type View struct {
	DrawW int
	DrawH int
	OffX  int
	OffY  int

	imgW int
	imgH int
}

// Compute resolves the projection for an imgW x imgH image in a winW x winH
// window. The image is scaled to fit the window, multiplied by the zoom
// (values <= 0 mean 1.0), centred, then shifted by the pan.
func Compute(imgW, imgH, winW, winH int, p Params) View {
	if imgW <= 0 || imgH <= 0 || winW <= 0 || winH <= 0 {
		return View{}
	}

	fitScale := float64(winW) / float64(imgW)
	if s := float64(winH) / float64(imgH); s < fitScale {
		fitScale = s
	}
	zoom := p.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	scale := fitScale * zoom

	drawW := int(float64(imgW)*scale + 0.5)
	drawH := int(float64(imgH)*scale + 0.5)
	if drawW < 1 {
		drawW = 1
	}
	if drawH < 1 {
		drawH = 1
	}

	return View{
		DrawW: drawW,
		DrawH: drawH,
		OffX:  (winW-drawW)/2 + p.PanX,
		OffY:  (winH-drawH)/2 + p.PanY,
		imgW:  imgW,
		imgH:  imgH,
	}
}

// Valid reports whether the view projects anything.
func (v View) Valid() bool { return v.DrawW > 0 && v.DrawH > 0 }

// ImageToScreen maps an image pixel to its screen position. It satisfies
// imagecut.Projection.
func (v View) ImageToScreen(ix, iy int) (int, int) {
	return v.OffX + ix*v.DrawW/v.imgW, v.OffY + iy*v.DrawH/v.imgH
}

// ScreenToImage maps a screen position to the nearest image pixel, clamped
// to the image, and reports whether the position was inside the drawn
// rectangle.
func (v View) ScreenToImage(sx, sy int) (ix, iy int, inside bool) {
	if !v.Valid() {
		return 0, 0, false
	}
	lx := int64(sx) - int64(v.OffX)
	ly := int64(sy) - int64(v.OffY)
	inside = lx >= 0 && ly >= 0 && lx < int64(v.DrawW) && ly < int64(v.DrawH)

	ix = clamp(int(lx*int64(v.imgW)/int64(v.DrawW)), 0, v.imgW-1)
	iy = clamp(int(ly*int64(v.imgH)/int64(v.DrawH)), 0, v.imgH-1)
	return ix, iy, inside
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
