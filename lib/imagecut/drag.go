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

package imagecut

// Pointer gesture plumbing. The windowing collaborator converts screen
// coordinates to image pixels and calls these; every committed mutation
// still flows through the edit API, so a gesture can never leave the
// partition in a half-edited state.

// BeginDraw starts drawing a new cut from image pixel (ix, iy). Only valid
// with the Draw tool.
func (e *Editor) BeginDraw(ix, iy int) bool {
	if e.tool != ToolDraw || e.drag != DragNone {
		return false
	}
	ix = clamp(ix, 0, e.width-1)
	iy = clamp(iy, 0, e.height-1)
	e.drag = DragDrawNew
	e.previewActive = true
	e.preview = Cut{ix, iy, ix, iy}
	return true
}

// BeginMove starts dragging the cut at index i from (ix, iy).
func (e *Editor) BeginMove(i, ix, iy int) bool {
	if e.drag != DragNone || i < 0 || i >= len(e.cuts) {
		return false
	}
	e.selectedCut = i
	e.updateSelectedSection()
	e.drag = DragMoveCut
	e.dragLastX = ix
	e.dragLastY = iy
	return true
}

// BeginResize starts dragging one endpoint of the cut at index i.
func (e *Editor) BeginResize(i int, which Endpoint) bool {
	if e.drag != DragNone || i < 0 || i >= len(e.cuts) {
		return false
	}
	if which != EndpointA && which != EndpointB {
		return false
	}
	e.selectedCut = i
	e.updateSelectedSection()
	if which == EndpointA {
		e.drag = DragResizeA
	} else {
		e.drag = DragResizeB
	}
	return true
}

// UpdateDrag feeds the current pointer position (in image pixels) to the
// in-flight gesture. Move and resize gestures apply their edit live; a
// rejected step simply leaves the cut where it was.
func (e *Editor) UpdateDrag(ix, iy int) {
	switch e.drag {
	case DragDrawNew:
		e.preview.X2 = clamp(ix, 0, e.width-1)
		e.preview.Y2 = clamp(iy, 0, e.height-1)

	case DragMoveCut:
		if e.selectedCut < 0 {
			e.drag = DragNone
			return
		}
		dx := ix - e.dragLastX
		dy := iy - e.dragLastY
		if dx != 0 || dy != 0 {
			if e.TranslateCut(e.selectedCut, dx, dy) {
				e.dragLastX = ix
				e.dragLastY = iy
			}
		}

	case DragResizeA, DragResizeB:
		if e.selectedCut < 0 {
			e.drag = DragNone
			return
		}
		which := EndpointA
		if e.drag == DragResizeB {
			which = EndpointB
		}
		e.ResizeEndpoint(e.selectedCut, which, ix, iy)
	}
}

// Preview returns the live draw preview, valid while a DragDrawNew gesture
// is active.
func (e *Editor) Preview() (Cut, bool) {
	return e.preview, e.previewActive
}

// EndDrag finishes the gesture. Finishing a draw submits the preview through
// AddCut and reports whether it was accepted; other gestures have already
// applied their edits incrementally.
func (e *Editor) EndDrag() bool {
	drag := e.drag
	e.drag = DragNone

	if drag != DragDrawNew || !e.previewActive {
		return false
	}
	e.previewActive = false
	return e.AddCut(e.preview)
}

// CancelDrag abandons any in-flight gesture without submitting anything.
func (e *Editor) CancelDrag() {
	e.drag = DragNone
	e.previewActive = false
}
