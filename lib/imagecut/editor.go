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

import "errors"

// Tool is the editor's active interaction tool.
type Tool int

const (
	ToolDraw Tool = iota
	ToolSelect
	ToolMove
)

// DragMode tracks the in-flight pointer gesture.
type DragMode int

const (
	DragNone DragMode = iota
	DragDrawNew
	DragMoveCut
	DragResizeA
	DragResizeB
)

// Endpoint names one end of a cut for resize operations.
type Endpoint int

const (
	EndpointA Endpoint = 1
	EndpointB Endpoint = 2
)

// Grid dimension bounds per axis.
const (
	GridMin = 1
	GridMax = 64
)

var ErrImageBounds = errors.New("imagecut: invalid image dimensions")

// Editor holds one document's partition state: the ordered cut list, the
// derived section list, selection, tool and gesture state. It is a plain
// owned value; create as many independent editors as needed. An Editor is
// not safe for concurrent use.
//
// Every mutation goes through a rebuild of the whole partition from a
// candidate cut list. A rebuild either commits (cuts, sections and selection
// all replaced together) or the editor is left exactly as it was.
type Editor struct {
	width  int
	height int

	cuts        []Cut
	sections    []Section
	selectedCut int // -1 for none
	selectedSec int // -1 only when the image is degenerate

	tool Tool
	drag DragMode

	dragLastX int
	dragLastY int

	previewActive bool
	preview       Cut

	hudVisible bool
	gridCols   int
	gridRows   int
}

// New creates an editor over a width x height image with one root section.
func New(width, height int) (*Editor, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrImageBounds
	}
	e := &Editor{
		width:       width,
		height:      height,
		selectedCut: -1,
		hudVisible:  true,
		gridCols:    2,
		gridRows:    2,
	}
	e.sections = []Section{{0, 0, width, height}}
	e.selectedSec = 0
	return e, nil
}

// Accessors. Cuts and Sections return the live backing slices; callers must
// not mutate them.

func (e *Editor) Width() int           { return e.width }
func (e *Editor) Height() int          { return e.height }
func (e *Editor) Cuts() []Cut          { return e.cuts }
func (e *Editor) Sections() []Section  { return e.sections }
func (e *Editor) SelectedCut() int     { return e.selectedCut }
func (e *Editor) SelectedSection() int { return e.selectedSec }
func (e *Editor) ActiveTool() Tool     { return e.tool }
func (e *Editor) Drag() DragMode       { return e.drag }
func (e *Editor) HUDVisible() bool     { return e.hudVisible }
func (e *Editor) GridSize() (cols, rows int) {
	return e.gridCols, e.gridRows
}

// SetTool switches the active tool; leaving a tool cancels any gesture.
func (e *Editor) SetTool(t Tool) {
	if t != e.tool {
		e.CancelDrag()
	}
	e.tool = t
}

// ToggleHUD flips the HUD visibility flag.
func (e *Editor) ToggleHUD() { e.hudVisible = !e.hudVisible }

// SelectCut sets the selected cut, or clears it with -1. The selected
// section follows the cut's midpoint.
func (e *Editor) SelectCut(i int) bool {
	if i != -1 && (i < 0 || i >= len(e.cuts)) {
		return false
	}
	e.selectedCut = i
	e.updateSelectedSection()
	return true
}

// SelectSection sets the selected section directly.
func (e *Editor) SelectSection(i int) bool {
	if i < 0 || i >= len(e.sections) {
		return false
	}
	e.selectedSec = i
	return true
}

// FindSectionAt returns the index of the section containing image pixel
// (ix, iy), or -1. Sections are interior-disjoint so at most one matches.
func (e *Editor) FindSectionAt(ix, iy int) int {
	for i, s := range e.sections {
		if s.Contains(ix, iy) {
			return i
		}
	}
	return -1
}

// updateSelectedSection re-derives the selected section after a rebuild: the
// leaf under the selected cut's midpoint, else the first section.
func (e *Editor) updateSelectedSection() {
	if e.selectedCut >= 0 && e.selectedCut < len(e.cuts) {
		mx, my := e.cuts[e.selectedCut].midpoint()
		if i := e.FindSectionAt(mx, my); i >= 0 {
			e.selectedSec = i
			return
		}
	}
	if e.selectedSec < 0 || e.selectedSec >= len(e.sections) {
		if len(e.sections) > 0 {
			e.selectedSec = 0
		} else {
			e.selectedSec = -1
		}
	}
}

// commit replaces the committed partition state.
func (e *Editor) commit(cuts []Cut, sections []Section) {
	e.cuts = cuts
	e.sections = sections
	e.updateSelectedSection()
}

// AddCut canonicalises and clamps c, then tries to insert it after the
// existing cuts. Degenerate cuts, duplicates, a full document and cuts no
// leaf can host are all rejected, leaving the editor untouched. On success
// the new cut becomes the selection.
func (e *Editor) AddCut(c Cut) bool {
	c = c.Canonical().clampTo(e.width, e.height).Canonical()
	if c.Degenerate() {
		return false
	}
	// Duplicates are rejected on the canonical input, before any refit:
	// resubmitting an existing cut must not sidle in next to it.
	for _, p := range e.cuts {
		if p == c {
			return false
		}
	}
	if len(e.cuts) >= MaxCuts {
		return false
	}

	cand := make([]Cut, len(e.cuts)+1)
	copy(cand, e.cuts)
	cand[len(e.cuts)] = c

	cuts, sections, ok := rebuildPartition(e.width, e.height, cand, len(e.cuts), FitDefault, 0)
	if !ok {
		return false
	}
	e.selectedCut = len(cuts) - 1
	e.commit(cuts, sections)
	return true
}

// DeleteCut removes the cut at index i and rebuilds. The remaining cuts
// re-snap to the coarser partition. A selection before i is kept and one
// after i shifts down with its cut; when cut i itself was selected, the
// selection stays at index i (now the next cut), clamped to the new last
// cut. The selection clears when the document empties.
func (e *Editor) DeleteCut(i int) bool {
	if i < 0 || i >= len(e.cuts) {
		return false
	}
	cand := make([]Cut, 0, len(e.cuts)-1)
	cand = append(cand, e.cuts[:i]...)
	cand = append(cand, e.cuts[i+1:]...)

	cuts, sections, ok := rebuildPartition(e.width, e.height, cand, -1, FitDefault, 0)
	if !ok {
		return false
	}

	sel := e.selectedCut
	switch {
	case len(cuts) == 0:
		sel = -1
	case sel > i || sel >= len(cuts):
		if sel > i {
			sel--
		}
		if sel >= len(cuts) {
			sel = len(cuts) - 1
		}
	}
	e.selectedCut = sel
	e.commit(cuts, sections)
	return true
}

// DeleteSelectedCut removes the current selection, if any.
func (e *Editor) DeleteSelectedCut() bool {
	return e.DeleteCut(e.selectedCut)
}

// RotateCut replaces the cut at index i with a perpendicular one through its
// midpoint. The replacement starts as a 3-pixel hint segment - just enough
// to fix the axis unambiguously - and the refit then snaps it to the full
// extent of whatever leaf claims it. Rolls back when the refit fails or
// collides with an existing cut.
func (e *Editor) RotateCut(i int) bool {
	if i < 0 || i >= len(e.cuts) {
		return false
	}
	c := e.cuts[i]
	cx, cy := c.midpoint()
	var hint Cut
	if c.Vertical() {
		hint = Cut{cx - 1, cy, cx + 1, cy}
	} else {
		hint = Cut{cx, cy - 1, cx, cy + 1}
	}
	hint = hint.clampTo(e.width, e.height).Canonical()
	if hint.Degenerate() {
		return false
	}
	return e.replaceCut(i, hint, FitDefault, 0)
}

// RotateSelectedCut rotates the current selection, if any.
func (e *Editor) RotateSelectedCut() bool {
	return e.RotateCut(e.selectedCut)
}

// ResizeEndpoint moves one endpoint of cut i to the clamped new pixel while
// the opposite endpoint stays fixed. Growing the cut refits with
// FitPreferParent, shrinking with FitPreferChild, so the cut migrates toward
// an enclosing or enclosed leaf to match the user's intent; the pre-edit
// span is the reference either way.
func (e *Editor) ResizeEndpoint(i int, which Endpoint, px, py int) bool {
	if i < 0 || i >= len(e.cuts) {
		return false
	}
	if which != EndpointA && which != EndpointB {
		return false
	}
	c := e.cuts[i]
	preSpan := c.span()

	px = clamp(px, 0, e.width-1)
	py = clamp(py, 0, e.height-1)
	if which == EndpointA {
		c.X1, c.Y1 = px, py
	} else {
		c.X2, c.Y2 = px, py
	}
	c = c.Canonical()
	if c.Degenerate() {
		return false
	}

	mode := FitDefault
	switch newSpan := c.span(); {
	case newSpan > preSpan:
		mode = FitPreferParent
	case newSpan < preSpan:
		mode = FitPreferChild
	}
	return e.replaceCut(i, c, mode, preSpan)
}

// TranslateCut shifts cut i rigidly by (dx, dy), clamped back into the
// image, and refits. Translating by zero commits the identical list.
func (e *Editor) TranslateCut(i, dx, dy int) bool {
	if i < 0 || i >= len(e.cuts) {
		return false
	}
	c := e.cuts[i].translateClamped(dx, dy, e.width, e.height)
	return e.replaceCut(i, c, FitDefault, 0)
}

// replaceCut rebuilds with cand substituted at index i.
func (e *Editor) replaceCut(i int, cand Cut, mode FitMode, refSpan int) bool {
	list := make([]Cut, len(e.cuts))
	copy(list, e.cuts)
	list[i] = cand

	cuts, sections, ok := rebuildPartition(e.width, e.height, list, i, mode, refSpan)
	if !ok {
		return false
	}
	e.commit(cuts, sections)
	return true
}

// AdjustGridSize nudges the grid dimensions, clamped to [GridMin, GridMax],
// and reports whether either changed.
func (e *Editor) AdjustGridSize(dcols, drows int) bool {
	nextCols := clamp(e.gridCols+dcols, GridMin, GridMax)
	nextRows := clamp(e.gridRows+drows, GridMin, GridMax)
	changed := nextCols != e.gridCols || nextRows != e.gridRows
	e.gridCols = nextCols
	e.gridRows = nextRows
	return changed
}

// ApplyGridToSelected divides the selected section into a cols x rows grid.
// The cols-1 vertical lines go in first, each spanning the section; every
// horizontal line is then submitted once per column band, since a cut lives
// inside a single leaf and a full-width horizontal could only split one of
// the freshly made columns. Every cut goes through AddCut, so duplicates and
// illegal positions are silently dropped. Reports whether any cut was
// accepted.
func (e *Editor) ApplyGridToSelected(cols, rows int) bool {
	if cols < GridMin || cols > GridMax || rows < GridMin || rows > GridMax {
		return false
	}
	if e.selectedSec < 0 || e.selectedSec >= len(e.sections) {
		return false
	}
	if cols < 2 && rows < 2 {
		return false
	}
	sec := e.sections[e.selectedSec]

	added := false
	for k := 1; k < cols; k++ {
		x := sec.X + sec.W*k/cols
		if x <= sec.X || x >= sec.X+sec.W {
			continue
		}
		added = e.AddCut(Cut{x, sec.Y, x, sec.Y + sec.H - 1}) || added
	}
	for k := 1; k < rows; k++ {
		y := sec.Y + sec.H*k/rows
		if y <= sec.Y || y >= sec.Y+sec.H {
			continue
		}
		for j := 0; j < cols; j++ {
			x0 := sec.X + sec.W*j/cols
			x1 := sec.X + sec.W*(j+1)/cols - 1
			if x1 <= x0 {
				continue
			}
			added = e.AddCut(Cut{x0, y, x1, y}) || added
		}
	}
	return added
}

// ApplyGrid applies the stored grid dimensions to the selected section.
func (e *Editor) ApplyGrid() bool {
	return e.ApplyGridToSelected(e.gridCols, e.gridRows)
}
