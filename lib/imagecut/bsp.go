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

// The partition is a 2-D k-d tree over the image rectangle. Every committed
// cut is an internal split node; every section is a leaf. The tree is never
// mutated in place across edits: each edit rebuilds it from scratch from the
// candidate cut list, so nodes carry no parent links and live in a small
// index-addressed arena.

// Capacity bounds. A document holds at most MaxCuts cuts, which yields at
// most MaxCuts+1 leaves and 2*MaxCuts+1 nodes.
const (
	MaxCuts     = 1024
	MaxSections = 2048

	maxNodes = 2*MaxCuts + 1
)

// FitMode biases which leaf a refitted cut lands in. Resizing an endpoint
// outward wants the cut to escape into a larger enclosing region
// (PreferParent); resizing inward wants it to stay small (PreferChild).
type FitMode int

const (
	FitDefault FitMode = iota
	FitPreferParent
	FitPreferChild
)

type bspNode struct {
	sec      Section
	vertical bool
	split    int
	kidA     int32 // low side (left / top); -1 on leaves
	kidB     int32 // high side (right / bottom)
}

type bspTree struct {
	nodes []bspNode
}

func newBSPTree(w, h int) *bspTree {
	t := &bspTree{nodes: make([]bspNode, 1, 16)}
	t.nodes[0] = bspNode{sec: Section{0, 0, w, h}, kidA: -1, kidB: -1}
	return t
}

func distToRange(v, lo, hi int) int {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}

func directionPenalty(mode FitMode, span, ref int) int64 {
	switch mode {
	case FitPreferParent:
		if span <= ref {
			return 1000000 * int64(ref-span+1)
		}
	case FitPreferChild:
		if span >= ref {
			return 1000000 * int64(span-ref+1)
		}
	}
	return 0
}

// insert fits the candidate cut into the best eligible leaf, splits that
// leaf, and returns the cut snapped to the leaf's full transverse extent in
// canonical form. It fails when no leaf can host the cut. A leaf hosts a cut
// only when it is at least 2 px on both axes: one for an interior split
// value, the other so the snapped cut is not a single point.
//
// The score prefers, in decreasing weight: the mode's direction penalty, a
// leaf whose transverse range contains the candidate's midpoint, a span
// close to the candidate's pre-snap length, and finally a split close to the
// candidate's axis value. The 4096 transverse weight is what makes a cut
// drawn inside a leaf beat a cut perpendicular to it.
func (t *bspTree) insert(c Cut, mode FitMode, refSpan int) (Cut, bool) {
	c = c.Canonical()
	if c.Degenerate() {
		return Cut{}, false
	}
	if len(t.nodes)+2 > maxNodes {
		return Cut{}, false
	}

	vertical := c.Vertical()
	var targetAxis, targetTransverse int
	if vertical {
		targetAxis = c.X1
		targetTransverse = (c.Y1 + c.Y2) / 2
	} else {
		targetAxis = c.Y1
		targetTransverse = (c.X1 + c.X2) / 2
	}
	desiredSpan := c.span()

	best := int32(-1)
	bestSplit := 0
	bestScore := int64(1) << 62
	bestSpan := 0
	bestArea := int(^uint(0) >> 1)

	for i := range t.nodes {
		n := &t.nodes[i]
		if n.kidA >= 0 {
			continue
		}
		s := n.sec

		var lo, hi, dx, dy, span int
		if vertical {
			if s.W < 2 || s.H < 2 {
				continue
			}
			lo, hi = s.X+1, s.X+s.W-1
			split := clamp(targetAxis, lo, hi)
			dx = abs(targetAxis - split)
			dy = distToRange(targetTransverse, s.Y, s.Y+s.H-1)
			span = s.H
			if better, score := t.score(mode, span, refSpan, desiredSpan, dx, dy, s.Area(), bestScore, bestSpan, bestArea); better {
				best = int32(i)
				bestSplit = split
				bestScore = score
				bestSpan = span
				bestArea = s.Area()
			}
		} else {
			if s.H < 2 || s.W < 2 {
				continue
			}
			lo, hi = s.Y+1, s.Y+s.H-1
			split := clamp(targetAxis, lo, hi)
			dx = abs(targetAxis - split)
			dy = distToRange(targetTransverse, s.X, s.X+s.W-1)
			span = s.W
			if better, score := t.score(mode, span, refSpan, desiredSpan, dx, dy, s.Area(), bestScore, bestSpan, bestArea); better {
				best = int32(i)
				bestSplit = split
				bestScore = score
				bestSpan = span
				bestArea = s.Area()
			}
		}
	}

	if best < 0 {
		return Cut{}, false
	}
	return t.split(best, vertical, bestSplit), true
}

// score computes a candidate leaf's score and reports whether it beats the
// current best. Ties go to the mode-preferred span (larger under
// FitPreferParent, smaller under FitPreferChild), then to the smaller area.
func (t *bspTree) score(mode FitMode, span, refSpan, desiredSpan, dx, dy, area int, bestScore int64, bestSpan, bestArea int) (bool, int64) {
	spanDelta := abs(span - desiredSpan)
	score := directionPenalty(mode, span, refSpan) +
		128*int64(spanDelta) + 4096*int64(dy) + int64(dx)

	if score < bestScore {
		return true, score
	}
	if score > bestScore {
		return false, score
	}
	switch mode {
	case FitPreferParent:
		if span != bestSpan {
			return span > bestSpan, score
		}
	case FitPreferChild:
		if span != bestSpan {
			return span < bestSpan, score
		}
	}
	return area < bestArea, score
}

// split replaces leaf idx with an internal node at the given split value and
// returns the snapped, canonical cut spanning the leaf's full extent.
func (t *bspTree) split(idx int32, vertical bool, split int) Cut {
	sec := t.nodes[idx].sec

	var a, b Section
	var snapped Cut
	if vertical {
		a = Section{sec.X, sec.Y, split - sec.X, sec.H}
		b = Section{split, sec.Y, sec.X + sec.W - split, sec.H}
		snapped = Cut{split, sec.Y, split, sec.Y + sec.H - 1}
	} else {
		a = Section{sec.X, sec.Y, sec.W, split - sec.Y}
		b = Section{sec.X, split, sec.W, sec.Y + sec.H - split}
		snapped = Cut{sec.X, split, sec.X + sec.W - 1, split}
	}

	kidA := int32(len(t.nodes))
	t.nodes = append(t.nodes, bspNode{sec: a, kidA: -1, kidB: -1})
	kidB := int32(len(t.nodes))
	t.nodes = append(t.nodes, bspNode{sec: b, kidA: -1, kidB: -1})

	n := &t.nodes[idx]
	n.vertical = vertical
	n.split = split
	n.kidA = kidA
	n.kidB = kidB
	return snapped
}

// leaves returns the sections in depth-first order, low side before high
// side. This order is the section order everywhere: display, selection
// indices, export.
func (t *bspTree) leaves() []Section {
	out := make([]Section, 0, (len(t.nodes)+1)/2)
	return t.appendLeaves(0, out)
}

func (t *bspTree) appendLeaves(idx int32, out []Section) []Section {
	n := &t.nodes[idx]
	if n.kidA < 0 {
		return append(out, n.sec)
	}
	out = t.appendLeaves(n.kidA, out)
	return t.appendLeaves(n.kidB, out)
}

// rebuildPartition builds a fresh tree from the candidate cut list, applying
// mode/refSpan to the cut at editIdx (pass editIdx -1 for none). Cuts insert
// in list order and re-snap to whatever leaf now fits them best. It fails if
// any cut finds no eligible leaf or two cuts snap to the same segment.
func rebuildPartition(w, h int, cand []Cut, editIdx int, mode FitMode, refSpan int) ([]Cut, []Section, bool) {
	if len(cand) > MaxCuts {
		return nil, nil, false
	}
	t := newBSPTree(w, h)
	snapped := make([]Cut, 0, len(cand))
	for i, c := range cand {
		m, rs := FitDefault, 0
		if i == editIdx {
			m, rs = mode, refSpan
		}
		sc, ok := t.insert(c, m, rs)
		if !ok {
			return nil, nil, false
		}
		for _, p := range snapped {
			if p == sc {
				return nil, nil, false
			}
		}
		snapped = append(snapped, sc)
	}
	secs := t.leaves()
	if len(secs) > MaxSections {
		return nil, nil, false
	}
	return snapped, secs, true
}
