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

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// identityProjection maps image pixels straight to screen pixels.
type identityProjection struct{}

func (identityProjection) ImageToScreen(ix, iy int) (int, int) { return ix, iy }

// scaleProjection scales by an integer factor, like a zoomed viewport.
type scaleProjection struct{ k int }

func (p scaleProjection) ImageToScreen(ix, iy int) (int, int) { return ix * p.k, iy * p.k }

func TestFindCutAt(t *testing.T) {
	c := qt.New(t)
	e := mustNew(c, 100, 100)
	c.Assert(e.AddCut(Cut{50, 0, 50, 99}), qt.IsTrue)
	c.Assert(e.AddCut(Cut{60, 25, 95, 25}), qt.IsTrue)
	p := identityProjection{}

	// On the vertical cut's line.
	c.Assert(e.FindCutAt(p, 50, 60), qt.Equals, 0)
	// 8 px away horizontally: squared distance 64, inside the radius.
	c.Assert(e.FindCutAt(p, 42, 60), qt.Equals, 0)
	// 9 px away: outside.
	c.Assert(e.FindCutAt(p, 41, 60), qt.Equals, -1)
	// Near the horizontal cut.
	c.Assert(e.FindCutAt(p, 70, 27), qt.Equals, 1)
	// Far from everything.
	c.Assert(e.FindCutAt(p, 5, 95), qt.Equals, -1)
}

func TestFindCutAtPrefersNearest(t *testing.T) {
	c := qt.New(t)
	e := mustNew(c, 100, 100)
	c.Assert(e.AddCut(Cut{40, 0, 40, 99}), qt.IsTrue)
	c.Assert(e.AddCut(Cut{44, 0, 44, 99}), qt.IsTrue)
	p := identityProjection{}

	c.Assert(e.FindCutAt(p, 41, 50), qt.Equals, 0)
	c.Assert(e.FindCutAt(p, 43, 50), qt.Equals, 1)
	// Equidistant: the earlier cut wins.
	c.Assert(e.FindCutAt(p, 42, 50), qt.Equals, 0)
}

func TestFindCutAtBeyondSegmentEnds(t *testing.T) {
	c := qt.New(t)
	e := mustNew(c, 100, 100)
	c.Assert(e.AddCut(Cut{50, 0, 50, 99}), qt.IsTrue)
	c.Assert(e.AddCut(Cut{60, 25, 95, 25}), qt.IsTrue) // snaps to (50,25,99,25)
	p := identityProjection{}

	// Distance to the horizontal cut is measured to its endpoint once past
	// it, so (45, 25) is 5 px from cut 1's endpoint A but 5 px from cut 0's
	// line as well; the vertical cut is found first on the tie.
	c.Assert(e.FindCutAt(p, 45, 25), qt.Equals, 0)
	// Well past the endpoint and away from the vertical line.
	c.Assert(e.FindCutAt(p, 30, 10), qt.Equals, -1)
}

func TestEndpointHit(t *testing.T) {
	c := qt.New(t)
	e := mustNew(c, 100, 100)
	c.Assert(e.AddCut(Cut{50, 0, 50, 99}), qt.IsTrue)
	p := identityProjection{}

	c.Assert(e.EndpointHit(p, 0, 50, 0), qt.Equals, EndpointA)
	c.Assert(e.EndpointHit(p, 0, 50, 99), qt.Equals, EndpointB)
	// 7 px from A: squared distance 49, still a hit.
	c.Assert(e.EndpointHit(p, 0, 57, 0), qt.Equals, EndpointA)
	// 8 px: miss.
	c.Assert(e.EndpointHit(p, 0, 58, 0), qt.Equals, Endpoint(0))
	// Midpoint of a 99 px cut is near neither endpoint.
	c.Assert(e.EndpointHit(p, 0, 50, 49), qt.Equals, Endpoint(0))
	// Out-of-range index.
	c.Assert(e.EndpointHit(p, 5, 50, 0), qt.Equals, Endpoint(0))
}

func TestEndpointHitPrefersAOnTie(t *testing.T) {
	c := qt.New(t)
	e := mustNew(c, 9, 3)
	c.Assert(e.AddCut(Cut{4, 0, 4, 2}), qt.IsTrue)
	p := scaleProjection{k: 3}

	// Screen endpoints are (12, 0) and (12, 6); (12, 3) ties at squared
	// distance 9 and must report A.
	c.Assert(e.EndpointHit(p, 0, 12, 3), qt.Equals, EndpointA)
}

func TestHitTestingUnderScaledProjection(t *testing.T) {
	c := qt.New(t)
	e := mustNew(c, 100, 100)
	c.Assert(e.AddCut(Cut{50, 0, 50, 99}), qt.IsTrue)
	p := scaleProjection{k: 4}

	// Image x=50 projects to screen x=200.
	c.Assert(e.FindCutAt(p, 206, 100), qt.Equals, 0)
	c.Assert(e.FindCutAt(p, 210, 100), qt.Equals, -1)
}
