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

// A Section is one rectangular piece of the partitioned image: a leaf of the
// BSP, with W > 0, H > 0, fully inside the image. Sections are derived state;
// they are recomputed on every committed edit and never edited directly.
type Section struct {
	X, Y, W, H int
}

// Contains reports whether the pixel (x, y) lies inside the section.
func (s Section) Contains(x, y int) bool {
	return x >= s.X && y >= s.Y && x < s.X+s.W && y < s.Y+s.H
}

// Area is the section's pixel count.
func (s Section) Area() int { return s.W * s.H }
