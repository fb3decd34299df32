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
	"bufio"
	"fmt"
	"io"
)

// ExportSections writes one line per section, in partition order, in the
// stable form
//
//	section_0 { x: 0, y: 0, w: 50, h: 100 }
//
// and flushes at the end.
func (e *Editor) ExportSections(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, s := range e.sections {
		if _, err := fmt.Fprintf(bw, "section_%d { x: %d, y: %d, w: %d, h: %d }\n",
			i, s.X, s.Y, s.W, s.H); err != nil {
			return err
		}
	}
	return bw.Flush()
}
