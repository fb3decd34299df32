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

// slicer decodes a PNG (or binary PPM) image, optionally runs a batch of
// partition edits against it, and prints the resulting section list.
//
// Usage:
//
//	slicer [flags] image.(png|ppm)
//
// The -ops flag takes a small edit script, shell-style tokens separated by
// semicolons:
//
//	cut x1 y1 x2 y2      add a cut (snapped to its containing section)
//	select i             select cut i
//	delete i             delete cut i
//	rotate i             rotate cut i about its midpoint
//	move i dx dy         translate cut i
//	resize i a|b x y     drag one endpoint of cut i to (x, y)
//	grid cols rows       grid-divide the selected section
//
// For example:
//
//	slicer -ops "cut 50 0 50 99; grid 2 2" sprite.png
//
// Rejected edits are silently skipped, matching the interactive behaviour
// where an illegal drag simply does not move. The section list is written to
// stdout when the script finishes.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/qwerty-dvorak/slicer/lib/imagecut"
	"github.com/qwerty-dvorak/slicer/lib/imagefile"
	"github.com/qwerty-dvorak/slicer/lib/ppm"
	"github.com/qwerty-dvorak/slicer/lib/rgbapng"
	"github.com/qwerty-dvorak/slicer/lib/viewport"
)

var (
	bgFlag      = flag.String("bg", "checkered", `background: "checkered", "solid" or "solid:#RRGGBB"`)
	opsFlag     = flag.String("ops", "", "edit script to run against the partition")
	previewFlag = flag.String("preview", "", "write a rendered preview to this PPM file")
	winWFlag    = flag.Int("winw", 1280, "preview width")
	winHFlag    = flag.Int("winh", 720, "preview height")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] image.(png|ppm)\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "supports: PNG (8-bit RGB/RGBA), binary PPM (P6)\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if err := main1(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func main1() error {
	if flag.NArg() != 1 {
		usage()
		return fmt.Errorf("missing image path")
	}

	bg, err := parseBackground(*bgFlag)
	if err != nil {
		return err
	}

	img, err := imagefile.Load(flag.Arg(0))
	if err != nil {
		return err
	}

	ed, err := imagecut.New(img.Width, img.Height)
	if err != nil {
		return err
	}

	if *opsFlag != "" {
		if err := runOps(ed, *opsFlag); err != nil {
			return err
		}
	}

	if *previewFlag != "" {
		if err := writePreview(*previewFlag, img, bg, *winWFlag, *winHFlag); err != nil {
			return err
		}
	}

	return ed.ExportSections(os.Stdout)
}

func parseBackground(s string) (viewport.Background, error) {
	switch {
	case s == "checkered":
		return viewport.Background{Mode: viewport.BackgroundCheckered}, nil
	case s == "solid":
		return viewport.Background{Mode: viewport.BackgroundSolid, R: 32, G: 32, B: 32}, nil
	case strings.HasPrefix(s, "solid:"):
		spec := s[len("solid:"):]
		if len(spec) != 7 || spec[0] != '#' {
			return viewport.Background{}, fmt.Errorf("invalid -bg value %q", s)
		}
		v, err := strconv.ParseUint(spec[1:], 16, 32)
		if err != nil {
			return viewport.Background{}, fmt.Errorf("invalid -bg value %q", s)
		}
		return viewport.Background{
			Mode: viewport.BackgroundSolid,
			R:    uint8(v >> 16),
			G:    uint8(v >> 8),
			B:    uint8(v),
		}, nil
	}
	return viewport.Background{}, fmt.Errorf("invalid -bg value %q", s)
}

// runOps tokenises and executes the edit script. Unknown verbs and
// malformed arguments are errors; rejected edits are not.
func runOps(ed *imagecut.Editor, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		tokens, err := shlex.Split(stmt)
		if err != nil {
			return fmt.Errorf("ops: %v", err)
		}
		if len(tokens) == 0 {
			continue
		}
		if err := runOp(ed, tokens); err != nil {
			return err
		}
	}
	return nil
}

func runOp(ed *imagecut.Editor, tokens []string) error {
	args, err := opArgs(tokens)
	if err != nil {
		return err
	}
	switch verb := tokens[0]; verb {
	case "cut":
		ed.AddCut(imagecut.Cut{X1: args[0], Y1: args[1], X2: args[2], Y2: args[3]})
	case "select":
		ed.SelectCut(args[0])
	case "delete":
		ed.DeleteCut(args[0])
	case "rotate":
		ed.RotateCut(args[0])
	case "move":
		ed.TranslateCut(args[0], args[1], args[2])
	case "resize":
		which := imagecut.EndpointA
		if strings.EqualFold(tokens[2], "b") {
			which = imagecut.EndpointB
		}
		ed.ResizeEndpoint(args[0], which, args[1], args[2])
	case "grid":
		ed.ApplyGridToSelected(args[0], args[1])
	default:
		return fmt.Errorf("ops: unknown command %q", verb)
	}
	return nil
}

// opArgs parses every numeric argument of the statement, skipping the verb
// and the endpoint letter of "resize".
func opArgs(tokens []string) ([]int, error) {
	arity := map[string]int{
		"cut": 4, "select": 1, "delete": 1, "rotate": 1,
		"move": 3, "resize": 4, "grid": 2,
	}
	verb := tokens[0]
	n, ok := arity[verb]
	if !ok {
		return nil, nil
	}
	if len(tokens) != n+1 {
		return nil, fmt.Errorf("ops: %s wants %d arguments", verb, n)
	}
	args := make([]int, 0, n)
	for i, tok := range tokens[1:] {
		if verb == "resize" && i == 1 {
			if !strings.EqualFold(tok, "a") && !strings.EqualFold(tok, "b") {
				return nil, fmt.Errorf("ops: resize endpoint must be a or b")
			}
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("ops: bad argument %q for %s", tok, verb)
		}
		args = append(args, v)
	}
	return args, nil
}

// writePreview renders the image over the background at the default
// fit-to-window view and writes the frame as a binary PPM.
func writePreview(path string, img *rgbapng.Image, bg viewport.Background, winW, winH int) error {
	if winW <= 0 || winH <= 0 {
		return fmt.Errorf("invalid preview size %dx%d", winW, winH)
	}
	frame := image.NewRGBA(image.Rect(0, 0, winW, winH))
	v := viewport.Compute(img.Width, img.Height, winW, winH, viewport.Params{})
	viewport.Render(frame, img, v, bg)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ppm.Encode(f, winW, winH, frame.Pix)
}
