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

package imagefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qwerty-dvorak/slicer/internal/pngfixture"
	"github.com/qwerty-dvorak/slicer/lib/rgbapng"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDispatchesPNG(t *testing.T) {
	path := writeTemp(t, "red.png", pngfixture.Build(pngfixture.Options{
		Width:     1,
		Height:    1,
		ColorType: 2,
		Pix:       []byte{0xFF, 0, 0},
	}))
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Width != 1 || img.RGBA[0] != 0xFF {
		t.Fatal("PNG content mismatch")
	}
}

func TestLoadDispatchesPPM(t *testing.T) {
	path := writeTemp(t, "green.ppm", []byte("P6\n1 1\n255\n\x00\xff\x00"))
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.RGBA[1] != 0xFF || img.HasAlpha {
		t.Fatal("PPM content mismatch")
	}
}

func TestLoadPropagatesDecodeErrors(t *testing.T) {
	// A PNG signature with a broken body must fail as PNG, not fall through
	// to the PPM loader.
	data := pngfixture.Build(pngfixture.Options{
		Width:     1,
		Height:    1,
		ColorType: 2,
		BitDepth:  16,
		Pix:       []byte{0, 0, 0},
	})
	path := writeTemp(t, "deep.png", data)
	if _, err := Load(path); !errors.Is(err, rgbapng.ErrUnsupported) {
		t.Fatalf("got %v, want rgbapng.ErrUnsupported", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("missing file load succeeded")
	}
}
