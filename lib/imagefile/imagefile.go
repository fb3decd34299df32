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

// Package imagefile is the front door for loading an image from disk: it
// sniffs the PNG signature and dispatches to the PNG decoder, falling back
// to the binary PPM loader for everything else.
package imagefile

import (
	"bytes"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/qwerty-dvorak/slicer/lib/ppm"
	"github.com/qwerty-dvorak/slicer/lib/rgbapng"
)

// Load reads path fully and decodes it as PNG or PPM.
func Load(path string) (*rgbapng.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "imagefile: read %q", path)
	}
	if rgbapng.IsSignature(data) {
		img, err := rgbapng.Decode(data)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "%q", path)
		}
		return img, nil
	}
	img, err := ppm.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "%q", path)
	}
	return img, nil
}
