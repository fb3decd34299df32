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

// Package ppm loads binary PPM (P6) files as the fallback format next to
// PNG. Only 8-bit maxval images are accepted; the output is the same packed
// RGBA raster the PNG decoder produces, always fully opaque.
package ppm

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/qwerty-dvorak/slicer/lib/rgbapng"
)

var (
	ErrBadMagic  = errors.New("ppm: not a P6 file")
	ErrBadHeader = errors.New("ppm: invalid header")
	ErrShortRead = errors.New("ppm: short pixel data")
)

// readToken scans the next whitespace-delimited token, skipping '#' comments
// through end of line.
func readToken(r *bufio.Reader) (string, error) {
	var buf bytes.Buffer
	inComment := false
	for {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && buf.Len() > 0 {
				return buf.String(), nil
			}
			return "", err
		}
		if inComment {
			if c == '\n' {
				inComment = false
			}
			continue
		}
		switch {
		case c == '#':
			if buf.Len() > 0 {
				for {
					c2, err := r.ReadByte()
					if err != nil || c2 == '\n' {
						break
					}
				}
				return buf.String(), nil
			}
			inComment = true
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f':
			if buf.Len() > 0 {
				return buf.String(), nil
			}
		default:
			buf.WriteByte(c)
		}
	}
}

func readPosInt(r *bufio.Reader, max int) (int, error) {
	tok, err := readToken(r)
	if err != nil {
		return 0, ErrBadHeader
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v <= 0 || v > max {
		return 0, ErrBadHeader
	}
	return v, nil
}

// Decode reads a P6 stream and expands it to RGBA.
func Decode(r io.Reader) (*rgbapng.Image, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil || magic != "P6" {
		return nil, ErrBadMagic
	}
	width, err := readPosInt(br, rgbapng.MaxDimension)
	if err != nil {
		return nil, err
	}
	height, err := readPosInt(br, rgbapng.MaxDimension)
	if err != nil {
		return nil, err
	}
	if _, err := readPosInt(br, 255); err != nil {
		return nil, err
	}

	rgb := make([]byte, width*height*3)
	if _, err := io.ReadFull(br, rgb); err != nil {
		return nil, ErrShortRead
	}

	rgba := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		rgba[i*4+0] = rgb[i*3+0]
		rgba[i*4+1] = rgb[i*3+1]
		rgba[i*4+2] = rgb[i*3+2]
		rgba[i*4+3] = 255
	}

	return &rgbapng.Image{
		Width:    width,
		Height:   height,
		RGBA:     rgba,
		HasAlpha: false,
	}, nil
}

// DecodeFile reads and decodes path.
func DecodeFile(path string) (*rgbapng.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "ppm: open %q", path)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "%q", path)
	}
	return img, nil
}

// Encode writes pix, a packed RGBA raster, as a binary P6 file. Alpha is
// dropped; callers composite against a background first if it matters.
func Encode(w io.Writer, width, height int, pix []byte) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for i := 0; i < width*height; i++ {
		if err := bw.WriteByte(pix[i*4+0]); err != nil {
			return err
		}
		bw.WriteByte(pix[i*4+1])
		bw.WriteByte(pix[i*4+2])
	}
	return bw.Flush()
}
