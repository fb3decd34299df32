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

package rgbapng

import (
	"bytes"
	"compress/zlib"
	"errors"
	"testing"

	"github.com/qwerty-dvorak/slicer/internal/pngfixture"
)

func zlibCompress(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestInflateIDATRawDeflatePath(t *testing.T) {
	raw := bytes.Repeat([]byte{1, 2, 3, 4, 5}, 100)
	src := zlibCompress(t, raw)

	dst := make([]byte, len(raw))
	if err := inflateIDAT(src, dst); err != nil {
		t.Fatalf("inflateIDAT: %v", err)
	}
	if !bytes.Equal(dst, raw) {
		t.Fatal("round trip mismatch")
	}
}

func TestInflateIDATWrongSize(t *testing.T) {
	raw := bytes.Repeat([]byte{9}, 64)
	src := zlibCompress(t, raw)

	short := make([]byte, len(raw)-1)
	if err := inflateIDAT(src, short); err == nil {
		t.Fatal("undersized destination accepted")
	}
	long := make([]byte, len(raw)+1)
	if err := inflateIDAT(src, long); err == nil {
		t.Fatal("oversized destination accepted")
	}
}

func TestInflateIDATGarbage(t *testing.T) {
	dst := make([]byte, 32)
	if err := inflateIDAT([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x11, 0x22, 0x33}, dst); err == nil {
		t.Fatal("garbage stream accepted")
	}
}

// fakeDecompressor scripts the capability interface so tests can hit the
// fallback and failure paths deterministically.
type fakeDecompressor struct {
	deflateCalls int
	zlibCalls    int
	deflateErr   error
	zlibErr      error
	fill         byte
	shortBy      int
}

func (f *fakeDecompressor) DecompressDeflate(src, dst []byte) (int, error) {
	f.deflateCalls++
	if f.deflateErr != nil {
		return 0, f.deflateErr
	}
	for i := range dst {
		dst[i] = f.fill
	}
	return len(dst) - f.shortBy, nil
}

func (f *fakeDecompressor) DecompressZlib(src, dst []byte) (int, error) {
	f.zlibCalls++
	if f.zlibErr != nil {
		return 0, f.zlibErr
	}
	for i := range dst {
		dst[i] = f.fill
	}
	return len(dst) - f.shortBy, nil
}

func TestInflateIDATFallsBackToZlib(t *testing.T) {
	fake := &fakeDecompressor{deflateErr: errors.New("injected"), fill: 7}
	SetDecompressor(fake)
	defer SetDecompressor(nil)

	// A well-formed zlib header so the raw deflate path is attempted first.
	src := zlibCompress(t, make([]byte, 64))
	dst := make([]byte, 64)
	if err := inflateIDAT(src, dst); err != nil {
		t.Fatalf("inflateIDAT: %v", err)
	}
	if fake.deflateCalls != 1 || fake.zlibCalls != 1 {
		t.Fatalf("calls: deflate=%d zlib=%d, want 1 and 1", fake.deflateCalls, fake.zlibCalls)
	}
}

func TestInflateIDATShortCountFailsDecode(t *testing.T) {
	fake := &fakeDecompressor{shortBy: 1}
	SetDecompressor(fake)
	defer SetDecompressor(nil)

	data := pngfixture.Build(pngfixture.Options{
		Width:     2,
		Height:    2,
		ColorType: 2,
		Pix:       make([]byte, 2*2*3),
	})
	if _, err := Decode(data); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestInflateIDATErrorFailsDecode(t *testing.T) {
	fake := &fakeDecompressor{
		deflateErr: errors.New("injected deflate"),
		zlibErr:    errors.New("injected zlib"),
	}
	SetDecompressor(fake)
	defer SetDecompressor(nil)

	data := pngfixture.Build(pngfixture.Options{
		Width:     2,
		Height:    2,
		ColorType: 2,
		Pix:       make([]byte, 2*2*3),
	})
	if _, err := Decode(data); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}
