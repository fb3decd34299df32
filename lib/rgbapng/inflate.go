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
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

var (
	errInflateShortOutput = errors.New("rgbapng: inflate produced too few bytes")
	errInflateLongOutput  = errors.New("rgbapng: inflate produced too many bytes")
)

// Decompressor is the capability interface behind the inflate step. The
// production implementation wraps klauspost/compress; tests substitute fakes
// that inject failures or wrong byte counts.
//
// Both methods must fill dst exactly: fewer or more decompressed bytes than
// len(dst) is an error.
type Decompressor interface {
	DecompressZlib(src, dst []byte) (int, error)
	DecompressDeflate(src, dst []byte) (int, error)
}

// The decompressor is a shared process-wide resource, acquired lazily on
// first use. The mutex doubles as the one-decode-in-flight guard from the
// concurrency contract.
var (
	decompressorMu sync.Mutex
	decompressor   Decompressor
)

// SetDecompressor replaces the shared decompressor. Passing nil restores the
// default on next use. Intended for tests.
func SetDecompressor(d Decompressor) {
	decompressorMu.Lock()
	decompressor = d
	decompressorMu.Unlock()
}

type flateDecompressor struct{}

func drainExactly(r io.Reader, dst []byte) (int, error) {
	n, err := io.ReadFull(r, dst)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return n, errInflateShortOutput
		}
		return n, err
	}
	// Reading to EOF both detects oversized output and, for zlib, forces the
	// Adler-32 trailer check.
	extra, err := io.Copy(io.Discard, r)
	if err != nil {
		return n, err
	}
	if extra > 0 {
		return n, errInflateLongOutput
	}
	return n, nil
}

func (flateDecompressor) DecompressDeflate(src, dst []byte) (int, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return drainExactly(r, dst)
}

func (flateDecompressor) DecompressZlib(src, dst []byte) (int, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return drainExactly(r, dst)
}

// inflateIDAT decompresses the concatenated IDAT payload into dst, which must
// be sized to the exact encoded scanline total.
//
// PNG IDAT data is a zlib stream. When the two header bytes look well formed
// (CM 8, CINFO <= 7, FCHECK passes, no preset dictionary) the raw deflate
// body between the header and the 4-byte Adler-32 trailer is tried first;
// skipping the checksum is measurably cheaper on large images. Any mismatch
// falls back to a full zlib decode of the whole payload.
func inflateIDAT(idat, dst []byte) error {
	decompressorMu.Lock()
	defer decompressorMu.Unlock()

	d := decompressor
	if d == nil {
		d = flateDecompressor{}
		decompressor = d
	}

	if len(idat) >= 6 {
		cmf, flg := idat[0], idat[1]
		cm := cmf & 0x0f
		cinfo := cmf >> 4
		fcheckOK := (uint32(cmf)<<8|uint32(flg))%31 == 0
		fdict := flg&0x20 != 0
		if cm == 8 && cinfo <= 7 && fcheckOK && !fdict {
			if n, err := d.DecompressDeflate(idat[2:len(idat)-4], dst); err == nil && n == len(dst) {
				return nil
			}
		}
	}

	n, err := d.DecompressZlib(idat, dst)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return errInflateShortOutput
	}
	return nil
}
