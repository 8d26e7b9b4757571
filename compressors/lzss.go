// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

// Package compressors provides concrete aokv.Compressor implementations
// for the four compression backends carried by this module
// (SPEC_FULL.md "Domain stack").
package compressors

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/woozymasta/lzss"
)

// LZSS wraps github.com/woozymasta/lzss, the same compressor the teacher
// uses for archive payloads. AOKV's wire format never stores a value's
// decompressed length anywhere (spec.md's probe-byte rule is the only
// in-band signal), but lzss.DecompressToWriter requires the caller to
// already know the output length. LZSS therefore prepends its own
// 8-byte little-endian length header before the LZSS stream; this
// framing is entirely internal to this Compressor and invisible to the
// rest of the module, which only ever sees opaque Compress/Decompress
// round trips (spec.md §6 treats compression as fully opaque).
type LZSS struct{}

// NewLZSS constructs the default LZSS compressor.
func NewLZSS() LZSS {
	return LZSS{}
}

// Compress implements aokv.Compressor.
func (LZSS) Compress(data []byte) ([]byte, error) {
	if len(data) > math.MaxUint32 {
		return nil, fmt.Errorf("aokv/compressors: lzss input too large")
	}

	compressed, err := lzss.Compress(data, lzss.DefaultCompressOptions())
	if err != nil {
		return nil, fmt.Errorf("aokv/compressors: lzss compress: %w", err)
	}

	out := make([]byte, 8+len(compressed))
	binary.LittleEndian.PutUint64(out[:8], uint64(len(data)))
	copy(out[8:], compressed)

	return out, nil
}

// Decompress implements aokv.Compressor.
func (LZSS) Decompress(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("aokv/compressors: lzss frame too short")
	}

	outLen := binary.LittleEndian.Uint64(data[:8])
	if outLen > math.MaxInt32 {
		return nil, fmt.Errorf("aokv/compressors: lzss frame length out of range")
	}

	var dst bytes.Buffer
	dst.Grow(int(outLen))

	if _, err := lzss.DecompressToWriter(&dst, bytes.NewReader(data[8:]), int(outLen), nil); err != nil {
		return nil, fmt.Errorf("aokv/compressors: lzss decompress: %w", err)
	}

	return dst.Bytes(), nil
}
