// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package compressors

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool reuses lz4.Compressor instances, which carry
// internal match-finder state worth keeping warm across calls
// (arloliu-mebo's compress/lz4.go does the same).
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4 is a fast, lower-ratio Compressor over raw LZ4 blocks.
type LZ4 struct{}

// NewLZ4 constructs the LZ4 compressor.
func NewLZ4() LZ4 {
	return LZ4{}
}

// Compress implements aokv.Compressor.
func (LZ4) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	c, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(c)

	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress implements aokv.Compressor. LZ4 block format carries no
// external length, so the destination buffer is grown and retried on
// ErrInvalidSourceShortBuffer until it fits or a sane ceiling is hit
// (same adaptive-buffer strategy as arloliu-mebo's compress/lz4.go).
func (LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	const maxSize = 128 * 1024 * 1024

	bufSize := len(data) * 4
	if bufSize == 0 {
		bufSize = 64
	}

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)

		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
