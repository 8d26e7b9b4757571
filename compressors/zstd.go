// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package compressors

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdEncoderPool and zstdDecoderPool reuse klauspost/compress/zstd's
// encoder/decoder, which are explicitly designed for reuse across calls
// (arloliu-mebo's compress/zstd_pure.go does the same).
var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("aokv/compressors: new zstd encoder: %v", err))
		}

		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("aokv/compressors: new zstd decoder: %v", err))
		}

		return dec
	},
}

// Zstd is a pure-Go zstd Compressor, self-framing (no external length
// needed for decompression).
type Zstd struct{}

// NewZstd constructs the pure-Go zstd compressor.
func NewZstd() Zstd {
	return Zstd{}
}

// Compress implements aokv.Compressor.
func (Zstd) Compress(data []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

// Decompress implements aokv.Compressor.
func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("aokv/compressors: zstd decompress: %w", err)
	}

	return out, nil
}
