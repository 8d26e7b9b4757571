// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

//go:build gozstd

package compressors

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// GoZstd is a cgo-backed zstd Compressor, bound in only under the
// gozstd build tag (go test/build ./... without -tags=gozstd never
// compiles it, so picking it is always an explicit opt-in). Self-framing,
// like Zstd: no external length is needed for decompression.
type GoZstd struct {
	// Level is the zstd compression level; zero uses gozstd's default
	// level (3).
	Level int
}

// NewGoZstd constructs a GoZstd compressor at the given level; a level
// of zero uses gozstd's default.
func NewGoZstd(level int) GoZstd {
	return GoZstd{Level: level}
}

// Compress implements aokv.Compressor.
func (c GoZstd) Compress(data []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = 3
	}

	return gozstd.CompressLevel(nil, data, level), nil
}

// Decompress implements aokv.Compressor.
func (GoZstd) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("aokv/compressors: gozstd decompress: %w", err)
	}

	return out, nil
}
