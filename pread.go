// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"fmt"
	"io"
	"os"
)

// NewBlobReader wraps an in-memory byte slice as an io.ReaderAt, for
// callers holding a store entirely in memory (tests, small configs).
func NewBlobReader(data []byte) io.ReaderAt {
	return &blobReaderAt{data: data}
}

type blobReaderAt struct {
	data []byte
}

func (b *blobReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("aokv: negative ReadAt offset")
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}

	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// OpenFile opens path for positioned reads and reports its current size,
// the pairing every Reader constructor needs (spec §4.6 "Reader requires
// a byte source plus its length").
func OpenFile(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("aokv: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("aokv: stat %s: %w", path, err)
	}

	return f, info.Size(), nil
}
