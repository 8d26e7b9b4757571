// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ReaderOptions configures a Reader (spec.md §4.5). The zero value
// matches the spec's documented defaults: the first block is checked,
// and blocks with an unrecognized-but-reserved magic are skipped rather
// than rejected.
type ReaderOptions struct {
	// Decompressor undoes Compressor.Compress; nil means bodies and
	// index content are always treated as stored uncompressed.
	Decompressor Compressor
	// SkipFirstHeaderCheck disables the opening NotAOKV check.
	SkipFirstHeaderCheck bool
	// StrictHeaders fails the forward scan on an unrecognized-but-sized
	// block instead of skipping it for forward compatibility.
	StrictHeaders bool
}

// Reader is the read-side engine: locate the latest Index snapshot by
// chasing back-pointers from the tail, forward-scan any newer blocks,
// then serve point lookups via positioned reads (spec.md §4.5).
type Reader struct {
	mu sync.Mutex

	ra       io.ReaderAt
	size     int64
	fileID   uint32
	decomp   Compressor
	strict   bool
	skipHead bool

	index   *orderedIndex
	indexed bool
}

// NewReader constructs a Reader over ra, a size-bytes-long positioned
// byte source. ra is read only when Index or Get is called.
func NewReader(ra io.ReaderAt, size int64, fileID uint32, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	return &Reader{
		ra:       ra,
		size:     size,
		fileID:   fileID,
		decomp:   opts.Decompressor,
		strict:   opts.StrictHeaders,
		skipHead: opts.SkipFirstHeaderCheck,
		index:    newOrderedIndex(),
	}, nil
}

// OpenReader opens path and wraps it as a Reader, the convenience
// constructor pairing spec.md §4.5's pread+fileSize requirement with a
// real file (mirrors the teacher's Open/OpenWithOptions split).
func OpenReader(path string, fileID uint32, opts ReaderOptions) (*Reader, error) {
	f, size, err := OpenFile(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f, size, fileID, opts)
	if err != nil {
		f.Close()
		return nil, err
	}

	return r, nil
}

// Index builds the in-memory key index: a possible tail-walk step to the
// latest Index snapshot, followed by a forward scan of anything written
// after it (spec.md §4.5). It is idempotent; calling it again re-derives
// the same index from scratch.
func (r *Reader) Index(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.skipHead {
		if err := r.checkFirstHeader(); err != nil {
			return err
		}
	}

	idx := newOrderedIndex()

	resumeFrom, err := r.tailWalk(idx)
	if err != nil {
		return err
	}

	if err := r.forwardScan(ctx, idx, resumeFrom); err != nil {
		return err
	}

	r.index = idx
	r.indexed = true

	return nil
}

// checkFirstHeader enforces I2: the first block must be a KVP for this
// reader's fileId (spec.md §4.7: "a header mismatch at offset 0 is
// fatal").
func (r *Reader) checkFirstHeader() error {
	head, ok := readFullAt(r.ra, 0, magicHeaderSize)
	if !ok {
		return ErrNotAOKV
	}

	magic0 := hostEndian.Uint32(head[0:4])
	magic1 := hostEndian.Uint32(head[4:8])

	kind, _ := classifyBlock(magic0, magic1, r.fileID)
	if kind != blockKindKVP {
		return ErrNotAOKV
	}

	return nil
}

// tailWalk implements spec.md §4.5 step 2: find the latest Index
// snapshot by chasing a single back-pointer from the file's tail. It
// returns the offset forward scanning should resume from: the position
// right after the located Index block, or 0 if none was found.
func (r *Reader) tailWalk(idx *orderedIndex) (int64, error) {
	if r.size < footerSize {
		return 0, nil
	}

	off := r.size

	backBuf, ok := readFullAt(r.ra, off-footerSize, footerSize)
	if !ok {
		return 0, nil
	}

	back := hostEndian.Uint32(backBuf)
	candidate := off - footerSize - int64(back)
	if candidate < 0 {
		return 0, nil
	}

	head, ok := readFullAt(r.ra, candidate, indexHeaderSize)
	if !ok {
		return 0, nil
	}

	magic0 := hostEndian.Uint32(head[0:4])
	magic1 := hostEndian.Uint32(head[4:8])
	blockSize := hostEndian.Uint32(head[8:12])

	kind, _ := classifyBlock(magic0, magic1, r.fileID)
	if kind != blockKindIndex {
		return 0, nil
	}

	if uint64(blockSize) < uint64(indexHeaderSize+footerSize) {
		return 0, nil
	}

	contentLen := int64(blockSize) - indexHeaderSize - footerSize

	content, ok := readFullAt(r.ra, candidate+indexHeaderSize, contentLen)
	if !ok {
		return 0, nil
	}

	content, err := decodeIndexContent(content, r.decomp)
	if err != nil {
		return 0, err
	}

	if err := parseOrderedIndexContent(content, idx); err != nil {
		return 0, err
	}

	return candidate + int64(blockSize), nil
}

// forwardScan implements spec.md §4.5 step 3, walking every block from
// off to the end of the readable region.
func (r *Reader) forwardScan(ctx context.Context, idx *orderedIndex, off int64) error {
	for off < r.size {
		if err := ctx.Err(); err != nil {
			return err
		}

		head, ok := readFullAt(r.ra, off, kvpHeaderSize)
		if !ok {
			return nil
		}

		magic0 := hostEndian.Uint32(head[0:4])
		magic1 := hostEndian.Uint32(head[4:8])
		blockSize := hostEndian.Uint32(head[8:12])

		kind, reserved := classifyBlock(magic0, magic1, r.fileID)

		switch kind {
		case blockKindKVP:
			if uint64(blockSize) < uint64(kvpHeaderSize+footerSize) {
				return nil
			}

			keySize := hostEndian.Uint32(head[12:16])
			keyEnd := int64(keySize)

			if uint64(kvpHeaderSize)+uint64(keySize)+uint64(footerSize) > uint64(blockSize) {
				return nil
			}

			keyBytes, ok := readFullAt(r.ra, off+kvpHeaderSize, keyEnd)
			if !ok {
				return nil
			}

			bodySize := int64(blockSize) - kvpHeaderSize - keyEnd - footerSize
			bodyOffset := off + kvpHeaderSize + keyEnd

			idx.set(string(keyBytes), indexEntry{size: uint32(bodySize), offset: uint64(bodyOffset)})
		case blockKindIndex:
			// Already superseded by the tail-walked snapshot or a later
			// KVP; spec.md §4.5 only skips it.
		default:
			if !reserved || r.strict {
				if r.strict && reserved {
					return ErrUnrecognizedBlock
				}

				return nil
			}
		}

		off += int64(blockSize)
	}

	return nil
}

// Keys returns every indexed key in first-occurrence order (spec.md §4.5
// "keys()"), including keys whose latest value is the null tombstone.
// Index must have completed first.
func (r *Reader) Keys() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.indexed {
		return nil, ErrNotIndexed
	}

	keys := r.index.orderedKeys()
	out := make([]string, len(keys))
	copy(out, keys)

	return out, nil
}

// Get returns key's decoded value. It reports found=false when the key
// is unknown or its body could not be fully read (truncation is treated
// as absence, per spec.md §4.5, not as an error).
func (r *Reader) Get(ctx context.Context, key string) (value Value, found bool, err error) {
	r.mu.Lock()
	entry, present := func() (indexEntry, bool) {
		if !r.indexed {
			return indexEntry{}, false
		}

		return r.index.get(key)
	}()
	indexed := r.indexed
	r.mu.Unlock()

	if !indexed {
		return Value{}, false, ErrNotIndexed
	}

	if !present {
		return Value{}, false, nil
	}

	if err := ctx.Err(); err != nil {
		return Value{}, false, err
	}

	body, ok := readFullAt(r.ra, int64(entry.offset), int64(entry.size))
	if !ok {
		return Value{}, false, nil
	}

	v, err := DecodeValue(body, r.decomp)
	if err != nil {
		return Value{}, false, fmt.Errorf("aokv: decode %q: %w", key, err)
	}

	return v, true, nil
}
