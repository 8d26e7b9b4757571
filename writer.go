// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"sync"

	"github.com/woozymasta/pathrules"
)

// Snapshot cadence thresholds (spec.md §4.4 "Maybe snapshot"). The first
// bound keeps every footer's BACK_DISTANCE within a u32; the second bounds
// amortized index-write amplification to roughly 1/64 of payload bytes.
const (
	snapshotSinceLastIndexLimit = 1 << 30
	snapshotKVPBytesThreshold   = 1 << 16
	snapshotAmplificationFactor = 64
)

// WriterOptions configures a Writer. The zero value is usable: no
// compression, fileId 0, no key-gating rules.
type WriterOptions struct {
	// FileID offsets the block magics, letting callers distinguish their
	// own AOKV streams from unrelated ones (spec.md §4.1).
	FileID uint32
	// Compressor is tried against every body whose key passes
	// CompressKeys, and against every index snapshot; nil disables
	// compression entirely.
	Compressor Compressor
	// CompressKeys restricts which keys are even offered to Compressor.
	// An empty slice means no restriction: every key is offered to
	// Compressor when one is configured (spec.md's base contract, where
	// compress is a single global option with no per-key exceptions).
	CompressKeys []pathrules.Rule
	// CompressKeysMatcherOptions controls CompressKeys rule matching.
	CompressKeysMatcherOptions pathrules.MatcherOptions
}

func (opts *WriterOptions) applyDefaults() {
	if opts.CompressKeysMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.CompressKeysMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}

// Writer is the append-only writer engine (spec.md §4.4). It serializes
// values into KVP blocks, maintains the in-memory index, periodically
// snapshots that index into Index blocks, and feeds every produced block
// to a pull-based Stream.
type Writer struct {
	mu sync.Mutex

	fileID     uint32
	compressor Compressor
	keyRules   *keyMatcher
	stream     *Stream

	index              *orderedIndex
	totalSize          uint64
	sinceLastIndex     uint64
	kvpBytesSinceIndex uint64
	totalIndexBytes    uint64
	ended              bool
}

// NewWriter constructs a Writer ready to accept Set/Remove calls. Its
// Stream must be drained by exactly one consumer (spec.md §5).
func NewWriter(opts WriterOptions) (*Writer, error) {
	opts.applyDefaults()

	keyRules, err := newKeyMatcher(opts.CompressKeys, opts.CompressKeysMatcherOptions)
	if err != nil {
		return nil, err
	}

	return &Writer{
		fileID:     opts.FileID,
		compressor: opts.Compressor,
		keyRules:   keyRules,
		stream:     newStream(),
		index:      newOrderedIndex(),
	}, nil
}

// Stream returns the pull-based chunk sink this writer feeds.
func (w *Writer) Stream() *Stream {
	return w.stream
}

// Set serializes value under key, appends the resulting KVP block, and
// opportunistically snapshots the index (spec.md §4.4 "set").
func (w *Writer) Set(key string, value Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ended {
		return ErrClosed
	}

	return w.appendKVPLocked(key, value)
}

// Remove writes the JSON-null tombstone for key (spec.md §4.4
// "remove(key) := set(key, JsonNull)").
func (w *Writer) Remove(key string) error {
	return w.Set(key, Null())
}

// Size reports the total number of bytes produced so far.
func (w *Writer) Size() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.totalSize
}

// End writes a final Index block and closes the stream. End is the only
// terminal transition (spec.md §4.6); calling it twice returns ErrClosed.
func (w *Writer) End() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ended {
		return ErrClosed
	}

	if err := w.writeIndexLocked(); err != nil {
		w.stream.closeProducer(err)
		return err
	}

	w.ended = true
	w.stream.closeProducer(nil)

	return nil
}

func (w *Writer) appendKVPLocked(key string, value Value) error {
	var c Compressor
	if w.shouldCompress(key) {
		c = w.compressor
	}

	body, err := EncodeValue(value, c)
	if err != nil {
		return err
	}

	block, err := encodeKVPBlock(w.fileID, key, body, w.sinceLastIndex)
	if err != nil {
		return err
	}

	offset := w.totalSize + uint64(kvpHeaderSize) + uint64(len(key))
	w.index.set(key, indexEntry{size: uint32(len(body)), offset: offset})

	blockLen := uint64(len(block))
	w.totalSize += blockLen
	w.sinceLastIndex += blockLen
	w.kvpBytesSinceIndex += blockLen

	w.stream.push(block)

	return w.maybeSnapshotLocked()
}

// shouldCompress reports whether key should be offered to the configured
// Compressor (SPEC_FULL.md "Per-key compression gating").
func (w *Writer) shouldCompress(key string) bool {
	if w.compressor == nil {
		return false
	}

	if w.keyRules == nil {
		return true
	}

	return w.keyRules.match(key)
}

// maybeSnapshotLocked implements spec.md §4.4's cadence rule.
func (w *Writer) maybeSnapshotLocked() error {
	amplificationBound := w.kvpBytesSinceIndex >= snapshotKVPBytesThreshold &&
		w.kvpBytesSinceIndex >= snapshotAmplificationFactor*w.totalIndexBytes

	if w.sinceLastIndex >= snapshotSinceLastIndexLimit || amplificationBound {
		return w.writeIndexLocked()
	}

	return nil
}

// writeIndexLocked serializes the current index as an Index block,
// appends it, and resets the snapshot-cadence counters. sinceLastIndex is
// reset to the just-written block's own size, not zero, so it keeps
// meaning "distance back to the nearest earlier Index block's start" for
// every block written afterward (DESIGN.md "Writer's sinceLastIndex reset
// after a snapshot").
func (w *Writer) writeIndexLocked() error {
	content := encodeOrderedIndexContent(w.index)

	stored, err := adoptIndexCompression(content, w.compressor)
	if err != nil {
		return err
	}

	block, err := encodeIndexBlock(w.fileID, stored)
	if err != nil {
		return err
	}

	blockLen := uint64(len(block))
	w.totalSize += blockLen
	w.sinceLastIndex = blockLen
	w.kvpBytesSinceIndex = 0
	w.totalIndexBytes += blockLen

	w.stream.push(block)

	return nil
}
