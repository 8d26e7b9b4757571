// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import "errors"

// Sentinel errors for AOKV operations. Use errors.Is in callers.
var (
	// ErrNotAOKV means the first block's magics don't identify an AOKV
	// stream for the configured fileId.
	ErrNotAOKV = errors.New("aokv: not an AOKV stream")
	// ErrBadVariant means a value descriptor's type tag is unrecognized.
	ErrBadVariant = errors.New("aokv: bad value variant")
	// ErrBadTypedArray means a typed-array descriptor names an unrecognized
	// element kind.
	ErrBadTypedArray = errors.New("aokv: bad typed array kind")
	// ErrNotIndexed means Get or Keys was called before Index completed.
	ErrNotIndexed = errors.New("aokv: reader is not indexed")
	// ErrClosed means the writer already had End called on it.
	ErrClosed = errors.New("aokv: writer already ended")
	// ErrNilReader means a nil io.ReaderAt was supplied.
	ErrNilReader = errors.New("aokv: reader is nil")
	// ErrCyclicValue means a JSON value contains a cycle.
	ErrCyclicValue = errors.New("aokv: cyclic value")
	// ErrKeyTooLarge means a key exceeds the format's u32 length field.
	ErrKeyTooLarge = errors.New("aokv: key too large")
	// ErrBlockTooLarge means a KVP or Index block's total size would not
	// fit in the format's u32 BLOCK_SIZE field.
	ErrBlockTooLarge = errors.New("aokv: block too large")
	// ErrUnrecognizedBlock means the forward scan hit an unrecognized magic
	// inside the reserved fileId window while ReaderOptions.StrictHeaders
	// is set. A magic outside that window stops the scan without an error.
	ErrUnrecognizedBlock = errors.New("aokv: unrecognized block magic")
	// ErrInvalidKeyPattern means one or more WriterOptions.CompressKeys
	// rules failed to compile.
	ErrInvalidKeyPattern = errors.New("aokv: invalid key compression pattern")
	// ErrSinkClosed means a writer producer observed that the stream's
	// consumer side was dropped (spec §7); producers never fail on this,
	// it is reserved for callers that want to detect a dropped consumer.
	ErrSinkClosed = errors.New("aokv: sink closed")
)
