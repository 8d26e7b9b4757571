// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import "context"

// Snapshot replays r's fully-indexed live key set into a brand-new
// Writer, producing a compacted copy of the store as a fresh stream
// (SPEC_FULL.md "Snapshot"). This is not in-place compaction of a single
// append-only stream — that is forbidden by I1 and spec.md's Non-goals —
// it builds an entirely new stream from the current read-side view,
// grounded on the teacher's Editor.Commit "build a rewrite plan from
// current entries, stream a new archive" shape.
//
// Tombstoned keys (IsNull values) are not replayed: a fresh store that
// never mentions a key already represents "absent", so the replayed
// stream carries only live values.
//
// The returned Writer has already had End called; its Stream is ready to
// be drained by the caller.
func Snapshot(ctx context.Context, r *Reader, opts WriterOptions) (*Writer, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	keys, err := r.Keys()
	if err != nil {
		return nil, err
	}

	w, err := NewWriter(opts)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, found, err := r.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		if !found || value.IsNull() {
			continue
		}

		if err := w.Set(key, value); err != nil {
			return nil, err
		}
	}

	if err := w.End(); err != nil {
		return nil, err
	}

	return w, nil
}
