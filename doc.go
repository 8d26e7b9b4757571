// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

/*
Package aokv implements the AOKV container format: an append-only
key-value store designed for truncation-safe byte streams such as a
file being streamed to a user-initiated download.

A Writer serializes values into self-describing blocks, streams them
through a pull-based Stream, and periodically emits an index snapshot
so a Reader can bootstrap without scanning the whole file:

	w, err := aokv.NewWriter(aokv.WriterOptions{})
	if err != nil {
	    return err
	}
	go func() {
	    hello, _ := aokv.JSONValue("world")
	    _ = w.Set("hello", hello)
	    _ = w.Remove("scratch")
	    _ = w.End()
	}()
	for {
	    chunk, err := w.Stream().Pull(ctx)
	    if err == io.EOF {
	        break
	    }
	    _, _ = dst.Write(chunk)
	}

A Reader locates the most recent index by walking back-pointers from
the file tail, forward-scans any newer blocks, and serves point lookups
with positioned reads:

	r, err := aokv.NewReader(ra, size, 0, aokv.ReaderOptions{})
	if err != nil {
	    return err
	}
	if err := r.Index(ctx); err != nil {
	    return err
	}
	v, ok, err := r.Get(ctx, "hello")

Compression is an opaque collaborator satisfying the Compressor
interface; concrete backends live under the compressors subpackage.
*/
package aokv
