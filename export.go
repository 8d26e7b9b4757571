// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// exportCopyBufferSize sizes the per-worker scratch buffer used when
// writing a key's raw-bytes or typed-array payload.
const exportCopyBufferSize = 64 * 1024

// ExportOptions configures Export (SPEC_FULL.md "Export").
type ExportOptions struct {
	// MaxWorkers bounds export parallelism; zero means GOMAXPROCS.
	MaxWorkers int
	// Keys limits the export to this subset; nil means every key from
	// r.Keys().
	Keys []string
	// OnKeyDone is called once per key after its file is written (or
	// failed), mirroring pbo.ExtractOptions.OnEntryDone.
	OnKeyDone func(key string, outputPath string, err error)
}

type exportWorkItem struct {
	key     string
	outPath string
}

// Export dumps every indexed key's decoded value to dstDir, one file per
// key (a tombstoned key is written as JSON null), using a bounded worker pool (SPEC_FULL.md "Export", grounded on
// the teacher's Extract). Keys are mapped to filenames with
// sanitizeKeyFilename and disambiguated with uniqueFilename; the mapping
// from key to output path is reported through OnKeyDone since it is not
// otherwise recoverable from the key alone.
func Export(ctx context.Context, r *Reader, dstDir string, opts ExportOptions) error {
	if r == nil {
		return ErrNilReader
	}

	keys := opts.Keys
	if keys == nil {
		var err error

		keys, err = r.Keys()
		if err != nil {
			return err
		}
	}

	if len(keys) == 0 {
		return nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("aokv: resolve export dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("aokv: create export dir: %w", err)
	}

	used := make(map[string]struct{}, len(keys))

	items := make([]exportWorkItem, len(keys))
	for i, key := range keys {
		name := uniqueFilename(sanitizeKeyFilename(key), used)
		items[i] = exportWorkItem{key: key, outPath: filepath.Join(dstRootAbs, name)}
	}

	taskCh := make(chan exportWorkItem, len(items))
	errCh := make(chan error, len(items))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Go(func() {
			copyBuf := make([]byte, exportCopyBufferSize)
			for task := range taskCh {
				err := exportOne(ctx, r, task.key, task.outPath, copyBuf, opts.OnKeyDone)

				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		})
	}

	for _, task := range items {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()

			return ctx.Err()
		case taskCh <- task:
		}
	}

	close(taskCh)
	wg.Wait()
	close(errCh)

	var first error

	for err := range errCh {
		if err != nil && first == nil {
			first = err
		}
	}

	return first
}

// exportOne reads and writes a single key. outPath was already resolved
// and disambiguated by Export before dispatch, so workers never contend
// over filename assignment.
func exportOne(
	ctx context.Context,
	r *Reader,
	key string,
	outPath string,
	copyBuf []byte,
	onKeyDone func(key, outputPath string, err error),
) error {
	value, found, err := r.Get(ctx, key)
	if err != nil {
		if onKeyDone != nil {
			onKeyDone(key, "", err)
		}

		return err
	}

	if !found {
		if onKeyDone != nil {
			onKeyDone(key, "", nil)
		}

		return nil
	}

	err = writeExportedValue(outPath, value, copyBuf)
	if onKeyDone != nil {
		onKeyDone(key, outPath, err)
	}

	return err
}

func writeExportedValue(outPath string, v Value, copyBuf []byte) error {
	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("aokv: create %s: %w", outPath, err)
	}
	defer f.Close()

	switch v.Kind {
	case KindJSON:
		if _, err := f.Write(v.JSON); err != nil {
			return fmt.Errorf("aokv: write %s: %w", outPath, err)
		}
	case KindRawBytesValue:
		if err := copyInChunks(f, v.RawBytes, copyBuf); err != nil {
			return fmt.Errorf("aokv: write %s: %w", outPath, err)
		}
	case KindTypedArrayValue:
		if err := copyInChunks(f, v.TypedArray.Bytes, copyBuf); err != nil {
			return fmt.Errorf("aokv: write %s: %w", outPath, err)
		}
	default:
		return fmt.Errorf("%w: tag %d", ErrBadVariant, v.Kind)
	}

	return nil
}

func copyInChunks(f *os.File, data []byte, buf []byte) error {
	for len(data) > 0 {
		n := copy(buf, data)

		if _, err := f.Write(buf[:n]); err != nil {
			return err
		}

		data = data[n:]
	}

	return nil
}
