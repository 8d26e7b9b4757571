//go:build gozstd

package compressors

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoZstdRoundTrip(t *testing.T) {
	t.Parallel()

	c := NewGoZstd(0)

	data := bytes.Repeat([]byte("cgo-backed zstd payload "), 128)

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestGoZstdCustomLevel(t *testing.T) {
	t.Parallel()

	c := NewGoZstd(19)

	data := bytes.Repeat([]byte("high compression level payload "), 256)

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestGoZstdEmptyInput(t *testing.T) {
	t.Parallel()

	c := NewGoZstd(0)

	decompressed, err := c.Decompress(nil)
	require.NoError(t, err)
	require.Nil(t, decompressed)
}
