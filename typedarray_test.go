package aokv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedArrayRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"int16", func(t *testing.T) {
			in := []int16{-5, 0, 32767, -32768}
			ta := NewInt16Array(in)
			require.Equal(t, KindInt16, ta.Kind)
			require.Equal(t, len(in), ta.Len())
			out, err := ta.Int16()
			require.NoError(t, err)
			require.Equal(t, in, out)
		}},
		{"uint16", func(t *testing.T) {
			in := []uint16{0, 1, 65535}
			ta := NewUint16Array(in)
			out, err := ta.Uint16()
			require.NoError(t, err)
			require.Equal(t, in, out)
		}},
		{"int32", func(t *testing.T) {
			in := []int32{-1, 0, 1 << 20}
			ta := NewInt32Array(in)
			out, err := ta.Int32()
			require.NoError(t, err)
			require.Equal(t, in, out)
		}},
		{"uint32", func(t *testing.T) {
			in := []uint32{0, 4294967295}
			ta := NewUint32Array(in)
			out, err := ta.Uint32()
			require.NoError(t, err)
			require.Equal(t, in, out)
		}},
		{"float32", func(t *testing.T) {
			in := []float32{-1.5, 0, 3.14159}
			ta := NewFloat32Array(in)
			out, err := ta.Float32()
			require.NoError(t, err)
			require.Equal(t, in, out)
		}},
		{"float64", func(t *testing.T) {
			in := []float64{-1.5, 0, 2.718281828}
			ta := NewFloat64Array(in)
			out, err := ta.Float64()
			require.NoError(t, err)
			require.Equal(t, in, out)
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.run(t)
		})
	}
}

func TestTypedArrayU8VariantsExposeBytesDirectly(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5}

	u8 := NewUint8Array(data)
	require.Equal(t, KindUint8, u8.Kind)
	require.Equal(t, data, u8.Bytes)
	require.Equal(t, 5, u8.Len())

	clamped := NewUint8ClampedArray(data)
	require.Equal(t, KindUint8Clamped, clamped.Kind)
	require.Equal(t, data, clamped.Bytes)

	view := NewDataView(data)
	require.Equal(t, KindDataView, view.Kind)
	require.Equal(t, data, view.Bytes)
}

func TestTypedArrayMismatchedKindDecodeFails(t *testing.T) {
	t.Parallel()

	ta := NewUint16Array([]uint16{1, 2, 3})

	_, err := ta.Int16()
	require.ErrorIs(t, err, ErrBadTypedArray)

	_, err = ta.Float64()
	require.ErrorIs(t, err, ErrBadTypedArray)
}

func TestElementSizeRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := elementSize(ArrayKind("bogus"))
	require.ErrorIs(t, err, ErrBadTypedArray)
}
