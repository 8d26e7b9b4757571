// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"fmt"
	"math"

	"github.com/aokv-format/aokv/internal/endian"
)

// ArrayKind is the element-type tag persisted in a value descriptor's
// "a" field for the TypedArray variant (spec §3, §9 "Tagged variants").
// Decode must reject any tag outside this closed set with
// ErrBadTypedArray.
type ArrayKind string

// Recognized typed-array element kinds.
const (
	KindUint8        ArrayKind = "u8"
	KindUint8Clamped ArrayKind = "u8-clamped"
	KindInt16        ArrayKind = "i16"
	KindUint16       ArrayKind = "u16"
	KindInt32        ArrayKind = "i32"
	KindUint32       ArrayKind = "u32"
	KindFloat32      ArrayKind = "f32"
	KindFloat64      ArrayKind = "f64"
	KindDataView     ArrayKind = "opaque-dataview"
)

// elementSize returns the byte width of one element for kind, or an
// error if kind is unrecognized.
func elementSize(kind ArrayKind) (int, error) {
	switch kind {
	case KindUint8, KindUint8Clamped, KindDataView:
		return 1, nil
	case KindInt16, KindUint16:
		return 2, nil
	case KindInt32, KindUint32, KindFloat32:
		return 4, nil
	case KindFloat64:
		return 8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadTypedArray, kind)
	}
}

// TypedArray is a typed numeric view: the element kind plus the
// accessible byte window, not any backing-buffer slack (spec §3).
type TypedArray struct {
	Kind  ArrayKind
	Bytes []byte
}

// Len reports the element count implied by Bytes and Kind.
func (t TypedArray) Len() int {
	size, err := elementSize(t.Kind)
	if err != nil || size == 0 {
		return 0
	}

	return len(t.Bytes) / size
}

// NewUint8Array builds a TypedArray over raw u8 elements.
func NewUint8Array(data []byte) TypedArray {
	return TypedArray{Kind: KindUint8, Bytes: append([]byte(nil), data...)}
}

// NewUint8ClampedArray builds a TypedArray over clamped-u8 elements.
func NewUint8ClampedArray(data []byte) TypedArray {
	return TypedArray{Kind: KindUint8Clamped, Bytes: append([]byte(nil), data...)}
}

// NewDataView builds an opaque-dataview TypedArray over raw bytes.
func NewDataView(data []byte) TypedArray {
	return TypedArray{Kind: KindDataView, Bytes: append([]byte(nil), data...)}
}

// NewInt16Array builds a TypedArray over i16 elements in host order.
func NewInt16Array(data []int16) TypedArray {
	buf := make([]byte, 2*len(data))
	for i, v := range data {
		endian.Host.PutUint16(buf[i*2:], uint16(v))
	}

	return TypedArray{Kind: KindInt16, Bytes: buf}
}

// NewUint16Array builds a TypedArray over u16 elements in host order.
func NewUint16Array(data []uint16) TypedArray {
	buf := make([]byte, 2*len(data))
	for i, v := range data {
		endian.Host.PutUint16(buf[i*2:], v)
	}

	return TypedArray{Kind: KindUint16, Bytes: buf}
}

// NewInt32Array builds a TypedArray over i32 elements in host order.
func NewInt32Array(data []int32) TypedArray {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		endian.Host.PutUint32(buf[i*4:], uint32(v))
	}

	return TypedArray{Kind: KindInt32, Bytes: buf}
}

// NewUint32Array builds a TypedArray over u32 elements in host order.
func NewUint32Array(data []uint32) TypedArray {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		endian.Host.PutUint32(buf[i*4:], v)
	}

	return TypedArray{Kind: KindUint32, Bytes: buf}
}

// NewFloat32Array builds a TypedArray over f32 elements in host order.
func NewFloat32Array(data []float32) TypedArray {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		endian.Host.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	return TypedArray{Kind: KindFloat32, Bytes: buf}
}

// NewFloat64Array builds a TypedArray over f64 elements in host order.
func NewFloat64Array(data []float64) TypedArray {
	buf := make([]byte, 8*len(data))
	for i, v := range data {
		endian.Host.PutUint64(buf[i*8:], math.Float64bits(v))
	}

	return TypedArray{Kind: KindFloat64, Bytes: buf}
}

// Uint16 decodes Bytes as u16 elements in host order.
func (t TypedArray) Uint16() ([]uint16, error) {
	if t.Kind != KindUint16 {
		return nil, fmt.Errorf("%w: not a u16 array", ErrBadTypedArray)
	}

	out := make([]uint16, t.Len())
	for i := range out {
		out[i] = endian.Host.Uint16(t.Bytes[i*2:])
	}

	return out, nil
}

// Int16 decodes Bytes as i16 elements in host order.
func (t TypedArray) Int16() ([]int16, error) {
	if t.Kind != KindInt16 {
		return nil, fmt.Errorf("%w: not an i16 array", ErrBadTypedArray)
	}

	out := make([]int16, t.Len())
	for i := range out {
		out[i] = int16(endian.Host.Uint16(t.Bytes[i*2:]))
	}

	return out, nil
}

// Uint32 decodes Bytes as u32 elements in host order.
func (t TypedArray) Uint32() ([]uint32, error) {
	if t.Kind != KindUint32 {
		return nil, fmt.Errorf("%w: not a u32 array", ErrBadTypedArray)
	}

	out := make([]uint32, t.Len())
	for i := range out {
		out[i] = endian.Host.Uint32(t.Bytes[i*4:])
	}

	return out, nil
}

// Int32 decodes Bytes as i32 elements in host order.
func (t TypedArray) Int32() ([]int32, error) {
	if t.Kind != KindInt32 {
		return nil, fmt.Errorf("%w: not an i32 array", ErrBadTypedArray)
	}

	out := make([]int32, t.Len())
	for i := range out {
		out[i] = int32(endian.Host.Uint32(t.Bytes[i*4:]))
	}

	return out, nil
}

// Float32 decodes Bytes as f32 elements in host order.
func (t TypedArray) Float32() ([]float32, error) {
	if t.Kind != KindFloat32 {
		return nil, fmt.Errorf("%w: not an f32 array", ErrBadTypedArray)
	}

	out := make([]float32, t.Len())
	for i := range out {
		out[i] = math.Float32frombits(endian.Host.Uint32(t.Bytes[i*4:]))
	}

	return out, nil
}

// Float64 decodes Bytes as f64 elements in host order.
func (t TypedArray) Float64() ([]float64, error) {
	if t.Kind != KindFloat64 {
		return nil, fmt.Errorf("%w: not an f64 array", ErrBadTypedArray)
	}

	out := make([]float64, t.Len())
	for i := range out {
		out[i] = math.Float64frombits(endian.Host.Uint64(t.Bytes[i*8:]))
	}

	return out, nil
}
