// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Compressor is the opaque compression collaborator (spec §6). The
// format relies only on the in-band probe-byte rule, never on
// compression-specific framing, so any implementation satisfying this
// interface can be plugged into a Writer/Reader.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// ValueKind tags which of the three Value cases is populated (spec §3
// "Value").
type ValueKind int

const (
	// KindJSON holds any JSON-representable value, including null
	// (which doubles as the tombstone).
	KindJSON ValueKind = iota
	// KindTypedArrayValue holds a TypedArray.
	KindTypedArrayValue
	// KindRawBytesValue holds an opaque byte buffer.
	KindRawBytesValue
)

// Value is the tagged variant persisted in every KVP body.
type Value struct {
	Kind       ValueKind
	JSON       json.RawMessage
	TypedArray TypedArray
	RawBytes   []byte
}

// JSONValue wraps any Go value as a KindJSON Value using the standard JSON
// encoder. Passing nil produces the tombstone value used by Remove.
func JSONValue(v any) (Value, error) {
	if err := checkAcyclic(v, nil); err != nil {
		return Value{}, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("aokv: encode JSON value: %w", err)
	}

	return Value{Kind: KindJSON, JSON: raw}, nil
}

// Null is the tombstone value written by Writer.Remove.
func Null() Value {
	return Value{Kind: KindJSON, JSON: json.RawMessage("null")}
}

// TypedArrayValue wraps a TypedArray as a Value.
func TypedArrayValue(t TypedArray) Value {
	return Value{Kind: KindTypedArrayValue, TypedArray: t}
}

// RawBytesValue wraps an opaque byte buffer as a Value.
func RawBytesValue(b []byte) Value {
	return Value{Kind: KindRawBytesValue, RawBytes: b}
}

// IsNull reports whether v is the JSON null tombstone.
func (v Value) IsNull() bool {
	return v.Kind == KindJSON && string(v.JSON) == "null"
}

// checkAcyclic walks v (as produced from Go composite literals destined
// for json.Marshal) and rejects reference cycles (spec §9 "Cyclic
// references. Disallowed at the JSON layer; encoder must reject.").
// json.Marshal itself does not detect cycles in maps/slices of pointers
// and will recurse until it blows the stack, so this is a real
// necessary check rather than defensive padding.
func checkAcyclic(v any, seen map[any]bool) error {
	switch val := v.(type) {
	case map[string]any:
		if seen == nil {
			seen = make(map[any]bool)
		}

		ptr := any(reflect.ValueOf(val).Pointer())
		if seen[ptr] {
			return ErrCyclicValue
		}

		seen[ptr] = true
		for _, child := range val {
			if err := checkAcyclic(child, seen); err != nil {
				return err
			}
		}

		delete(seen, ptr)

		return nil
	case []any:
		if seen == nil {
			seen = make(map[any]bool)
		}

		ptr := any([2]uintptr{reflect.ValueOf(val).Pointer(), uintptr(len(val))})
		if seen[ptr] {
			return ErrCyclicValue
		}

		seen[ptr] = true
		for _, child := range val {
			if err := checkAcyclic(child, seen); err != nil {
				return err
			}
		}

		delete(seen, ptr)

		return nil
	default:
		return nil
	}
}

// descriptor is the small JSON object persisted at the head of every
// body (spec §3 "Descriptor").
type descriptor struct {
	T int             `json:"t"`
	A ArrayKind       `json:"a,omitempty"`
	D json.RawMessage `json:"d,omitempty"`
}

// encodeBody builds the uncompressed body: u32 descSize | descriptor
// JSON | post.
func encodeBody(v Value) ([]byte, error) {
	var desc descriptor
	var post []byte

	switch v.Kind {
	case KindJSON:
		desc = descriptor{T: 0, D: v.JSON}
	case KindTypedArrayValue:
		if _, err := elementSize(v.TypedArray.Kind); err != nil {
			return nil, err
		}

		desc = descriptor{T: 1, A: v.TypedArray.Kind}
		post = v.TypedArray.Bytes
	case KindRawBytesValue:
		desc = descriptor{T: 2}
		post = v.RawBytes
	default:
		return nil, ErrBadVariant
	}

	descBytes, err := json.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("aokv: encode descriptor: %w", err)
	}

	body := make([]byte, 4+len(descBytes)+len(post))
	hostEndian.PutUint32(body[0:4], uint32(len(descBytes)))
	copy(body[4:], descBytes)
	copy(body[4+len(descBytes):], post)

	return body, nil
}

// EncodeValue implements spec §4.2 Encode: build the body, then adopt a
// compressed form only when it is both strictly shorter and does not
// collide with the in-band probe byte (DESIGN.md "Compression probe-byte
// length guard").
func EncodeValue(v Value, c Compressor) ([]byte, error) {
	body, err := encodeBody(v)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return body, nil
	}

	compressed, err := c.Compress(body)
	if err != nil {
		return nil, fmt.Errorf("aokv: compress value: %w", err)
	}

	if isAdoptableCompressedForm(compressed, body, 4) {
		return compressed, nil
	}

	return body, nil
}

// isAdoptableCompressedForm reports whether compressed can replace
// original wholesale under the probe-byte rule at the given probe
// index: compressed must be strictly shorter than original, long
// enough to contain the probe byte, and not itself read back as
// "uncompressed" (probe byte == '{').
func isAdoptableCompressedForm(compressed, original []byte, probeIndex int) bool {
	if len(compressed) >= len(original) {
		return false
	}
	if len(compressed) <= probeIndex {
		return false
	}

	return compressed[probeIndex] != '{'
}

// DecodeValue implements spec §4.2 Decode.
func DecodeValue(body []byte, c Compressor) (Value, error) {
	if c != nil && len(body) >= 5 && body[4] != '{' {
		decompressed, err := c.Decompress(body)
		if err != nil {
			return Value{}, fmt.Errorf("aokv: decompress value: %w", err)
		}

		body = decompressed
	}

	if len(body) < 4 {
		return Value{}, fmt.Errorf("%w: short body", ErrBadVariant)
	}

	descSize := hostEndian.Uint32(body[0:4])
	if uint64(descSize) > uint64(len(body)-4) {
		return Value{}, fmt.Errorf("%w: descriptor size out of range", ErrBadVariant)
	}

	var desc descriptor
	if err := json.Unmarshal(body[4:4+descSize], &desc); err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrBadVariant, err)
	}

	post := body[4+descSize:]

	switch desc.T {
	case 0:
		return Value{Kind: KindJSON, JSON: desc.D}, nil
	case 1:
		if _, err := elementSize(desc.A); err != nil {
			return Value{}, err
		}

		return Value{Kind: KindTypedArrayValue, TypedArray: TypedArray{Kind: desc.A, Bytes: post}}, nil
	case 2:
		return Value{Kind: KindRawBytesValue, RawBytes: post}, nil
	default:
		return Value{}, fmt.Errorf("%w: tag %d", ErrBadVariant, desc.T)
	}
}
