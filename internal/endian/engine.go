// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

// Package endian provides the byte order used for AOKV's on-disk integers.
//
// AOKV's wire format is host-byte-order by definition (spec §6), with
// MAGIC0 doubling as an endianness witness for anyone who reads a file
// produced on a different-endian host. This package exposes that host
// order as a single Engine value (combining binary.ByteOrder and
// binary.AppendByteOrder) instead of sprinkling binary.LittleEndian
// calls through the codec, so a big-endian host still writes a
// self-consistent, self-describing file.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder for convenient, allocation-free
// binary field packing. It is satisfied by binary.LittleEndian and
// binary.BigEndian.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Host is the byte order AOKV uses for every integer it writes: the
// running host's native order, detected once at package init.
var Host Engine = detectHost()

// detectHost reports the host's native byte order by inspecting the
// in-memory layout of a known 16-bit value.
func detectHost() Engine {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsLittleEndian reports whether Host is little-endian (true on every
// mainstream target AOKV runs on today).
func IsLittleEndian() bool {
	return Host == Engine(binary.LittleEndian)
}
