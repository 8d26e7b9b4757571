// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import "github.com/aokv-format/aokv/internal/endian"

// hostEndian is the byte order used for every integer field in the
// wire format (spec §6: "written in host byte order").
var hostEndian = endian.Host

// Wire-format constants (spec §4.1, §6). Block layouts:
//
//	MagicHeader = [ MAGIC0 : u32 | MAGIC1 : u32 | BLOCK_SIZE : u32 ]   (12 bytes)
//	KVPHeader   = MagicHeader ++ [ KEY_SIZE : u32 ]                    (16 bytes)
//	IndexHeader = MagicHeader                                          (12 bytes)
//	Footer      = [ BACK_DISTANCE : u32 ]                              (4 bytes)
const (
	// Magic0 is the fixed brand opening every block: ASCII "AOKV" in
	// little-endian host order.
	Magic0 uint32 = 0x564B4F41

	magic1KVPBase     uint32 = 0x93C1AF97
	magic1IdxBase     uint32 = 0x93C1AF98
	magic1ReservedMax uint32 = 0x93C1B097

	magicHeaderSize = 12
	kvpHeaderSize   = 16
	indexHeaderSize = 12
	footerSize      = 4
)

// blockKind identifies the on-disk block type.
type blockKind int

const (
	blockKindUnknown blockKind = iota
	blockKindKVP
	blockKindIndex
)

// kvpMagic1 returns MAGIC1_KVP for the given fileId.
func kvpMagic1(fileID uint32) uint32 {
	return magic1KVPBase + fileID
}

// indexMagic1 returns MAGIC1_IDX for the given fileId.
func indexMagic1(fileID uint32) uint32 {
	return magic1IdxBase + fileID
}

// classifyBlock reports which block kind, if any, the given magics
// represent for fileID. The second return value reports whether magic1
// at least falls in the reserved window (for forward-compatible skip
// of unrecognized-but-sized blocks).
func classifyBlock(magic0, magic1, fileID uint32) (kind blockKind, reserved bool) {
	if magic0 != Magic0 {
		return blockKindUnknown, false
	}

	switch magic1 {
	case kvpMagic1(fileID):
		return blockKindKVP, true
	case indexMagic1(fileID):
		return blockKindIndex, true
	}

	if magic1 >= magic1KVPBase && magic1 <= magic1ReservedMax {
		return blockKindUnknown, true
	}

	return blockKindUnknown, false
}
