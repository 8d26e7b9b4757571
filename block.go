// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// blockHeader is the result of classifying the fixed magic header at some
// offset (spec §4.3 "Read block at offset").
type blockHeader struct {
	kind      blockKind
	reserved  bool
	blockSize uint32
}

// encodeKVPBlock builds a complete KVP block (spec §4.3, §6 "KVPBlock"):
// MagicHeader ++ KEY_SIZE ++ key ++ body ++ Footer. backDistance is the
// writer's running distance-since-last-index value captured before this
// block began.
func encodeKVPBlock(fileID uint32, key string, body []byte, backDistance uint64) ([]byte, error) {
	keyBytes := []byte(key)
	if uint64(len(keyBytes)) > math.MaxUint32 {
		return nil, ErrKeyTooLarge
	}

	total := uint64(kvpHeaderSize) + uint64(len(keyBytes)) + uint64(len(body)) + uint64(footerSize)
	if total > math.MaxUint32 {
		return nil, ErrBlockTooLarge
	}

	back := backDistance + total - uint64(footerSize)
	if back > math.MaxUint32 {
		return nil, ErrBlockTooLarge
	}

	buf := make([]byte, total)
	hostEndian.PutUint32(buf[0:4], Magic0)
	hostEndian.PutUint32(buf[4:8], kvpMagic1(fileID))
	hostEndian.PutUint32(buf[8:12], uint32(total))
	hostEndian.PutUint32(buf[12:16], uint32(len(keyBytes)))
	copy(buf[16:], keyBytes)
	copy(buf[16+len(keyBytes):], body)
	hostEndian.PutUint32(buf[total-uint64(footerSize):], uint32(back))

	return buf, nil
}

// encodeIndexBlock builds a complete Index block (spec §4.3, §6
// "IndexBlock"): MagicHeader ++ content ++ Footer. The footer's
// BACK_DISTANCE is BLOCK_SIZE-4, the distance from the footer's own start
// back to this block's own start (DESIGN.md "Index footer back-distance").
func encodeIndexBlock(fileID uint32, content []byte) ([]byte, error) {
	total := uint64(indexHeaderSize) + uint64(len(content)) + uint64(footerSize)
	if total > math.MaxUint32 {
		return nil, ErrBlockTooLarge
	}

	buf := make([]byte, total)
	hostEndian.PutUint32(buf[0:4], Magic0)
	hostEndian.PutUint32(buf[4:8], indexMagic1(fileID))
	hostEndian.PutUint32(buf[8:12], uint32(total))
	copy(buf[12:], content)
	hostEndian.PutUint32(buf[total-uint64(footerSize):], uint32(total-uint64(footerSize)))

	return buf, nil
}

// encodeOrderedIndexContent serializes idx as the ordered JSON object
// described in spec §6 ("content := utf8_json({ key: [size, offset], ... })").
// encoding/json cannot marshal a map in insertion order, so the object is
// assembled by hand; json.Marshal is used only per key for string escaping
// (DESIGN.md "value.go").
func encodeOrderedIndexContent(idx *orderedIndex) []byte {
	var buf []byte
	buf = append(buf, '{')

	for i, key := range idx.orderedKeys() {
		if i > 0 {
			buf = append(buf, ',')
		}

		entry, _ := idx.get(key)
		keyJSON, _ := json.Marshal(key)
		buf = append(buf, keyJSON...)
		buf = append(buf, ':', '[')
		buf = strconv.AppendUint(buf, uint64(entry.size), 10)
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, entry.offset, 10)
		buf = append(buf, ']')
	}

	buf = append(buf, '}')

	return buf
}

// parseOrderedIndexContent decodes the ordered JSON object back into idx,
// preserving the order keys appear in the JSON (spec §9 "Index as a map
// with preserved order"). json.Decoder's token stream is used instead of
// json.Unmarshal into a map, since Go maps do not preserve insertion order.
func parseOrderedIndexContent(content []byte, idx *orderedIndex) error {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: index key: %w", ErrBadVariant, err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: index key is not a string", ErrBadVariant)
		}

		if err := expectDelim(dec, '['); err != nil {
			return err
		}

		size, err := decodeIndexNumber(dec)
		if err != nil {
			return err
		}

		offset, err := decodeIndexNumber(dec)
		if err != nil {
			return err
		}

		if err := expectDelim(dec, ']'); err != nil {
			return err
		}

		idx.set(key, indexEntry{size: uint32(size), offset: offset})
	}

	return expectDelim(dec, '}')
}

func decodeIndexNumber(dec *json.Decoder) (uint64, error) {
	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("%w: index entry: %w", ErrBadVariant, err)
	}

	num, ok := tok.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: index entry is not numeric", ErrBadVariant)
	}

	v, err := strconv.ParseUint(num.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: index entry out of range: %w", ErrBadVariant, err)
	}

	return v, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadVariant, err)
	}

	got, ok := tok.(json.Delim)
	if !ok || got != want {
		return fmt.Errorf("%w: expected %q", ErrBadVariant, want)
	}

	return nil
}

// adoptIndexCompression mirrors EncodeValue's probe-byte adoption rule
// (spec.md §4.3 "Index write") but at probe index 0, since index content
// always begins with the JSON object's opening brace instead of a u32
// descriptor-length field.
func adoptIndexCompression(content []byte, c Compressor) ([]byte, error) {
	if c == nil {
		return content, nil
	}

	compressed, err := c.Compress(content)
	if err != nil {
		return nil, fmt.Errorf("aokv: compress index: %w", err)
	}

	if isAdoptableCompressedForm(compressed, content, 0) {
		return compressed, nil
	}

	return content, nil
}

// decodeIndexContent reverses adoptIndexCompression.
func decodeIndexContent(content []byte, c Compressor) ([]byte, error) {
	if c == nil || len(content) < 1 || content[0] == '{' {
		return content, nil
	}

	decompressed, err := c.Decompress(content)
	if err != nil {
		return nil, fmt.Errorf("aokv: decompress index: %w", err)
	}

	return decompressed, nil
}

// readBlockHeaderAt reads and classifies the fixed magic header at offset,
// returning the raw bytes actually read (up to 16) alongside the
// classification. ok is false on a short/EOF read (spec §4.7: "short read
// ... causes forward scanning to stop cleanly").
func readBlockHeaderAt(ra io.ReaderAt, offset int64, fileID uint32) (hdr blockHeader, head []byte, ok bool) {
	buf := make([]byte, kvpHeaderSize)

	n, _ := ra.ReadAt(buf, offset)
	if n < magicHeaderSize {
		return blockHeader{}, nil, false
	}

	magic0 := hostEndian.Uint32(buf[0:4])
	magic1 := hostEndian.Uint32(buf[4:8])
	blockSize := hostEndian.Uint32(buf[8:12])
	kind, reserved := classifyBlock(magic0, magic1, fileID)

	return blockHeader{kind: kind, reserved: reserved, blockSize: blockSize}, buf[:n], true
}

// readFullAt reads exactly n bytes at offset, reporting ok=false on a
// short read rather than returning an error (I4 prefix validity: a
// truncated tail simply drops the block that needed those bytes).
func readFullAt(ra io.ReaderAt, offset int64, n int64) (data []byte, ok bool) {
	if n < 0 {
		return nil, false
	}

	buf := make([]byte, n)

	read, _ := ra.ReadAt(buf, offset)
	if int64(read) < n {
		return nil, false
	}

	return buf, true
}
