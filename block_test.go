package aokv

import (
	"bytes"
	"testing"
)

func TestEncodeKVPBlockLayout(t *testing.T) {
	t.Parallel()

	block, err := encodeKVPBlock(5, "hello", []byte("world!!!"), 100)
	if err != nil {
		t.Fatalf("encodeKVPBlock: %v", err)
	}

	wantLen := kvpHeaderSize + len("hello") + len("world!!!") + footerSize
	if len(block) != wantLen {
		t.Fatalf("len(block) = %d, want %d", len(block), wantLen)
	}

	if hostEndian.Uint32(block[0:4]) != Magic0 {
		t.Fatal("magic0 mismatch")
	}

	if hostEndian.Uint32(block[4:8]) != kvpMagic1(5) {
		t.Fatal("magic1 mismatch")
	}

	if hostEndian.Uint32(block[8:12]) != uint32(wantLen) {
		t.Fatalf("blockSize field = %d, want %d", hostEndian.Uint32(block[8:12]), wantLen)
	}

	if hostEndian.Uint32(block[12:16]) != uint32(len("hello")) {
		t.Fatal("keySize field mismatch")
	}

	if !bytes.Equal(block[16:16+len("hello")], []byte("hello")) {
		t.Fatal("key bytes mismatch")
	}

	gotBack := hostEndian.Uint32(block[len(block)-footerSize:])
	wantBack := uint32(100 + wantLen - footerSize)
	if gotBack != wantBack {
		t.Fatalf("BACK_DISTANCE = %d, want %d", gotBack, wantBack)
	}
}

func TestEncodeIndexBlockFooterPointsToOwnStart(t *testing.T) {
	t.Parallel()

	content := []byte(`{"a":[1,2]}`)

	block, err := encodeIndexBlock(7, content)
	if err != nil {
		t.Fatalf("encodeIndexBlock: %v", err)
	}

	blockSize := hostEndian.Uint32(block[8:12])
	gotBack := hostEndian.Uint32(block[len(block)-footerSize:])

	// Tail-walk formula: candidate = footerPos - 4 - back must equal 0,
	// the start of this (only) block in the buffer.
	footerPos := int64(len(block))
	candidate := footerPos - footerSize - int64(gotBack)
	if candidate != 0 {
		t.Fatalf("tail-walk candidate = %d, want 0 (back=%d, blockSize=%d)", candidate, gotBack, blockSize)
	}
}

func TestOrderedIndexContentRoundTrip(t *testing.T) {
	t.Parallel()

	idx := newOrderedIndex()
	idx.set("first", indexEntry{size: 10, offset: 0})
	idx.set("second", indexEntry{size: 20, offset: 10})
	idx.set("first", indexEntry{size: 30, offset: 40})

	content := encodeOrderedIndexContent(idx)

	got := newOrderedIndex()
	if err := parseOrderedIndexContent(content, got); err != nil {
		t.Fatalf("parseOrderedIndexContent: %v", err)
	}

	if got.len() != 2 {
		t.Fatalf("len() = %d, want 2", got.len())
	}

	wantKeys := []string{"first", "second"}
	gotKeys := got.orderedKeys()

	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("orderedKeys() = %v, want %v", gotKeys, wantKeys)
	}

	for i, k := range wantKeys {
		if gotKeys[i] != k {
			t.Fatalf("orderedKeys()[%d] = %q, want %q", i, gotKeys[i], k)
		}
	}

	entry, ok := got.get("first")
	if !ok || entry.size != 30 || entry.offset != 40 {
		t.Fatalf("get(%q) = %+v, %v, want the last write", "first", entry, ok)
	}
}

func TestReadFullAtShortReadIsNotOK(t *testing.T) {
	t.Parallel()

	ra := NewBlobReader([]byte("abc"))

	if _, ok := readFullAt(ra, 0, 10); ok {
		t.Fatal("expected ok=false for a short read")
	}

	data, ok := readFullAt(ra, 0, 3)
	if !ok || string(data) != "abc" {
		t.Fatalf("readFullAt() = %q, %v, want \"abc\", true", data, ok)
	}
}
