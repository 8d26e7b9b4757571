// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

// indexEntry is the in-memory index's value: where a key's body lives
// (spec §3 "In-memory index").
type indexEntry struct {
	size   uint32
	offset uint64
}

// orderedIndex maps key -> indexEntry while preserving first-occurrence
// insertion order, since Go's map type does not (spec §9 "Index as a map
// with preserved order").
type orderedIndex struct {
	keys    []string
	entries map[string]indexEntry
}

func newOrderedIndex() *orderedIndex {
	return &orderedIndex{entries: make(map[string]indexEntry)}
}

// set records or updates key's entry. An existing key keeps its
// position in keys (spec §4.5: "forward scan only overwrites existing
// entries in place").
func (idx *orderedIndex) set(key string, e indexEntry) {
	if _, exists := idx.entries[key]; !exists {
		idx.keys = append(idx.keys, key)
	}

	idx.entries[key] = e
}

func (idx *orderedIndex) get(key string) (indexEntry, bool) {
	e, ok := idx.entries[key]
	return e, ok
}

// orderedKeys returns keys in first-occurrence order. The caller must
// not mutate the returned slice.
func (idx *orderedIndex) orderedKeys() []string {
	return idx.keys
}

func (idx *orderedIndex) len() int {
	return len(idx.keys)
}
