// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// maxSanitizedKeyLen limits one sanitized filename to a broadly portable
// filesystem length, matching the teacher's segment-length ceiling.
const maxSanitizedKeyLen = 240

// reservedDeviceNames are case-insensitive reserved DOS/Windows device
// identifiers a sanitized key must never collide with, adapted unchanged
// from the teacher's archive-path sanitizer — these are generic
// filesystem facts, not specific to any container format.
var reservedDeviceNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {},
	"com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {},
	"lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// sanitizeKeyFilename maps an arbitrary AOKV key to a deterministic,
// filesystem-safe filename (SPEC_FULL.md "Export"). Unlike the teacher's
// path sanitizer, AOKV keys are opaque strings with no directory
// semantics, so there is no slash-splitting or path-separator
// normalization — the whole key is one segment.
func sanitizeKeyFilename(key string) string {
	if key == "" {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(key))

	for _, r := range key {
		if isUnsafeFilenameRune(r) {
			b.WriteRune('_')
			continue
		}

		b.WriteRune(r)
	}

	sanitized := strings.TrimRight(b.String(), ". ")
	if sanitized == "" {
		sanitized = "_"
	}

	base := sanitized
	if dot := strings.IndexByte(base, '.'); dot >= 0 {
		base = base[:dot]
	}

	if isReservedDeviceName(base) {
		sanitized = "_" + sanitized
	}

	if len(sanitized) > maxSanitizedKeyLen {
		sanitized = shortenDeterministic(sanitized, maxSanitizedKeyLen)
	}

	return sanitized
}

func isUnsafeFilenameRune(r rune) bool {
	if unicode.IsControl(r) || unicode.In(r, unicode.Cf) || r == '�' {
		return true
	}

	return strings.ContainsRune(`<>:"/\|?*`, r)
}

func isReservedDeviceName(name string) bool {
	candidate := strings.ToLower(strings.TrimSpace(name))
	_, ok := reservedDeviceNames[candidate]

	return ok
}

// uniqueFilename resolves a sanitized-filename collision with a
// deterministic numeric suffix, matching the teacher's
// makeSanitizedPathUnique shape. used tracks lowercased names already
// claimed in this export.
func uniqueFilename(name string, used map[string]struct{}) string {
	key := strings.ToLower(name)
	if _, exists := used[key]; !exists {
		used[key] = struct{}{}
		return name
	}

	for n := 2; n < 1_000_000; n++ {
		candidate := withNumericSuffix(name, n)
		candidateKey := strings.ToLower(candidate)

		if _, exists := used[candidateKey]; !exists {
			used[candidateKey] = struct{}{}
			return candidate
		}
	}

	// Unreachable in practice: it would require a million collisions on
	// one sanitized name within a single export.
	return fmt.Sprintf("%s~%x", name, xxhash.Sum64String(name))
}

func withNumericSuffix(name string, n int) string {
	ext := ""
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		ext = name[dot:]
		name = name[:dot]
	}

	suffix := "~" + strconv.Itoa(n)
	allowed := maxSanitizedKeyLen - len(ext) - len(suffix)
	if allowed < 1 {
		allowed = 1
	}

	if len(name) > allowed {
		name = shortenDeterministic(name, allowed)
	}

	return name + suffix + ext
}

// shortenDeterministic truncates value to maxLen, replacing the dropped
// tail with an xxhash digest so distinct long keys sanitizing to a common
// prefix still resolve to distinct filenames (the teacher uses fnv for
// the same purpose; this module uses xxhash here per SPEC_FULL.md's
// "Collision-safe export filenames" row).
func shortenDeterministic(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}

	if maxLen <= 10 {
		return value[:maxLen]
	}

	hashPart := fmt.Sprintf("~%016x", xxhash.Sum64String(value))
	prefixLen := maxLen - len(hashPart)
	if prefixLen < 1 {
		prefixLen = 1
	}

	return value[:prefixLen] + hashPart
}
