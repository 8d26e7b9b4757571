package aokv

import (
	"strings"
	"testing"
)

func TestSanitizeKeyFilenameReplacesUnsafeRunes(t *testing.T) {
	t.Parallel()

	got := sanitizeKeyFilename(`a/b\c:d*e?f"g<h>i|j`)
	if strings.ContainsAny(got, `/\:*?"<>|`) {
		t.Fatalf("sanitizeKeyFilename() = %q, still contains unsafe runes", got)
	}
}

func TestSanitizeKeyFilenameEmptyKey(t *testing.T) {
	t.Parallel()

	if got := sanitizeKeyFilename(""); got != "_" {
		t.Fatalf("sanitizeKeyFilename(\"\") = %q, want \"_\"", got)
	}
}

func TestSanitizeKeyFilenameReservedDeviceName(t *testing.T) {
	t.Parallel()

	got := sanitizeKeyFilename("con")
	if got == "con" {
		t.Fatal("reserved device name \"con\" must not pass through unchanged")
	}

	got = sanitizeKeyFilename("COM1.txt")
	if strings.EqualFold(got, "COM1.txt") {
		t.Fatal("reserved device name \"COM1.txt\" must not pass through unchanged")
	}
}

func TestSanitizeKeyFilenameTrimsTrailingDotsAndSpaces(t *testing.T) {
	t.Parallel()

	got := sanitizeKeyFilename("trailing.. ")
	if strings.HasSuffix(got, ".") || strings.HasSuffix(got, " ") {
		t.Fatalf("sanitizeKeyFilename() = %q, still has trailing dot/space", got)
	}
}

func TestSanitizeKeyFilenameShortensLongKeys(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", maxSanitizedKeyLen*2)
	got := sanitizeKeyFilename(long)

	if len(got) > maxSanitizedKeyLen {
		t.Fatalf("len(sanitizeKeyFilename(long)) = %d, want <= %d", len(got), maxSanitizedKeyLen)
	}
}

func TestSanitizeKeyFilenameDistinctLongKeysStayDistinct(t *testing.T) {
	t.Parallel()

	a := strings.Repeat("a", maxSanitizedKeyLen*2) + "-one"
	b := strings.Repeat("a", maxSanitizedKeyLen*2) + "-two"

	gotA := sanitizeKeyFilename(a)
	gotB := sanitizeKeyFilename(b)

	if gotA == gotB {
		t.Fatalf("two distinct long keys sanitized to the same filename %q", gotA)
	}
}

func TestUniqueFilenameAddsNumericSuffixOnCollision(t *testing.T) {
	t.Parallel()

	used := make(map[string]struct{})

	first := uniqueFilename("name.txt", used)
	second := uniqueFilename("name.txt", used)
	third := uniqueFilename("name.txt", used)

	if first != "name.txt" {
		t.Fatalf("first uniqueFilename() = %q, want \"name.txt\"", first)
	}

	if second == first || third == first || second == third {
		t.Fatalf("uniqueFilename() collisions not disambiguated: %q, %q, %q", first, second, third)
	}

	if !strings.HasSuffix(second, ".txt") || !strings.HasSuffix(third, ".txt") {
		t.Fatalf("uniqueFilename() suffixed names lost their extension: %q, %q", second, third)
	}
}

func TestUniqueFilenameIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	used := make(map[string]struct{})

	first := uniqueFilename("Name.txt", used)
	second := uniqueFilename("name.txt", used)

	if first == second {
		t.Fatalf("uniqueFilename() returned identical names for a case-only collision")
	}
}
