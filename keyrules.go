// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"fmt"

	"github.com/woozymasta/pathrules"
)

// keyMatcher gates which keys are offered to the configured Compressor at
// all (SPEC_FULL.md "Per-key compression gating"). It never changes the
// wire format or the per-value probe-byte rule (spec.md §4.2) — it only
// decides whether compression is attempted for a given set(key, ...).
type keyMatcher struct {
	matcher *pathrules.Matcher
}

// newKeyMatcher compiles rules. A nil matcher (no rules configured) means
// "no gating": Writer.shouldCompress treats it as "offer every key to the
// Compressor" rather than consulting match at all.
func newKeyMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*keyMatcher, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	if opts.DefaultAction == pathrules.ActionUnknown {
		opts.DefaultAction = pathrules.ActionExclude
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeyPattern, err)
	}

	return &keyMatcher{matcher: matcher}, nil
}

// match reports whether key is included by the compiled rules.
func (m *keyMatcher) match(key string) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	return m.matcher.Included(key, false)
}
