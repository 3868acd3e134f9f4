// Package search evaluates filters against the catalog.
package search

import (
	"fmt"
	"strings"

	"github.com/blacktop/ipa-archive/pkg/catalog"
)

// MatchMode selects how the bundle id filter is compared.
type MatchMode int

const (
	// MatchSubstring matches the bundle filter anywhere in the bundle id.
	MatchSubstring MatchMode = iota
	// MatchPrefix only matches bundle ids starting with the filter.
	MatchPrefix
)

func (m MatchMode) String() string {
	switch m {
	case MatchSubstring:
		return "substring"
	case MatchPrefix:
		return "prefix"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode parses "substring" or "prefix"; the empty string is substring.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return MatchSubstring, nil
	case "prefix":
		return MatchPrefix, nil
	}
	return MatchSubstring, fmt.Errorf("invalid bundle match mode %q (expected substring or prefix)", s)
}

// Filter is the set of search parameters for one query.
// The zero value matches every record.
type Filter struct {
	// Term is matched case-insensitively against title, bundle id and path.
	Term string
	// BundleID is matched case-insensitively against the bundle id using BundleMatch.
	BundleID    string
	BundleMatch MatchMode
	// MinOS and MaxOS are inclusive version bounds, e.g. "9.3".
	MinOS string
	MaxOS string
	// Platform restricts results to one device family; PlatformAny disables it.
	Platform catalog.Platform
	// MinKey is the smallest record key to include.
	MinKey int
	// Unique keeps only the first record per bundle id.
	Unique bool
}

// IsZero reports whether the filter has no active criteria.
func (f Filter) IsZero() bool {
	return f.Term == "" && strings.TrimSpace(f.BundleID) == "" && f.MinOS == "" && f.MaxOS == "" &&
		f.Platform == catalog.PlatformAny && f.MinKey == 0 && !f.Unique
}

// criteria is a filter with all inputs normalized once per query.
type criteria struct {
	term   string
	bundle string
	mode   MatchMode
	minOS  catalog.Version
	maxOS  catalog.Version
	mask   catalog.PlatformMask
	minKey int
	unique bool
}

func (f Filter) compile() criteria {
	c := criteria{
		term:   strings.ToLower(f.Term),
		bundle: strings.ToLower(strings.TrimSpace(f.BundleID)),
		mode:   f.BundleMatch,
		minOS:  0,
		maxOS:  catalog.MaxVersion,
		mask:   f.Platform.Mask(),
		minKey: f.MinKey,
		unique: f.Unique,
	}
	if f.MinOS != "" {
		c.minOS = catalog.ParseVersion(f.MinOS)
	}
	if f.MaxOS != "" {
		c.maxOS = catalog.ParseVersion(f.MaxOS)
	}
	return c
}

// match applies every predicate except de-duplication.
func (c *criteria) match(r *catalog.Record) bool {
	// an unknown minimum OS satisfies any range
	if r.MinOS != 0 && (r.MinOS < c.minOS || r.MinOS > c.maxOS) {
		return false
	}
	if r.Platforms&c.mask == 0 {
		return false
	}
	if r.Key < c.minKey {
		return false
	}
	if c.bundle != "" && !c.matchBundle(strings.ToLower(r.BundleID)) {
		return false
	}
	if c.term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), c.term) ||
		strings.Contains(strings.ToLower(r.BundleID), c.term) ||
		strings.Contains(strings.ToLower(r.Path), c.term)
}

func (c *criteria) matchBundle(bundleID string) bool {
	if c.mode == MatchPrefix {
		return strings.HasPrefix(bundleID, c.bundle)
	}
	return strings.Contains(bundleID, c.bundle)
}
