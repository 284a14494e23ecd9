package model

import (
	"slices"
	"strings"
)

// keySeparator joins district names into a cache key. The unit separator
// cannot appear in a district name read from CSV or GeoJSON text.
const keySeparator = "\x1f"

// Selection is the set of district names currently toggled on. Order and
// duplicates are whatever the caller sent.
type Selection []string

// Unique returns the selection with duplicates removed, keeping the first
// occurrence of each name in input order.
func (s Selection) Unique() Selection {
	seen := make(map[string]struct{}, len(s))
	out := make(Selection, 0, len(s))
	for _, name := range s {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Normalize returns a sorted, deduplicated copy of the selection.
func (s Selection) Normalize() Selection {
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}

// Key returns the cache key of the selection. Any permutation of the same
// names, with or without duplicates, yields the same key.
func (s Selection) Key() string {
	return strings.Join(s.Normalize(), keySeparator)
}

// Set returns the selection as a membership set.
func (s Selection) Set() map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, name := range s {
		set[name] = struct{}{}
	}
	return set
}
