// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package scene

import (
	"slices"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/id"
)

// TagsAlias is the alias of the tag table module.
const TagsAlias = "tags"

// TagsKey fetches the scene's tag table.
var TagsKey = element.NewKey[*Tags](TagsAlias)

// Tags attaches string labels to element identifiers. Labels are kept in
// insertion order without duplicates.
type Tags struct {
	element.Base
	byID map[id.ID][]string
}

// NewTags creates an empty table.
func NewTags() *Tags {
	return &Tags{byID: make(map[id.ID][]string)}
}

// Alias implements element.ModuleBehavior.
func (t *Tags) Alias() string { return TagsAlias }

// Capability implements element.ModuleBehavior.
func (t *Tags) Capability() any { return t }

// Set replaces the labels of eid.
func (t *Tags) Set(eid id.ID, tags []string) {
	deduped := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !slices.Contains(deduped, tag) {
			deduped = append(deduped, tag)
		}
	}
	t.byID[eid] = deduped
}

// Add appends tag to eid unless already present.
func (t *Tags) Add(eid id.ID, tag string) {
	if !slices.Contains(t.byID[eid], tag) {
		t.byID[eid] = append(t.byID[eid], tag)
	}
}

// Get returns a copy of the labels of eid.
func (t *Tags) Get(eid id.ID) ([]string, bool) {
	tags, ok := t.byID[eid]
	if !ok {
		return nil, false
	}
	return slices.Clone(tags), true
}

// Has reports whether eid carries tag.
func (t *Tags) Has(eid id.ID, tag string) bool {
	return slices.Contains(t.byID[eid], tag)
}

// Forget drops every label of eid.
func (t *Tags) Forget(eid id.ID) {
	delete(t.byID, eid)
}

// Find returns, in identifier order, every element with a label matching
// pattern. Patterns use '.' as the segment separator, so "enemy.*" matches
// "enemy.slime" but not "enemy.slime.big".
func (t *Tags) Find(pattern string) ([]id.ID, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, oops.
			Code("INVALID_PATTERN").
			With("pattern", pattern).
			Wrap(err)
	}

	var out []id.ID
	for eid, tags := range t.byID {
		if slices.ContainsFunc(tags, g.Match) {
			out = append(out, eid)
		}
	}
	slices.SortFunc(out, func(a, b id.ID) int { return a.Compare(b) })
	return out, nil
}
