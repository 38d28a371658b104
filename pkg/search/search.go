// Package search answers which notes match a title query, a tag set and
// an optional color. It is a pure function over a store snapshot: no
// index is maintained and results always preserve store order.
package search

import (
	"strings"

	"github.com/aretw0/faitout/pkg/core"
)

// Snapshotter provides a detached copy of the notes to search.
// *core.Store satisfies it.
type Snapshotter interface {
	List() []core.Note
}

// Query selects notes. The zero value matches everything.
type Query struct {
	// Text is matched case-insensitively as a substring of the title.
	Text string
	// Tags lists tags that must all be present on a note.
	Tags []string
	// Color, when non-nil, restricts results to that color.
	Color *core.Color
}

// WithColor returns a copy of q restricted to c.
func (q Query) WithColor(c core.Color) Query {
	q.Color = &c
	return q
}

// IsEmpty reports whether q places no constraint.
func (q Query) IsEmpty() bool {
	return q.Text == "" && len(core.NormalizeTags(q.Tags)) == 0 && q.Color == nil
}

// Matcher is a compiled Query.
type Matcher struct {
	text  string
	tags  []string
	color *core.Color
}

// Compile normalizes q once so it can be applied to many notes.
func Compile(q Query) Matcher {
	m := Matcher{
		text: strings.ToLower(q.Text),
		tags: core.NormalizeTags(q.Tags),
	}
	if q.Color != nil {
		c := *q.Color
		m.color = &c
	}
	return m
}

// Match reports whether n satisfies every constraint.
func (m Matcher) Match(n core.Note) bool {
	if m.text != "" && !strings.Contains(strings.ToLower(n.Title), m.text) {
		return false
	}
	if len(m.tags) > 0 && !n.HasTags(m.tags) {
		return false
	}
	if m.color != nil && n.Color != *m.color {
		return false
	}
	return true
}

// Filter returns the notes matching q, in their original order.
func Filter(notes []core.Note, q Query) []core.Note {
	m := Compile(q)
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if m.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// Run snapshots src and filters it.
func Run(src Snapshotter, q Query) []core.Note {
	return Filter(src.List(), q)
}

// TagCount is a tag and the number of notes carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// Tags returns every distinct tag in first-seen order with its usage count.
func Tags(notes []core.Note) []TagCount {
	var out []TagCount
	pos := make(map[string]int)
	for _, n := range notes {
		for _, tag := range n.Tags {
			if i, ok := pos[tag]; ok {
				out[i].Count++
				continue
			}
			pos[tag] = len(out)
			out = append(out, TagCount{Tag: tag, Count: 1})
		}
	}
	return out
}
