package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/aretw0/faitout/pkg/core"
)

type titles []core.Note

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }

// Suggest ranks notes whose titles fuzzily match pattern, best first.
// It backs "did you mean" hints when Filter returns nothing; it is not a
// substitute for Filter, whose results keep store order.
func Suggest(notes []core.Note, pattern string, limit int) []core.Note {
	if pattern == "" {
		return nil
	}
	matches := fuzzy.FindFrom(pattern, titles(notes))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]core.Note, 0, len(matches))
	for _, m := range matches {
		out = append(out, notes[m.Index])
	}
	return out
}
