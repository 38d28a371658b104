package core

import (
	"slices"
	"strings"
)

// NoteID identifies a note for the lifetime of a Store.
// IDs are assigned at creation and never reused, so a stale reference
// can never resolve to a different note.
type NoteID uint64

// Note is the central entity of the domain.
// Title and Body are always valid strings (possibly empty).
// Body holds raw Markdown; the core never parses it.
type Note struct {
	ID    NoteID
	Title string
	Body  string
	Tags  []string
	Color Color
}

// UntitledLabel is shown in place of a blank title.
const UntitledLabel = "Untitled page"

// DisplayTitle returns the title used for list rows and window titles.
func (n Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return UntitledLabel
	}
	return n.Title
}

// Clone returns a copy that shares no mutable state with n.
func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// HasTags reports whether every tag in required is present on the note.
// Matching is exact and case-sensitive.
func (n Note) HasTags(required []string) bool {
	for _, tag := range required {
		if !slices.Contains(n.Tags, tag) {
			return false
		}
	}
	return true
}

// Equal compares all fields, treating nil and empty tag lists alike.
func (n Note) Equal(other Note) bool {
	if n.ID != other.ID || n.Title != other.Title || n.Body != other.Body || n.Color != other.Color {
		return false
	}
	return slices.Equal(n.Tags, other.Tags) || (len(n.Tags) == 0 && len(other.Tags) == 0)
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Title *string
	Body  *string
	Tags  *[]string
	Color *Color
}

// WithTitle returns a copy of p that sets the title.
func (p Patch) WithTitle(title string) Patch {
	p.Title = &title
	return p
}

// WithBody returns a copy of p that sets the body.
func (p Patch) WithBody(body string) Patch {
	p.Body = &body
	return p
}

// WithTags returns a copy of p that replaces the tags.
func (p Patch) WithTags(tags []string) Patch {
	p.Tags = &tags
	return p
}

// WithColor returns a copy of p that sets the color.
func (p Patch) WithColor(c Color) Patch {
	p.Color = &c
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil && p.Tags == nil && p.Color == nil
}

func (p Patch) apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Body != nil {
		n.Body = *p.Body
	}
	if p.Tags != nil {
		n.Tags = NormalizeTags(*p.Tags)
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
}

// NormalizeTags trims whitespace, drops empty entries and collapses
// duplicates while keeping the first occurrence's position.
// The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ParseTags splits the editor's comma separated tag input.
func ParseTags(input string) []string {
	return NormalizeTags(strings.Split(input, ","))
}

// FormatTags is the inverse of ParseTags for display in an editor field.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
