package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/settings"
)

// Serializer defines how the notes file is read and written.
type Serializer interface {
	// Parse reads a complete notes document from r.
	Parse(r io.Reader) ([]core.Note, error)
	// Serialize converts the notes to bytes.
	Serialize(notes []core.Note) ([]byte, error)
}

// --- Notes (JSON) ---

// noteRecord is the on-disk shape of a note. Every field is always written.
type noteRecord struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
	Color string   `json:"color"`
}

// notesDocument is the top-level object. Entries is a pointer so that a
// missing or null "entries" key can be told apart from an empty list.
type notesDocument struct {
	Entries *[]noteRecord `json:"entries"`
}

// JSONSerializer handles the notes file.
type JSONSerializer struct {
	// Strict rejects unknown color names as corrupt data instead of
	// falling back to the default color.
	Strict bool
}

// NewJSONSerializer creates a new notes serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

// Parse decodes a notes document. Structural problems are reported as
// core.ErrCorruptData. Unknown fields are ignored and an absent tags
// array decodes as an empty tag set.
func (s *JSONSerializer) Parse(r io.Reader) ([]core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrIO, err)
	}

	var doc notesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %w", core.ErrCorruptData, err)
	}
	if doc.Entries == nil {
		return nil, fmt.Errorf("%w: missing \"entries\" list", core.ErrCorruptData)
	}

	notes := make([]core.Note, 0, len(*doc.Entries))
	for i, rec := range *doc.Entries {
		color, ok := core.ParseColor(rec.Color)
		if !ok && rec.Color != "" && s.Strict {
			return nil, fmt.Errorf("%w: entry %d: unknown color %q", core.ErrCorruptData, i, rec.Color)
		}
		notes = append(notes, core.Note{
			Title: rec.Title,
			Body:  rec.Body,
			Tags:  core.NormalizeTags(rec.Tags),
			Color: color,
		})
	}
	return notes, nil
}

// Serialize produces a deterministic, indented document.
func (s *JSONSerializer) Serialize(notes []core.Note) ([]byte, error) {
	records := make([]noteRecord, 0, len(notes))
	for _, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		records = append(records, noteRecord{
			Title: n.Title,
			Body:  n.Body,
			Tags:  tags,
			Color: n.Color.String(),
		})
	}
	return marshal(notesDocument{Entries: &records})
}

// --- Settings (JSON) ---

type settingsRecord struct {
	SelectedTheme *string `json:"selected_theme"`
	SelectedFont  *string `json:"selected_font"`
	FontSize      *int    `json:"font_size"`
}

// ParseSettings decodes a settings document. Absent fields and unknown
// enum names take their defaults; the font size is clamped. Only an
// unparseable document is an error.
func ParseSettings(r io.Reader) (settings.Settings, error) {
	out := settings.Defaults()

	data, err := io.ReadAll(r)
	if err != nil {
		return out, fmt.Errorf("%w: %w", core.ErrIO, err)
	}

	var rec settingsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return out, fmt.Errorf("%w: invalid settings json: %w", core.ErrCorruptData, err)
	}
	if rec.SelectedTheme != nil {
		out.Theme, _ = settings.ParseTheme(*rec.SelectedTheme)
	}
	if rec.SelectedFont != nil {
		out.Font, _ = settings.ParseFont(*rec.SelectedFont)
	}
	if rec.FontSize != nil {
		out.FontSize = settings.ClampFontSize(*rec.FontSize)
	}
	return out, nil
}

// SerializeSettings writes every field explicitly.
func SerializeSettings(s settings.Settings) ([]byte, error) {
	theme := s.Theme.Name()
	font := s.Font.Name()
	size := settings.ClampFontSize(s.FontSize)
	return marshal(settingsRecord{
		SelectedTheme: &theme,
		SelectedFont:  &font,
		FontSize:      &size,
	})
}

// marshal indents with two spaces and keeps Markdown readable by not
// escaping <, > and &.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
