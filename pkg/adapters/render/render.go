// Package render turns note bodies into terminal previews.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/settings"
)

// DefaultWidth is the word-wrap column when none is configured.
const DefaultWidth = 80

// Config selects the preview appearance.
type Config struct {
	Theme settings.Theme
	Width int
	// Plain disables ANSI styling, for pipes and tests.
	Plain bool
}

// Renderer renders Markdown with a style matching the selected theme.
type Renderer struct {
	tr    *glamour.TermRenderer
	style string
}

// StyleFor maps a theme to the closest built-in terminal style.
func StyleFor(t settings.Theme) string {
	switch t {
	case settings.ThemeKanagawaDragon:
		return "dracula"
	case settings.ThemeSolarizedLight:
		return "light"
	default:
		return "dark"
	}
}

// New creates a renderer.
func New(cfg Config) (*Renderer, error) {
	style := StyleFor(cfg.Theme)
	if cfg.Plain {
		style = "notty"
	}
	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return &Renderer{tr: tr, style: style}, nil
}

// Style returns the glamour style in use.
func (r *Renderer) Style() string { return r.style }

// Markdown renders raw Markdown.
func (r *Renderer) Markdown(src string) (string, error) {
	out, err := r.tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// Note renders a note as a document: its title as a heading, a tag and
// color line, then the body.
func (r *Renderer) Note(n core.Note) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.DisplayTitle())

	var meta []string
	if len(n.Tags) > 0 {
		meta = append(meta, "tags: "+core.FormatTags(n.Tags))
	}
	if n.Color != core.ColorDefault {
		meta = append(meta, "color: "+n.Color.String())
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))
	}
	b.WriteString(n.Body)
	return r.Markdown(b.String())
}
