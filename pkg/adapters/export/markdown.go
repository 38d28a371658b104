// Package export writes notes as Markdown files with YAML front matter
// and reads them back.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/faitout/pkg/adapters/fs"
	"github.com/aretw0/faitout/pkg/core"
)

// frontMatter is the YAML header of an exported note.
type frontMatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
	Color string   `yaml:"color"`
}

// Marshal renders one note as Markdown with front matter.
func Marshal(n core.Note) ([]byte, error) {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(frontMatter{Title: n.Title, Tags: tags, Color: n.Color.String()}); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.WriteString(n.Body)
	return buf.Bytes(), nil
}

// Unmarshal parses a Markdown document. Without front matter the whole
// file is the body and the title is taken from the fallback.
func Unmarshal(r io.Reader, fallbackTitle string) (core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Note{}, err
	}

	n := core.Note{Title: fallbackTitle, Tags: []string{}}
	header, body, found, err := splitFrontMatter(data)
	if err != nil {
		return core.Note{}, err
	}
	if !found {
		n.Body = string(data)
		return n, nil
	}

	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return core.Note{}, fmt.Errorf("failed to parse front matter: %w", err)
	}

	n.Body = string(body)
	if fm.Title != "" {
		n.Title = fm.Title
	}
	n.Tags = core.NormalizeTags(fm.Tags)
	n.Color, _ = core.ParseColor(fm.Color)
	return n, nil
}

// splitFrontMatter separates the YAML header from the body. The header
// opens with a "---" first line and closes at the next line that is
// exactly "---".
func splitFrontMatter(data []byte) (header, body []byte, found bool, err error) {
	line, rest, ok := bytes.Cut(data, []byte("\n"))
	if !ok || string(bytes.TrimSuffix(line, []byte("\r"))) != "---" {
		return nil, nil, false, nil
	}

	start := len(data) - len(rest)
	for off := start; off < len(data); {
		end := bytes.IndexByte(data[off:], '\n')
		next := len(data)
		if end >= 0 {
			next = off + end + 1
		}
		if string(bytes.TrimRight(data[off:next], "\r\n")) == "---" {
			return data[start:off], data[next:], true, nil
		}
		off = next
	}
	return nil, nil, false, errors.New("front matter started but no closing delimiter found")
}

// Slug turns a title into a file name stem.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// Result lists the files written by Export.
type Result struct {
	Files []string
}

// Export writes each note to dir as <slug>.md. A name already used by this
// export or already present in dir gets the first free numeric suffix, so
// existing files are never replaced. Files are written atomically.
func Export(ctx context.Context, dir string, notes []core.Note) (Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("%w: %w", core.ErrIO, err)
	}

	var res Result
	taken := make(map[string]bool, len(notes))
	for _, n := range notes {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path, err := freeName(dir, Slug(n.Title), taken)
		if err != nil {
			return res, err
		}
		taken[path] = true

		data, err := Marshal(n)
		if err != nil {
			return res, fmt.Errorf("note %d: %w", n.ID, err)
		}
		if err := fs.WriteFileAtomic(path, data, 0o644); err != nil {
			return res, fmt.Errorf("%w: %w", core.ErrIO, err)
		}
		res.Files = append(res.Files, path)
	}
	return res, nil
}

// freeName returns the first of stem.md, stem-2.md, stem-3.md... that is
// neither taken nor present in dir.
func freeName(dir, stem string, taken map[string]bool) (string, error) {
	for k := 1; ; k++ {
		name := stem
		if k > 1 {
			name += "-" + strconv.Itoa(k)
		}
		path := filepath.Join(dir, name+".md")
		if taken[path] {
			continue
		}
		_, err := os.Lstat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", core.ErrIO, err)
		}
	}
}

// Import reads every *.md file in dir, in name order.
func Import(ctx context.Context, dir string) ([]core.Note, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}

	notes := make([]core.Note, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrIO, err)
		}
		n, err := Unmarshal(f, strings.TrimSuffix(filepath.Base(path), ".md"))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}
