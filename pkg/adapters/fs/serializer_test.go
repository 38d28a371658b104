package fs_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faitout/pkg/adapters/fs"
	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/settings"
)

func parse(t *testing.T, s *fs.JSONSerializer, input string) ([]core.Note, error) {
	t.Helper()
	return s.Parse(strings.NewReader(input))
}

func TestJSONSerializer_RoundTrip(t *testing.T) {
	s := fs.NewJSONSerializer(false)
	store := core.NewStore(
		core.Note{Title: "My title", Body: "# Heading\n\n<b>bold</b> & more", Tags: []string{"tag1", "tag2"}, Color: core.ColorViolet},
		core.Note{Title: "", Body: "", Tags: nil, Color: core.ColorDefault},
		core.Note{Title: "unicode ✓", Body: "line1\nline2", Tags: []string{"é"}, Color: core.ColorAmber},
	)
	original := store.List()

	data, err := s.Serialize(original)
	require.NoError(t, err)

	decoded, err := s.Parse(bytes.NewReader(data))
	require.NoError(t, err)

	reloaded := core.NewStore(decoded...).List()
	require.Len(t, reloaded, len(original))
	for i := range original {
		assert.True(t, original[i].Equal(reloaded[i]), "note %d: %+v != %+v", i, original[i], reloaded[i])
	}
}

func TestJSONSerializer_EmitsEveryField(t *testing.T) {
	s := fs.NewJSONSerializer(false)
	data, err := s.Serialize([]core.Note{{}})
	require.NoError(t, err)

	out := string(data)
	for _, key := range []string{`"title": ""`, `"body": ""`, `"tags": []`, `"color": "Default"`} {
		assert.Contains(t, out, key)
	}
}

func TestJSONSerializer_IsDeterministic(t *testing.T) {
	s := fs.NewJSONSerializer(false)
	notes := []core.Note{{Title: "a", Tags: []string{"x", "y"}, Color: core.ColorOcean}}
	first, err := s.Serialize(notes)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Serialize(notes)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestJSONSerializer_Parse(t *testing.T) {
	s := fs.NewJSONSerializer(false)

	t.Run("Empty Entries Is Valid", func(t *testing.T) {
		notes, err := parse(t, s, `{"entries": []}`)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("Missing Entries Is Corrupt", func(t *testing.T) {
		_, err := parse(t, s, `{"notes": []}`)
		assert.ErrorIs(t, err, core.ErrCorruptData)
	})

	t.Run("Null Entries Is Corrupt", func(t *testing.T) {
		_, err := parse(t, s, `{"entries": null}`)
		assert.ErrorIs(t, err, core.ErrCorruptData)
	})

	t.Run("Malformed Is Corrupt", func(t *testing.T) {
		for _, input := range []string{``, `{"entries": [`, `[]`, `"entries"`, `{"entries": [{"title": 5}]}`} {
			_, err := parse(t, s, input)
			assert.ErrorIs(t, err, core.ErrCorruptData, "input %q", input)
		}
	})

	t.Run("Unknown Fields Ignored And Tags Defaulted", func(t *testing.T) {
		notes, err := parse(t, s, `{"version": 2, "entries": [{"title": "t", "body": "b", "color": "Ocean", "pinned": true}]}`)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "t", notes[0].Title)
		assert.Equal(t, []string{}, notes[0].Tags)
		assert.Equal(t, core.ColorOcean, notes[0].Color)
	})

	t.Run("Unknown Color Falls Back", func(t *testing.T) {
		notes, err := parse(t, s, `{"entries": [{"title": "t", "body": "", "tags": [], "color": "Magenta"}]}`)
		require.NoError(t, err)
		assert.Equal(t, core.ColorDefault, notes[0].Color)
	})

	t.Run("Duplicate Tags Collapsed", func(t *testing.T) {
		notes, err := parse(t, s, `{"entries": [{"tags": ["a", "a", " b "]}]}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, notes[0].Tags)
	})
}

func TestJSONSerializer_StrictColor(t *testing.T) {
	s := fs.NewJSONSerializer(true)
	_, err := parse(t, s, `{"entries": [{"color": "Magenta"}]}`)
	assert.ErrorIs(t, err, core.ErrCorruptData)

	notes, err := parse(t, s, `{"entries": [{"title": "no color"}]}`)
	require.NoError(t, err)
	assert.Equal(t, core.ColorDefault, notes[0].Color)
}

func TestSettingsSerialization(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		in := settings.Settings{Theme: settings.ThemeSolarizedDark, Font: settings.FontSerif, FontSize: 20}
		data, err := fs.SerializeSettings(in)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"selected_theme": "SolarizedDark"`)

		out, err := fs.ParseSettings(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Absent Fields Default", func(t *testing.T) {
		out, err := fs.ParseSettings(strings.NewReader(`{"selected_font": "Monospace"}`))
		require.NoError(t, err)
		want := settings.Defaults()
		want.Font = settings.FontMonospace
		assert.Equal(t, want, out)
	})

	t.Run("Clamps And Falls Back", func(t *testing.T) {
		out, err := fs.ParseSettings(strings.NewReader(`{"selected_theme": "Dracula", "font_size": 99}`))
		require.NoError(t, err)
		assert.Equal(t, settings.ThemeKanagawaDragon, out.Theme)
		assert.Equal(t, settings.MaxFontSize, out.FontSize)
	})

	t.Run("Garbage Is Corrupt", func(t *testing.T) {
		for _, in := range []string{
			`not json`,
			`{"font_size": 20}{"font_size": 30}`,
			`{"font_size": 20} trailing`,
			`{"font_size": 20`,
		} {
			out, err := fs.ParseSettings(strings.NewReader(in))
			assert.ErrorIs(t, err, core.ErrCorruptData, in)
			assert.Equal(t, settings.Defaults(), out, in)
		}
	})
}
