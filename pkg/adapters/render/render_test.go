package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faitout/pkg/adapters/render"
	"github.com/aretw0/faitout/pkg/core"
	"github.com/aretw0/faitout/pkg/settings"
)

func TestStyleFor(t *testing.T) {
	assert.Equal(t, "dracula", render.StyleFor(settings.ThemeKanagawaDragon))
	assert.Equal(t, "light", render.StyleFor(settings.ThemeSolarizedLight))
	assert.Equal(t, "dark", render.StyleFor(settings.ThemeNord))
}

func TestRenderer_Note(t *testing.T) {
	r, err := render.New(render.Config{Plain: true, Width: 60})
	require.NoError(t, err)
	assert.Equal(t, "notty", r.Style())

	out, err := r.Note(core.Note{
		Title: "",
		Body:  "Some **bold** text",
		Tags:  []string{"work", "ideas"},
		Color: core.ColorViolet,
	})
	require.NoError(t, err)
	assert.Contains(t, out, core.UntitledLabel)
	assert.Contains(t, out, "work, ideas")
	assert.Contains(t, out, "Violet")
	assert.Contains(t, out, "bold")
}
