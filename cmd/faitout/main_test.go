package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faitout/pkg/core"
)

// resetFlags restores every flag to its default. Cobra keeps flag state
// between Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_NoteLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "new", "--title", "My title", "--tags", "tag1, tag2", "--color", "violet", "--body", "# Hi")
	require.NoError(t, err)
	assert.Equal(t, "Note 1 created.\n", out)

	_, err = run(t, dir, "new", "--title", "Other")
	require.NoError(t, err)

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "1  My title  [tag1, tag2]  (Violet)\n2  Other\n", out)

	out, err = run(t, dir, "search", "my")
	require.NoError(t, err)
	assert.Equal(t, "1  My title  [tag1, tag2]  (Violet)\n", out)

	out, err = run(t, dir, "list", "--tag", "tag1", "--json")
	require.NoError(t, err)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "My title", listed[0]["title"])

	_, err = run(t, dir, "edit", "2", "--color", "Ocean")
	require.NoError(t, err)
	out, err = run(t, dir, "list", "--color", "ocean")
	require.NoError(t, err)
	assert.Equal(t, "2  Other  (Ocean)\n", out)

	out, err = run(t, dir, "show", "1", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "# Hi", out)

	out, err = run(t, dir, "tags")
	require.NoError(t, err)
	assert.Equal(t, "tag1\t1\ntag2\t1\n", out)

	_, err = run(t, dir, "delete", "1")
	require.NoError(t, err)

	// Ids are assigned in file order on each load: "Other" is now 1.
	_, err = run(t, dir, "delete", "2")
	assert.ErrorIs(t, err, core.ErrNotFound)
	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "1  Other  (Ocean)\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "notes.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Other"`)
	assert.NotContains(t, string(data), "My title")
}

func TestCLI_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "show", "7")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = run(t, dir, "edit", "abc")
	assert.Error(t, err)

	_, err = run(t, dir, "new", "--title", "  ")
	assert.ErrorIs(t, err, core.ErrValidation, "blank notes are not saved")

	_, err = run(t, dir, "list", "--color", "plaid")
	assert.ErrorIs(t, err, core.ErrValidation)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{"), 0o644))
	_, err = run(t, dir, "list")
	assert.ErrorIs(t, err, core.ErrCorruptData)
}

func TestCLI_Settings(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "settings", "--theme", "nord", "--size", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "theme:     Nord")
	assert.Contains(t, out, "font size: 48")

	out, err = run(t, dir, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "theme:     Nord", "settings persist across runs")

	out, err = run(t, dir, "settings", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Kanagawa Dragon")
	assert.Contains(t, out, "Violet")

	_, err = run(t, dir, "settings", "--font", "comic")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCLI_ExportImportStatusVersion(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "new", "--title", "Exported", "--body", "text")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "md")
	printed, err := run(t, dir, "export", out)
	require.NoError(t, err)
	assert.Contains(t, printed, "exported.md")

	other := t.TempDir()
	printed, err = run(t, other, "import", out)
	require.NoError(t, err)
	assert.Equal(t, "1 notes imported.\n", printed)

	printed, err = run(t, other, "status")
	require.NoError(t, err)
	var status map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(printed), &status))
	assert.Contains(t, status, "session")

	printed, err = run(t, dir, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(printed, "faitout version "))
}
