package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeHook creates dir/name/hook.json and returns the hook directory.
func writeHook(t *testing.T, dir string, m Manifest) string {
	t.Helper()
	hookDir := filepath.Join(dir, m.Name)
	require.NoError(t, os.MkdirAll(hookDir, 0o755))

	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(hookDir, ManifestName), data, 0o644))
	return hookDir
}

func TestManager_Discover(t *testing.T) {
	// Given: a directory with one hook
	dir := t.TempDir()
	hookDir := writeHook(t, dir, Manifest{
		Name:        "announce",
		Version:     "1.0.0",
		Description: "Speaks results",
		Executable:  "announce",
		Events:      []string{"game_over"},
	})

	// When: hooks are discovered
	m := NewManager(dir)
	require.NoError(t, m.Discover())

	// Then: the manifest and paths are loaded
	hooks := m.List()
	require.Len(t, hooks, 1)
	h := hooks[0]
	assert.Equal(t, "announce", h.Manifest.Name)
	assert.Equal(t, "1.0.0", h.Manifest.Version)
	assert.Equal(t, []string{"game_over"}, h.Manifest.Events)
	assert.Equal(t, hookDir, h.Path)
	assert.Equal(t, filepath.Join(hookDir, "announce"), h.Executable)
}

func TestManager_Discover_Skips(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, Manifest{Name: "good", Executable: "run"})

	// a directory without a manifest
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	// a broken manifest
	broken := filepath.Join(dir, "broken")
	require.NoError(t, os.MkdirAll(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, ManifestName), []byte("{nope"), 0o644))
	// a stray file
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0o644))

	m := NewManager(dir)
	require.NoError(t, m.Discover())

	hooks := m.List()
	require.Len(t, hooks, 1)
	assert.Equal(t, "good", hooks[0].Manifest.Name)
}

func TestManager_Discover_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope"))

	require.NoError(t, m.Discover())
	assert.Empty(t, m.List())
}

func TestManager_Discover_Rescan(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, Manifest{Name: "a", Executable: "run"})

	m := NewManager(dir)
	require.NoError(t, m.Discover())
	require.Len(t, m.List(), 1)

	writeHook(t, dir, Manifest{Name: "b", Executable: "run"})
	require.NoError(t, m.Discover())

	hooks := m.List()
	require.Len(t, hooks, 2)
	assert.Equal(t, "a", hooks[0].Manifest.Name)
	assert.Equal(t, "b", hooks[1].Manifest.Name)
}

func TestManager_Get(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, Manifest{Name: "announce", Executable: "run"})

	m := NewManager(dir)
	require.NoError(t, m.Discover())

	h, err := m.Get("announce")
	require.NoError(t, err)
	assert.Equal(t, "announce", h.Manifest.Name)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrHookNotFound)
	assert.Equal(t, dir, m.Dir())
}

func TestManager_Subscribers(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, Manifest{Name: "all", Executable: "run"})
	writeHook(t, dir, Manifest{Name: "moves", Executable: "run", Events: []string{"move"}})
	writeHook(t, dir, Manifest{Name: "star", Executable: "run", Events: []string{"*"}})
	writeHook(t, dir, Manifest{Name: "results", Executable: "run", Events: []string{"game_over", "mode_changed"}})

	m := NewManager(dir)
	require.NoError(t, m.Discover())

	names := func(hooks []*Hook) []string {
		var out []string
		for _, h := range hooks {
			out = append(out, h.Manifest.Name)
		}
		return out
	}

	assert.Equal(t, []string{"all", "moves", "star"}, names(m.Subscribers("move")))
	assert.Equal(t, []string{"all", "results", "star"}, names(m.Subscribers("game_over")))
	assert.Equal(t, []string{"all", "star"}, names(m.Subscribers("rejected")))
}
