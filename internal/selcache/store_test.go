package selcache_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x6d61/mcpick/internal/selcache"
)

const (
	project = "/home/user/src/app"
	configs = "/home/user/.claude/mcp-configs"
)

func TestKey_DeterministicAndDistinct(t *testing.T) {
	k1 := selcache.Key(project, configs)
	k2 := selcache.Key(project, configs)
	k3 := selcache.Key(project+"2", configs)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, 16)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := selcache.NewStore(t.TempDir())
	names := []string{"github", "playwright", "filesystem"}

	require.NoError(t, s.Save(project, configs, names))

	assert.Equal(t, names, s.Load(project, configs))
}

func TestStore_SaveDedupes(t *testing.T) {
	s := selcache.NewStore(t.TempDir())

	require.NoError(t, s.Save(project, configs, []string{"b", "a", "b", "a"}))

	assert.Equal(t, []string{"b", "a"}, s.Load(project, configs))
}

func TestStore_SaveEmptyDeletes(t *testing.T) {
	s := selcache.NewStore(t.TempDir())
	require.NoError(t, s.Save(project, configs, []string{"github"}))

	require.NoError(t, s.Save(project, configs, nil))

	assert.Empty(t, s.Load(project, configs))
	_, err := os.Stat(s.PathFor(project, configs))
	assert.True(t, os.IsNotExist(err), "cache file should be removed, stat err=%v", err)
}

func TestStore_SaveEmptyWithoutExistingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s := selcache.NewStore(dir)

	assert.NoError(t, s.Save(project, configs, []string{}))
	assert.NoError(t, s.Save(project, configs, nil))

	assert.NoDirExists(t, dir, "clearing a selection that was never saved must not create the cache dir")
}

func TestStore_SaveEmptyLeavesNoLockBehind(t *testing.T) {
	dir := t.TempDir()
	s := selcache.NewStore(dir)

	require.NoError(t, s.Save(project, configs, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_LoadMissingDoesNotCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s := selcache.NewStore(dir)

	assert.Nil(t, s.Load(project, configs))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LoadRejectsMismatchedPaths(t *testing.T) {
	s := selcache.NewStore(t.TempDir())
	path := s.PathFor(project, configs)
	writeJSON(t, path, map[string]any{
		"version":         1,
		"projectDir":      "/somewhere/else",
		"configDir":       configs,
		"lastModified":    "2024-01-01T00:00:00Z",
		"selectedConfigs": []string{"github"},
	})
	assert.Nil(t, s.Load(project, configs))

	writeJSON(t, path, map[string]any{
		"version":         1,
		"projectDir":      project,
		"configDir":       "/other/configs",
		"lastModified":    "2024-01-01T00:00:00Z",
		"selectedConfigs": []string{"github"},
	})
	assert.Nil(t, s.Load(project, configs))
}

func TestStore_LoadRejectsWrongVersion(t *testing.T) {
	s := selcache.NewStore(t.TempDir())
	writeJSON(t, s.PathFor(project, configs), map[string]any{
		"version":         2,
		"projectDir":      project,
		"configDir":       configs,
		"lastModified":    "2024-01-01T00:00:00Z",
		"selectedConfigs": []string{"github"},
	})

	assert.Nil(t, s.Load(project, configs))
}

func TestStore_LoadCorrupted(t *testing.T) {
	s := selcache.NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(s.PathFor(project, configs), []byte("{not json"), 0o600))

	assert.Nil(t, s.Load(project, configs))
}

func TestStore_RecordFormat(t *testing.T) {
	s := selcache.NewStore(t.TempDir())
	require.NoError(t, s.Save(project, configs, []string{"github"}))

	data, err := os.ReadFile(s.PathFor(project, configs))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 1, raw["version"])
	assert.Equal(t, project, raw["projectDir"])
	assert.Equal(t, configs, raw["configDir"])
	assert.NotEmpty(t, raw["lastModified"])
	assert.Equal(t, []any{"github"}, raw["selectedConfigs"])
}

func TestStore_ClearKeepsUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	s := selcache.NewStore(dir)
	require.NoError(t, s.Save(project, configs, []string{"a"}))
	require.NoError(t, s.Save(project+"/sub", configs, []string{"b"}))
	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))

	n, err := s.Clear()

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, unrelated)
	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_ClearMissingDir(t *testing.T) {
	s := selcache.NewStore(filepath.Join(t.TempDir(), "none"))

	n, err := s.Clear()

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_EntriesSkipsBrokenRecords(t *testing.T) {
	dir := t.TempDir()
	s := selcache.NewStore(dir)
	require.NoError(t, s.Save(project, configs, []string{"a"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "selection-deadbeefdeadbeef.json"), []byte("garbage"), 0o600))

	entries, err := s.Entries()

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, project, entries[0].Record.ProjectDir)
	assert.Equal(t, s.PathFor(project, configs), entries[0].Path)
}

func TestStore_RewriteAndRemove(t *testing.T) {
	s := selcache.NewStore(t.TempDir())
	require.NoError(t, s.Save(project, configs, []string{"a", "b", "c"}))
	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.Rewrite(entries[0], []string{"a", "c"}))
	assert.Equal(t, []string{"a", "c"}, s.Load(project, configs))

	require.NoError(t, s.Remove(entries[0].Path))
	assert.Nil(t, s.Load(project, configs))
}

func TestProjectDir_OutsideRepo(t *testing.T) {
	dir := t.TempDir()
	got := selcache.ProjectDir(context.Background(), dir)

	// TempDir はリポジトリ外なので cwd がそのまま返る（git がない環境でも同じ）
	assert.Equal(t, dir, got)
}

func TestDefaultDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG only applies on unix")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := selcache.DefaultDir()

	require.NoError(t, err)
	if filepath.Dir(dir) != xdg {
		// macOS は ~/Library/Caches を使う
		assert.Contains(t, dir, filepath.Join("Library", "Caches"))
		return
	}
	assert.Equal(t, filepath.Join(xdg, selcache.AppName), dir)
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}
