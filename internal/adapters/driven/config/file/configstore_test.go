package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "no file until first write")
}

func TestNewConfigStore_HomeEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestHomeDir_Default(t *testing.T) {
	t.Setenv(HomeEnv, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	got, err := HomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".vetdesk"), got)
}

func TestConfigStore_DecodedTypes(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SetMany(map[string]any{
		"llm.provider":      "ollama",
		"server.burst":      20,
		"server.rate_limit": 7.5,
		"calendar.enabled":  true,
	}))

	// After a round trip through TOML integers come back as int64.
	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	for key, want := range map[string]any{
		"llm.provider":      "ollama",
		"server.burst":      int64(20),
		"server.rate_limit": 7.5,
		"calendar.enabled":  true,
	} {
		got, ok := reopened.Get(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestConfigStore_FailedWriteRollsBack(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.provider", "ollama"))

	// A directory in place of the file makes the write fail.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.SetMany(map[string]any{"llm.provider": "openai", "llm.model": "gpt-4o"}))
	got, _ := store.Get("llm.provider")
	assert.Equal(t, "ollama", got)
	_, ok := store.Get("llm.model")
	assert.False(t, ok)

	assert.Error(t, store.Unset("llm.provider"))
	_, ok = store.Get("llm.provider")
	assert.True(t, ok)
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("llm.api_key", "sk-test"))
	require.NoError(t, store.Set("scheduler.no_show_sweep.interval", "5m"))
	require.NoError(t, store.Set("server.burst", 40))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]")
	assert.Contains(t, string(data), "[scheduler.no_show_sweep]")

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	interval, _ := reopened.Get("scheduler.no_show_sweep.interval")
	assert.Equal(t, "5m", interval)
	key, _ := reopened.Get("llm.api_key")
	assert.Equal(t, "sk-test", key)
}

func TestConfigStore_Unset(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("calendar.refresh_token", "rt"))
	require.NoError(t, store.Unset("calendar.refresh_token"))
	require.NoError(t, store.Unset("never.set"))

	_, ok := store.Get("calendar.refresh_token")
	assert.False(t, ok)

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok = reopened.Get("calendar.refresh_token")
	assert.False(t, ok)
}

func TestConfigStore_LoadHandWritten(t *testing.T) {
	dir := t.TempDir()
	content := `
[storage]
driver = "postgres"
dsn = "postgres://vet@db/vetdesk"

[import]
watch_dir = "/srv/drops"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	driver, _ := store.Get("storage.driver")
	assert.Equal(t, "postgres", driver)
	watchDir, _ := store.Get("import.watch_dir")
	assert.Equal(t, "/srv/drops", watchDir)
}

func TestConfigStore_LoadInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.ErrorContains(t, err, "parsing")
}

func TestFlattenMap(t *testing.T) {
	got := flattenMap(map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}, "")
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, got)
}

func TestNestMap(t *testing.T) {
	got := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
	})
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}, got)
}
