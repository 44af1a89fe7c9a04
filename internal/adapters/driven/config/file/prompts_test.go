package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/parsers/ai"
)

func TestNewPromptStore_Dirs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	home := t.TempDir()
	t.Setenv(HomeEnv, home)
	store, err = NewPromptStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "prompts"), store.Dir())
}

func TestPromptStore_WritesDefaultsOnFirstLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "constructor does no I/O")

	got, err := store.Load(driven.PromptInventoryExtract)
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultExtractPrompt, got)

	for _, name := range []string{"inventory_system.txt", "inventory_extract.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestPromptStore_CustomPromptAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, driven.PromptInventorySystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte("  Responde solo JSON.\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	got, err := store.Load(driven.PromptInventorySystem)
	require.NoError(t, err)
	assert.Equal(t, "Responde solo JSON.", got)

	require.NoError(t, os.WriteFile(path, []byte("Solo JSON, por favor."), 0600))
	got, err = store.Load(driven.PromptInventorySystem)
	require.NoError(t, err)
	assert.Equal(t, "Responde solo JSON.", got, "cached until reload")

	store.Reload()
	got, err = store.Load(driven.PromptInventorySystem)
	require.NoError(t, err)
	assert.Equal(t, "Solo JSON, por favor.", got)
}

func TestPromptStore_EmptyOrMissingFallsBack(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptInventorySystem)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptInventorySystem+".txt"), nil, 0600))
	store.Reload()

	got, err := store.Load(driven.PromptInventorySystem)
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultSystemPrompt, got)

	_, err = store.Load("unknown_prompt")
	assert.Error(t, err)
}

func TestPromptStore_InitFailureUsesDefaults(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	store, err := NewPromptStore(filepath.Join(blocker, "prompts"))
	require.NoError(t, err)

	got, err := store.Load(driven.PromptInventoryExtract)
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultExtractPrompt, got)

	_, err = store.Load("unknown_prompt")
	assert.ErrorContains(t, err, "init failed")
}

func TestPromptStore_ConcurrentLoad(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%5 == 0 {
				store.Reload()
			}
			got, err := store.Load(driven.PromptInventoryExtract)
			assert.NoError(t, err)
			assert.NotEmpty(t, got)
		}()
	}
	wg.Wait()
}

func TestPromptStore_RejectsBrokenOverride(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no verb", "Extrae los productos.", ai.DefaultExtractPrompt},
		{"two verbs", "%s y %s", ai.DefaultExtractPrompt},
		{"one verb", "Productos:\n%s", "Productos:\n%s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, driven.PromptInventoryExtract+".txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			store, err := NewPromptStore(dir)
			require.NoError(t, err)
			got, err := store.Load(driven.PromptInventoryExtract)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptStore_SeedKeepsEdits(t *testing.T) {
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("notas de la clínica"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	_, err = store.Load(driven.PromptInventorySystem)
	require.NoError(t, err)

	data, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Equal(t, "notas de la clínica", string(data))
}
