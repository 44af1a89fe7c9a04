package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetMany(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("llm.provider", "ollama"))

	require.NoError(t, store.SetMany(map[string]any{
		"llm.provider": "openai",
		"server.burst": int64(20),
	}))

	assert.Equal(t, map[string]any{"llm.provider": "openai", "server.burst": int64(20)}, store.Snapshot())
	val, ok := store.Get("server.burst")
	assert.True(t, ok)
	assert.Equal(t, int64(20), val)
}

func TestConfigStore_Unset(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("calendar.refresh_token", "tok"))
	require.NoError(t, store.Unset("calendar.refresh_token"))
	require.NoError(t, store.Unset("never.set"))

	_, ok := store.Get("calendar.refresh_token")
	assert.False(t, ok)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SnapshotIsACopy(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("a", 1))

	snap := store.Snapshot()
	snap["a"] = 2

	val, _ := store.Get("a")
	assert.Equal(t, 1, val)
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.SetMany(map[string]any{"server.burst": n, fmt.Sprintf("k.%d", n): true})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Get("server.burst")
		}()
	}
	wg.Wait()

	assert.Len(t, store.Snapshot(), 51)
}
