package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
	assert.NoError(t, store.Save())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("ocr.model", "mistral-ocr-latest"))
	require.NoError(t, store.Set("ocr.model", "mistral-ocr-2505"))

	val, ok := store.Get("ocr.model")
	assert.True(t, ok)
	assert.Equal(t, "mistral-ocr-2505", val)

	_, ok = store.Get("ocr.api_key")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("output.dir", "out"))
	require.NoError(t, store.Set("pipeline.workers", int64(3)))
	require.NoError(t, store.Set("output.preview_rows", 7.0))
	require.NoError(t, store.Set("ocr.requests_per_second", 2))
	require.NoError(t, store.Set("ocr.include_images", true))
	require.NoError(t, store.Set("output.formats", []any{"csv", 1, "xlsx"}))

	assert.Equal(t, "out", store.GetString("output.dir"))
	assert.Equal(t, 3, store.GetInt("pipeline.workers"))
	assert.Equal(t, 7, store.GetInt("output.preview_rows"))
	assert.InDelta(t, 2.0, store.GetFloat("ocr.requests_per_second"), 0.0001)
	assert.True(t, store.GetBool("ocr.include_images"))
	assert.Equal(t, []string{"csv", "xlsx"}, store.GetStringSlice("output.formats"))
}

func TestConfigStore_TypedGetters_WrongTypeOrMissing(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("output.dir", "out"))

	assert.Equal(t, 0, store.GetInt("output.dir"))
	assert.Zero(t, store.GetFloat("output.dir"))
	assert.False(t, store.GetBool("output.dir"))
	assert.Nil(t, store.GetStringSlice("output.dir"))

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_InstancesAreIsolated(t *testing.T) {
	a := NewConfigStore()
	b := NewConfigStore()

	require.NoError(t, a.Set("server.addr", ":8000"))

	_, ok := b.Get("server.addr")
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("pipeline.workers", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("pipeline.workers")
			_ = store.GetFloat("ocr.requests_per_second")
		}()
	}
	wg.Wait()

	_, ok := store.Get("pipeline.workers")
	assert.True(t, ok)
}
