package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".ocrtables", "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ocr.model", "mistral-ocr-latest"))
	require.NoError(t, store.Set("pipeline.workers", 4))
	require.NoError(t, store.Set("ocr.include_images", true))
	require.NoError(t, store.Set("ocr.requests_per_second", 2.5))
	require.NoError(t, store.Set("output.formats", []string{"csv", "xlsx"}))

	assert.Equal(t, "mistral-ocr-latest", store.GetString("ocr.model"))
	assert.Equal(t, 4, store.GetInt("pipeline.workers"))
	assert.True(t, store.GetBool("ocr.include_images"))
	assert.InDelta(t, 2.5, store.GetFloat("ocr.requests_per_second"), 0.0001)
	assert.Equal(t, []string{"csv", "xlsx"}, store.GetStringSlice("output.formats"))

	// Wrong types fall back to zero values.
	assert.Equal(t, "", store.GetString("pipeline.workers"))
	assert.Equal(t, 0, store.GetInt("ocr.model"))
	assert.False(t, store.GetBool("ocr.model"))
	assert.Zero(t, store.GetFloat("ocr.model"))
	assert.Nil(t, store.GetStringSlice("ocr.model"))

	// Missing keys too.
	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_GetFloat_WidensIntegers(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	store.mu.Lock()
	store.data["ocr.requests_per_second"] = int64(3)
	store.mu.Unlock()

	assert.InDelta(t, 3.0, store.GetFloat("ocr.requests_per_second"), 0.0001)
}

func TestConfigStore_Persistence_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("ocr.api_key", "sk-test"))
	require.NoError(t, store.Set("ocr.requests_per_second", 1.5))
	require.NoError(t, store.Set("output.dir", "out"))
	require.NoError(t, store.Set("output.formats", []string{"csv"}))
	require.NoError(t, store.Set("pipeline.workers", 2))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[ocr]")
	assert.Contains(t, string(raw), "[output]")
	assert.NotContains(t, string(raw), `"ocr.api_key"`)

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", reloaded.GetString("ocr.api_key"))
	assert.InDelta(t, 1.5, reloaded.GetFloat("ocr.requests_per_second"), 0.0001)
	assert.Equal(t, "out", reloaded.GetString("output.dir"))
	assert.Equal(t, []string{"csv"}, reloaded.GetStringSlice("output.formats"))
	assert.Equal(t, 2, reloaded.GetInt("pipeline.workers"))
}

func TestConfigStore_ReadsHandWrittenTOML(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[ocr]
model = "mistral-ocr-2505"
requests_per_second = 2

[output]
dir = "/tmp/tables"
formats = ["xlsx"]
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "mistral-ocr-2505", store.GetString("ocr.model"))
	assert.InDelta(t, 2.0, store.GetFloat("ocr.requests_per_second"), 0.0001)
	assert.Equal(t, "/tmp/tables", store.GetString("output.dir"))
	assert.Equal(t, []string{"xlsx"}, store.GetStringSlice("output.formats"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ocr.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["server.addr"] = ":9000"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", reloaded.GetString("server.addr"))
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("output.dir", "out"))

	// Replace the file with a directory so the write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("output.dir", "elsewhere"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("channel", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Load_CommentOnlyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("ocr.model")
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("pipeline.workers", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("pipeline.workers")
		}()
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"ocr.model":   "m",
		"ocr.api_key": "k",
		"output.dir":  "out",
		"top":         1,
	})

	assert.Equal(t, map[string]any{"model": "m", "api_key": "k"}, nested["ocr"])
	assert.Equal(t, map[string]any{"dir": "out"}, nested["output"])
	assert.Equal(t, 1, nested["top"])
}

func TestNestMap_ConflictingPrefixKeepsFlatKey(t *testing.T) {
	nested := nestMap(map[string]any{
		"ocr":       "scalar",
		"ocr.model": "m",
	})

	assert.Equal(t, "scalar", nested["ocr"])
	assert.Equal(t, "m", nested["ocr.model"])
}
