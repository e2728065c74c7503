package prompt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

func version(id string) Version {
	return Version{
		ID:         id,
		ReleasedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Model:      "gemini-2.0-flash",
		Summary:    "summary for " + id,
		Template:   "template for " + id,
	}
}

func TestAppendFirstVersionBecomesCurrent(t *testing.T) {
	reg := NewRegistry()
	reg.Append(CategoryInterview, version("v1"))

	current, err := reg.Current(CategoryInterview)
	require.NoError(t, err)
	assert.Equal(t, "v1", current.ID)
}

func TestVersionsNewestFirst(t *testing.T) {
	reg := NewRegistry()
	reg.Append(CategoryInterview, version("v1"))
	reg.Append(CategoryInterview, version("v2"))
	reg.Append(CategoryInterview, version("v3"))

	versions, err := reg.Versions(CategoryInterview)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "v3", versions[0].ID)
	assert.Equal(t, "v1", versions[2].ID)

	// Appending keeps the existing current pointer.
	current, err := reg.Current(CategoryInterview)
	require.NoError(t, err)
	assert.Equal(t, "v1", current.ID)
}

func TestRollbackLeavesVersionListUnchanged(t *testing.T) {
	reg := NewRegistry()
	reg.Append(CategoryWriting, version("v1"))
	reg.Append(CategoryWriting, version("v2"))
	require.NoError(t, reg.SetCurrent(CategoryWriting, "v2"))

	before, err := reg.Versions(CategoryWriting)
	require.NoError(t, err)

	require.NoError(t, reg.SetCurrent(CategoryWriting, "v1"))

	after, err := reg.Versions(CategoryWriting)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	current, err := reg.Current(CategoryWriting)
	require.NoError(t, err)
	assert.Equal(t, "v1", current.ID)
}

func TestSetCurrentUnknownVersion(t *testing.T) {
	reg := NewRegistry()
	reg.Append(CategoryWriting, version("v1"))

	err := reg.SetCurrent(CategoryWriting, "missing")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestUnknownCategory(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Current(Category("unknown"))
	assert.True(t, appErrors.IsNotFound(err))
	_, err = reg.Versions(Category("unknown"))
	assert.True(t, appErrors.IsNotFound(err))
}

func TestStoreSetCurrentLeavesHeldSnapshotsAlone(t *testing.T) {
	reg := NewRegistry()
	reg.Append(CategoryWriting, version("v1"))
	reg.Append(CategoryWriting, version("v2"))
	store := NewStore(reg, zap.NewNop())

	snapshot := store.Registry()
	require.NoError(t, store.SetCurrent(CategoryWriting, "v2"))

	held, err := snapshot.Current(CategoryWriting)
	require.NoError(t, err)
	assert.Equal(t, "v1", held.ID)

	current, err := store.Registry().Current(CategoryWriting)
	require.NoError(t, err)
	assert.Equal(t, "v2", current.ID)
}

func TestStoreSetCurrentConcurrentWithReads(t *testing.T) {
	reg := NewRegistry()
	reg.Append(CategoryWriting, version("v1"))
	reg.Append(CategoryWriting, version("v2"))
	store := NewStore(reg, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			id := "v1"
			if i%2 == 0 {
				id = "v2"
			}
			assert.NoError(t, store.SetCurrent(CategoryWriting, id))
		}
	}()
	for {
		_, err := store.Registry().Current(CategoryWriting)
		assert.NoError(t, err)
		select {
		case <-done:
			return
		default:
		}
	}
}

func TestDefaultRegistryIsConsistent(t *testing.T) {
	reg := Default()
	for _, category := range []Category{CategoryInterview, CategoryWriting} {
		current, err := reg.Current(category)
		require.NoError(t, err)
		assert.NotEmpty(t, current.Template)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	data := `categories:
  interview:
    current: iv-2
    versions:
      - id: iv-2
        released_at: 2025-07-01T00:00:00Z
        model: gemini-2.0-flash
        summary: second
        template: "ask one question\nREADINESS: hint"
      - id: iv-1
        released_at: 2025-06-01T00:00:00Z
        model: gemini-2.0-flash
        summary: first
        template: ask
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)

	current, err := reg.Current(CategoryInterview)
	require.NoError(t, err)
	assert.Equal(t, "iv-2", current.ID)

	versions, err := reg.Versions(CategoryInterview)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestLoadFileDanglingCurrentFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	data := `categories:
  interview:
    current: missing
    versions:
      - id: iv-1
        released_at: 2025-06-01T00:00:00Z
        model: gemini-2.0-flash
        summary: first
        template: ask
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
