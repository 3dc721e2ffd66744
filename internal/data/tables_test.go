package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	assert.True(t, tables.IsWalkable(1), "dirt")
	assert.True(t, tables.IsWalkable(3), "grass")
	assert.False(t, tables.IsWalkable(7), "nonwalk")
	assert.False(t, tables.IsWalkable(999), "unknown material")

	r, ok := tables.PerceptionRange(DefaultPerceptionRange)
	require.True(t, ok)
	assert.Equal(t, 20.0, r.Sight)

	style, ok := tables.CameraStyle("missing")
	require.True(t, ok)
	assert.Equal(t, "default", style.Name)
}

func TestParseTables_DuplicateSurface(t *testing.T) {
	_, err := ParseTables([]byte("surfaces:\n  - {id: 1}\n  - {id: 1}\n"))
	assert.Error(t, err)
}

func TestLoadTables(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		tables, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.NotEmpty(t, tables.Surfaces)
	})

	t.Run("custom file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		require.NoError(t, os.WriteFile(path, []byte("surfaces:\n  - {id: 42, label: ice, walk: true}\n"), 0o600))

		tables, err := LoadTables(path)
		require.NoError(t, err)
		assert.True(t, tables.IsWalkable(42))
		assert.False(t, tables.IsWalkable(1))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		require.NoError(t, os.WriteFile(path, []byte("surfaces: [\n"), 0o600))
		_, err := LoadTables(path)
		assert.Error(t, err)
	})
}
