package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/config"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{})
	return NewManager(paths), paths
}

func TestResolvePath(t *testing.T) {
	m, paths := newTestManager(t)

	tests := []struct {
		in   string
		want string
	}{
		{"students-data.json", filepath.Join(paths.DataDir, "students-data.json")},
		{"exports/Backup-01-02-2024.xlsx", filepath.Join(paths.ExportsDir, "Backup-01-02-2024.xlsx")},
		{"logs/bedelia.log", filepath.Join(paths.LogsDir, "bedelia.log")},
		{"/abs/file.csv", "/abs/file.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.resolvePath(tt.in), tt.in)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	m, paths := newTestManager(t)

	require.NoError(t, m.WriteFileAtomic("class-sessions.json", []byte(`[1]`)))
	require.NoError(t, m.WriteFileAtomic("class-sessions.json", []byte(`[1,2]`)))

	data, err := m.ReadFile("class-sessions.json")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	entries, err := os.ReadDir(paths.DataDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileExistsAndRead(t *testing.T) {
	m, _ := newTestManager(t)

	assert.False(t, m.FileExists("exports/a.csv"))
	require.NoError(t, m.WriteFileAtomic("exports/a.csv", []byte("x")))
	assert.True(t, m.FileExists("exports/a.csv"))

	data, err := m.ReadFile("exports/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = m.ReadFile("missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCleanPath(t *testing.T) {
	m, paths := newTestManager(t)
	assert.Equal(t, filepath.Join(paths.ExportsDir, "Backup.xlsx"), m.CleanPath("exports/./Backup.xlsx"))
}
