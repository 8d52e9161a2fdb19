package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	m := NewFile(path)

	_, ok, err := m.Load()
	require.NoError(t, err)
	assert.False(t, ok, "missing file is an empty mirror")

	require.NoError(t, m.Save([]byte(`{"subjectId":"a"}`)))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, ok, err := m.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"subjectId":"a"}`, string(data))

	require.NoError(t, m.Save([]byte(`{"subjectId":"b"}`)))
	data, _, err = m.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"subjectId":"b"}`, string(data))

	require.NoError(t, m.Delete())
	_, ok, err = m.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, m.Delete(), "deleting twice is fine")
}

func TestFile_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	m := NewFile(filepath.Join(dir, "session.json"))
	require.NoError(t, m.Save([]byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}
