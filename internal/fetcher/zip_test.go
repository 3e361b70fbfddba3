package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestZIP(t *testing.T, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "cb_2024_us_state_20m.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return zipPath
}

func TestExtractZIP_BoundaryArchive(t *testing.T) {
	zipPath := createTestZIP(t, map[string]string{
		"cb_2024_us_state_20m.shp": "shp geometry",
		"cb_2024_us_state_20m.dbf": "dbf attributes",
		"cb_2024_us_state_20m.prj": "GEOGCS[...]",
	})

	destDir := t.TempDir()
	extracted, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	assert.Len(t, extracted, 3)

	for _, path := range extracted {
		_, err := os.Stat(path)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "cb_2024_us_state_20m.shp"))
	require.NoError(t, err)
	assert.Equal(t, "shp geometry", string(data))

	data, err = os.ReadFile(filepath.Join(destDir, "cb_2024_us_state_20m.dbf"))
	require.NoError(t, err)
	assert.Equal(t, "dbf attributes", string(data))
}

func TestExtractZIP_ZipSlipPrevention(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "malicious.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	fw, err := w.Create("../../../etc/passwd")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("malicious"))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	destDir := t.TempDir()
	_, err = ExtractZIP(zipPath, destDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip slip")
}

func TestExtractZIP_WithSubdirectory(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "nested.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)

	_, err = w.Create("shp/")
	require.NoError(t, err)

	fw, err := w.Create("shp/states.shp")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("nested content"))

	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	destDir := t.TempDir()
	extracted, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	// Directory entries return no path, so only the file is listed.
	assert.Len(t, extracted, 1)

	data, err := os.ReadFile(filepath.Join(destDir, "shp", "states.shp"))
	require.NoError(t, err)
	assert.Equal(t, "nested content", string(data))
}

func TestExtractZIP_NestedSubdirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "nested.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	fw, err := w.Create("a/b/c/deep.shp")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("deep content"))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	destDir := t.TempDir()
	extracted, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	assert.Len(t, extracted, 1)

	data, err := os.ReadFile(filepath.Join(destDir, "a", "b", "c", "deep.shp"))
	require.NoError(t, err)
	assert.Equal(t, "deep content", string(data))
}

func TestExtractZIP_EmptyArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "empty.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	destDir := t.TempDir()
	extracted, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	assert.Empty(t, extracted)
}

func TestExtractZIP_InvalidArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notazip.zip")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip"), 0o644))

	destDir := t.TempDir()
	_, err := ExtractZIP(path, destDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip: open archive")
}

func TestExtractZIP_DestDirReadOnly(t *testing.T) {
	zipPath := createTestZIP(t, map[string]string{
		"states.shp": "content",
	})

	destDir := t.TempDir()
	require.NoError(t, os.Chmod(destDir, 0o555))
	defer os.Chmod(destDir, 0o755) //nolint:errcheck

	_, err := ExtractZIP(zipPath, destDir)
	require.Error(t, err)
}
