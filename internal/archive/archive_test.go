package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0600, Size: int64(len(content))}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestExtract_FlatTarGz(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"gitaly/current": "2024-01-01T00:00:00Z ERROR dialing failed: connection refused\n",
		"db/schema.rb":   "t.integer :timeout\n",
	})

	res, err := Extract(archivePath, dir)
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)
}

func TestExtract_RejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"../../etc/passwd": "root:x:0:0\n",
		"safe/current":      "ok\n",
	})

	res, err := Extract(archivePath, dir)
	require.NoError(t, err)
	assert.Len(t, res.Files, 1)
	assert.Equal(t, "safe/current", filepath.ToSlash(res.Files[0]))
}

func TestExtract_NestedArchive(t *testing.T) {
	dir := t.TempDir()

	innerPath := filepath.Join(dir, "logs.tar.gz")
	writeTarGz(t, innerPath, map[string]string{
		"gitaly/current": "2024-01-01T00:00:00Z ERROR dialing failed: connection refused\n",
	})
	innerBytes, err := os.ReadFile(innerPath)
	require.NoError(t, err)

	outerPath := filepath.Join(dir, "outer.tar.gz")
	f, err := os.Create(outerPath)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	hdr := &tar.Header{Name: "logs.tar.gz", Mode: 0600, Size: int64(len(innerBytes))}
	require.NoError(t, tw.WriteHeader(hdr))
	_, err = tw.Write(innerBytes)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	res, err := Extract(outerPath, dir)
	require.NoError(t, err)

	found := false
	for _, rel := range res.Files {
		if filepath.Base(rel) == "current" {
			found = true
		}
	}
	assert.True(t, found, "expected nested gitaly/current to be extracted, got %v", res.Files)
}

func TestSafeJoin(t *testing.T) {
	root := "/tmp/root"
	_, ok := safeJoin(root, "../escape")
	assert.False(t, ok)

	_, ok = safeJoin(root, "/absolute")
	assert.False(t, ok)

	p, ok := safeJoin(root, "nested/file")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "nested/file"), p)
}
