package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bracket.scad"), []byte("cube(1);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "adapter.scad"), []byte("cube(2);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.scad"), 0o755))

	svc := NewFileService(dir)
	res, err := svc.ListFiles()
	require.NoError(t, err)

	require.Len(t, res.Files, 2)
	assert.Equal(t, "adapter.scad", res.Files[0].Name)
	assert.Equal(t, "bracket.scad", res.Files[1].Name)
	assert.Equal(t, filepath.Join(dir, "bracket.scad"), res.Files[1].Path)
}

func TestListFilesMissingDir(t *testing.T) {
	svc := NewFileService(filepath.Join(t.TempDir(), "nope"))
	res, err := svc.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, res.Files)
}

func TestFilesStatus(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bracket.scad"), []byte("cube(1);"), 0o644))

	svc := NewFileService(dir)
	res, err := svc.FilesStatus()
	require.NoError(t, err)

	require.Contains(t, res.Files, "bracket.scad")
	assert.Greater(t, res.Files["bracket.scad"], float64(0))
}
