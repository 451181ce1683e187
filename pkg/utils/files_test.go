package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	rom := []byte{0x00, 0xC3, 0xD4, 0x18}

	t.Run("plain", func(t *testing.T) {
		path := filepath.Join(dir, "invaders.h")
		require.NoError(t, os.WriteFile(path, rom, 0644))

		data, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, rom, data)
	})
	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, err := w.Write(rom)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		path := filepath.Join(dir, "invaders.rom.gz")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

		data, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, rom, data)
	})
	t.Run("zip", func(t *testing.T) {
		path := writeZip(t, dir, map[string][]byte{"TST8080.COM": rom})

		data, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, rom, data)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.bin"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadArchive(t *testing.T) {
	dir := t.TempDir()
	path := writeZip(t, dir, map[string][]byte{
		"invaders/INVADERS.H": {0x01},
		"invaders/invaders.g": {0x02},
	})

	files, err := LoadArchive(path)
	require.NoError(t, err)
	require.Len(t, files, 2)

	names := map[string]byte{}
	for _, f := range files {
		names[f.Name] = f.Data[0]
	}
	assert.Equal(t, map[string]byte{"invaders.h": 0x01, "invaders.g": 0x02}, names)

	assert.True(t, IsArchive(path))
	assert.False(t, IsArchive("invaders.h"))
}

func writeZip(t *testing.T, dir string, files map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "roms.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}
