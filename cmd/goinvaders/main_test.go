package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSavePath(t *testing.T) {
	assert.Equal(t, "roms/invaders.zip.sav", savePath("roms/invaders.zip"))
	assert.Equal(t, filepath.Join("roms", "invaders")+".sav", savePath(filepath.Join("roms", "invaders")+string(filepath.Separator)))
}

func TestPaletteNames(t *testing.T) {
	assert.Contains(t, paletteNames(), "overlay")
}
