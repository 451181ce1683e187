package invaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thelolagemann/go-invaders/internal/types"
	"github.com/thelolagemann/go-invaders/pkg/utils"
)

const (
	// ROMSize is the size of the program ROM.
	ROMSize = int(types.ROMEnd) + 1
	// chipSize is the size of one of the four ROM chips.
	chipSize = 0x0800
)

// ErrMissingROM is returned when a part of the ROM set cannot be found.
var ErrMissingROM = errors.New("missing rom")

// romChips names the four ROM chips in address order, 0x0000 to 0x1800.
var romChips = []string{"invaders.h", "invaders.g", "invaders.f", "invaders.e"}

// LoadROMSet loads the program ROM from path, which may be
//
//   - a directory holding invaders.h, invaders.g, invaders.f and invaders.e
//   - one of those four files, the others being read from beside it
//   - a single combined image of up to 8 KiB
//   - a .zip or .7z archive holding either of the above
func LoadROMSet(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loading rom set: %w", err)
	}

	switch {
	case info.IsDir():
		return loadChipsFromDir(path)
	case utils.IsArchive(path):
		return loadROMArchive(path)
	case isChip(filepath.Base(path)):
		return loadChipsFromDir(filepath.Dir(path))
	}

	rom, err := utils.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading rom set: %w", err)
	}
	return checkROM(rom)
}

func isChip(name string) bool {
	name = strings.ToLower(name)
	for _, chip := range romChips {
		if name == chip {
			return true
		}
	}
	return false
}

// loadChipsFromDir concatenates the four chips found in dir. Names are
// matched case-insensitively.
func loadChipsFromDir(dir string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading rom set: %w", err)
	}
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files[strings.ToLower(e.Name())] = filepath.Join(dir, e.Name())
		}
	}

	return assemble(func(chip string) ([]byte, error) {
		path, ok := files[chip]
		if !ok {
			return nil, fmt.Errorf("%w: %s not found in %s", ErrMissingROM, chip, dir)
		}
		return utils.LoadFile(path)
	})
}

// loadROMArchive reads the chips, or a single combined image, from an
// archive.
func loadROMArchive(path string) ([]byte, error) {
	files, err := utils.LoadArchive(path)
	if err != nil {
		return nil, fmt.Errorf("loading rom set: %w", err)
	}
	byName := make(map[string][]byte, len(files))
	for _, f := range files {
		byName[f.Name] = f.Data
	}

	if _, ok := byName[romChips[0]]; ok {
		return assemble(func(chip string) ([]byte, error) {
			data, ok := byName[chip]
			if !ok {
				return nil, fmt.Errorf("%w: %s not found in %s", ErrMissingROM, chip, path)
			}
			return data, nil
		})
	}

	if len(files) == 1 {
		return checkROM(files[0].Data)
	}
	return nil, fmt.Errorf("%w: %s holds neither the rom chips nor a single image", ErrMissingROM, path)
}

func assemble(open func(chip string) ([]byte, error)) ([]byte, error) {
	rom := make([]byte, 0, ROMSize)
	for _, chip := range romChips {
		data, err := open(chip)
		if err != nil {
			return nil, err
		}
		if len(data) != chipSize {
			return nil, fmt.Errorf("loading rom set: %s is %d bytes, want %d", chip, len(data), chipSize)
		}
		rom = append(rom, data...)
	}
	return rom, nil
}

func checkROM(rom []byte) ([]byte, error) {
	if len(rom) == 0 {
		return nil, fmt.Errorf("%w: empty rom image", ErrMissingROM)
	}
	if len(rom) > ROMSize {
		return nil, fmt.Errorf("loading rom set: image is %d bytes, want at most %d", len(rom), ROMSize)
	}
	return rom, nil
}
