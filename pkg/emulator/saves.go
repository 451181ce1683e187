package emulator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Save is a small battery backed file, such as the high score table
// the arcade board never had. Writes go to a temporary file that
// replaces the save when it is closed, so a crash never leaves a
// truncated save behind.
type Save struct {
	b    []byte   // the save file data
	f    *os.File // temporary file that is written to when the emu is running
	Path string   // the path to the save file
}

// OpenSave opens the save at path, creating an empty one of size bytes
// if it does not exist yet. An existing save of a different size is
// resized.
func OpenSave(path string, size int) (*Save, error) {
	s := &Save{
		b:    make([]byte, size),
		Path: path,
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		copy(s.b, b)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading save %s: %w", path, err)
	}

	if err := s.createTemporarySaveFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Bytes returns the save file data.
func (s *Save) Bytes() []byte {
	return s.b
}

// SetBytes sets the save file data and writes it to the temporary
// file.
func (s *Save) SetBytes(b []byte) error {
	s.b = append(s.b[:0], b...)
	if s.f == nil {
		return nil
	}
	if err := s.f.Truncate(int64(len(s.b))); err != nil {
		return fmt.Errorf("failed to write to temporary save file: %w", err)
	}
	if _, err := s.f.WriteAt(s.b, 0); err != nil {
		return fmt.Errorf("failed to write to temporary save file: %w", err)
	}
	return nil
}

// Close closes the save file by renaming the temporary file to the
// original file.
func (s *Save) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil

	if _, err := f.WriteAt(s.b, 0); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.Path)
}

// createTemporarySaveFile creates the temporary save file next to the
// save, so the final rename stays on one filesystem.
func (s *Save) createTemporarySaveFile() error {
	var err error
	s.f, err = os.CreateTemp(filepath.Dir(s.Path), fmt.Sprintf("%s.*", filepath.Base(s.Path)))
	if err != nil {
		return fmt.Errorf("creating temporary save file: %w", err)
	}
	return s.f.Truncate(int64(len(s.b)))
}
