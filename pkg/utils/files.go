package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ArchiveFile is a single file extracted from an archive.
type ArchiveFile struct {
	Name string // lower-cased base name
	Data []byte
}

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip, .7z) yield their first file; .gz files are inflated;
// anything else is returned verbatim.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zip", ".7z":
		files, err := readArchive(filename, data)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%s: archive is empty", filename)
		}
		return files[0].Data, nil
	default:
		return data, nil
	}
}

// LoadArchive returns every regular file inside a .zip or .7z archive in
// stored order.
func LoadArchive(filename string) ([]ArchiveFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return readArchive(filename, data)
}

// IsArchive reports whether filename has an archive extension.
func IsArchive(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip", ".7z":
		return true
	}
	return false
}

type archiveEntry interface {
	FileInfo() fs.FileInfo
	Open() (io.ReadCloser, error)
}

func readArchive(filename string, data []byte) ([]ArchiveFile, error) {
	var entries []archiveEntry
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		for _, f := range zr.File {
			entries = append(entries, f)
		}
	case ".7z":
		sr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		for _, f := range sr.File {
			entries = append(entries, f)
		}
	default:
		return nil, fmt.Errorf("%s: not an archive", filename)
	}

	var files []ArchiveFile
	for _, e := range entries {
		info := e.FileInfo()
		if info.IsDir() {
			continue
		}
		rc, err := e.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		files = append(files, ArchiveFile{Name: strings.ToLower(info.Name()), Data: b})
	}
	return files, nil
}
