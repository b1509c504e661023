package cartridge

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// LoadFile reads a ROM image from disk and parses it. Images packed in .zip,
// .7z or .gz archives are unpacked first; for multi-file archives the first
// entry with a .nes extension wins, falling back to the first entry.
func LoadFile(path string) (*Cartridge, error) {
	data, err := ReadImage(path)
	if err != nil {
		return nil, err
	}

	cart, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return cart, nil
}

// ReadImage returns the raw bytes of a ROM image, decompressing archives.
func ReadImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening gzip: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("opening zip: %w", err)
		}
		files := make([]archiveEntry, 0, len(zr.File))
		for _, f := range zr.File {
			files = append(files, archiveEntry{name: f.Name, open: f.Open})
		}
		return readArchive(files)
	case ".7z":
		sr, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("opening 7z: %w", err)
		}
		files := make([]archiveEntry, 0, len(sr.File))
		for _, f := range sr.File {
			files = append(files, archiveEntry{name: f.Name, open: f.Open})
		}
		return readArchive(files)
	default:
		return data, nil
	}
}

type archiveEntry struct {
	name string
	open func() (io.ReadCloser, error)
}

func readArchive(entries []archiveEntry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, errors.New("archive is empty")
	}

	chosen := entries[0]
	for _, e := range entries {
		if strings.EqualFold(filepath.Ext(e.name), ".nes") {
			chosen = e
			break
		}
	}

	rc, err := chosen.open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", chosen.name, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
