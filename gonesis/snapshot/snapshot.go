// Package snapshot frames save states on disk: a magic string and format
// version, followed by a zstd compressed gob stream of the machine state.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const (
	magic = "GNSS"

	// Version is bumped whenever a state struct changes shape.
	Version uint16 = 1

	headerSize = len(magic) + 2
)

// DecodeError is returned for any snapshot that cannot be loaded: bad
// header, unknown version, corrupt payload or a state that does not fit
// the running cartridge.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "snapshot: " + e.Reason
	}
	return fmt.Sprintf("snapshot: %s: %v", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Write encodes state to w.
func Write(w io.Writer, state any) error {
	header := make([]byte, headerSize)
	copy(header, magic)
	binary.LittleEndian.PutUint16(header[len(magic):], Version)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating snapshot compressor: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(state); err != nil {
		zw.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot from r into state, which must be a pointer. Every
// failure is a *DecodeError; state may be partially written on failure, so
// callers decode into a scratch value.
func Read(r io.Reader, state any) error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return &DecodeError{Reason: "truncated header", Err: err}
	}
	if !bytes.Equal(header[:len(magic)], []byte(magic)) {
		return &DecodeError{Reason: fmt.Sprintf("bad magic %q", header[:len(magic)])}
	}
	if v := binary.LittleEndian.Uint16(header[len(magic):]); v != Version {
		return &DecodeError{Reason: fmt.Sprintf("unsupported version %d, want %d", v, Version)}
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return &DecodeError{Reason: "opening payload", Err: err}
	}
	defer zr.Close()

	if err := gob.NewDecoder(zr).Decode(state); err != nil {
		return &DecodeError{Reason: "corrupt payload", Err: err}
	}
	return nil
}
