// Package debug holds developer tooling that sits outside the emulation
// core: frame captures and sprite memory listings.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/valerio/gonesis/gonesis/ppu"
)

// Format is an image encoding for frame captures.
type Format int

const (
	PNG Format = iota
	BMP
)

// FormatFromPath picks the encoding from the file extension, defaulting to
// PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return BMP
	}
	return PNG
}

// ScaleFrame returns frame enlarged by an integer factor with nearest
// neighbour sampling, so pixels stay square.
func ScaleFrame(frame *ppu.FrameBuffer, scale int) image.Image {
	src := frame.Image()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth*scale, ppu.ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// EncodeFrame writes frame to w.
func EncodeFrame(w io.Writer, frame *ppu.FrameBuffer, scale int, format Format) error {
	img := ScaleFrame(frame, scale)
	switch format {
	case BMP:
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// SaveFrame writes frame to path, choosing the format from the extension.
func SaveFrame(path string, frame *ppu.FrameBuffer, scale int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := EncodeFrame(file, frame, scale, FormatFromPath(path)); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	slog.Info("frame saved", "path", path, "scale", scale)
	return nil
}

// SaveFramePNGToDir saves frame as <baseName>_<timestamp>.png in directory,
// or in the working directory when directory is empty. It returns the path
// written.
func SaveFramePNGToDir(frame *ppu.FrameBuffer, baseName, directory string) (string, error) {
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		directory = cwd
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(directory, fmt.Sprintf("%s_%s.png", baseName, timestamp))
	return path, SaveFrame(path, frame, 1)
}
