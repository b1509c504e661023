package ppu

import (
	"image"
	"image/color"

	"github.com/cespare/xxhash"
)

const (
	// ScreenWidth and ScreenHeight are the dimensions of a rendered frame.
	ScreenWidth  = 256
	ScreenHeight = 240
)

// palette is the 2C02 master palette as RGB.
var palette = [64]uint32{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFEF96, 0xBDF4AB, 0xB3F3CC, 0xB5EBF2, 0xB8B8B8, 0x000000, 0x000000,
}

// Color converts a 6-bit palette index to RGBA.
func Color(index uint8) color.RGBA {
	rgb := palette[index&0x3F]
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF}
}

// FrameBuffer holds one frame of 6-bit palette indices.
type FrameBuffer struct {
	pixels [ScreenWidth * ScreenHeight]uint8
}

// Index returns the palette index of the pixel at (x, y).
func (f *FrameBuffer) Index(x, y int) uint8 {
	return f.pixels[y*ScreenWidth+x]
}

func (f *FrameBuffer) set(x, y int, index uint8) {
	f.pixels[y*ScreenWidth+x] = index
}

// Pixels returns the raw index buffer, row major.
func (f *FrameBuffer) Pixels() []uint8 {
	return f.pixels[:]
}

// RGBA returns the color of the pixel at (x, y).
func (f *FrameBuffer) RGBA(x, y int) color.RGBA {
	return Color(f.Index(x, y))
}

// Image converts the frame to an RGBA image.
func (f *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			img.SetRGBA(x, y, f.RGBA(x, y))
		}
	}
	return img
}

// Checksum hashes the palette indices of the frame.
func (f *FrameBuffer) Checksum() uint64 {
	return xxhash.Sum64(f.pixels[:])
}
