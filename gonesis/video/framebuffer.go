package video

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

const (
	// ScreenWidth and ScreenHeight are the visible LCD dimensions.
	ScreenWidth  = 160
	ScreenHeight = 144
)

type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0xFF989898
	DarkGreyColor  GBColor = 0xFF4C4C4C
	BlackColor     GBColor = 0xFF000000
)

var shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// applyPalette maps a 2-bit color index through a BGP/OBP register.
func applyPalette(palette, color uint8) GBColor {
	return shades[(palette>>(color*2))&0x03]
}

type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer with the specified size.
func NewFrameBuffer(width, height uint) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		buffer: make([]uint32, width*height),
	}
}

func (fb *FrameBuffer) Width() uint {
	return fb.width
}

func (fb *FrameBuffer) Height() uint {
	return fb.height
}

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Checksum hashes the frame contents, for regression tests.
func (fb *FrameBuffer) Checksum() uint64 {
	raw := make([]byte, 4*len(fb.buffer))
	for i, px := range fb.buffer {
		binary.LittleEndian.PutUint32(raw[4*i:], px)
	}
	return xxhash.Sum64(raw)
}
