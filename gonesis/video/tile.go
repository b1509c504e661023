package video

import "github.com/valerio/gonesis/gonesis/bit"

// TileRow represents one row of a tile pattern (8 pixels).
//
// Game Boy tiles are 8x8 pixels, with 2 bits per pixel allowing 4 colors.
// Each tile row uses 2 bytes in a bit-plane format:
//
//	Byte 1 (Low):  Bit plane 0 - provides bit 0 of each pixel's color
//	Byte 2 (High): Bit plane 1 - provides bit 1 of each pixel's color
//
// Bit 7 represents the leftmost pixel, bit 0 the rightmost:
//
//	Bit:     7 6 5 4 3 2 1 0
//	Pixel:   0 1 2 3 4 5 6 7
//
// Example: Bytes $3C and $7E represent a row:
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x7E): 0 1 1 1 1 1 1 0
//	            -----------------
//	Colors:      0 2 3 3 3 3 2 0
//
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type TileRow struct {
	Low  byte
	High byte
}

// Pixel extracts a pixel color (0-3) from the tile row.
// pixelX should be 0-7, where 0 is the leftmost pixel.
func (t TileRow) Pixel(pixelX int) uint8 {
	return t.pixelAt(uint8(7 - pixelX))
}

// PixelFlipped extracts a pixel color with horizontal flip.
// Used for sprite rendering with the flip X attribute.
func (t TileRow) PixelFlipped(pixelX int) uint8 {
	return t.pixelAt(uint8(pixelX))
}

func (t TileRow) pixelAt(bitIndex uint8) uint8 {
	var pixel uint8
	if bit.IsSet(bitIndex, t.Low) {
		pixel |= 1
	}
	if bit.IsSet(bitIndex, t.High) {
		pixel |= 2
	}
	return pixel
}

// MemoryReader is the video memory as seen by the fetchers.
type MemoryReader interface {
	Read(addr uint16) byte
}

// VRAM is the 8KB of video memory mapped at 0x8000-0x9FFF.
type VRAM [0x2000]byte

func (v *VRAM) Read(addr uint16) byte {
	return v[addr&0x1FFF]
}

func (v *VRAM) Write(addr uint16, value byte) {
	v[addr&0x1FFF] = value
}

const (
	tileData0 = 0x8000
	tileData1 = 0x9000
	tileMap0  = 0x9800
	tileMap1  = 0x9C00
)

// backgroundTileAddress resolves a tile index to its pattern address,
// honoring the signed addressing mode selected by LCDC bit 4.
func backgroundTileAddress(lcdc, index uint8) uint16 {
	if bit.IsSet(lcdcTileDataSelect, lcdc) {
		return tileData0 + uint16(index)*16
	}
	return uint16(int32(tileData1) + int32(int8(index))*16)
}

// FetchTileRow reads the two bit planes of one row of the pattern at
// baseAddr.
func FetchTileRow(mem MemoryReader, baseAddr uint16, row int) TileRow {
	addr := baseAddr + uint16(row*2)
	return TileRow{
		Low:  mem.Read(addr),
		High: mem.Read(addr + 1),
	}
}
