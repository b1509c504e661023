package video

import (
	"sort"

	"github.com/valerio/gonesis/gonesis/bit"
)

const (
	oamSprites        = 40
	maxSpritesPerLine = 10
)

// Sprite represents a single sprite/object in OAM.
//
// X is kept in OAM coordinates (screen X + 8), which is also the column the
// pixel FIFO counts in, so a sprite is loaded when the FIFO column equals X.
type Sprite struct {
	Y         uint8 // screen Y (OAM byte minus 16)
	X         uint8 // raw OAM X
	TileIndex uint8
	Flags     uint8
	OAMIndex  int
	Height    int

	PaletteOBP1 bool
	FlipX       bool
	FlipY       bool
	BehindBG    bool
}

func (s *Sprite) parseFlags() {
	s.PaletteOBP1 = bit.IsSet(4, s.Flags)
	s.FlipX = bit.IsSet(5, s.Flags)
	s.FlipY = bit.IsSet(6, s.Flags)
	s.BehindBG = bit.IsSet(7, s.Flags)
}

// OAM is the 160 byte sprite attribute table.
type OAM [oamSprites * 4]byte

func (o *OAM) sprite(index, height int) Sprite {
	base := index * 4
	s := Sprite{
		Y:         o[base] - 16,
		X:         o[base+1],
		TileIndex: o[base+2],
		Flags:     o[base+3],
		OAMIndex:  index,
		Height:    height,
	}
	s.parseFlags()
	return s
}

// ScanLine performs the OAM scan for a scanline: up to 10 sprites that
// overlap line, in OAM order, then stably sorted by X so the FIFO can load
// them left to right. The result aliases buf.
func (o *OAM) ScanLine(buf *[maxSpritesPerLine]Sprite, line int, tall bool) []Sprite {
	height := 8
	if tall {
		height = 16
	}

	sprites := buf[:0]
	for i := range oamSprites {
		top := int(o[i*4]) - 16
		if top <= line && line < top+height {
			sprites = append(sprites, o.sprite(i, height))
			if len(sprites) == maxSpritesPerLine {
				break
			}
		}
	}

	sort.SliceStable(sprites, func(a, b int) bool {
		return sprites[a].X < sprites[b].X
	})
	return sprites
}

// rowAddress returns the pattern address of the sprite row visible on line.
func (s *Sprite) rowAddress(line int) (uint16, int) {
	top := int(s.Y)
	if top >= 0xF0 {
		// partially above the screen
		top -= 256
	}
	row := line - top
	if s.FlipY {
		row = s.Height - 1 - row
	}

	index := s.TileIndex
	if s.Height == 16 {
		index &= 0xFE
	}
	return tileData0 + uint16(index)*16, row
}
