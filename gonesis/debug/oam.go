package debug

import (
	"fmt"

	"github.com/valerio/gonesis/gonesis/bit"
)

const (
	OAMSpriteCount    = 64
	OAMBytesPerSprite = 4
	MaxSpritesPerLine = 8
)

// Sprite attribute bit positions.
const (
	AttrFlipY    = 7
	AttrFlipX    = 6
	AttrPriority = 5
)

type SpriteInfo struct {
	Index      int
	Y          int
	X          int
	TileIndex  uint8
	Attributes uint8
	OnLine     bool
}

type SpriteAttributes struct {
	FlipY         bool
	FlipX         bool
	BehindBG      bool
	PaletteNumber int
}

type OAMData struct {
	Sprites      []SpriteInfo
	Scanline     int
	SpriteHeight int
	// OnLine counts sprites covering Scanline, before the eight sprite cap.
	OnLine       int
}

// ExtractOAMData decodes sprite memory. Y in OAM is one less than the
// first line the sprite appears on.
func ExtractOAMData(oam *[256]uint8, scanline, spriteHeight int) *OAMData {
	data := &OAMData{
		Sprites:      make([]SpriteInfo, OAMSpriteCount),
		Scanline:     scanline,
		SpriteHeight: spriteHeight,
	}
	for i := range OAMSpriteCount {
		base := i * OAMBytesPerSprite
		s := SpriteInfo{
			Index:      i,
			Y:          int(oam[base]) + 1,
			TileIndex:  oam[base+1],
			Attributes: oam[base+2],
			X:          int(oam[base+3]),
		}
		s.OnLine = scanline >= s.Y && scanline < s.Y+spriteHeight
		if s.OnLine {
			data.OnLine++
		}
		data.Sprites[i] = s
	}
	return data
}

func (s *SpriteInfo) DecodeAttributes() SpriteAttributes {
	return SpriteAttributes{
		FlipY:         bit.IsSet(AttrFlipY, s.Attributes),
		FlipX:         bit.IsSet(AttrFlipX, s.Attributes),
		BehindBG:      bit.IsSet(AttrPriority, s.Attributes),
		PaletteNumber: int(s.Attributes & 0x03),
	}
}

func (s *SpriteInfo) String() string {
	status := "   "
	if s.OnLine {
		status = "ON "
	}
	return fmt.Sprintf("%s#%02d Y=%3d X=%3d T=%02X A=%02X", status, s.Index, s.Y, s.X, s.TileIndex, s.Attributes)
}

// Overflowed reports whether more sprites cover the line than the PPU can
// draw.
func (data *OAMData) Overflowed() bool {
	return data.OnLine > MaxSpritesPerLine
}

func (data *OAMData) FormatSummary() string {
	return fmt.Sprintf("Line %d | on line %d/%d | %dpx sprites",
		data.Scanline, data.OnLine, MaxSpritesPerLine, data.SpriteHeight)
}
