package ppu

// SpriteState is the serializable form of one sprite output unit.
type SpriteState struct {
	PatternLo  uint8
	PatternHi  uint8
	Attributes uint8
	X          uint8
	Active     bool
	Sprite0    bool
}

// State is the serializable form of the PPU.
type State struct {
	Scanline int
	Dot      int
	OddFrame bool
	Frames   uint64

	V uint16
	T uint16
	X uint8

	NTByte    uint8
	ATByte    uint8
	PatternLo uint8
	PatternHi uint8
	BgShiftLo uint16
	BgShiftHi uint16
	AtShiftLo uint16
	AtShiftHi uint16

	Secondary      [maxSprites]spriteEntry
	SecondaryCount int
	Sprite0Found   bool
	Sprites        [maxSprites]SpriteState

	Frame []uint8
}

// State captures the PPU for a snapshot.
func (p *PPU) State() State {
	s := State{
		Scanline:       p.scanline,
		Dot:            p.dot,
		OddFrame:       p.oddFrame,
		Frames:         p.frames,
		V:              p.v,
		T:              p.t,
		X:              p.x,
		NTByte:         p.ntByte,
		ATByte:         p.atByte,
		PatternLo:      p.patternLo,
		PatternHi:      p.patternHi,
		BgShiftLo:      p.bgShiftLo,
		BgShiftHi:      p.bgShiftHi,
		AtShiftLo:      p.atShiftLo,
		AtShiftHi:      p.atShiftHi,
		Secondary:      p.oam.entries,
		SecondaryCount: p.oam.count,
		Sprite0Found:   p.oam.sprite0,
		Frame:          append([]uint8(nil), p.frame.pixels[:]...),
	}
	for i, u := range p.sprites {
		s.Sprites[i] = SpriteState{
			PatternLo:  u.patternLo,
			PatternHi:  u.patternHi,
			Attributes: u.attributes,
			X:          u.x,
			Active:     u.active,
			Sprite0:    u.sprite0,
		}
	}
	return s
}

// Restore replaces the PPU state with s.
func (p *PPU) Restore(s State) {
	p.scanline = s.Scanline
	p.dot = s.Dot
	p.oddFrame = s.OddFrame
	p.frames = s.Frames
	p.v = s.V
	p.t = s.T
	p.x = s.X
	p.ntByte = s.NTByte
	p.atByte = s.ATByte
	p.patternLo = s.PatternLo
	p.patternHi = s.PatternHi
	p.bgShiftLo = s.BgShiftLo
	p.bgShiftHi = s.BgShiftHi
	p.atShiftLo = s.AtShiftLo
	p.atShiftHi = s.AtShiftHi
	p.oam = spriteOAM{entries: s.Secondary, count: s.SecondaryCount, sprite0: s.Sprite0Found}
	for i, u := range s.Sprites {
		p.sprites[i] = spriteUnit{
			patternLo:  u.PatternLo,
			patternHi:  u.PatternHi,
			attributes: u.Attributes,
			x:          u.X,
			active:     u.Active,
			sprite0:    u.Sprite0,
		}
	}
	copy(p.frame.pixels[:], s.Frame)
}
