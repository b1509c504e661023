package ppu

import (
	"github.com/valerio/gonesis/gonesis/addr"
	"github.com/valerio/gonesis/gonesis/bit"
	"github.com/valerio/gonesis/gonesis/bus"
)

const (
	maxSprites  = 8
	emptySprite = 0xFF
)

// spriteEntry is a copy of the four OAM bytes of one sprite.
type spriteEntry struct {
	Y, Tile, Attributes, X uint8
}

// spriteOAM is secondary OAM: the sprites selected for the next line.
type spriteOAM struct {
	entries [maxSprites]spriteEntry
	count   int
	sprite0 bool
}

// spriteUnit is one of the eight output units, loaded during dots 257-320
// and shifted out on the following line.
type spriteUnit struct {
	patternLo  uint8
	patternHi  uint8
	attributes uint8
	x          uint8
	active     bool
	sprite0    bool
}

func (s *spriteUnit) palette() uint8 {
	return s.attributes & 0x03
}

func (s *spriteUnit) behindBackground() bool {
	return s.attributes&0x20 != 0
}

func spriteHeight(regs *bus.PPURegisters) int {
	if regs.Ctrl()&bus.CtrlTallSprites != 0 {
		return 16
	}
	return 8
}

// evaluateSprites selects up to eight sprites covering the current line,
// to be drawn on the next one. A ninth sets the overflow flag.
func (p *PPU) evaluateSprites(b *bus.Bus, regs *bus.PPURegisters) {
	oam := b.OAM()
	height := spriteHeight(regs)

	p.oam.count = 0
	p.oam.sprite0 = false

	for i := 0; i < 64; i++ {
		y := oam[i*4]
		row := p.scanline - int(y)
		if row < 0 || row >= height {
			continue
		}

		if p.oam.count == maxSprites {
			regs.SetStatusFlag(bus.StatusSpriteOverflow, true)
			break
		}

		p.oam.entries[p.oam.count] = spriteEntry{
			Y:          y,
			Tile:       oam[i*4+1],
			Attributes: oam[i*4+2],
			X:          oam[i*4+3],
		}
		if i == 0 {
			p.oam.sprite0 = true
		}
		p.oam.count++
	}
}

// fetchSprite performs step of the eight-dot fetch for sprite slot. Steps
// 0 and 2 are the garbage nametable fetches, 4 and 6 the pattern bytes.
func (p *PPU) fetchSprite(b *bus.Bus, regs *bus.PPURegisters, slot, step int) {
	switch step {
	case 0, 2:
		b.PPURead(addr.NametableStart | p.v&0x0FFF)
	case 4:
		p.sprites[slot].patternLo = b.PPURead(p.spritePatternAddress(regs, slot))
	case 6:
		p.sprites[slot].patternHi = b.PPURead(p.spritePatternAddress(regs, slot) + 8)
		p.loadSpriteUnit(slot)
	}
}

func (p *PPU) spritePatternAddress(regs *bus.PPURegisters, slot int) uint16 {
	height := spriteHeight(regs)

	entry := spriteEntry{Y: emptySprite, Tile: emptySprite, Attributes: emptySprite, X: emptySprite}
	row := 0
	if slot < p.oam.count {
		entry = p.oam.entries[slot]
		row = p.scanline - int(entry.Y)
		if entry.Attributes&0x80 != 0 {
			row = height - 1 - row
		}
	}

	if height == 8 {
		var table uint16
		if regs.Ctrl()&bus.CtrlSpritePatternTable != 0 {
			table = addr.PatternTable1
		}
		return table + uint16(entry.Tile)*16 + uint16(row&0x07)
	}

	table := uint16(entry.Tile&0x01) * addr.PatternTable1
	tile := uint16(entry.Tile & 0xFE)
	if row >= 8 {
		tile++
	}
	return table + tile*16 + uint16(row&0x07)
}

func (p *PPU) loadSpriteUnit(slot int) {
	unit := &p.sprites[slot]
	if slot >= p.oam.count {
		*unit = spriteUnit{}
		return
	}

	entry := p.oam.entries[slot]
	unit.attributes = entry.Attributes
	unit.x = entry.X
	unit.active = true
	unit.sprite0 = slot == 0 && p.oam.sprite0
	if entry.Attributes&0x40 != 0 {
		unit.patternLo = bit.Reverse(unit.patternLo)
		unit.patternHi = bit.Reverse(unit.patternHi)
	}
}

// spritePixel returns the first opaque sprite pixel at x, in OAM order.
func (p *PPU) spritePixel(x int) (*spriteUnit, uint8) {
	for i := range p.sprites {
		s := &p.sprites[i]
		if !s.active {
			continue
		}
		offset := x - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}
		shift := 7 - offset
		color := (s.patternHi>>shift)&1<<1 | (s.patternLo>>shift)&1
		if color != 0 {
			return s, color
		}
	}
	return nil, 0
}
