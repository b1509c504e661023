// Package ppu implements the NES picture processing unit (2C02) at dot
// granularity: the loopy scroll registers, the background shift register
// pipeline, sprite evaluation and sprite pattern fetches.
//
// All memory accesses go through the bus so that mappers observe the same
// PPU address sequence the real chip produces (MMC3 counts scanlines from
// it).
// Reference: https://www.nesdev.org/wiki/PPU_rendering
package ppu

import (
	"github.com/valerio/gonesis/gonesis/addr"
	"github.com/valerio/gonesis/gonesis/bus"
)

const (
	DotsPerScanline   = 341
	ScanlinesPerFrame = 262

	vblankScanline    = 241
	preRenderScanline = 261
)

// TickEffect reports what a dot produced.
type TickEffect uint8

const (
	None TickEffect = iota
	FrameComplete
)

// PPU holds the rendering state. Registers the CPU can see live on the bus.
type PPU struct {
	scanline int
	dot      int
	oddFrame bool
	frames   uint64

	// loopy registers: v is the current VRAM address, t the temporary one,
	// x the fine X scroll. The write toggle lives with the CPU side.
	v uint16
	t uint16
	x uint8

	ntByte    uint8
	atByte    uint8
	patternLo uint8
	patternHi uint8
	bgShiftLo uint16
	bgShiftHi uint16
	atShiftLo uint16
	atShiftHi uint16

	oam     spriteOAM
	sprites [maxSprites]spriteUnit

	frame FrameBuffer
}

// New returns a PPU at the start of the pre-render line.
func New() *PPU {
	return &PPU{scanline: preRenderScanline}
}

// FrameBuffer returns the frame being drawn. It holds a complete frame
// right after FrameComplete.
func (p *PPU) FrameBuffer() *FrameBuffer {
	return &p.frame
}

// Frames returns the number of frames completed.
func (p *PPU) Frames() uint64 {
	return p.frames
}

// Position returns the scanline and dot about to be processed.
func (p *PPU) Position() (scanline, dot int) {
	return p.scanline, p.dot
}

// Tick advances the PPU by one dot. It reports FrameComplete on the dot
// vblank starts.
func (p *PPU) Tick(b *bus.Bus) TickEffect {
	regs := b.PPURegisters()
	rendering := regs.RenderingEnabled()

	if access, ok := regs.TakeAccess(); ok {
		p.processAccess(b, access, rendering)
	}

	effect := None

	switch {
	case p.scanline < ScreenHeight:
		if rendering {
			p.renderDot(b, regs)
		} else if p.dot >= 1 && p.dot <= ScreenWidth {
			p.frame.set(p.dot-1, p.scanline, p.backdrop(b))
		}
	case p.scanline == vblankScanline:
		if p.dot == 1 {
			regs.SetStatusFlag(bus.StatusVBlank, true)
			p.frames++
			effect = FrameComplete
		}
	case p.scanline == preRenderScanline:
		if p.dot == 1 {
			regs.SetStatusFlag(bus.StatusVBlank, false)
			regs.SetStatusFlag(bus.StatusSprite0Hit, false)
			regs.SetStatusFlag(bus.StatusSpriteOverflow, false)
		}
		if rendering {
			p.renderDot(b, regs)
			if p.dot >= 280 && p.dot <= 304 {
				p.copyVertical()
			}
		}
	}

	p.advance(rendering)
	return effect
}

func (p *PPU) advance(rendering bool) {
	if p.scanline == preRenderScanline && p.dot == 339 && p.oddFrame && rendering {
		p.dot = 340
	}

	p.dot++
	if p.dot < DotsPerScanline {
		return
	}
	p.dot = 0
	p.scanline++
	if p.scanline == ScanlinesPerFrame {
		p.scanline = 0
		p.oddFrame = !p.oddFrame
	}
}

// renderDot runs the fetch and output pipeline for one dot of a visible
// or pre-render line.
func (p *PPU) renderDot(b *bus.Bus, regs *bus.PPURegisters) {
	dot := p.dot
	visible := p.scanline < ScreenHeight

	if (dot >= 2 && dot <= 257) || (dot >= 321 && dot <= 337) {
		p.shiftBackground()

		switch (dot - 1) % 8 {
		case 0:
			p.loadBackground()
			p.ntByte = b.PPURead(addr.NametableStart | p.v&0x0FFF)
		case 2:
			p.atByte = p.fetchAttribute(b)
		case 4:
			p.patternLo = b.PPURead(p.backgroundPatternAddress(regs))
		case 6:
			p.patternHi = b.PPURead(p.backgroundPatternAddress(regs) + 8)
		case 7:
			p.incrementCoarseX()
		}
	}

	if visible && dot >= 1 && dot <= ScreenWidth {
		p.renderPixel(b, regs)
	}

	switch {
	case dot == 256:
		p.incrementY()
	case dot == 257:
		p.copyHorizontal()
		if visible {
			p.evaluateSprites(b, regs)
		} else {
			p.oam.count = 0
		}
	case dot == 339:
		p.ntByte = b.PPURead(addr.NametableStart | p.v&0x0FFF)
	}

	if dot >= 257 && dot <= 320 {
		regs.SetOAMAddr(0)
		p.fetchSprite(b, regs, (dot-257)/8, (dot-257)%8)
	}
}

func (p *PPU) fetchAttribute(b *bus.Bus) uint8 {
	address := uint16(0x23C0) | p.v&0x0C00 | (p.v>>4)&0x38 | (p.v>>2)&0x07
	at := b.PPURead(address)
	if p.v&0x40 != 0 {
		at >>= 4
	}
	if p.v&0x02 != 0 {
		at >>= 2
	}
	return at & 0x03
}

func (p *PPU) backgroundPatternAddress(regs *bus.PPURegisters) uint16 {
	var table uint16
	if regs.Ctrl()&bus.CtrlBgPatternTable != 0 {
		table = addr.PatternTable1
	}
	return table + uint16(p.ntByte)*16 + (p.v>>12)&0x07
}

// loadBackground moves the fetched tile into the low byte of the shift
// registers. The high byte holds the tile being output.
func (p *PPU) loadBackground() {
	p.bgShiftLo = p.bgShiftLo&0xFF00 | uint16(p.patternLo)
	p.bgShiftHi = p.bgShiftHi&0xFF00 | uint16(p.patternHi)

	var lo, hi uint16
	if p.atByte&0x01 != 0 {
		lo = 0xFF
	}
	if p.atByte&0x02 != 0 {
		hi = 0xFF
	}
	p.atShiftLo = p.atShiftLo&0xFF00 | lo
	p.atShiftHi = p.atShiftHi&0xFF00 | hi
}

func (p *PPU) shiftBackground() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.atShiftLo <<= 1
	p.atShiftHi <<= 1
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}

	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&^0x03E0 | y<<5
}

func (p *PPU) copyHorizontal() {
	p.v = p.v&^0x041F | p.t&0x041F
}

func (p *PPU) copyVertical() {
	p.v = p.v&^0x7BE0 | p.t&0x7BE0
}

func (p *PPU) renderPixel(b *bus.Bus, regs *bus.PPURegisters) {
	x := p.dot - 1
	mask := regs.Mask()

	var bgColor, bgPalette uint8
	if mask&bus.MaskShowBg != 0 && (x >= 8 || mask&bus.MaskShowBgLeft != 0) {
		shift := 15 - p.x
		bgColor = uint8((p.bgShiftHi>>shift)&1)<<1 | uint8((p.bgShiftLo>>shift)&1)
		bgPalette = uint8((p.atShiftHi>>shift)&1)<<1 | uint8((p.atShiftLo>>shift)&1)
	}

	var spColor uint8
	var sp *spriteUnit
	if mask&bus.MaskShowSprites != 0 && (x >= 8 || mask&bus.MaskShowSpritesLeft != 0) {
		sp, spColor = p.spritePixel(x)
	}

	var index uint8
	switch {
	case bgColor == 0 && spColor == 0:
		index = 0
	case bgColor == 0:
		index = 0x10 | sp.palette()<<2 | spColor
	case spColor == 0:
		index = bgPalette<<2 | bgColor
	default:
		if sp.sprite0 && x != 255 {
			regs.SetStatusFlag(bus.StatusSprite0Hit, true)
		}
		if sp.behindBackground() {
			index = bgPalette<<2 | bgColor
		} else {
			index = 0x10 | sp.palette()<<2 | spColor
		}
	}

	color := b.ReadPalette(index)
	if mask&bus.MaskGreyscale != 0 {
		color &= 0x30
	}
	p.frame.set(x, p.scanline, color)
}

// backdrop is the color shown while rendering is off. When v points into
// palette RAM the PPU outputs that entry instead of the backdrop.
func (p *PPU) backdrop(b *bus.Bus) uint8 {
	address := p.v & addr.PPUAddressMask
	if address >= addr.PaletteStart {
		return b.ReadPalette(uint8(address & addr.PaletteMask))
	}
	return b.ReadPalette(0)
}

// processAccess updates the loopy registers from a CPU access to the PPU
// register block.
func (p *PPU) processAccess(b *bus.Bus, access bus.RegisterAccess, rendering bool) {
	switch access.Register {
	case addr.PPUCTRL:
		p.t = p.t&^0x0C00 | uint16(access.Value&bus.CtrlNametableMask)<<10
	case addr.PPUSCROLL:
		if access.FirstWrite {
			p.t = p.t&^0x001F | uint16(access.Value>>3)
			p.x = access.Value & 0x07
		} else {
			p.t = p.t&^0x73E0 | uint16(access.Value&0x07)<<12 | uint16(access.Value&0xF8)<<2
		}
	case addr.PPUADDR:
		if access.FirstWrite {
			p.t = p.t&0x00FF | uint16(access.Value&0x3F)<<8
		} else {
			p.t = p.t&0xFF00 | uint16(access.Value)
			p.v = p.t
			b.SetPPUBusAddress(p.v)
		}
	case addr.PPUDATA:
		if rendering && (p.scanline < ScreenHeight || p.scanline == preRenderScanline) {
			// accessing the data port mid-render bumps both scroll counters
			p.incrementCoarseX()
			p.incrementY()
			return
		}
		if b.PPURegisters().Ctrl()&bus.CtrlIncrement32 != 0 {
			p.v += 32
		} else {
			p.v++
		}
		p.v &= 0x7FFF
		b.SetPPUBusAddress(p.v)
	}
}

// Reset returns the PPU to the start of the pre-render line, as on power
// up, without touching the frame contents.
func (p *PPU) Reset() {
	*p = PPU{scanline: preRenderScanline, frame: p.frame}
}
