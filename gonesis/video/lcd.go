// Package video implements a Game Boy class LCD: a per-dot pixel FIFO fed
// by a background tile fetcher, sprite compositing, and the mode state
// machine that walks it through a frame.
//
// The NES console does not use this package. It is a standalone unit for a
// Game Boy class machine, driven through LCD.Tick with its own VRAM and
// register view.
package video

import "github.com/valerio/gonesis/gonesis/bit"

// Mode is the LCD mode reported in STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Transfer
)

const (
	oamScanDots  = 80
	scanlineDots = 456
	visibleLines = ScreenHeight
	totalLines   = 154
)

// LCD drives the pixel FIFO through OAM scan, pixel transfer and HBlank for
// each visible line, then ten lines of VBlank.
type LCD struct {
	fifo        PixelFIFO
	framebuffer *FrameBuffer

	line int
	dot  int
	mode Mode

	spriteBuf  [maxSpritesPerLine]Sprite
	sprites    []Sprite
	nextSprite int
}

func NewLCD() *LCD {
	return &LCD{
		framebuffer: NewFrameBuffer(ScreenWidth, ScreenHeight),
		mode:        OAMScan,
	}
}

func (l *LCD) FrameBuffer() *FrameBuffer {
	return l.framebuffer
}

func (l *LCD) Mode() Mode {
	return l.mode
}

func (l *LCD) Line() int {
	return l.line
}

// Tick advances the LCD by one dot. It returns true on the dot VBlank
// starts, which is when a complete frame is available.
func (l *LCD) Tick(vram MemoryReader, oam *OAM, regs *Registers) bool {
	if !bit.IsSet(lcdcDisplayEnable, regs.LCDC) {
		return false
	}

	frameDone := false

	switch l.mode {
	case OAMScan:
		if l.dot == 0 {
			l.sprites = oam.ScanLine(&l.spriteBuf, l.line, bit.IsSet(lcdcSpriteSize, regs.LCDC))
			l.nextSprite = 0
		}
		if l.dot == oamScanDots-1 {
			l.mode = Transfer
			l.fifo.StartNewLine(l.line, regs)
		}
	case Transfer:
		l.loadSprites(vram, regs)
		l.fifo.Tick(vram, regs, l.framebuffer)
		if l.fifo.DoneWithLine() {
			l.mode = HBlank
		}
	}

	l.dot++
	if l.dot == scanlineDots {
		l.dot = 0
		l.line++

		switch {
		case l.line == visibleLines:
			l.mode = VBlank
			frameDone = true
		case l.line == totalLines:
			l.line = 0
			l.mode = OAMScan
		case l.line < visibleLines:
			l.mode = OAMScan
		}
	}

	regs.LY = uint8(l.line)
	regs.STAT = regs.STAT&^0x03 | uint8(l.mode)
	return frameDone
}

func (l *LCD) loadSprites(vram MemoryReader, regs *Registers) {
	if !bit.IsSet(lcdcSpriteEnable, regs.LCDC) || l.fifo.Busy() {
		return
	}
	// the initial background fetch has to land before sprites can merge
	if l.fifo.X() == 0 && l.fifo.bg.len == 0 {
		return
	}
	for l.nextSprite < len(l.sprites) && int(l.sprites[l.nextSprite].X) == l.fifo.X() {
		l.fifo.LoadSprite(vram, &l.sprites[l.nextSprite])
		l.nextSprite++
	}
}
