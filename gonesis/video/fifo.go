package video

import (
	"fmt"

	"github.com/valerio/gonesis/gonesis/bit"
)

const (
	queueCapacity   = 16
	refillThreshold = 6
	// PreRoll is how many columns the pipeline runs ahead of visible output.
	// It matches the OAM X offset, so sprite X and FIFO column line up.
	PreRoll = 8
	// MaxX is the column at which a scanline is complete.
	MaxX             = ScreenWidth + PreRoll
	initialDelay     = 6
	spriteFetchDelay = 6
)

// LCDC bits
const (
	lcdcBGEnable       = 0
	lcdcSpriteEnable   = 1
	lcdcSpriteSize     = 2
	lcdcBGTileMap      = 3
	lcdcTileDataSelect = 4
	lcdcDisplayEnable  = 7
)

// Registers is the subset of LCD registers the pixel pipeline reads.
type Registers struct {
	LCDC uint8
	STAT uint8
	SCY  uint8
	SCX  uint8
	LY   uint8
	BGP  uint8
	OBP0 uint8
	OBP1 uint8
}

type pixel struct {
	color    uint8
	sprite   bool
	obp1     bool
	behindBG bool
}

// pixelQueue is a fixed size ring buffer of pixels.
type pixelQueue struct {
	pixels [queueCapacity]pixel
	head   int
	len    int
}

func (q *pixelQueue) push(p pixel) {
	if q.len == queueCapacity {
		panic("pixel queue overflow")
	}
	q.pixels[(q.head+q.len)%queueCapacity] = p
	q.len++
}

func (q *pixelQueue) pop() pixel {
	if q.len == 0 {
		panic("pixel queue underflow")
	}
	p := q.pixels[q.head]
	q.head = (q.head + 1) % queueCapacity
	q.len--
	return p
}

// at returns a pointer to the i-th queued pixel, oldest first.
func (q *pixelQueue) at(i int) *pixel {
	return &q.pixels[(q.head+i)%queueCapacity]
}

func (q *pixelQueue) clear() {
	q.head = 0
	q.len = 0
}

// PixelFIFO produces one scanline of background and sprite pixels, one
// pixel per dot once primed.
//
// The fetcher starts one tile to the left of the screen: those 8 pixels
// fill the pre-roll, and the first visible pixel is tile (SCX / 8) at
// sub-pixel SCX % 8.
type PixelFIFO struct {
	bg      pixelQueue
	sprites pixelQueue

	line       int
	x          int
	fineScroll int
	fetchTile  int
	delay      int

	// fetches counts tile-row fetches on the current line.
	fetches int
}

// StartNewLine resets the pipeline for scanline line.
func (f *PixelFIFO) StartNewLine(line int, regs *Registers) {
	f.bg.clear()
	f.sprites.clear()
	f.line = line
	f.x = 0
	f.fineScroll = int(regs.SCX & 0x07)
	f.fetchTile = 0
	f.delay = 0
	f.fetches = 0
}

// X returns the current output column, in OAM coordinates.
func (f *PixelFIFO) X() int {
	return f.x
}

// Fetches returns the number of background tile-row fetches this line.
func (f *PixelFIFO) Fetches() int {
	return f.fetches
}

// Busy reports whether the pipeline is stalled on a fetch.
func (f *PixelFIFO) Busy() bool {
	return f.delay > 0
}

// DoneWithLine reports whether the scanline has been fully emitted.
func (f *PixelFIFO) DoneWithLine() bool {
	return f.x >= MaxX
}

// Tick advances the pipeline by one dot.
func (f *PixelFIFO) Tick(vram MemoryReader, regs *Registers, fb *FrameBuffer) {
	if f.delay > 0 {
		f.delay--
		return
	}

	if f.DoneWithLine() {
		return
	}

	if f.x == 0 && f.bg.len == 0 {
		f.fetchBackgroundRow(vram, regs)
		for i := 0; i < f.fineScroll; i++ {
			f.bg.pop()
		}
		if f.bg.len <= refillThreshold {
			f.fetchBackgroundRow(vram, regs)
		}
		f.delay = initialDelay + f.fineScroll
		return
	}

	bg := f.bg.pop()
	out := bg
	if f.sprites.len > 0 {
		sp := f.sprites.pop()
		if sp.color != 0 && bit.IsSet(lcdcSpriteEnable, regs.LCDC) && !(sp.behindBG && bg.color != 0) {
			out = sp
		}
	}

	if f.x >= PreRoll {
		fb.SetPixel(uint(f.x-PreRoll), uint(f.line), f.shade(out, regs))
	}
	f.x++

	if f.bg.len <= refillThreshold && f.x < MaxX {
		f.fetchBackgroundRow(vram, regs)
	}
}

func (f *PixelFIFO) shade(p pixel, regs *Registers) GBColor {
	switch {
	case !p.sprite:
		return applyPalette(regs.BGP, p.color)
	case p.obp1:
		return applyPalette(regs.OBP1, p.color)
	default:
		return applyPalette(regs.OBP0, p.color)
	}
}

// fetchBackgroundRow reads the next tile of the background map and pushes
// its 8 pixels. Scroll registers are sampled at fetch time.
func (f *PixelFIFO) fetchBackgroundRow(vram MemoryReader, regs *Registers) {
	f.fetches++
	tileColumn := (int(regs.SCX>>3) + f.fetchTile - 1) & 0x1F
	f.fetchTile++

	if !bit.IsSet(lcdcBGEnable, regs.LCDC) {
		for range 8 {
			f.bg.push(pixel{})
		}
		return
	}

	y := (int(regs.SCY) + f.line) & 0xFF

	mapBase := uint16(tileMap0)
	if bit.IsSet(lcdcBGTileMap, regs.LCDC) {
		mapBase = tileMap1
	}
	index := vram.Read(mapBase + uint16((y>>3)*32+tileColumn))
	row := FetchTileRow(vram, backgroundTileAddress(regs.LCDC, index), y&0x07)

	for px := range 8 {
		f.bg.push(pixel{color: row.Pixel(px)})
	}
}

// LoadSprite merges the row of s visible on the current line into the
// sprite queue, aligned to the current column. Pixels already claimed by an
// earlier sprite keep priority.
func (f *PixelFIFO) LoadSprite(vram MemoryReader, s *Sprite) {
	base, rowIndex := s.rowAddress(f.line)
	if rowIndex < 0 || rowIndex >= s.Height {
		panic(fmt.Sprintf("sprite %d does not cover line %d", s.OAMIndex, f.line))
	}
	row := FetchTileRow(vram, base, rowIndex)

	for i := range 8 {
		color := row.Pixel(i)
		if s.FlipX {
			color = row.PixelFlipped(i)
		}
		p := pixel{color: color, sprite: true, obp1: s.PaletteOBP1, behindBG: s.BehindBG}

		if i < f.sprites.len {
			if existing := f.sprites.at(i); existing.color == 0 {
				*existing = p
			}
			continue
		}
		f.sprites.push(p)
	}

	f.delay += spriteFetchDelay
}
