package cartridge

// Mirroring selects how the four logical nametables map onto VRAM.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	SingleScreenLower
	SingleScreenUpper
	// FourScreen boards carry 4KB of extra VRAM so every nametable is
	// distinct. It is only ever selected from the header.
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleScreenLower:
		return "single-lower"
	case SingleScreenUpper:
		return "single-upper"
	case FourScreen:
		return "four-screen"
	default:
		return "unknown"
	}
}

// nametableOffset maps a PPU address in 0x2000-0x3EFF to an offset into
// the console's 2KB VRAM. FourScreen addresses are handled by the caller.
func (m Mirroring) nametableOffset(address uint16) uint16 {
	relative := address & 0x0FFF

	switch m {
	case Horizontal:
		return ((relative & 0x0800) >> 1) | (relative & 0x03FF)
	case Vertical:
		return relative & 0x07FF
	case SingleScreenLower:
		return relative & 0x03FF
	case SingleScreenUpper:
		return 0x0400 | (relative & 0x03FF)
	default:
		panic("nametableOffset called with four-screen mirroring")
	}
}
