package gonesis

import (
	"fmt"
	"strings"

	"github.com/valerio/gonesis/gonesis/apu"
	"github.com/valerio/gonesis/gonesis/bus"
	"github.com/valerio/gonesis/gonesis/debug"
)

// DebugLines summarizes the machine for a debug panel: the next
// instruction, PPU position, sprites on the current line and the APU mix.
func (c *Console) DebugLines() []string {
	scanline, dot := c.m.ppu.Position()

	spriteHeight := 8
	if c.m.bus.PPURegisters().Ctrl()&bus.CtrlTallSprites != 0 {
		spriteHeight = 16
	}
	oam := debug.ExtractOAMData(c.m.bus.OAM(), scanline, spriteHeight)

	var channels []string
	for ch, audible := range c.m.apu.ChannelStatus() {
		state := "on"
		if !audible {
			state = "off"
		}
		channels = append(channels, fmt.Sprintf("%s:%s", apu.Channel(ch), state))
	}

	return []string{
		c.Trace(),
		fmt.Sprintf("frame %d  scanline %d  dot %d", c.Frames(), scanline, dot),
		oam.FormatSummary(),
		strings.Join(channels, " "),
	}
}
