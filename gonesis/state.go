package gonesis

import (
	"fmt"
	"io"

	"github.com/valerio/gonesis/gonesis/apu"
	"github.com/valerio/gonesis/gonesis/bus"
	"github.com/valerio/gonesis/gonesis/cpu"
	"github.com/valerio/gonesis/gonesis/ppu"
	"github.com/valerio/gonesis/gonesis/snapshot"
)

// State is everything needed to resume a console, minus the ROM itself.
// ROMHash ties it to the cartridge it was taken with.
type State struct {
	ROMHash uint64

	CPU cpu.State
	Bus bus.State
	PPU ppu.State
	APU apu.State
}

func (m *machine) state() State {
	return State{
		CPU: m.cpu.State(),
		Bus: m.bus.State(),
		PPU: m.ppu.State(),
		APU: m.apu.State(),
	}
}

func (m *machine) restore(s State) error {
	if len(s.PPU.Frame) != ppu.ScreenWidth*ppu.ScreenHeight {
		return fmt.Errorf("frame has %d pixels", len(s.PPU.Frame))
	}
	if err := m.bus.Restore(s.Bus); err != nil {
		return err
	}
	m.cpu.Restore(s.CPU)
	m.ppu.Restore(s.PPU)
	m.apu.Restore(s.APU)
	return nil
}

// SaveState writes a snapshot of the console to w.
func (c *Console) SaveState(w io.Writer) error {
	s := c.m.state()
	s.ROMHash = c.romHash
	return snapshot.Write(w, s)
}

// LoadState replaces the console state with the snapshot read from r. On
// any error, which is always a *snapshot.DecodeError, the console is left
// exactly as it was. Channel mutes carry over from the running console.
func (c *Console) LoadState(r io.Reader) error {
	var s State
	if err := snapshot.Read(r, &s); err != nil {
		return err
	}
	if s.ROMHash != c.romHash {
		return &snapshot.DecodeError{
			Reason: fmt.Sprintf("taken with ROM %016x, running %016x", s.ROMHash, c.romHash),
		}
	}

	m, err := newMachine(c.cart, c.cfg)
	if err != nil {
		return &snapshot.DecodeError{Reason: "rebuilding machine", Err: err}
	}
	if err := m.restore(s); err != nil {
		return &snapshot.DecodeError{Reason: "incompatible state", Err: err}
	}

	m.audio = c.m.audio
	for ch, audible := range c.m.apu.ChannelStatus() {
		m.apu.MuteChannel(apu.Channel(ch), !audible)
	}
	c.m = m
	return nil
}
