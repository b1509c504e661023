// Package gonesis ties the NES units together into a runnable machine.
package gonesis

import (
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash"

	"github.com/valerio/gonesis/gonesis/apu"
	"github.com/valerio/gonesis/gonesis/bus"
	"github.com/valerio/gonesis/gonesis/cartridge"
	"github.com/valerio/gonesis/gonesis/cpu"
	"github.com/valerio/gonesis/gonesis/ppu"
)

// AudioSink receives one APU sample per APU clock edge, in the range the
// mixer produces (roughly -1 to 1 after the high pass filter).
type AudioSink interface {
	PushSample(sample float64)
}

// StepResult describes what one call to Step did.
type StepResult struct {
	Cycles int
	// FrameComplete is set when the PPU entered vblank during the step.
	FrameComplete bool
	// Samples is the number of APU clock edges, each of which produced a
	// sample.
	Samples int
}

// Console is a complete NES. It is not safe for concurrent use.
type Console struct {
	cart    *cartridge.Cartridge
	cfg     Config
	romHash uint64

	m *machine
}

// machine is the mutable part of a Console. LoadState builds a new one and
// swaps it in only once it has been fully restored.
type machine struct {
	cpu *cpu.CPU
	bus *bus.Bus
	ppu *ppu.PPU
	apu *apu.APU

	audio AudioSink

	frameComplete bool
	samples       int
}

// NewConsole powers on a console with cart inserted and runs the reset
// sequence.
func NewConsole(cart *cartridge.Cartridge, cfg Config) (*Console, error) {
	m, err := newMachine(cart, cfg)
	if err != nil {
		return nil, err
	}

	c := &Console{
		cart:    cart,
		cfg:     cfg,
		romHash: romHash(cart),
		m:       m,
	}
	m.cpu.Reset()

	slog.Info("loaded cartridge",
		"mapper", m.bus.Mapper().Name(),
		"prg", len(cart.PRGROM()),
		"chr", len(cart.CHRROM()),
		"chrRAM", cart.HasCHRRAM(),
		"hash", fmt.Sprintf("%016x", c.romHash))

	return c, nil
}

func newMachine(cart *cartridge.Cartridge, cfg Config) (*machine, error) {
	mapper, err := cartridge.NewMapper(cart)
	if err != nil {
		return nil, err
	}

	m := &machine{
		bus: bus.New(mapper, cfg.Seed),
		ppu: ppu.New(),
		apu: apu.New(),
	}
	m.cpu = cpu.New(&cpuBus{m: m})
	return m, nil
}

// romHash identifies the ROM contents a snapshot was taken with.
func romHash(cart *cartridge.Cartridge) uint64 {
	d := xxhash.New()
	d.Write(cart.PRGROM())
	d.Write(cart.CHRROM())
	return d.Sum64()
}

// tick advances everything but the CPU by one CPU cycle, after the CPU has
// made its access for the cycle.
func (m *machine) tick() {
	m.bus.Tick()

	m.apu.Tick(m.bus)
	if m.apu.IsActiveCycle() {
		m.samples++
		if m.audio != nil {
			m.audio.PushSample(m.apu.Sample())
		}
	}

	m.tickPPU()
	m.bus.PollInterruptLines()
	m.tickPPU()
	m.tickPPU()
}

func (m *machine) tickPPU() {
	if m.ppu.Tick(m.bus) == ppu.FrameComplete {
		m.frameComplete = true
	}
}

// Step runs one CPU instruction (or interrupt sequence, or OAM DMA) and the
// rest of the machine alongside it.
func (c *Console) Step() StepResult {
	m := c.m
	m.frameComplete = false
	m.samples = 0

	cycles := m.cpu.Step()

	return StepResult{
		Cycles:        cycles,
		FrameComplete: m.frameComplete,
		Samples:       m.samples,
	}
}

// RunUntilFrame steps until the PPU completes a frame and returns the
// number of CPU cycles spent.
func (c *Console) RunUntilFrame() int {
	total := 0
	for {
		r := c.Step()
		total += r.Cycles
		if r.FrameComplete {
			return total
		}
	}
}

// FrameBuffer returns the most recently rendered frame. It is overwritten
// in place as rendering continues.
func (c *Console) FrameBuffer() *ppu.FrameBuffer {
	return c.m.ppu.FrameBuffer()
}

// Frames returns the number of frames completed since power on.
func (c *Console) Frames() uint64 {
	return c.m.ppu.Frames()
}

// Cycles returns the number of CPU cycles run since power on.
func (c *Console) Cycles() uint64 {
	return c.m.cpu.Cycles()
}

// SetAudioSink sets the receiver for APU samples. A nil sink discards them.
func (c *Console) SetAudioSink(sink AudioSink) {
	c.m.audio = sink
}

// SetJoypad sets the buttons held on controller port 0 or 1.
func (c *Console) SetJoypad(port int, buttons bus.Button) {
	c.m.bus.SetJoypad(port, buttons)
}

// APU exposes the audio unit for channel muting.
func (c *Console) APU() *apu.APU {
	return c.m.apu
}

// Cartridge returns the inserted cartridge.
func (c *Console) Cartridge() *cartridge.Cartridge {
	return c.cart
}

// Trace formats the instruction at PC along with the register file, without
// side effects on the bus.
func (c *Console) Trace() string {
	return c.m.cpu.Trace(c.m.bus.Peek)
}

// cpuBus is the CPU's view of the machine. Every access clocks the rest of
// the system for one cycle.
type cpuBus struct {
	m *machine
}

func (b *cpuBus) Read(address uint16) uint8 {
	value := b.m.bus.CPURead(address)
	b.m.tick()
	return value
}

func (b *cpuBus) Write(address uint16, value uint8) {
	b.m.bus.QueueWrite(address, value)
	b.m.tick()
}

func (b *cpuBus) NMIPending() bool {
	return b.m.bus.NMITriggered()
}

func (b *cpuBus) AcknowledgeNMI() {
	b.m.bus.AcknowledgeNMI()
}

func (b *cpuBus) IRQPending() bool {
	return b.m.bus.IRQTriggered()
}

func (b *cpuBus) OAMDMA() (page uint8, pending bool) {
	return b.m.bus.OAMDMAPage()
}

func (b *cpuBus) ClearOAMDMA() {
	b.m.bus.ClearOAMDMA()
}
