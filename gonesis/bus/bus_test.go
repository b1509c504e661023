package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/gonesis/gonesis/addr"
	"github.com/valerio/gonesis/gonesis/cartridge"
	"github.com/valerio/gonesis/gonesis/interrupt"
)

func testImage(mapper uint8, prgBanks, chrBanks int) []byte {
	header := []byte{'N', 'E', 'S', 0x1A, uint8(prgBanks), uint8(chrBanks), mapper << 4, mapper & 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	data := append(header, make([]byte, prgBanks*16*1024+chrBanks*8*1024)...)
	for i := 16; i < 16+prgBanks*16*1024; i++ {
		data[i] = 0xEA
	}
	return data
}

func newTestBus(t *testing.T, mapper uint8) *Bus {
	t.Helper()
	cart, err := cartridge.Parse(testImage(mapper, 2, 1))
	require.NoError(t, err)
	m, err := cartridge.NewMapper(cart)
	require.NoError(t, err)
	return New(m, 1)
}

func write(b *Bus, address uint16, value uint8) {
	b.QueueWrite(address, value)
	b.Tick()
}

func TestRAMMirroringAndDelayedWrites(t *testing.T) {
	b := newTestBus(t, 0)
	before := b.CPURead(0x0001)

	b.QueueWrite(0x0001, before+1)
	assert.Equal(t, before, b.CPURead(0x0001), "queued writes are not visible before the tick")

	b.Tick()
	for _, mirror := range []uint16{0x0001, 0x0801, 0x1001, 0x1801} {
		assert.Equal(t, before+1, b.CPURead(mirror), "mirror 0x%04X", mirror)
	}
}

func TestPendingWritesApplyInOrder(t *testing.T) {
	b := newTestBus(t, 0)
	b.QueueWrite(0x0010, 1)
	b.QueueWrite(0x0011, 2)
	b.QueueWrite(0x0010, 3)
	b.Tick()

	assert.Equal(t, uint8(3), b.CPURead(0x0010))
	assert.Equal(t, uint8(2), b.CPURead(0x0011))
}

func TestPendingWriteOverflowPanics(t *testing.T) {
	b := newTestBus(t, 0)
	for i := 0; i < maxPendingWrites; i++ {
		b.QueueWrite(uint16(i), 0)
	}
	assert.Panics(t, func() { b.QueueWrite(0x0100, 0) })
}

func TestSeededRAM(t *testing.T) {
	cart, err := cartridge.Parse(testImage(0, 1, 1))
	require.NoError(t, err)
	m, err := cartridge.NewMapper(cart)
	require.NoError(t, err)

	a := New(m, 42)
	b := New(m, 42)
	c := New(m, 43)

	assert.Equal(t, a.ram, b.ram)
	assert.NotEqual(t, a.ram, c.ram)
	assert.NotEqual(t, [2048]uint8{}, a.ram)
}

func TestPPURegisterOpenBus(t *testing.T) {
	b := newTestBus(t, 0)

	write(b, 0x2000, 0x5A)
	assert.Equal(t, uint8(0x5A), b.CPURead(0x2001), "write-only register returns latch")
	assert.Equal(t, uint8(0x5A), b.CPURead(0x3FF9), "mirrored every 8 bytes")

	status := b.CPURead(0x2002)
	assert.Equal(t, (uint8(0xA0)&0xE0)|(0x5A&0x1F), status)
	assert.Equal(t, status, b.CPURead(0x2005), "status read refreshes the latch")
}

func TestStatusReadSideEffects(t *testing.T) {
	b := newTestBus(t, 0)
	b.ppuRegisters.SetStatusFlag(StatusVBlank, true)

	write(b, 0x2005, 0x10)
	assert.False(t, b.ppuRegisters.firstWrite)

	b.CPURead(0x2002)
	assert.NotZero(t, b.ppuRegisters.Status()&StatusVBlank, "cleared on the next tick, not during the read")

	b.Tick()
	assert.Zero(t, b.ppuRegisters.Status()&StatusVBlank)
	assert.True(t, b.ppuRegisters.firstWrite)
}

func TestNMILine(t *testing.T) {
	b := newTestBus(t, 0)
	b.ppuRegisters.SetStatusFlag(StatusVBlank, false)
	write(b, 0x2000, CtrlNMIEnable)
	b.PollInterruptLines()
	assert.False(t, b.NMITriggered())

	b.ppuRegisters.SetStatusFlag(StatusVBlank, true)
	b.Tick()
	assert.False(t, b.NMITriggered(), "line changes become visible when polled")
	b.PollInterruptLines()
	assert.True(t, b.NMITriggered())

	b.AcknowledgeNMI()
	assert.False(t, b.NMITriggered())
}

func TestPPUDataBuffering(t *testing.T) {
	b := newTestBus(t, 0)

	b.PPUWrite(0x2005, 0x11)
	b.PPUWrite(0x3F05, 0x22)
	b.PPUWrite(0x2F05, 0x33)

	b.SetPPUBusAddress(0x2005)
	first := b.CPURead(0x2007)
	second := b.CPURead(0x2007)
	assert.NotEqual(t, uint8(0x11), first, "first read returns the stale buffer")
	assert.Equal(t, uint8(0x11), second)

	access, ok := b.ppuRegisters.TakeAccess()
	require.True(t, ok)
	assert.Equal(t, RegisterAccess{Register: addr.PPUDATA, Value: 0x11, FirstWrite: true}, access)

	b.SetPPUBusAddress(0x3F05)
	assert.Equal(t, uint8(0x22), b.CPURead(0x2007)&0x3F, "palette reads are immediate")
	assert.Equal(t, uint8(0x33), b.ppuRegisters.dataBuffer, "buffer refilled from the nametable below")
}

func TestPPUDataWrite(t *testing.T) {
	b := newTestBus(t, 0)
	b.SetPPUBusAddress(0x2400)
	write(b, 0x2007, 0x77)
	assert.Equal(t, uint8(0x77), b.PPURead(0x2400))
}

func TestPaletteMirrors(t *testing.T) {
	b := newTestBus(t, 0)
	for _, pair := range [][2]uint16{{0x3F10, 0x3F00}, {0x3F14, 0x3F04}, {0x3F18, 0x3F08}, {0x3F1C, 0x3F0C}, {0x3F21, 0x3F01}} {
		b.PPUWrite(pair[0], 0x2A)
		assert.Equal(t, uint8(0x2A), b.PPURead(pair[1]), "0x%04X -> 0x%04X", pair[0], pair[1])
		b.PPUWrite(pair[0], 0)
	}

	b.PPUWrite(0x3F11, 0x15)
	assert.Zero(t, b.PPURead(0x3F01), "sprite palette entries other than the backdrop are distinct")
}

func TestOAMData(t *testing.T) {
	b := newTestBus(t, 0)
	write(b, 0x2003, 0x10)
	write(b, 0x2004, 0xAA)
	write(b, 0x2004, 0xBB)

	assert.Equal(t, uint8(0x12), b.ppuRegisters.OAMAddr())
	assert.Equal(t, uint8(0xAA), b.oam[0x10])
	assert.Equal(t, uint8(0xBB), b.oam[0x11])

	write(b, 0x2003, 0x11)
	assert.Equal(t, uint8(0xBB), b.CPURead(0x2004))
}

func TestIORegisters(t *testing.T) {
	b := newTestBus(t, 0)

	t.Run("writes mark registers dirty", func(t *testing.T) {
		write(b, 0x4000, 0x3F)
		write(b, 0x4017, 0x40)
		assert.Equal(t, []uint8{0x00, 0x17}, toBytes(b.ioRegisters.DirtyRegisters()))
		assert.Equal(t, uint8(0x3F), b.ioRegisters.Value(0))
		b.ioRegisters.ClearDirty()
		assert.Empty(t, b.ioRegisters.DirtyRegisters())
	})

	t.Run("write-only registers read open bus", func(t *testing.T) {
		write(b, 0x4002, 0x12)
		assert.Equal(t, uint8(0x12), b.CPURead(0x4002))
		b.CPURead(0x0000)
		assert.Equal(t, b.CPURead(0x0000), b.CPURead(0x4008))
	})

	t.Run("status read flag", func(t *testing.T) {
		b.ioRegisters.SetAPUStatus(0x41)
		assert.Equal(t, uint8(0x41), b.CPURead(0x4015))
		assert.True(t, b.ioRegisters.TakeSndChnRead())
		assert.False(t, b.ioRegisters.TakeSndChnRead())
	})

	t.Run("OAM DMA request", func(t *testing.T) {
		write(b, 0x4014, 0x02)
		page, pending := b.OAMDMAPage()
		assert.True(t, pending)
		assert.Equal(t, uint8(0x02), page)
		b.ClearOAMDMA()
		_, pending = b.OAMDMAPage()
		assert.False(t, pending)
	})

	t.Run("test mode range", func(t *testing.T) {
		assert.Equal(t, uint8(0xFF), b.CPURead(0x401A))
	})
}

func toBytes(regs []addr.IORegister) []uint8 {
	out := make([]uint8, len(regs))
	for i, r := range regs {
		out[i] = uint8(r)
	}
	return out
}

func TestJoypad(t *testing.T) {
	b := newTestBus(t, 0)
	b.SetJoypad(0, ButtonA|ButtonStart|ButtonRight)
	b.SetJoypad(1, ButtonB)

	write(b, 0x4016, 1)
	assert.Equal(t, uint8(0x41), b.CPURead(0x4016), "strobe high keeps returning A")
	assert.Equal(t, uint8(0x41), b.CPURead(0x4016))
	write(b, 0x4016, 0)

	var got []uint8
	for i := 0; i < 10; i++ {
		got = append(got, b.CPURead(0x4016)&0x01)
	}
	assert.Equal(t, []uint8{1, 0, 0, 1, 0, 0, 0, 1, 1, 1}, got)

	assert.Equal(t, uint8(0x40), b.CPURead(0x4017))
	assert.Equal(t, uint8(0x41), b.CPURead(0x4017))
}

func TestCartridgeSpace(t *testing.T) {
	b := newTestBus(t, 0)
	assert.Equal(t, uint8(0xEA), b.CPURead(0x8000))
	assert.Equal(t, uint8(0xEA), b.Peek(0xFFFF))

	b.CPURead(0x8000)
	assert.Equal(t, uint8(0xEA), b.CPURead(0x5000), "unmapped cartridge space is open bus")
}

func TestMapperIRQPull(t *testing.T) {
	b := newTestBus(t, 4)
	write(b, 0xC000, 0)
	write(b, 0xE001, 0)

	// hold A12 low, then raise it
	for i := 0; i < 12; i++ {
		b.Tick()
	}
	b.PPURead(0x1000)
	b.Tick()

	assert.True(t, b.Interrupts().IRQLowPulled(interrupt.SourceMapper))
	b.PollInterruptLines()
	b.PollInterruptLines()
	assert.True(t, b.IRQTriggered())

	write(b, 0xE000, 0)
	assert.False(t, b.IRQTriggered())
}

func TestStateRestore(t *testing.T) {
	b := newTestBus(t, 0)
	write(b, 0x0123, 0x45)
	write(b, 0x2000, 0x90)
	b.PPUWrite(0x3F00, 0x0F)
	b.QueueWrite(0x0200, 0x99)
	state := b.State()

	other := newTestBus(t, 0)
	require.NoError(t, other.Restore(state))
	assert.Equal(t, b.State(), other.State())

	other.Tick()
	assert.Equal(t, uint8(0x99), other.CPURead(0x0200), "pending writes survive a restore")

	t.Run("corrupt queues rejected", func(t *testing.T) {
		bad := state
		bad.Pending = make([]PendingWrite, maxPendingWrites+1)
		fresh := newTestBus(t, 0)
		before := fresh.State()
		assert.Error(t, fresh.Restore(bad))
		assert.Equal(t, before, fresh.State())
	})
}
