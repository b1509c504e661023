package bus

import (
	"github.com/valerio/gonesis/gonesis/addr"
	"github.com/valerio/gonesis/gonesis/cartridge"
	"github.com/valerio/gonesis/gonesis/interrupt"
)

// PPURegistersState is the serializable form of PPURegisters.
type PPURegistersState struct {
	Ctrl, Mask, Status, OAMAddr uint8
	DataBuffer, OpenBus         uint8
	FirstWrite, StatusRead      bool
	Access                      RegisterAccess
	AccessValid                 bool
}

// IORegistersState is the serializable form of IORegisters.
type IORegistersState struct {
	Data       [addr.IORegisterCount]uint8
	Dirty      []addr.IORegister
	DMADirty   bool
	SndChnRead bool
	Strobe     bool
	Pressed    [2]Button
	Shift      [2]uint8
}

// State is everything on the bus that changes at runtime. The mapper's
// state is included but the cartridge ROM is not.
type State struct {
	RAM        [2048]uint8
	VRAM       [2048]uint8
	PaletteRAM [32]uint8
	OAM        [256]uint8

	PPURegisters  PPURegistersState
	IORegisters   IORegistersState
	PPUBusAddress uint16
	CPUOpenBus    uint8

	Interrupts interrupt.State
	Pending    []PendingWrite
	Mapper     cartridge.MapperState
}

// State captures the bus for a snapshot.
func (b *Bus) State() State {
	r := &b.ppuRegisters
	io := &b.ioRegisters

	s := State{
		RAM:        b.ram,
		VRAM:       b.vram,
		PaletteRAM: b.paletteRAM,
		OAM:        b.oam,
		PPURegisters: PPURegistersState{
			Ctrl:        r.ctrl,
			Mask:        r.mask,
			Status:      r.status,
			OAMAddr:     r.oamAddr,
			DataBuffer:  r.dataBuffer,
			OpenBus:     r.openBus,
			FirstWrite:  r.firstWrite,
			StatusRead:  r.statusRead,
			Access:      r.access,
			AccessValid: r.accessValid,
		},
		IORegisters: IORegistersState{
			Data:       io.data,
			Dirty:      append([]addr.IORegister(nil), io.DirtyRegisters()...),
			DMADirty:   io.dmaDirty,
			SndChnRead: io.sndChnRead,
			Strobe:     io.strobe,
			Pressed:    [2]Button{io.joypads[0].pressed, io.joypads[1].pressed},
			Shift:      [2]uint8{io.joypads[0].shift, io.joypads[1].shift},
		},
		PPUBusAddress: b.ppuBusAddress,
		CPUOpenBus:    b.cpuOpenBus,
		Interrupts:    b.interrupts.State(),
		Pending:       append([]PendingWrite(nil), b.pending[:b.pendingLen]...),
		Mapper:        b.mapper.State(),
	}

	return s
}

// Restore loads s. The mapper is restored first so an incompatible
// snapshot leaves the bus untouched.
func (b *Bus) Restore(s State) error {
	if len(s.Pending) > maxPendingWrites || len(s.IORegisters.Dirty) > maxDirtyRegisters {
		return errCorruptQueues
	}
	if err := b.mapper.Restore(s.Mapper); err != nil {
		return err
	}

	b.ram = s.RAM
	b.vram = s.VRAM
	b.paletteRAM = s.PaletteRAM
	b.oam = s.OAM

	p := s.PPURegisters
	b.ppuRegisters = PPURegisters{
		ctrl:        p.Ctrl,
		mask:        p.Mask,
		status:      p.Status,
		oamAddr:     p.OAMAddr,
		dataBuffer:  p.DataBuffer,
		openBus:     p.OpenBus,
		firstWrite:  p.FirstWrite,
		statusRead:  p.StatusRead,
		access:      p.Access,
		accessValid: p.AccessValid,
	}

	io := s.IORegisters
	b.ioRegisters = IORegisters{
		data:       io.Data,
		dmaDirty:   io.DMADirty,
		sndChnRead: io.SndChnRead,
		strobe:     io.Strobe,
	}
	b.ioRegisters.dirtyLen = copy(b.ioRegisters.dirty[:], io.Dirty)
	for i := range b.ioRegisters.joypads {
		b.ioRegisters.joypads[i] = joypad{pressed: io.Pressed[i], shift: io.Shift[i]}
	}

	b.ppuBusAddress = s.PPUBusAddress
	b.cpuOpenBus = s.CPUOpenBus
	b.interrupts.Restore(s.Interrupts)
	b.pendingLen = copy(b.pending[:], s.Pending)

	return nil
}
