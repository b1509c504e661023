package bus

import (
	"fmt"

	"github.com/valerio/gonesis/gonesis/addr"
)

const maxDirtyRegisters = 5

// IORegisters is the APU and controller register block at 0x4000-0x4017.
//
// Writes are stored as-is and recorded in a small dirty list. The APU
// drains that list once per CPU cycle, so register side effects land on a
// tick boundary instead of mid-instruction.
type IORegisters struct {
	data       [addr.IORegisterCount]uint8
	dirty      [maxDirtyRegisters]addr.IORegister
	dirtyLen   int
	dmaDirty   bool
	sndChnRead bool

	strobe  bool
	joypads [2]joypad
}

// Value returns the raw value last written to reg (or, for SndChn, the APU
// status the APU published).
func (r *IORegisters) Value(reg addr.IORegister) uint8 {
	return r.data[reg]
}

// SetAPUStatus publishes the byte returned by reads of 0x4015.
func (r *IORegisters) SetAPUStatus(status uint8) {
	r.data[addr.SndChn] = status
}

// DirtyRegisters returns the registers written since the last ClearDirty,
// oldest first.
func (r *IORegisters) DirtyRegisters() []addr.IORegister {
	return r.dirty[:r.dirtyLen]
}

// ClearDirty empties the dirty list.
func (r *IORegisters) ClearDirty() {
	r.dirtyLen = 0
}

// TakeSndChnRead reports whether 0x4015 was read since the last call.
func (r *IORegisters) TakeSndChnRead() bool {
	read := r.sndChnRead
	r.sndChnRead = false
	return read
}

func (r *IORegisters) markDirty(reg addr.IORegister) {
	for _, d := range r.dirty[:r.dirtyLen] {
		if d == reg {
			return
		}
	}
	if r.dirtyLen == maxDirtyRegisters {
		panic(fmt.Sprintf("IO dirty list overflow writing %#02x", uint8(reg)))
	}
	r.dirty[r.dirtyLen] = reg
	r.dirtyLen++
}

// read returns the value of a readable register. ok is false for write-only
// registers, whose reads return open bus.
func (r *IORegisters) read(reg addr.IORegister) (value uint8, ok bool) {
	switch reg {
	case addr.SndChn:
		r.sndChnRead = true
		return r.data[addr.SndChn], true
	case addr.Joy1:
		return r.joypads[0].read(r.strobe) | 0x40, true
	case addr.Joy2:
		return r.joypads[1].read(r.strobe) | 0x40, true
	default:
		return 0, false
	}
}

func (r *IORegisters) write(reg addr.IORegister, value uint8) {
	switch reg {
	case addr.SndChn:
		// the status byte shares the slot; the APU re-publishes it every tick
		r.data[reg] = value
		r.markDirty(reg)
	case addr.OAMDMA:
		r.data[reg] = value
		r.dmaDirty = true
	case addr.Joy1:
		r.data[reg] = value
		wasStrobe := r.strobe
		r.strobe = value&0x01 != 0
		if r.strobe || wasStrobe {
			r.joypads[0].latch()
			r.joypads[1].latch()
		}
	default:
		r.data[reg] = value
		r.markDirty(reg)
	}
}
