package cartridge

import (
	"bytes"
	"fmt"
)

// MapperState is the mutable part of a Mapper: banking registers and
// cartridge RAM. ROM contents are deliberately absent.
type MapperState struct {
	Kind      Kind
	Mirroring Mirroring
	PRGRAM    []byte
	CHRRAM    []byte
	ExtVRAM   []byte

	UxROM UxROMRegisters
	CNROM CNROMRegisters
	AxROM AxROMRegisters
	MMC1  MMC1Registers
	MMC3  MMC3Registers
}

// State copies the mapper's mutable state.
func (m *Mapper) State() MapperState {
	return MapperState{
		Kind:      m.kind,
		Mirroring: m.mirroring,
		PRGRAM:    bytes.Clone(m.prgRAM),
		CHRRAM:    bytes.Clone(m.chrRAM),
		ExtVRAM:   bytes.Clone(m.extVRAM),
		UxROM:     m.uxrom,
		CNROM:     m.cnrom,
		AxROM:     m.axrom,
		MMC1:      m.mmc1,
		MMC3:      m.mmc3,
	}
}

// Restore loads s into the mapper, keeping the ROM of the cartridge the
// mapper was built from. It fails without modifying the mapper if s does
// not describe the same board.
func (m *Mapper) Restore(s MapperState) error {
	if s.Kind != m.kind {
		return fmt.Errorf("snapshot is for a %s board, cartridge is %s", s.Kind, m.kind)
	}
	if len(s.PRGRAM) != len(m.prgRAM) || len(s.CHRRAM) != len(m.chrRAM) || len(s.ExtVRAM) != len(m.extVRAM) {
		return fmt.Errorf("snapshot RAM sizes (%d/%d/%d) do not match cartridge (%d/%d/%d)",
			len(s.PRGRAM), len(s.CHRRAM), len(s.ExtVRAM), len(m.prgRAM), len(m.chrRAM), len(m.extVRAM))
	}
	if (s.Mirroring == FourScreen) != (m.mirroring == FourScreen) {
		return fmt.Errorf("snapshot mirroring %s incompatible with %s", s.Mirroring, m.mirroring)
	}

	m.mirroring = s.Mirroring
	copy(m.prgRAM, s.PRGRAM)
	copy(m.chrRAM, s.CHRRAM)
	copy(m.extVRAM, s.ExtVRAM)
	m.uxrom = s.UxROM
	m.cnrom = s.CNROM
	m.axrom = s.AxROM
	m.mmc1 = s.MMC1
	m.mmc3 = s.MMC3

	return nil
}
