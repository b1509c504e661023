package cartridge

import "testing"

type romSpec struct {
	mapper     uint16
	submapper  uint8
	prgBanks   int // 16KB units
	chrBanks   int // 8KB units
	vertical   bool
	fourScreen bool
	trainer    bool
	nes2       bool
}

// buildImage assembles an iNES image. Every 8KB PRG unit is filled with its
// index and every 1KB CHR unit with its index, so a read reveals which bank
// is mapped.
func buildImage(spec romSpec) []byte {
	header := make([]byte, headerSize)
	copy(header, magic)
	header[4] = uint8(spec.prgBanks)
	header[5] = uint8(spec.chrBanks)
	header[6] = uint8(spec.mapper&0x0F) << 4
	header[7] = uint8(spec.mapper & 0xF0)
	if spec.vertical {
		header[6] |= 0x01
	}
	if spec.trainer {
		header[6] |= 0x04
	}
	if spec.fourScreen {
		header[6] |= 0x08
	}
	if spec.nes2 {
		header[7] |= 0x08
		header[8] = spec.submapper<<4 | uint8(spec.mapper>>8)
	}

	data := append([]byte{}, header...)
	if spec.trainer {
		data = append(data, make([]byte, trainerSize)...)
	}

	prg := make([]byte, spec.prgBanks*prgBankSize)
	for i := range prg {
		prg[i] = uint8(i / 0x2000)
	}
	chr := make([]byte, spec.chrBanks*chrBankSize)
	for i := range chr {
		chr[i] = uint8(i / 0x0400)
	}

	data = append(data, prg...)
	return append(data, chr...)
}

func newTestMapper(t *testing.T, spec romSpec) *Mapper {
	t.Helper()

	cart, err := Parse(buildImage(spec))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m, err := NewMapper(cart)
	if err != nil {
		t.Fatalf("new mapper: %v", err)
	}
	return m
}

// cpuWrite performs a write followed by the end-of-cycle hook, the way the
// bus applies it.
func cpuWrite(m *Mapper, address uint16, value uint8) {
	m.WriteCPU(address, value)
	m.TickCPU()
}

func cpuRead(t *testing.T, m *Mapper, address uint16) uint8 {
	t.Helper()
	v, ok := m.ReadCPU(address)
	if !ok {
		t.Fatalf("read 0x%04X: open bus", address)
	}
	return v
}

// mmc1Write shifts value into the MMC1 serial port, LSB first, leaving an
// idle cycle between writes.
func mmc1Write(m *Mapper, address uint16, value uint8) {
	for i := 0; i < 5; i++ {
		cpuWrite(m, address, (value>>i)&0x01)
		m.TickCPU()
	}
}
