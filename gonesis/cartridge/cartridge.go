package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
)

const (
	headerSize  = 16
	trainerSize = 512

	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024

	prgRAMSize  = 8 * 1024
	chrRAMSize  = 8 * 1024
	extVRAMSize = 4 * 1024
)

var magic = []byte{'N', 'E', 'S', 0x1A}

// FormatError reports an image that is not a valid iNES file.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid iNES image: " + e.Reason
}

// UnsupportedMapperError reports a well formed image whose mapper is not
// implemented.
type UnsupportedMapperError struct {
	Mapper    uint16
	Submapper uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %d (submapper %d)", e.Mapper, e.Submapper)
}

// IsUnsupportedMapper reports whether err is, or wraps, an
// UnsupportedMapperError.
func IsUnsupportedMapper(err error) bool {
	var target *UnsupportedMapperError
	return errors.As(err, &target)
}

// Header holds the fields of the 16 byte iNES header.
//
//	Byte 0-3: "NES" followed by MS-DOS EOF
//	Byte 4:   PRG ROM size in 16KB units
//	Byte 5:   CHR ROM size in 8KB units (0 means the board has CHR RAM)
//	Byte 6:   mapper low nibble, four-screen, trainer, battery, mirroring
//	Byte 7:   mapper high nibble, NES 2.0 identifier
//	Byte 8:   NES 2.0 only: submapper and mapper bits 8-11
//	Byte 9:   NES 2.0 only: PRG/CHR size high nibbles
//
// Reference: https://www.nesdev.org/wiki/INES
type Header struct {
	Mapper     uint16
	Submapper  uint8
	PRGROMSize int
	CHRROMSize int
	Mirroring  Mirroring
	FourScreen bool
	HasTrainer bool
	HasBattery bool
	NES2       bool
}

// Cartridge is a parsed iNES image. ROM slices are immutable after parsing.
type Cartridge struct {
	Header Header

	prgROM []byte
	chrROM []byte
}

// PRGROM returns the program ROM.
func (c *Cartridge) PRGROM() []byte {
	return c.prgROM
}

// CHRROM returns the character ROM, empty for boards using CHR RAM.
func (c *Cartridge) CHRROM() []byte {
	return c.chrROM
}

// HasCHRRAM reports whether pattern tables are backed by RAM.
func (c *Cartridge) HasCHRRAM() bool {
	return len(c.chrROM) == 0
}

// Parse decodes an iNES (or NES 2.0) image. The returned cartridge is
// guaranteed to have a supported mapper.
func Parse(data []byte) (*Cartridge, error) {
	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	if !isSupported(header.Mapper) {
		return nil, &UnsupportedMapperError{Mapper: header.Mapper, Submapper: header.Submapper}
	}

	offset := headerSize
	if header.HasTrainer {
		offset += trainerSize
	}

	prgEnd := offset + header.PRGROMSize
	chrEnd := prgEnd + header.CHRROMSize
	if len(data) < chrEnd {
		return nil, &FormatError{Reason: fmt.Sprintf("image is %d bytes, header requires %d", len(data), chrEnd)}
	}

	cart := &Cartridge{
		Header: header,
		prgROM: bytes.Clone(data[offset:prgEnd]),
		chrROM: bytes.Clone(data[prgEnd:chrEnd]),
	}

	slog.Debug("parsed cartridge",
		"mapper", header.Mapper,
		"submapper", header.Submapper,
		"prg", header.PRGROMSize,
		"chr", header.CHRROMSize,
		"mirroring", header.Mirroring,
		"four_screen", header.FourScreen)

	return cart, nil
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, &FormatError{Reason: fmt.Sprintf("image is %d bytes, shorter than the header", len(data))}
	}
	if !bytes.Equal(data[0:4], magic) {
		return Header{}, &FormatError{Reason: fmt.Sprintf("bad magic % X", data[0:4])}
	}

	h := Header{
		HasTrainer: data[6]&0x04 != 0,
		HasBattery: data[6]&0x02 != 0,
		FourScreen: data[6]&0x08 != 0,
		NES2:       data[7]&0x0C == 0x08,
		Mirroring:  Horizontal,
	}
	if data[6]&0x01 != 0 {
		h.Mirroring = Vertical
	}

	h.Mapper = uint16(data[7]&0xF0) | uint16(data[6]>>4)
	prgUnits := int(data[4])
	chrUnits := int(data[5])

	// archaic dumps often carry garbage in bytes 8-15, only trust them for NES 2.0
	if h.NES2 {
		h.Mapper |= uint16(data[8]&0x0F) << 8
		h.Submapper = data[8] >> 4
		prgUnits |= int(data[9]&0x0F) << 8
		chrUnits |= int(data[9]&0xF0) << 4
	}

	if prgUnits == 0 {
		return Header{}, &FormatError{Reason: "no PRG ROM"}
	}

	h.PRGROMSize = prgUnits * prgBankSize
	h.CHRROMSize = chrUnits * chrBankSize

	return h, nil
}
