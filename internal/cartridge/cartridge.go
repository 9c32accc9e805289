// Package cartridge decodes NES ROM headers and implements the memory
// mappers (bank-switching boards) that arbitrate PRG/CHR access and
// nametable mirroring.
package cartridge

import (
	"fmt"
	"io"
	"os"

	"gones/internal/rng"
	"gones/internal/word"
)

// Cartridge owns the decoded header and the concrete Mapper it selected.
type Cartridge struct {
	Header *Header
	Mapper Mapper
}

// LoadFromFile opens and parses an NES ROM file from disk.
func LoadFromFile(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader parses an NES ROM image from an arbitrary byte stream,
// implementing the external cartridge-source contract: the caller supplies
// bytes, the core never touches a filesystem directly beyond this point.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cartridge: read: %w", err)
	}
	if len(data) < 16 {
		return nil, fmt.Errorf("cartridge: file too small to contain a header")
	}

	header, err := DecodeHeader(data, len(data))
	if err != nil {
		return nil, err
	}

	offset := 16
	if header.Trainer {
		offset += 512
		if len(data) < offset {
			return nil, fmt.Errorf("cartridge: truncated trainer")
		}
	}

	if len(data) < offset+header.PRGROMSize {
		return nil, fmt.Errorf("cartridge: truncated PRG-ROM (need %d bytes, have %d)",
			header.PRGROMSize, len(data)-offset)
	}
	prgROM := make([]uint8, header.PRGROMSize)
	copy(prgROM, data[offset:offset+header.PRGROMSize])
	offset += header.PRGROMSize

	var chrROM []uint8
	if header.CHRROMSize > 0 {
		if len(data) < offset+header.CHRROMSize {
			return nil, fmt.Errorf("cartridge: truncated CHR-ROM (need %d bytes, have %d)",
				header.CHRROMSize, len(data)-offset)
		}
		chrROM = make([]uint8, header.CHRROMSize)
		copy(chrROM, data[offset:offset+header.CHRROMSize])
	}

	seed := rng.FromClock()
	board := newBoard(header, prgROM, chrROM, seed)

	var mapper Mapper
	switch header.Mapper {
	case 0:
		mapper = newMapper0(board)
	case 1:
		mapper = newMapper1(board)
	case 2:
		mapper = newMapper2(board)
	default:
		return nil, fmt.Errorf("cartridge: unsupported mapper %d", header.Mapper)
	}

	return &Cartridge{Header: header, Mapper: mapper}, nil
}

// board holds the raw bank storage shared by every mapper implementation:
// PRG-ROM/PRG-RAM, CHR-ROM/CHR-RAM, and the four nametable slots. Each
// mapper's bank-selection logic lives in its own file; board is deliberately
// dumb storage.
type board struct {
	header *Header

	prgROM []uint8 // fixed, as read from the file
	prgRAM []uint8 // randomized at power-on, sized from the header
	isCHRRAM bool
	chrROM []uint8 // ROM contents, or randomized RAM if isCHRRAM

	nt *nametableSet
}

func newBoard(h *Header, prgROM, chrROM []uint8, seed *rng.Source) *board {
	b := &board{header: h, prgROM: prgROM, nt: newNametableSet()}

	ramSize := h.PRGRAMSize + h.PRGNVRAMSize
	if ramSize == 0 {
		ramSize = 0x2000
	}
	b.prgRAM = seed.Bytes(ramSize)

	if len(chrROM) > 0 {
		b.chrROM = chrROM
		b.isCHRRAM = false
	} else {
		size := h.CHRRAMSize
		if size == 0 {
			size = 0x2000
		}
		b.chrROM = seed.Bytes(size)
		b.isCHRRAM = true
	}

	if h.FourScreen {
		b.nt.setFourScreen()
	} else if h.Vertical {
		b.nt.setVertical()
	} else {
		b.nt.setHorizontal()
	}

	return b
}

func (b *board) chrWrite(addr word.DoubleWord, val word.DataWord) {
	if b.isCHRRAM && int(addr) < len(b.chrROM) {
		b.chrROM[addr] = val
	}
}
