package cartridge

import "gones/internal/word"

// mapper0 implements NROM: no bank switching. A 16-KB ROM image is mirrored
// across both PRG halves; a 32-KB image is mapped directly. CHR is either
// 8-KB ROM or 8-KB RAM per the header.
type mapper0 struct {
	b        *board
	prgBanks int // 1 or 2, number of 16KB banks
}

func newMapper0(b *board) *mapper0 {
	return &mapper0{b: b, prgBanks: len(b.prgROM) / 0x4000}
}

func (m *mapper0) Read(addr word.DoubleWord) word.DataWord {
	switch {
	case addr >= 0x8000:
		offset := addr - 0x8000
		if m.prgBanks <= 1 {
			offset &= 0x3FFF
		}
		if int(offset) < len(m.b.prgROM) {
			return m.b.prgROM[offset]
		}
		return 0
	case addr >= 0x6000:
		return m.b.prgRAM[(addr-0x6000)%word.DoubleWord(len(m.b.prgRAM))]
	default:
		return 0
	}
}

func (m *mapper0) Write(addr word.DoubleWord, val word.DataWord) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.b.prgRAM[(addr-0x6000)%word.DoubleWord(len(m.b.prgRAM))] = val
	}
	// Writes to $8000-$FFFF are ignored: NROM has no registers.
}

// CheckRead/CheckWrite: NROM never performs side effects beyond ordinary
// storage, so every access in its range is safe to batch.
func (m *mapper0) CheckRead(addr word.DoubleWord) bool  { return addr >= 0x6000 }
func (m *mapper0) CheckWrite(addr word.DoubleWord) bool { return addr >= 0x6000 }

func (m *mapper0) Inspect(addr word.DoubleWord) word.DataWord {
	return m.Read(addr)
}

func (m *mapper0) VRAMRead(addr word.DoubleWord) word.DataWord {
	if addr < 0x2000 {
		if int(addr) < len(m.b.chrROM) {
			return m.b.chrROM[addr]
		}
		return 0
	}
	return m.b.nt.read(addr)
}

func (m *mapper0) VRAMWrite(addr word.DoubleWord, val word.DataWord) {
	if addr < 0x2000 {
		m.b.chrWrite(addr, val)
		return
	}
	m.b.nt.write(addr, val)
}
