// Package memory implements the NES memory bus: CPU address-space
// partitioning, the open-bus data latch, PPU VRAM routing (pattern tables,
// nametables, and palette RAM), and OAM-DMA page source/sink access.
package memory

import (
	"gones/internal/cartridge"
	"gones/internal/palette"
	"gones/internal/word"
)

// RegisterPort is satisfied by a component exposing a block of CPU-mapped
// MMIO registers (the PPU's eight registers, the APU's channel registers).
type RegisterPort interface {
	ReadRegister(addr word.DoubleWord) word.DataWord
	WriteRegister(addr word.DoubleWord, val word.DataWord)
}

// ControllerPort is satisfied by an input source wired to $4016/$4017.
type ControllerPort interface {
	Read(addr word.DoubleWord) word.DataWord
	Write(addr word.DoubleWord, val word.DataWord)
}

// Bus is the NES memory bus: it owns CPU RAM, the open-bus latch, the
// cartridge (and therefore the mapper), and palette RAM, and dispatches
// accesses to the PPU/APU/controller register ports.
type Bus struct {
	ram     [0x800]word.DataWord
	openBus word.DataWord

	PPU  RegisterPort
	APU  RegisterPort
	Pad1 ControllerPort
	Pad2 ControllerPort
	Cart *cartridge.Cartridge

	paletteIdx [32]word.DataWord
	paletteRGB [32]uint32
	tint       uint8
	tints      *palette.Table
}

// New creates a bus with no cartridge or peripherals attached; callers must
// set PPU/APU/Pad1/Pad2/Cart before use.
func New(tints *palette.Table) *Bus {
	b := &Bus{tints: tints}
	if b.tints == nil {
		b.tints = palette.Default()
	}
	b.recomputeAllRGB()
	return b
}

// Read performs a CPU bus read, routing to RAM, PPU, APU, controllers, or
// the cartridge as $addr dictates. Unmapped regions return the open-bus
// latch. Side effects (register reads that clear flags, etc.) are applied
// by the destination port, not here.
func (b *Bus) Read(addr word.DoubleWord) word.DataWord {
	switch {
	case addr < 0x2000:
		b.openBus = b.ram[addr&0x07FF]
	case addr < 0x4000:
		b.openBus = b.PPU.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4016:
		b.openBus = b.Pad1.Read(addr)
	case addr == 0x4017:
		b.openBus = b.Pad2.Read(addr)
	case addr == 0x4015:
		b.openBus = b.APU.ReadRegister(addr)
	case addr < 0x4020:
		// Remaining APU/IO addresses are write-only; reads return the
		// open-bus latch unchanged.
	case b.Cart != nil:
		b.openBus = b.Cart.Mapper.Read(addr)
	}
	return b.openBus
}

// Write performs a CPU bus write. The OAM-DMA trigger at $4014 is handled
// by the CPU directly (it is the component suspending itself), so Write
// never sees that address.
func (b *Bus) Write(addr word.DoubleWord, val word.DataWord) {
	b.openBus = val
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = val
	case addr < 0x4000:
		b.PPU.WriteRegister(0x2000+addr&0x0007, val)
	case addr == 0x4016:
		b.Pad1.Write(addr, val)
		b.Pad2.Write(addr, val)
	case addr < 0x4020:
		b.APU.WriteRegister(addr, val)
	case b.Cart != nil:
		b.Cart.Mapper.Write(addr, val)
	}
}

// CheckRead/CheckWrite report whether an access is free of side effects
// beyond ordinary storage (internal RAM, or a mapper range the mapper
// itself reports as plain storage). MMIO ranges always have side effects.
func (b *Bus) CheckRead(addr word.DoubleWord) bool {
	if addr < 0x2000 {
		return true
	}
	if addr >= 0x4020 && b.Cart != nil {
		return b.Cart.Mapper.CheckRead(addr)
	}
	return false
}

func (b *Bus) CheckWrite(addr word.DoubleWord) bool {
	if addr < 0x2000 {
		return true
	}
	if addr >= 0x4020 && b.Cart != nil {
		return b.Cart.Mapper.CheckWrite(addr)
	}
	return false
}

// DMASource reads a byte for OAM DMA without disturbing the open-bus latch
// semantics beyond what a normal read would do; it is Read under the hood
// since DMA reads are ordinary CPU bus reads from the CPU's perspective.
func (b *Bus) DMASource(addr word.DoubleWord) word.DataWord {
	return b.Read(addr)
}

// VRAMRead/VRAMWrite implement the PPU-facing VRAM port: pattern tables and
// nametables delegate to the mapper (with the standard $3000-$3EFF mirror
// of $2000-$2EFF folded in here), while the palette region is handled
// directly by the bus.
func (b *Bus) VRAMRead(addr word.DoubleWord) word.DataWord {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		return b.paletteRaw(addr)
	}
	if addr >= 0x3000 {
		addr -= 0x1000
	}
	return b.Cart.Mapper.VRAMRead(addr)
}

func (b *Bus) VRAMWrite(addr word.DoubleWord, val word.DataWord) {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		b.paletteWrite(addr, val)
		return
	}
	if addr >= 0x3000 {
		addr -= 0x1000
	}
	b.Cart.Mapper.VRAMWrite(addr, val)
}

func paletteSlot(addr word.DoubleWord) uint8 {
	idx := uint8(addr & 0x1F)
	if idx >= 0x10 && idx&0x03 == 0 {
		idx -= 0x10
	}
	return idx
}

func (b *Bus) paletteRaw(addr word.DoubleWord) word.DataWord {
	return b.paletteIdx[paletteSlot(addr)]
}

func (b *Bus) paletteWrite(addr word.DoubleWord, val word.DataWord) {
	idx := paletteSlot(addr)
	b.paletteIdx[idx] = val & 0x3F
	b.paletteRGB[idx] = b.tints.RGB(val, b.tint)
}

// SetTint selects one of the eight palette emphasis variants (driven by the
// PPU mask register's emphasis bits) and re-decodes every palette entry.
func (b *Bus) SetTint(t uint8) {
	t &= 0x07
	if t == b.tint {
		return
	}
	b.tint = t
	b.recomputeAllRGB()
}

func (b *Bus) recomputeAllRGB() {
	for i, idx := range b.paletteIdx {
		b.paletteRGB[i] = b.tints.RGB(idx, b.tint)
	}
}

// PaletteRGB returns the pre-decoded RGB value for one of the 32 palette
// slots, applying the background-mirror rule so callers need not dedupe.
func (b *Bus) PaletteRGB(addr word.DoubleWord) uint32 {
	return b.paletteRGB[paletteSlot(addr)]
}
