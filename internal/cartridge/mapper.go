package cartridge

import "gones/internal/word"

// Mapper is the contract every cartridge board implementation satisfies.
// Read/Write cover the CPU address space from $4020 upward (the bus routes
// RAM, PPU, and APU/controller MMIO itself and never calls into the
// mapper for those ranges). VRAMRead/VRAMWrite cover pattern tables and
// nametables ($0000-$3EFF of PPU address space); the bus handles the
// palette region ($3F00-$3FFF) directly. Inspect performs a side-effect
// free read of CPU address space, used by tooling that must not disturb
// mapper state (e.g. a disassembler, out of scope here, or tests).
type Mapper interface {
	Read(addr word.DoubleWord) word.DataWord
	Write(addr word.DoubleWord, val word.DataWord)

	// CheckRead/CheckWrite report whether an access at addr is free of
	// side effects beyond ordinary RAM/ROM storage (no bank-switch
	// register, no mapper IRQ state change). The System scheduler does not
	// consult them; it always steps one CPU cycle at a time.
	CheckRead(addr word.DoubleWord) bool
	CheckWrite(addr word.DoubleWord) bool

	VRAMRead(addr word.DoubleWord) word.DataWord
	VRAMWrite(addr word.DoubleWord, val word.DataWord)

	Inspect(addr word.DoubleWord) word.DataWord
}
