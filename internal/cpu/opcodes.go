package cpu

import "gones/internal/word"

const opBRK = word.DataWord(0x00)

// decode enqueues the operation cycles for opcode, always ending with a
// trailing fetch. Only the official 6502 instruction set is implemented;
// anything else goes to unimplemented, which aborts (reproducing illegal
// opcodes is out of scope).
func (c *CPU) decode(opcode word.DataWord) {
	switch opcode {
	// ADC
	case 0x69:
		c.decodeImmediate(datADCMDRA)
	case 0x65:
		c.decodeZeroPageRead(datADCMDRA)
	case 0x75:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datADCMDRA)
	case 0x6D:
		c.decodeAbsoluteRead(datADCMDRA)
	case 0x7D:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datADCMDRA)
	case 0x79:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datADCMDRA)
	case 0x61:
		c.decodeIndirectXRead(datADCMDRA)
	case 0x71:
		c.decodeIndirectYRead(datADCMDRA)

	// AND
	case 0x29:
		c.decodeImmediate(datANDMDRA)
	case 0x25:
		c.decodeZeroPageRead(datANDMDRA)
	case 0x35:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datANDMDRA)
	case 0x2D:
		c.decodeAbsoluteRead(datANDMDRA)
	case 0x3D:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datANDMDRA)
	case 0x39:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datANDMDRA)
	case 0x21:
		c.decodeIndirectXRead(datANDMDRA)
	case 0x31:
		c.decodeIndirectYRead(datANDMDRA)

	// ASL
	case 0x0A:
		c.decodeAccumulator(datASLA)
	case 0x06:
		c.decodeZeroPageRMW(datASLMDR)
	case 0x16:
		c.decodeZeroPageXRMW(datASLMDR)
	case 0x0E:
		c.decodeAbsoluteRMW(datASLMDR)
	case 0x1E:
		c.decodeAbsoluteXRMW(datASLMDR)

	// Branches
	case 0x10, 0x30, 0x50, 0x70, 0x90, 0xB0, 0xD0, 0xF0:
		c.queue.push(cycle{mem: memReadPCMDR, dat: datBranch, pcInc: true})

	// BIT
	case 0x24:
		c.decodeZeroPageRead(datBITMDRA)
	case 0x2C:
		c.decodeAbsoluteRead(datBITMDRA)

	// BRK
	case 0x00:
		c.pendingBRK = true
		c.queue.push(cycle{mem: memReadPCNoDest, pcInc: true})
		c.queue.push(cycle{mem: memPushPCH})
		c.queue.push(cycle{mem: memPushPCL})
		c.queue.push(cycle{mem: memPushPB})
		c.queue.push(cycle{mem: memIRQPCL})
		c.queue.push(cycle{mem: memIRQPCH})

	// Flags
	case 0x18:
		c.decodeImplied(datCLC)
	case 0x38:
		c.decodeImplied(datSEC)
	case 0x58:
		c.decodeImplied(datCLI)
	case 0x78:
		c.decodeImplied(datSEI)
	case 0xB8:
		c.decodeImplied(datCLV)
	case 0xD8:
		c.decodeImplied(datCLD)
	case 0xF8:
		c.decodeImplied(datSED)

	// CMP
	case 0xC9:
		c.decodeImmediate(datCMPMDRA)
	case 0xC5:
		c.decodeZeroPageRead(datCMPMDRA)
	case 0xD5:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datCMPMDRA)
	case 0xCD:
		c.decodeAbsoluteRead(datCMPMDRA)
	case 0xDD:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datCMPMDRA)
	case 0xD9:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datCMPMDRA)
	case 0xC1:
		c.decodeIndirectXRead(datCMPMDRA)
	case 0xD1:
		c.decodeIndirectYRead(datCMPMDRA)

	// CPX
	case 0xE0:
		c.decodeImmediate(datCMPMDRX)
	case 0xE4:
		c.decodeZeroPageRead(datCMPMDRX)
	case 0xEC:
		c.decodeAbsoluteRead(datCMPMDRX)

	// CPY
	case 0xC0:
		c.decodeImmediate(datCMPMDRY)
	case 0xC4:
		c.decodeZeroPageRead(datCMPMDRY)
	case 0xCC:
		c.decodeAbsoluteRead(datCMPMDRY)

	// DEC
	case 0xC6:
		c.decodeZeroPageRMW(datDecMDR)
	case 0xD6:
		c.decodeZeroPageXRMW(datDecMDR)
	case 0xCE:
		c.decodeAbsoluteRMW(datDecMDR)
	case 0xDE:
		c.decodeAbsoluteXRMW(datDecMDR)

	case 0xCA:
		c.decodeImplied(datDecX)
	case 0x88:
		c.decodeImplied(datDecY)

	// EOR
	case 0x49:
		c.decodeImmediate(datEORMDRA)
	case 0x45:
		c.decodeZeroPageRead(datEORMDRA)
	case 0x55:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datEORMDRA)
	case 0x4D:
		c.decodeAbsoluteRead(datEORMDRA)
	case 0x5D:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datEORMDRA)
	case 0x59:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datEORMDRA)
	case 0x41:
		c.decodeIndirectXRead(datEORMDRA)
	case 0x51:
		c.decodeIndirectYRead(datEORMDRA)

	// INC
	case 0xE6:
		c.decodeZeroPageRMW(datIncMDR)
	case 0xF6:
		c.decodeZeroPageXRMW(datIncMDR)
	case 0xEE:
		c.decodeAbsoluteRMW(datIncMDR)
	case 0xFE:
		c.decodeAbsoluteXRMW(datIncMDR)

	case 0xE8:
		c.decodeImplied(datIncX)
	case 0xC8:
		c.decodeImplied(datIncY)

	// JMP
	case 0x4C:
		c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
		c.queue.push(cycle{mem: memReadPCAddrH, dat: datMovAddrPC})
	case 0x6C:
		c.queue.push(cycle{mem: memReadPCPtrL, pcInc: true})
		c.queue.push(cycle{mem: memReadPCPtrH, pcInc: true})
		c.queue.push(cycle{mem: memReadPtrAddrL})
		c.queue.push(cycle{mem: memReadPtr1AddrH, dat: datMovAddrPC})

	// JSR
	case 0x20:
		c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
		c.queue.push(cycle{mem: memNop})
		c.queue.push(cycle{mem: memPushPCH})
		c.queue.push(cycle{mem: memPushPCL})
		c.queue.push(cycle{mem: memReadPCAddrH, dat: datMovAddrPC})

	// LDA
	case 0xA9:
		c.decodeImmediate(datMovMDRA)
	case 0xA5:
		c.decodeZeroPageRead(datMovMDRA)
	case 0xB5:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datMovMDRA)
	case 0xAD:
		c.decodeAbsoluteRead(datMovMDRA)
	case 0xBD:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datMovMDRA)
	case 0xB9:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datMovMDRA)
	case 0xA1:
		c.decodeIndirectXRead(datMovMDRA)
	case 0xB1:
		c.decodeIndirectYRead(datMovMDRA)

	// LDX
	case 0xA2:
		c.decodeImmediate(datMovMDRX)
	case 0xA6:
		c.decodeZeroPageRead(datMovMDRX)
	case 0xB6:
		c.decodeZeroPageIndexedRead(datAddAddrLY, datMovMDRX)
	case 0xAE:
		c.decodeAbsoluteRead(datMovMDRX)
	case 0xBE:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datMovMDRX)

	// LDY
	case 0xA0:
		c.decodeImmediate(datMovMDRY)
	case 0xA4:
		c.decodeZeroPageRead(datMovMDRY)
	case 0xB4:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datMovMDRY)
	case 0xAC:
		c.decodeAbsoluteRead(datMovMDRY)
	case 0xBC:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datMovMDRY)

	// LSR
	case 0x4A:
		c.decodeAccumulator(datLSRA)
	case 0x46:
		c.decodeZeroPageRMW(datLSRMDR)
	case 0x56:
		c.decodeZeroPageXRMW(datLSRMDR)
	case 0x4E:
		c.decodeAbsoluteRMW(datLSRMDR)
	case 0x5E:
		c.decodeAbsoluteXRMW(datLSRMDR)

	case 0xEA:
		c.decodeImplied(datNop)

	// ORA
	case 0x09:
		c.decodeImmediate(datORAMDRA)
	case 0x05:
		c.decodeZeroPageRead(datORAMDRA)
	case 0x15:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datORAMDRA)
	case 0x0D:
		c.decodeAbsoluteRead(datORAMDRA)
	case 0x1D:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datORAMDRA)
	case 0x19:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datORAMDRA)
	case 0x01:
		c.decodeIndirectXRead(datORAMDRA)
	case 0x11:
		c.decodeIndirectYRead(datORAMDRA)

	// Stack
	case 0x48:
		c.queue.push(cycle{mem: memReadPCNoDest})
		c.queue.push(cycle{mem: memPushA})
	case 0x08:
		c.queue.push(cycle{mem: memReadPCNoDest})
		c.queue.push(cycle{mem: memPushP})
	case 0x68:
		c.queue.push(cycle{mem: memReadPCNoDest})
		c.queue.push(cycle{mem: memNop})
		c.queue.push(cycle{mem: memPullA})
	case 0x28:
		c.queue.push(cycle{mem: memReadPCNoDest})
		c.queue.push(cycle{mem: memNop})
		c.queue.push(cycle{mem: memPullP})

	// ROL
	case 0x2A:
		c.decodeAccumulator(datROLA)
	case 0x26:
		c.decodeZeroPageRMW(datROLMDR)
	case 0x36:
		c.decodeZeroPageXRMW(datROLMDR)
	case 0x2E:
		c.decodeAbsoluteRMW(datROLMDR)
	case 0x3E:
		c.decodeAbsoluteXRMW(datROLMDR)

	// ROR
	case 0x6A:
		c.decodeAccumulator(datRORA)
	case 0x66:
		c.decodeZeroPageRMW(datRORMDR)
	case 0x76:
		c.decodeZeroPageXRMW(datRORMDR)
	case 0x6E:
		c.decodeAbsoluteRMW(datRORMDR)
	case 0x7E:
		c.decodeAbsoluteXRMW(datRORMDR)

	// RTI
	case 0x40:
		c.queue.push(cycle{mem: memReadPCNoDest})
		c.queue.push(cycle{mem: memNop})
		c.queue.push(cycle{mem: memPullP})
		c.queue.push(cycle{mem: memPullPCL})
		c.queue.push(cycle{mem: memPullPCH})

	// RTS
	case 0x60:
		c.queue.push(cycle{mem: memReadPCNoDest})
		c.queue.push(cycle{mem: memNop})
		c.queue.push(cycle{mem: memPullPCL})
		c.queue.push(cycle{mem: memPullPCH})
		c.queue.push(cycle{mem: memReadPCNoDest, pcInc: true})

	// SBC
	case 0xE9:
		c.decodeImmediate(datSBCMDRA)
	case 0xE5:
		c.decodeZeroPageRead(datSBCMDRA)
	case 0xF5:
		c.decodeZeroPageIndexedRead(datAddAddrLX, datSBCMDRA)
	case 0xED:
		c.decodeAbsoluteRead(datSBCMDRA)
	case 0xFD:
		c.decodeAbsoluteIndexedRead(datAddAddrLXRead, datSBCMDRA)
	case 0xF9:
		c.decodeAbsoluteIndexedRead(datAddAddrLYRead, datSBCMDRA)
	case 0xE1:
		c.decodeIndirectXRead(datSBCMDRA)
	case 0xF1:
		c.decodeIndirectYRead(datSBCMDRA)

	// Register transfers
	case 0xAA:
		c.decodeImplied(datMovAX)
	case 0xA8:
		c.decodeImplied(datMovAY)
	case 0xBA:
		c.decodeImplied(datMovSX)
	case 0x8A:
		c.decodeImplied(datMovXA)
	case 0x9A:
		c.decodeImplied(datMovXS)
	case 0x98:
		c.decodeImplied(datMovYA)

	// STA
	case 0x85:
		c.decodeZeroPageWrite(memWriteAAddr)
	case 0x95:
		c.decodeZeroPageIndexedWrite(datAddAddrLX, memWriteAAddr)
	case 0x8D:
		c.decodeAbsoluteWrite(memWriteAAddr)
	case 0x9D:
		c.decodeAbsoluteIndexedWrite(datAddAddrLX, memWriteAAddr)
	case 0x99:
		c.decodeAbsoluteIndexedWrite(datAddAddrLY, memWriteAAddr)
	case 0x81:
		c.decodeIndirectXWrite(memWriteAAddr)
	case 0x91:
		c.decodeIndirectYWrite(memWriteAAddr)

	// STX
	case 0x86:
		c.decodeZeroPageWrite(memWriteXAddr)
	case 0x96:
		c.decodeZeroPageIndexedWrite(datAddAddrLY, memWriteXAddr)
	case 0x8E:
		c.decodeAbsoluteWrite(memWriteXAddr)

	// STY
	case 0x84:
		c.decodeZeroPageWrite(memWriteYAddr)
	case 0x94:
		c.decodeZeroPageIndexedWrite(datAddAddrLX, memWriteYAddr)
	case 0x8C:
		c.decodeAbsoluteWrite(memWriteYAddr)

	default:
		c.unimplemented(opcode)
		// Keep the pipeline alive even after a hook-based unimplemented
		// handler declines to panic, by treating it as a 2-cycle NOP.
		c.decodeImplied(datNop)
	}
	c.queue.push(cycle{mem: memFetch})
}
