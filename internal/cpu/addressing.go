package cpu

// Each helper enqueues the operand-fetch cycles for one addressing mode,
// attaching the instruction's own data-op to the cycle that finally has
// the operand in hand. The trailing fetch that starts the next instruction
// is appended separately by decode, once, after whichever helper ran.

func (c *CPU) decodeImmediate(op dataOp) {
	c.queue.push(cycle{mem: memReadPCMDR, dat: op, pcInc: true})
}

func (c *CPU) decodeZeroPageRead(op dataOp) {
	c.queue.push(cycle{mem: memReadPCZPAddr, pcInc: true})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: op})
}

func (c *CPU) decodeZeroPageIndexedRead(indexOp dataOp, op dataOp) {
	c.queue.push(cycle{mem: memReadPCZPAddr, pcInc: true})
	c.queue.push(cycle{mem: memNop, dat: indexOp})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: op})
}

func (c *CPU) decodeAbsoluteRead(op dataOp) {
	c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
	c.queue.push(cycle{mem: memReadPCAddrH, pcInc: true})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: op})
}

func (c *CPU) decodeAbsoluteIndexedRead(indexOp dataOp, op dataOp) {
	c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
	c.queue.push(cycle{mem: memReadPCAddrH, dat: indexOp, pcInc: true})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: op})
}

func (c *CPU) decodeIndirectXRead(op dataOp) {
	c.queue.push(cycle{mem: memReadPCZPPtr, pcInc: true})
	c.queue.push(cycle{mem: memNop, dat: datAddPtrLX})
	c.queue.push(cycle{mem: memReadPtrAddrL})
	c.queue.push(cycle{mem: memReadPtr1AddrH})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: op})
}

func (c *CPU) decodeIndirectYRead(op dataOp) {
	c.queue.push(cycle{mem: memReadPCZPPtr, pcInc: true})
	c.queue.push(cycle{mem: memReadPtrAddrL})
	c.queue.push(cycle{mem: memReadPtr1AddrH, dat: datAddAddrLYRead})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: op})
}

// Write addressing: the value comes from a register, not the operand
// stream, so there is no trailing data-op; writeMem names which register
// memory micro-op to use (memWriteAAddr/memWriteXAddr/memWriteYAddr).

func (c *CPU) decodeZeroPageWrite(writeMem memOp) {
	c.queue.push(cycle{mem: memReadPCZPAddr, pcInc: true})
	c.queue.push(cycle{mem: writeMem})
}

func (c *CPU) decodeZeroPageIndexedWrite(indexOp dataOp, writeMem memOp) {
	c.queue.push(cycle{mem: memReadPCZPAddr, pcInc: true})
	c.queue.push(cycle{mem: memNop, dat: indexOp})
	c.queue.push(cycle{mem: writeMem})
}

func (c *CPU) decodeAbsoluteWrite(writeMem memOp) {
	c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
	c.queue.push(cycle{mem: memReadPCAddrH, pcInc: true})
	c.queue.push(cycle{mem: writeMem})
}

func (c *CPU) decodeAbsoluteIndexedWrite(indexOp dataOp, writeMem memOp) {
	c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
	c.queue.push(cycle{mem: memReadPCAddrH, dat: indexOp, pcInc: true})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: datFixaAddrH})
	c.queue.push(cycle{mem: writeMem})
}

func (c *CPU) decodeIndirectXWrite(writeMem memOp) {
	c.queue.push(cycle{mem: memReadPCZPPtr, pcInc: true})
	c.queue.push(cycle{mem: memNop, dat: datAddPtrLX})
	c.queue.push(cycle{mem: memReadPtrAddrL})
	c.queue.push(cycle{mem: memReadPtr1AddrH})
	c.queue.push(cycle{mem: writeMem})
}

func (c *CPU) decodeIndirectYWrite(writeMem memOp) {
	c.queue.push(cycle{mem: memReadPCZPPtr, pcInc: true})
	c.queue.push(cycle{mem: memReadPtrAddrL})
	c.queue.push(cycle{mem: memReadPtr1AddrH, dat: datAddAddrLY})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: datFixaAddrH})
	c.queue.push(cycle{mem: writeMem})
}

// Read-modify-write addressing: reads the operand, writes it back
// unmodified while the data-op mutates MDR, then writes the modified MDR.

func (c *CPU) decodeZeroPageRMW(op dataOp) {
	c.queue.push(cycle{mem: memReadPCZPAddr, pcInc: true})
	c.queue.push(cycle{mem: memReadAddrMDR})
	c.queue.push(cycle{mem: memWriteMDRAddr, dat: op})
	c.queue.push(cycle{mem: memWriteMDRAddr})
}

func (c *CPU) decodeZeroPageXRMW(op dataOp) {
	c.queue.push(cycle{mem: memReadPCZPAddr, pcInc: true})
	c.queue.push(cycle{mem: memNop, dat: datAddAddrLX})
	c.queue.push(cycle{mem: memReadAddrMDR})
	c.queue.push(cycle{mem: memWriteMDRAddr, dat: op})
	c.queue.push(cycle{mem: memWriteMDRAddr})
}

func (c *CPU) decodeAbsoluteRMW(op dataOp) {
	c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
	c.queue.push(cycle{mem: memReadPCAddrH, pcInc: true})
	c.queue.push(cycle{mem: memReadAddrMDR})
	c.queue.push(cycle{mem: memWriteMDRAddr, dat: op})
	c.queue.push(cycle{mem: memWriteMDRAddr})
}

func (c *CPU) decodeAbsoluteXRMW(op dataOp) {
	c.queue.push(cycle{mem: memReadPCAddrL, pcInc: true})
	c.queue.push(cycle{mem: memReadPCAddrH, dat: datAddAddrLX, pcInc: true})
	c.queue.push(cycle{mem: memReadAddrMDR, dat: datFixaAddrH})
	c.queue.push(cycle{mem: memReadAddrMDR})
	c.queue.push(cycle{mem: memWriteMDRAddr, dat: op})
	c.queue.push(cycle{mem: memWriteMDRAddr})
}

func (c *CPU) decodeAccumulator(op dataOp) {
	c.queue.push(cycle{mem: memReadPCNoDest, dat: op})
}

func (c *CPU) decodeImplied(op dataOp) {
	c.queue.push(cycle{mem: memReadPCNoDest, dat: op})
}
