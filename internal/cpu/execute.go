package cpu

import "gones/internal/word"

func (c *CPU) setZN(v word.DataWord) {
	if v == 0 {
		c.p |= flagZ
	} else {
		c.p &^= flagZ
	}
	if v&0x80 != 0 {
		c.p |= flagN
	} else {
		c.p &^= flagN
	}
}

func (c *CPU) flag(mask uint8) bool { return c.p&mask != 0 }

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.p |= mask
	} else {
		c.p &^= mask
	}
}

// writeBus performs an ordinary bus write, except for $4014: the OAM-DMA
// trigger never reaches the bus, since the CPU is the component that
// suspends itself to service it.
func (c *CPU) writeBus(addr word.DoubleWord, val word.DataWord) {
	if addr == 0x4014 {
		c.StartDMA(val)
		return
	}
	c.Mem.Write(addr, val)
}

func (c *CPU) push(v word.DataWord) {
	c.Mem.Write(word.DoubleWord(0x0100)+word.DoubleWord(c.sp), v)
	c.sp--
}

func (c *CPU) pull() word.DataWord {
	c.sp++
	return c.Mem.Read(word.DoubleWord(0x0100) + word.DoubleWord(c.sp))
}

// runMemoryOp executes the bus-facing half of an operation cycle.
func (c *CPU) runMemoryOp(op memOp) {
	switch op {
	case memNop:

	case memFetch:
		c.fetch()

	case memReadPCNoDest:
		c.Mem.Read(c.pc.AsU16())
	case memReadPCMDR:
		c.mdr = c.Mem.Read(c.pc.AsU16())
	case memReadPCPCH:
		c.pc.Hi = c.Mem.Read(c.pc.AsU16())
	case memReadPCZPAddr:
		c.addr.Lo = c.Mem.Read(c.pc.AsU16())
		c.addr.Hi = 0
	case memReadPCAddrL:
		c.addr.Lo = c.Mem.Read(c.pc.AsU16())
	case memReadPCAddrH:
		c.addr.Hi = c.Mem.Read(c.pc.AsU16())
	case memReadPCZPPtr:
		c.ptr.Lo = c.Mem.Read(c.pc.AsU16())
		c.ptr.Hi = 0
	case memReadPCPtrL:
		c.ptr.Lo = c.Mem.Read(c.pc.AsU16())
	case memReadPCPtrH:
		c.ptr.Hi = c.Mem.Read(c.pc.AsU16())
	case memReadAddrMDR:
		c.mdr = c.Mem.Read(c.addr.AsU16())
	case memReadPtrMDR:
		c.mdr = c.Mem.Read(c.ptr.AsU16())
	case memReadPtrAddrL:
		c.addr.Lo = c.Mem.Read(c.ptr.AsU16())
	case memReadPtr1AddrH:
		lo := c.ptr.Lo + 1
		c.addr.Hi = c.Mem.Read(word.Pair{Lo: lo, Hi: c.ptr.Hi}.AsU16())
	case memReadPtr1PCH:
		lo := c.ptr.Lo + 1
		c.pc.Hi = c.Mem.Read(word.Pair{Lo: lo, Hi: c.ptr.Hi}.AsU16())

	case memWriteMDRAddr:
		c.writeBus(c.addr.AsU16(), c.mdr)
	case memWriteAAddr:
		c.writeBus(c.addr.AsU16(), c.a)
	case memWriteXAddr:
		c.writeBus(c.addr.AsU16(), c.x)
	case memWriteYAddr:
		c.writeBus(c.addr.AsU16(), c.y)

	case memPushPCL:
		c.push(c.pc.Lo)
	case memPushPCH:
		c.push(c.pc.Hi)
	case memPushA:
		c.push(c.a)
	case memPushP:
		c.push(c.p | flagU | flagB)
	case memPushPB:
		b := c.p | flagU
		if c.pendingBRK {
			b |= flagB
		} else {
			b &^= flagB
		}
		c.push(b)

	case memPullPCL:
		c.pc.Lo = c.pull()
	case memPullPCH:
		c.pc.Hi = c.pull()
	case memPullA:
		c.a = c.pull()
		c.setZN(c.a)
	case memPullP:
		c.p = (c.pull() &^ flagB) | flagU

	case memNMIPCL:
		c.pc.Lo = c.Mem.Read(vectorNMI)
	case memNMIPCH:
		c.pc.Hi = c.Mem.Read(vectorNMI + 1)
		c.p |= flagI
	case memResetPCL:
		c.pc.Lo = c.Mem.Read(vectorReset)
	case memResetPCH:
		c.pc.Hi = c.Mem.Read(vectorReset + 1)
		c.p |= flagI
	case memIRQPCL:
		c.pc.Lo = c.Mem.Read(vectorIRQ)
	case memIRQPCH:
		c.pc.Hi = c.Mem.Read(vectorIRQ + 1)
		c.p |= flagI
	}
}

// runDataOp executes the register-file-facing half of an operation cycle.
func (c *CPU) runDataOp(op dataOp) {
	switch op {
	case datNop:

	case datIncS:
		c.sp++
	case datIncX:
		c.x++
		c.setZN(c.x)
	case datIncY:
		c.y++
		c.setZN(c.y)
	case datIncMDR:
		c.mdr++
		c.setZN(c.mdr)

	case datDecS:
		c.sp--
	case datDecX:
		c.x--
		c.setZN(c.x)
	case datDecY:
		c.y--
		c.setZN(c.y)
	case datDecMDR:
		c.mdr--
		c.setZN(c.mdr)

	case datMovAX:
		c.x = c.a
		c.setZN(c.x)
	case datMovAY:
		c.y = c.a
		c.setZN(c.y)
	case datMovSX:
		c.x = c.sp
		c.setZN(c.x)
	case datMovXA:
		c.a = c.x
		c.setZN(c.a)
	case datMovXS:
		c.sp = c.x
	case datMovYA:
		c.a = c.y
		c.setZN(c.a)
	case datMovMDRPCL:
		c.pc.Lo = c.mdr
	case datMovMDRA:
		c.a = c.mdr
		c.setZN(c.a)
	case datMovMDRX:
		c.x = c.mdr
		c.setZN(c.x)
	case datMovMDRY:
		c.y = c.mdr
		c.setZN(c.y)

	case datCLC:
		c.setFlag(flagC, false)
	case datCLD:
		c.setFlag(flagD, false)
	case datCLI:
		c.setFlag(flagI, false)
	case datCLV:
		c.setFlag(flagV, false)
	case datSEC:
		c.setFlag(flagC, true)
	case datSED:
		c.setFlag(flagD, true)
	case datSEI:
		c.setFlag(flagI, true)

	case datCMPMDRA:
		c.compare(c.a, c.mdr)
	case datCMPMDRX:
		c.compare(c.x, c.mdr)
	case datCMPMDRY:
		c.compare(c.y, c.mdr)

	case datASLMDR:
		c.setFlag(flagC, c.mdr&0x80 != 0)
		c.mdr <<= 1
		c.setZN(c.mdr)
	case datASLA:
		c.setFlag(flagC, c.a&0x80 != 0)
		c.a <<= 1
		c.setZN(c.a)
	case datLSRMDR:
		c.setFlag(flagC, c.mdr&0x01 != 0)
		c.mdr >>= 1
		c.setZN(c.mdr)
	case datLSRA:
		c.setFlag(flagC, c.a&0x01 != 0)
		c.a >>= 1
		c.setZN(c.a)
	case datROLMDR:
		carry := c.mdr&0x80 != 0
		c.mdr = c.mdr<<1 | boolBit(c.flag(flagC))
		c.setFlag(flagC, carry)
		c.setZN(c.mdr)
	case datROLA:
		carry := c.a&0x80 != 0
		c.a = c.a<<1 | boolBit(c.flag(flagC))
		c.setFlag(flagC, carry)
		c.setZN(c.a)
	case datRORMDR:
		carry := c.mdr&0x01 != 0
		c.mdr = c.mdr>>1 | boolBit(c.flag(flagC))<<7
		c.setFlag(flagC, carry)
		c.setZN(c.mdr)
	case datRORA:
		carry := c.a&0x01 != 0
		c.a = c.a>>1 | boolBit(c.flag(flagC))<<7
		c.setFlag(flagC, carry)
		c.setZN(c.a)

	case datEORMDRA:
		c.a ^= c.mdr
		c.setZN(c.a)
	case datANDMDRA:
		c.a &= c.mdr
		c.setZN(c.a)
	case datORAMDRA:
		c.a |= c.mdr
		c.setZN(c.a)
	case datADCMDRA:
		c.adc(c.mdr)
	case datSBCMDRA:
		c.adc(^c.mdr)
	case datBITMDRA:
		c.setFlag(flagZ, c.a&c.mdr == 0)
		c.setFlag(flagV, c.mdr&0x40 != 0)
		c.setFlag(flagN, c.mdr&0x80 != 0)

	case datAddAddrLX:
		c.addIndex(&c.addr, c.x)
	case datAddAddrLY:
		c.addIndex(&c.addr, c.y)
	case datAddAddrLXRead:
		c.addIndex(&c.addr, c.x)
		c.insertPageCrossFixup()
	case datAddAddrLYRead:
		c.addIndex(&c.addr, c.y)
		c.insertPageCrossFixup()
	case datAddPtrLX:
		c.ptr.Lo += c.x
	case datMovAddrPC:
		c.pc.Lo, c.pc.Hi = c.addr.Lo, c.addr.Hi

	case datFixaAddrH:
		if c.pageCrossed {
			c.addr.Hi++
		}
	case datFixAddrH:
		c.addr.Hi++
	case datFixPCH:
		if c.pageCrossed {
			if c.branchRel&0x80 != 0 {
				c.pc.Hi--
			} else {
				c.pc.Hi++
			}
		}

	case datBranch:
		c.runBranch()
		if c.branchTaken {
			c.queue.insertNext(cycle{mem: memReadPCNoDest, dat: datFixPCH})
			if c.pageCrossed {
				c.queue.insertNext(cycle{mem: memReadPCNoDest})
			}
		}

	case datSetNZFromA:
		c.setZN(c.a)
	case datSetNZFromX:
		c.setZN(c.x)
	case datSetNZFromY:
		c.setZN(c.y)
	case datSetNZFromMDR:
		c.setZN(c.mdr)
	}
}

func boolBit(b bool) word.DataWord {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) compare(reg, val word.DataWord) {
	diff := reg - val
	c.setFlag(flagC, reg >= val)
	c.setZN(diff)
}

func (c *CPU) adc(operand word.DataWord) {
	sum := uint16(c.a) + uint16(operand) + uint16(boolBit(c.flag(flagC)))
	result := word.DataWord(sum)
	overflow := (c.a^result)&(operand^result)&0x80 != 0
	c.setFlag(flagC, sum > 0xFF)
	c.setFlag(flagV, overflow)
	c.a = result
	c.setZN(c.a)
}

// addIndex adds an index register to addr.Lo, capturing whether the
// addition carried into the high byte (page-cross) without applying the
// carry yet; read instructions apply it in a cycle spliced in only on a
// page cross (datFixAddrH), write/RMW instructions always spend the fixup
// cycle but apply the carry only when one occurred (datFixaAddrH).
func (c *CPU) addIndex(p *word.Pair, index word.DataWord) {
	sum := uint16(p.Lo) + uint16(index)
	p.Lo = word.DataWord(sum)
	c.pageCrossed = sum > 0xFF
}

// insertPageCrossFixup splices in the dummy read-and-correct cycle that
// read instructions only pay for when indexing actually carried into the
// address's high byte; write and read-modify-write instructions instead
// always enqueue this cycle unconditionally at decode time.
func (c *CPU) insertPageCrossFixup() {
	if c.pageCrossed {
		c.queue.insertNext(cycle{mem: memReadAddrMDR, dat: datFixAddrH})
	}
}

func (c *CPU) runBranch() {
	taken := c.branchCondition()
	c.branchTaken = taken
	if !taken {
		return
	}
	c.branchRel = c.mdr
	old := c.pc.Lo
	c.pc.Lo += c.mdr
	if c.mdr&0x80 == 0 {
		c.pageCrossed = old > c.pc.Lo
	} else {
		c.pageCrossed = old < c.pc.Lo
	}
}

// branchCondition decodes the flag and polarity tested by the current
// branch opcode (BPL/BMI/BVC/BVS/BCC/BCS/BNE/BEQ), whose 3-bit field in
// the opcode selects one of four flags and a polarity bit.
func (c *CPU) branchCondition() bool {
	flagSel := (c.inst >> 6) & 0x03
	wanted := c.inst&0x20 != 0
	var mask uint8
	switch flagSel {
	case 0:
		mask = flagN
	case 1:
		mask = flagV
	case 2:
		mask = flagC
	case 3:
		mask = flagZ
	}
	return c.flag(mask) == wanted
}
