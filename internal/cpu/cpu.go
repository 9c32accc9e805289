// Package cpu implements the 2A03's 6502-derived core as a queue of
// operation cycles: decoding an opcode enqueues the cycles it needs,
// including a trailing fetch that decodes the next opcode in turn, so the
// queue is never observed empty between ticks.
package cpu

import (
	"fmt"

	"gones/internal/word"
)

// MemoryPort is the bus the CPU reads and writes through. CheckRead/
// CheckWrite report whether an access at addr is free of side effects
// beyond ordinary storage; the CPU itself never calls them.
type MemoryPort interface {
	Read(addr word.DoubleWord) word.DataWord
	Write(addr word.DoubleWord, val word.DataWord)
	CheckRead(addr word.DoubleWord) bool
	CheckWrite(addr word.DoubleWord) bool
}

// NMILine reports the PPU's non-maskable interrupt line. The CPU edge-
// detects it internally; NMI() should just return the instantaneous level.
type NMILine interface {
	NMI() bool
}

// IRQLine reports whether any maskable interrupt source is currently
// asserting. Unlike NMI this is level-sensitive and summed across sources
// (APU frame counter, mapper IRQs) by whatever wires the line to the CPU.
type IRQLine interface {
	IRQ() bool
}

const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

const (
	vectorNMI   = word.DoubleWord(0xFFFA)
	vectorReset = word.DoubleWord(0xFFFC)
	vectorIRQ   = word.DoubleWord(0xFFFE)
)

const dmaCycleLength = 512

// CPU is the 6502-derived execution core. It owns no bus storage; all
// memory access goes through Mem.
type CPU struct {
	Mem MemoryPort
	NMI NMILine
	IRQ IRQLine

	a, x, y, sp word.DataWord
	pc          word.Pair
	p           uint8

	inst word.DataWord
	mdr  word.DataWord
	addr word.Pair
	ptr  word.Pair

	pageCrossed bool
	branchTaken bool
	branchRel   word.DataWord

	nmiLine, nmiEdge bool
	irqReady         bool

	pendingVector word.DoubleWord
	pendingBRK    bool

	queue opQueue

	dmaCyclesRemaining int
	dmaAddr            word.Pair
	dmaMDR             word.DataWord
	cycleEven          bool

	stallCycles int

	onUnimplemented func(opcode word.DataWord)
}

// New creates a CPU wired to the given bus and interrupt lines. Power or
// Reset must be called before Step to load the reset vector.
func New(mem MemoryPort, nmi NMILine, irq IRQLine) *CPU {
	return &CPU{Mem: mem, NMI: nmi, IRQ: irq, cycleEven: true}
}

// OnUnimplemented installs a hook called instead of panicking when an
// opcode outside the official instruction set is fetched.
func (c *CPU) OnUnimplemented(f func(opcode word.DataWord)) {
	c.onUnimplemented = f
}

// PC reports the current program counter, for debuggers and disassembler
// front ends; it has no effect on emulation.
func (c *CPU) PC() word.DoubleWord { return c.pc.AsU16() }

// Reset loads PC from the reset vector and puts the CPU in its documented
// post-reset register state. The seven dummy cycles real hardware spends
// getting there have no externally observable effect on a bus that's
// already been read from, so they are not separately modeled.
func (c *CPU) Reset() {
	c.sp -= 3
	c.p |= flagI
	c.loadResetVector()
}

// Power resets all registers to their documented power-on values and loads
// the reset vector.
func (c *CPU) Power() {
	c.a, c.x, c.y = 0, 0, 0
	c.sp = 0xFD
	c.p = flagU | flagI
	c.loadResetVector()
}

func (c *CPU) loadResetVector() {
	lo := c.Mem.Read(vectorReset)
	hi := c.Mem.Read(vectorReset + 1)
	c.pc.Lo, c.pc.Hi = lo, hi
	c.queue = opQueue{}
	c.queue.push(cycle{mem: memFetch, pcInc: false})
}

// DMAStallingRead implements apu.CPUPort: the DMC channel's sample fetch
// steals bus cycles from the CPU. The 1-4 cycle variance real hardware
// shows depending on alignment with the current instruction is collapsed
// to a flat 4-cycle stall here.
func (c *CPU) DMAStallingRead(addr word.DoubleWord) word.DataWord {
	c.stallCycles += 4
	return c.Mem.Read(addr)
}

// StartDMA begins an OAM-DMA transfer from page `page` ($XX00-$XXFF),
// suspending normal instruction execution for 513 or 514 cycles depending
// on whether DMA began on an even or odd CPU cycle.
func (c *CPU) StartDMA(page word.DataWord) {
	c.dmaAddr.Hi = page
	c.dmaAddr.Lo = 0
	c.dmaCyclesRemaining = dmaCycleLength + 1
	if !c.cycleEven {
		c.dmaCyclesRemaining++
	}
}

// Step runs exactly one CPU cycle (one CPU-clock tick, 1/12 the master
// clock), covering DMA transfer, interrupt polling, and ordinary
// instruction execution cycles.
func (c *CPU) Step() {
	if c.stallCycles > 0 {
		c.stallCycles--
		c.cycleEven = !c.cycleEven
		return
	}

	if c.dmaCyclesRemaining > 0 {
		c.runDMACycle()
		c.cycleEven = !c.cycleEven
		return
	}

	if c.canPoll() {
		c.irqReady = c.IRQ.IRQ() && c.p&flagI == 0
	}

	op := c.queue.pop()
	c.runOperation(op)

	c.pollNMI()
	c.cycleEven = !c.cycleEven
}

func (c *CPU) canPoll() bool {
	return c.queue.size() == 2 && c.inst != opBRK
}

func (c *CPU) pollNMI() {
	level := c.NMI.NMI()
	if level && !c.nmiLine {
		c.nmiEdge = true
	}
	c.nmiLine = level
}

func (c *CPU) runDMACycle() {
	switch {
	case c.dmaCyclesRemaining <= dmaCycleLength && c.cycleEven:
		c.Mem.Write(0x2004, c.dmaMDR)
	case c.dmaCyclesRemaining <= dmaCycleLength:
		c.dmaMDR = c.Mem.Read(c.dmaAddr.AsU16())
		c.dmaAddr.Lo++
	default:
		c.dmaMDR = 0
	}
	c.dmaCyclesRemaining--
}

func (c *CPU) runOperation(op cycle) {
	c.runMemoryOp(op.mem)
	c.runDataOp(op.dat)
	if op.pcInc {
		c.pc.Inc(1)
	}
}

// fetch reads the opcode byte at PC, decodes it (handling any pending
// interrupt hijack first), and enqueues the resulting operation cycles,
// always ending with another trailing fetch so the queue never empties.
func (c *CPU) fetch() {
	if c.nmiEdge {
		c.nmiEdge = false
		c.inst = opBRK
		c.enqueueInterrupt(vectorNMI)
		return
	}
	if c.irqReady {
		c.inst = opBRK
		c.enqueueInterrupt(vectorIRQ)
		return
	}

	opcode := c.Mem.Read(c.pc.AsU16())
	c.inst = opcode
	c.pc.Inc(1)
	c.decode(opcode)
}

func (c *CPU) unimplemented(opcode word.DataWord) {
	if c.onUnimplemented != nil {
		c.onUnimplemented(opcode)
		return
	}
	panic(fmt.Sprintf("cpu: unimplemented opcode $%02X at $%04X", opcode, c.pc.AsU16()))
}

// enqueueInterrupt pushes PC and P and vectors through the given address,
// used for hardware NMI/IRQ hijacks of the fetch cycle (not software BRK,
// which goes through the ordinary BRK opcode cycle list).
func (c *CPU) enqueueInterrupt(vector word.DoubleWord) {
	c.pendingVector = vector
	c.pendingBRK = false
	c.queue.push(cycle{mem: memReadPCNoDest})
	c.queue.push(cycle{mem: memPushPCH})
	c.queue.push(cycle{mem: memPushPCL})
	c.queue.push(cycle{mem: memPushPB})
	c.queue.push(cycle{mem: vectorLoOp(vector)})
	c.queue.push(cycle{mem: vectorHiOp(vector)})
	c.queue.push(cycle{mem: memFetch, pcInc: false})
}

func vectorLoOp(v word.DoubleWord) memOp {
	switch v {
	case vectorNMI:
		return memNMIPCL
	case vectorIRQ:
		return memIRQPCL
	default:
		return memResetPCL
	}
}

func vectorHiOp(v word.DoubleWord) memOp {
	switch v {
	case vectorNMI:
		return memNMIPCH
	case vectorIRQ:
		return memIRQPCH
	default:
		return memResetPCH
	}
}
