// Package bus wires the CPU, PPU, APU, memory bus, cartridge, and
// controller ports into one system and drives the shared master clock.
package bus

import (
	"fmt"

	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/memory"
	"gones/internal/palette"
	"gones/internal/ppu"
)

// System owns every component of one running NES and steps them together.
// One call to Tick advances by one CPU cycle's worth of master clock: the
// PPU (which runs at 3x the CPU rate) gets three dots, then the CPU gets
// one cycle, then the APU gets one cycle, matching the real hardware's
// clock division and avoiding any single component having to reach back
// into another's internals to stay in lockstep.
type System struct {
	CPU *cpu.CPU
	PPU *ppu.PPU
	APU *apu.APU
	Mem *memory.Bus

	Pad1, Pad2 *input.Controller

	Cart *cartridge.Cartridge

	cpuCycles uint64
}

// New creates a System with a palette table and no cartridge loaded; call
// LoadCartridge before RunFrame.
func New(tints *palette.Table) *System {
	s := &System{}
	s.Mem = memory.New(tints)
	s.PPU = ppu.New()
	s.APU = apu.New()

	s.PPU.Mem = s.Mem
	s.Mem.PPU = s.PPU
	s.Mem.APU = s.APU

	s.CPU = cpu.New(s.Mem, s.PPU, s.APU)
	s.APU.CPU = s.CPU

	s.Pad1 = input.New(&input.StaticSource{})
	s.Pad2 = input.New(&input.StaticSource{})
	s.Mem.Pad1 = s.Pad1
	s.Mem.Pad2 = s.Pad2

	return s
}

// LoadCartridge attaches a cartridge and powers the machine on.
func (s *System) LoadCartridge(cart *cartridge.Cartridge) {
	s.Cart = cart
	s.Mem.Cart = cart
	s.CPU.Power()
	s.PPU.Reset()
}

// SetRenderer attaches the sink that receives completed frames.
func (s *System) SetRenderer(r ppu.Renderer) { s.PPU.Renderer = r }

// SetAudioSink attaches the sink that receives mixed audio samples.
func (s *System) SetAudioSink(sink apu.Sink) { s.APU.Sink = sink }

// Pad1Source/Pad2Source expose the static button sources so a frontend can
// push per-frame input without depending on the input package's Source
// interface directly.
func (s *System) Pad1Source() *input.StaticSource { return s.Pad1.SourceAsStatic() }
func (s *System) Pad2Source() *input.StaticSource { return s.Pad2.SourceAsStatic() }

// Tick advances the system by exactly one CPU cycle: 3 PPU dots, 1 CPU
// cycle, 1 APU cycle, honoring the PPU-PPU-PPU-CPU-APU ordering so that a
// CPU read of a just-latched PPU register sees this cycle's PPU state, not
// next cycle's.
func (s *System) Tick() {
	s.PPU.Step()
	s.PPU.Step()
	s.PPU.Step()
	s.CPU.Step()
	s.APU.Step()
	s.cpuCycles++
}

// RunFrame advances the system until one full PPU frame (one call to the
// attached renderer's Frame method) has completed.
func (s *System) RunFrame() {
	target := s.PPU.FrameCount() + 1
	for s.PPU.FrameCount() < target {
		s.Tick()
	}
}

// CPUCycles reports the total number of CPU cycles executed since power-on,
// useful for tests asserting timing invariants.
func (s *System) CPUCycles() uint64 { return s.cpuCycles }

func (s *System) String() string {
	return fmt.Sprintf("System{cpuCycles=%d}", s.cpuCycles)
}
