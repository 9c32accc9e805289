// Package ppu implements the 2C02 Picture Processing Unit: the 341x262
// dot/scanline state machine, the loopy v/t/x/w scroll registers, the
// 8-dot background fetch pipeline, sprite evaluation (including the
// hardware's buggy overflow-detection increment), and sprite-0 hit.
package ppu

import "gones/internal/word"

// VRAMPort is the PPU's view of the bus for pattern table, nametable, and
// palette access, plus palette-emphasis control.
type VRAMPort interface {
	VRAMRead(addr word.DoubleWord) word.DataWord
	VRAMWrite(addr word.DoubleWord, val word.DataWord)
	SetTint(t uint8)
	PaletteRGB(addr word.DoubleWord) uint32
}

// Renderer receives one completed frame as 256x240 RGB pixels.
type Renderer interface {
	Frame(pixels *[256 * 240]uint32)
}

const (
	dotsPerScanline   = 341
	scanlinesPerFrame = 262
	visibleScanlines  = 240
	postRenderLine    = 240
	vblankStartLine   = 241
	preRenderLine     = 261
)

// PPU is the 2C02 core. It owns no VRAM storage; VRAM access goes through
// Mem. OAM (256 bytes of sprite attribute memory) and the 32-byte
// secondary OAM used during sprite evaluation are owned here since the
// CPU never addresses them except via $2003/$2004/OAM-DMA.
type PPU struct {
	Mem      VRAMPort
	Renderer Renderer

	ctrl, mask, status uint8
	oamAddr            uint8
	oam                [256]word.DataWord

	v, t word.DoubleWord
	x    uint8
	w    bool

	readBuffer word.DataWord

	scanline, dot int
	oddFrame      bool
	nmiOccurred   bool
	nmiOutput     bool
	suppressVBL   bool

	ntByte, atByte, patternLoByte, patternHiByte word.DataWord

	bgShiftLo, bgShiftHi     uint16
	atShiftLo, atShiftHi     uint16
	atLatchLo, atLatchHi     uint8

	secOAM       [32]word.DataWord
	secOAMCount  int
	secOAMIndex  [8]int
	spriteOverflow bool
	spritePatLo, spritePatHi [8]word.DataWord
	spriteX                  [8]word.DataWord
	spriteAttr               [8]word.DataWord
	spriteIsZero             [8]bool

	frame      [256 * 240]uint32
	frameCount uint64

	openBus word.DataWord
}

// FrameCount returns the number of frames completed since New; Reset does
// not clear it.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

// OAMByte reads primary OAM without the side effects ReadRegister's $2004
// path has, for debuggers and OAM-DMA tests.
func (p *PPU) OAMByte(i int) word.DataWord { return p.oam[i] }

// New creates a PPU with no VRAM port or renderer attached; callers must
// set Mem (and optionally Renderer) before Step.
func New() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

// Reset puts the PPU in its documented power-on state.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.status = 0
	p.oamAddr = 0
	p.v, p.t, p.x = 0, 0, 0
	p.w = false
	p.readBuffer = 0
	p.scanline, p.dot = 0, 0
	p.oddFrame = false
	p.nmiOccurred = false
}

// NMI implements cpu.NMILine: the line is asserted whenever the VBlank
// flag and NMI-enable control bit are both set.
func (p *PPU) NMI() bool {
	return p.nmiOccurred && p.nmiOutput
}

// ReadRegister implements memory.RegisterPort for $2000-$2007.
func (p *PPU) ReadRegister(addr word.DoubleWord) word.DataWord {
	switch addr & 7 {
	case 2:
		v := p.status&0xE0 | p.openBus&0x1F
		p.status &^= 0x80
		p.w = false
		if p.scanline == vblankStartLine && p.dot == 1 {
			p.suppressVBL = true
		}
		p.openBus = v
		return v
	case 4:
		v := p.oam[p.oamAddr]
		p.openBus = v
		return v
	case 7:
		v := p.readBuffer
		p.readBuffer = p.Mem.VRAMRead(p.v & 0x3FFF)
		if p.v&0x3FFF >= 0x3F00 {
			v = p.readBuffer
		}
		p.v = (p.v + p.addrIncrement()) & 0x7FFF
		p.openBus = v
		return v
	default:
		return p.openBus
	}
}

// WriteRegister implements memory.RegisterPort for $2000-$2007.
func (p *PPU) WriteRegister(addr word.DoubleWord, val word.DataWord) {
	p.openBus = val
	switch addr & 7 {
	case 0:
		p.ctrl = val
		p.nmiOutput = val&0x80 != 0
		p.t = (p.t &^ 0x0C00) | (word.DoubleWord(val&0x03) << 10)
	case 1:
		p.mask = val
		p.Mem.SetTint((val & 0xE0) >> 5)
	case 3:
		p.oamAddr = val
	case 4:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5:
		if !p.w {
			p.t = (p.t &^ 0x001F) | word.DoubleWord(val>>3)
			p.x = val & 0x07
		} else {
			p.t = (p.t &^ 0x73E0) | (word.DoubleWord(val&0x07) << 12) | (word.DoubleWord(val&0xF8) << 2)
		}
		p.w = !p.w
	case 6:
		if !p.w {
			p.t = (p.t &^ 0x7F00) | (word.DoubleWord(val&0x3F) << 8)
		} else {
			p.t = (p.t &^ 0x00FF) | word.DoubleWord(val)
			p.v = p.t
		}
		p.w = !p.w
	case 7:
		p.Mem.VRAMWrite(p.v&0x3FFF, val)
		p.v = (p.v + p.addrIncrement()) & 0x7FFF
	}
}

func (p *PPU) addrIncrement() word.DoubleWord {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) renderingEnabled() bool { return p.mask&0x18 != 0 }
func (p *PPU) bgEnabled() bool        { return p.mask&0x08 != 0 }
func (p *PPU) spritesEnabled() bool   { return p.mask&0x10 != 0 }

// Step advances the PPU by one dot (1/3 CPU cycle, matching the spec's
// PPU,PPU,PPU,CPU,APU master-tick interleave).
func (p *PPU) Step() {
	p.runDot()
	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
			p.frameCount++
			if p.oddFrame && p.renderingEnabled() {
				p.dot = 1 // skip dot 0 of the first visible-scanline pass
			}
			if p.Renderer != nil {
				p.Renderer.Frame(&p.frame)
			}
		}
	}
}

func (p *PPU) runDot() {
	switch {
	case p.scanline < visibleScanlines:
		p.visibleScanlineDot()
	case p.scanline == postRenderLine:
		// idle
	case p.scanline == vblankStartLine:
		if p.dot == 1 {
			if !p.suppressVBL {
				p.nmiOccurred = true
				p.status |= 0x80
			}
			p.suppressVBL = false
		}
	case p.scanline == preRenderLine:
		p.preRenderDot()
	default:
		// remaining vblank scanlines: idle
	}
}

func (p *PPU) preRenderDot() {
	if p.dot == 1 {
		p.status &^= 0xE0
		p.nmiOccurred = false
		p.spriteOverflow = false
	}
	p.visibleScanlineDot()
	if p.renderingEnabled() && p.dot >= 280 && p.dot <= 304 {
		p.copyY()
	}
}

func (p *PPU) visibleScanlineDot() {
	if !p.renderingEnabled() {
		if p.dot == 0 {
			p.emitIdleLine()
		}
		return
	}

	switch {
	case p.dot >= 1 && p.dot <= 256:
		p.backgroundFetchCycle()
		if p.dot <= 256 && p.scanline < visibleScanlines {
			p.renderPixel(p.dot - 1)
		}
		if p.dot == 256 {
			p.incrementY()
		}
	case p.dot == 257:
		p.copyX()
		if p.scanline < visibleScanlines {
			p.evaluateSprites()
		}
	case p.dot >= 321 && p.dot <= 336:
		p.backgroundFetchCycle()
	}

	if p.dot >= 258 && p.dot <= 320 {
		p.oamAddr = 0
	}
}

func (p *PPU) emitIdleLine() {
	if p.scanline >= visibleScanlines {
		return
	}
	for x := 0; x < 256; x++ {
		p.frame[p.scanline*256+x] = p.Mem.PaletteRGB(0x3F00)
	}
}

// backgroundFetchCycle implements the 8-dot fetch pipeline: nametable
// byte, attribute byte, pattern low, pattern high, each taking 2 dots,
// with the shift registers reloaded at the boundary and shifted every dot.
func (p *PPU) backgroundFetchCycle() {
	p.shiftBackground()

	switch p.dot % 8 {
	case 1:
		p.reloadShifters()
		p.ntByte = p.Mem.VRAMRead(0x2000 | (p.v & 0x0FFF))
	case 3:
		addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		p.atByte = p.Mem.VRAMRead(addr)
	case 5:
		base := word.DoubleWord(0)
		if p.ctrl&0x10 != 0 {
			base = 0x1000
		}
		fineY := (p.v >> 12) & 0x07
		p.patternLoByte = p.Mem.VRAMRead(base + word.DoubleWord(p.ntByte)*16 + fineY)
	case 7:
		base := word.DoubleWord(0)
		if p.ctrl&0x10 != 0 {
			base = 0x1000
		}
		fineY := (p.v >> 12) & 0x07
		p.patternHiByte = p.Mem.VRAMRead(base + word.DoubleWord(p.ntByte)*16 + fineY + 8)
		p.incrementX()
	}
}

func (p *PPU) reloadShifters() {
	p.bgShiftLo = (p.bgShiftLo &^ 0x00FF) | uint16(p.patternLoByte)
	p.bgShiftHi = (p.bgShiftHi &^ 0x00FF) | uint16(p.patternHiByte)

	coarseX := p.v & 0x1F
	coarseY := (p.v >> 5) & 0x1F
	shift := uint(0)
	if coarseX&0x02 != 0 {
		shift += 2
	}
	if coarseY&0x02 != 0 {
		shift += 4
	}
	bits := (p.atByte >> shift) & 0x03
	if bits&0x01 != 0 {
		p.atLatchLo = 0xFF
	} else {
		p.atLatchLo = 0
	}
	if bits&0x02 != 0 {
		p.atLatchHi = 0xFF
	} else {
		p.atLatchHi = 0
	}
}

func (p *PPU) shiftBackground() {
	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.atShiftLo = (p.atShiftLo << 1) | uint16(p.atLatchLo&1)
	p.atShiftHi = (p.atShiftHi << 1) | uint16(p.atLatchHi&1)
}

// incrementX implements the loopy coarse-X increment with nametable wrap.
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY implements the loopy fine/coarse-Y increment with the
// 29-row nametable wrap (rows 29/30/31 are attribute-table space).
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyX() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) copyY() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}

// evaluateSprites re-derives secondary OAM for the NEXT scanline, including
// the documented hardware bug where the overflow-detection read continues
// incrementing the OAM-entry byte offset by 5 instead of 4 once the 8-sprite
// limit is reached, corrupting later evaluation in a predictable way.
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}
	targetLine := p.scanline + 1

	p.secOAMCount = 0
	p.spriteOverflow = false
	for i := range p.secOAM {
		p.secOAM[i] = 0xFF
	}

	n := 0
	for n < 64 && p.secOAMCount < 8 {
		y := int(p.oam[n*4])
		if targetLine >= y && targetLine < y+height {
			if p.secOAMCount < 8 {
				base := p.secOAMCount * 4
				copy(p.secOAM[base:base+4], p.oam[n*4:n*4+4])
				p.secOAMIndex[p.secOAMCount] = n
				p.secOAMCount++
			}
		}
		n++
	}

	// The buggy continuation: once eight sprites are found, hardware keeps
	// scanning for overflow but increments the in-entry byte offset too, so
	// it compares the wrong byte of each subsequent sprite against the line.
	if p.secOAMCount == 8 {
		m := 0
		for n < 64 {
			y := int(p.oam[n*4+m])
			if targetLine >= y && targetLine < y+height {
				p.spriteOverflow = true
				p.status |= 0x20
				break
			}
			m = (m + 1) & 0x03
			n++
		}
	}

	for i := 0; i < p.secOAMCount; i++ {
		idx := p.secOAMIndex[i]
		y := p.secOAM[i*4]
		tile := p.secOAM[i*4+1]
		attr := p.secOAM[i*4+2]
		x := p.secOAM[i*4+3]

		row := targetLine - int(y)
		if attr&0x80 != 0 {
			row = height - 1 - row
		}

		var lo, hi word.DataWord
		if height == 16 {
			table := word.DoubleWord(tile&0x01) * 0x1000
			cell := word.DoubleWord(tile &^ 0x01)
			if row >= 8 {
				cell++
				row -= 8
			}
			lo = p.Mem.VRAMRead(table + cell*16 + word.DoubleWord(row))
			hi = p.Mem.VRAMRead(table + cell*16 + word.DoubleWord(row) + 8)
		} else {
			table := word.DoubleWord(0)
			if p.ctrl&0x08 != 0 {
				table = 0x1000
			}
			lo = p.Mem.VRAMRead(table + word.DoubleWord(tile)*16 + word.DoubleWord(row))
			hi = p.Mem.VRAMRead(table + word.DoubleWord(tile)*16 + word.DoubleWord(row) + 8)
		}
		if attr&0x40 != 0 {
			lo, hi = reverseBits(lo), reverseBits(hi)
		}
		p.spritePatLo[i] = lo
		p.spritePatHi[i] = hi
		p.spriteX[i] = x
		p.spriteAttr[i] = attr
		p.spriteIsZero[i] = idx == 0
	}
}

func reverseBits(b word.DataWord) word.DataWord {
	var r word.DataWord
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// renderPixel composites the background and sprite pixel for screen column
// x of the current scanline and writes the result into the frame buffer,
// applying sprite priority and setting sprite-0 hit.
func (p *PPU) renderPixel(x int) {
	if p.scanline >= visibleScanlines {
		return
	}

	bgPixel, bgPalette := p.backgroundPixelAt()
	if !p.bgEnabled() || (x < 8 && p.mask&0x02 == 0) {
		bgPixel = 0
	}

	spPixel, spPalette, spPriority, spZero := p.spritePixelAt(x)
	if !p.spritesEnabled() || (x < 8 && p.mask&0x04 == 0) {
		spPixel = 0
	}

	if spZero && bgPixel != 0 && spPixel != 0 && x != 255 {
		p.status |= 0x40
	}

	var addr word.DoubleWord
	switch {
	case bgPixel == 0 && spPixel == 0:
		addr = 0x3F00
	case bgPixel == 0:
		addr = 0x3F10 + word.DoubleWord(spPalette)*4 + word.DoubleWord(spPixel)
	case spPixel == 0:
		addr = 0x3F00 + word.DoubleWord(bgPalette)*4 + word.DoubleWord(bgPixel)
	case !spPriority:
		addr = 0x3F00 + word.DoubleWord(bgPalette)*4 + word.DoubleWord(bgPixel)
	default:
		addr = 0x3F10 + word.DoubleWord(spPalette)*4 + word.DoubleWord(spPixel)
	}

	p.frame[p.scanline*256+x] = p.Mem.PaletteRGB(addr)
}

func (p *PPU) backgroundPixelAt() (pixel, palette uint8) {
	shift := uint(15 - p.x)
	lo := (p.bgShiftLo >> shift) & 1
	hi := (p.bgShiftHi >> shift) & 1
	pixel = uint8(hi<<1 | lo)
	alo := (p.atShiftLo >> shift) & 1
	ahi := (p.atShiftHi >> shift) & 1
	palette = uint8(ahi<<1 | alo)
	return
}

func (p *PPU) spritePixelAt(x int) (pixel, palette uint8, priority, isZero bool) {
	for i := 0; i < p.secOAMCount; i++ {
		off := x - int(p.spriteX[i])
		if off < 0 || off > 7 {
			continue
		}
		shift := uint(7 - off)
		lo := (p.spritePatLo[i] >> shift) & 1
		hi := (p.spritePatHi[i] >> shift) & 1
		px := hi<<1 | lo
		if px == 0 {
			continue
		}
		return px, p.spriteAttr[i] & 0x03, p.spriteAttr[i]&0x20 == 0, p.spriteIsZero[i]
	}
	return 0, 0, false, false
}
