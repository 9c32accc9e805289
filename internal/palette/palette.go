// Package palette decodes NES 6-bit color indices into 32-bit RGB values,
// with support for the eight emphasis ("tint") variants selectable through
// the PPU mask register's emphasis bits.
package palette

import (
	"encoding/binary"
	"fmt"
	"io"
)

// NumColors is the size of one NES palette (2C02 outputs 64 distinct codes,
// entries 0x0E/0x0F/0x1D... are defined as black).
const NumColors = 64

// NumTints is the number of emphasis combinations: bits for red, green, and
// blue emphasis from PPUMASK bits 5-7.
const NumTints = 8

// ntscBase is the un-emphasized NTSC decode table, the same 64 entries the
// source renderer used verbatim.
var ntscBase = [NumColors]uint32{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFF29B, 0xBEFBB3, 0xB8F8D8, 0xB8F8F8, 0x000000, 0x000000, 0x000000,
}

// dimFactor approximates the hardware DAC's attenuation of non-emphasized
// channels when one or more emphasis bits are set.
const dimFactor = 0.816328

// Table holds all eight precomputed emphasis variants of the 64-entry NES
// palette, each entry a packed 0x00RRGGBB value.
type Table struct {
	tints [NumTints][NumColors]uint32
}

// Default builds the palette table from the built-in NTSC decode, used when
// no palette file is supplied or the supplied file is invalid.
func Default() *Table {
	t := &Table{}
	for tint := 0; tint < NumTints; tint++ {
		for i, rgb := range ntscBase {
			t.tints[tint][i] = emphasize(rgb, tint)
		}
	}
	return t
}

func emphasize(rgb uint32, tint int) uint32 {
	r := float64((rgb >> 16) & 0xFF)
	g := float64((rgb >> 8) & 0xFF)
	b := float64(rgb & 0xFF)
	emphR := tint&0x1 != 0
	emphG := tint&0x2 != 0
	emphB := tint&0x4 != 0
	if !emphR && (emphG || emphB) {
		r *= dimFactor
	}
	if !emphG && (emphR || emphB) {
		g *= dimFactor
	}
	if !emphB && (emphR || emphG) {
		b *= dimFactor
	}
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Load parses an external palette file: 8 tints x 64 colors x 3 bytes RGB,
// exactly 1536 bytes. Any other size is an error and the caller should fall
// back to Default.
func Load(r io.Reader) (*Table, error) {
	buf := make([]byte, NumTints*NumColors*3)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("palette: read: %w", err)
	}
	if n != len(buf) {
		return nil, fmt.Errorf("palette: expected %d bytes, got %d", len(buf), n)
	}
	// Confirm there isn't a trailing byte making the file the wrong size.
	extra := make([]byte, 1)
	if m, _ := r.Read(extra); m != 0 {
		return nil, fmt.Errorf("palette: file larger than %d bytes", len(buf))
	}
	t := &Table{}
	idx := 0
	for tint := 0; tint < NumTints; tint++ {
		for c := 0; c < NumColors; c++ {
			rgb := binary.BigEndian.Uint32([]byte{0, buf[idx], buf[idx+1], buf[idx+2]})
			t.tints[tint][c] = rgb
			idx += 3
		}
	}
	return t, nil
}

// RGB returns the decoded color for a 6-bit NES index under the given tint
// (0-7, PPU mask emphasis bits). Index is masked to 6 bits.
func (t *Table) RGB(index uint8, tint uint8) uint32 {
	return t.tints[tint&0x7][index&0x3F]
}
