package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gones/internal/palette"
	"gones/internal/word"
)

type mockRegisterPort struct {
	reads  map[word.DoubleWord]word.DataWord
	writes map[word.DoubleWord]word.DataWord
}

func newMockRegisterPort() *mockRegisterPort {
	return &mockRegisterPort{reads: map[word.DoubleWord]word.DataWord{}, writes: map[word.DoubleWord]word.DataWord{}}
}

func (m *mockRegisterPort) ReadRegister(addr word.DoubleWord) word.DataWord {
	return m.reads[addr]
}

func (m *mockRegisterPort) WriteRegister(addr word.DoubleWord, val word.DataWord) {
	m.writes[addr] = val
}

type mockControllerPort struct {
	lastRead  word.DoubleWord
	lastWrite word.DataWord
}

func (m *mockControllerPort) Read(addr word.DoubleWord) word.DataWord {
	m.lastRead = addr
	return 0x01
}

func (m *mockControllerPort) Write(addr word.DoubleWord, val word.DataWord) {
	m.lastWrite = val
}

func newTestBus() (*Bus, *mockRegisterPort, *mockRegisterPort, *mockControllerPort, *mockControllerPort) {
	b := New(palette.Default())
	ppu := newMockRegisterPort()
	apu := newMockRegisterPort()
	pad1 := &mockControllerPort{}
	pad2 := &mockControllerPort{}
	b.PPU = ppu
	b.APU = apu
	b.Pad1 = pad1
	b.Pad2 = pad2
	return b, ppu, apu, pad1, pad2
}

func TestRAMMirroring(t *testing.T) {
	b, _, _, _, _ := newTestBus()
	b.Write(0x0000, 0x42)
	assert.Equal(t, word.DataWord(0x42), b.Read(0x0800))
	assert.Equal(t, word.DataWord(0x42), b.Read(0x1800))
}

func TestPPURegisterMirroring(t *testing.T) {
	b, ppu, _, _, _ := newTestBus()
	ppu.reads[0x2002] = 0x80
	assert.Equal(t, word.DataWord(0x80), b.Read(0x2002))
	assert.Equal(t, word.DataWord(0x80), b.Read(0x200A)) // mirrors every 8 bytes
}

func TestWriteToPPURegisterDispatches(t *testing.T) {
	b, ppu, _, _, _ := newTestBus()
	b.Write(0x2000, 0x90)
	assert.Equal(t, word.DataWord(0x90), ppu.writes[0x2000])
}

func TestControllerStrobeWritesBothPads(t *testing.T) {
	b, _, _, pad1, pad2 := newTestBus()
	b.Write(0x4016, 1)
	assert.Equal(t, word.DataWord(1), pad1.lastWrite)
	assert.Equal(t, word.DataWord(1), pad2.lastWrite)
}

func TestReadPad1AndPad2(t *testing.T) {
	b, _, _, pad1, pad2 := newTestBus()
	assert.Equal(t, word.DataWord(1), b.Read(0x4016))
	assert.Equal(t, word.DoubleWord(0x4016), pad1.lastRead)
	assert.Equal(t, word.DataWord(1), b.Read(0x4017))
	assert.Equal(t, word.DoubleWord(0x4017), pad2.lastRead)
}

func TestAPUStatusReadDispatches(t *testing.T) {
	b, _, apu, _, _ := newTestBus()
	apu.reads[0x4015] = 0x1F
	assert.Equal(t, word.DataWord(0x1F), b.Read(0x4015))
}

func TestOpenBusRetainsLastValue(t *testing.T) {
	b, _, _, _, _ := newTestBus()
	b.Write(0x0000, 0x77)
	// $4010-$4013 is write-only APU range beyond $4015/$4016/$4017, reads
	// should return the open-bus latch unchanged rather than zero.
	assert.Equal(t, word.DataWord(0x77), b.Read(0x4010))
}

func TestCheckReadWriteRAMIsSideEffectFree(t *testing.T) {
	b, _, _, _, _ := newTestBus()
	assert.True(t, b.CheckRead(0x0000))
	assert.True(t, b.CheckWrite(0x0000))
	assert.False(t, b.CheckRead(0x2000))
}

func TestPaletteWriteAndMirroring(t *testing.T) {
	b, _, _, _, _ := newTestBus()
	b.VRAMWrite(0x3F00, 0x0F)
	assert.Equal(t, word.DataWord(0x0F), b.VRAMRead(0x3F00))
	// $3F10 mirrors $3F00 (background color mirror).
	assert.Equal(t, word.DataWord(0x0F), b.VRAMRead(0x3F10))
}

func TestPaletteWriteMasksTo6Bits(t *testing.T) {
	b, _, _, _, _ := newTestBus()
	b.VRAMWrite(0x3F01, 0xFF)
	assert.Equal(t, word.DataWord(0x3F), b.VRAMRead(0x3F01))
}

func TestSetTintRecomputesRGB(t *testing.T) {
	b, _, _, _, _ := newTestBus()
	b.VRAMWrite(0x3F00, 0x20)
	before := b.PaletteRGB(0x3F00)
	b.SetTint(0x2)
	after := b.PaletteRGB(0x3F00)
	assert.NotEqual(t, before, after)
}
