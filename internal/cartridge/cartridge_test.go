package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildROM assembles a minimal iNES file: header + PRG-ROM + CHR-ROM, with
// PRG filled with an ascending byte sequence so reads can be checked against
// a known value.
func buildROM(mapper int, prgBanks, chrBanks int) []byte {
	var buf bytes.Buffer
	buf.Write([]byte("NES\x1a"))
	buf.WriteByte(byte(prgBanks))
	buf.WriteByte(byte(chrBanks))
	buf.WriteByte(byte((mapper & 0x0F) << 4))
	buf.WriteByte(byte(mapper & 0xF0))
	buf.Write(make([]byte, 8))

	prg := make([]byte, prgBanks*prgROMUnit)
	for i := range prg {
		prg[i] = byte(i)
	}
	buf.Write(prg)

	chr := make([]byte, chrBanks*chrROMUnit)
	for i := range chr {
		chr[i] = byte(i)
	}
	buf.Write(chr)

	return buf.Bytes()
}

func TestLoadFromReaderRejectsShortFile(t *testing.T) {
	_, err := LoadFromReader(bytes.NewReader(make([]byte, 4)))
	require.Error(t, err)
}

func TestLoadFromReaderRejectsUnsupportedMapper(t *testing.T) {
	_, err := LoadFromReader(bytes.NewReader(buildROM(99, 1, 1)))
	require.Error(t, err)
}

func TestLoadFromReaderMapper0(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(0, 2, 1)))
	require.NoError(t, err)
	assert.Equal(t, 0, cart.Header.Mapper)
	assert.Equal(t, byte(0), cart.Mapper.Read(0x8000))
	assert.Equal(t, byte(1), cart.Mapper.Read(0x8001))
}

func TestLoadFromReaderMirrorsSingleBankNROM(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(0, 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, cart.Mapper.Read(0x8000), cart.Mapper.Read(0xC000))
}

func TestLoadFromReaderMapper2BankSwitch(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(2, 4, 0)))
	require.NoError(t, err)

	// Bank 0 is initially selected at $8000; the high fixed bank always
	// reads the last (4th) bank regardless of selection.
	assert.Equal(t, byte(0), cart.Mapper.Read(0x8000))

	cart.Mapper.Write(0x8000, 2)
	assert.Equal(t, byte(0), cart.Mapper.Read(0x8000)) // bank 2's first byte is also 0 (ascending per-bank)

	fixedFirstByte := cart.Mapper.Read(0xC000)
	assert.Equal(t, byte(0), fixedFirstByte)
}

func TestLoadFromReaderPRGRAMReadWrite(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(0, 1, 1)))
	require.NoError(t, err)
	cart.Mapper.Write(0x6000, 0x42)
	assert.Equal(t, byte(0x42), cart.Mapper.Read(0x6000))
}

func TestLoadFromReaderTruncatedCHRIsError(t *testing.T) {
	raw := buildROM(0, 2, 1)
	raw = raw[:len(raw)-100] // cut into the CHR data, still short of PRG+CHR
	_, err := LoadFromReader(bytes.NewReader(raw))
	require.Error(t, err)
}

func TestLoadFromReaderCHRRAMWhenNoCHRROM(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(0, 1, 0)))
	require.NoError(t, err)
	cart.Mapper.VRAMWrite(0x0010, 0x55)
	assert.Equal(t, byte(0x55), cart.Mapper.VRAMRead(0x0010))
}

func TestMapper1SerialShiftRegisterLoadsControl(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(1, 8, 2)))
	require.NoError(t, err)

	// Write the 5-bit value 0x0C (PRG mode: fix last bank at $C000,
	// 8KB CHR banking) into the control register one bit at a time,
	// LSB first, via five writes to any $8000-$9FFF address.
	value := uint8(0x0C)
	for i := 0; i < 5; i++ {
		bit := (value >> uint(i)) & 1
		cart.Mapper.Write(0x8000, bit)
	}

	// After five writes the shift register should have reset and the
	// write should not have corrupted PRG-ROM reads.
	assert.NotPanics(t, func() { cart.Mapper.Read(0x8000) })
}

func TestMapper1ResetBitClearsShiftRegister(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildROM(1, 8, 2)))
	require.NoError(t, err)
	cart.Mapper.Write(0x8000, 0x80) // reset bit set
	assert.NotPanics(t, func() { cart.Mapper.Read(0x8000) })
}
