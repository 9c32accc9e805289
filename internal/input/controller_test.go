package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrobeReloadsShiftRegister(t *testing.T) {
	src := &StaticSource{}
	src.Set(uint8(ButtonA | ButtonStart))
	c := New(src)

	c.Write(0x4016, 1)
	c.Write(0x4016, 0)

	assert.Equal(t, uint8(1), c.Read(0x4016))
	for i := 0; i < 2; i++ {
		c.Read(0x4016)
	}
	assert.Equal(t, uint8(1), c.Read(0x4016))
}

func TestReadAfterEighthReturnsOnes(t *testing.T) {
	src := &StaticSource{}
	src.Set(0)
	c := New(src)
	c.Write(0x4016, 1)
	c.Write(0x4016, 0)

	for i := 0; i < 8; i++ {
		c.Read(0x4016)
	}
	assert.Equal(t, uint8(1), c.Read(0x4016))
}

func TestStrobeHeldHighTracksSourceLive(t *testing.T) {
	src := &StaticSource{}
	c := New(src)
	c.Write(0x4016, 1)

	src.Set(uint8(ButtonB))
	assert.Equal(t, uint8(0), c.Read(0x4016))
}

func TestSanitizeClearsOpposingDirections(t *testing.T) {
	src := &StaticSource{}
	src.Set(uint8(ButtonUp | ButtonDown | ButtonLeft))
	c := New(src)
	c.Write(0x4016, 1)
	c.Write(0x4016, 0)

	var mask uint8
	for i := 0; i < 8; i++ {
		mask |= c.Read(0x4016) << uint(i)
	}
	assert.Equal(t, uint8(ButtonLeft), mask)
}
