package palette

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableEntry0IsGray(t *testing.T) {
	tbl := Default()
	assert.Equal(t, uint32(0x666666), tbl.RGB(0x00, 0))
}

func TestDefaultTableTintDims(t *testing.T) {
	tbl := Default()
	unemphasized := tbl.RGB(0x20, 0)
	emphasizedGreen := tbl.RGB(0x20, 0x2) // green-emphasis bit set, red not
	assert.NotEqual(t, unemphasized, emphasizedGreen)
}

func TestLoadRejectsShortFile(t *testing.T) {
	_, err := Load(bytes.NewReader(make([]byte, 10)))
	require.Error(t, err)
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	buf := make([]byte, NumTints*NumColors*3+1)
	_, err := Load(bytes.NewReader(buf))
	require.Error(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	buf := make([]byte, NumTints*NumColors*3)
	for i := range buf {
		buf[i] = byte(i % 256)
	}
	tbl, err := Load(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x000102), tbl.RGB(0, 0))
}

func TestRGBMasksIndexAndTint(t *testing.T) {
	tbl := Default()
	assert.Equal(t, tbl.RGB(0x00, 0), tbl.RGB(0x40, 0x8))
}
