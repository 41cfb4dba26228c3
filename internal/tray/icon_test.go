package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconPNG(t *testing.T) {
	data := iconPNG()
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, iconSize, img.Bounds().Dx())
	assert.Equal(t, iconSize, img.Bounds().Dy())

	// Corners are transparent, the centre column carries the glyph or
	// background.
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
	_, _, _, a = img.At(iconSize/2, 2).RGBA()
	assert.NotZero(t, a)
}

func TestWrapICO(t *testing.T) {
	pngData := iconPNG()
	ico := wrapICO(pngData, iconSize)
	require.Len(t, ico, 22+len(pngData))

	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(ico[0:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(ico[2:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(ico[4:]))
	assert.Equal(t, byte(iconSize), ico[6])
	assert.Equal(t, byte(iconSize), ico[7])
	assert.Equal(t, uint16(32), binary.LittleEndian.Uint16(ico[12:]))
	assert.Equal(t, uint32(len(pngData)), binary.LittleEndian.Uint32(ico[14:]))
	assert.Equal(t, uint32(22), binary.LittleEndian.Uint32(ico[18:]))
	assert.Equal(t, pngData, ico[22:])

	assert.Equal(t, byte(0), wrapICO(pngData, 256)[6])
}
