package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const iconSize = 32

var (
	iconBackground = color.RGBA{0x1f, 0x6f, 0xeb, 0xff}
	iconForeground = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// renderIcon draws a rounded square with a "W" in the middle.
func renderIcon(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	radius := size / 5

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if insideRounded(x, y, size, radius) {
				img.SetRGBA(x, y, iconBackground)
			}
		}
	}

	face := basicfont.Face7x13
	glyph := image.NewRGBA(image.Rect(0, 0, 7, 13))
	d := &font.Drawer{
		Dst:  glyph,
		Src:  image.NewUniform(iconForeground),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(face.Ascent)},
	}
	d.DrawString("W")

	// Scale the glyph up with nearest-neighbour sampling.
	scale := size / 16
	if scale < 1 {
		scale = 1
	}
	gw, gh := 7*scale, 13*scale
	offX, offY := (size-gw)/2, (size-gh)/2
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			c := glyph.RGBAAt(x/scale, y/scale)
			if c.A == 0 {
				continue
			}
			draw.Draw(img, image.Rect(offX+x, offY+y, offX+x+1, offY+y+1), image.NewUniform(c), image.Point{}, draw.Over)
		}
	}
	return img
}

func insideRounded(x, y, size, r int) bool {
	cx, cy := x, y
	switch {
	case x < r:
		cx = r
	case x >= size-r:
		cx = size - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= size-r:
		cy = size - r - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// iconPNG returns the tray icon as PNG.
func iconPNG() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, renderIcon(iconSize)); err != nil {
		return nil
	}
	return buf.Bytes()
}

// wrapICO embeds a PNG image in a single-entry ICO container, which is
// what the Windows tray expects.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, struct {
		Reserved, Type, Count uint16
	}{0, 1, 1})
	// ICONDIRENTRY
	binary.Write(&buf, binary.LittleEndian, struct {
		Width, Height, Colors, Reserved byte
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{dim, dim, 0, 0, 1, 32, uint32(len(pngData)), 6 + 16})
	buf.Write(pngData)
	return buf.Bytes()
}
