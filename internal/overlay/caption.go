// Package overlay draws status text onto captured frames.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Corner selects where a Caption is anchored.
type Corner int

const (
	BottomLeft Corner = iota
	BottomRight
	TopLeft
	TopRight
)

// Caption is a line of text on a translucent box.
type Caption struct {
	Text       string
	Corner     Corner
	Color      color.RGBA
	Background color.RGBA
	// Opacity scales the whole caption, 0.0 to 1.0.
	Opacity float64
	Padding int
	Margin  int
}

// NewCaption returns white text on a dark box in the bottom-left corner.
func NewCaption(text string) *Caption {
	return &Caption{
		Text:       text,
		Corner:     BottomLeft,
		Color:      color.RGBA{255, 255, 255, 255},
		Background: color.RGBA{0, 0, 0, 160},
		Opacity:    1.0,
		Padding:    5,
		Margin:     8,
	}
}

// Size returns the caption box size in pixels.
func (c *Caption) Size() image.Point {
	face := basicfont.Face7x13
	width := font.MeasureString(face, c.Text).Ceil()
	return image.Pt(width+c.Padding*2, face.Height+c.Padding*2)
}

// Bounds returns where the caption lands on a frame of the given bounds.
func (c *Caption) Bounds(frame image.Rectangle) image.Rectangle {
	size := c.Size()
	var min image.Point
	switch c.Corner {
	case TopLeft:
		min = image.Pt(frame.Min.X+c.Margin, frame.Min.Y+c.Margin)
	case TopRight:
		min = image.Pt(frame.Max.X-c.Margin-size.X, frame.Min.Y+c.Margin)
	case BottomRight:
		min = image.Pt(frame.Max.X-c.Margin-size.X, frame.Max.Y-c.Margin-size.Y)
	default:
		min = image.Pt(frame.Min.X+c.Margin, frame.Max.Y-c.Margin-size.Y)
	}
	return image.Rectangle{Min: min, Max: min.Add(size)}.Intersect(frame)
}

// Render draws the caption onto img. Nothing is drawn for empty text or a
// frame too small to hold it.
func (c *Caption) Render(img *image.RGBA) {
	if c.Text == "" || c.Opacity <= 0 {
		return
	}
	box := c.Bounds(img.Bounds())
	if box.Dx() < c.Size().X || box.Dy() < c.Size().Y {
		return
	}

	// Draw into a scratch image so opacity applies to text and box alike.
	label := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	draw.Draw(label, label.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  label,
		Src:  image.NewUniform(c.Color),
		Face: face,
		Dot:  fixed.P(c.Padding, c.Padding+face.Ascent),
	}
	d.DrawString(c.Text)

	opacity := c.Opacity
	if opacity > 1 {
		opacity = 1
	}
	mask := image.NewUniform(color.Alpha{A: uint8(opacity * 255)})
	draw.DrawMask(img, box, label, image.Point{}, mask, image.Point{}, draw.Over)
}
