package editor

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	backgroundColor = color.RGBA{0x20, 0x20, 0x24, 0xFF}
	messageBack     = color.RGBA{0x00, 0x00, 0x00, 0xC0}
	messageText     = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawMessage paints a transient message box centered near the bottom of the
// window.
func drawMessage(dst *image.RGBA, msg string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	textW := d.MeasureString(msg).Ceil()
	pad := 8
	b := dst.Bounds()
	boxW := textW + 2*pad
	boxH := face.Height + 2*pad
	x0 := b.Min.X + (b.Dx()-boxW)/2
	y0 := b.Max.Y - boxH - 16
	box := image.Rect(x0, y0, x0+boxW, y0+boxH)
	draw.Draw(dst, box, image.NewUniform(messageBack), image.Point{}, draw.Over)

	d = &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(messageText),
		Face: face,
		Dot:  fixed.P(x0+pad, y0+pad+face.Ascent),
	}
	d.DrawString(msg)
}
