package annotate

import (
	"image"
	"image/draw"
	"math"
	"strings"

	"github.com/fogleman/gg"
)

// Arrow head geometry. The head is a filled triangle; the body is shortened
// so the stroke cap does not poke past the tip.
const (
	arrowHeadAngle   = math.Pi / 7
	arrowHeadMinMul  = 3    // head length floor: 3x the stroke width
	arrowHeadLenFrac = 0.15 // head length as a fraction of arrow length
	arrowBodyTrim    = 0.7  // fraction of the head length trimmed off the body
)

// Selection outline style.
const (
	selectionPad       = 6
	selectionDashOn    = 6
	selectionDashOff   = 4
	selectionLineWidth = 2
)

// Render composites the model over base and returns the result. selectedID
// gets a dashed outline; excludeID is skipped entirely (the annotation bound
// to an open text overlay, which the overlay draws itself). Zero disables
// either.
func Render(base image.Image, m *Model, selectedID, excludeID int) *image.RGBA {
	return render(base, m, selectedID, excludeID, nil)
}

// RenderFrame renders the session's current view: annotations, selection
// outline, the annotation under text edit excluded, and the rubber-band
// arrow while one is being drawn.
func (s *Session) RenderFrame() *image.RGBA {
	exclude := 0
	if s.editing {
		exclude = s.editingID
	}
	return render(s.base, s.model, s.selectedID, exclude, s.previewArrow())
}

func render(base image.Image, m *Model, selectedID, excludeID int, preview *Arrow) *image.RGBA {
	b := base.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(base, 0, 0)
	imgW := b.Dx()
	for _, a := range m.Items() {
		if excludeID != 0 && a.ID() == excludeID {
			continue
		}
		drawAnnotation(dc, a, imgW)
		if selectedID != 0 && a.ID() == selectedID {
			drawSelection(dc, a, imgW)
		}
	}
	if preview != nil {
		drawArrow(dc, preview)
	}
	out := dc.Image()
	if rgba, ok := out.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), out, out.Bounds().Min, draw.Src)
	return rgba
}

func drawAnnotation(dc *gg.Context, a Annotation, imageWidth int) {
	switch v := a.(type) {
	case *Arrow:
		drawArrow(dc, v)
	case *Text:
		drawText(dc, v, imageWidth)
	}
}

func drawArrow(dc *gg.Context, a *Arrow) {
	length := a.Length()
	if length == 0 {
		return
	}
	headLen := math.Max(a.Thickness*arrowHeadMinMul, length*arrowHeadLenFrac)
	angle := math.Atan2(a.To.Y-a.From.Y, a.To.X-a.From.X)

	bodyEnd := Point{
		X: a.To.X - math.Cos(angle)*headLen*arrowBodyTrim,
		Y: a.To.Y - math.Sin(angle)*headLen*arrowBodyTrim,
	}
	dc.SetColor(a.Color)
	dc.SetLineWidth(a.Thickness)
	dc.SetLineCapRound()
	dc.DrawLine(a.From.X, a.From.Y, bodyEnd.X, bodyEnd.Y)
	dc.Stroke()

	left := Point{
		X: a.To.X - math.Cos(angle-arrowHeadAngle)*headLen,
		Y: a.To.Y - math.Sin(angle-arrowHeadAngle)*headLen,
	}
	right := Point{
		X: a.To.X - math.Cos(angle+arrowHeadAngle)*headLen,
		Y: a.To.Y - math.Sin(angle+arrowHeadAngle)*headLen,
	}
	dc.MoveTo(a.To.X, a.To.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	dc.Fill()
}

func drawText(dc *gg.Context, t *Text, imageWidth int) {
	size := FontSizeFor(t.FontTier, imageWidth)
	face := annotationFace(size)
	lineHeight := LineHeightFor(size)
	ascent := float64(face.Metrics().Ascent.Ceil())

	dc.SetFontFace(face)
	dc.SetColor(t.Color)
	for i, line := range strings.Split(t.Content, "\n") {
		dc.DrawString(line, t.Anchor.X, t.Anchor.Y+ascent+float64(i)*lineHeight)
	}
}

// DrawEditOverlay paints the open text entry onto frame in image space: the
// typed lines in the active color and a caret after the last line. The
// bound annotation itself is excluded from RenderFrame, so this is the only
// place the in-progress text appears.
func (s *Session) DrawEditOverlay(frame *image.RGBA) {
	if !s.editing {
		return
	}
	size := FontSizeFor(s.fontTier, s.imgW)
	face := annotationFace(size)
	lineHeight := LineHeightFor(size)
	ascent := float64(face.Metrics().Ascent.Ceil())
	col := PaletteColorAt(s.colorIdx)

	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(face)
	dc.SetColor(col)
	lines := strings.Split(s.editText, "\n")
	for i, line := range lines {
		dc.DrawString(line, s.editAnchor.X, s.editAnchor.Y+ascent+float64(i)*lineHeight)
	}
	lastWidth := measureString(face, lines[len(lines)-1])
	caretW := math.Max(2, size*0.08)
	caretX := s.editAnchor.X + lastWidth + 2
	caretY := s.editAnchor.Y + float64(len(lines)-1)*lineHeight
	dc.DrawRectangle(caretX, caretY, caretW, size)
	dc.Fill()
}

func drawSelection(dc *gg.Context, a Annotation, imageWidth int) {
	var b Bounds
	switch v := a.(type) {
	case *Arrow:
		b = ArrowBounds(v)
	case *Text:
		b = TextBounds(v, imageWidth)
	default:
		return
	}
	dc.SetRGB255(0x0D, 0x94, 0x88)
	dc.SetLineWidth(selectionLineWidth)
	dc.SetDash(selectionDashOn, selectionDashOff)
	dc.DrawRectangle(b.X-selectionPad, b.Y-selectionPad, b.W+2*selectionPad, b.H+2*selectionPad)
	dc.Stroke()
	dc.SetDash()
}
