package annotate

import (
	"image"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// Point is a position in image-pixel coordinates.
type Point struct {
	X, Y float64
}

// Distance returns the euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// DistanceToSegment returns the shortest distance from p to the segment ab.
// The projection of p onto the ab line is clamped to the segment, so a
// degenerate segment reduces to point distance.
func DistanceToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(Point{a.X + t*dx, a.Y + t*dy})
}

// FontSizeFor returns the absolute font size in image pixels for a tier on an
// image of the given width. Sizes scale with the image so flattened text
// keeps its apparent size, with a floor so small images stay legible.
func FontSizeFor(tier int, imageWidth int) float64 {
	ratio := fontTierRatios[clampIndex(tier, len(fontTierRatios))]
	size := math.Round(float64(imageWidth) * ratio)
	if size < minFontSize {
		return minFontSize
	}
	return size
}

// LineHeightFor returns the line advance for a font size.
func LineHeightFor(fontSize float64) float64 {
	return fontSize * 1.2
}

// Bounds is an axis-aligned rectangle in image-pixel coordinates.
type Bounds struct {
	X, Y, W, H float64
}

// Contains reports whether p falls inside the bounds expanded by margin on
// every side.
func (b Bounds) Contains(p Point, margin float64) bool {
	return p.X >= b.X-margin && p.X <= b.X+b.W+margin &&
		p.Y >= b.Y-margin && p.Y <= b.Y+b.H+margin
}

// TextBounds measures a text annotation on an image of the given width.
// Width is the widest line, height is lineCount times the line height.
func TextBounds(t *Text, imageWidth int) Bounds {
	size := FontSizeFor(t.FontTier, imageWidth)
	lineHeight := LineHeightFor(size)
	lines := strings.Split(t.Content, "\n")
	face := annotationFace(size)
	var widest float64
	for _, line := range lines {
		if w := measureString(face, line); w > widest {
			widest = w
		}
	}
	return Bounds{
		X: t.Anchor.X,
		Y: t.Anchor.Y,
		W: widest,
		H: float64(len(lines)) * lineHeight,
	}
}

// ArrowBounds returns the axis-aligned box around an arrow's endpoints.
func ArrowBounds(a *Arrow) Bounds {
	x0 := math.Min(a.From.X, a.To.X)
	y0 := math.Min(a.From.Y, a.To.Y)
	return Bounds{
		X: x0,
		Y: y0,
		W: math.Abs(a.To.X - a.From.X),
		H: math.Abs(a.To.Y - a.From.Y),
	}
}

// DisplayTransform maps pointer positions in window coordinates onto the
// image's native pixel grid. Rect is where the image is shown in the window,
// Native is the image's pixel size.
type DisplayTransform struct {
	Rect   image.Rectangle
	Native image.Point
}

// Scale returns the image-pixels-per-display-pixel ratio along x. Values
// above 1 mean the image is displayed smaller than native.
func (t DisplayTransform) Scale() float64 {
	if t.Rect.Dx() == 0 {
		return 1
	}
	return float64(t.Native.X) / float64(t.Rect.Dx())
}

// ToImage converts a window position to image-pixel coordinates.
func (t DisplayTransform) ToImage(x, y float64) Point {
	sx, sy := 1.0, 1.0
	if t.Rect.Dx() != 0 {
		sx = float64(t.Native.X) / float64(t.Rect.Dx())
	}
	if t.Rect.Dy() != 0 {
		sy = float64(t.Native.Y) / float64(t.Rect.Dy())
	}
	return Point{
		X: (x - float64(t.Rect.Min.X)) * sx,
		Y: (y - float64(t.Rect.Min.Y)) * sy,
	}
}

// Inside reports whether a window position falls on the displayed image.
func (t DisplayTransform) Inside(x, y float64) bool {
	return x >= float64(t.Rect.Min.X) && x < float64(t.Rect.Max.X) &&
		y >= float64(t.Rect.Min.Y) && y < float64(t.Rect.Max.Y)
}

var (
	fontOnce sync.Once
	boldFont *truetype.Font

	faceMu    sync.Mutex
	faceCache map[float64]font.Face
)

// annotationFace returns a cached bold face at the given size. All
// measurement and rendering share these faces so bounds match the painted
// glyphs.
func annotationFace(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := truetype.Parse(gobold.TTF)
		if err != nil {
			log.Fatalf("parse embedded font: %v", err)
		}
		boldFont = f
		faceCache = make(map[float64]font.Face)
	})
	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face
	}
	face := truetype.NewFace(boldFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faceCache[size] = face
	return face
}

func measureString(face font.Face, s string) float64 {
	d := font.Drawer{Face: face}
	return float64(d.MeasureString(s)) / 64
}
