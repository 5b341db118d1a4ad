package annotate

import (
	"image/color"
)

// Annotation is a user-placed overlay tracked by the editor until the image
// is flattened. Implementations are *Arrow and *Text.
type Annotation interface {
	// ID returns the session-scoped identifier assigned by the model.
	ID() int
	// Translate moves the annotation by the given delta in image pixels.
	Translate(dx, dy float64)

	setID(id int)
}

// Arrow is a straight annotation arrow between two points in image-pixel
// coordinates. Thickness is an absolute stroke width taken from a tier.
type Arrow struct {
	id        int
	From      Point
	To        Point
	Color     color.RGBA
	Thickness float64
}

func (a *Arrow) ID() int      { return a.id }
func (a *Arrow) setID(id int) { a.id = id }
func (a *Arrow) Translate(dx, dy float64) {
	a.From.X += dx
	a.From.Y += dy
	a.To.X += dx
	a.To.Y += dy
}

// Length returns the distance between the arrow's endpoints.
func (a *Arrow) Length() float64 { return a.From.Distance(a.To) }

// Text is a block of annotation text anchored at its top-left corner in
// image-pixel coordinates. Content may contain newlines.
type Text struct {
	id       int
	Anchor   Point
	Content  string
	Color    color.RGBA
	FontTier int
}

func (t *Text) ID() int      { return t.id }
func (t *Text) setID(id int) { t.id = id }
func (t *Text) Translate(dx, dy float64) {
	t.Anchor.X += dx
	t.Anchor.Y += dy
}

// Model holds the ordered annotation list for one editor session. Slice
// order is z-order: later entries draw on top. Ids are assigned on append
// and are unique for the lifetime of the model.
type Model struct {
	items  []Annotation
	nextID int
}

// NewModel returns an empty model with ids starting at 1.
func NewModel() *Model {
	return &Model{nextID: 1}
}

// Append assigns the next id to a, pushes it as the top-most annotation and
// returns the assigned id.
func (m *Model) Append(a Annotation) int {
	a.setID(m.nextID)
	m.nextID++
	m.items = append(m.items, a)
	return a.ID()
}

// RemoveLast pops the most recently appended annotation. It returns nil when
// the model is empty.
func (m *Model) RemoveLast() Annotation {
	if len(m.items) == 0 {
		return nil
	}
	last := m.items[len(m.items)-1]
	m.items = m.items[:len(m.items)-1]
	return last
}

// RemoveByID deletes the annotation with the given id. Unknown ids are a
// no-op and report false.
func (m *Model) RemoveByID(id int) bool {
	for i, a := range m.items {
		if a.ID() == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns the annotation with the given id, or nil.
func (m *Model) FindByID(id int) Annotation {
	for _, a := range m.items {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

// UpdateByID applies fn to the annotation with the given id. Unknown ids are
// a no-op and report false.
func (m *Model) UpdateByID(id int, fn func(Annotation)) bool {
	a := m.FindByID(id)
	if a == nil {
		return false
	}
	fn(a)
	return true
}

// Len returns the number of annotations.
func (m *Model) Len() int { return len(m.items) }

// Items returns the annotations in z-order, bottom-most first. The slice is
// shared with the model and must not be reordered by callers.
func (m *Model) Items() []Annotation { return m.items }

// PaletteColor pairs a drawing color with its display name.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"Red", color.RGBA{0xEF, 0x44, 0x44, 0xFF}},
	{"Orange", color.RGBA{0xF9, 0x73, 0x16, 0xFF}},
	{"Yellow", color.RGBA{0xEA, 0xB3, 0x08, 0xFF}},
	{"Green", color.RGBA{0x22, 0xC5, 0x5E, 0xFF}},
	{"Blue", color.RGBA{0x3B, 0x82, 0xF6, 0xFF}},
	{"Purple", color.RGBA{0xA8, 0x55, 0xF7, 0xFF}},
	{"Black", color.RGBA{0x11, 0x18, 0x27, 0xFF}},
	{"White", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
}

// Palette returns a copy of the available annotation colors.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// PaletteColorAt returns the palette color at idx, clamped into range.
func PaletteColorAt(idx int) color.RGBA {
	return palette[clampIndex(idx, len(palette))].Color
}

// PaletteIndexOf returns the palette index of col, or -1 when col is not a
// palette color.
func PaletteIndexOf(col color.RGBA) int {
	for i, p := range palette {
		if p.Color == col {
			return i
		}
	}
	return -1
}

// thicknessTiers are the selectable arrow stroke widths in image pixels:
// thin, medium, thick.
var thicknessTiers = []float64{4, 8, 14}

// fontTierRatios scale a text tier with the image width: small, medium,
// large.
var fontTierRatios = []float64{0.025, 0.04, 0.065}

// minFontSize keeps text legible on small images.
const minFontSize = 18

// ThicknessTiers returns a copy of the stroke width tiers.
func ThicknessTiers() []float64 {
	out := make([]float64, len(thicknessTiers))
	copy(out, thicknessTiers)
	return out
}

// ThicknessAt returns the stroke width for a tier index, clamped into range.
func ThicknessAt(tier int) float64 {
	return thicknessTiers[clampIndex(tier, len(thicknessTiers))]
}

// FontTierCount returns the number of selectable font tiers.
func FontTierCount() int { return len(fontTierRatios) }

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
