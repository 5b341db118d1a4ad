package annotate

// hitTolerance is the pointer slack in display pixels. It is scaled into
// image space so a finger-sized target stays finger-sized when the image is
// displayed smaller than native.
const hitTolerance = 18

// textHitMargin pads text boxes so short labels are still grabbable.
const textHitMargin = 4

// Hit returns the top-most annotation under p, or nil. p is in image-pixel
// coordinates; scale is image pixels per display pixel (DisplayTransform.Scale).
// Arrows extend the tolerance by twice their stroke width.
func Hit(m *Model, p Point, imageWidth int, scale float64) Annotation {
	if scale <= 0 {
		scale = 1
	}
	tol := hitTolerance * scale
	items := m.Items()
	for i := len(items) - 1; i >= 0; i-- {
		switch a := items[i].(type) {
		case *Arrow:
			if DistanceToSegment(p, a.From, a.To) <= tol+2*a.Thickness {
				return a
			}
		case *Text:
			if TextBounds(a, imageWidth).Contains(p, textHitMargin*scale) {
				return a
			}
		}
	}
	return nil
}
