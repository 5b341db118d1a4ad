package annotate

import (
	"image"
	"math"
	"testing"
)

func TestDistanceToSegmentClampsToEndpoints(t *testing.T) {
	a := Point{0, 0}
	b := Point{10, 0}
	if d := DistanceToSegment(Point{5, 3}, a, b); d != 3 {
		t.Fatalf("perpendicular distance = %v, want 3", d)
	}
	if d := DistanceToSegment(Point{-4, 3}, a, b); d != 5 {
		t.Fatalf("distance beyond the start should clamp to the endpoint, got %v", d)
	}
	if d := DistanceToSegment(Point{14, 3}, a, b); d != 5 {
		t.Fatalf("distance beyond the end should clamp to the endpoint, got %v", d)
	}
}

func TestDistanceToSegmentDegenerate(t *testing.T) {
	p := Point{3, 4}
	if d := DistanceToSegment(p, Point{0, 0}, Point{0, 0}); d != 5 {
		t.Fatalf("degenerate segment should reduce to point distance, got %v", d)
	}
}

func TestFontSizeScalesWithImageWidth(t *testing.T) {
	for tier, want := range []float64{30, 48, 78} {
		if got := FontSizeFor(tier, 1200); got != want {
			t.Errorf("tier %d on 1200px image = %v, want %v", tier, got, want)
		}
	}
}

func TestFontSizeHasAbsoluteFloor(t *testing.T) {
	if got := FontSizeFor(0, 200); got != 18 {
		t.Fatalf("0.025*200=5 should be floored to 18, got %v", got)
	}
}

func TestTextBoundsMultiline(t *testing.T) {
	txt := &Text{Anchor: Point{10, 20}, Content: "short\na much longer line\nmid", FontTier: 1}
	b := TextBounds(txt, 1000)
	size := FontSizeFor(1, 1000)
	wantH := 3 * LineHeightFor(size)
	if b.X != 10 || b.Y != 20 {
		t.Fatalf("bounds anchored at %v,%v", b.X, b.Y)
	}
	if b.H != wantH {
		t.Fatalf("height = %v, want 3 line heights = %v", b.H, wantH)
	}
	longest := measureString(annotationFace(size), "a much longer line")
	if b.W != longest {
		t.Fatalf("width = %v, want widest line %v", b.W, longest)
	}
}

func TestDisplayTransformMapsIntoImageSpace(t *testing.T) {
	tr := DisplayTransform{
		Rect:   image.Rect(100, 50, 500, 350),
		Native: image.Point{X: 800, Y: 600},
	}
	if s := tr.Scale(); s != 2 {
		t.Fatalf("scale = %v, want 2", s)
	}
	p := tr.ToImage(300, 200)
	if p.X != 400 || p.Y != 300 {
		t.Fatalf("mapped to %+v, want (400,300)", p)
	}
	if !tr.Inside(300, 200) || tr.Inside(50, 50) {
		t.Fatal("inside test wrong")
	}
}

func TestArrowBoundsNormalizes(t *testing.T) {
	b := ArrowBounds(&Arrow{From: Point{200, 50}, To: Point{100, 150}})
	if b.X != 100 || b.Y != 50 || b.W != 100 || b.H != 100 {
		t.Fatalf("bounds %+v", b)
	}
}

func TestLineHeightRatio(t *testing.T) {
	if lh := LineHeightFor(40); math.Abs(lh-48) > 1e-9 {
		t.Fatalf("line height = %v, want 48", lh)
	}
}
