package annotate

import "testing"

func TestHitPrefersTopMost(t *testing.T) {
	m := NewModel()
	bottom := m.Append(&Arrow{From: Point{0, 100}, To: Point{200, 100}, Thickness: 4})
	top := m.Append(&Arrow{From: Point{100, 0}, To: Point{100, 200}, Thickness: 4})
	hit := Hit(m, Point{100, 100}, 800, 1)
	if hit == nil || hit.ID() != top {
		t.Fatalf("expected top-most id %d, got %v", top, hit)
	}
	m.RemoveByID(top)
	hit = Hit(m, Point{100, 100}, 800, 1)
	if hit == nil || hit.ID() != bottom {
		t.Fatalf("expected id %d after removal, got %v", bottom, hit)
	}
}

func TestHitToleranceScalesWithDisplay(t *testing.T) {
	m := NewModel()
	m.Append(&Arrow{From: Point{0, 100}, To: Point{200, 100}, Thickness: 4})
	// 30px away: outside 18+2*4=26 at native scale.
	if hit := Hit(m, Point{100, 130}, 800, 1); hit != nil {
		t.Fatalf("point 30px off should miss at scale 1, hit %d", hit.ID())
	}
	// When the image is displayed at half size the same screen-distance
	// covers twice the image pixels.
	if hit := Hit(m, Point{100, 130}, 800, 2); hit == nil {
		t.Fatal("point 30px off should hit at scale 2")
	}
}

func TestHitTextUsesPaddedBounds(t *testing.T) {
	m := NewModel()
	m.Append(&Text{Anchor: Point{50, 50}, Content: "hi", FontTier: 0})
	if hit := Hit(m, Point{47, 48}, 800, 1); hit == nil {
		t.Fatal("point inside the 4px margin should hit")
	}
	if hit := Hit(m, Point{40, 40}, 800, 1); hit != nil {
		t.Fatalf("point well outside the box should miss, hit %d", hit.ID())
	}
}

func TestHitEmptyModel(t *testing.T) {
	if hit := Hit(NewModel(), Point{10, 10}, 800, 1); hit != nil {
		t.Fatalf("empty model should never hit, got %d", hit.ID())
	}
}
