package annotate

import (
	"image"
	"testing"
)

func testBase(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	m := NewModel()
	first := m.Append(&Arrow{From: Point{0, 0}, To: Point{10, 10}})
	second := m.Append(&Text{Anchor: Point{5, 5}, Content: "x"})
	third := m.Append(&Arrow{From: Point{1, 1}, To: Point{2, 2}})
	if first != 1 || second != 2 || third != 3 {
		t.Fatalf("expected ids 1,2,3 got %d,%d,%d", first, second, third)
	}
	m.RemoveLast()
	fourth := m.Append(&Text{Anchor: Point{0, 0}, Content: "y"})
	if fourth != 4 {
		t.Fatalf("ids must not be reused after removal, got %d", fourth)
	}
}

func TestArrowGestureCreatesAnnotation(t *testing.T) {
	s := NewSession(testBase(800, 600))
	s.PointerDown(Point{100, 100})
	s.PointerMove(Point{100, 40})
	s.PointerUp(Point{100, 10})
	if s.Model().Len() != 1 {
		t.Fatalf("expected one annotation, got %d", s.Model().Len())
	}
	a, ok := s.Model().Items()[0].(*Arrow)
	if !ok {
		t.Fatalf("expected an arrow, got %T", s.Model().Items()[0])
	}
	if a.From != (Point{100, 100}) || a.To != (Point{100, 10}) {
		t.Fatalf("unexpected endpoints: %+v -> %+v", a.From, a.To)
	}
	if s.Selected() != a.ID() {
		t.Fatalf("new arrow should be selected, selected=%d", s.Selected())
	}
}

func TestShortArrowGestureIsDiscarded(t *testing.T) {
	s := NewSession(testBase(800, 600))
	s.PointerDown(Point{100, 100})
	s.PointerUp(Point{104, 103})
	if s.Model().Len() != 0 {
		t.Fatalf("gesture of length 5 should be discarded, model has %d", s.Model().Len())
	}
}

func TestTextToolOpensOverlayOnEmptyPress(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.PointerDown(Point{200, 150})
	if !s.Editing() {
		t.Fatal("text press on empty canvas should open the overlay")
	}
	if s.EditingID() != 0 {
		t.Fatalf("new entry should be unbound, got id %d", s.EditingID())
	}
	if s.EditAnchor() != (Point{200, 150}) {
		t.Fatalf("anchor %+v", s.EditAnchor())
	}
	s.SetEditText("  hello  ")
	s.CommitText()
	txt, ok := s.Model().Items()[0].(*Text)
	if !ok || txt.Content != "hello" {
		t.Fatalf("expected trimmed text annotation, got %#v", s.Model().Items()[0])
	}
}

func TestCommitEmptyUnboundCreatesNothing(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.PointerDown(Point{10, 10})
	s.SetEditText("   ")
	s.CommitText()
	if s.Model().Len() != 0 {
		t.Fatalf("empty commit should create nothing, got %d", s.Model().Len())
	}
	if s.Editing() {
		t.Fatal("overlay should be closed after commit")
	}
}

func TestClickOnTextReopensPrefilled(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.Model().Append(&Text{Anchor: Point{50, 50}, Content: "hi", Color: PaletteColorAt(3), FontTier: 2})
	s.PointerDown(Point{51, 51})
	s.PointerUp(Point{51, 51})
	if !s.Editing() {
		t.Fatal("click on existing text should reopen the overlay")
	}
	if s.EditText() != "hi" {
		t.Fatalf("overlay should be prefilled, got %q", s.EditText())
	}
	if s.EditingID() != 1 {
		t.Fatalf("overlay should be bound to id 1, got %d", s.EditingID())
	}
	if s.ColorIndex() != 3 || s.FontTier() != 2 {
		t.Fatalf("toolbar should mirror the annotation: color=%d font=%d", s.ColorIndex(), s.FontTier())
	}
}

func TestCommitEmptyBoundDeletesAnnotation(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.Model().Append(&Text{Anchor: Point{50, 50}, Content: "hi"})
	s.PointerDown(Point{51, 51})
	s.PointerUp(Point{51, 51})
	s.SetEditText("")
	s.CommitText()
	if s.Model().Len() != 0 {
		t.Fatalf("committing empty over existing text should delete it, got %d", s.Model().Len())
	}
	if s.Selected() != 0 {
		t.Fatalf("selection should be cleared, got %d", s.Selected())
	}
}

func TestCancelLeavesModelUntouched(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.Model().Append(&Text{Anchor: Point{50, 50}, Content: "hi"})
	s.PointerDown(Point{51, 51})
	s.PointerUp(Point{51, 51})
	s.SetEditText("changed")
	s.CancelText()
	txt := s.Model().Items()[0].(*Text)
	if txt.Content != "hi" {
		t.Fatalf("cancel must not modify the annotation, got %q", txt.Content)
	}
}

func TestDragMovesTextByExactDelta(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.Model().Append(&Text{Anchor: Point{50, 50}, Content: "hi"})
	s.PointerDown(Point{55, 55})
	s.PointerMove(Point{75, 85}) // past the drag threshold
	s.PointerUp(Point{75, 85})
	txt := s.Model().Items()[0].(*Text)
	if txt.Anchor != (Point{70, 80}) {
		t.Fatalf("anchor should move by the pointer delta, got %+v", txt.Anchor)
	}
	if s.Editing() {
		t.Fatal("a drag must not open the overlay")
	}
}

func TestSmallWiggleStillCountsAsClick(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.Model().Append(&Text{Anchor: Point{50, 50}, Content: "hi"})
	s.PointerDown(Point{55, 55})
	s.PointerMove(Point{57, 56}) // below the 4px threshold
	s.PointerUp(Point{57, 56})
	if !s.Editing() {
		t.Fatal("sub-threshold movement should still open the overlay")
	}
	txt := s.Model().Items()[0].(*Text)
	if txt.Anchor != (Point{50, 50}) {
		t.Fatalf("annotation must not move, got %+v", txt.Anchor)
	}
}

func TestDragMovesArrow(t *testing.T) {
	s := NewSession(testBase(800, 600))
	s.Model().Append(&Arrow{From: Point{100, 100}, To: Point{200, 200}, Thickness: 4})
	s.PointerDown(Point{150, 150})
	s.PointerMove(Point{160, 170})
	s.PointerUp(Point{160, 170})
	a := s.Model().Items()[0].(*Arrow)
	if a.From != (Point{110, 120}) || a.To != (Point{210, 220}) {
		t.Fatalf("arrow should move by (10,20): %+v -> %+v", a.From, a.To)
	}
}

func TestUndoRemovesNewestAndNotifiesWhenEmpty(t *testing.T) {
	var msgs []string
	s := NewSession(testBase(800, 600), WithNotice(func(m string) { msgs = append(msgs, m) }))
	s.Model().Append(&Arrow{From: Point{0, 0}, To: Point{50, 50}})
	s.Model().Append(&Text{Anchor: Point{10, 10}, Content: "a"})
	s.Undo()
	if s.Model().Len() != 1 {
		t.Fatalf("undo should remove the newest annotation, %d left", s.Model().Len())
	}
	if _, ok := s.Model().Items()[0].(*Arrow); !ok {
		t.Fatalf("arrow should survive, got %T", s.Model().Items()[0])
	}
	s.Undo()
	s.Undo()
	if len(msgs) != 1 || msgs[0] != "nothing to undo" {
		t.Fatalf("expected one empty-undo notice, got %v", msgs)
	}
}

func TestPressWhileEditingCommitsInsteadOfActing(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolText))
	s.PointerDown(Point{100, 100})
	s.SetEditText("note")
	s.PointerDown(Point{400, 400})
	if s.Editing() {
		t.Fatal("press outside the overlay should commit it")
	}
	if s.Model().Len() != 1 {
		t.Fatalf("committed text should exist, got %d", s.Model().Len())
	}
	// The press that committed must not have started another action.
	s.PointerUp(Point{400, 400})
	if s.Model().Len() != 1 {
		t.Fatalf("the committing press must not create anything, got %d", s.Model().Len())
	}
}

func TestArrowToolDragsExistingText(t *testing.T) {
	s := NewSession(testBase(800, 600), WithTool(ToolArrow))
	s.Model().Append(&Text{Anchor: Point{50, 50}, Content: "hi"})
	s.PointerDown(Point{55, 55})
	s.PointerMove(Point{60, 60})
	s.PointerUp(Point{60, 60})
	txt := s.Model().Items()[0].(*Text)
	if txt.Anchor != (Point{55, 55}) {
		t.Fatalf("arrow tool should drag immediately with no threshold, got %+v", txt.Anchor)
	}
	if s.Editing() {
		t.Fatal("arrow tool must never open the overlay")
	}
}
