package editor

import (
	"image"
	"testing"
)

func TestFitRectLetterboxesWideImage(t *testing.T) {
	r := fitRect(2000, 1000, 1000, 1000)
	if r.Dx() != 1000 || r.Dy() != 500 {
		t.Fatalf("rect %v, want 1000x500", r)
	}
	if r.Min.Y != 250 {
		t.Fatalf("rect should be vertically centered, got %v", r)
	}
}

func TestFitRectNeverUpscales(t *testing.T) {
	r := fitRect(200, 100, 1000, 1000)
	if r.Dx() != 200 || r.Dy() != 100 {
		t.Fatalf("small images display at native size, got %v", r)
	}
}

func TestFitRectZeroWindow(t *testing.T) {
	if r := fitRect(100, 100, 0, 0); !r.Empty() {
		t.Fatalf("zero window should give an empty rect, got %v", r)
	}
}

func TestDrawMessageStaysInBounds(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 400, 300))
	drawMessage(dst, "saved uploads/2026-08-28/x.png")
}
