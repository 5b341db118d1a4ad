package annotate

import (
	"image"
	"strings"
)

// Tool selects what a pointer press on empty canvas does.
type Tool int

const (
	// ToolArrow draws arrows on empty presses.
	ToolArrow Tool = iota
	// ToolText opens the text overlay on empty presses.
	ToolText
)

// phase is the pointer interaction state between a press and its release.
type phase int

const (
	phaseIdle phase = iota
	// phaseDrawing rubber-bands a new arrow from pressStart.
	phaseDrawing
	// phaseDragging moves the selected annotation with the pointer.
	phaseDragging
	// phasePendingText is a press on a text annotation that has not yet
	// declared itself a drag or a click.
	phasePendingText
)

// Default interaction thresholds in image pixels.
const (
	// DefaultDiscardDistance is the minimum endpoint separation for a new
	// arrow; shorter gestures are treated as accidental and dropped.
	DefaultDiscardDistance = 8
	// DefaultDragThreshold separates a click on a text annotation (open the
	// editor) from the start of a drag (move it).
	DefaultDragThreshold = 4
)

// Session is the annotation editor for a single base image. It owns the
// model, the active tool settings and the pointer/text-entry state machine.
// All methods are synchronous; the session is not safe for concurrent use.
type Session struct {
	base  image.Image
	imgW  int
	imgH  int
	model *Model

	tool      Tool
	colorIdx  int
	thickTier int
	fontTier  int

	// DiscardDistance and DragThreshold are in image pixels and may be
	// overridden after construction.
	DiscardDistance float64
	DragThreshold   float64

	scale float64

	selectedID int
	phase      phase

	pressStart Point
	dragLast   Point
	current    Point

	editing    bool
	editingID  int
	editAnchor Point
	editText   string

	notice func(string)
}

// Option configures a Session at construction.
type Option func(*Session)

// WithTool sets the initially active tool.
func WithTool(t Tool) Option {
	return func(s *Session) { s.tool = t }
}

// WithColorIndex sets the initial palette index.
func WithColorIndex(idx int) Option {
	return func(s *Session) { s.colorIdx = clampIndex(idx, len(palette)) }
}

// WithThicknessTier sets the initial arrow stroke tier.
func WithThicknessTier(tier int) Option {
	return func(s *Session) { s.thickTier = clampIndex(tier, len(thicknessTiers)) }
}

// WithFontTier sets the initial text size tier.
func WithFontTier(tier int) Option {
	return func(s *Session) { s.fontTier = clampIndex(tier, len(fontTierRatios)) }
}

// WithNotice installs a callback for transient user messages (for example
// "nothing to undo"). Without it notices are dropped.
func WithNotice(fn func(string)) Option {
	return func(s *Session) { s.notice = fn }
}

// NewSession creates an editor session over a base image.
func NewSession(base image.Image, opts ...Option) *Session {
	b := base.Bounds()
	s := &Session{
		base:            base,
		imgW:            b.Dx(),
		imgH:            b.Dy(),
		model:           NewModel(),
		DiscardDistance: DefaultDiscardDistance,
		DragThreshold:   DefaultDragThreshold,
		scale:           1,
		notice:          func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNoticeFunc replaces the notice callback, for bindings that attach
// after construction. A nil fn drops notices.
func (s *Session) SetNoticeFunc(fn func(string)) {
	if fn == nil {
		fn = func(string) {}
	}
	s.notice = fn
}

// Base returns the session's base image.
func (s *Session) Base() image.Image { return s.base }

// Size returns the base image's pixel dimensions.
func (s *Session) Size() (w, h int) { return s.imgW, s.imgH }

// Model returns the annotation model, mainly for scripted use and tests.
func (s *Session) Model() *Model { return s.model }

// SetDisplayScale records the image-pixels-per-display-pixel ratio so hit
// tolerances stay constant on screen regardless of zoom.
func (s *Session) SetDisplayScale(scale float64) {
	if scale > 0 {
		s.scale = scale
	}
}

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool switches the active tool. Switching commits any open text entry.
func (s *Session) SetTool(t Tool) {
	if s.editing {
		s.CommitText()
	}
	s.tool = t
}

// ColorIndex returns the active palette index.
func (s *Session) ColorIndex() int { return s.colorIdx }

// SetColorIndex changes the active color. While text entry is open the
// pending annotation tracks the new color at commit.
func (s *Session) SetColorIndex(idx int) {
	s.colorIdx = clampIndex(idx, len(palette))
}

// ThicknessTier returns the active arrow stroke tier.
func (s *Session) ThicknessTier() int { return s.thickTier }

// SetThicknessTier changes the stroke tier for subsequent arrows.
func (s *Session) SetThicknessTier(tier int) {
	s.thickTier = clampIndex(tier, len(thicknessTiers))
}

// FontTier returns the active text size tier.
func (s *Session) FontTier() int { return s.fontTier }

// SetFontTier changes the text size tier. An open text entry picks it up at
// commit.
func (s *Session) SetFontTier(tier int) {
	s.fontTier = clampIndex(tier, len(fontTierRatios))
}

// Selected returns the id of the selected annotation, or 0.
func (s *Session) Selected() int { return s.selectedID }

// Editing reports whether the text overlay is open.
func (s *Session) Editing() bool { return s.editing }

// EditAnchor returns the top-left anchor of the open text entry in image
// pixels. Only meaningful while Editing.
func (s *Session) EditAnchor() Point { return s.editAnchor }

// EditingID returns the id of the annotation bound to the open text entry,
// or 0 when a new annotation is being composed.
func (s *Session) EditingID() int { return s.editingID }

// EditText returns the current overlay text.
func (s *Session) EditText() string { return s.editText }

// SetEditText replaces the overlay text while entry is open.
func (s *Session) SetEditText(text string) {
	if s.editing {
		s.editText = text
	}
}

// PointerDown handles a primary-button press at p (image pixels).
func (s *Session) PointerDown(p Point) {
	if s.editing {
		// A press outside the overlay commits the pending text; it never
		// starts a second action.
		s.CommitText()
		return
	}
	hit := Hit(s.model, p, s.imgW, s.scale)
	if hit == nil {
		s.selectedID = 0
		switch s.tool {
		case ToolText:
			s.openTextEntry(0, p, "")
		default:
			s.phase = phaseDrawing
			s.pressStart = p
			s.current = p
		}
		return
	}
	s.selectedID = hit.ID()
	if t, ok := hit.(*Text); ok && s.tool == ToolText {
		// Could be a drag or a click-to-edit; decided by PointerMove.
		_ = t
		s.phase = phasePendingText
		s.pressStart = p
		s.dragLast = p
		return
	}
	s.phase = phaseDragging
	s.dragLast = p
}

// PointerMove handles pointer motion at p while the button may be held.
func (s *Session) PointerMove(p Point) {
	switch s.phase {
	case phaseDrawing:
		s.current = p
	case phaseDragging:
		s.dragSelected(p)
	case phasePendingText:
		if p.Distance(s.pressStart) <= s.DragThreshold {
			return
		}
		s.phase = phaseDragging
		s.dragLast = s.pressStart
		s.dragSelected(p)
	}
}

// PointerUp handles the primary-button release at p.
func (s *Session) PointerUp(p Point) {
	switch s.phase {
	case phaseDrawing:
		s.phase = phaseIdle
		if p.Distance(s.pressStart) <= s.DiscardDistance {
			return
		}
		id := s.model.Append(&Arrow{
			From:      s.pressStart,
			To:        p,
			Color:     PaletteColorAt(s.colorIdx),
			Thickness: ThicknessAt(s.thickTier),
		})
		s.selectedID = id
	case phaseDragging:
		s.phase = phaseIdle
	case phasePendingText:
		// Never crossed the drag threshold: a click on existing text
		// reopens it for editing.
		s.phase = phaseIdle
		if t, ok := s.model.FindByID(s.selectedID).(*Text); ok {
			if idx := PaletteIndexOf(t.Color); idx >= 0 {
				s.colorIdx = idx
			}
			s.fontTier = clampIndex(t.FontTier, len(fontTierRatios))
			s.openTextEntry(t.ID(), t.Anchor, t.Content)
		}
	}
}

func (s *Session) dragSelected(p Point) {
	if a := s.model.FindByID(s.selectedID); a != nil {
		a.Translate(p.X-s.dragLast.X, p.Y-s.dragLast.Y)
	}
	s.dragLast = p
}

func (s *Session) openTextEntry(id int, anchor Point, content string) {
	s.editing = true
	s.editingID = id
	s.editAnchor = anchor
	s.editText = content
}

// CommitText closes the text overlay, applying the trimmed text: a bound
// annotation is updated (or deleted when the text is empty), an unbound
// non-empty entry becomes a new annotation, and an unbound empty entry is a
// no-op.
func (s *Session) CommitText() {
	if !s.editing {
		return
	}
	text := strings.TrimSpace(s.editText)
	id := s.editingID
	s.closeTextEntry()
	if id != 0 {
		if text == "" {
			s.model.RemoveByID(id)
			if s.selectedID == id {
				s.selectedID = 0
			}
			return
		}
		s.model.UpdateByID(id, func(a Annotation) {
			if t, ok := a.(*Text); ok {
				t.Content = text
				t.Color = PaletteColorAt(s.colorIdx)
				t.FontTier = s.fontTier
			}
		})
		return
	}
	if text == "" {
		return
	}
	s.selectedID = s.model.Append(&Text{
		Anchor:   s.editAnchor,
		Content:  text,
		Color:    PaletteColorAt(s.colorIdx),
		FontTier: s.fontTier,
	})
}

// CancelText closes the text overlay without touching the model.
func (s *Session) CancelText() {
	if !s.editing {
		return
	}
	s.closeTextEntry()
}

func (s *Session) closeTextEntry() {
	s.editing = false
	s.editingID = 0
	s.editText = ""
}

// Undo removes the most recently created annotation. Edits and moves are not
// tracked; with nothing to remove a notice is emitted instead.
func (s *Session) Undo() {
	if s.editing {
		s.CancelText()
		return
	}
	removed := s.model.RemoveLast()
	if removed == nil {
		s.notice("nothing to undo")
		return
	}
	if s.selectedID == removed.ID() {
		s.selectedID = 0
	}
}

// ClearSelection drops the current selection.
func (s *Session) ClearSelection() { s.selectedID = 0 }

// previewArrow returns the rubber-band arrow while one is being drawn.
func (s *Session) previewArrow() *Arrow {
	if s.phase != phaseDrawing {
		return nil
	}
	if s.current.Distance(s.pressStart) == 0 {
		return nil
	}
	return &Arrow{
		From:      s.pressStart,
		To:        s.current,
		Color:     PaletteColorAt(s.colorIdx),
		Thickness: ThicknessAt(s.thickTier),
	}
}
