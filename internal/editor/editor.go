// Package editor binds an annotation session to a shiny window: it forwards
// pointer and key events to the session, blits its rendered frames scaled to
// the window and runs saves asynchronously.
package editor

import (
	"image"
	"log"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/picbin/internal/annotate"
	"github.com/example/picbin/internal/clipboard"
)

// Window caps keep huge photos from opening larger than a laptop screen.
const (
	maxWindowW = 1400
	maxWindowH = 900
)

const messageDuration = 2 * time.Second

// Editor drives one annotation window.
type Editor struct {
	session *annotate.Session
	title   string

	// onSave receives the flattened PNG and its suggested name; it runs on
	// a background goroutine and returns a human-readable result.
	onSave func(name string, data []byte) (string, error)
	// onClose runs once when the window goes away.
	onClose func()
}

// Option configures an Editor.
type Option func(*Editor)

// WithTitle sets the window title detail shown in messages.
func WithTitle(title string) Option {
	return func(e *Editor) { e.title = title }
}

// WithSaveFunc installs the save/upload handler for Ctrl+S.
func WithSaveFunc(fn func(name string, data []byte) (string, error)) Option {
	return func(e *Editor) { e.onSave = fn }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option {
	return func(e *Editor) { e.onClose = fn }
}

// New creates an editor around a session.
func New(session *annotate.Session, opts ...Option) *Editor {
	e := &Editor{session: session}
	for _, o := range opts {
		o(e)
	}
	return e
}

// saveResult is posted back into the event loop when a background save
// finishes. gen pairs it with the save that started it; stale results are
// dropped.
type saveResult struct {
	gen    int
	detail string
	err    error
}

// Run opens the window and blocks until it is closed.
func (e *Editor) Run() {
	driver.Main(e.main)
}

func (e *Editor) main(s screen.Screen) {
	sess := e.session
	imgW, imgH := sess.Size()

	winW, winH := imgW, imgH
	if winW > maxWindowW {
		winH = winH * maxWindowW / winW
		winW = maxWindowW
	}
	if winH > maxWindowH {
		winW = winW * maxWindowH / winH
		winH = maxWindowH
	}

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: winW, Height: winH, Title: e.title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	if e.onClose != nil {
		defer e.onClose()
	}

	var message string
	var messageUntil time.Time
	showMessage := func(m string) {
		message = m
		messageUntil = time.Now().Add(messageDuration)
		log.Print(m)
	}
	sess.SetNoticeFunc(func(m string) {
		showMessage(m)
		w.Send(paint.Event{})
	})

	var pressed bool
	saveGen := 0
	pendingSave := 0

	transform := func() annotate.DisplayTransform {
		return annotate.DisplayTransform{
			Rect:   fitRect(imgW, imgH, winW, winH),
			Native: image.Point{X: imgW, Y: imgH},
		}
	}

	save := func() {
		if e.onSave == nil {
			showMessage("no save target configured")
			return
		}
		data, err := sess.Flatten()
		if err != nil {
			showMessage("flatten failed: " + err.Error())
			return
		}
		saveGen++
		pendingSave = saveGen
		gen := saveGen
		name := annotate.ExportName(time.Now())
		showMessage("saving...")
		go func() {
			detail, err := e.onSave(name, data)
			w.Send(saveResult{gen: gen, detail: detail, err: err})
		}()
	}

	copyImage := func() {
		img := annotate.Render(sess.Base(), sess.Model(), 0, 0)
		if err := clipboard.WriteImage(img); err != nil {
			showMessage("copy failed: " + err.Error())
			return
		}
		showMessage("image copied to clipboard")
	}

	for {
		switch ev := w.NextEvent().(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			winW = ev.WidthPx
			winH = ev.HeightPx
			w.Send(paint.Event{})
		case saveResult:
			if ev.gen != pendingSave {
				// A newer save superseded this one, or the result raced a
				// reset; either way it no longer belongs to this view.
				continue
			}
			pendingSave = 0
			if ev.err != nil {
				showMessage("save failed: " + ev.err.Error())
			} else {
				showMessage(ev.detail)
			}
			w.Send(paint.Event{})
		case mouse.Event:
			tr := transform()
			sess.SetDisplayScale(tr.Scale())
			p := tr.ToImage(float64(ev.X), float64(ev.Y))
			switch {
			case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress:
				if !tr.Inside(float64(ev.X), float64(ev.Y)) {
					continue
				}
				pressed = true
				sess.PointerDown(p)
				w.Send(paint.Event{})
			case ev.Direction == mouse.DirNone && pressed:
				sess.PointerMove(p)
				w.Send(paint.Event{})
			case ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirRelease:
				if !pressed {
					continue
				}
				pressed = false
				sess.PointerUp(p)
				w.Send(paint.Event{})
			}
		case key.Event:
			if ev.Direction != key.DirPress {
				continue
			}
			if sess.Editing() {
				e.handleTextKey(ev, w)
				continue
			}
			switch {
			case ev.Rune == 's' && ev.Modifiers&key.ModControl != 0:
				save()
				w.Send(paint.Event{})
			case ev.Rune == 'c' && ev.Modifiers&key.ModControl != 0:
				copyImage()
				w.Send(paint.Event{})
			case ev.Rune == 'a' || ev.Rune == 'A':
				sess.SetTool(annotate.ToolArrow)
				showMessage("arrow tool")
				w.Send(paint.Event{})
			case ev.Rune == 't' || ev.Rune == 'T':
				sess.SetTool(annotate.ToolText)
				showMessage("text tool")
				w.Send(paint.Event{})
			case ev.Rune == 'c' || ev.Rune == 'C':
				next := (sess.ColorIndex() + 1) % len(annotate.Palette())
				sess.SetColorIndex(next)
				showMessage("color: " + annotate.Palette()[next].Name)
				w.Send(paint.Event{})
			case ev.Rune == 'w' || ev.Rune == 'W':
				next := (sess.ThicknessTier() + 1) % len(annotate.ThicknessTiers())
				sess.SetThicknessTier(next)
				w.Send(paint.Event{})
			case ev.Rune == 'f' || ev.Rune == 'F':
				next := (sess.FontTier() + 1) % annotate.FontTierCount()
				sess.SetFontTier(next)
				w.Send(paint.Event{})
			case ev.Rune == 'u' || ev.Rune == 'U':
				sess.Undo()
				w.Send(paint.Event{})
			case ev.Rune == 'q' || ev.Rune == 'Q' || ev.Code == key.CodeEscape:
				return
			}
		case paint.Event:
			frame := sess.RenderFrame()
			sess.DrawEditOverlay(frame)
			e.blit(s, w, frame, winW, winH, message, messageUntil)
		}
	}
}

// handleTextKey routes key presses while the text overlay is open. Enter
// inserts a newline; Ctrl+Enter commits; Escape cancels.
func (e *Editor) handleTextKey(ev key.Event, w screen.Window) {
	sess := e.session
	switch ev.Code {
	case key.CodeReturnEnter:
		if ev.Modifiers&key.ModControl != 0 {
			sess.CommitText()
		} else {
			sess.SetEditText(sess.EditText() + "\n")
		}
		w.Send(paint.Event{})
		return
	case key.CodeEscape:
		sess.CancelText()
		w.Send(paint.Event{})
		return
	case key.CodeDeleteBackspace:
		t := sess.EditText()
		if len(t) > 0 {
			_, n := utf8.DecodeLastRuneInString(t)
			sess.SetEditText(t[:len(t)-n])
			w.Send(paint.Event{})
		}
		return
	}
	if ev.Rune > 0 && ev.Modifiers&key.ModControl == 0 {
		sess.SetEditText(sess.EditText() + string(ev.Rune))
		w.Send(paint.Event{})
	}
}

// blit scales the frame into the window, letterboxed on a dark background,
// and overlays the transient message.
func (e *Editor) blit(s screen.Screen, w screen.Window, frame *image.RGBA, winW, winH int, message string, messageUntil time.Time) {
	if winW <= 0 || winH <= 0 {
		return
	}
	buf, err := s.NewBuffer(image.Point{X: winW, Y: winH})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer buf.Release()
	dst := buf.RGBA()
	fillRect(dst, dst.Bounds(), backgroundColor)

	rect := fitRect(frame.Bounds().Dx(), frame.Bounds().Dy(), winW, winH)
	xdraw.ApproxBiLinear.Scale(dst, rect, frame, frame.Bounds(), xdraw.Src, nil)

	if message != "" && time.Now().Before(messageUntil) {
		drawMessage(dst, message)
	}
	w.Upload(image.Point{}, buf, dst.Bounds())
	w.Publish()
}

// fitRect returns the centered rectangle that shows a native-size image
// inside the window without cropping or stretching.
func fitRect(imgW, imgH, winW, winH int) image.Rectangle {
	if imgW == 0 || imgH == 0 || winW == 0 || winH == 0 {
		return image.Rectangle{}
	}
	scale := float64(winW) / float64(imgW)
	if s := float64(winH) / float64(imgH); s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	dw := int(float64(imgW) * scale)
	dh := int(float64(imgH) * scale)
	x := (winW - dw) / 2
	y := (winH - dh) / 2
	return image.Rect(x, y, x+dw, y+dh)
}
