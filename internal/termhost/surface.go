// ABOUTME: Overlay window and glamour-backed rendering surface for the terminal host
// ABOUTME: A tiny in-process stand-in for the payload page interprets the scripts

package termhost

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/ksqsf/org-xlatex/internal/host"
)

// Windowing composites overlay windows over the demo document instead of
// creating native windows. The terminal compositor is always available,
// so Supported never fails here.
type Windowing struct {
	mu         sync.Mutex
	current    *overlayWindow
	invalidate func()
}

func (w *Windowing) Supported() error { return nil }

// SetInvalidate registers the repaint trigger; new windows pick it up at
// creation time.
func (w *Windowing) SetInvalidate(fn func()) {
	w.mu.Lock()
	w.invalidate = fn
	w.mu.Unlock()
}

func (w *Windowing) CreateWindow(p host.WindowParams) (host.Window, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	win := &overlayWindow{
		live:       true,
		x:          p.X,
		y:          p.Y,
		w:          p.Width,
		h:          p.Height,
		invalidate: w.invalidate,
	}
	w.current = win
	return win, nil
}

func (w *Windowing) CreateSurface(win host.Window, width, height int) (host.Surface, error) {
	ow, ok := win.(*overlayWindow)
	if !ok {
		return nil, fmt.Errorf("surface requires a termhost window, got %T", win)
	}
	if !ow.Live() {
		return nil, fmt.Errorf("cannot attach surface to a dead window")
	}
	s := &renderSurface{live: true, win: ow, w: width, h: height}
	ow.attach(s)
	return s, nil
}

// Current returns the window to composite, or nil.
func (w *Windowing) Current() *overlayWindow {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// overlayWindow is a cell-addressed box drawn over the document view.
type overlayWindow struct {
	mu         sync.Mutex
	live       bool
	x, y       int
	w, h       int
	visible    bool
	surface    *renderSurface
	invalidate func()
}

func (o *overlayWindow) Live() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.live
}

func (o *overlayWindow) SetPosition(x, y int) {
	o.mu.Lock()
	o.x, o.y = x, y
	o.mu.Unlock()
	o.repaint()
}

func (o *overlayWindow) SetSize(w, h int) {
	o.mu.Lock()
	o.w, o.h = w, h
	o.mu.Unlock()
	o.repaint()
}

func (o *overlayWindow) Size() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w, o.h
}

func (o *overlayWindow) SetVisible(v bool) {
	o.mu.Lock()
	o.visible = v
	o.mu.Unlock()
	o.repaint()
}

func (o *overlayWindow) Visible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.visible
}

func (o *overlayWindow) Destroy() {
	o.mu.Lock()
	o.live = false
	o.visible = false
	o.surface = nil
	o.mu.Unlock()
	o.repaint()
}

func (o *overlayWindow) attach(s *renderSurface) {
	o.mu.Lock()
	o.surface = s
	o.mu.Unlock()
}

func (o *overlayWindow) repaint() {
	o.mu.Lock()
	fn := o.invalidate
	o.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// frame returns everything the compositor needs in one locked read.
func (o *overlayWindow) frame() (visible bool, x, y, w, h int, content []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.live || !o.visible || o.surface == nil {
		return false, 0, 0, 0, 0, nil
	}
	return true, o.x, o.y, o.w, o.h, o.surface.lines()
}

// renderSurface stands in for the payload page: render('...') calls are
// typeset with glamour, and the DOM-extent measurement query answers
// with the rendered content's cell extent.
type renderSurface struct {
	mu       sync.Mutex
	live     bool
	win      *overlayWindow
	w, h     int
	uri      string
	handler  func(host.Event)
	content  []string
	renderer *glamour.TermRenderer
}

func (s *renderSurface) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

func (s *renderSurface) Navigate(uri string) error {
	s.mu.Lock()
	s.uri = uri
	s.mu.Unlock()
	return nil
}

func (s *renderSurface) ExecuteScript(script string, done func(host.Event)) {
	result := s.eval(script)
	if done != nil {
		// Completion delivery is asynchronous, like a real surface.
		go done(host.Event{Kind: host.EventScriptResult, Value: result})
	}
}

func (s *renderSurface) Resize(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

func (s *renderSurface) SetEventHandler(fn func(host.Event)) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
}

func (s *renderSurface) Destroy() {
	s.mu.Lock()
	s.live = false
	s.content = nil
	s.mu.Unlock()
}

func (s *renderSurface) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.content))
	copy(out, s.content)
	return out
}

// eval interprets the two scripts the engine sends: the render call and
// the extent measurement. Anything else evaluates to nil.
func (s *renderSurface) eval(script string) any {
	if text, ok := parseRenderCall(script); ok {
		s.render(text)
		return true
	}
	if strings.HasPrefix(script, "[document.") {
		w, h := s.extent()
		return []float64{float64(w), float64(h)}
	}
	return nil
}

func (s *renderSurface) render(text string) {
	rendered := text
	if r := s.termRenderer(); r != nil {
		if out, err := r.Render("```latex\n" + text + "\n```"); err == nil {
			rendered = strings.TrimRight(out, "\n ")
		}
	}

	s.mu.Lock()
	s.content = strings.Split(rendered, "\n")
	win := s.win
	s.mu.Unlock()
	if win != nil {
		win.repaint()
	}
}

// termRenderer returns the cached glamour renderer, building it on
// first use. Construction probes the terminal, so it is too expensive
// to repeat per render call.
func (s *renderSurface) termRenderer() *glamour.TermRenderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer == nil {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(60))
		if err != nil {
			return nil
		}
		s.renderer = r
	}
	return s.renderer
}

// extent reports the rendered content's natural size in cells. Glamour
// output carries styling escapes, so widths are measured ANSI-aware.
func (s *renderSurface) extent() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.content {
		if lw := ansi.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w, len(s.content)
}

// parseRenderCall extracts and unescapes the argument of render('...');
func parseRenderCall(script string) (string, bool) {
	const prefix, suffix = "render('", "');"
	if !strings.HasPrefix(script, prefix) || !strings.HasSuffix(script, suffix) {
		return "", false
	}
	arg := script[len(prefix) : len(script)-len(suffix)]

	var b strings.Builder
	for i := 0; i < len(arg); i++ {
		if arg[i] == '\\' && i+1 < len(arg) {
			switch arg[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case '\'':
				b.WriteByte('\'')
				i++
				continue
			}
		}
		b.WriteByte(arg[i])
	}
	return b.String(), true
}

// Scheduler implements host.Scheduler on time.Ticker.
type Scheduler struct{}

type tickerHandle struct {
	stop chan struct{}
	once sync.Once
}

func (Scheduler) ScheduleRepeating(interval time.Duration, fn func()) host.TimerHandle {
	h := &tickerHandle{stop: make(chan struct{})}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-t.C:
				fn()
			}
		}
	}()
	return h
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.stop) })
}
