// ABOUTME: In-package fakes for the host boundary: windowing, surfaces, view, scheduler
// ABOUTME: Surfaces record scripts and hold completions until tests deliver them

package preview

import (
	"errors"
	"sync"
	"time"

	"github.com/ksqsf/org-xlatex/internal/host"
)

type fakeWindowing struct {
	mu          sync.Mutex
	unsupported error
	failWindow  bool
	failSurface bool
	navFail     bool
	windows     []*fakeWindow
	surfaces    []*fakeSurface
}

func (f *fakeWindowing) Supported() error { return f.unsupported }

func (f *fakeWindowing) CreateWindow(p host.WindowParams) (host.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWindow {
		return nil, errors.New("window creation refused")
	}
	w := &fakeWindow{live: true, params: p, w: p.Width, h: p.Height, x: p.X, y: p.Y}
	f.windows = append(f.windows, w)
	return w, nil
}

func (f *fakeWindowing) CreateSurface(win host.Window, width, height int) (host.Surface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSurface {
		return nil, errors.New("surface creation refused")
	}
	s := &fakeSurface{live: true, win: win.(*fakeWindow), w: width, h: height, failNav: f.navFail}
	f.surfaces = append(f.surfaces, s)
	return s, nil
}

func (f *fakeWindowing) liveWindows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, w := range f.windows {
		if w.isLive() {
			n++
		}
	}
	return n
}

func (f *fakeWindowing) lastWindow() *fakeWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.windows) == 0 {
		return nil
	}
	return f.windows[len(f.windows)-1]
}

func (f *fakeWindowing) lastSurface() *fakeSurface {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.surfaces) == 0 {
		return nil
	}
	return f.surfaces[len(f.surfaces)-1]
}

type fakeWindow struct {
	mu        sync.Mutex
	live      bool
	params    host.WindowParams
	x, y      int
	w, h      int
	visible   bool
	destroyed int
}

func (w *fakeWindow) Live() bool { return w.isLive() }

func (w *fakeWindow) isLive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.live
}

func (w *fakeWindow) SetPosition(x, y int) {
	w.mu.Lock()
	w.x, w.y = x, y
	w.mu.Unlock()
}

func (w *fakeWindow) SetSize(width, height int) {
	w.mu.Lock()
	w.w, w.h = width, height
	w.mu.Unlock()
}

func (w *fakeWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w, w.h
}

func (w *fakeWindow) SetVisible(v bool) {
	w.mu.Lock()
	w.visible = v
	w.mu.Unlock()
}

func (w *fakeWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *fakeWindow) Destroy() {
	w.mu.Lock()
	if w.live {
		w.live = false
		w.destroyed++
	}
	w.mu.Unlock()
}

// kill simulates external destruction of the native window.
func (w *fakeWindow) kill() {
	w.mu.Lock()
	w.live = false
	w.mu.Unlock()
}

func (w *fakeWindow) destroyCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

func (w *fakeWindow) position() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.x, w.y
}

type fakeSurface struct {
	mu        sync.Mutex
	live      bool
	win       *fakeWindow
	w, h      int
	uri       string
	handler   func(host.Event)
	scripts   []string
	pending   []func(host.Event)
	destroyed int
	onDestroy func()
	failNav   bool
}

func (s *fakeSurface) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

func (s *fakeSurface) Navigate(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNav {
		return errors.New("navigation refused")
	}
	s.uri = uri
	return nil
}

func (s *fakeSurface) ExecuteScript(script string, done func(host.Event)) {
	s.mu.Lock()
	s.scripts = append(s.scripts, script)
	s.pending = append(s.pending, done)
	s.mu.Unlock()
}

func (s *fakeSurface) Resize(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

func (s *fakeSurface) SetEventHandler(fn func(host.Event)) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
}

func (s *fakeSurface) Destroy() {
	s.mu.Lock()
	alive := s.live
	s.live = false
	if alive {
		s.destroyed++
	}
	hook := s.onDestroy
	s.mu.Unlock()
	if alive && hook != nil {
		hook()
	}
}

// complete delivers the completion of the i-th submitted script.
func (s *fakeSurface) complete(i int, ev host.Event) {
	s.mu.Lock()
	done := s.pending[i]
	s.mu.Unlock()
	if done != nil {
		done(ev)
	}
}

func (s *fakeSurface) sentScripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.scripts))
	copy(out, s.scripts)
	return out
}

func (s *fakeSurface) size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func (s *fakeSurface) destroyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

type fakeView struct {
	mu         sync.Mutex
	buffer     string
	cursor     int
	frag       host.Context
	ctxErr     error
	ctxPanic   string
	notVisible bool
	pixels     map[int]host.Point
	lineHeight int
	edges      host.Edges
	tabBar     int
}

func (v *fakeView) CursorOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor
}

func (v *fakeView) setCursor(off int) {
	v.mu.Lock()
	v.cursor = off
	v.mu.Unlock()
}

func (v *fakeView) ContextAt(offset int) (host.Context, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ctxPanic != "" {
		panic(v.ctxPanic)
	}
	if v.ctxErr != nil {
		return host.Context{}, v.ctxErr
	}
	if v.frag.IsMath() && v.frag.Contains(offset) {
		return v.frag, nil
	}
	return host.Context{Kind: host.ContextNone}, nil
}

func (v *fakeView) Text(begin, end int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.buffer[begin:end]
}

func (v *fakeView) PixelPositionOf(offset int) (host.Point, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.notVisible {
		return host.Point{}, host.ErrNotVisible
	}
	if p, ok := v.pixels[offset]; ok {
		return p, nil
	}
	return host.Point{X: offset * 8, Y: 50}, nil
}

func (v *fakeView) LineHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lineHeight == 0 {
		return 14
	}
	return v.lineHeight
}

func (v *fakeView) ViewportEdges() host.Edges {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.edges
}

func (v *fakeView) TabBarHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tabBar
}

type fakeTimer struct {
	mu        sync.Mutex
	cancelled bool
}

func (h *fakeTimer) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
}

func (h *fakeTimer) isCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// manualScheduler hands out timers that never fire on their own; tests
// invoke fire() to simulate an idle tick.
type manualScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func()
	timers   []*fakeTimer
}

func (s *manualScheduler) ScheduleRepeating(interval time.Duration, fn func()) host.TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	s.fn = fn
	h := &fakeTimer{}
	s.timers = append(s.timers, h)
	return h
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *manualScheduler) liveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.timers {
		if !h.isCancelled() {
			n++
		}
	}
	return n
}
