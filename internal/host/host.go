// ABOUTME: Interface boundary to the host editor: windows, surfaces, idle scheduling
// ABOUTME: Declarations only; implementations (termhost, tests) carry the platform deps

package host

import "time"

// WindowParams describes a top-level overlay window at creation time.
// The zero value matches what the preview engine wants: zero size and
// position, no decorations, and no focus stealing flags set.
type WindowParams struct {
	X, Y          int
	Width, Height int

	// Undecorated strips the title bar and borders.
	Undecorated bool
	// NoActivate keeps the window from taking input focus when shown.
	NoActivate bool
	// SkipTaskbar excludes the window from task switchers.
	SkipTaskbar bool
	// SkipPager excludes the window from pagers and window lists.
	SkipPager bool
}

// Window is a top-level window handle. A handle may outlive the native
// window (the host can destroy it externally); Live reports whether the
// native object still exists.
type Window interface {
	Live() bool
	SetPosition(x, y int)
	SetSize(w, h int)
	Size() (w, h int)
	SetVisible(visible bool)
	Visible() bool
	Destroy()
}

// EventKind classifies events delivered by a rendering surface.
type EventKind int

const (
	// EventScriptResult carries the result value of an asynchronously
	// executed script.
	EventScriptResult EventKind = iota
	// EventLoadChanged signals a navigation/load state change.
	EventLoadChanged
	// EventCrashed signals that the surface's rendering process died.
	EventCrashed
)

// String returns the event kind label used in logs.
func (k EventKind) String() string {
	switch k {
	case EventScriptResult:
		return "script-result"
	case EventLoadChanged:
		return "load-changed"
	case EventCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Event is a single surface event. Value is only meaningful for
// EventScriptResult.
type Event struct {
	Kind  EventKind
	Value any
}

// Surface is an embedded web-rendering surface bound 1:1 to a Window.
//
// ExecuteScript submits script asynchronously and returns immediately;
// done, if non-nil, is invoked later with the completion event. The host
// may invoke done from any goroutine and in any order relative to other
// submissions.
type Surface interface {
	Live() bool
	Navigate(uri string) error
	ExecuteScript(script string, done func(Event))
	Resize(w, h int)
	// SetEventHandler registers the generic dispatcher for surface events
	// that are not tied to a particular script submission. A nil handler
	// detaches it.
	SetEventHandler(fn func(Event))
	Destroy()
}

// Windowing creates overlay windows and their embedded surfaces.
type Windowing interface {
	// Supported reports whether the embedding capability exists in this
	// environment. A non-nil error is a fatal startup condition.
	Supported() error
	CreateWindow(p WindowParams) (Window, error)
	CreateSurface(win Window, width, height int) (Surface, error)
}

// TimerHandle cancels a previously scheduled repeating timer.
type TimerHandle interface {
	Cancel()
}

// Scheduler is the host's idle-timer primitive. The callback may fire on
// any goroutine; callers are responsible for serialization.
type Scheduler interface {
	ScheduleRepeating(interval time.Duration, fn func()) TimerHandle
}

// LayoutEvent announces a structural UI change (window layout, terminal
// resize) that invalidates any previously computed overlay anchoring.
type LayoutEvent struct {
	Width, Height int
}
