// ABOUTME: Document-view side of the host boundary: structural context and pixel queries
// ABOUTME: Provides fragment membership, cursor position, and viewport geometry

package host

import "errors"

// ErrNotVisible is returned by PixelPositionOf when the requested offset
// is not currently displayed, e.g. scrolled out of the viewport.
var ErrNotVisible = errors.New("host: position not visible")

// ContextKind classifies the structural element at a buffer offset.
type ContextKind int

const (
	// ContextNone means the offset is not inside a recognized fragment.
	ContextNone ContextKind = iota
	// ContextInlineMath is an inline formula span, e.g. $...$.
	ContextInlineMath
	// ContextDisplayMath is a display formula block, e.g. \[...\].
	ContextDisplayMath
)

// Context is the structural element enclosing a buffer offset, with its
// half-open span [Begin, End).
type Context struct {
	Kind  ContextKind
	Begin int
	End   int
}

// IsMath reports whether the context is a formula fragment.
func (c Context) IsMath() bool {
	return c.Kind == ContextInlineMath || c.Kind == ContextDisplayMath
}

// Contains reports whether the span covers the given offset.
func (c Context) Contains(offset int) bool {
	return offset >= c.Begin && offset < c.End
}

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Edges are the pixel edges of the enclosing viewport within its
// top-level window.
type Edges struct {
	Left, Top, Right, Bottom int
}

// DocumentView exposes everything the engine reads from the buffer being
// edited: the cursor, structural context, raw text, and pixel geometry.
type DocumentView interface {
	// CursorOffset returns the current cursor position as a buffer offset.
	CursorOffset() int
	// ContextAt returns the structural context at offset. A non-fragment
	// position yields Kind == ContextNone, not an error.
	ContextAt(offset int) (Context, error)
	// Text returns the buffer text in the half-open range [begin, end).
	Text(begin, end int) string
	// PixelPositionOf converts a buffer offset to window-relative pixels.
	// Returns ErrNotVisible when the offset is not displayed.
	PixelPositionOf(offset int) (Point, error)
	// LineHeight returns the pixel height of one text line.
	LineHeight() int
	// ViewportEdges returns the viewport's pixel edges inside its
	// top-level window.
	ViewportEdges() Edges
	// TabBarHeight returns the pixel height of the tab strip above the
	// viewport, zero when absent.
	TabBarHeight() int
}
