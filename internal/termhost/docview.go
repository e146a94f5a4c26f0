// ABOUTME: DocumentView implementation over the demo document buffer
// ABOUTME: Recognizes $...$ and \[...\] spans and maps offsets to terminal cells

package termhost

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/ksqsf/org-xlatex/internal/host"
)

// document is the demo buffer plus cursor, shared between the Bubble Tea
// model (writer) and the preview engine (reader). Terminal cells stand
// in for pixels: one cell is 1x1, so LineHeight is 1.
type document struct {
	mu     sync.Mutex
	buffer string
	cursor int
	width  int
	height int
	top    int // first visible line
}

func newDocument(text string) *document {
	return &document{buffer: text, width: 80, height: 24}
}

func (d *document) CursorOffset() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

func (d *document) ContextAt(offset int) (host.Context, error) {
	d.mu.Lock()
	buf := d.buffer
	d.mu.Unlock()
	return scanMath(buf, offset), nil
}

func (d *document) Text(begin, end int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if begin < 0 {
		begin = 0
	}
	if end > len(d.buffer) {
		end = len(d.buffer)
	}
	if begin >= end {
		return ""
	}
	return d.buffer[begin:end]
}

func (d *document) PixelPositionOf(offset int) (host.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset > len(d.buffer) {
		offset = len(d.buffer)
	}
	row, col := d.locate(offset)
	if row < d.top || row >= d.top+d.height {
		return host.Point{}, host.ErrNotVisible
	}
	// Columns are display cells, not bytes: wide runes occupy two.
	x := runewidth.StringWidth(d.buffer[offset-col : offset])
	return host.Point{X: x, Y: row - d.top}, nil
}

func (d *document) LineHeight() int { return 1 }

func (d *document) ViewportEdges() host.Edges {
	d.mu.Lock()
	defer d.mu.Unlock()
	return host.Edges{Left: 0, Top: 0, Right: d.width, Bottom: d.height}
}

func (d *document) TabBarHeight() int { return 0 }

// locate converts a byte offset to (row, column). Callers hold d.mu.
func (d *document) locate(offset int) (row, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.buffer) {
		offset = len(d.buffer)
	}
	before := d.buffer[:offset]
	row = strings.Count(before, "\n")
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		col = len(before) - i - 1
	} else {
		col = len(before)
	}
	return row, col
}

// moveCursor clamps and sets the cursor offset.
func (d *document) moveCursor(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor += delta
	if d.cursor < 0 {
		d.cursor = 0
	}
	if d.cursor > len(d.buffer) {
		d.cursor = len(d.buffer)
	}
}

// moveCursorLine moves the cursor up or down one line, keeping the
// column when the target line is long enough.
func (d *document) moveCursorLine(delta int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	lines := strings.Split(d.buffer, "\n")
	row, col := d.locate(d.cursor)
	row += delta
	if row < 0 || row >= len(lines) {
		return
	}
	if col > len(lines[row]) {
		col = len(lines[row])
	}
	off := 0
	for i := 0; i < row; i++ {
		off += len(lines[i]) + 1
	}
	d.cursor = off + col
}

func (d *document) setSize(w, h int) {
	d.mu.Lock()
	d.width, d.height = w, h
	d.mu.Unlock()
}

func (d *document) snapshot() (text string, cursor int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffer, d.cursor
}

// scanMath returns the formula span enclosing offset, if any. Inline
// spans are delimited by single unescaped $; display spans by \[ ... \].
func scanMath(buffer string, offset int) host.Context {
	if offset < 0 || offset > len(buffer) {
		return host.Context{Kind: host.ContextNone}
	}

	// Display math first: \[ ... \]
	if begin := strings.LastIndex(buffer[:offset], `\[`); begin >= 0 {
		if end := strings.Index(buffer[begin:], `\]`); end >= 0 {
			end = begin + end + 2
			if offset < end {
				return host.Context{Kind: host.ContextDisplayMath, Begin: begin, End: end}
			}
		}
	}

	// Inline math: pair up $ delimiters from the start of the buffer so
	// "cost $5 and $x$" does not fool the scanner about which $ opens.
	opens := -1
	for i := 0; i < len(buffer); i++ {
		if buffer[i] != '$' || (i > 0 && buffer[i-1] == '\\') {
			continue
		}
		if opens < 0 {
			opens = i
			continue
		}
		end := i + 1
		if offset >= opens && offset < end {
			return host.Context{Kind: host.ContextInlineMath, Begin: opens, End: end}
		}
		opens = -1
	}

	return host.Context{Kind: host.ContextNone}
}
