// ABOUTME: Bubble Tea demo app: a sample document with the live preview composited on top
// ABOUTME: Wires the document, windowing, scheduler, and layout bus into the engine

package termhost

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ksqsf/org-xlatex/internal/config"
	"github.com/ksqsf/org-xlatex/internal/eventbus"
	"github.com/ksqsf/org-xlatex/internal/host"
	"github.com/ksqsf/org-xlatex/internal/preview"
)

const sampleDocument = `Preview demo. Move the cursor with the arrow keys; when it enters a
formula, the rendered preview pops up below it. Press r to reset the
overlay, q to quit.

The Pythagorean theorem states that $a^2 + b^2 = c^2$ holds for any
right triangle, and Euler noted that $e^{i\pi} + 1 = 0$.

Display math works too:

\[ \int_0^\infty e^{-x^2} \, dx = \frac{\sqrt{\pi}}{2} \]

A dollar price like $5 is not a formula.
`

var (
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

type repaintMsg struct{}

// appModel renders the document and composites the overlay window.
type appModel struct {
	doc       *document
	windowing *Windowing
	layout    *eventbus.Bus[host.LayoutEvent]
	engine    *preview.Engine

	width  int
	height int
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.doc.setSize(msg.Width, msg.Height)
		m.layout.Publish(host.LayoutEvent{Width: msg.Width, Height: msg.Height})
		return m, nil

	case repaintMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.doc.moveCursor(-1)
		case "right", "l":
			m.doc.moveCursor(1)
		case "up", "k":
			m.doc.moveCursorLine(-1)
		case "down", "j":
			m.doc.moveCursorLine(1)
		case "r":
			m.engine.Reset()
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) View() string {
	text, cursor := m.doc.snapshot()
	lines := strings.Split(renderWithCursor(text, cursor), "\n")

	if win := m.windowing.Current(); win != nil {
		if visible, x, y, w, h, content := win.frame(); visible {
			lines = composite(lines, overlayBox(content, w, h), x, y)
		}
	}
	return strings.Join(lines, "\n")
}

// renderWithCursor paints the cursor cell in reverse video.
func renderWithCursor(text string, cursor int) string {
	if cursor >= len(text) {
		return text + cursorStyle.Render(" ")
	}
	ch := text[cursor : cursor+1]
	if ch == "\n" {
		return text[:cursor] + cursorStyle.Render(" ") + text[cursor:]
	}
	return text[:cursor] + cursorStyle.Render(ch) + text[cursor+1:]
}

// overlayBox clips content to (w, h) and draws the border around it.
func overlayBox(content []string, w, h int) []string {
	if h > 0 && len(content) > h {
		content = content[:h]
	}
	clipped := make([]string, len(content))
	for i, line := range content {
		if w > 0 {
			line = ansi.Truncate(line, w, "")
		}
		clipped[i] = line
	}
	return strings.Split(overlayStyle.Render(strings.Join(clipped, "\n")), "\n")
}

// composite lays box over base at cell position (x, y), extending base
// downward if the box hangs past the last line.
func composite(base, box []string, x, y int) []string {
	if y < 0 {
		y = 0
	}
	if x < 0 {
		x = 0
	}
	for len(base) < y+len(box) {
		base = append(base, "")
	}
	for i, line := range box {
		row := y + i
		under := base[row]
		// Widths must ignore styling escapes, or the overlay drifts on
		// rows that carry the reverse-video cursor cell.
		pad := x - ansi.StringWidth(under)
		if pad < 0 {
			// Overlay wins over document content under it.
			under = ansi.Truncate(under, x, "")
			pad = x - ansi.StringWidth(under)
		}
		base[row] = under + strings.Repeat(" ", pad) + line
	}
	return base
}

// Run starts the demo UI and a preview engine wired against it, and
// blocks until the user quits.
func Run(cfg *config.Options) error {
	doc := newDocument(sampleDocument)
	windowing := &Windowing{}
	bus := eventbus.New[host.LayoutEvent]()

	engine, err := preview.New(cfg, preview.Deps{
		Windowing: windowing,
		View:      doc,
		Scheduler: Scheduler{},
		Layout:    bus,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(appModel{
		doc:       doc,
		windowing: windowing,
		layout:    bus,
		engine:    engine,
	}, tea.WithAltScreen())

	windowing.SetInvalidate(func() { p.Send(repaintMsg{}) })

	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	_, err = p.Run()
	return err
}
