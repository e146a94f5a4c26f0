// ABOUTME: Content updater: builds the script payload from the fragment at the cursor
// ABOUTME: Escapes text for single-quoted embedding and splices the position indicator

package preview

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ksqsf/org-xlatex/internal/host"
)

const (
	// renderEntryPoint is the single rendering function exposed by the
	// bundled payload page.
	renderEntryPoint = "render"

	// positionMarker is spliced into the fragment text at the cursor when
	// the position indicator is enabled. It renders as a thin red bar
	// without affecting the surrounding layout.
	positionMarker = `{\color{red}\vert}`
)

// escapeScriptArg prepares text for embedding as a single-quoted script
// string argument. Order matters: backslashes first, then the quote
// delimiter, then newlines collapsed to spaces (the page expects
// single-line script arguments).
func escapeScriptArg(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// buildRenderScript returns the script call that pushes text into the
// rendering page, e.g. render('$x+y$');
func buildRenderScript(text string) string {
	return renderEntryPoint + "('" + escapeScriptArg(text) + "');"
}

// spliceMarker inserts marker into text at byte offset off. Offsets that
// fall inside a grapheme cluster are moved to the end of that cluster so
// a cluster is never split in two.
func spliceMarker(text string, off int, marker string) string {
	if off <= 0 {
		return marker + text
	}
	if off >= len(text) {
		return text + marker
	}
	at := off
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		_, to := g.Positions()
		if to >= off {
			at = to
			break
		}
	}
	return text[:at] + marker + text[at:]
}

// updateContent sends the current fragment into the surface. The send is
// unconditional: identical fragments still re-trigger rendering, and the
// page is idempotent under repeated identical input. lastPayload is kept
// for diagnostics only.
func (e *Engine) updateContent(surf host.Surface, frag host.Context) {
	text := e.view.Text(frag.Begin, frag.End)
	if e.cfg.Indicator() {
		text = spliceMarker(text, e.view.CursorOffset()-frag.Begin, positionMarker)
	}
	script := buildRenderScript(text)
	e.lastPayload = script
	e.execScript(surf, e.generation, script, nil)
}
