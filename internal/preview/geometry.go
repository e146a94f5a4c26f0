// ABOUTME: Geometry engine: anchor position and fixed/adaptive overlay sizing
// ABOUTME: Measured sizes never shrink the overlay below defaults or its current size

package preview

import (
	"math"

	"github.com/ksqsf/org-xlatex/internal/host"
	"github.com/ksqsf/org-xlatex/internal/log"
)

// measureScript asks the page for its natural content extent. It
// evaluates to a two-element numeric array [width, height].
const measureScript = "[document.documentElement.scrollWidth, document.documentElement.scrollHeight];"

// computeAnchor returns the transformed pixel position for the overlay:
// x from the fragment's start column, y two line-heights below the
// fragment's end row, both offset by the viewport's position inside its
// top-level window. Returns host.ErrNotVisible when the fragment is
// scrolled off screen.
func (e *Engine) computeAnchor(frag host.Context) (host.Point, error) {
	start, err := e.view.PixelPositionOf(frag.Begin)
	if err != nil {
		return host.Point{}, err
	}
	end, err := e.view.PixelPositionOf(frag.End - 1)
	if err != nil {
		return host.Point{}, err
	}

	edges := e.view.ViewportEdges()
	x := start.X + edges.Left
	y := end.Y + 2*e.view.LineHeight() + edges.Top + e.view.TabBarHeight()

	x, y = e.cfg.PositionTransform(x, y)
	return host.Point{X: x, Y: y}, nil
}

// applyFixedSize sizes the window and surface to the configured defaults.
func (e *Engine) applyFixedSize(win host.Window, surf host.Surface) {
	w, h := e.cfg.SizeTransform(e.cfg.Width, e.cfg.Height)
	win.SetSize(w, h)
	surf.Resize(w, h)
}

// requestAdaptiveSize submits the measurement script. The overlay shows
// at its current size immediately; the resize lands one asynchronous
// round trip later, when the completion fires.
func (e *Engine) requestAdaptiveSize(win host.Window, surf host.Surface) {
	e.execScript(surf, e.generation, measureScript, func(value any) {
		mw, mh, ok := parseExtent(value)
		if !ok {
			log.Debug("geometry: malformed measurement %v", value)
			return
		}
		e.applyMeasuredSize(win, surf, mw, mh)
	})
}

// applyMeasuredSize grows the overlay to the measured extent, never
// shrinking below the configured defaults or the window's current size.
// Fractional measurements round up to whole pixels. The transform runs
// once, on the computed target; the current size is only a floor, so
// repeated completions cannot compound the transform.
func (e *Engine) applyMeasuredSize(win host.Window, surf host.Surface, mw, mh float64) {
	w := max(e.cfg.Width, int(math.Ceil(mw)))
	h := max(e.cfg.Height, int(math.Ceil(mh)))
	w, h = e.cfg.SizeTransform(w, h)
	cw, ch := win.Size()
	w, h = max(w, cw), max(h, ch)
	win.SetSize(w, h)
	surf.Resize(w, h)
}

// parseExtent extracts a [width, height] pair from a script result.
func parseExtent(value any) (w, h float64, ok bool) {
	switch v := value.(type) {
	case []float64:
		if len(v) == 2 {
			return v[0], v[1], true
		}
	case []int:
		if len(v) == 2 {
			return float64(v[0]), float64(v[1]), true
		}
	case []any:
		if len(v) == 2 {
			w, wok := toFloat(v[0])
			h, hok := toFloat(v[1])
			if wok && hok {
				return w, h, true
			}
		}
	}
	return 0, 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
