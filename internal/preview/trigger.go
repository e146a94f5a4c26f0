// ABOUTME: Trigger scheduler: per-tick eligibility decides between preview and hide
// ABOUTME: No failure in a tick may kill the timer; errors degrade to a hide

package preview

import (
	"github.com/ksqsf/org-xlatex/internal/host"
	"github.com/ksqsf/org-xlatex/internal/log"
)

// requestTick schedules one tick onto the loop. A tick already pending
// absorbs further requests, so ticks never overlap or pile up behind a
// slow one.
func (e *Engine) requestTick() {
	select {
	case e.tickPending <- struct{}{}:
	default:
	}
}

// tick evaluates eligibility and previews or hides accordingly. Every
// failure path is caught here: the recurring timer only dies on Stop,
// and a broken tick retries naturally on the next one.
func (e *Engine) tick() {
	if e.isStopping() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("tick: recovered: %v", r)
			e.hide()
		}
	}()

	frag, ok, err := e.eligible()
	if err != nil {
		log.Debug("tick: eligibility: %v", err)
		e.hide()
		return
	}
	if !ok {
		e.hide()
		return
	}
	if err := e.preview(frag); err != nil {
		log.Debug("tick: preview: %v", err)
		e.hide()
	}
}

// eligible reports whether the cursor sits inside a previewable formula
// fragment, and which one.
func (e *Engine) eligible() (host.Context, bool, error) {
	ctx, err := e.view.ContextAt(e.view.CursorOffset())
	if err != nil {
		return host.Context{}, false, err
	}
	if !ctx.IsMath() {
		return host.Context{}, false, nil
	}
	return ctx, true, nil
}

// preview runs the combined show flow: ensure the pair, anchor it, push
// content, size it, and only then grant visibility. Adaptive sizing does
// not wait for its measurement round trip; the resize callback corrects
// a window that may already be on screen.
func (e *Engine) preview(frag host.Context) error {
	win, surf, err := e.ensure()
	if err != nil {
		return err
	}

	anchor, err := e.computeAnchor(frag)
	if err != nil {
		return err
	}

	e.updateContent(surf, frag)
	win.SetPosition(anchor.X, anchor.Y)

	if e.cfg.Adaptive() {
		// A fresh pair has no size yet. Seed it with the defaults so
		// the overlay never shows zero-extent while the measurement is
		// in flight, or forever if the completion never lands.
		if w, h := win.Size(); w == 0 || h == 0 {
			e.applyFixedSize(win, surf)
		}
		e.requestAdaptiveSize(win, surf)
	} else {
		e.applyFixedSize(win, surf)
	}

	win.SetVisible(true)
	return nil
}
