// ABOUTME: Overlay lifecycle: create-if-absent, reuse-if-live, idempotent teardown
// ABOUTME: Window and surface are created and destroyed as an atomic pair

package preview

import (
	"fmt"

	"github.com/ksqsf/org-xlatex/internal/host"
	"github.com/ksqsf/org-xlatex/internal/log"
)

// ensure returns a live window+surface pair, constructing a fresh one
// after full cleanup when the current pair is absent or dead. Each fresh
// pair gets a new generation; completions tagged with an older generation
// are dropped by the bridge.
func (e *Engine) ensure() (host.Window, host.Surface, error) {
	if e.win != nil && e.win.Live() && e.surf != nil && e.surf.Live() {
		return e.win, e.surf, nil
	}
	e.cleanup()

	win, err := e.windowing.CreateWindow(host.WindowParams{
		Undecorated: true,
		NoActivate:  true,
		SkipTaskbar: true,
		SkipPager:   true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating overlay window: %w", err)
	}

	surf, err := e.windowing.CreateSurface(win, 0, 0)
	if err != nil {
		win.Destroy()
		return nil, nil, fmt.Errorf("creating rendering surface: %w", err)
	}

	e.generation++
	gen := e.generation
	surf.SetEventHandler(func(ev host.Event) {
		e.post(func() { e.surfaceEvent(gen, ev) })
	})

	if err := surf.Navigate(e.payloadURI); err != nil {
		surf.SetEventHandler(nil)
		surf.Destroy()
		win.Destroy()
		return nil, nil, fmt.Errorf("loading rendering payload: %w", err)
	}

	e.win, e.surf = win, surf
	return win, surf, nil
}

// cleanup destroys the pair if it exists. Idempotent, and safe to call
// re-entrantly: handles are nil'd before destruction, so a nested call
// (e.g. from a layout notification raised mid-teardown) sees nothing to
// do. Order: detach dispatcher, destroy surface, destroy window.
func (e *Engine) cleanup() {
	win, surf := e.win, e.surf
	e.win, e.surf = nil, nil

	if surf != nil {
		surf.SetEventHandler(nil)
		surf.Destroy()
	}
	if win != nil {
		win.Destroy()
	}
}

// resetOverlay recovers from external state corruption: full teardown
// followed by a fresh pair, without restarting the engine.
func (e *Engine) resetOverlay() error {
	e.cleanup()
	_, _, err := e.ensure()
	return err
}

// hide toggles visibility off. Cheap, synchronous, idempotent; never
// destroys anything, and a no-op when no overlay was ever created.
func (e *Engine) hide() {
	if e.win != nil && e.win.Live() {
		e.win.SetVisible(false)
	}
}

// surfaceEvent is the generic dispatcher registered at surface creation.
// Script completions are routed by the bridge; everything else lands
// here and is logged, not propagated.
func (e *Engine) surfaceEvent(gen uint64, ev host.Event) {
	if gen != e.generation {
		log.Debug("overlay: ignoring %s event from generation %d (now %d)", ev.Kind, gen, e.generation)
		return
	}
	log.Debug("overlay: surface event %s", ev.Kind)
}
