// ABOUTME: Preview engine: explicit context object owning the overlay and its loop
// ABOUTME: Ticks and script completions all execute on one serialized loop goroutine

package preview

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ksqsf/org-xlatex/internal/config"
	"github.com/ksqsf/org-xlatex/internal/eventbus"
	"github.com/ksqsf/org-xlatex/internal/host"
	"github.com/ksqsf/org-xlatex/internal/log"
	"github.com/ksqsf/org-xlatex/internal/payload"
)

// Deps bundles everything the engine consumes from its host editor.
type Deps struct {
	Windowing host.Windowing
	View      host.DocumentView
	Scheduler host.Scheduler

	// Layout, when non-nil, delivers structural UI changes. The engine
	// tears the overlay down on each event and recreates it lazily on
	// the next eligible tick.
	Layout *eventbus.Bus[host.LayoutEvent]

	// PayloadURI overrides the bundled rendering page. Empty means the
	// embedded payload.
	PayloadURI string
}

// Engine owns the single overlay window + surface pair and the trigger
// loop deciding when to show or hide it. Create one per activation
// scope; there is no package-level state.
type Engine struct {
	cfg        *config.Options
	windowing  host.Windowing
	view       host.DocumentView
	scheduler  host.Scheduler
	layout     *eventbus.Bus[host.LayoutEvent]
	payloadURI string

	mu          sync.Mutex
	running     bool
	stopping    bool
	stopCh      chan struct{}
	timer       host.TimerHandle
	unsubLayout func()
	grp         errgroup.Group

	// Posted work; never blocks the poster, so a completion delivered
	// synchronously from inside a loop callback cannot deadlock.
	qmu        sync.Mutex
	queue      []func()
	workSignal chan struct{}

	tickPending chan struct{}

	// Overlay state. Touched only on the loop goroutine (or, in tests,
	// a single test goroutine driving the engine directly).
	win         host.Window
	surf        host.Surface
	generation  uint64
	lastPayload string
}

// New creates an engine for the given host. The configuration must have
// passed config.Load (or be config.Defaults()).
func New(cfg *config.Options, deps Deps) (*Engine, error) {
	uri := deps.PayloadURI
	if uri == "" {
		u, err := payload.URI()
		if err != nil {
			return nil, err
		}
		uri = u
	}
	return &Engine{
		cfg:         cfg,
		windowing:   deps.Windowing,
		view:        deps.View,
		scheduler:   deps.Scheduler,
		layout:      deps.Layout,
		payloadURI:  uri,
		workSignal:  make(chan struct{}, 1),
		tickPending: make(chan struct{}, 1),
	}, nil
}

// Start verifies the environment, starts the loop if needed, and arms
// the recurring idle tick. The capability check failing is fatal: no
// retry, no timer. Start on a running engine re-arms the timer, first
// disarming the previous one so exactly one is ever live.
func (e *Engine) Start() error {
	if err := e.windowing.Supported(); err != nil {
		return fmt.Errorf("environment unsupported: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		e.running = true
		e.stopping = false
		e.stopCh = make(chan struct{})
		stopCh := e.stopCh
		e.grp.Go(func() error {
			e.run(stopCh)
			return nil
		})
		if e.layout != nil {
			e.unsubLayout = e.layout.Subscribe(func(ev host.LayoutEvent) {
				e.post(func() {
					log.Debug("engine: layout changed (%dx%d), tearing overlay down", ev.Width, ev.Height)
					e.cleanup()
				})
			})
		}
	}

	if e.timer != nil {
		e.timer.Cancel()
	}
	e.timer = e.scheduler.ScheduleRepeating(e.cfg.PollInterval(), e.requestTick)
	return nil
}

// Stop disarms the timer, hides and destroys the overlay, and stops the
// loop, waiting for it to exit. Safe to call repeatedly. Must not be
// called from a loop callback.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running || e.stopping {
		e.mu.Unlock()
		return
	}
	e.stopping = true
	if e.timer != nil {
		e.timer.Cancel()
		e.timer = nil
	}
	unsub := e.unsubLayout
	e.unsubLayout = nil
	stopCh := e.stopCh
	e.mu.Unlock()

	if unsub != nil {
		unsub()
	}

	done := make(chan struct{})
	e.post(func() {
		e.hide()
		e.cleanup()
		close(done)
	})
	<-done

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	close(stopCh)
	_ = e.grp.Wait()
}

// Reset tears down and rebuilds the overlay, recovering from external
// state corruption (host UI reconfiguration) without restarting the
// engine. No-op when the engine is not running.
func (e *Engine) Reset() {
	e.mu.Lock()
	running := e.running && !e.stopping
	e.mu.Unlock()
	if !running {
		return
	}
	e.post(func() {
		if err := e.resetOverlay(); err != nil {
			log.Warn("reset: %v", err)
		}
	})
}

// post queues fn for execution on the loop. Never blocks.
func (e *Engine) post(fn func()) {
	e.qmu.Lock()
	e.queue = append(e.queue, fn)
	e.qmu.Unlock()
	select {
	case e.workSignal <- struct{}{}:
	default:
	}
}

// run is the engine loop: it executes posted work and coalesced ticks
// until stopCh closes. Work left queued at shutdown is dropped.
func (e *Engine) run(stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case <-e.workSignal:
			e.drain()
		case <-e.tickPending:
			e.tick()
		}
	}
}

// drain executes queued work in posting order.
func (e *Engine) drain() {
	for {
		e.qmu.Lock()
		if len(e.queue) == 0 {
			e.qmu.Unlock()
			return
		}
		fn := e.queue[0]
		e.queue = e.queue[1:]
		e.qmu.Unlock()
		e.runPosted(fn)
	}
}

// runPosted shields the loop from panicking callbacks, the same way
// tick shields the timer path. Script completions run user-supplied
// transforms, so a panic here must not kill the loop goroutine.
func (e *Engine) runPosted(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("engine: recovered from posted work: %v", r)
		}
	}()
	fn()
}

func (e *Engine) isStopping() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopping
}
