// ABOUTME: Shared helpers for preview tests: engine construction and async waiting
// ABOUTME: Engines built here use a fake payload URI and a manual scheduler by default

package preview

import (
	"testing"
	"time"

	"github.com/ksqsf/org-xlatex/internal/config"
	"github.com/ksqsf/org-xlatex/internal/host"
)

const testPayloadURI = "file:///xlatex-test.html"

// fixedSize returns options with adaptive sizing off, for tests that
// want deterministic synchronous geometry.
func fixedSize() *config.Options {
	o := config.Defaults()
	off := false
	o.AdaptiveSize = &off
	return o
}

// adaptiveSize returns the default options (adaptive sizing on).
func adaptiveSize() *config.Options {
	return config.Defaults()
}

// mathView returns a view whose buffer holds `$x+y$` as an inline
// fragment at [10, 15), cursor inside it.
func mathView() *fakeView {
	return &fakeView{
		buffer: "Some text $x+y$ and more.",
		cursor: 12,
		frag:   host.Context{Kind: host.ContextInlineMath, Begin: 10, End: 15},
	}
}

func newTestEngine(t *testing.T, cfg *config.Options, fw *fakeWindowing, view *fakeView, sched host.Scheduler) *Engine {
	t.Helper()
	if sched == nil {
		sched = &manualScheduler{}
	}
	e, err := New(cfg, Deps{
		Windowing:  fw,
		View:       view,
		Scheduler:  sched,
		PayloadURI: testPayloadURI,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
