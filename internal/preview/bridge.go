// ABOUTME: Scripting bridge: async script submission with completion dispatch
// ABOUTME: Completions race lifecycle teardown; stale or mismatched ones are dropped

package preview

import (
	"github.com/ksqsf/org-xlatex/internal/host"
	"github.com/ksqsf/org-xlatex/internal/log"
)

// execScript submits script against surf and returns immediately. The
// completion, if any, is posted onto the engine loop and delivered to
// onComplete only when all of the following still hold: the event is a
// script result, the surface is live, and the generation captured at
// submission matches the current one. Anything else is logged and
// dropped; there is no cancellation and no timeout, so an overlay whose
// completion never arrives simply keeps its current size.
func (e *Engine) execScript(surf host.Surface, gen uint64, script string, onComplete func(value any)) {
	surf.ExecuteScript(script, func(ev host.Event) {
		e.post(func() {
			if ev.Kind != host.EventScriptResult {
				log.Debug("bridge: ignoring %s event while awaiting completion", ev.Kind)
				return
			}
			if !surf.Live() {
				log.Debug("bridge: dropping completion for dead surface")
				return
			}
			if gen != e.generation {
				log.Debug("bridge: dropping completion from generation %d (now %d)", gen, e.generation)
				return
			}
			if onComplete != nil {
				onComplete(ev.Value)
			}
		})
	})
}
