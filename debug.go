package stage

import "time"

// debugStats holds per-tick timings and counts. Only collected when
// Config.Debug is set.
type debugStats struct {
	scheduleTime time.Duration
	processTime  time.Duration
	refreshTime  time.Duration
	processed    int
	displayed    int
	pruned       int
}

// debugLog emits the tick's stats as a debug record.
func (s *Scene) debugLog(ctx *EngineContext, stats debugStats) {
	ctx.Log.Debug("scene tick",
		"scene", s.Name,
		"schedule", stats.scheduleTime,
		"process", stats.processTime,
		"refresh", stats.refreshTime,
		"total", stats.scheduleTime+stats.processTime+stats.refreshTime,
		"processed", stats.processed,
		"displayed", stats.displayed,
		"pruned", stats.pruned,
		"surfaces", ctx.Cache.Len(),
	)
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if the tree under n's root is deeper than the
// threshold.
func debugCheckTreeDepth(ctx *EngineContext, n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		ctx.Log.Warn("tree depth exceeds threshold", "node", n.String(), "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

const debugMaxChildCount = 1000

// debugCheckChildCount warns if n has more children than the threshold.
func debugCheckChildCount(ctx *EngineContext, n *Node) {
	if len(n.children) > debugMaxChildCount {
		ctx.Log.Warn("child count exceeds threshold", "node", n.String(), "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
