package stage

import (
	"image"
	"slices"
	"time"
)

// Scene owns a set of root nodes and runs them once per tick: processing
// children before parents, then refreshing every displayable node in z
// order.
type Scene struct {
	Name       string
	Background Color

	// Persistent scenes keep their nodes when the scene manager switches
	// away from them.
	Persistent bool

	// Build populates the scene when the scene manager creates it.
	Build func(ctx *EngineContext, s *Scene)

	roots []*Node

	processingOrder  []*Node
	preliminaryOrder []*Node
	prelimIndex      map[*Node]int
	displayOrder     []*Node

	tweens []*TweenGroup
}

// NewScene creates an empty scene with a white background.
func NewScene(name string) *Scene {
	return &Scene{Name: name, Background: ColorWhite}
}

// Add appends root nodes.
func (s *Scene) Add(nodes ...*Node) {
	for _, n := range nodes {
		if n == nil {
			panic("stage: cannot add nil node to scene")
		}
		s.roots = append(s.roots, n)
	}
}

// Remove drops a root node without destroying it.
func (s *Scene) Remove(n *Node) {
	if i := slices.Index(s.roots, n); i >= 0 {
		s.roots = slices.Delete(s.roots, i, i+1)
	}
}

// Roots returns the scene's root nodes. The slice must not be modified.
func (s *Scene) Roots() []*Node { return s.roots }

// Clear destroys every root and drops all derived state.
func (s *Scene) Clear() {
	for _, r := range s.roots {
		r.Destroy()
	}
	s.roots = nil
	s.processingOrder = nil
	s.preliminaryOrder = nil
	s.prelimIndex = nil
	s.displayOrder = nil
	s.tweens = nil
}

// Find returns the first node named name in depth-first order.
func (s *Scene) Find(name string) *Node {
	var walk func(nodes []*Node) *Node
	walk = func(nodes []*Node) *Node {
		for _, n := range nodes {
			if n.Name == name && !n.destroyed {
				return n
			}
			if found := walk(n.children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(s.roots)
}

// ProcessingOrder returns the current tick's processing order.
func (s *Scene) ProcessingOrder() []*Node { return s.processingOrder }

// DisplayOrder returns the current tick's display order.
func (s *Scene) DisplayOrder() []*Node { return s.displayOrder }

// AddTween runs g every tick until it is done.
func (s *Scene) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// Update runs one tick of the scene.
func (s *Scene) Update(ctx *EngineContext) {
	var stats debugStats
	debug := ctx.Config.Debug
	var t0 time.Time
	if debug {
		t0 = time.Now()
	}

	s.prune()
	sortByZ(s.roots)
	var order []*Node
	for _, r := range s.roots {
		order = append(order, r.Schedule()...)
	}
	sortByZ(order)
	s.processingOrder = order

	s.preliminaryOrder = s.displayables()
	s.prelimIndex = make(map[*Node]int, len(s.preliminaryOrder))
	for i, n := range s.preliminaryOrder {
		s.prelimIndex[n] = i
	}

	var t1 time.Time
	if debug {
		t1 = time.Now()
		stats.scheduleTime = t1.Sub(t0)
	}

	// Topmost first, so upper nodes see the pointer before nodes beneath.
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if n.removed() {
			continue
		}
		n.process(s)
		stats.processed++
	}
	s.advanceTweens(ctx)

	var t2 time.Time
	if debug {
		t2 = time.Now()
		stats.processTime = t2.Sub(t1)
	}

	// Rebuilt so nodes added during processing are drawn this tick and
	// destroyed ones are not. The preliminary order stays as the occlusion
	// reference for this tick.
	s.displayOrder = s.displayables()
	for _, n := range s.displayOrder {
		if n.removed() {
			continue
		}
		n.Refresh()
		stats.displayed++
	}

	stats.pruned = s.prune()
	if debug {
		stats.refreshTime = time.Since(t2)
		s.debugLog(ctx, stats)
	}
}

func (s *Scene) displayables() []*Node {
	var out []*Node
	for _, r := range s.roots {
		out = append(out, r.DisplayableNodes()...)
	}
	sortByZ(out)
	return out
}

func (s *Scene) advanceTweens(ctx *EngineContext) {
	if len(s.tweens) == 0 {
		return
	}
	dt := float32(1.0 / float64(max(ctx.Config.TPS, 1)))
	for _, g := range s.tweens {
		g.Update(dt)
	}
	s.tweens = slices.DeleteFunc(s.tweens, func(g *TweenGroup) bool { return g.Done })
}

// prune drops destroyed roots and returns how many were dropped.
func (s *Scene) prune() int {
	before := len(s.roots)
	s.roots = slices.DeleteFunc(s.roots, func(n *Node) bool { return n.destroyed })
	return before - len(s.roots)
}

// invalidate marks every visual in the scene for a full redraw.
func (s *Scene) invalidate() {
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			n.MarkDirty()
			walk(n.children)
		}
	}
	walk(s.roots)
}

// Compose fills dst with the background and draws the display order on
// top. It only reads from cache.
func (s *Scene) Compose(dst *image.RGBA, cache *Cache) {
	fill(dst, dst.Bounds(), s.Background)
	for _, n := range s.displayOrder {
		v := n.Visual
		if v == nil || n.removed() || !cache.Has(v.canvas) {
			continue
		}
		e := cache.Entry(v.canvas)
		blit(dst, e.Surface, image.Pt(n.x, n.y).Add(dst.Bounds().Min), e.Alpha)
	}
}
