package stage

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Node simultaneously. Create one
// with the convenience constructors and either call Update(dt) yourself or
// hand it to Scene.AddTween. If the target node is destroyed the group stops
// immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(vals [4]float64)
	target *Node
	Done   bool

	// OnDone runs once when the group finishes.
	OnDone Callback
}

// Update advances all tweens by dt seconds and applies the values to the
// target.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.Destroyed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
	if g.Done {
		g.OnDone.Invoke()
	}
}

// TweenPosition moves the node to (toX, toY).
func TweenPosition(n *Node, toX, toY int, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: n}
	g.tweens[0] = gween.New(float32(n.x), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(n.y), float32(toY), duration, fn)
	g.apply = func(v [4]float64) { n.SetPosition(v[0], v[1]) }
	return g
}

// TweenSize resizes the node to w x h, keeping its anchored point.
func TweenSize(n *Node, w, h int, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: n}
	g.tweens[0] = gween.New(float32(n.width), float32(w), duration, fn)
	g.tweens[1] = gween.New(float32(n.height), float32(h), duration, fn)
	g.apply = func(v [4]float64) { n.SetSizeAnchored(roundCoord(v[0]), roundCoord(v[1])) }
	return g
}

// TweenAlpha fades the node to alpha to.
func TweenAlpha(n *Node, to uint8, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: n}
	g.tweens[0] = gween.New(float32(n.alpha), float32(to), duration, fn)
	g.apply = func(v [4]float64) { n.SetAlpha(uint8(Clamp(math.Round(v[0]), 0, 255))) }
	return g
}

// TweenColor blends the node's fill color to to. The node must have a
// Visual.
func TweenColor(n *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := n.visual().Color
	g := &TweenGroup{count: 4, target: n}
	g.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	g.apply = func(v [4]float64) { n.SetColor(Color{v[0], v[1], v[2], v[3]}) }
	return g
}
