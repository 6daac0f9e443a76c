package stage

import (
	"image"
	"slices"
)

// Injected input replaces the host's input for one tick per queued state.
// Coordinates are logical, the same space the host reports.

func (c *EngineContext) inject(st InputState) {
	c.lastPointer = st.Pointer
	c.injectQueue = append(c.injectQueue, st)
}

// InjectPress queues a left press at (x, y).
func (c *EngineContext) InjectPress(x, y int) {
	c.inject(InputState{LeftDown: true, Pointer: image.Pt(x, y)})
}

// InjectMove queues a pointer move to (x, y) with the left button held.
// Use it between InjectPress and InjectRelease to simulate a drag.
func (c *EngineContext) InjectMove(x, y int) {
	c.inject(InputState{LeftDown: true, Pointer: image.Pt(x, y)})
}

// InjectHover queues a pointer move to (x, y) with no buttons held.
func (c *EngineContext) InjectHover(x, y int) {
	c.inject(InputState{Pointer: image.Pt(x, y)})
}

// InjectRelease queues a release at (x, y).
func (c *EngineContext) InjectRelease(x, y int) {
	c.inject(InputState{Pointer: image.Pt(x, y)})
}

// InjectClick queues a press followed by a release at (x, y). Consumes two
// ticks.
func (c *EngineContext) InjectClick(x, y int) {
	c.InjectPress(x, y)
	c.InjectRelease(x, y)
}

// InjectRightClick queues a right press and release at (x, y).
func (c *EngineContext) InjectRightClick(x, y int) {
	c.inject(InputState{RightDown: true, Pointer: image.Pt(x, y)})
	c.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at from, linearly interpolated
// moves over ticks-2 intermediate ticks, and release at to. The minimum is
// 2 ticks (press and release).
func (c *EngineContext) InjectDrag(from, to image.Point, ticks int) {
	if ticks < 2 {
		ticks = 2
	}
	c.InjectPress(from.X, from.Y)
	steps := ticks - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := float64(from.X) + float64(to.X-from.X)*t
		y := float64(from.Y) + float64(to.Y-from.Y)*t
		c.InjectMove(roundCoord(x), roundCoord(y))
	}
	c.InjectRelease(to.X, to.Y)
}

// InjectKey queues a press of each key on one tick followed by a release
// tick. The pointer stays where the last injected event left it.
func (c *EngineContext) InjectKey(keys ...Key) {
	p := c.lastPointer
	c.inject(InputState{Pointer: p, Pressed: slices.Clone(keys), NewlyPressed: slices.Clone(keys)})
	c.inject(InputState{Pointer: p})
}

// InjectText queues one tick carrying typed text.
func (c *EngineContext) InjectText(text string) {
	c.inject(InputState{Pointer: c.lastPointer, Text: text})
}

// Injecting reports whether injected input is still queued.
func (c *EngineContext) Injecting() bool { return len(c.injectQueue) > 0 }

// nextInjected pops the next injected state, if any.
func (c *EngineContext) nextInjected() (InputState, bool) {
	if len(c.injectQueue) == 0 {
		return InputState{}, false
	}
	st := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]
	return st, true
}
