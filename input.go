package stage

import (
	"image"
	"slices"
)

// InputState is the per-tick input snapshot supplied by the host. Pointer
// coordinates are in logical (unscaled) space.
type InputState struct {
	LeftDown  bool
	RightDown bool
	Pointer   image.Point

	// Pressed lists every key held this tick. NewlyPressed lists keys that
	// went down this tick; keys in Pressed that were not held last tick are
	// added to it automatically.
	Pressed      []Key
	NewlyPressed []Key

	// Text is the text typed this tick, if any.
	Text string
}

// Input holds the current and previous tick's state so that edges can be
// detected.
type Input struct {
	cur  InputState
	last InputState
	text string
}

// begin installs state as the current tick's input.
func (in *Input) begin(state InputState) {
	newly := slices.Clone(state.NewlyPressed)
	for _, k := range state.Pressed {
		if !slices.Contains(in.last.Pressed, k) && !slices.Contains(newly, k) {
			newly = append(newly, k)
		}
	}
	state.NewlyPressed = newly
	in.cur = state
	in.text = state.Text
}

// end rolls the current state over into last.
func (in *Input) end() {
	in.last = in.cur
	in.text = ""
}

// State returns the current tick's input.
func (in *Input) State() InputState { return in.cur }

// LeftDown reports whether the left button is held this tick.
func (in *Input) LeftDown() bool { return in.cur.LeftDown }

// LeftDownLastTick reports whether the left button was held last tick.
func (in *Input) LeftDownLastTick() bool { return in.last.LeftDown }

// RightDown reports whether the right button is held this tick.
func (in *Input) RightDown() bool { return in.cur.RightDown }

// RightDownLastTick reports whether the right button was held last tick.
func (in *Input) RightDownLastTick() bool { return in.last.RightDown }

// LeftPressed reports a fresh left press this tick.
func (in *Input) LeftPressed() bool { return in.cur.LeftDown && !in.last.LeftDown }

// RightPressed reports a fresh right press this tick.
func (in *Input) RightPressed() bool { return in.cur.RightDown && !in.last.RightDown }

// Pointer returns the pointer position.
func (in *Input) Pointer() image.Point { return in.cur.Pointer }

// Pressed reports whether k is held.
func (in *Input) Pressed(k Key) bool { return slices.Contains(in.cur.Pressed, k) }

// NewlyPressed reports whether k went down this tick.
func (in *Input) NewlyPressed(k Key) bool { return slices.Contains(in.cur.NewlyPressed, k) }

// NewKeyPresses returns the keys that went down this tick, in order.
func (in *Input) NewKeyPresses() []Key { return in.cur.NewlyPressed }

// TakeText returns the text typed this tick and consumes it, so that only
// one field receives it.
func (in *Input) TakeText() string {
	t := in.text
	in.text = ""
	return t
}
