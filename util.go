package stage

import "image"

// DetectExternalClicks reports a fresh left or right press that lands
// outside every rect in allowed.
func DetectExternalClicks(in *Input, allowed ...image.Rectangle) bool {
	if !in.LeftPressed() && !in.RightPressed() {
		return false
	}
	p := in.Pointer()
	for _, r := range allowed {
		if p.In(r) {
			return false
		}
	}
	return true
}

// DestroyOnExternalClicks destroys n when a fresh press lands outside every
// rect in allowed. It reports whether n was destroyed.
func DestroyOnExternalClicks(n *Node, allowed ...image.Rectangle) bool {
	if DetectExternalClicks(n.ctx.Input, allowed...) {
		n.Destroy()
		return true
	}
	return false
}
