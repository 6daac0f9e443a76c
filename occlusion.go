package stage

import "image"

// Mask returns the nodes that block clicks on a: every node drawn this tick
// that overlaps a and is not excused by blocks. The result is empty when a
// is not drawn this tick.
func (s *Scene) Mask(a *Node) []*Node {
	ia, ok := s.prelimIndex[a]
	if !ok {
		return nil
	}
	var out []*Node
	ra := a.Rect()
	for ib, b := range s.preliminaryOrder {
		if !blocks(a, ia, b, ib) {
			continue
		}
		if ra.Overlaps(b.Rect()) {
			out = append(out, b)
		}
	}
	return out
}

// clickBlocked reports whether p lies on any node of a's mask.
func (s *Scene) clickBlocked(a *Node, p image.Point) bool {
	for _, b := range s.Mask(a) {
		if p.In(b.Rect()) {
			return true
		}
	}
	return false
}

// blocks reports whether b may block clicks on a. ia and ib are their
// positions in the tick's preliminary display order.
//
// A higher z always blocks. At equal z, relatives block according to b's
// per-relation opacity flag, and only when b is drawn after a.
func blocks(a *Node, ia int, b *Node, ib int) bool {
	if b == a || !b.Opaque || b.z < a.z || b.removed() {
		return false
	}
	sameZ := b.z == a.z
	onTop := ia < ib

	rel, related := depthDifference(b, a)
	if !related {
		return !(sameZ && !onTop)
	}
	var flag bool
	switch {
	case rel > 0: // a is an ancestor-side relative of b
		flag = b.OpaqueToAncestor
	case rel < 0:
		flag = b.OpaqueToDescendant
	default:
		flag = b.OpaqueToSibling
	}
	return !(sameZ && (!flag || !onTop))
}

// depthDifference locates the nearest node shared by the parent chains of b
// and a (each chain starts at the node itself) and returns its index in b's
// chain minus its index in a's chain. related is false when the nodes share
// no ancestor.
func depthDifference(b, a *Node) (rel int, related bool) {
	chainB := ancestry(b)
	for ia, n := range ancestry(a) {
		for ib, m := range chainB {
			if m == n {
				return ib - ia, true
			}
		}
	}
	return 0, false
}

// ancestry lists n followed by its ancestors, nearest first.
func ancestry(n *Node) []*Node {
	var out []*Node
	for p := n; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}
