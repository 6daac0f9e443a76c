package stage

import (
	"fmt"
	"slices"
)

// Node is the fundamental scene graph element. A single struct is used for
// every kind of node; behaviour beyond geometry comes from the optional
// capability components (Visual, Button, Drag, Editor), checked explicitly
// during processing.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy. parent is a non-owning back-reference used for coordinate
	// propagation and occlusion queries only.
	parent   *Node
	children []*Node

	// Geometry
	x, y          int
	z             float64
	width, height int
	alpha         uint8
	rotation      int

	// Static nodes keep their absolute position when the parent moves.
	// Non-static nodes follow the parent at the offset (relX, relY).
	Static     bool
	relX, relY int

	// AnchorX and AnchorY select the point kept fixed on resize and rotation.
	AnchorX, AnchorY Anchor

	// Click blocking. Opaque nodes block clicks of nodes beneath them. The
	// finer flags govern relatives sharing the same z.
	Opaque             bool
	OpaqueToAncestor   bool
	OpaqueToDescendant bool
	OpaqueToSibling    bool

	displayable bool
	destroyed   bool

	// Capabilities
	Visual *Visual
	Button *Button
	Drag   *Drag
	Editor *TextInput
	frame  *borderFrame

	// OnProcess runs at the start of the node's processing each tick.
	OnProcess func(n *Node)

	// UserData is an arbitrary value for application use.
	UserData any

	ctx *EngineContext
}

// nodeDefaults sets the default values shared by all constructors.
func nodeDefaults(n *Node) {
	n.alpha = 255
	n.Static = true
	n.Opaque = true
	n.OpaqueToAncestor = true
}

// NewNode creates a plain geometry node. It is processed but never drawn.
func NewNode(ctx *EngineContext, name string) *Node {
	if ctx == nil {
		panic("stage: nil engine context")
	}
	n := &Node{ID: ctx.nextNodeID(), Name: name, ctx: ctx}
	nodeDefaults(n)
	return n
}

// Context returns the engine context the node was created with.
func (n *Node) Context() *EngineContext { return n.ctx }

// --- Tree ---

// AddChild appends child to this node's children. If child already has a
// parent it is removed from that parent first. A non-static child records
// its current offset from this node.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("stage: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("stage: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	child.updateRelative()
	if n.ctx.Config.Debug {
		debugCheckTreeDepth(n.ctx, child)
		debugCheckChildCount(n.ctx, n)
	}
}

// AddChildren adds each node in order.
func (n *Node) AddChildren(children ...*Node) {
	for _, c := range children {
		n.AddChild(c)
	}
}

// RemoveChild detaches child without destroying it.
func (n *Node) RemoveChild(child *Node) {
	if child.parent != n {
		panic("stage: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.parent = nil
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the parent node, or nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// FindChild returns the first direct child with the given name.
func (n *Node) FindChild(name string) *Node {
	return FindByName(n.children, name)
}

// Destroy marks the node destroyed and detaches it from its parent. It is
// idempotent. Children are left alone; they disappear with the subtree
// because destroyed nodes are skipped by display traversal.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true
	if n.parent != nil {
		n.parent.removeChildByPtr(n)
	}
	if n.Editor != nil && n.Editor.Selected {
		n.Editor.deselect(n)
	}
}

// Destroyed reports whether Destroy has been called.
func (n *Node) Destroyed() bool { return n.destroyed }

// removed reports whether the node or any ancestor has been destroyed.
func (n *Node) removed() bool {
	for p := n; p != nil; p = p.parent {
		if p.destroyed {
			return true
		}
	}
	return false
}

// Displayable reports whether the node draws a surface.
func (n *Node) Displayable() bool { return n.displayable }

// Schedule lists the subtree in processing order: each child's own subtree
// first, then the node itself, stable-sorted by z. Child positions are
// brought up to date on the way down.
func (n *Node) Schedule() []*Node {
	var out []*Node
	for _, c := range slices.Clone(n.children) {
		c.updatePosition()
		out = append(out, c.Schedule()...)
	}
	out = append(out, n)
	sortByZ(out)
	return out
}

// DisplayableNodes lists the node (if displayable) followed by its
// displayable descendants. Destroyed subtrees are skipped.
func (n *Node) DisplayableNodes() []*Node {
	if n.destroyed {
		return nil
	}
	var out []*Node
	if n.displayable {
		out = append(out, n)
	}
	for _, c := range n.children {
		out = append(out, c.DisplayableNodes()...)
	}
	return out
}

// process runs the node's per-tick behaviour. Capabilities are dispatched in
// a fixed order.
func (n *Node) process(s *Scene) {
	if n.OnProcess != nil {
		n.OnProcess(n)
	}
	n.updatePosition()
	if n.Button != nil {
		n.Button.process(n, s)
	}
	if n.Editor != nil {
		n.Editor.process(n)
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d", n.Name, n.ID)
}

func sortByZ(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		switch {
		case a.z < b.z:
			return -1
		case a.z > b.z:
			return 1
		default:
			return 0
		}
	})
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = slices.Delete(n.children, i, i+1)
			return
		}
	}
}

// FindByName returns the first node in nodes with the given name.
func FindByName(nodes []*Node, name string) *Node {
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}
