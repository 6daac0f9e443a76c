// Package stage is a retained-mode 2D UI framework for [Ebitengine].
//
// Stage provides the scene graph, rectangular geometry, text layout with
// wrapping and hyphenation, boxes with borders, buttons, text fields,
// overlays, and a pointer occlusion resolver that decides which node a
// click belongs to. Everything is drawn on the CPU into cached surfaces, so
// the package itself does not depend on a graphics backend; the host
// package connects it to an Ebitengine window.
//
// # Quick start
//
// The simplest way to get started is [host.Run], which creates a window and
// game loop for you:
//
//	ctx, err := stage.NewEngineContext(stage.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	scene := stage.NewScene("main")
//	// ... add nodes ...
//	ctx.Scenes.Create(scene)
//	host.Run(ctx)
//
// For full control, drive the context yourself. Each tick takes the input
// observed by the host and each frame composes into an RGBA image:
//
//	ctx.Tick(stage.InputState{LeftDown: down, Pointer: image.Pt(x, y)})
//	ctx.Compose(frame)
//
// # Scene graph
//
// Every element is a [Node]. Nodes form trees whose roots are added to a
// [Scene]. A child follows its parent's position unless it is static, and
// carries a depth (z) that orders processing and drawing.
//
// Create nodes with typed constructors: [NewBox], [NewButton],
// [NewTextInput], [NewOverlay], [NewConfirmation]. Each takes an options
// struct obtained from its Default function:
//
//	opts := stage.DefaultButtonOptions(ctx)
//	opts.Text = "Search"
//	opts.LeftClick = stage.Do(runSearch)
//	scene.Add(stage.NewButton(ctx, opts))
//
// # Occlusion
//
// Before a button reacts to the pointer it asks the scene whether an opaque
// node above it covers the pointer. [Node.OpaqueToAncestor],
// [Node.OpaqueToDescendant] and [Node.OpaqueToSibling] relax this between
// related nodes at equal depth.
//
// # Key features
//
// Stage includes a surface cache that can be serialized and restored, tweens
// (via [gween]), scripted input injection for tests and screenshots, and a
// scene manager with persistent scenes.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package stage
