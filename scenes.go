package stage

import "github.com/pkg/errors"

// ErrUnknownScene is returned by ChangeByName for a name never registered.
var ErrUnknownScene = errors.New("stage: unknown scene")

// SceneManager tracks the current scene and every scene it has switched
// to, by name.
type SceneManager struct {
	ctx     *EngineContext
	current *Scene
	scenes  map[string]*Scene
}

func newSceneManager(ctx *EngineContext) *SceneManager {
	return &SceneManager{ctx: ctx, scenes: make(map[string]*Scene)}
}

// Current returns the active scene, or nil.
func (m *SceneManager) Current() *Scene { return m.current }

// Lookup returns the registered scene with the given name.
func (m *SceneManager) Lookup(name string) (*Scene, bool) {
	s, ok := m.scenes[name]
	return s, ok
}

// Create switches to s, building it first. If a persistent scene with the
// same name is already registered, that scene is resumed instead and s is
// not built.
func (m *SceneManager) Create(s *Scene) *Scene {
	if prev, ok := m.scenes[s.Name]; ok && prev.Persistent {
		return m.Change(prev)
	}
	if s.Build != nil {
		s.Build(m.ctx, s)
	}
	return m.Change(s)
}

// Change switches to s without building it. The current scene is cleared
// unless it is persistent.
func (m *SceneManager) Change(s *Scene) *Scene {
	if cur := m.current; cur != nil && cur != s && !cur.Persistent {
		cur.Clear()
	}
	m.current = s
	m.scenes[s.Name] = s
	m.ctx.Log.Debug("scene changed", "scene", s.Name, "persistent", s.Persistent)
	return s
}

// ChangeByName switches to a previously registered scene.
func (m *SceneManager) ChangeByName(name string) (*Scene, error) {
	s, ok := m.scenes[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownScene, name)
	}
	return m.Change(s), nil
}

// ScheduleChange creates s at the start of the next tick.
func (m *SceneManager) ScheduleChange(s *Scene) {
	m.ctx.Ticks.ScheduleStart(Do(func() { m.Create(s) }))
}
