package overlay

import (
	"slices"
	"sync"
)

// RendererGG is the name of the gg rasteriser backend (package ggrender).
const RendererGG = "gg"

// RendererFactory creates a renderer instance.
type RendererFactory func() Renderer

var (
	registryMu sync.RWMutex
	renderers  = make(map[string]RendererFactory)
	// Priority order for DefaultRenderer; first registered name wins.
	rendererPriority = []string{RendererGG}
)

// RegisterRenderer registers a renderer factory under name, replacing any
// previous registration. Backend packages call it from init.
func RegisterRenderer(name string, factory RendererFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	renderers[name] = factory
}

// UnregisterRenderer removes a renderer from the registry.
func UnregisterRenderer(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(renderers, name)
}

// AvailableRenderers returns the registered renderer names, sorted.
func AvailableRenderers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewRenderer returns a new instance of the named renderer, or nil when no
// such renderer is registered.
func NewRenderer(name string) Renderer {
	registryMu.RLock()
	factory, ok := renderers[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// DefaultRenderer returns the best available renderer by priority, falling
// back to the first registered name in sorted order. It returns nil when
// nothing is registered.
func DefaultRenderer() Renderer {
	for _, name := range rendererPriority {
		if r := NewRenderer(name); r != nil {
			return r
		}
	}
	for _, name := range AvailableRenderers() {
		if r := NewRenderer(name); r != nil {
			return r
		}
	}
	return nil
}
