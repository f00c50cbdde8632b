package overlay

import (
	"slices"
	"testing"
)

func TestRendererRegistry(t *testing.T) {
	const name = "registry-test"
	rec := &recorder{}
	RegisterRenderer(name, func() Renderer { return &fakeRenderer{rec: rec} })
	t.Cleanup(func() { UnregisterRenderer(name) })

	if !slices.Contains(AvailableRenderers(), name) {
		t.Errorf("AvailableRenderers() = %v, want it to contain %q", AvailableRenderers(), name)
	}
	if NewRenderer(name) == nil {
		t.Error("NewRenderer() = nil for a registered name")
	}
	if NewRenderer("missing") != nil {
		t.Error("NewRenderer() != nil for an unknown name")
	}
	if DefaultRenderer() == nil {
		t.Error("DefaultRenderer() = nil with a registered renderer")
	}

	UnregisterRenderer(name)
	if slices.Contains(AvailableRenderers(), name) {
		t.Error("renderer still listed after UnregisterRenderer")
	}
}

func TestDefaultRendererPriority(t *testing.T) {
	if NewRenderer(RendererGG) != nil {
		t.Skip("gg renderer registered in this binary")
	}
	rec := &recorder{}
	var made []string
	RegisterRenderer("zz-other", func() Renderer { made = append(made, "zz-other"); return &fakeRenderer{rec: rec} })
	RegisterRenderer(RendererGG, func() Renderer { made = append(made, RendererGG); return &fakeRenderer{rec: rec} })
	t.Cleanup(func() {
		UnregisterRenderer("zz-other")
		UnregisterRenderer(RendererGG)
	})

	DefaultRenderer()
	if !slices.Equal(made, []string{RendererGG}) {
		t.Errorf("DefaultRenderer() built %v, want only %q", made, RendererGG)
	}
}
