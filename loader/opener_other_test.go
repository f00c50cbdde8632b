//go:build !windows

package loader

import (
	"errors"
	"testing"

	"github.com/gogpu/ggoverlay/dxgi"
)

func TestDefaultOpenerUnavailable(t *testing.T) {
	if _, err := defaultOpener(DefaultLibrary); !errors.Is(err, ErrUnavailable) {
		t.Errorf("defaultOpener() = %v, want ErrUnavailable", err)
	}
	if _, err := CreateFactory(dxgi.IIDFactory); !errors.Is(err, dxgi.ErrSDKComponentMissing) {
		t.Errorf("CreateFactory() = %v, want ErrSDKComponentMissing", err)
	}
}
