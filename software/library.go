package software

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/dxgi"
)

// CreateFactoryProc is the entry point name a Library resolves.
const CreateFactoryProc = "CreateDXGIFactory"

// ErrLibraryClosed is returned by Lookup after Close.
var ErrLibraryClosed = errors.New("software: library closed")

// Library stands in for the system DXGI library. Its CreateDXGIFactory
// entry point creates software factories.
type Library struct {
	opts []Option

	mu     sync.Mutex
	closed bool
	calls  int
}

// NewLibrary returns an open library whose factories use opts.
func NewLibrary(opts ...Option) *Library {
	return &Library{opts: opts}
}

// Lookup resolves an exported procedure. Only CreateFactoryProc exists.
func (l *Library) Lookup(proc string) (dxgi.CreateFactoryFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrLibraryClosed
	}
	if proc != CreateFactoryProc {
		return nil, fmt.Errorf("software: procedure %q not found", proc)
	}
	return l.createFactory, nil
}

func (l *Library) createFactory(iid com.IID) (dxgi.Factory, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()

	f := NewFactory(l.opts...)
	defer f.Release()
	return com.As[dxgi.Factory](f, iid)
}

// Close implements io.Closer.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLibraryClosed
	}
	l.closed = true
	return nil
}

// Closed reports whether Close was called.
func (l *Library) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Calls returns how many factories the entry point created or tried to.
func (l *Library) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}
