// Package loader bootstraps the interposition layer: it opens the real
// graphics library, resolves its factory entry point and hands out a
// factory proxy in place of the real factory.
//
// The returned object owns the library. It is closed after the real
// factory is released, once the proxy and every swap chain created
// through it are gone.
package loader

import (
	"errors"
	"fmt"

	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/dxgi"
	"github.com/gogpu/ggoverlay/proxy"
)

// DefaultLibrary is the library opened when no other is configured.
const DefaultLibrary = "dxgi"

// CreateFactoryProc is the factory entry point resolved in the library.
const CreateFactoryProc = "CreateDXGIFactory"

// ErrUnavailable is returned by the default opener on platforms without
// a native graphics library.
var ErrUnavailable = errors.New("loader: native graphics library is not available on this platform")

// Library is an opened graphics library.
type Library interface {
	// Lookup resolves the factory entry point exported as proc.
	Lookup(proc string) (dxgi.CreateFactoryFunc, error)

	// Close unloads the library.
	Close() error
}

// Opener opens the library called name.
type Opener func(name string) (Library, error)

// Option configures CreateFactory.
type Option func(*options)

type options struct {
	library string
	opener  Opener
	proxy   []proxy.Option
}

// WithLibrary sets the library name passed to the opener.
func WithLibrary(name string) Option {
	return func(o *options) {
		if name != "" {
			o.library = name
		}
	}
}

// WithOpener replaces the platform opener.
func WithOpener(fn Opener) Option {
	return func(o *options) {
		if fn != nil {
			o.opener = fn
		}
	}
}

// WithProxyOptions configures the factory proxy and its swap chains.
func WithProxyOptions(opts ...proxy.Option) Option {
	return func(o *options) { o.proxy = append(o.proxy, opts...) }
}

// CreateFactory creates a factory through the real library and returns a
// proxy over it queried for iid.
//
// A library that cannot be opened or lacks the entry point yields
// dxgi.ErrSDKComponentMissing. Any failure of the entry point itself, or of
// the final query for iid, is returned unchanged. The library is closed
// whenever no factory is returned.
func CreateFactory(iid com.IID, opts ...Option) (com.Unknown, error) {
	o := options{library: DefaultLibrary, opener: defaultOpener}
	for _, opt := range opts {
		opt(&o)
	}
	log := ggoverlay.Logger()

	lib, err := o.opener(o.library)
	if err != nil {
		log.Warn("loader: cannot open graphics library", "err", fmt.Errorf("loader: open %s: %w", o.library, err))
		return nil, dxgi.ErrSDKComponentMissing
	}

	create, err := lib.Lookup(CreateFactoryProc)
	if err != nil || create == nil {
		log.Warn("loader: factory entry point missing", "err", fmt.Errorf("loader: lookup %s in %s: %w", CreateFactoryProc, o.library, err))
		closeLibrary(lib)
		return nil, dxgi.ErrSDKComponentMissing
	}

	orig, err := create(dxgi.IIDFactory)
	if com.Failed(err) || orig == nil {
		if err == nil {
			err = com.E_POINTER
		}
		log.Debug("loader: factory creation failed", "err", err)
		closeLibrary(lib)
		return nil, err
	}

	f := proxy.NewFactory(lib, orig, o.proxy...)
	defer f.Release()

	u, err := f.QueryInterface(iid)
	if err != nil {
		log.Debug("loader: factory does not support the requested interface", "err", err)
		return nil, err
	}
	log.Info("loader: factory loaded", "library", o.library)
	return u, nil
}

func closeLibrary(lib Library) {
	if err := lib.Close(); err != nil {
		ggoverlay.Logger().Warn("loader: closing graphics library failed", "err", err)
	}
}
