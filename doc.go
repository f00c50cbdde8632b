// Package ggoverlay is a transparent interposition layer for the DXGI
// factory and swap chain that draws an overlay into every presented frame.
//
// # Overview
//
// An application asks the layer for a factory instead of the system
// library. The factory it receives is a proxy: every call and every
// capability query it does not handle itself goes to the real factory
// unchanged. Swap chains created through it are proxies too; before each
// Present they render the overlay into back buffer zero with gg, then
// present through the real swap chain and start the next overlay frame.
//
// # Packages
//
//   - com: the object model (reference counting, capability queries,
//     result codes) and the proxy base with its one-hop unwrap protocol
//   - dxgi, d3d11: Go contracts of the interfaces involved
//   - proxy: the factory and swap chain proxies
//   - overlay: the per-swap-chain immediate-mode overlay and its backend
//     contracts; overlay/ggrender composites it with gg
//   - loader: opens the real library and returns the factory proxy
//   - native: bindings to the real Windows objects
//   - software: an in-memory implementation for tests and the demo
//
// # Quick Start
//
//	u, err := loader.CreateFactory(dxgi.IIDFactory,
//		loader.WithProxyOptions(proxy.WithDrawFunc(myOverlay)))
//	if err != nil {
//		return err
//	}
//	factory := u.(dxgi.Factory)
//	defer factory.Release()
//
// # Logging
//
// The layer is silent by default. [SetLogger] installs an slog.Logger for
// the layer and for gg.
package ggoverlay

// Version information
const (
	// Version is the current version of the layer
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
