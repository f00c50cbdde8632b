// Package software is a portable in-memory implementation of the dxgi and
// d3d11 contracts. It plays the part of the real graphics API wherever
// Windows is unavailable: in tests, in the demo and as a loader Library.
//
// The implementation is deliberately strict where the real API is: a swap
// chain can only be created for a *Device from this package, so a device
// wrapper that is not unwrapped on the way in is rejected, and
// ResizeBuffers refuses to run while back buffers are still referenced.
//
//	dev := software.NewDevice()
//	f := software.NewFactory(software.WithPresentHandler(savePNG))
//	sc, err := f.CreateSwapChain(dev, &dxgi.SwapChainDesc{...})
package software
