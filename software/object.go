package software

import (
	"sync"

	"github.com/gogpu/ggoverlay/com"
	"github.com/gogpu/ggoverlay/dxgi"
)

// object is the part every software object shares: the reference count,
// the capability table and IDXGIObject private data.
type object struct {
	refs    com.RefCount
	self    com.Unknown
	iids    []com.IID
	destroy func()

	privMu  sync.Mutex
	private map[com.IID]privateEntry
}

type privateEntry struct {
	data  []byte
	iface com.Unknown
}

// init sets the outer object, the interfaces it answers besides IUnknown
// and the function run when the last reference goes away.
func (o *object) init(self com.Unknown, destroy func(), iids ...com.IID) {
	o.self = self
	o.destroy = destroy
	o.iids = iids
}

// QueryInterface implements com.Unknown.
func (o *object) QueryInterface(iid com.IID) (com.Unknown, error) {
	if com.IsEqualIID(iid, com.IIDUnknown) {
		o.refs.AddRef()
		return o.self, nil
	}
	for _, id := range o.iids {
		if com.IsEqualIID(id, iid) {
			o.refs.AddRef()
			return o.self, nil
		}
	}
	return nil, com.E_NOINTERFACE
}

// AddRef implements com.Unknown.
func (o *object) AddRef() uint32 { return o.refs.AddRef() }

// Release implements com.Unknown.
func (o *object) Release() uint32 {
	n := o.refs.Release()
	if n == 0 {
		o.privMu.Lock()
		for _, e := range o.private {
			com.SafeRelease(e.iface)
		}
		o.private = nil
		o.privMu.Unlock()
		if o.destroy != nil {
			o.destroy()
		}
	}
	return n
}

// RefCount returns the current reference count.
func (o *object) RefCount() uint32 { return o.refs.Count() }

func (o *object) setPrivate(name com.IID, e privateEntry) {
	o.privMu.Lock()
	defer o.privMu.Unlock()
	if old, ok := o.private[name]; ok {
		com.SafeRelease(old.iface)
		delete(o.private, name)
	}
	if e.data == nil && e.iface == nil {
		return
	}
	if o.private == nil {
		o.private = make(map[com.IID]privateEntry)
	}
	o.private[name] = e
}

// SetPrivateData implements dxgi.Object.
func (o *object) SetPrivateData(name com.IID, data []byte) error {
	var e privateEntry
	if data != nil {
		e.data = append([]byte{}, data...)
	}
	o.setPrivate(name, e)
	return nil
}

// SetPrivateDataInterface implements dxgi.Object.
func (o *object) SetPrivateDataInterface(name com.IID, u com.Unknown) error {
	if u != nil {
		u.AddRef()
	}
	o.setPrivate(name, privateEntry{iface: u})
	return nil
}

// GetPrivateData implements dxgi.Object. Entries stored with
// SetPrivateDataInterface have no byte form and report dxgi.ErrUnsupported.
func (o *object) GetPrivateData(name com.IID, buf []byte) (int, error) {
	o.privMu.Lock()
	defer o.privMu.Unlock()
	e, ok := o.private[name]
	switch {
	case !ok:
		return 0, dxgi.ErrNotFound
	case e.iface != nil:
		return 0, dxgi.ErrUnsupported
	case len(buf) < len(e.data):
		return len(e.data), dxgi.ErrMoreData
	}
	return copy(buf, e.data), nil
}
