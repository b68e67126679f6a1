// Package bootstrap brings up a graphics context: it loads the driver,
// creates the instance, binds a window surface, selects a physical device
// and builds a logical device with its queues.
package bootstrap

import (
	"sync/atomic"

	"github.com/Oki1/Vulkano/driver"
)

// LibraryLoader loads the platform driver dispatch table.
type LibraryLoader func() (driver.Library, error)

// Library is a shared, reference-counted handle on a loaded driver. The
// dispatch table is released when the last holder calls Release.
type Library struct {
	lib  driver.Library
	refs int32
}

// LoadLibrary runs loader and returns a Library holding one reference.
func LoadLibrary(loader LibraryLoader) (*Library, error) {
	if loader == nil {
		return nil, fail(nil, ErrDriverNotFound, "no loader")
	}

	lib, err := loader()
	if err != nil {
		return nil, fail(err, ErrDriverNotFound, "load")
	}
	if lib == nil {
		return nil, fail(nil, ErrDriverNotFound, "loader returned no library")
	}

	return &Library{lib: lib, refs: 1}, nil
}

// Acquire takes another reference and returns l.
func (l *Library) Acquire() *Library {
	atomic.AddInt32(&l.refs, 1)
	return l
}

// Release drops one reference.
func (l *Library) Release() {
	switch n := atomic.AddInt32(&l.refs, -1); {
	case n == 0:
		l.lib.Release()
	case n < 0:
		panic("bootstrap: library released more times than acquired")
	}
}

// Refs returns the current reference count.
func (l *Library) Refs() int {
	return int(atomic.LoadInt32(&l.refs))
}

// Driver returns the underlying dispatch table.
func (l *Library) Driver() driver.Library {
	return l.lib
}
