package nstree

import (
	"github.com/google/uuid"
)

// Backend is the raw persistence API behind a Registry (Bolt, in-memory,
// localStorage-alike, etc.). One entry per namespace; values are opaque
// serialized bytes. Implementations must be safe for concurrent use and are
// allowed to fail: the adapter in front of a Backend absorbs every error
// except malformed data surfacing from a decode.
type Backend interface {
	// Get retrieves the entry for key. ok is false if the key is absent;
	// an absent key is not an error.
	Get(key string) (data []byte, ok bool, err error)

	// Set stores an entry, replacing any previous value.
	Set(key string, data []byte) error

	// Remove deletes an entry. Removing an absent key is not an error.
	Remove(key string) error
}

// adapter wraps a Backend so that no failure past construction is ever
// visible to callers: reads degrade to absent, writes and removals to no-ops.
type adapter struct {
	backend   Backend
	logf      func(format string, args ...any)
	available bool
}

func newAdapter(backend Backend, logf func(format string, args ...any)) *adapter {
	a := &adapter{backend: backend, logf: logf}
	a.available = a.probe()
	return a
}

// probe does one write+remove round trip under a throwaway key. The result
// is computed once and cached for the adapter's lifetime; a backend that
// comes back later stays unavailable.
func (a *adapter) probe() bool {
	if a.backend == nil {
		return false
	}
	key := "nstree-probe-" + uuid.NewString()
	if err := a.backend.Set(key, []byte("1")); err != nil {
		a.debugf("nstree: availability probe write failed: %v", err)
		return false
	}
	if err := a.backend.Remove(key); err != nil {
		a.debugf("nstree: availability probe remove failed: %v", err)
		return false
	}
	return true
}

func (a *adapter) tryRead(name string) ([]byte, bool) {
	if !a.available {
		return nil, false
	}
	data, ok, err := a.backend.Get(name)
	if err != nil {
		a.debugf("nstree: reading %q failed: %v", name, err)
		return nil, false
	}
	return data, ok
}

func (a *adapter) tryWrite(name string, data []byte) bool {
	if !a.available {
		return false
	}
	if err := a.backend.Set(name, data); err != nil {
		a.debugf("nstree: writing %q failed: %v", name, err)
		return false
	}
	return true
}

func (a *adapter) tryRemove(name string) bool {
	if !a.available {
		return false
	}
	if err := a.backend.Remove(name); err != nil {
		a.debugf("nstree: removing %q failed: %v", name, err)
		return false
	}
	return true
}

func (a *adapter) debugf(format string, args ...any) {
	if a.logf != nil {
		a.logf(format, args...)
	}
}
