package nstree

import (
	"fmt"
	"sync"
)

// Registry maps namespace names to live tree roots, at most one root per
// name. The hosting application creates one Registry at startup and passes
// it wherever namespaces are needed; there is no package-level instance.
type Registry struct {
	adapter *adapter
	codec   Codec
	logf    func(format string, args ...any)
	verbose bool
	queue   *writeQueue

	// mu guards roots plus every node of every tree in this registry.
	mu    sync.Mutex
	roots map[string]*Node
}

type Options struct {
	// Backend is the persistence store. nil means no store at all: the
	// registry still works, purely in memory.
	Backend Backend

	// Codec overrides the persisted encoding; defaults to JSONCodec.
	Codec Codec

	Logf    func(format string, args ...any)
	Verbose bool
}

// New creates a registry and probes the backend's availability once.
// An unavailable backend is not an error; it degrades the registry to
// in-memory-only operation.
func New(opt Options) *Registry {
	reg := &Registry{
		codec:   opt.Codec,
		logf:    opt.Logf,
		verbose: opt.Verbose,
		roots:   make(map[string]*Node),
	}
	if reg.codec == nil {
		reg.codec = JSONCodec
	}
	reg.adapter = newAdapter(opt.Backend, reg.debugf)
	reg.queue = newWriteQueue()
	return reg
}

// Available reports the result of the one-time backend probe.
func (reg *Registry) Available() bool {
	return reg.adapter.available
}

// Namespace returns the live root node for name, creating it on first
// request. The root is seeded from the persisted entry when one exists,
// otherwise it starts empty. Malformed persisted data is the one store
// failure that surfaces, as a *DataError.
func (reg *Registry) Namespace(name string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("empty namespace name")
	}

	reg.mu.Lock()
	if root := reg.roots[name]; root != nil {
		reg.mu.Unlock()
		return root, nil
	}
	reg.mu.Unlock()

	mirror := make(map[string]any)
	if raw, ok := reg.adapter.tryRead(name); ok {
		decoded, err := reg.codec.Unmarshal(raw)
		if err != nil {
			return nil, &DataError{Namespace: name, Data: raw, Err: err}
		}
		// Canonicalize whatever the codec produced (typed containers,
		// integer numerics) into the variant nodes operate on.
		canonical, err := cloneValue(decoded)
		if err != nil {
			return nil, &DataError{Namespace: name, Data: raw, Err: err}
		}
		if m, ok := canonical.(map[string]any); ok {
			mirror = m
		}
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if root := reg.roots[name]; root != nil {
		// Another goroutine opened it while we were reading the store.
		return root, nil
	}
	root := buildNode(reg, name, nil, mirror)
	reg.roots[name] = root
	reg.debugf("nstree: opened namespace %q (%d keys)", name, len(mirror))
	return root, nil
}

// Flush blocks until every deferred write scheduled so far has run.
func (reg *Registry) Flush() {
	reg.queue.flush()
}

// Close flushes pending writes and stops the writer goroutine. The backend
// is not closed; its lifetime belongs to the caller.
func (reg *Registry) Close() {
	reg.queue.close()
}

func (reg *Registry) scheduleWrite(root *Node) {
	reg.queue.enqueue(root)
}

func (reg *Registry) debugf(format string, args ...any) {
	if reg.verbose && reg.logf != nil {
		reg.logf(format, args...)
	}
}
