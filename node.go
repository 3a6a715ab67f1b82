package nstree

import (
	"slices"
)

// EventChange is the only event type dispatched by mutations, and the only
// one On accepts. Trigger can fire arbitrary event names, but nothing can
// subscribe to them, so they dispatch to no one.
const EventChange = "change"

type listener struct {
	id uint64
	fn func(*Node)
}

// Node is a live object bound to one (sub)object of a namespace's data.
// The root node mirrors the namespace's whole tree; a child node exists for
// every key whose value is a plain mapping, and shares that mapping with its
// parent's mirror, so mutating the child is visible in the root's full-tree
// serialization.
//
// All methods are safe for concurrent use; nodes of one registry share a
// single lock.
type Node struct {
	reg  *Registry
	name string
	root *Node // self for the root node

	mirror    map[string]any
	children  map[string]*Node
	listeners map[string][]listener
	lastID    uint64
	destroyed bool // root only
}

// buildNode constructs the node tree for mirror. Pass root == nil to build
// a namespace root. Caller must hold reg.mu.
func buildNode(reg *Registry, name string, root *Node, mirror map[string]any) *Node {
	n := &Node{
		reg:      reg,
		name:     name,
		mirror:   mirror,
		children: make(map[string]*Node),
	}
	if root == nil {
		n.root = n
	} else {
		n.root = root
	}
	for k, v := range mirror {
		if obj, ok := plainObject(v); ok {
			n.children[k] = buildNode(reg, name, n.root, obj)
		}
	}
	return n
}

// Namespace returns the name shared by every node of this tree.
func (n *Node) Namespace() string {
	return n.name
}

// IsRoot reports whether this is the node the registry hands out for the
// namespace.
func (n *Node) IsRoot() bool {
	return n.root == n
}

// Root returns the namespace root of this node's tree.
func (n *Node) Root() *Node {
	return n.root
}

// Get returns the mirrored value for key, or nil when absent. Containers are
// returned by reference; callers must not mutate them directly.
func (n *Node) Get(key string) any {
	n.reg.mu.Lock()
	defer n.reg.mu.Unlock()
	return n.mirror[key]
}

// Has reports whether key is present in the mirror (Get cannot distinguish
// an absent key from a stored nil).
func (n *Node) Has(key string) bool {
	n.reg.mu.Lock()
	defer n.reg.mu.Unlock()
	_, ok := n.mirror[key]
	return ok
}

// All returns this node's entire mirror. This is the live map, not a copy;
// callers must not mutate it directly.
func (n *Node) All() map[string]any {
	n.reg.mu.Lock()
	defer n.reg.mu.Unlock()
	return n.mirror
}

// Keys returns the mirror's keys in unspecified order.
func (n *Node) Keys() []string {
	n.reg.mu.Lock()
	defer n.reg.mu.Unlock()
	keys := make([]string, 0, len(n.mirror))
	for k := range n.mirror {
		keys = append(keys, k)
	}
	return keys
}

// Child returns the bound node for key, or nil unless the key currently
// holds a plain mapping. Setting the key again replaces the child node;
// stale references keep working but are no longer wired into the tree.
func (n *Node) Child(key string) *Node {
	n.reg.mu.Lock()
	defer n.reg.mu.Unlock()
	return n.children[key]
}

// Set deep-copies value into the mirror under key, replacing any previous
// value and child node. It then schedules one deferred write of the root's
// entire mirror and fires "change" on this node and on the root.
//
// Returns ErrCycle or *UnsupportedValueError when value cannot be
// represented; the mirror is untouched in that case.
func (n *Node) Set(key string, value any) error {
	copied, err := cloneValue(value)
	if err != nil {
		return err
	}
	n.reg.mu.Lock()
	n.install(key, copied)
	n.reg.scheduleWrite(n.root)
	fns := n.changeTargets()
	n.reg.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// SetAll applies Set's per-key logic to every entry of values as one batched
// mutation: one deferred write, one "change" event per node (this node and
// the root), not one per key. All values are cloned up front, so a clone
// failure leaves the mirror completely untouched.
func (n *Node) SetAll(values map[string]any) error {
	copies := make(map[string]any, len(values))
	for k, v := range values {
		copied, err := cloneValue(v)
		if err != nil {
			return err
		}
		copies[k] = copied
	}

	n.reg.mu.Lock()
	for k, copied := range copies {
		n.install(k, copied)
	}
	n.reg.scheduleWrite(n.root)
	fns := n.changeTargets()
	n.reg.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// Delete removes key from the mirror (and its child node, if any), then
// persists and fires events the same way Set does. Deleting an absent key
// does nothing.
func (n *Node) Delete(key string) {
	n.reg.mu.Lock()
	if _, ok := n.mirror[key]; !ok {
		n.reg.mu.Unlock()
		return
	}
	delete(n.mirror, key)
	delete(n.children, key)
	n.reg.scheduleWrite(n.root)
	fns := n.changeTargets()
	n.reg.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// install stores an already-canonical value. A plain mapping gets a fresh
// child node tree (the old child is discarded, not merged); anything else
// drops whatever child held the key before. Caller must hold reg.mu.
func (n *Node) install(key string, v any) {
	n.mirror[key] = v
	if obj, ok := plainObject(v); ok {
		n.children[key] = buildNode(n.reg, n.name, n.root, obj)
	} else {
		delete(n.children, key)
	}
}

// changeTargets collects the "change" dispatches for one mutation: this node
// and, when this isn't the root, the root. Intermediate ancestors are
// deliberately not notified. Caller must hold reg.mu; the returned closures
// must be invoked after releasing it, so listeners can call back into the
// tree.
func (n *Node) changeTargets() []func() {
	var fns []func()
	for _, l := range n.listeners[EventChange] {
		fn := l.fn
		fns = append(fns, func() { fn(n) })
	}
	if n.root != n {
		for _, l := range n.root.listeners[EventChange] {
			fn := l.fn
			root := n.root
			fns = append(fns, func() { fn(root) })
		}
	}
	return fns
}

// On registers fn for event and returns a listener id for Off. Only
// EventChange is a recognized subscription event; any other name (and a nil
// fn) is silently ignored, returning id 0.
func (n *Node) On(event string, fn func(*Node)) uint64 {
	if event != EventChange || fn == nil {
		return 0
	}
	n.reg.mu.Lock()
	defer n.reg.mu.Unlock()
	n.lastID++
	id := n.lastID
	if n.listeners == nil {
		n.listeners = make(map[string][]listener)
	}
	n.listeners[event] = append(n.listeners[event], listener{id, fn})
	return id
}

// Off removes listeners for event: all of them when no ids are given,
// otherwise just the ones with matching ids. Unknown events and ids are
// a no-op.
func (n *Node) Off(event string, ids ...uint64) {
	n.reg.mu.Lock()
	defer n.reg.mu.Unlock()
	if len(ids) == 0 {
		delete(n.listeners, event)
		return
	}
	list := n.listeners[event]
	if list == nil {
		return
	}
	kept := make([]listener, 0, len(list))
	for _, l := range list {
		if !slices.Contains(ids, l.id) {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(n.listeners, event)
	} else {
		n.listeners[event] = kept
	}
}

// Trigger synchronously invokes every listener registered for event on this
// node, passing the node itself. Unlike On, any event name works here.
func (n *Node) Trigger(event string) {
	n.reg.mu.Lock()
	list := n.listeners[event]
	fns := make([]func(*Node), len(list))
	for i, l := range list {
		fns[i] = l.fn
	}
	n.reg.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}

// Destroy tears down a namespace: empties the root's mirror and children,
// drops its listeners, removes the registry entry and the persisted store
// entry, and cancels any deferred writes still queued for this tree.
// A later Namespace call with the same name starts a fresh, empty tree.
//
// Only the root can be destroyed; calling Destroy on a child returns
// ErrNotRoot.
func (n *Node) Destroy() error {
	if n.root != n {
		return ErrNotRoot
	}
	reg := n.reg
	reg.mu.Lock()
	if n.destroyed {
		reg.mu.Unlock()
		return nil
	}
	n.destroyed = true
	clear(n.mirror)
	clear(n.children)
	n.listeners = nil
	delete(reg.roots, n.name)
	reg.mu.Unlock()

	// Queued writes for this tree turn into no-ops once destroyed is set,
	// but one may already be mid-write; wait it out so the removal below
	// cannot be overwritten by stale data.
	reg.queue.flush()
	reg.adapter.tryRemove(n.name)
	reg.debugf("nstree: destroyed namespace %q", n.name)
	return nil
}

// persistNow serializes the root's full mirror and writes it, best-effort.
// Runs on the write queue's worker goroutine.
func (n *Node) persistNow() {
	reg := n.reg
	reg.mu.Lock()
	if n.destroyed {
		reg.mu.Unlock()
		return
	}
	raw, err := reg.codec.Marshal(n.mirror)
	reg.mu.Unlock()
	if err != nil {
		reg.debugf("nstree: serializing %q failed: %v", n.name, err)
		return
	}
	reg.adapter.tryWrite(n.name, raw)
}
