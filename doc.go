/*
Package nstree exposes a tree-shaped object model on top of a flat key-value
store (localStorage-style: string keys, opaque serialized values).

We implement:

1. Namespaces, independently persisted top-level data trees, each stored as
a single entry in the backing store keyed by the namespace name.

2. Bound nodes, live objects mirroring one (sub)object of a namespace's data,
offering get/set accessors and change events. A node exists for every key
whose value is a plain mapping; primitives and sequences are plain values.

3. Deferred persistence: every mutation anywhere in a tree schedules one
best-effort write of the root's entire mirror, run on a FIFO task queue after
the mutating call returns. There are no delta writes; the last write to run
reflects the complete current state.

# Technical Details

**Values.**
Node data is restricted to the JSON-like variant: nil, bool, string, float64,
[]any, map[string]any. Anything a caller passes through Set is deep-cloned
into this canonical form first (other Go numerics are converted to float64,
typed slices and maps to []any and map[string]any). Cyclic structures are
rejected.

**Backends.**
The store behind a Registry is anything implementing Backend. Failures
degrade: a backend that errors on the initial availability probe turns the
whole registry into an in-memory-only object tree, and a mid-session write or
remove failure is swallowed. The one store error that surfaces is malformed
persisted data, reported when a namespace is first opened.

**Events.**
A mutation fires "change" on exactly two nodes: the node mutated directly and
the namespace root. Intermediate ancestors do not observe descendant changes.
*/
package nstree
