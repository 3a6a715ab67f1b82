package nstree

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrCycle is returned by Set and SetAll when the given value contains
// a reference cycle.
var ErrCycle = errors.New("cyclic value")

// ErrNotRoot is returned by Destroy when called on a non-root node.
// Destroying a subtree without detaching it from its parent's mirror is
// unsupported; remove the key on the parent instead.
var ErrNotRoot = errors.New("not a root node")

// UnsupportedValueError is returned by Set and SetAll when the given value
// cannot be represented in the JSON-like variant.
type UnsupportedValueError struct {
	Type reflect.Type
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("unsupported value type %v", e.Type)
}

// DataError reports malformed persisted data encountered when opening
// a namespace. This is the only store-originated failure that surfaces;
// everything past the initial read is fire-and-forget.
type DataError struct {
	Namespace string
	Data      []byte
	Err       error
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		return fmt.Sprintf("namespace %s: bad stored data: %v: (%d) %x", e.Namespace, e.Err, n, e.Data)
	}
	p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
	return fmt.Sprintf("namespace %s: bad stored data: %v: (%d) %x...%x", e.Namespace, e.Err, n, p, s)
}
