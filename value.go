package nstree

import (
	"reflect"
)

// cloneValue deep-copies v into the canonical JSON-like variant:
// nil, bool, string, float64, []any, map[string]any.
//
// Typed slices become []any, string-keyed typed maps become map[string]any,
// and all numeric types collapse to float64, so a clone compares equal to the
// same data after a persistence round trip. The result never aliases any
// container reachable from v.
//
// Returns ErrCycle for self-referencing structures and *UnsupportedValueError
// for values outside the variant (funcs, chans, structs, non-string map keys).
func cloneValue(v any) (any, error) {
	return cloneValueRec(v, make(map[uintptr]struct{}))
}

func cloneValueRec(v any, seen map[uintptr]struct{}) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		return v, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return cloneSeq(rv, seen)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &UnsupportedValueError{Type: rv.Type()}
		}
		return cloneMapping(rv, seen)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return cloneValueRec(rv.Elem().Interface(), seen)
	default:
		return nil, &UnsupportedValueError{Type: rv.Type()}
	}
}

func cloneSeq(rv reflect.Value, seen map[uintptr]struct{}) (any, error) {
	n := rv.Len()
	if rv.Kind() == reflect.Slice && n > 0 {
		// Empty slices may share a backing pointer, so only track non-empty ones.
		p := rv.Pointer()
		if _, found := seen[p]; found {
			return nil, ErrCycle
		}
		seen[p] = struct{}{}
		defer delete(seen, p)
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		el, err := cloneValueRec(rv.Index(i).Interface(), seen)
		if err != nil {
			return nil, err
		}
		out[i] = el
	}
	return out, nil
}

func cloneMapping(rv reflect.Value, seen map[uintptr]struct{}) (any, error) {
	p := rv.Pointer()
	if _, found := seen[p]; found {
		return nil, ErrCycle
	}
	seen[p] = struct{}{}
	defer delete(seen, p)

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		el, err := cloneValueRec(iter.Value().Interface(), seen)
		if err != nil {
			return nil, err
		}
		out[iter.Key().String()] = el
	}
	return out, nil
}

// plainObject returns the canonical value as a plain mapping, the only shape
// that gets a bound child node. Sequences and primitives never do.
func plainObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}
