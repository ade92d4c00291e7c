package jsonvalue

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitPath splits a dot separated path such as "hero.buttons.0.label".
// The empty path addresses the root value.
func SplitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get returns the value at path.
func (v Value) Get(path string) (Value, bool) {
	cur := v
	for _, seg := range SplitPath(path) {
		switch cur.kind {
		case Object:
			next, ok := cur.obj[seg]
			if !ok {
				return Value{}, false
			}
			cur = next
		case Array:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return Value{}, false
			}
			next, ok := cur.Index(idx)
			if !ok {
				return Value{}, false
			}
			cur = next
		default:
			return Value{}, false
		}
	}
	return cur, true
}

// Set returns a copy of v with the value at path replaced by nv.
//
// Missing object keys along the path are created as objects. Array segments
// must be an existing index or exactly the array length, which appends.
func (v Value) Set(path string, nv Value) (Value, error) {
	segs := SplitPath(path)
	for _, seg := range segs {
		if seg == "" {
			return Value{}, fmt.Errorf("invalid path %q: empty segment", path)
		}
	}
	return setAt(v, segs, nv, 0)
}

func setAt(cur Value, segs []string, nv Value, depth int) (Value, error) {
	if depth == len(segs) {
		return nv, nil
	}
	seg := segs[depth]

	switch cur.kind {
	case Null, Object:
		child := cur.obj[seg]
		updated, err := setAt(child, segs, nv, depth+1)
		if err != nil {
			return Value{}, err
		}
		return cur.With(seg, updated), nil

	case Array:
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return Value{}, fmt.Errorf("path %q: %q is not an array index", strings.Join(segs[:depth+1], "."), seg)
		}
		if idx < 0 || idx > len(cur.arr) {
			return Value{}, fmt.Errorf("path %q: index %d out of range [0,%d]", strings.Join(segs[:depth+1], "."), idx, len(cur.arr))
		}
		var child Value
		if idx < len(cur.arr) {
			child = cur.arr[idx]
		}
		updated, err := setAt(child, segs, nv, depth+1)
		if err != nil {
			return Value{}, err
		}
		arr := make([]Value, len(cur.arr), len(cur.arr)+1)
		copy(arr, cur.arr)
		if idx == len(arr) {
			arr = append(arr, updated)
		} else {
			arr[idx] = updated
		}
		return Value{kind: Array, arr: arr}, nil

	default:
		return Value{}, fmt.Errorf("path %q: cannot descend into %s", strings.Join(segs[:depth], "."), cur.kind)
	}
}
