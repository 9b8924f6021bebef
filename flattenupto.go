package pytree

import (
	"fmt"
	"reflect"
)

// FlattenUpTo projects full against the spec as a prefix: it returns
// one subtree of full per leaf slot of the spec. Non-leaf spec nodes
// must agree with the corresponding nodes of full in kind, auxiliary
// data, and arity; a disagreement fails with a structure-mismatch error
// naming the offending path.
func (ts *TreeSpec) FlattenUpTo(full any) ([]any, error) {
	out := make([]any, ts.NumLeaves())
	pos := len(ts.traversal) - 1
	leafIdx := ts.NumLeaves()
	if err := ts.flattenUpTo(&pos, &leafIdx, out, full, nil); err != nil {
		return nil, err
	}
	if pos != -1 || leafIdx != 0 {
		return nil, fmt.Errorf("%w: flatten up to did not consume the whole traversal", errInternal)
	}
	return out, nil
}

func mismatchf(path Path, format string, args ...any) error {
	return fmt.Errorf("%w at %s: %s", ErrStructureMismatch, path.String(), fmt.Sprintf(format, args...))
}

// flattenUpTo walks the traversal backward from *pos (a subtree root)
// in lockstep with v. Children are visited right to left so leaf slots
// fill from the back of out.
func (ts *TreeSpec) flattenUpTo(pos, leafIdx *int, out []any, v any, path Path) error {
	n := &ts.traversal[*pos]
	*pos--

	switch n.kind {
	case KindLeaf:
		*leafIdx--
		out[*leafIdx] = v
		return nil
	case KindNone:
		if v != nil {
			return mismatchf(path, "expected None, got %T", v)
		}
		return nil
	}

	kind, custom := getKind(v, ts.noneIsLeaf, ts.namespace)
	if kind != n.kind {
		return mismatchf(path, "expected %s, got %s (%T)", n.kind, kind, v)
	}

	var children []any
	entries := n.entries

	switch n.kind {
	case KindTuple:
		t := v.(Tuple)
		if len(t) != n.arity {
			return mismatchf(path.Child(min(len(t), n.arity)), "tuple arity mismatch: expected %d, got %d", n.arity, len(t))
		}
		children = t

	case KindList:
		rv := reflect.ValueOf(v)
		if rv.Type() != n.data.(reflect.Type) {
			return mismatchf(path, "list type mismatch: expected %v, got %v", n.data, rv.Type())
		}
		if rv.Len() != n.arity {
			return mismatchf(path.Child(min(rv.Len(), n.arity)), "list arity mismatch: expected %d, got %d", n.arity, rv.Len())
		}
		children = make([]any, rv.Len())
		for i := range children {
			children[i] = rv.Index(i).Interface()
		}

	case KindDict:
		dd := n.data.(dictData)
		rv := reflect.ValueOf(v)
		if rv.Type() != dd.typ {
			return mismatchf(path, "dict type mismatch: expected %v, got %v", dd.typ, rv.Type())
		}
		treeEntries := sortedMapEntries(rv)
		if err := matchKeys(path, dd.keys, keysOf(treeEntries)); err != nil {
			return err
		}
		children = make([]any, len(treeEntries))
		for i, e := range treeEntries {
			children[i] = e.value
		}

	case KindOrderedDict:
		od := v.(OrderedDict)
		if err := matchKeys(path, n.data.([]any), od.Keys()); err != nil {
			return err
		}
		children = make([]any, len(od))
		for i, kv := range od {
			children[i] = kv.Value
		}

	case KindDefaultDict:
		dd := n.data.(defaultDictData)
		d := v.(DefaultDict)
		if !funcEqual(dd.factory, d.Factory) {
			return mismatchf(path, "defaultdict factory mismatch")
		}
		treeEntries := sortedAnyMapEntries(d.Map)
		if err := matchKeys(path, dd.keys, keysOf(treeEntries)); err != nil {
			return err
		}
		children = make([]any, len(treeEntries))
		for i, e := range treeEntries {
			children[i] = e.value
		}

	case KindDeque:
		d := v.(Deque)
		if !maxLenEqual(n.data.(*int), d.MaxLen) {
			return mismatchf(path, "deque maxlen mismatch")
		}
		if len(d.Values) != n.arity {
			return mismatchf(path.Child(min(len(d.Values), n.arity)), "deque arity mismatch: expected %d, got %d", n.arity, len(d.Values))
		}
		children = d.Values

	case KindNamedTuple, KindStructSeq:
		rv := reflect.ValueOf(v)
		if rv.Type() != n.data.(reflect.Type) {
			return mismatchf(path, "type mismatch: expected %v, got %v", n.data, rv.Type())
		}
		children = make([]any, n.arity)
		if n.kind == KindNamedTuple {
			for i := range children {
				children[i] = rv.Field(i).Interface()
			}
		} else {
			for i := range children {
				children[i] = rv.Index(i).Interface()
			}
		}

	case KindCustom:
		if custom != n.custom {
			return mismatchf(path, "custom registration mismatch for %T", v)
		}
		treeChildren, aux, treeEntries, err := custom.toIterable(v)
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(aux, n.data) {
			return mismatchf(path, "custom auxiliary data mismatch: expected %v, got %v", n.data, aux)
		}
		if len(treeChildren) != n.arity {
			return mismatchf(path.Child(min(len(treeChildren), n.arity)),
				"custom arity mismatch: expected %d, got %d", n.arity, len(treeChildren))
		}
		children = treeChildren
		if treeEntries != nil {
			entries = treeEntries
		}

	default:
		return fmt.Errorf("%w: unreachable kind %v", errInternal, n.kind)
	}

	for i := n.arity - 1; i >= 0; i-- {
		entry := any(i)
		if entries != nil {
			entry = entries[i]
		}
		if err := ts.flattenUpTo(pos, leafIdx, out, children[i], path.Child(entry)); err != nil {
			return err
		}
	}
	return nil
}

func keysOf(entries []mapEntry) []any {
	keys := make([]any, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}

func matchKeys(path Path, want, got []any) error {
	if len(want) != len(got) {
		return mismatchf(path, "dict keys mismatch: expected %v, got %v", want, got)
	}
	for i := range want {
		if !reflect.DeepEqual(want[i], got[i]) {
			return mismatchf(path.Child(want[i]), "dict keys mismatch: expected %v, got %v", want, got)
		}
	}
	return nil
}

func maxLenEqual(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func funcEqual(a, b func() any) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
