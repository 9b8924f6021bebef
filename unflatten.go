package pytree

import (
	"fmt"
	"reflect"
	"slices"
)

// Unflatten rebuilds a tree from leaves, which must contain exactly
// NumLeaves entries. The reconstructed value is isomorphic to the tree
// the spec was flattened from.
func (ts *TreeSpec) Unflatten(leaves []any) (any, error) {
	if len(leaves) != ts.NumLeaves() {
		return nil, fmt.Errorf("%w: treespec has %d leaves, got %d",
			ErrInvalidArgument, ts.NumLeaves(), len(leaves))
	}
	stack := make([]any, 0, ts.NumNodes())
	next := 0
	for i := range ts.traversal {
		n := &ts.traversal[i]
		switch n.kind {
		case KindLeaf:
			stack = append(stack, leaves[next])
			next++
		case KindNone:
			stack = append(stack, nil)
		default:
			if len(stack) < n.arity {
				return nil, fmt.Errorf("%w: too few elements for container", errInternal)
			}
			children := stack[len(stack)-n.arity:]
			v, err := makeNode(n, children)
			if err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-n.arity]
			stack = append(stack, v)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: traversal did not reduce to a single value", errInternal)
	}
	return stack[0], nil
}

// makeNode assembles one concrete container from its children and the
// node's auxiliary data.
func makeNode(n *node, children []any) (any, error) {
	if len(children) != n.arity {
		return nil, fmt.Errorf("%w: node arity %d does not match %d children", errInternal, n.arity, len(children))
	}
	switch n.kind {
	case KindNone:
		return nil, nil

	case KindTuple:
		return Tuple(slices.Clone(children)), nil

	case KindList:
		typ := n.data.(reflect.Type)
		out := reflect.MakeSlice(typ, len(children), len(children))
		for i, c := range children {
			if err := assignValue(out.Index(i), c); err != nil {
				return nil, err
			}
		}
		return out.Interface(), nil

	case KindDict:
		dd := n.data.(dictData)
		out := reflect.MakeMapWithSize(dd.typ, len(children))
		for i, k := range dd.keys {
			kv := reflect.New(dd.typ.Key()).Elem()
			if err := assignValue(kv, k); err != nil {
				return nil, err
			}
			vv := reflect.New(dd.typ.Elem()).Elem()
			if err := assignValue(vv, children[i]); err != nil {
				return nil, err
			}
			out.SetMapIndex(kv, vv)
		}
		return out.Interface(), nil

	case KindOrderedDict:
		keys := n.data.([]any)
		od := make(OrderedDict, len(children))
		for i, c := range children {
			od[i] = KV{Key: keys[i], Value: c}
		}
		return od, nil

	case KindDefaultDict:
		dd := n.data.(defaultDictData)
		m := make(map[any]any, len(children))
		for i, k := range dd.keys {
			m[k] = children[i]
		}
		return DefaultDict{Factory: dd.factory, Map: m}, nil

	case KindDeque:
		return Deque{Values: slices.Clone(children), MaxLen: n.data.(*int)}, nil

	case KindNamedTuple:
		typ := n.data.(reflect.Type)
		out := reflect.New(typ).Elem()
		for i, c := range children {
			if err := assignValue(out.Field(i), c); err != nil {
				return nil, err
			}
		}
		return out.Interface(), nil

	case KindStructSeq:
		typ := n.data.(reflect.Type)
		out := reflect.New(typ).Elem()
		for i, c := range children {
			if err := assignValue(out.Index(i), c); err != nil {
				return nil, err
			}
		}
		return out.Interface(), nil

	case KindCustom:
		return n.custom.fromIterable(n.data, slices.Clone(children))
	}
	return nil, fmt.Errorf("%w: make node not implemented for %v", errInternal, n.kind)
}

// assignValue stores v into dst, converting when the types permit it.
func assignValue(dst reflect.Value, v any) error {
	if v == nil {
		switch dst.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			dst.SetZero()
			return nil
		}
		return fmt.Errorf("%w: cannot use nil as %v", ErrInvalidArgument, dst.Type())
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(dst.Type()) {
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("%w: cannot use %T as %v", ErrInvalidArgument, v, dst.Type())
}
