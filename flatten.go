package pytree

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/signadot/go-pytree/debug"
)

// LeafPredicate forces a value to be treated as a leaf when it returns
// true, regardless of how the value would otherwise classify. It runs
// before classification on every subvalue.
type LeafPredicate func(value any) (bool, error)

type options struct {
	leafPredicate LeafPredicate
	noneIsLeaf    bool
	namespace     string
}

// Option configures a flatten call.
type Option func(*options)

// NoneIsLeaf fixes whether nil classifies as a leaf or as the distinct
// None node kind.
func NoneIsLeaf(v bool) Option {
	return func(o *options) { o.noneIsLeaf = v }
}

// WithNamespace sets the registry namespace custom node types resolve
// under.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithLeafPredicate installs a leaf predicate.
func WithLeafPredicate(p LeafPredicate) Option {
	return func(o *options) { o.leafPredicate = p }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Flatten decomposes tree into its ordered leaves and a TreeSpec
// describing its shape.
func Flatten(tree any, opts ...Option) ([]any, *TreeSpec, error) {
	o := buildOptions(opts)
	ts := &TreeSpec{noneIsLeaf: o.noneIsLeaf, namespace: o.namespace}
	leaves := []any{}
	if err := ts.flattenInto(tree, &leaves, nil, nil, 0, &o); err != nil {
		return nil, nil, err
	}
	return leaves, ts, nil
}

// FlattenWithPaths is Flatten plus, for each leaf, the path to it.
func FlattenWithPaths(tree any, opts ...Option) ([]Path, []any, *TreeSpec, error) {
	o := buildOptions(opts)
	ts := &TreeSpec{noneIsLeaf: o.noneIsLeaf, namespace: o.namespace}
	leaves := []any{}
	paths := []Path{}
	if err := ts.flattenInto(tree, &leaves, &paths, nil, 0, &o); err != nil {
		return nil, nil, nil, err
	}
	return paths, leaves, ts, nil
}

// AllLeaves reports whether every value classifies as a leaf.
func AllLeaves(values []any, opts ...Option) bool {
	o := buildOptions(opts)
	for _, v := range values {
		if kind, _ := getKind(v, o.noneIsLeaf, o.namespace); kind != KindLeaf {
			return false
		}
	}
	return true
}

func (ts *TreeSpec) appendLeaf(v any, leaves *[]any, paths *[]Path, prefix Path) {
	*leaves = append(*leaves, v)
	if paths != nil {
		*paths = append(*paths, slices.Clone(prefix))
	}
	ts.traversal = append(ts.traversal, node{kind: KindLeaf, numLeaves: 1, numNodes: 1})
}

// flattenInto appends the post-order traversal of v to ts and its
// leaves to leaves. prefix is the path to v; paths is non-nil when leaf
// paths are recorded.
func (ts *TreeSpec) flattenInto(v any, leaves *[]any, paths *[]Path, prefix Path, depth int, o *options) error {
	if depth >= MaxRecursionDepth {
		return fmt.Errorf("%w: the tree is deeper than %d (cyclic input?)", ErrRecursionDepth, MaxRecursionDepth)
	}
	if o.leafPredicate != nil {
		isLeaf, err := o.leafPredicate(v)
		if err != nil {
			return err
		}
		if isLeaf {
			ts.appendLeaf(v, leaves, paths, prefix)
			return nil
		}
	}
	kind, custom := getKind(v, o.noneIsLeaf, o.namespace)
	switch kind {
	case KindLeaf:
		ts.appendLeaf(v, leaves, paths, prefix)
		return nil
	case KindNone:
		ts.traversal = append(ts.traversal, node{kind: KindNone, numNodes: 1})
		return nil
	}

	start := len(ts.traversal)
	leafStart := len(*leaves)
	n := node{kind: kind, custom: custom}

	recurse := func(child any, entry any) error {
		return ts.flattenInto(child, leaves, paths, append(prefix, entry), depth+1, o)
	}

	switch kind {
	case KindTuple:
		t := v.(Tuple)
		n.arity = len(t)
		for i, c := range t {
			if err := recurse(c, i); err != nil {
				return err
			}
		}

	case KindList:
		rv := reflect.ValueOf(v)
		n.arity = rv.Len()
		n.data = rv.Type()
		for i := 0; i < rv.Len(); i++ {
			if err := recurse(rv.Index(i).Interface(), i); err != nil {
				return err
			}
		}

	case KindDict:
		rv := reflect.ValueOf(v)
		entries := sortedMapEntries(rv)
		keys := make([]any, len(entries))
		for i, e := range entries {
			keys[i] = e.key
		}
		n.arity = len(entries)
		n.data = dictData{typ: rv.Type(), keys: keys}
		n.entries = keys
		for _, e := range entries {
			if err := recurse(e.value, e.key); err != nil {
				return err
			}
		}

	case KindOrderedDict:
		od := v.(OrderedDict)
		keys := od.Keys()
		n.arity = len(od)
		n.data = keys
		n.entries = keys
		for _, kv := range od {
			if err := recurse(kv.Value, kv.Key); err != nil {
				return err
			}
		}

	case KindDefaultDict:
		dd := v.(DefaultDict)
		entries := sortedAnyMapEntries(dd.Map)
		keys := make([]any, len(entries))
		for i, e := range entries {
			keys[i] = e.key
		}
		n.arity = len(entries)
		n.data = defaultDictData{factory: dd.Factory, keys: keys}
		n.entries = keys
		for _, e := range entries {
			if err := recurse(e.value, e.key); err != nil {
				return err
			}
		}

	case KindDeque:
		d := v.(Deque)
		n.arity = len(d.Values)
		n.data = d.MaxLen
		for i, c := range d.Values {
			if err := recurse(c, i); err != nil {
				return err
			}
		}

	case KindNamedTuple:
		rv := reflect.ValueOf(v)
		n.arity = rv.NumField()
		n.data = rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			if err := recurse(rv.Field(i).Interface(), i); err != nil {
				return err
			}
		}

	case KindStructSeq:
		rv := reflect.ValueOf(v)
		n.arity = rv.Len()
		n.data = rv.Type()
		for i := 0; i < rv.Len(); i++ {
			if err := recurse(rv.Index(i).Interface(), i); err != nil {
				return err
			}
		}

	case KindCustom:
		children, aux, entries, err := custom.toIterable(v)
		if err != nil {
			return err
		}
		if entries != nil && len(entries) != len(children) {
			return fmt.Errorf("%w: custom node %v returned %d entries for %d children",
				ErrInvalidArgument, custom.typ, len(entries), len(children))
		}
		n.arity = len(children)
		n.data = aux
		n.entries = entries
		for i, c := range children {
			entry := any(i)
			if entries != nil {
				entry = entries[i]
			}
			if err := recurse(c, entry); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: unreachable kind %v", errInternal, kind)
	}

	n.numLeaves = len(*leaves) - leafStart
	n.numNodes = len(ts.traversal) - start + 1
	if debug.Flatten() {
		debug.Logf("flatten: %s arity=%d leaves=%d nodes=%d depth=%d",
			kind, n.arity, n.numLeaves, n.numNodes, depth)
	}
	ts.traversal = append(ts.traversal, n)
	return nil
}
