// Package pytree flattens arbitrarily nested Go values into their
// ordered leaves plus a compact, hashable descriptor of the tree's
// shape, the TreeSpec, and rebuilds isomorphic trees from replacement
// leaves.
//
// # Overview
//
// A tree is a recursive value built from a fixed set of container
// kinds plus leaves. The containers are Go slices and maps, the
// package's own Tuple, OrderedDict, DefaultDict and Deque types,
// structs whose fields are all exported and not embedded (named
// tuples), Go arrays (struct
// sequences), and user-registered custom node types. Everything else
// is a leaf and is never descended into.
//
//	leaves, spec, err := pytree.Flatten([]any{1, pytree.Tuple{2, 3}})
//	// leaves = [1, 2, 3]
//	// spec.String() = "PyTreeSpec([*, (*, *)])"
//	tree, err := spec.Unflatten([]any{10, 20, 30})
//	// tree = []any{10, pytree.Tuple{20, 30}}
//
// # TreeSpec
//
// A TreeSpec stores the tree's nodes as a flat sequence in post-order:
// children before parents, the root last. Each entry carries its kind,
// arity, kind-specific auxiliary data (sorted dict keys, the concrete
// container type, a deque's maxlen, ...), and cumulative leaf and node
// counts for the subtree rooted there. The flat form makes equality a
// single pass, Children a backward slice, Compose a concatenation with
// count rescaling, and pickling direct.
//
// Specs are immutable, comparable with Equal, hashable with Hash, and
// round-trip through ToPicklable/FromPicklable.
//
// # Dict key order
//
// Map keys are flattened in a total order: natural comparison first
// (numbers with numbers, strings with strings), then comparison
// prefixed by the qualified type name for mixed-type keys, then a
// formatted-representation order as the final deterministic tier.
// Flattening {'b': 1, 'a': 2} and {'a': 2, 'b': 1} therefore produces
// identical specs.
//
// # Custom nodes
//
// RegisterNode extends the container set with user types, keyed by
// (type, namespace). A non-empty namespace is required and isolates
// registrations from other packages that may register the same type
// with different behavior:
//
//	pytree.RegisterNode(reflect.TypeFor[MySet](),
//	    func(v any) ([]any, any, []any, error) { ... },
//	    func(aux any, children []any) (any, error) { ... },
//	    "mypkg")
//
// Flatten calls resolve types under their namespace option first and
// fall back to the global namespace.
//
// # Nil
//
// By default nil is a distinct node kind with no children: it is part
// of the spec, not of the leaves. The NoneIsLeaf option makes nil an
// ordinary leaf instead.
package pytree
