package pytree

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/signadot/go-pytree/debug"
)

// FlattenFunc decomposes a registered custom node into its children,
// auxiliary data stored in the spec, and optional path entries for the
// children. A nil entries slice means integer indices are used.
type FlattenFunc func(value any) (children []any, aux any, entries []any, err error)

// UnflattenFunc rebuilds a custom node from the auxiliary data and the
// unflattened children.
type UnflattenFunc func(aux any, children []any) (any, error)

// Registration is one (type, namespace) row of the node registry.
type Registration struct {
	kind         Kind
	typ          reflect.Type
	namespace    string
	toIterable   FlattenFunc
	fromIterable UnflattenFunc
}

// Type returns the registered Go type.
func (r *Registration) Type() reflect.Type { return r.typ }

// Namespace returns the namespace the type was registered under.
func (r *Registration) Namespace() string { return r.namespace }

type registryKey struct {
	typ reflect.Type
	ns  string
}

var (
	registryMu sync.RWMutex
	registry   = map[registryKey]*Registration{}
)

var (
	tupleType       = reflect.TypeOf(Tuple(nil))
	orderedDictType = reflect.TypeOf(OrderedDict(nil))
	defaultDictType = reflect.TypeOf(DefaultDict{})
	dequeType       = reflect.TypeOf(Deque{})
)

func init() {
	// Built-in container types live in the global namespace. Go slices
	// and maps are open type families and are classified structurally
	// instead of by registry rows.
	builtins := []struct {
		kind Kind
		typ  reflect.Type
	}{
		{KindTuple, tupleType},
		{KindOrderedDict, orderedDictType},
		{KindDefaultDict, defaultDictType},
		{KindDeque, dequeType},
	}
	for _, b := range builtins {
		registry[registryKey{b.typ, ""}] = &Registration{kind: b.kind, typ: b.typ}
	}
}

// RegisterNode extends the set of types that are treated as internal
// tree nodes. The namespace must be non-empty; registering the same
// (type, namespace) pair twice fails. Registrations are additive and
// process-wide; there is no unregister.
func RegisterNode(typ reflect.Type, toIterable FlattenFunc, fromIterable UnflattenFunc, namespace string) (*Registration, error) {
	if typ == nil {
		return nil, fmt.Errorf("%w: expected a type, got nil", ErrInvalidArgument)
	}
	if namespace == "" {
		return nil, fmt.Errorf("%w: the namespace cannot be an empty string", ErrInvalidArgument)
	}
	if toIterable == nil || fromIterable == nil {
		return nil, fmt.Errorf("%w: flatten and unflatten funcs must be non-nil", ErrInvalidArgument)
	}
	reg := &Registration{
		kind:         KindCustom,
		typ:          typ,
		namespace:    namespace,
		toIterable:   toIterable,
		fromIterable: fromIterable,
	}
	key := registryKey{typ, namespace}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[key]; ok {
		return nil, fmt.Errorf("%w: type %v already registered in namespace %q", ErrInvalidArgument, typ, namespace)
	}
	registry[key] = reg
	if debug.Registry() {
		debug.Logf("registry: registered %v in namespace %q", typ, namespace)
	}
	return reg, nil
}

// TreeNode is implemented by types that know how to flatten
// themselves. RegisterNodeType pairs it with an UnflattenFunc for the
// reverse direction.
type TreeNode interface {
	TreeFlatten() (children []any, aux any, entries []any)
}

// RegisterNodeType registers T using its TreeFlatten method.
func RegisterNodeType[T TreeNode](fromIterable UnflattenFunc, namespace string) (*Registration, error) {
	toIterable := func(v any) ([]any, any, []any, error) {
		children, aux, entries := v.(TreeNode).TreeFlatten()
		return children, aux, entries, nil
	}
	return RegisterNode(reflect.TypeFor[T](), toIterable, fromIterable, namespace)
}

// lookup resolves typ under ns, falling back to the global namespace.
func lookup(typ reflect.Type, ns string) *Registration {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if ns != "" {
		if reg, ok := registry[registryKey{typ, ns}]; ok {
			return reg
		}
	}
	return registry[registryKey{typ, ""}]
}
