package pytree

import (
	"fmt"
	"reflect"

	"github.com/signadot/go-pytree/debug"
)

// NodeState is the picklable form of one traversal entry.
type NodeState struct {
	Kind       Kind
	Arity      int
	Data       any
	Entries    []any
	CustomType reflect.Type
	NumLeaves  int
	NumNodes   int
}

// Picklable is the serialisable form of a TreeSpec. Custom node types
// are stored as their Go type and re-resolved through the live
// registry when the spec is restored.
type Picklable struct {
	Nodes      []NodeState
	NoneIsLeaf bool
	Namespace  string
}

// ToPicklable transforms the spec into its picklable form.
func (ts *TreeSpec) ToPicklable() *Picklable {
	nodes := make([]NodeState, len(ts.traversal))
	for i, n := range ts.traversal {
		st := NodeState{
			Kind:      n.kind,
			Arity:     n.arity,
			Data:      n.data,
			Entries:   n.entries,
			NumLeaves: n.numLeaves,
			NumNodes:  n.numNodes,
		}
		if n.custom != nil {
			st.CustomType = n.custom.typ
		}
		nodes[i] = st
	}
	return &Picklable{Nodes: nodes, NoneIsLeaf: ts.noneIsLeaf, Namespace: ts.namespace}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: malformed picklable treespec: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// FromPicklable restores a spec from its picklable form, re-resolving
// custom node types through the current registry under the stored
// namespace. An unresolvable custom type is an error.
func FromPicklable(p *Picklable) (*TreeSpec, error) {
	if p == nil || len(p.Nodes) == 0 {
		return nil, malformed("empty node states")
	}
	ts := &TreeSpec{noneIsLeaf: p.NoneIsLeaf, namespace: p.Namespace}
	ts.traversal = make([]node, 0, len(p.Nodes))
	for i, st := range p.Nodes {
		n := node{
			kind:      st.Kind,
			arity:     st.Arity,
			entries:   st.Entries,
			numLeaves: st.NumLeaves,
			numNodes:  st.NumNodes,
		}
		if st.Kind != KindCustom && st.CustomType != nil {
			return nil, malformed("node %d: custom type on %s node", i, st.Kind)
		}
		switch st.Kind {
		case KindLeaf, KindNone, KindTuple:
			if st.Data != nil {
				return nil, malformed("node %d: unexpected data on %s node", i, st.Kind)
			}
		case KindList, KindNamedTuple, KindStructSeq:
			if _, ok := st.Data.(reflect.Type); !ok {
				return nil, malformed("node %d: expected a type for %s node data", i, st.Kind)
			}
			n.data = st.Data
		case KindDict:
			dd, ok := st.Data.(dictData)
			if !ok || len(dd.keys) != st.Arity {
				return nil, malformed("node %d: expected dict data with %d keys", i, st.Arity)
			}
			n.data = st.Data
		case KindOrderedDict:
			keys, ok := st.Data.([]any)
			if !ok || len(keys) != st.Arity {
				return nil, malformed("node %d: expected %d ordered dict keys", i, st.Arity)
			}
			n.data = st.Data
		case KindDefaultDict:
			dd, ok := st.Data.(defaultDictData)
			if !ok || len(dd.keys) != st.Arity {
				return nil, malformed("node %d: expected defaultdict data with %d keys", i, st.Arity)
			}
			n.data = st.Data
		case KindDeque:
			if _, ok := st.Data.(*int); !ok {
				return nil, malformed("node %d: expected deque maxlen", i)
			}
			n.data = st.Data
		case KindCustom:
			if st.CustomType == nil {
				return nil, malformed("node %d: missing custom type", i)
			}
			reg := lookup(st.CustomType, p.Namespace)
			if reg == nil || reg.kind != KindCustom {
				return nil, fmt.Errorf("%w: unknown custom type %v in picklable treespec",
					ErrInvalidArgument, st.CustomType)
			}
			n.custom = reg
			n.data = st.Data
		default:
			return nil, malformed("node %d: unknown kind %d", i, int(st.Kind))
		}
		if p.NoneIsLeaf && st.Kind == KindNone {
			return nil, malformed("node %d: None node in a NoneIsLeaf treespec", i)
		}
		ts.traversal = append(ts.traversal, n)
	}
	if debug.Pickle() {
		debug.Logf("pickle: restored treespec with %d nodes", len(ts.traversal))
	}
	return ts, nil
}
