package pytree

import (
	"fmt"
	"reflect"
)

// TreeSpec describes the shape of a tree: the linear post-order node
// traversal (children before parents, the root last), whether nil
// classifies as a leaf, and the registry namespace custom nodes resolve
// under. A TreeSpec is immutable after construction; it never retains
// references to leaves.
type TreeSpec struct {
	traversal  []node
	noneIsLeaf bool
	namespace  string
}

func (ts *TreeSpec) root() *node {
	if len(ts.traversal) == 0 {
		panic(fmt.Errorf("%w: the tree node traversal is empty", errInternal))
	}
	return &ts.traversal[len(ts.traversal)-1]
}

// NumLeaves returns the number of leaves in the tree.
func (ts *TreeSpec) NumLeaves() int { return ts.root().numLeaves }

// NumNodes returns the number of nodes in the tree. A leaf is also a
// node but has no children.
func (ts *TreeSpec) NumNodes() int { return len(ts.traversal) }

// NumChildren returns the number of direct children of the root.
func (ts *TreeSpec) NumChildren() int { return ts.root().arity }

// NoneIsLeaf reports whether nil classifies as a leaf. When false, nil
// is a non-leaf node with arity 0 and is contained in the spec rather
// than in the leaves.
func (ts *TreeSpec) NoneIsLeaf() bool { return ts.noneIsLeaf }

// Namespace returns the registry namespace used to resolve custom node
// types. It may be empty.
func (ts *TreeSpec) Namespace() string { return ts.namespace }

// IsLeaf reports whether the spec is a single leaf. With strict false,
// a lone None node also counts.
func (ts *TreeSpec) IsLeaf(strict bool) bool {
	if strict {
		return ts.NumNodes() == 1 && ts.NumLeaves() == 1
	}
	return ts.NumNodes() == 1
}

// Type returns the Go type of the root container. It is nil for Leaf
// and None roots.
func (ts *TreeSpec) Type() reflect.Type {
	n := ts.root()
	switch n.kind {
	case KindLeaf, KindNone:
		return nil
	case KindTuple:
		return tupleType
	case KindOrderedDict:
		return orderedDictType
	case KindDefaultDict:
		return defaultDictType
	case KindDeque:
		return dequeType
	case KindList, KindNamedTuple, KindStructSeq:
		return n.data.(reflect.Type)
	case KindDict:
		return n.data.(dictData).typ
	case KindCustom:
		return n.custom.typ
	}
	panic(fmt.Errorf("%w: unreachable kind %v", errInternal, n.kind))
}

// Entries returns the path entries of the root's direct children, or
// nil when integer indices are used.
func (ts *TreeSpec) Entries() []any {
	n := ts.root()
	if n.entries == nil {
		return nil
	}
	out := make([]any, len(n.entries))
	copy(out, n.entries)
	return out
}

// NewLeaf returns a spec representing a single leaf.
func NewLeaf(noneIsLeaf bool) *TreeSpec {
	return &TreeSpec{
		traversal:  []node{{kind: KindLeaf, numLeaves: 1, numNodes: 1}},
		noneIsLeaf: noneIsLeaf,
	}
}

// NewNone returns a spec representing a lone nil node. With noneIsLeaf
// true this is the same as NewLeaf(true).
func NewNone(noneIsLeaf bool) *TreeSpec {
	if noneIsLeaf {
		return NewLeaf(true)
	}
	return &TreeSpec{
		traversal: []node{{kind: KindNone, numNodes: 1}},
	}
}

// NewTuple builds a tuple spec out of child specs. All children must
// carry the same noneIsLeaf flag; namespaces unify, with empty ones
// inheriting from non-empty neighbours and conflicting non-empty ones
// failing.
func NewTuple(specs []*TreeSpec, noneIsLeaf bool) (*TreeSpec, error) {
	namespace := ""
	for _, s := range specs {
		if s.noneIsLeaf != noneIsLeaf {
			return nil, fmt.Errorf("%w: expected treespecs with noneIsLeaf=%v", ErrInvalidArgument, noneIsLeaf)
		}
		if s.namespace == "" {
			continue
		}
		if namespace == "" {
			namespace = s.namespace
		} else if namespace != s.namespace {
			return nil, fmt.Errorf("%w: expected treespecs with the same namespace, got %q vs. %q",
				ErrInvalidArgument, namespace, s.namespace)
		}
	}
	out := &TreeSpec{noneIsLeaf: noneIsLeaf, namespace: namespace}
	leaves := 0
	for _, s := range specs {
		out.traversal = append(out.traversal, s.traversal...)
		leaves += s.NumLeaves()
	}
	out.traversal = append(out.traversal, node{
		kind:      KindTuple,
		arity:     len(specs),
		numLeaves: leaves,
		numNodes:  len(out.traversal) + 1,
	})
	return out, nil
}

// Children returns the specs rooted at the direct children of the
// root, in natural child order. They are computed by slicing the
// traversal backward, numNodes entries per child.
func (ts *TreeSpec) Children() []*TreeSpec {
	root := ts.root()
	children := make([]*TreeSpec, root.arity)
	pos := len(ts.traversal) - 1
	for i := root.arity - 1; i >= 0; i-- {
		n := &ts.traversal[pos-1]
		if pos < n.numNodes {
			panic(fmt.Errorf("%w: children walked off the start of the traversal", errInternal))
		}
		child := &TreeSpec{noneIsLeaf: ts.noneIsLeaf, namespace: ts.namespace}
		child.traversal = append(child.traversal, ts.traversal[pos-n.numNodes:pos]...)
		children[i] = child
		pos -= n.numNodes
	}
	return children
}
