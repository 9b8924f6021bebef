package pytree

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"reflect"
)

// Equal reports whether two specs describe the same tree shape. Specs
// with different noneIsLeaf flags are never equal; an empty namespace
// matches any namespace.
func (ts *TreeSpec) Equal(other *TreeSpec) bool {
	if ts == other {
		return true
	}
	if other == nil {
		return false
	}
	if len(ts.traversal) != len(other.traversal) || ts.noneIsLeaf != other.noneIsLeaf {
		return false
	}
	if ts.namespace != "" && other.namespace != "" && ts.namespace != other.namespace {
		return false
	}
	for i := range ts.traversal {
		a, b := &ts.traversal[i], &other.traversal[i]
		if a.kind != b.kind || a.arity != b.arity || a.custom != b.custom {
			return false
		}
		if (a.data == nil) != (b.data == nil) {
			return false
		}
		if a.data != nil && !nodeDataEqual(a.kind, a.data, b.data) {
			return false
		}
		if a.numLeaves != b.numLeaves || a.numNodes != b.numNodes {
			return false
		}
	}
	return true
}

func nodeDataEqual(kind Kind, a, b any) bool {
	switch kind {
	case KindList, KindNamedTuple, KindStructSeq:
		return a.(reflect.Type) == b.(reflect.Type)
	case KindDict:
		da, db := a.(dictData), b.(dictData)
		return da.typ == db.typ && keysEqual(da.keys, db.keys)
	case KindOrderedDict:
		return keysEqual(a.([]any), b.([]any))
	case KindDefaultDict:
		da, db := a.(defaultDictData), b.(defaultDictData)
		return funcEqual(da.factory, db.factory) && keysEqual(da.keys, db.keys)
	case KindDeque:
		return maxLenEqual(a.(*int), b.(*int))
	}
	return reflect.DeepEqual(a, b)
}

func keysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the spec, consistent with Equal: equal
// specs hash equally. The namespace does not contribute because an
// empty namespace compares equal to any other; custom node data does
// not contribute because it may not be hashable.
func (ts *TreeSpec) Hash() uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	if ts.noneIsLeaf {
		h.WriteByte(1)
	} else {
		h.WriteByte(0)
	}
	for i := range ts.traversal {
		n := &ts.traversal[i]
		h.WriteByte(byte(n.kind))
		writeUint64(&h, uint64(n.arity))
		writeUint64(&h, uint64(n.numLeaves))
		writeUint64(&h, uint64(n.numNodes))
		if n.custom != nil {
			writeUint64(&h, uint64(reflect.ValueOf(n.custom).Pointer()))
		}
		switch n.kind {
		case KindDict:
			dd := n.data.(dictData)
			h.WriteString(dd.typ.String())
			hashKeys(&h, dd.keys)
		case KindOrderedDict:
			hashKeys(&h, n.data.([]any))
		case KindDefaultDict:
			dd := n.data.(defaultDictData)
			if dd.factory != nil {
				writeUint64(&h, uint64(reflect.ValueOf(dd.factory).Pointer()))
			}
			hashKeys(&h, dd.keys)
		case KindDeque:
			if maxLen := n.data.(*int); maxLen != nil {
				writeUint64(&h, uint64(*maxLen))
			}
		case KindList, KindNamedTuple, KindStructSeq:
			h.WriteString(n.data.(reflect.Type).String())
		}
	}
	return h.Sum64()
}

func writeUint64(h *maphash.Hash, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.Write(b[:])
}

func hashKeys(h *maphash.Hash, keys []any) {
	for _, k := range keys {
		fmt.Fprintf(h, "%T=%v;", k, k)
	}
}
