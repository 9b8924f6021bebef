package pytree

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type point struct {
	X any
	Y any
}

// vector2 has unexported fields, so without a registration it is a
// leaf.
type vector2 struct {
	x any
	y any
}

const testNamespace = "pytree-test"

func init() {
	_, err := RegisterNode(reflect.TypeOf(vector2{}),
		func(v any) ([]any, any, []any, error) {
			vec := v.(vector2)
			return []any{vec.x, vec.y}, "vector2", []any{"x", "y"}, nil
		},
		func(aux any, children []any) (any, error) {
			return vector2{x: children[0], y: children[1]}, nil
		},
		testNamespace)
	if err != nil {
		panic(err)
	}
}

func TestFlatten(t *testing.T) {
	two := 2
	tests := []struct {
		name   string
		tree   any
		opts   []Option
		leaves []any
		spec   string
	}{
		{
			name:   "scalar",
			tree:   42,
			leaves: []any{42},
			spec:   "PyTreeSpec(*)",
		},
		{
			name:   "nested containers",
			tree:   []any{1, Tuple{2, 3}, map[string]any{"b": 4, "a": 5}},
			leaves: []any{1, 2, 3, 5, 4},
			spec:   "PyTreeSpec([*, (*, *), {'a': *, 'b': *}])",
		},
		{
			name:   "none is node",
			tree:   []any{1, nil, 2},
			leaves: []any{1, 2},
			spec:   "PyTreeSpec([*, None, *])",
		},
		{
			name:   "none is leaf",
			tree:   []any{1, nil, 2},
			opts:   []Option{NoneIsLeaf(true)},
			leaves: []any{1, nil, 2},
			spec:   "PyTreeSpec([*, *, *], NoneIsLeaf)",
		},
		{
			name:   "single element tuple",
			tree:   Tuple{1},
			leaves: []any{1},
			spec:   "PyTreeSpec((*,))",
		},
		{
			name:   "ordered dict keeps insertion order",
			tree:   OrderedDict{{Key: "b", Value: 1}, {Key: "a", Value: 2}},
			leaves: []any{1, 2},
			spec:   "PyTreeSpec(OrderedDict([('b', *), ('a', *)]))",
		},
		{
			name:   "deque with maxlen",
			tree:   Deque{Values: []any{1, 2}, MaxLen: &two},
			leaves: []any{1, 2},
			spec:   "PyTreeSpec(deque([*, *], maxlen=2))",
		},
		{
			name:   "deque unbounded",
			tree:   Deque{Values: []any{1}},
			leaves: []any{1},
			spec:   "PyTreeSpec(deque([*]))",
		},
		{
			name:   "named tuple",
			tree:   point{X: 1, Y: []any{2, 3}},
			leaves: []any{1, 2, 3},
			spec:   "PyTreeSpec(point(X=*, Y=[*, *]))",
		},
		{
			name:   "struct sequence",
			tree:   [2]int{7, 8},
			leaves: []any{7, 8},
			spec:   "PyTreeSpec([2]int(*, *))",
		},
		{
			name:   "custom node",
			tree:   vector2{x: 1, y: 2},
			opts:   []Option{WithNamespace(testNamespace)},
			leaves: []any{1, 2},
			spec:   "PyTreeSpec(CustomTreeNode(vector2['vector2'], [*, *]), namespace='pytree-test')",
		},
		{
			name:   "custom node outside namespace is a leaf",
			tree:   vector2{x: 1, y: 2},
			leaves: []any{vector2{x: 1, y: 2}},
			spec:   "PyTreeSpec(*)",
		},
		{
			name:   "typed slice",
			tree:   []int{1, 2, 3},
			leaves: []any{1, 2, 3},
			spec:   "PyTreeSpec([*, *, *])",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves, spec, err := Flatten(tt.tree, tt.opts...)
			if err != nil {
				t.Fatalf("Flatten() error: %v", err)
			}
			if !reflect.DeepEqual(leaves, tt.leaves) {
				t.Errorf("leaves = %v, want %v", leaves, tt.leaves)
			}
			if got := spec.String(); got != tt.spec {
				t.Errorf("spec = %s, want %s", got, tt.spec)
			}
			if spec.NumLeaves() != len(leaves) {
				t.Errorf("NumLeaves() = %d, want %d", spec.NumLeaves(), len(leaves))
			}
		})
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	three := 3
	trees := []any{
		1,
		nil,
		[]any{},
		[]any{1, Tuple{2, 3}, map[string]any{"b": 4, "a": 5}},
		map[string]any{"x": []any{1, nil}, "y": Tuple{2}},
		OrderedDict{{Key: "b", Value: 1}, {Key: "a", Value: []any{2, 3}}},
		Deque{Values: []any{1, Tuple{2, 3}}, MaxLen: &three},
		point{X: 1, Y: map[string]any{"k": 2}},
		[2]int{7, 8},
		[]int{1, 2, 3},
		map[int]any{3: "c", 1: "a", 2: "b"},
	}
	for _, noneIsLeaf := range []bool{false, true} {
		for _, tree := range trees {
			leaves, spec, err := Flatten(tree, NoneIsLeaf(noneIsLeaf))
			if err != nil {
				t.Fatalf("Flatten(%v) error: %v", tree, err)
			}
			got, err := spec.Unflatten(leaves)
			if err != nil {
				t.Fatalf("Unflatten(%v) error: %v", tree, err)
			}
			if !reflect.DeepEqual(got, tree) {
				t.Errorf("round trip of %#v: got %#v", tree, got)
			}
		}
	}
}

func TestFlattenCustomRoundTrip(t *testing.T) {
	tree := map[string]any{"v": vector2{x: 1, y: Tuple{2, 3}}}
	leaves, spec, err := Flatten(tree, WithNamespace(testNamespace))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]any{1, 2, 3}, leaves); d != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", d)
	}
	got, err := spec.Unflatten(leaves)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tree) {
		t.Errorf("round trip: got %#v, want %#v", got, tree)
	}
}

func TestFlattenDefaultDictRoundTrip(t *testing.T) {
	factory := func() any { return 0 }
	tree := DefaultDict{Factory: factory, Map: map[any]any{"b": 1, "a": 2}}
	leaves, spec, err := Flatten(tree)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]any{2, 1}, leaves); d != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", d)
	}
	got, err := spec.Unflatten(leaves)
	if err != nil {
		t.Fatal(err)
	}
	dd, ok := got.(DefaultDict)
	if !ok {
		t.Fatalf("got %T, want DefaultDict", got)
	}
	if !funcEqual(dd.Factory, factory) {
		t.Error("factory not preserved")
	}
	if !reflect.DeepEqual(dd.Map, tree.Map) {
		t.Errorf("map = %#v, want %#v", dd.Map, tree.Map)
	}
}

func TestFlattenDictKeyOrder(t *testing.T) {
	a := map[string]any{"b": 1, "a": 2}
	b := map[string]any{"a": 2, "b": 1}
	leavesA, specA, err := Flatten(a)
	if err != nil {
		t.Fatal(err)
	}
	leavesB, specB, err := Flatten(b)
	if err != nil {
		t.Fatal(err)
	}
	if !specA.Equal(specB) {
		t.Errorf("specs differ: %s vs %s", specA, specB)
	}
	if d := cmp.Diff(leavesA, leavesB); d != "" {
		t.Errorf("leaves differ (-a +b):\n%s", d)
	}
	if d := cmp.Diff([]any{2, 1}, leavesA); d != "" {
		t.Errorf("leaves order (-want +got):\n%s", d)
	}
}

func TestFlattenDeterminism(t *testing.T) {
	tree := map[any]any{"s": 1, 2: "two", 3.5: "f", true: "b"}
	leaves1, spec1, err := Flatten(tree)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		leaves2, spec2, err := Flatten(tree)
		if err != nil {
			t.Fatal(err)
		}
		if !spec1.Equal(spec2) {
			t.Fatalf("specs differ: %s vs %s", spec1, spec2)
		}
		if !reflect.DeepEqual(leaves1, leaves2) {
			t.Fatalf("leaves differ: %v vs %v", leaves1, leaves2)
		}
	}
}

func TestFlattenLeafPredicate(t *testing.T) {
	tree := []any{Tuple{1, 2}, []any{3}}
	leaves, spec, err := Flatten(tree, WithLeafPredicate(func(v any) (bool, error) {
		_, ok := v.(Tuple)
		return ok, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]any{Tuple{1, 2}, 3}, leaves); d != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", d)
	}
	if got := spec.String(); got != "PyTreeSpec([*, [*]])" {
		t.Errorf("spec = %s", got)
	}
}

func TestFlattenLeafPredicateError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Flatten([]any{1}, WithLeafPredicate(func(any) (bool, error) {
		return false, boom
	}))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestFlattenDepthExceeded(t *testing.T) {
	tree := any(0)
	for i := 0; i < MaxRecursionDepth+10; i++ {
		tree = []any{tree}
	}
	_, _, err := Flatten(tree)
	if !errors.Is(err, ErrRecursionDepth) {
		t.Errorf("err = %v, want ErrRecursionDepth", err)
	}
}

func TestUnflattenLeafCount(t *testing.T) {
	_, spec, err := Flatten([]any{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	for _, leaves := range [][]any{{1}, {1, 2, 3, 4}, nil} {
		if _, err := spec.Unflatten(leaves); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Unflatten(%v) err = %v, want ErrInvalidArgument", leaves, err)
		}
	}
}

func TestAllLeaves(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		opts   []Option
		want   bool
	}{
		{"scalars", []any{1, "a", 2.5}, nil, true},
		{"contains list", []any{1, []any{2}}, nil, false},
		{"nil is not a leaf", []any{nil}, nil, false},
		{"nil as leaf", []any{nil}, []Option{NoneIsLeaf(true)}, true},
		{"custom in namespace", []any{vector2{}}, []Option{WithNamespace(testNamespace)}, false},
		{"custom outside namespace", []any{vector2{}}, nil, true},
		{"empty", nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllLeaves(tt.values, tt.opts...); got != tt.want {
				t.Errorf("AllLeaves() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlattenWithPaths(t *testing.T) {
	tree := map[string]any{"a": []any{1, 2}, "b": Tuple{3}}
	paths, leaves, spec, err := FlattenWithPaths(tree)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]any{1, 2, 3}, leaves); d != "" {
		t.Fatalf("leaves mismatch (-want +got):\n%s", d)
	}
	want := []string{"$.a[0]", "$.a[1]", "$.b[0]"}
	for i, p := range paths {
		if p.String() != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, p, want[i])
		}
	}
	if spec.NumLeaves() != len(paths) {
		t.Errorf("NumLeaves() = %d, want %d", spec.NumLeaves(), len(paths))
	}
}

func TestFlattenWithPathsCustomEntries(t *testing.T) {
	paths, _, _, err := FlattenWithPaths(vector2{x: 1, y: 2}, WithNamespace(testNamespace))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"$.x", "$.y"}
	for i, p := range paths {
		if p.String() != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, p, want[i])
		}
	}
}
