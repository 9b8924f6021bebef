package pytree

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// mapEntry is one key/value pair pulled out of a Go map before the
// total-order key sort.
type mapEntry struct {
	key   any
	value any
}

// sortMapEntries orders entries by the total-order key. Tier one is the
// natural comparison (numbers, strings, bools among themselves). If any
// pair is incomparable the whole sort restarts with keys prefixed by
// their qualified type name. If that still leaves an incomparable pair,
// the final tier orders by the formatted key representation, which is
// total. Go maps carry no insertion order, so the last tier must still
// be deterministic.
func sortMapEntries(entries []mapEntry) {
	orig := slices.Clone(entries)
	if trySortEntries(entries, compareNatural) {
		return
	}
	copy(entries, orig)
	if trySortEntries(entries, compareQualified) {
		return
	}
	copy(entries, orig)
	sort.SliceStable(entries, func(i, j int) bool {
		return formatKey(entries[i].key) < formatKey(entries[j].key)
	})
}

func trySortEntries(entries []mapEntry, compare func(a, b any) (int, bool)) bool {
	ok := true
	sort.SliceStable(entries, func(i, j int) bool {
		c, cok := compare(entries[i].key, entries[j].key)
		if !cok {
			ok = false
			return false
		}
		if c == 0 {
			// Distinct keys that compare equal (1 vs 1.0) still need a
			// reproducible order.
			return formatKey(entries[i].key) < formatKey(entries[j].key)
		}
		return c < 0
	})
	return ok
}

// compareNatural compares two keys the way the host compares values of
// the same family: numbers with numbers, strings with strings, bools
// with bools. The second result is false when the keys are not
// naturally comparable.
func compareNatural(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if x == y {
			return 0, true
		}
		if !x {
			return -1, true
		}
		return 1, true
	}
	ai, af, aIsInt, aok := numericKey(a)
	bi, bf, bIsInt, bok := numericKey(b)
	if !aok || !bok {
		return 0, false
	}
	if aIsInt && bIsInt {
		return cmp.Compare(ai, bi), true
	}
	if aIsInt {
		af = float64(ai)
	}
	if bIsInt {
		bf = float64(bi)
	}
	return cmp.Compare(af, bf), true
}

// compareQualified prefixes the natural comparison with the qualified
// type name so mixed-type keys become comparable. Keys of the same type
// that are still not naturally comparable fail this tier too.
func compareQualified(a, b any) (int, bool) {
	qa, qb := qualifiedTypeName(a), qualifiedTypeName(b)
	if qa != qb {
		return strings.Compare(qa, qb), true
	}
	return compareNatural(a, b)
}

func numericKey(v any) (i int64, f float64, isInt, ok bool) {
	switch x := v.(type) {
	case int:
		return int64(x), 0, true, true
	case int8:
		return int64(x), 0, true, true
	case int16:
		return int64(x), 0, true, true
	case int32:
		return int64(x), 0, true, true
	case int64:
		return x, 0, true, true
	case uint:
		return int64(x), 0, true, true
	case uint8:
		return int64(x), 0, true, true
	case uint16:
		return int64(x), 0, true, true
	case uint32:
		return int64(x), 0, true, true
	case uint64:
		if x > 1<<62 {
			return 0, float64(x), false, true
		}
		return int64(x), 0, true, true
	case float32:
		return 0, float64(x), false, true
	case float64:
		return 0, x, false, true
	}
	return 0, 0, false, false
}

func qualifiedTypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func formatKey(v any) string {
	return fmt.Sprintf("%T=%v", v, v)
}

// sortedMapEntries pulls the entries out of a Go map value and returns
// them in total-order key order.
func sortedMapEntries(rv reflect.Value) []mapEntry {
	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, mapEntry{iter.Key().Interface(), iter.Value().Interface()})
	}
	sortMapEntries(entries)
	return entries
}

// sortedAnyMapEntries is sortedMapEntries for map[any]any without the
// reflect round-trip.
func sortedAnyMapEntries(m map[any]any) []mapEntry {
	entries := make([]mapEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, mapEntry{k, v})
	}
	sortMapEntries(entries)
	return entries
}
