package pytree

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// String renders the spec in a human-readable form where leaves are
// `*` and containers use their native textual conventions, e.g.
// PyTreeSpec([*, None, {'a': *}]). The form is suffixed with
// `, NoneIsLeaf` and `, namespace='...'` when applicable.
func (ts *TreeSpec) String() string {
	agenda := make([]string, 0, len(ts.traversal))
	for i := range ts.traversal {
		n := &ts.traversal[i]
		children := agenda[len(agenda)-n.arity:]
		var repr string
		switch n.kind {
		case KindLeaf:
			agenda = append(agenda, "*")
			continue

		case KindNone:
			repr = "None"

		case KindTuple:
			s := strings.Join(children, ", ")
			if n.arity == 1 {
				s += ","
			}
			repr = "(" + s + ")"

		case KindList:
			repr = "[" + strings.Join(children, ", ") + "]"

		case KindDeque:
			repr = "[" + strings.Join(children, ", ") + "]"
			if maxLen := n.data.(*int); maxLen == nil {
				repr = "deque(" + repr + ")"
			} else {
				repr = fmt.Sprintf("deque(%s, maxlen=%d)", repr, *maxLen)
			}

		case KindDict:
			repr = "{" + joinKeyed(n.data.(dictData).keys, children) + "}"

		case KindOrderedDict:
			parts := make([]string, n.arity)
			for i, k := range n.data.([]any) {
				parts[i] = fmt.Sprintf("(%s, %s)", reprValue(k), children[i])
			}
			repr = "OrderedDict([" + strings.Join(parts, ", ") + "])"

		case KindDefaultDict:
			dd := n.data.(defaultDictData)
			repr = fmt.Sprintf("defaultdict(%s, {%s})", funcName(dd.factory), joinKeyed(dd.keys, children))

		case KindNamedTuple:
			t := n.data.(reflect.Type)
			parts := make([]string, n.arity)
			for i := range parts {
				parts[i] = fmt.Sprintf("%s=%s", t.Field(i).Name, children[i])
			}
			repr = typeName(t) + "(" + strings.Join(parts, ", ") + ")"

		case KindStructSeq:
			repr = typeName(n.data.(reflect.Type)) + "(" + strings.Join(children, ", ") + ")"

		case KindCustom:
			data := ""
			if n.data != nil {
				data = "[" + reprValue(n.data) + "]"
			}
			repr = fmt.Sprintf("CustomTreeNode(%s%s, [%s])", typeName(n.custom.typ), data, strings.Join(children, ", "))
		}
		agenda = agenda[:len(agenda)-n.arity]
		agenda = append(agenda, repr)
	}
	suffix := ""
	if ts.noneIsLeaf {
		suffix += ", NoneIsLeaf"
	}
	if ts.namespace != "" {
		suffix += fmt.Sprintf(", namespace='%s'", ts.namespace)
	}
	return "PyTreeSpec(" + agenda[len(agenda)-1] + suffix + ")"
}

func joinKeyed(keys []any, children []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", reprValue(k), children[i])
	}
	return strings.Join(parts, ", ")
}

// reprValue renders a key or auxiliary datum: strings single-quoted,
// bools capitalised, nil as None, everything else via %v.
func reprValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + strings.ReplaceAll(x, "'", `\'`) + "'"
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprintf("%v", v)
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func funcName(f func() any) string {
	if f == nil {
		return "None"
	}
	if fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer()); fn != nil {
		name := fn.Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	return "func"
}
