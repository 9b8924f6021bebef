package pytree

import (
	"fmt"
	"strconv"
	"strings"
)

// Path locates one leaf within a tree. Components are integers for
// sequence kinds, keys for mapping kinds, and the registered entries
// for custom nodes that supply them.
type Path []any

// Child returns p extended by one component. The receiver is not
// modified.
func (p Path) Child(component any) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = component
	return out
}

// String renders the path in object-path syntax rooted at $:
// "$", "$.a", "$[0].b". Field components that need quoting are
// rendered in bracket form.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, c := range p {
		switch x := c.(type) {
		case int:
			b.WriteString("[")
			b.WriteString(strconv.Itoa(x))
			b.WriteString("]")
		case string:
			if pathQuoteField(x) {
				fmt.Fprintf(&b, "[%s]", strconv.Quote(x))
			} else {
				b.WriteString(".")
				b.WriteString(x)
			}
		default:
			fmt.Fprintf(&b, "[%v]", x)
		}
	}
	return b.String()
}

// pathQuoteField reports whether a field component cannot appear after
// a dot unquoted.
func pathQuoteField(f string) bool {
	if f == "" {
		return true
	}
	return strings.ContainsAny(f, " .[]{}'\"\t\n")
}
