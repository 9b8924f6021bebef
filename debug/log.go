package debug

import (
	"fmt"
	"os"
)

// Logf writes one debug line to stderr.
func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
