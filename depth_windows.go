//go:build windows

package pytree

// MaxRecursionDepth bounds how deep the flatten engine descends. The
// default thread stack is smaller on Windows, so the bound is halved.
const MaxRecursionDepth = 2500
