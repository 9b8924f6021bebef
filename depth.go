//go:build !windows

package pytree

// MaxRecursionDepth bounds how deep the flatten engine descends.
// Exceeding it is a recoverable failure that produces no spec; cyclic
// input manifests as this error.
const MaxRecursionDepth = 5000
