package pytree

import "errors"

var (
	errInternal = errors.New("internal error")

	ErrInvalidArgument   = errors.New("invalid argument")
	ErrStructureMismatch = errors.New("structure mismatch")
	ErrRecursionDepth    = errors.New("maximum recursion depth exceeded")
)
