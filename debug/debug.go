package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Flatten  bool
	Registry bool
	Pickle   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Flatten = boolEnv("PYTREE_DEBUG_FLATTEN")
	d.Registry = boolEnv("PYTREE_DEBUG_REGISTRY")
	d.Pickle = boolEnv("PYTREE_DEBUG_PICKLE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Flatten() bool {
	return d.Flatten
}
func Registry() bool {
	return d.Registry
}
func Pickle() bool {
	return d.Pickle
}
