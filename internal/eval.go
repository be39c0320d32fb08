package internal

import (
	"errors"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ErrNotInteger is returned when an expression does not evaluate to
// a 64-bit integer.
var ErrNotInteger = errors.New("not an integer")

// Evaluate computes a Starlark expression, with globals as predeclared
// integers.
func Evaluate(expr string, globals map[string]int64) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := make(starlark.StringDict, len(globals))
	for key, val := range globals {
		pred[key] = starlark.MakeInt64(val)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrNotInteger
		return
	}

	value, ok = st_int.Int64()
	if !ok {
		err = ErrNotInteger
		return
	}

	return
}
