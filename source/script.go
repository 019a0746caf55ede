// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package source

import (
	"math"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	SCRIPT_MAX_STEPS = 1 << 20 // Starlark execution steps allowed per value.
)

// Script evaluates a Starlark expression for every handoff. The expression
// sees two predeclared integers: i, the zero-based handoff index, and seed.
//
//	src, _ := source.NewScript("(i * 1103515245 + seed) % 2147483648", 12345)
type Script struct {
	Expr string // Expression text.
	Seed int64  // Value of the predeclared seed.

	prog *starlark.Program
}

var _ Source = (*Script)(nil)

func isScriptPredeclared(name string) bool {
	return name == "i" || name == "seed"
}

// NewScript compiles expr. Syntax and name resolution errors are reported
// here rather than on the first Next.
func NewScript(expr string, seed int64) (s *Script, err error) {
	opts := syntax.FileOptions{}
	src := "rc=" + expr + "\n"
	_, prog, err := starlark.SourceProgramOptions(&opts, "expr", src, isScriptPredeclared)
	if err != nil {
		err = &ErrScript{Expr: expr, Err: err}
		return
	}

	s = &Script{
		Expr: expr,
		Seed: seed,
		prog: prog,
	}

	return
}

// Next evaluates the expression for index.
func (s *Script) Next(index int) (value int32, err error) {
	thread := starlark.Thread{Name: "source"}
	thread.SetMaxExecutionSteps(SCRIPT_MAX_STEPS)

	pred := starlark.StringDict{
		"i":    starlark.MakeInt(index),
		"seed": starlark.MakeInt64(s.Seed),
	}

	dict, err := s.prog.Init(&thread, pred)
	if err != nil {
		err = &ErrScript{Expr: s.Expr, Err: err}
		return
	}

	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrScriptResult("None")
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrScriptResult(st_rc.String())
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxInt32 {
		err = ErrScriptResult(st_int.String())
		return
	}

	value = int32(st_int64)
	return
}
