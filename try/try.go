// Package try provides fallible-marker functions: each evaluates to the
// success value of its argument and aborts the enclosing function when the
// argument carries an error.
//
// A function using markers declares a named error result and defers [Handle]:
//
//	func load(name string) (cfg *Config, err error) {
//		defer try.Handle(&err)
//
//		data := try.To1(os.ReadFile(name))
//		try.To(json.Unmarshal(data, &cfg))
//		return cfg, nil
//	}
//
// The autoctx rewriter routes the argument of every marker through the paired
// At helper, so the failure gains a provenance note before it propagates:
//
//	data := try.To1(try.At1(os.ReadFile(name))("os::ReadFile(..) @ config/load.go::12"))
package try

import (
	"github.com/sirkon/autoctx/errctx"
)

// failure is the panic value a marker aborts with.
type failure struct {
	err error
}

// To aborts the enclosing function with err when it is not nil.
func To(err error) {
	if err != nil {
		panic(failure{err: err})
	}
}

// To1 returns v or aborts with err.
func To1[T any](v T, err error) T {
	To(err)
	return v
}

// To2 returns a and b or aborts with err.
func To2[A, B any](a A, b B, err error) (A, B) {
	To(err)
	return a, b
}

// To3 returns a, b and c or aborts with err.
func To3[A, B, C any](a A, b B, c C, err error) (A, B, C) {
	To(err)
	return a, b, c
}

// Handle stores the error a marker aborted with into *errp. It must be
// deferred directly. Panics not raised by markers are re-raised.
func Handle(errp *error) {
	switch r := recover().(type) {
	case nil:
	case failure:
		*errp = r.err
	default:
		panic(r)
	}
}

// At delays annotating err until the note is known.
func At(err error) func(note string) error {
	return func(note string) error {
		return errctx.Wrap(err, note)
	}
}

// At1 is At for a (value, error) pair.
func At1[T any](v T, err error) func(note string) (T, error) {
	return func(note string) (T, error) {
		return v, errctx.Wrap(err, note)
	}
}

// At2 is At for a (value, value, error) triple.
func At2[A, B any](a A, b B, err error) func(note string) (A, B, error) {
	return func(note string) (A, B, error) {
		return a, b, errctx.Wrap(err, note)
	}
}

// At3 is At for three values and an error.
func At3[A, B, C any](a A, b B, c C, err error) func(note string) (A, B, C, error) {
	return func(note string) (A, B, C, error) {
		return a, b, c, errctx.Wrap(err, note)
	}
}
