package a

import (
	"strconv"

	"github.com/sirkon/autoctx/try"
)

//autoctx:annotate
func Parse(s string) (n int, err error) {
	defer try.Handle(&err)

	n = try.To1(strconv.Atoi(s)) // want `marker try\.To1 is not annotated, want "strconv::Atoi\(\.\.\) @ .*a/a\.go::13"`
	try.To(check(n))             // want `marker try\.To is not annotated, want "check\(\.\.\) @ .*a/a\.go::14"`
	m := try.To1(try.At1(strconv.Atoi(s))("strconv::Atoi(..) @ a/a.go::15")) // want `annotation of marker try\.To1 is stale, want "strconv::Atoi\(\.\.\) @ .*a/a\.go::15"`
	v, e := strconv.Atoi(s)
	k := try.To1(strconv.Atoi(strconv.Itoa(try.To1(strconv.Atoi(s))))) // want `marker try\.To1 is not annotated` `marker try\.To1 is not annotated`
	_ = try.To1(v, e)                                                   // want `marker try\.To1 is not annotated, want "e @ .*a/a\.go::18"`
	w := try.To1(try.At1(strconv.Atoi(s))("strconv::Atoi(..) @ internal/lint/testdata/src/a/a.go::19"))
	return n + m + k + w, nil
}

func check(n int) error { return nil }

func plain(s string) int {
	return try.To1(strconv.Atoi(s))
}

//autoctx:annotate // want `annotate directive is not attached to a function or type declaration`
var limit = 10

//autoctx:anotate // want `unknown directive //autoctx:anotate`
func typo() {}

//autoctx:annotate
type Store struct{}

func (s *Store) Load(v string) (n int, err error) {
	defer try.Handle(&err)
	return try.To1(strconv.Atoi(v)), nil // want `marker try\.To1 is not annotated, want "strconv::Atoi\(\.\.\) @ .*a/a\.go::40"`
}
