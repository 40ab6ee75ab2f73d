package app

import (
	"strconv"

	"github.com/sirkon/autoctx/try"
)

//autoctx:annotate
func sum(a, b string) (n int, err error) {
	defer try.Handle(&err)

	x := try.To1(try.At1(strconv.Atoi(a))("strconv::Atoi(..) @ app/case_stale.go::11"))
	y := try.To1(try.At1(strconv.Atoi(b))("strconv::Atoi(..) @ app/case_stale.go::14"))
	v, perr := strconv.ParseInt(a, 10, 64)
	z := try.To1(v, perr)
	w := try.To1(try.At1(parse(b))("parse(..) @ app/other.go::17"))

	return x + y + int(z) + w, nil
}

func parse(s string) (int, error) { return len(s), nil }
