package c

import (
	"strconv"

	"example.com/must"
)

//autoctx:annotate
func Parse(s string) int {
	must.Do(s, nil, nil) // want `must\.Do must be called with a single argument or with 1 arguments`
	return must.Do1(strconv.Atoi(s)) // want `marker must\.Do1 is not annotated, want "strconv::Atoi\(\.\.\) @ .*c/c\.go::12"`
}
