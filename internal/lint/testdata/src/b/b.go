package b

import . "github.com/sirkon/autoctx/try"

//autoctx:annotate
func Parse(s string) (n int, err error) {
	defer Handle(&err)
	return To1(atoi(s)), nil // want `dot-imported marker To1 cannot be annotated`
}

func atoi(s string) (int, error) { return len(s), nil }
