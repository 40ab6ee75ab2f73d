package app

import (
	"encoding/json"

	t "github.com/sirkon/autoctx/try"
)

//autoctx:annotate
func decodeAll(items [][]byte) (res []map[string]any, err error) {
	defer t.Handle(&err)

	decode := func(data []byte) map[string]any {
		var v map[string]any
		t.To(json.Unmarshal(data, &v))
		return v
	}

	for _, item := range items {
		res = append(res, decode(item))
	}
	t.To(t.At(check(res))("check(..) @ app/case_closure_alias.go::22"))

	return res, nil
}

func check(res []map[string]any) error { return nil }
