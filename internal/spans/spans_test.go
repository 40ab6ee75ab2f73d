package spans

import (
	"go/token"
	"testing"
)

func TestIndexDepthPattern(t *testing.T) {
	x := New[string]()

	if _, ok := x.Lookup(0); ok {
		t.Fatal("nothing was expected at pos 0 right now")
	}

	x.Add("ground", 0, 200)

	if v, ok := x.Lookup(10); !ok || v != "ground" {
		t.Fatalf("ground was expected at pos 10, got %q", v)
	}

	x.Add("mid1", 10, 90)
	x.Add("mid11", 20, 30)
	x.Add("mid12", 40, 80)
	x.Add("mid13", 85, 88)
	x.Add("mid2", 110, 190)
	x.Add("mid21", 120, 130)

	type test struct {
		name  string
		pos   token.Pos
		isnil bool
	}
	testingFunc := func(tt test) func(t *testing.T) {
		return func(t *testing.T) {
			v, ok := x.Lookup(tt.pos)
			if !ok && !tt.isnil {
				t.Fatalf("span %q was not found at position %d", tt.name, tt.pos)
			}
			if ok && tt.isnil {
				t.Fatalf("no span was expected at position %d, got %q", tt.pos, v)
			}
			if ok && v != tt.name {
				t.Fatalf("span %q was expected, got %q at position %d", tt.name, v, tt.pos)
			}
		}
	}

	tests := []test{
		{name: "ground", pos: 0},
		{name: "ground", pos: 5},
		{name: "ground", pos: 200},
		{name: "mid1", pos: 90},
		{name: "mid11", pos: 25},
		{name: "mid12", pos: 41},
		{name: "mid12", pos: 79},
		{name: "mid13", pos: 86},
		{name: "ground", pos: 100},
		{name: "mid2", pos: 115},
		{name: "mid21", pos: 125},
		{name: "on-the-left", pos: -1, isnil: true},
		{name: "on-the-right", pos: 201, isnil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, testingFunc(tt))
	}

	x.Add("underground", -10, 300)
	tests = []test{
		{name: "underground", pos: -5},
		{name: "underground", pos: 250},
		{name: "ground", pos: 2},
		{name: "mid21", pos: 121},
	}
	for _, tt := range tests {
		t.Run(tt.name, testingFunc(tt))
	}

	if x.Len() != 8 {
		t.Fatalf("8 spans were expected, got %d", x.Len())
	}
}

func TestIndexPartialOverlap(t *testing.T) {
	x := New[int]()
	x.Add(1, 10, 20)

	defer func() {
		if recover() == nil {
			t.Fatal("partial overlap must panic")
		}
	}()
	x.Add(2, 15, 25)
}
