package instrument

import (
	"go/ast"
	"go/token"

	"github.com/sirkon/autoctx/internal/markers"
)

// Instrumenter rewrites markers of items taken from one file.
type Instrumenter struct {
	Fset *token.FileSet

	// File is the module relative slash separated path used in annotations.
	File string

	Resolver Resolver
	Markers  *markers.Registry

	// Trace is called for every rewritten marker if set.
	Trace func(Site)

	// Unsupported is called for every marker left alone because of its
	// arguments if set.
	Unsupported func(Marker)
}

// Process rewrites markers in the bodies of the item and returns it along
// with the number of rewritten markers. Items are modified in place.
func (in *Instrumenter) Process(item Item) (Item, int) {
	switch it := item.(type) {
	case *FuncItem:
		return it, in.walk(it.Decl)

	case *MethodSetItem:
		var count int
		for _, member := range it.Members {
			fn, ok := member.(*ast.FuncDecl)
			if !ok {
				continue
			}
			count += in.walk(fn)
		}
		return it, count

	default:
		return item, 0
	}
}

func (in *Instrumenter) walk(fn *ast.FuncDecl) int {
	if fn == nil || fn.Body == nil {
		return 0
	}

	matcher := Matcher{
		Markers:  in.Markers,
		Resolver: in.Resolver,
	}

	w := NewWalker(matcher, in.Fset, in.File, in.Trace)
	w.Unsupported = in.Unsupported

	return w.Walk(fn.Body)
}
