package instrument

import (
	"go/ast"
)

// Item is a top-level unit handed over for instrumentation.
type Item interface {
	isItem()
}

// FuncItem is a single function or method declaration.
type FuncItem struct {
	Decl *ast.FuncDecl
}

// MethodSetItem groups the members of an annotated type found in one file:
// its methods and the declarations of the type itself.
//
//	//autoctx:annotate
//	type Store struct{ … }       // passes through
//
//	func (s *Store) Get(…) …     // instrumented
//	func (s *Store) Put(…) …     // instrumented
type MethodSetItem struct {
	// Type is the receiver base type name.
	Type    string
	Members []ast.Decl
}

// OtherItem is a declaration that is never rewritten.
type OtherItem struct {
	Decl ast.Decl
}

func (*FuncItem) isItem()      {}
func (*MethodSetItem) isItem() {}
func (*OtherItem) isItem()     {}

// Funcs returns function declarations contained in the item.
func Funcs(item Item) []*ast.FuncDecl {
	switch it := item.(type) {
	case *FuncItem:
		return []*ast.FuncDecl{it.Decl}
	case *MethodSetItem:
		var res []*ast.FuncDecl
		for _, m := range it.Members {
			if fn, ok := m.(*ast.FuncDecl); ok {
				res = append(res, fn)
			}
		}
		return res
	default:
		return nil
	}
}
