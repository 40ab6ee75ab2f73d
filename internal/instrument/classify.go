package instrument

import (
	"go/ast"
)

// Placeholder labels every expression shape without a dedicated rule.
const Placeholder = "(.. some expr ..)"

const pathSeparator = "::"

// Classify returns the provenance label of a marker argument:
//
//	s.Close()          → .Close()
//	s.Get(key)         → .Get(..)
//	os.Open(name)      → os::Open(..)
//	build()            → build()
//	Parse[K, V](data)  → Parse(..)
//	err                → err
//	io.EOF             → io::EOF
//	pair[0], (f)(x), … → (.. some expr ..)
//
// Arguments are never rendered, only their presence.
func Classify(expr ast.Expr, r Resolver) string {
	switch x := expr.(type) {
	case *ast.CallExpr:
		return classifyCall(x, r)
	case *ast.Ident, *ast.SelectorExpr:
		if p, ok := renderPath(x, r); ok {
			return p
		}
	}

	return Placeholder
}

func classifyCall(call *ast.CallExpr, r Resolver) string {
	args := ""
	if len(call.Args) > 0 {
		args = ".."
	}

	fun := uninstantiate(call.Fun, r)
	if sel, ok := fun.(*ast.SelectorExpr); ok && !isPackage(sel.X, r) {
		return "." + sel.Sel.Name + "(" + args + ")"
	}

	p, ok := renderPath(fun, r)
	if !ok {
		return Placeholder
	}

	return p + "(" + args + ")"
}

// renderPath renders an identifier or a package qualified identifier.
func renderPath(expr ast.Expr, r Resolver) (string, bool) {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name, true
	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok || !isPackage(pkg, r) {
			return "", false
		}
		return pkg.Name + pathSeparator + x.Sel.Name, true
	default:
		return "", false
	}
}

// uninstantiate drops instantiation arguments off a generic callee.
func uninstantiate(fun ast.Expr, r Resolver) ast.Expr {
	if !r.Instantiates(fun) {
		return fun
	}

	switch x := fun.(type) {
	case *ast.IndexExpr:
		return x.X
	case *ast.IndexListExpr:
		return x.X
	default:
		return fun
	}
}

func isPackage(expr ast.Expr, r Resolver) bool {
	id, ok := expr.(*ast.Ident)
	if !ok {
		return false
	}

	_, ok = r.ImportPath(id)
	return ok
}
