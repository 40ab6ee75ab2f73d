package instrument

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/sirkon/autoctx/internal/markers"
)

// Marker is a recognized marker call.
type Marker struct {
	Call *ast.CallExpr

	// Qual is the package qualifier the marker was called through.
	Qual *ast.Ident

	// Name is the marker function name. Its position is the marker position.
	Name *ast.Ident

	PkgPath string
	Spec    markers.Spec
}

// String returns the marker as it is called: pkg.Name.
func (m Marker) String() string {
	return m.Qual.Name + "." + m.Name.Name
}

// Helper builds the expression calling the paired helper through the same
// qualifier as the marker.
func (m Marker) Helper() *ast.SelectorExpr {
	return &ast.SelectorExpr{
		X:   &ast.Ident{NamePos: m.Call.Lparen, Name: m.Qual.Name},
		Sel: &ast.Ident{NamePos: m.Call.Lparen, Name: m.Spec.Helper},
	}
}

// Arity reports whether the marker is called either with a single argument,
// try.To1(f()), or with every parameter of its kind spelled out,
// try.To1(v, err). Calls of any other shape are recognized but never
// rewritten.
func (m Marker) Arity() bool {
	return arity(m.Spec.Kind.Params(), m.Call)
}

func arity(params int, call *ast.CallExpr) bool {
	if call.Ellipsis.IsValid() {
		return false
	}

	n := len(call.Args)
	return n == 1 || (n > 0 && n == params)
}

// failure returns the argument carrying the error: the last one.
func failure(args []ast.Expr) ast.Expr {
	return args[len(args)-1]
}

// Annotated is the helper call wrapping the arguments of an instrumented
// marker: H(args…)("note").
type Annotated struct {
	Helper ast.Expr
	Args   []ast.Expr
	Note   *ast.BasicLit
}

// Current checks if the annotation already reads note.
func (a Annotated) Current(note string) bool {
	v, err := strconv.Unquote(a.Note.Value)
	return err == nil && v == note
}

// Pending is a rewrite a marker needs.
type Pending struct {
	Helper ast.Expr
	Label  string

	// Stale is set for markers carrying an annotation that does not match
	// their position anymore.
	Stale bool
}

// Apply returns the replacement of the marker call. Stale annotations are
// dropped and rebuilt around the same arguments.
func (p Pending) Apply(call *ast.CallExpr, pos Position) *ast.CallExpr {
	marker := call
	if p.Stale {
		inner := call.Args[0].(*ast.CallExpr).Fun.(*ast.CallExpr)
		marker = &ast.CallExpr{
			Fun:    call.Fun,
			Lparen: call.Lparen,
			Args:   inner.Args,
			Rparen: call.Rparen,
		}
	}

	return Rewrite(marker, p.Helper, p.Label, pos)
}

// Matcher recognizes marker calls.
type Matcher struct {
	Markers  *markers.Registry
	Resolver Resolver
}

// Match checks if call is a call of a registered marker function.
func (mt Matcher) Match(call *ast.CallExpr) (Marker, bool) {
	qual, name, pkgPath, ok := mt.qualified(call.Fun)
	if !ok {
		return Marker{}, false
	}

	spec, ok := mt.Markers.Lookup(pkgPath, name.Name)
	if !ok {
		return Marker{}, false
	}

	return Marker{
		Call:    call,
		Qual:    qual,
		Name:    name,
		PkgPath: pkgPath,
		Spec:    spec,
	}, true
}

// Pending checks what the marker located at pos needs. Markers of
// unsupported shapes and markers already annotated for pos need nothing.
func (mt Matcher) Pending(m Marker, pos Position) (Pending, bool) {
	if !m.Arity() {
		return Pending{}, false
	}

	a, ok := mt.Instrumented(m)
	if !ok {
		return Pending{
			Helper: m.Helper(),
			Label:  Classify(failure(m.Call.Args), mt.Resolver),
		}, true
	}

	label := Classify(failure(a.Args), mt.Resolver)
	if a.Current(Annotation(label, pos)) {
		return Pending{}, false
	}

	return Pending{
		Helper: a.Helper,
		Label:  label,
		Stale:  true,
	}, true
}

// Instrumented checks if the marker argument already is the helper call
// Rewrite produces, i.e. the source went through the rewriter before.
func (mt Matcher) Instrumented(m Marker) (Annotated, bool) {
	if len(m.Call.Args) != 1 || m.Call.Ellipsis.IsValid() {
		return Annotated{}, false
	}

	outer, ok := m.Call.Args[0].(*ast.CallExpr)
	if !ok || len(outer.Args) != 1 {
		return Annotated{}, false
	}
	lit, ok := outer.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return Annotated{}, false
	}

	inner, ok := outer.Fun.(*ast.CallExpr)
	if !ok || !arity(m.Spec.Kind.Params(), inner) {
		return Annotated{}, false
	}

	_, name, pkgPath, ok := mt.qualified(inner.Fun)
	if !ok || pkgPath != m.PkgPath || name.Name != m.Spec.Helper {
		return Annotated{}, false
	}

	return Annotated{
		Helper: inner.Fun,
		Args:   inner.Args,
		Note:   lit,
	}, true
}

// qualified splits pkg.Name and pkg.Name[T…] callees.
func (mt Matcher) qualified(fun ast.Expr) (qual, name *ast.Ident, pkgPath string, ok bool) {
	switch x := fun.(type) {
	case *ast.IndexExpr:
		fun = x.X
	case *ast.IndexListExpr:
		fun = x.X
	}

	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return nil, nil, "", false
	}

	qual, ok = sel.X.(*ast.Ident)
	if !ok {
		return nil, nil, "", false
	}

	pkgPath, ok = mt.Resolver.ImportPath(qual)
	if !ok {
		return nil, nil, "", false
	}

	return qual, sel.Sel, pkgPath, true
}
