package instrument

import (
	"go/ast"
	"go/token"
	"slices"
	"strconv"
)

// Position locates a marker in the original source.
type Position struct {
	// File is a slash separated path relative to the module root.
	File string

	// Line is the 1-based line of the marker function name.
	Line int
}

// Annotation renders the note attached to failures passing the marker.
func Annotation(label string, pos Position) string {
	return label + " @ " + pos.File + "::" + strconv.Itoa(pos.Line)
}

// Rewrite returns the instrumented replacement of marker:
//
//	M(x)       → M(H(x)("label @ file::line"))
//	M(v, err)  → M(H(v, err)("label @ file::line"))
//
// where H is the helper expression. Arguments are reused as is and marker
// itself is left untouched.
func Rewrite(marker *ast.CallExpr, helper ast.Expr, label string, pos Position) *ast.CallExpr {
	note := &ast.BasicLit{
		Kind:  token.STRING,
		Value: strconv.Quote(Annotation(label, pos)),
	}

	annotated := &ast.CallExpr{
		Fun: &ast.CallExpr{
			Fun:  helper,
			Args: slices.Clone(marker.Args),
		},
		Args: []ast.Expr{note},
	}

	return &ast.CallExpr{
		Fun:    marker.Fun,
		Lparen: marker.Lparen,
		Args:   []ast.Expr{annotated},
		Rparen: marker.Rparen,
	}
}
