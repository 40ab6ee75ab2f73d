package instrument

import (
	"go/ast"
	"go/types"
	"path"
	"strconv"
	"strings"
)

// Resolver answers the questions about identifiers that syntax alone cannot.
type Resolver interface {
	// ImportPath returns the path of the package id refers to, if it does.
	ImportPath(id *ast.Ident) (string, bool)

	// Instantiates reports whether an index expression in callee position
	// is a generic function instantiation rather than indexing.
	Instantiates(x ast.Expr) bool
}

// FileResolver resolves package names through the imports of a single file.
//
// Local declarations shadowing an import name are seen through the parser's
// identifier resolution, so files must be parsed without SkipObjectResolution.
// Multi-index expressions (F[A, B]) and single index expressions over
// package qualified names (pkg.F[T]) are taken as instantiations. Indexing of
// exported package variables is misread this way, which is rare in callee
// position.
type FileResolver struct {
	imports map[string]string
}

// NewFileResolver collects named imports of the file. Blank and dot imports
// are skipped.
func NewFileResolver(file *ast.File) *FileResolver {
	r := &FileResolver{imports: make(map[string]string, len(file.Imports))}
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := ImportName(p)
		if spec.Name != nil {
			switch spec.Name.Name {
			case "_", ".":
				continue
			}
			name = spec.Name.Name
		}
		r.imports[name] = p
	}

	return r
}

func (r *FileResolver) ImportPath(id *ast.Ident) (string, bool) {
	if id.Obj != nil {
		return "", false
	}

	p, ok := r.imports[id.Name]
	return p, ok
}

func (r *FileResolver) Instantiates(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.IndexListExpr:
		return true
	case *ast.IndexExpr:
		sel, ok := x.X.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok {
			return false
		}
		_, ok = r.ImportPath(id)
		return ok
	default:
		return false
	}
}

// ImportName guesses the package name of an import path without loading it.
//
//	github.com/sirkon/autoctx/try → try
//	github.com/bmatcuk/doublestar/v4 → doublestar
//	gopkg.in/yaml.v3 → yaml
//	github.com/mattn/go-isatty → isatty
func ImportName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		if dir := path.Dir(importPath); dir != "." {
			base = path.Base(dir)
		}
	}

	if i := strings.Index(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, "-go")

	return strings.ReplaceAll(base, "-", "_")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

// TypesResolver resolves identifiers through type-checker output.
type TypesResolver struct {
	Info *types.Info
}

func (r TypesResolver) ImportPath(id *ast.Ident) (string, bool) {
	pn, ok := r.Info.Uses[id].(*types.PkgName)
	if !ok {
		return "", false
	}

	return pn.Imported().Path(), true
}

func (r TypesResolver) Instantiates(x ast.Expr) bool {
	var fun ast.Expr
	switch x := x.(type) {
	case *ast.IndexExpr:
		fun = x.X
	case *ast.IndexListExpr:
		fun = x.X
	default:
		return false
	}

	var id *ast.Ident
	switch f := fun.(type) {
	case *ast.Ident:
		id = f
	case *ast.SelectorExpr:
		id = f.Sel
	default:
		return false
	}

	_, ok := r.Info.Instances[id]
	return ok
}
