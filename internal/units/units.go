// Package units splits files into the items handed over to the instrumenter.
//
// Functions are instrumented when their doc comment carries the directive
//
//	//autoctx:annotate
//
// A directive on a type declaration annotates every method of the type
// declared anywhere in the package. Methods are grouped per file.
package units

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/sirkon/autoctx/internal/instrument"
	"github.com/sirkon/autoctx/internal/rules"
)

const (
	directivePrefix = "//autoctx:"
	verbAnnotate    = "annotate"
)

// Finding is a misplaced or misspelled directive.
type Finding struct {
	Rule    rules.Rule
	Pos     token.Pos
	Message string
}

// Collector knows annotated declarations of a single package.
type Collector struct {
	all      bool
	types    map[string]struct{}
	docs     map[*ast.CommentGroup]struct{}
	findings []Finding
}

// NewCollector scans files of one package. With all set every function
// declaration is treated as annotated.
func NewCollector(all bool, files []*ast.File) *Collector {
	c := &Collector{
		all:   all,
		types: map[string]struct{}{},
		docs:  map[*ast.CommentGroup]struct{}{},
	}

	for _, file := range files {
		c.scanDecls(file)
	}
	for _, file := range files {
		c.scanComments(file)
	}

	return c
}

// Findings returns directive problems found in the package.
func (c *Collector) Findings() []Finding {
	return c.findings
}

// Annotated checks if methods of the type are instrumented.
func (c *Collector) Annotated(typeName string) bool {
	_, ok := c.types[typeName]
	return ok
}

// Items splits file declarations into items in source order. Method set
// items take the place of their first member.
func (c *Collector) Items(file *ast.File) []instrument.Item {
	var res []instrument.Item
	sets := map[string]*instrument.MethodSetItem{}
	methodSet := func(name string) *instrument.MethodSetItem {
		if set, ok := sets[name]; ok {
			return set
		}

		set := &instrument.MethodSetItem{Type: name}
		sets[name] = set
		res = append(res, set)
		return set
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if name := ReceiverType(d); name != "" && c.Annotated(name) {
				set := methodSet(name)
				set.Members = append(set.Members, d)
				continue
			}

			if c.all || hasAnnotate(d.Doc) {
				res = append(res, &instrument.FuncItem{Decl: d})
				continue
			}

		case *ast.GenDecl:
			if name := c.annotatedType(d); name != "" {
				set := methodSet(name)
				set.Members = append(set.Members, d)
				continue
			}
		}

		res = append(res, &instrument.OtherItem{Decl: decl})
	}

	return res
}

// ReceiverType returns the base type name of a method receiver or an empty
// string for plain functions.
func ReceiverType(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}

	typ := fn.Recv.List[0].Type
	for {
		switch t := typ.(type) {
		case *ast.StarExpr:
			typ = t.X
		case *ast.ParenExpr:
			typ = t.X
		case *ast.IndexExpr:
			typ = t.X
		case *ast.IndexListExpr:
			typ = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func (c *Collector) scanDecls(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			c.docs[d.Doc] = struct{}{}

		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}

			c.docs[d.Doc] = struct{}{}
			declared := hasAnnotate(d.Doc)
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				c.docs[ts.Doc] = struct{}{}
				if declared || hasAnnotate(ts.Doc) {
					c.types[ts.Name.Name] = struct{}{}
				}
			}
		}
	}
	delete(c.docs, nil)
}

// scanComments reports directives outside of function and type docs and
// unknown directive verbs.
func (c *Collector) scanComments(file *ast.File) {
	for _, group := range file.Comments {
		_, isDoc := c.docs[group]
		for _, comment := range group.List {
			verb, ok := directive(comment.Text)
			if !ok {
				continue
			}

			switch {
			case verb != verbAnnotate:
				c.findings = append(c.findings, Finding{
					Rule:    rules.UnknownDirective(),
					Pos:     comment.Slash,
					Message: "unknown directive " + directivePrefix + verb,
				})
			case !isDoc:
				c.findings = append(c.findings, Finding{
					Rule:    rules.DirectiveOnNonFunction(),
					Pos:     comment.Slash,
					Message: "annotate directive is not attached to a function or type declaration",
				})
			}
		}
	}
}

func (c *Collector) annotatedType(d *ast.GenDecl) string {
	if d.Tok != token.TYPE {
		return ""
	}

	for _, spec := range d.Specs {
		name := spec.(*ast.TypeSpec).Name.Name
		if c.Annotated(name) {
			return name
		}
	}

	return ""
}

func hasAnnotate(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}

	for _, comment := range doc.List {
		if verb, ok := directive(comment.Text); ok && verb == verbAnnotate {
			return true
		}
	}

	return false
}

func directive(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, directivePrefix)
	if !ok {
		return "", false
	}

	verb, _, _ := strings.Cut(rest, " ")
	return strings.TrimSpace(verb), true
}
