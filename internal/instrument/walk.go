package instrument

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"
)

// Site describes one rewritten marker.
type Site struct {
	Marker string
	Label  string
	Pos    Position

	// Stale is set when an outdated annotation was replaced.
	Stale bool
}

// Walker rewrites every marker reachable from a node.
type Walker struct {
	matcher Matcher
	fset    *token.FileSet
	file    string
	trace   func(Site)

	// Unsupported is called for markers of shapes that cannot be rewritten
	// if set.
	Unsupported func(Marker)

	pending map[*ast.CallExpr]pendingSite
	count   int
}

type pendingSite struct {
	rewrite Pending
	site    Site
}

// NewWalker creates a walker labelling markers with file as the source path.
// trace may be nil.
func NewWalker(matcher Matcher, fset *token.FileSet, file string, trace func(Site)) *Walker {
	return &Walker{
		matcher: matcher,
		fset:    fset,
		file:    file,
		trace:   trace,
	}
}

// Walk rewrites markers under root in place and returns how many were
// rewritten.
//
// Markers are labelled on the way down, before anything changes, and replaced
// on the way up, once the markers nested in their arguments are done.
// Replacement nodes are not walked again. Annotated markers whose note does
// not match their current position are annotated anew.
func (w *Walker) Walk(root ast.Node) int {
	w.pending = make(map[*ast.CallExpr]pendingSite)
	w.count = 0

	astutil.Apply(root, w.pre, w.post)

	return w.count
}

func (w *Walker) pre(c *astutil.Cursor) bool {
	call, ok := c.Node().(*ast.CallExpr)
	if !ok {
		return true
	}

	m, ok := w.matcher.Match(call)
	if !ok {
		return true
	}
	if !m.Arity() {
		if w.Unsupported != nil {
			w.Unsupported(m)
		}
		return true
	}

	pos := w.position(m.Name.Pos())
	p, ok := w.matcher.Pending(m, pos)
	if !ok {
		return true
	}

	w.pending[call] = pendingSite{
		rewrite: p,
		site: Site{
			Marker: m.String(),
			Label:  p.Label,
			Pos:    pos,
			Stale:  p.Stale,
		},
	}

	return true
}

func (w *Walker) post(c *astutil.Cursor) bool {
	call, ok := c.Node().(*ast.CallExpr)
	if !ok {
		return true
	}

	p, ok := w.pending[call]
	if !ok {
		return true
	}
	delete(w.pending, call)

	c.Replace(p.rewrite.Apply(call, p.site.Pos))
	w.count++
	if w.trace != nil {
		w.trace(p.site)
	}

	return true
}

func (w *Walker) position(pos token.Pos) Position {
	res := Position{File: w.file}
	if w.fset != nil && pos.IsValid() {
		res.Line = w.fset.Position(pos).Line
	}

	return res
}
