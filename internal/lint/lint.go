// Package lint reports fallible markers left without provenance annotation.
package lint

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/sirkon/autoctx/internal/config"
	"github.com/sirkon/autoctx/internal/instrument"
	"github.com/sirkon/autoctx/internal/markers"
	"github.com/sirkon/autoctx/internal/modroot"
	"github.com/sirkon/autoctx/internal/rules"
	"github.com/sirkon/autoctx/internal/spans"
	"github.com/sirkon/autoctx/internal/units"
)

const doc = `autoctx reports fallible markers in annotated functions that carry no provenance annotation

Functions marked with the //autoctx:annotate directive, and methods of types
marked with it, must have every try.To* marker routed through its try.At*
helper. Annotations that do not match the marker position anymore are
reported as stale. Suggested fixes insert the annotation autoctx rewrite
would produce.

Custom markers are taken from the .autoctx.yaml file at the module root, or
from the file given with -config.`

// Analyzer is the main entry point for the linter
var Analyzer = &analysis.Analyzer{
	Name:     "autoctx",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var (
	all        bool
	configPath string
)

func init() {
	Analyzer.Flags.BoolVar(&all, "all", false, "check every function, not only annotated ones")
	Analyzer.Flags.StringVar(&configPath, "config", "", "configuration `file`, "+config.FileName+" at the module root by default")
}

func run(pass *analysis.Pass) (any, error) {
	if len(pass.Files) == 0 {
		return nil, nil
	}

	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	cfg, err := loadConfig(pass.Fset.Position(pass.Files[0].Pos()).Filename)
	if err != nil {
		return nil, err
	}

	collector := units.NewCollector(all || cfg.All, pass.Files)
	for _, f := range collector.Findings() {
		report(pass, f.Rule, f.Pos, f.Message)
	}

	annotated := spans.New[*ast.FuncDecl]()
	for _, file := range pass.Files {
		for _, item := range collector.Items(file) {
			for _, fn := range instrument.Funcs(item) {
				annotated.Add(fn, fn.Pos(), fn.End())
			}
		}
	}
	if annotated.Len() == 0 {
		return nil, nil
	}

	reg := cfg.Registry()
	c := &checker{
		pass:    pass,
		markers: reg,
		matcher: instrument.Matcher{
			Markers:  reg,
			Resolver: instrument.TypesResolver{Info: pass.TypesInfo},
		},
	}

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	pector.Preorder(nodeFilter, func(node ast.Node) {
		call := node.(*ast.CallExpr) // No need to assert check since we only get call exprs.

		if _, ok := annotated.Lookup(call.Pos()); !ok {
			return
		}

		c.checkCall(call)
	})

	return nil, nil
}

type checker struct {
	pass    *analysis.Pass
	markers *markers.Registry
	matcher instrument.Matcher
}

// checkCall we are doing:
//
//   - Markers called through a package qualifier must have their arguments
//     routed through the paired helper, with the annotation matching the
//     marker position. Fix is suggested unless some marker nested in the
//     arguments needs a rewrite as well.
//   - Markers must take either a single argument or every parameter of
//     their kind.
//   - Dot-imported markers cannot be annotated at all.
func (c *checker) checkCall(call *ast.CallExpr) {
	m, ok := c.matcher.Match(call)
	if !ok {
		c.checkUnqualified(call)
		return
	}

	name := m.String()
	if !m.Arity() {
		report(
			c.pass,
			rules.MarkerArity(),
			m.Name.Pos(),
			name+" must be called with a single argument or with "+strconv.Itoa(m.Spec.Kind.Params())+" arguments",
		)
		return
	}

	pos := c.position(m)
	p, ok := c.matcher.Pending(m, pos)
	if !ok {
		return
	}

	note := `"` + instrument.Annotation(p.Label, pos) + `"`
	rule := rules.MissingProvenance()
	message := "marker " + name + " is not annotated, want " + note
	if p.Stale {
		rule = rules.StaleProvenance()
		message = "annotation of marker " + name + " is stale, want " + note
	}

	diag := analysis.Diagnostic{
		Pos:      m.Name.Pos(),
		End:      call.End(),
		Category: rule.Code(),
		Message:  message,
	}

	if !c.hasPending(call.Args) {
		var buf bytes.Buffer
		if err := format.Node(&buf, c.pass.Fset, p.Apply(call, pos)); err == nil {
			diag.SuggestedFixes = []analysis.SuggestedFix{
				{
					Message: "Annotate " + name + " arguments",
					TextEdits: []analysis.TextEdit{
						{
							Pos:     call.Pos(),
							End:     call.End(),
							NewText: buf.Bytes(),
						},
					},
				},
			}
		}
	}

	c.pass.Report(diag)
}

// position locates the marker for its annotation.
func (c *checker) position(m instrument.Marker) instrument.Position {
	return instrument.Position{
		File: relPath(c.pass.Fset.Position(m.Call.Pos()).Filename),
		Line: c.pass.Fset.Position(m.Name.Pos()).Line,
	}
}

func (c *checker) checkUnqualified(call *ast.CallExpr) {
	if _, ok := call.Fun.(*ast.Ident); !ok {
		return
	}

	fn := typeutil.StaticCallee(c.pass.TypesInfo, call)
	if fn == nil || fn.Pkg() == nil {
		return
	}

	if _, ok := c.markers.Lookup(fn.Pkg().Path(), fn.Name()); !ok {
		return
	}

	report(c.pass, rules.MissingProvenance(), call.Pos(), "dot-imported marker "+fn.Name()+" cannot be annotated, import its package by name")
}

// hasPending checks if exprs hold a marker needing a rewrite.
func (c *checker) hasPending(exprs []ast.Expr) bool {
	var found bool
	for _, expr := range exprs {
		ast.Inspect(expr, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || found {
				return !found
			}

			if m, ok := c.matcher.Match(call); ok {
				_, found = c.matcher.Pending(m, c.position(m))
			}
			return !found
		})
	}

	return found
}

func report(pass *analysis.Pass, rule rules.Rule, pos token.Pos, message string) {
	pass.Report(analysis.Diagnostic{
		Pos:      pos,
		Category: rule.Code(),
		Message:  message,
	})
}

var (
	modulesLock sync.Mutex
	modules     = map[string]modroot.Module{}

	configsLock sync.Mutex
	configs     = map[string]*config.Config{}
)

// relPath returns the module relative path of a file, or its base name when
// it is not inside a module.
func relPath(filename string) string {
	mod, ok := module(filepath.Dir(filename))
	if !ok {
		return filepath.Base(filename)
	}

	return mod.Rel(filename)
}

func module(dir string) (modroot.Module, bool) {
	modulesLock.Lock()
	mod, ok := modules[dir]
	modulesLock.Unlock()
	if ok {
		return mod, true
	}

	mod, err := modroot.Find(dir)
	if err != nil {
		return modroot.Module{}, false
	}

	modulesLock.Lock()
	modules[dir] = mod
	modulesLock.Unlock()

	return mod, true
}

// loadConfig returns the configuration applying to the file: the one given
// with -config or the one at the root of its module. Files outside of
// modules get defaults.
func loadConfig(filename string) (*config.Config, error) {
	path, optional := configPath, false
	if path == "" {
		mod, ok := module(filepath.Dir(filename))
		if !ok {
			return config.Default(), nil
		}
		path, optional = filepath.Join(mod.Root, config.FileName), true
	}

	configsLock.Lock()
	defer configsLock.Unlock()

	if cfg, ok := configs[path]; ok {
		return cfg, nil
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, errors.Wrap(err, "load autoctx config")
	}
	configs[path] = cfg

	return cfg, nil
}
