// Package host runs the instrumenter over files on disk.
package host

import (
	"bytes"
	"context"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sirkon/autoctx/internal/config"
	"github.com/sirkon/autoctx/internal/instrument"
	"github.com/sirkon/autoctx/internal/markers"
	"github.com/sirkon/autoctx/internal/modroot"
	"github.com/sirkon/autoctx/internal/report"
	"github.com/sirkon/autoctx/internal/rules"
	"github.com/sirkon/autoctx/internal/units"
)

var (
	// ErrMalformedSource is returned when some files cannot be parsed.
	ErrMalformedSource = errors.New("malformed source")

	// ErrChangesPending is returned by checks when files are not instrumented.
	ErrChangesPending = errors.New("changes pending")
)

// Result is the outcome of processing a single file.
type Result struct {
	// Path is the file path as found on disk.
	Path string

	// Rel is the module relative slash separated path used in annotations.
	Rel string

	Original  []byte
	Rewritten []byte

	// Rewrites is the number of rewritten markers.
	Rewrites int

	// Sites lists rewritten markers in the order they were rewritten.
	Sites []instrument.Site
}

// Changed checks if the file content differs after rewriting.
func (r *Result) Changed() bool {
	return r.Rewrites > 0 && !bytes.Equal(r.Original, r.Rewritten)
}

// Engine instruments files of a module.
type Engine struct {
	module   modroot.Module
	cfg      *config.Config
	registry *markers.Registry
	logger   *log.Logger
	reporter *report.Reporter
}

// NewEngine creates an engine for the module.
func NewEngine(module modroot.Module, cfg *config.Config, logger *log.Logger) *Engine {
	return &Engine{
		module:   module,
		cfg:      cfg,
		registry: cfg.Registry(),
		logger:   logger,
		reporter: new(report.Reporter),
	}
}

// Reporter returns diagnostics collected so far.
func (e *Engine) Reporter() *report.Reporter {
	return e.reporter
}

type source struct {
	path string
	rel  string
	data []byte
	file *ast.File
}

// Run processes Go files found under paths. Directories are walked
// recursively, skipping vendor, testdata and hidden directories, and files
// found there are filtered with the configured globs. Explicitly listed files
// are always processed.
//
// Files that cannot be parsed are reported and skipped, the rest is still
// processed and the error returned is marked with ErrMalformedSource.
func (e *Engine) Run(ctx context.Context, paths []string) ([]*Result, error) {
	files, err := e.expand(paths)
	if err != nil {
		return nil, err
	}

	byDir := map[string][]string{}
	for _, file := range files {
		dir := filepath.Dir(file)
		byDir[dir] = append(byDir[dir], file)
	}
	e.logger.Debug("collected files", "files", len(files), "packages", len(byDir))

	var (
		lock    sync.Mutex
		results []*Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers())
	for dir, files := range byDir {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := e.processPackage(files)
			if err != nil {
				return errors.Wrapf(err, "process package %s", dir)
			}

			lock.Lock()
			results = append(results, res...)
			lock.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *Result) int {
		return strings.Compare(a.Path, b.Path)
	})

	var malformed int
	for _, rep := range e.reporter.Reports() {
		if rep.Rule == rules.MalformedSource() {
			malformed++
		}
	}
	if malformed > 0 {
		return results, errors.Mark(errors.Newf("%d file(s) cannot be parsed", malformed), ErrMalformedSource)
	}

	return results, nil
}

// RewriteSource instruments a single file as if it were the only file of its
// package. rel is the module relative path used in annotations.
func RewriteSource(rel string, src []byte, cfg *config.Config) (*Result, error) {
	e := NewEngine(modroot.Module{}, cfg, log.New(io.Discard))

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, rel, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parse %s", rel), ErrMalformedSource)
	}

	s := source{
		path: rel,
		rel:  rel,
		data: src,
		file: file,
	}
	return e.instrumentFile(fset, s, units.NewCollector(cfg.All, []*ast.File{file}))
}

func (e *Engine) processPackage(paths []string) ([]*Result, error) {
	fset := token.NewFileSet()
	parse := e.reporter.Phase(report.PhaseParse)

	var sources []source
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read file")
		}

		file, err := parser.ParseFile(fset, path, data, parser.ParseComments)
		if err != nil {
			e.reportParseError(parse, path, err)
			continue
		}

		sources = append(sources, source{
			path: path,
			rel:  e.module.Rel(path),
			data: data,
			file: file,
		})
	}

	files := make([]*ast.File, 0, len(sources))
	for _, s := range sources {
		files = append(files, s.file)
	}
	collector := units.NewCollector(e.cfg.All, files)

	collect := e.reporter.Phase(report.PhaseCollect)
	for _, f := range collector.Findings() {
		collect.Report(f.Rule, f.Message, fset.Position(f.Pos))
	}

	results := make([]*Result, 0, len(sources))
	for _, s := range sources {
		res, err := e.instrumentFile(fset, s, collector)
		if err != nil {
			return nil, err
		}

		e.logger.Debug("instrumented", "file", s.rel, "markers", res.Rewrites)
		results = append(results, res)
	}

	return results, nil
}

func (e *Engine) instrumentFile(fset *token.FileSet, s source, collector *units.Collector) (*Result, error) {
	phase := e.reporter.Phase(report.PhaseInstrument)
	res := &Result{
		Path:     s.path,
		Rel:      s.rel,
		Original: s.data,
	}

	in := &instrument.Instrumenter{
		Fset:     fset,
		File:     s.rel,
		Resolver: instrument.NewFileResolver(s.file),
		Markers:  e.registry,
		Trace: func(site instrument.Site) {
			res.Sites = append(res.Sites, site)
		},
		Unsupported: func(m instrument.Marker) {
			phase.Report(
				rules.MarkerArity(),
				m.String()+" must be called with a single argument or with "+strconv.Itoa(m.Spec.Kind.Params())+" arguments",
				fset.Position(m.Name.Pos()),
			)
		},
	}
	for _, item := range collector.Items(s.file) {
		_, n := in.Process(item)
		res.Rewrites += n
	}

	if res.Rewrites == 0 {
		res.Rewritten = s.data
		return res, nil
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, s.file); err != nil {
		return nil, errors.Wrapf(err, "format %s", s.rel)
	}
	res.Rewritten = buf.Bytes()

	return res, nil
}

func (e *Engine) reportParseError(phase *report.ReporterPhase, path string, err error) {
	var list scanner.ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		phase.Report(rules.MalformedSource(), err.Error(), token.Position{Filename: path})
		return
	}

	// The first error is enough, the rest usually follows from it.
	phase.Report(rules.MalformedSource(), list[0].Msg, list[0].Pos)
	e.logger.Warn("file left untouched", "file", e.module.Rel(path), "errors", len(list))
}

func (e *Engine) expand(paths []string) ([]string, error) {
	var res []string
	seen := map[string]struct{}{}
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		res = append(res, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrap(err, "stat path")
		}

		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !strings.HasSuffix(path, ".go") || !e.cfg.Match(e.module.Rel(path)) {
				return nil
			}

			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", root)
		}
	}

	return res, nil
}

func skipDir(name string) bool {
	switch {
	case name == "vendor", name == "testdata":
		return true
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "_"):
		return true
	default:
		return false
	}
}
