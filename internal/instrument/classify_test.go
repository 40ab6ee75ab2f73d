package instrument

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classifySource = `package p

import (
	"io"
	"os"
	str "strings"
)

func cases(s *os.File, m map[string]int, pair [2]error, fs []func() error, err error) {
	_ = s.Close()
	_ = s.Seek(0, io.SeekStart)
	_ = os.Open("x")
	_ = build()
	_ = str.TrimSpace(" x ")
	_ = Parse[int, string](nil)
	_ = Pick[int](nil)
	_ = str.Cut[int](nil)
	_ = err
	_ = io.EOF
	_ = pair[0]
	_ = (build)()
	_ = fs[0]()
	_ = func() error { return nil }()
	_ = "literal"
	_ = m["k"]
	_ = s.Name
	_ = !ok
	_ = build(xs...)
	os := s
	_ = os.Close()
}
`

func TestClassify(t *testing.T) {
	file := parseFile(t, "p.go", classifySource)
	exprs := rightHands(file, "cases")

	want := []string{
		".Close()",
		".Seek(..)",
		"os::Open(..)",
		"build()",
		"str::TrimSpace(..)",
		"Parse(..)",
		Placeholder,
		"str::Cut(..)",
		"err",
		"io::EOF",
		Placeholder,
		Placeholder,
		Placeholder,
		Placeholder,
		Placeholder,
		Placeholder,
		Placeholder,
		Placeholder,
		"build(..)",
		// os is a local variable here.
		".Close()",
	}
	require.Len(t, exprs, len(want))

	r := NewFileResolver(file)
	for i, expr := range exprs {
		t.Run(types.ExprString(expr), func(t *testing.T) {
			assert.Equal(t, want[i], Classify(expr, r))
		})
	}
}

func TestClassifyTypesResolver(t *testing.T) {
	const src = `package p

func Pick[T any](xs []T) (T, error) {
	var z T
	return z, nil
}

type box struct {
	items []func() (int, error)
}

func use(b box) {
	_, _ = Pick[int](nil)
	_, _ = b.items[0]()
}
`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Uses:      map[*ast.Ident]types.Object{},
		Instances: map[*ast.Ident]types.Instance{},
	}
	var conf types.Config
	_, err = conf.Check("p", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	exprs := rightHands(file, "use")
	require.Len(t, exprs, 2)

	r := TypesResolver{Info: info}
	assert.Equal(t, "Pick(..)", Classify(exprs[0], r))
	assert.Equal(t, Placeholder, Classify(exprs[1], r))

	// Single index instantiations of local functions are not told apart from
	// indexing by syntax.
	assert.Equal(t, Placeholder, Classify(exprs[0], NewFileResolver(file)))
}

func TestImportName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "os", want: "os"},
		{path: "github.com/sirkon/autoctx/try", want: "try"},
		{path: "github.com/bmatcuk/doublestar/v4", want: "doublestar"},
		{path: "gopkg.in/yaml.v3", want: "yaml"},
		{path: "github.com/mattn/go-isatty", want: "isatty"},
		{path: "github.com/google/renameio/v2", want: "renameio"},
		{path: "github.com/foo/yaml-go", want: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportName(tt.path))
		})
	}
}

func parseFile(t *testing.T, name, src string) *ast.File {
	t.Helper()

	file, err := parser.ParseFile(token.NewFileSet(), name, src, parser.ParseComments)
	require.NoError(t, err)

	return file
}

// rightHands returns the right hand sides of assignments in the body of fn.
func rightHands(file *ast.File, fn string) []ast.Expr {
	var res []ast.Expr
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Name.Name != fn {
			continue
		}

		for _, stmt := range fd.Body.List {
			as, ok := stmt.(*ast.AssignStmt)
			if !ok || as.Tok != token.ASSIGN {
				continue
			}
			res = append(res, as.Rhs[0])
		}
	}

	return res
}
