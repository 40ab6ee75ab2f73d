package try_test

import (
	"errors"
	"os"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/autoctx/errctx"
	"github.com/sirkon/autoctx/internal/config"
	"github.com/sirkon/autoctx/internal/host"
	"github.com/sirkon/autoctx/try"
)

// The functions below are kept in the form the rewriter emits.

type chain struct{}

func (chain) fail() error {
	return errors.New("fail")
}

//autoctx:annotate
func (c chain) methodCall() (err error) {
	defer try.Handle(&err)

	try.To(try.At(c.fail())(".fail() @ try/try_test.go::31"))
	return nil
}

//autoctx:annotate
func functionCall() (err error) {
	defer try.Handle(&err)

	try.To(try.At(chain{}.methodCall())(".methodCall() @ try/try_test.go::39"))
	return nil
}

//autoctx:annotate
func identifier() (err error) {
	defer try.Handle(&err)

	res := functionCall()
	try.To(try.At(res)("res @ try/try_test.go::48"))
	return nil
}

//autoctx:annotate
func someExpression() (err error) {
	defer try.Handle(&err)

	res := [2]error{identifier(), nil}
	try.To(try.At(res[0])("(.. some expr ..) @ try/try_test.go::57"))
	return nil
}

func TestChain(t *testing.T) {
	err := someExpression()
	require.Error(t, err)

	want := `(.. some expr ..) @ try/try_test.go::57

Caused by:
    0: res @ try/try_test.go::48
    1: .methodCall() @ try/try_test.go::39
    2: .fail() @ try/try_test.go::31
    3: fail`
	assert.Equal(t, want, errctx.Format(err))
	assert.Len(t, errctx.Annotations(err), 5)
}

// TestChainIsRewriterOutput keeps the annotated functions above in sync with
// what the rewriter produces for them.
func TestChainIsRewriterOutput(t *testing.T) {
	src, err := os.ReadFile("try_test.go")
	require.NoError(t, err)

	res, err := host.RewriteSource("try/try_test.go", src, config.Default())
	require.NoError(t, err)
	assert.Zero(t, res.Rewrites, "annotations are not up to date")

	annotated := regexp.MustCompile(`try\.At\((.+)\)\("[^"]*"\)`)
	var lines []string
	for _, match := range annotated.FindAll(src, -1) {
		lines = append(lines, "try.To("+string(match)+")")
	}
	require.Len(t, lines, 4)

	stripped := annotated.ReplaceAll(src, []byte("$1"))
	res, err = host.RewriteSource("try/try_test.go", stripped, config.Default())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rewrites)
	for _, line := range lines {
		assert.Contains(t, string(res.Rewritten), line)
	}
}

func parse(s string) (n int, err error) {
	defer try.Handle(&err)

	n = try.To1(try.At1(strconv.Atoi(s))("strconv::Atoi(..) @ parse.go::1"))
	return n * 2, nil
}

func TestSuccessPathUnchanged(t *testing.T) {
	n, err := parse("21")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = parse("x")
	require.Error(t, err)
	assert.Equal(t, []string{
		"strconv::Atoi(..) @ parse.go::1",
		`strconv.Atoi: parsing "x": invalid syntax`,
	}, errctx.Annotations(err))

	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}

func TestSingleEvaluation(t *testing.T) {
	var calls int
	pair := func(fail bool) (string, int, error) {
		calls++
		if fail {
			return "", 0, errors.New("boom")
		}
		return "ok", calls, nil
	}

	run := func(fail bool) (s string, n int, err error) {
		defer try.Handle(&err)

		s, n = try.To2(try.At2(pair(fail))("pair(..) @ run.go::1"))
		return s, n, nil
	}

	s, n, err := run(false)
	require.NoError(t, err)
	assert.Equal(t, "ok", s)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)

	_, _, err = run(true)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "pair(..) @ run.go::1: boom", err.Error())
}

func TestTo3(t *testing.T) {
	triple := func() (int, int, int, error) { return 1, 2, 3, nil }

	run := func() (sum int, err error) {
		defer try.Handle(&err)

		a, b, c := try.To3(try.At3(triple())("triple() @ run.go::1"))
		return a + b + c, nil
	}

	sum, err := run()
	require.NoError(t, err)
	assert.Equal(t, 6, sum)
}

func TestHandleRepanicsForeignPanics(t *testing.T) {
	run := func() (err error) {
		defer try.Handle(&err)
		panic("not a marker")
	}

	assert.PanicsWithValue(t, "not a marker", func() { _ = run() })
}

func TestHandleLeavesErrorWithoutPanic(t *testing.T) {
	sentinel := errors.New("sentinel")
	run := func() (err error) {
		defer try.Handle(&err)
		return sentinel
	}

	assert.ErrorIs(t, run(), sentinel)
}
