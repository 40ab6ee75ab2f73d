package main

import (
	"embed"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/sirkon/autoctx/internal/config"
	"github.com/sirkon/autoctx/internal/host"
)

//go:embed testdata
var rewriteTestCases embed.FS

func TestRewrite(t *testing.T) {
	files, err := rewriteTestCases.ReadDir("testdata/cases")
	if err != nil {
		t.Fatalf("list files for rewrite checks: %s", err)
	}

	var count int
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		if !strings.HasPrefix(file.Name(), "case_") || !strings.HasSuffix(file.Name(), ".go") {
			continue
		}

		count++
		t.Run(file.Name(), func(t *testing.T) {
			src, err := rewriteTestCases.ReadFile("testdata/cases/" + file.Name())
			if err != nil {
				t.Fatalf("read file %s: %s", file.Name(), err)
			}

			golden, err := rewriteTestCases.ReadFile("testdata/cases/" + file.Name() + ".golden")
			if err != nil {
				t.Fatalf("no golden file found for %s: %s", file.Name(), err)
			}

			res, err := host.RewriteSource("app/"+file.Name(), src, config.Default())
			if err != nil {
				t.Fatalf("rewrite %s: %s", file.Name(), err)
			}

			if string(golden) != string(res.Rewritten) {
				deepequal.SideBySide(t, "rewritten", lines(golden), lines(res.Rewritten))
				t.Fatal("rewritten source differs from the golden file")
			}

			again, err := host.RewriteSource("app/"+file.Name(), res.Rewritten, config.Default())
			if err != nil {
				t.Fatalf("rewrite again %s: %s", file.Name(), err)
			}
			if again.Rewrites != 0 {
				t.Errorf("rewriting the output must be a no-op, got %d rewrites", again.Rewrites)
			}
		})
	}

	if count == 0 {
		t.Fatal("no test cases found")
	}
}

func lines(data []byte) []string {
	return strings.Split(string(data), "\n")
}
