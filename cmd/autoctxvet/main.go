// Command autoctxvet reports fallible markers left without provenance
// annotation. It can be run standalone or as go vet -vettool.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/sirkon/autoctx/internal/lint"
)

func main() {
	singlechecker.Main(lint.Analyzer)
}
