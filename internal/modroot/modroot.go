// Package modroot locates the module a source file belongs to.
package modroot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod is found up to the file system root.
var ErrNoModule = errors.New("no go.mod found")

// Module describes a module found on disk.
type Module struct {
	// Root is the absolute path of the directory holding go.mod.
	Root string

	// Path is the module path declared in go.mod.
	Path string
}

// Find walks up from dir to the nearest directory containing go.mod.
func Find(dir string) (Module, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, errors.Wrap(err, "get absolute path")
	}

	for dir := abs; ; {
		mod := filepath.Join(dir, "go.mod")
		data, err := os.ReadFile(mod)
		switch {
		case err == nil:
			return Module{
				Root: dir,
				Path: modfile.ModulePath(data),
			}, nil
		case !errors.Is(err, os.ErrNotExist):
			return Module{}, errors.Wrapf(err, "read %s", mod)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Module{}, errors.Wrapf(ErrNoModule, "look up from %s", abs)
		}
		dir = parent
	}
}

// Rel returns the slash separated path of file relative to the module root.
// Files outside of the root keep their slash separated path as is.
func (m Module) Rel(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return filepath.ToSlash(file)
	}

	rel, err := filepath.Rel(m.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(file)
	}

	return filepath.ToSlash(rel)
}
