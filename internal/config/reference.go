package config

import (
	"bytes"
	"encoding"
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"
)

// Reference points to a package level function: "pkg/path".Name
type Reference struct {
	Package string
	Name    string
}

var (
	_ encoding.TextUnmarshaler = (*Reference)(nil)
	_ encoding.TextMarshaler   = Reference{}
)

func (r *Reference) UnmarshalText(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "" {
		return errors.New("empty reference")
	}

	if !strings.HasPrefix(s, `"`) {
		return errors.Newf("reference must start with quoted package: %q", s)
	}
	end := strings.Index(s[1:], `"`)
	if end < 0 {
		return errors.Newf("unterminated quoted package in reference: %q", s)
	}
	end++

	pkg := s[1:end]
	if pkg == "" {
		return errors.Newf("package cannot be empty in reference: %q", s)
	}

	rest, ok := strings.CutPrefix(s[end+1:], ".")
	if !ok || rest == "" {
		return errors.Newf("reference must contain a name: %q", s)
	}
	if !token.IsIdentifier(rest) {
		return errors.Newf("invalid function name %q in reference %q", rest, s)
	}

	r.Package = pkg
	r.Name = rest
	return nil
}

func (r Reference) MarshalText() ([]byte, error) {
	if r.Package == "" {
		return nil, errors.New("cannot marshal reference: empty package")
	}
	if r.Name == "" {
		return nil, errors.New("cannot marshal reference: empty name")
	}

	return []byte(`"` + r.Package + `".` + r.Name), nil
}

func (r Reference) String() string {
	return `"` + r.Package + `".` + r.Name
}
