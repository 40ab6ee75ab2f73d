// Package markers keeps the registry of fallible-marker functions and the
// helpers that annotate their arguments.
package markers

import (
	"maps"
)

// RuntimePath is the import path of the default marker package.
const RuntimePath = "github.com/sirkon/autoctx/try"

// Func identifies a package level function.
type Func struct {
	PkgPath string
	Name    string
}

// Spec describes a marker function. Helper names the annotating function
// living in the same package as the marker.
type Spec struct {
	Kind   Kind
	Helper string
}

// Registry answers whether a function is a marker.
type Registry struct {
	known map[Func]Spec
}

// NewRegistry merges custom markers with the predefined ones from
// [RuntimePath]. Predefined entries win on conflicts.
func NewRegistry(custom map[Func]Spec) *Registry {
	predefined := map[Func]Spec{
		{PkgPath: RuntimePath, Name: "To"}:  {Kind: KindCheck, Helper: "At"},
		{PkgPath: RuntimePath, Name: "To1"}: {Kind: KindValue1, Helper: "At1"},
		{PkgPath: RuntimePath, Name: "To2"}: {Kind: KindValue2, Helper: "At2"},
		{PkgPath: RuntimePath, Name: "To3"}: {Kind: KindValue3, Helper: "At3"},
	}

	if custom == nil {
		custom = make(map[Func]Spec)
	} else {
		custom = maps.Clone(custom)
	}

	maps.Insert(custom, maps.All(predefined))

	return &Registry{known: custom}
}

// Lookup returns the spec of a marker function.
func (r *Registry) Lookup(pkgPath, name string) (Spec, bool) {
	spec, ok := r.known[Func{PkgPath: pkgPath, Name: name}]
	return spec, ok
}
