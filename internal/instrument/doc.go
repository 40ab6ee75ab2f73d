// Package instrument rewrites fallible-marker calls so that a failure passing
// through them gains a note telling where it came from.
//
// A marker is a call of a registered marker function with a single argument
// or with every parameter of its kind, such as
//
//	cfg := try.To1(loadConfig(path))
//
// Each marker is replaced with
//
//	cfg := try.To1(try.At1(loadConfig(path))("loadConfig(..) @ cmd/app/main.go::27"))
//
// Markers rewritten before keep their note while it matches their position
// and get a new one once the code around them moved.
//
// The argument is evaluated exactly once, the success value is unchanged and
// on failure one note is attached before the marker aborts as usual.
//
// Components:
//
//   - Classify
//     Derives the provenance label from the shape of the marker argument.
//     Method calls, plain function calls and identifiers get a precise label,
//     everything else the fixed placeholder.
//
//   - Rewrite
//     Builds the replacement call for one marker. Pure: the marker node is
//     not modified and its arguments are reused, not copied.
//
//   - Walker
//     Visits a function body in source order, labels every marker before
//     anything is rewritten and replaces markers bottom-up, so markers nested
//     inside markers are rewritten once each.
//
//   - Instrumenter
//     Dispatches the walker over the bodies contained in an Item: a single
//     function, or all methods of an annotated type.
//
// The package is purely syntactic. Whether an identifier names an imported
// package is answered by a Resolver, which either reads the imports of a
// file or consults type-checker output.
package instrument
