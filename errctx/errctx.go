// Package errctx attaches text annotations to propagating errors and renders
// the resulting annotation chain.
//
// Instrumented code only ever calls [Wrap]: every marker that sees a failure
// pushes one note in front of whatever the error already carried. [Format]
// turns the chain back into text, outermost note first:
//
//	.Close() @ internal/store/file.go::42
//
//	Caused by:
//	    0: os::Open(..) @ internal/store/file.go::31
//	    1: open /tmp/x: no such file or directory
//
// Error types that keep their own chain implement [Annotator] and receive the
// note instead of being wrapped.
package errctx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Annotator is implemented by errors that attach annotations themselves.
type Annotator interface {
	Annotate(note string) error
}

// Error is an error carrying one annotation in front of its cause. The
// message is built by [errors.WithMessage], so the level prints as
// "note: cause".
type Error struct {
	error
	note string
}

// Wrap attaches note to err. It returns nil for a nil err.
func Wrap(err error, note string) error {
	if err == nil {
		return nil
	}

	if a, ok := err.(Annotator); ok {
		return a.Annotate(note)
	}

	return &Error{
		error: errors.WithMessage(err, note),
		note:  note,
	}
}

// Note returns the annotation of this level alone.
func (e *Error) Note() string {
	return e.note
}

// Unwrap returns the annotated error.
func (e *Error) Unwrap() error {
	return errors.UnwrapOnce(e.error)
}

// Format renders the whole chain for %+v and behaves like Error otherwise.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = io.WriteString(s, Format(e))
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = io.WriteString(s, strconv.Quote(e.Error()))
	}
}

// Annotations returns the chain of err: every note from the outermost one
// inwards, then the message of the first error that is not an annotation.
func Annotations(err error) []string {
	var chain []string
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			chain = append(chain, err.Error())
			break
		}

		chain = append(chain, e.note)
		err = errors.UnwrapOnce(e)
	}

	return chain
}

// Format renders err with its outermost annotation on the first line and the
// rest of the chain listed under "Caused by:".
func Format(err error) string {
	chain := Annotations(err)
	switch len(chain) {
	case 0:
		return ""
	case 1:
		return chain[0]
	}

	var b strings.Builder
	b.WriteString(chain[0])
	b.WriteString("\n\nCaused by:")
	for i, msg := range chain[1:] {
		b.WriteString("\n    ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(": ")
		b.WriteString(msg)
	}

	return b.String()
}
