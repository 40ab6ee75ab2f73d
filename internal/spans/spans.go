// Package spans maps source positions to the innermost registered value
// whose span covers them.
package spans

import (
	"go/token"

	"github.com/sirkon/rbtree"
)

// Index holds values bound to [start, end] position spans. Any two spans must
// either be disjoint or nested.
type Index[T any] struct {
	tree *rbtree.Tree[*span[T]]
	size int
}

// New creates an empty index.
func New[T any]() *Index[T] {
	return &Index[T]{tree: rbtree.New[*span[T]]()}
}

// Add binds value to the [start, end] span.
//
// A span enclosing several already added sibling spans must be added before
// them. It panics on a span partially overlapping an existing one.
func (x *Index[T]) Add(value T, start, end token.Pos) {
	attachInto(x.tree, &span[T]{start: start, end: end, value: value})
	x.size++
}

// Lookup returns the value of the innermost span covering pos.
func (x *Index[T]) Lookup(pos token.Pos) (T, bool) {
	res := x.tree.Search(probe[T](pos))
	if res == nil {
		var zero T
		return zero, false
	}

	return descend(res, pos).value, true
}

// Len returns the number of added spans.
func (x *Index[T]) Len() int {
	return x.size
}

// span is a node of the index with its nested spans kept in a tree of its own.
type span[T any] struct {
	start token.Pos
	end   token.Pos

	value    T
	children *rbtree.Tree[*span[T]]
}

// Cmp orders disjoint spans by position. Overlapping spans compare equal, so
// the tree hands back the overlapping node on insertion.
func (s *span[T]) Cmp(other *span[T]) int {
	if s.end < other.start {
		return -1
	}
	if s.start > other.end {
		return 1
	}
	return 0
}

func probe[T any](pos token.Pos) *span[T] {
	return &span[T]{start: pos, end: pos}
}

func contains[T any](a, b *span[T]) bool {
	return a.start <= b.start && a.end >= b.end
}

// attachInto inserts s into t:
//   - s overlapping nothing becomes a sibling;
//   - s covering the overlapping node r takes r's place in the tree and r
//     moves under s;
//   - s covered by r goes down into r's children.
func attachInto[T any](t *rbtree.Tree[*span[T]], s *span[T]) {
	r := t.InsertReturn(s)
	if r == s {
		return
	}

	switch {
	case contains(s, r):
		// The tree keeps the pointer, so r turns into s in place.
		old := *r
		*r = *s
		if r.children == nil {
			r.children = rbtree.New[*span[T]]()
		}
		attachInto(r.children, &old)

	case contains(r, s):
		if r.children == nil {
			r.children = rbtree.New[*span[T]]()
		}
		attachInto(r.children, s)

	default:
		panic("spans: partially overlapping spans are not supported")
	}
}

func descend[T any](n *span[T], pos token.Pos) *span[T] {
	if n.children == nil {
		return n
	}

	child := n.children.Search(probe[T](pos))
	if child == nil {
		return n
	}

	return descend(child, pos)
}
