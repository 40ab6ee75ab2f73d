package app

import (
	"io"

	"github.com/sirkon/autoctx/try"
)

// Store keeps blobs.
//
//autoctx:annotate
type Store struct {
	r io.ReadSeeker
}

func (s *Store) Read(p []byte) (n int, err error) {
	defer try.Handle(&err)

	try.To1(s.r.Seek(0, io.SeekStart))
	return try.To1(s.r.Read(p)), nil
}

func (s Store) Size() (size int64, err error) {
	defer try.Handle(&err)

	return try.To1(s.r.Seek(0, io.SeekEnd)), nil
}

func skip(s *Store) int64 {
	return try.To1(s.Size())
}
