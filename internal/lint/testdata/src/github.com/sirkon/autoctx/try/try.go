package try

type failure struct{ err error }

func To(err error) {
	if err != nil {
		panic(failure{err: err})
	}
}

func To1[T any](v T, err error) T {
	To(err)
	return v
}

func Handle(errp *error) {
	if f, ok := recover().(failure); ok {
		*errp = f.err
	}
}

func At(err error) func(note string) error {
	return func(note string) error { return err }
}

func At1[T any](v T, err error) func(note string) (T, error) {
	return func(note string) (T, error) { return v, err }
}
