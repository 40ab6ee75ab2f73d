package must

func Do(v, w any, err error) {
	if err != nil {
		panic(err)
	}
}

func Ctx(v, w any, err error) func(note string) error {
	return func(note string) error { return err }
}

func Do1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func Ctx1[T any](v T, err error) func(note string) (T, error) {
	return func(note string) (T, error) { return v, err }
}
