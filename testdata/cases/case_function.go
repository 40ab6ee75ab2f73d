package app

import (
	"os"
	"strconv"

	"github.com/sirkon/autoctx/try"
)

type config struct {
	path  string
	limit int
}

//autoctx:annotate
func loadConfig(path string) (cfg *config, err error) {
	defer try.Handle(&err)

	f := try.To1(os.Open(path))
	defer f.Close()

	info := try.To1(f.Stat())
	raw := try.To1(readLimit(f, info.Size()))
	limit := try.To1(strconv.Atoi(try.To1(field(raw, "limit"))))
	try.To(validate())
	pair := [2]error{}
	try.To(pair[0])
	try.To(os.ErrClosed)

	return &config{path: path, limit: limit}, nil
}

func readLimit(f *os.File, size int64) (string, error) { return "", nil }

func field(raw, name string) (string, error) { return raw, nil }

func validate() error { return nil }
