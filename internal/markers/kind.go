package markers

import (
	"fmt"
)

// Kind describes the signature of a marker function.
type Kind int

const (
	KindInvalid Kind = iota

	// KindCheck takes a bare error: try.To(err).
	KindCheck

	// KindValue1 takes a (value, error) pair and returns the value:
	// try.To1(f()) or try.To1(v, err).
	KindValue1

	// KindValue2 takes two values and an error.
	KindValue2

	// KindValue3 takes three values and an error.
	KindValue3
)

// Params returns the number of parameters of a marker of this kind, the
// error included. Such a marker is called either with a single multi-valued
// call or with that many arguments.
func (k Kind) Params() int {
	switch k {
	case KindCheck:
		return 1
	case KindValue1:
		return 2
	case KindValue2:
		return 3
	case KindValue3:
		return 4
	default:
		return 0
	}
}

var kindValueMap = map[Kind]string{
	KindCheck:  "check",
	KindValue1: "value1",
	KindValue2: "value2",
	KindValue3: "value3",
}

func (k Kind) String() string {
	v, ok := kindValueMap[k]
	if !ok {
		return fmt.Sprintf("invalid(%d)", k)
	}

	return v
}

// UnmarshalText for setting values with configs, CLI, etc.
func (k *Kind) UnmarshalText(rawtext []byte) error {
	text := string(rawtext)
	for kk, v := range kindValueMap {
		if v == text {
			*k = kk
			return nil
		}
	}

	return fmt.Errorf("unknown marker kind %q", text)
}

func (k Kind) MarshalText() ([]byte, error) {
	v, ok := kindValueMap[k]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid marker kind %d", k)
	}

	return []byte(v), nil
}
