package rules

import "fmt"

// Rule represents an autoctx diagnostic code (ACX-series).
type Rule int

const (
	ruleInvalid Rule = iota

	ACX000MalformedSource
	ACX010MissingProvenance
	ACX020DirectiveOnNonFunction
	ACX030UnknownDirective
	ACX040MarkerArity
	ACX011StaleProvenance
)

// String returns the canonical code and short name of the rule.
// Example: "ACX000: MalformedSource"
func (r Rule) String() string {
	switch r {
	case ACX000MalformedSource:
		return "ACX000: MalformedSource"
	case ACX010MissingProvenance:
		return "ACX010: MissingProvenance"
	case ACX020DirectiveOnNonFunction:
		return "ACX020: DirectiveOnNonFunction"
	case ACX030UnknownDirective:
		return "ACX030: UnknownDirective"
	case ACX040MarkerArity:
		return "ACX040: MarkerArity"
	case ACX011StaleProvenance:
		return "ACX011: StaleProvenance"
	default:
		return fmt.Sprintf("rule-unknown(%d)", r)
	}
}

// Code returns just the code part of the rule, like "ACX010".
func (r Rule) Code() string {
	switch r {
	case ACX000MalformedSource:
		return "ACX000"
	case ACX010MissingProvenance:
		return "ACX010"
	case ACX020DirectiveOnNonFunction:
		return "ACX020"
	case ACX030UnknownDirective:
		return "ACX030"
	case ACX040MarkerArity:
		return "ACX040"
	case ACX011StaleProvenance:
		return "ACX011"
	default:
		return fmt.Sprintf("ACX?%d", r)
	}
}

// Description returns the human-readable explanation of the rule.
func (r Rule) Description() string {
	switch r {
	case ACX000MalformedSource:
		return "Source file cannot be parsed and is left untouched."
	case ACX010MissingProvenance:
		return "Marker inside an annotated unit has no provenance annotation."
	case ACX020DirectiveOnNonFunction:
		return "Annotate directive is only meaningful on functions, methods and types."
	case ACX030UnknownDirective:
		return "Unknown autoctx directive."
	case ACX040MarkerArity:
		return "Marker must be called with a single argument or with every parameter of its kind to be annotated."
	case ACX011StaleProvenance:
		return "Marker annotation does not match the marker position."
	default:
		return fmt.Sprintf("unknown-rule(%d)", r)
	}
}

func MalformedSource() Rule        { return ACX000MalformedSource }
func MissingProvenance() Rule      { return ACX010MissingProvenance }
func DirectiveOnNonFunction() Rule { return ACX020DirectiveOnNonFunction }
func UnknownDirective() Rule       { return ACX030UnknownDirective }
func MarkerArity() Rule            { return ACX040MarkerArity }
func StaleProvenance() Rule        { return ACX011StaleProvenance }
