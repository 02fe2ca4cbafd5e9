// Package compare evaluates field expectations such as "be", "contain" or
// "be greater than" against actual values.
package compare

import "strings"

type Operator string

const (
	OpBe          Operator = "be"
	OpNotBe       Operator = "not be"
	OpContain     Operator = "contain"
	OpNotContain  Operator = "not contain"
	OpGreaterThan Operator = "be greater than"
	OpLessThan    Operator = "be less than"
	OpSet         Operator = "be set"
	OpNotSet      Operator = "not be set"
	OpOneOf       Operator = "be one of"
	OpNotOneOf    Operator = "not be one of"
)

// Operators lists every supported operator.
var Operators = []Operator{
	OpBe,
	OpNotBe,
	OpContain,
	OpNotContain,
	OpGreaterThan,
	OpLessThan,
	OpSet,
	OpNotSet,
	OpOneOf,
	OpNotOneOf,
}

// ParseOperator resolves an operator name. Matching ignores case and
// surrounding whitespace.
func ParseOperator(name string) (Operator, error) {
	normalized := Operator(strings.ToLower(strings.TrimSpace(name)))

	for _, op := range Operators {
		if op == normalized {
			return op, nil
		}
	}

	return "", &UnknownOperatorError{Operator: name}
}

// RequiresValue reports whether the operator compares against an expected value.
func (o Operator) RequiresValue() bool {
	return o != OpSet && o != OpNotSet
}

// OperatorList renders the operator enumeration for user facing messages.
func OperatorList() string {
	names := make([]string, 0, len(Operators))
	for _, op := range Operators {
		names = append(names, string(op))
	}

	return strings.Join(names, ", ")
}

type messages struct {
	success string
	failure string
}

// Success templates take (field, expected); failure templates take
// (field, expected, actual).
var templates = map[Operator]messages{
	OpBe: {
		success: "The %s field was %v, as expected.",
		failure: "Expected %s field to be %v, but it was actually %v.",
	},
	OpNotBe: {
		success: "The %s field was not %v, as expected.",
		failure: "Expected %s field not to be %v, but it was also %v.",
	},
	OpContain: {
		success: "The %s field contains %v, as expected.",
		failure: "Expected %s field to contain %v, but it was %v.",
	},
	OpNotContain: {
		success: "The %s field does not contain %v, as expected.",
		failure: "Expected %s field not to contain %v, but it was %v.",
	},
	OpGreaterThan: {
		success: "The %s field was greater than %v, as expected.",
		failure: "Expected %s field to be greater than %v, but it was %v.",
	},
	OpLessThan: {
		success: "The %s field was less than %v, as expected.",
		failure: "Expected %s field to be less than %v, but it was %v.",
	},
	OpSet: {
		success: "The %s field was set, as expected.",
		failure: "Expected %s field to be set, but it was not.",
	},
	OpNotSet: {
		success: "The %s field was not set, as expected.",
		failure: "Expected %s field not to be set, but it was %v.",
	},
	OpOneOf: {
		success: "The %s field was one of %v, as expected.",
		failure: "Expected %s field to be one of %v, but it was %v.",
	},
	OpNotOneOf: {
		success: "The %s field was not one of %v, as expected.",
		failure: "Expected %s field not to be one of %v, but it was %v.",
	},
}
