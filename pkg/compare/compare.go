package compare

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of a comparison. Format and Args form the message
// surfaced to the user.
type Result struct {
	Valid  bool
	Format string
	Args   []any
}

func (r Result) Message() string {
	return fmt.Sprintf(r.Format, r.Args...)
}

// Compare checks actual against expected using the named operator. field is
// only used to build the result message.
func Compare(field string, operator string, actual any, expected any) (Result, error) {
	op, err := ParseOperator(operator)
	if err != nil {
		return Result{}, err
	}

	if op.RequiresValue() && expected == nil {
		return Result{}, &InvalidOperandError{Operator: op, Reason: "an expected value is required"}
	}

	valid, err := evaluate(op, actual, expected)
	if err != nil {
		return Result{}, err
	}

	return newResult(op, valid, field, actual, expected), nil
}

func evaluate(op Operator, actual any, expected any) (bool, error) {
	switch op {
	case OpBe:
		return toString(actual) == toString(expected), nil
	case OpNotBe:
		return toString(actual) != toString(expected), nil
	case OpContain:
		return strings.Contains(toString(actual), toString(expected)), nil
	case OpNotContain:
		return !strings.Contains(toString(actual), toString(expected)), nil
	case OpGreaterThan, OpLessThan:
		a, e, err := numericOperands(op, actual, expected)
		if err != nil {
			return false, err
		}

		if op == OpGreaterThan {
			return a > e, nil
		}

		return a < e, nil
	case OpSet:
		return isSet(actual), nil
	case OpNotSet:
		return !isSet(actual), nil
	case OpOneOf:
		return oneOf(actual, expected), nil
	case OpNotOneOf:
		return !oneOf(actual, expected), nil
	}

	return false, &UnknownOperatorError{Operator: string(op)}
}

func newResult(op Operator, valid bool, field string, actual any, expected any) Result {
	tpl := templates[op]

	if valid {
		args := []any{field}
		if op.RequiresValue() {
			args = append(args, toString(expected))
		}

		return Result{Valid: true, Format: tpl.success, Args: args}
	}

	var args []any

	switch op {
	case OpSet:
		args = []any{field}
	case OpNotSet:
		args = []any{field, toString(actual)}
	default:
		args = []any{field, toString(expected), toString(actual)}
	}

	return Result{Valid: false, Format: tpl.failure, Args: args}
}

func numericOperands(op Operator, actual any, expected any) (float64, float64, error) {
	a, ok := toNumber(actual)
	if !ok {
		return 0, 0, &InvalidOperandError{Operator: op, Reason: fmt.Sprintf("actual value %q is not a number", toString(actual))}
	}

	e, ok := toNumber(expected)
	if !ok {
		return 0, 0, &InvalidOperandError{Operator: op, Reason: fmt.Sprintf("expected value %q is not a number", toString(expected))}
	}

	return a, e, nil
}

func oneOf(actual any, expected any) bool {
	value := toString(actual)

	for _, candidate := range toList(expected) {
		if candidate == value {
			return true
		}
	}

	return false
}

func toList(v any) []string {
	switch list := v.(type) {
	case []any:
		items := make([]string, 0, len(list))
		for _, item := range list {
			items = append(items, toString(item))
		}

		return items
	case []string:
		return list
	}

	parts := strings.Split(toString(v), ",")

	items := make([]string, 0, len(parts))
	for _, part := range parts {
		items = append(items, strings.TrimSpace(part))
	}

	return items
}

func isSet(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case map[string]any:
		return len(val) > 0
	case []any:
		return len(val) > 0
	}

	return true
}

// toNumber accepts finite numbers only.
func toNumber(v any) (float64, bool) {
	f, ok := parseNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

func parseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)

		return f, err == nil
	}

	return 0, false
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	}

	return fmt.Sprint(v)
}
