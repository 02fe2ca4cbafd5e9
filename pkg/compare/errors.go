package compare

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperator is matched by every UnknownOperatorError.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrInvalidOperand is matched by every InvalidOperandError.
	ErrInvalidOperand = errors.New("invalid operand")
)

type UnknownOperatorError struct {
	Operator string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("Unknown operator %q.", e.Operator)
}

func (e *UnknownOperatorError) Is(target error) bool {
	return target == ErrUnknownOperator
}

type InvalidOperandError struct {
	Operator Operator
	Reason   string
}

func (e *InvalidOperandError) Error() string {
	return fmt.Sprintf("Cannot apply operator %q: %s.", e.Operator, e.Reason)
}

func (e *InvalidOperandError) Is(target error) bool {
	return target == ErrInvalidOperand
}
