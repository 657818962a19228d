package filters

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSchema indicates a field list that cannot form a Schema.
	ErrInvalidSchema = errors.New("filters: invalid schema")
	// ErrUnknownField indicates a field or key the schema does not track.
	ErrUnknownField = errors.New("filters: unknown field")
	// ErrKindMismatch indicates a Value whose kind differs from its field.
	ErrKindMismatch = errors.New("filters: value kind does not match field")
	// ErrUnknownChoice indicates a select value outside the field options.
	ErrUnknownChoice = errors.New("filters: value is not one of the field options")
	// ErrAlreadyInitialized indicates Initialize ran twice on one synchronizer.
	ErrAlreadyInitialized = errors.New("filters: synchronizer already initialized")
	// ErrEngineUnavailable indicates the requested evaluator engine is not
	// compiled in (the js engine needs the js_eval build tag).
	ErrEngineUnavailable = errors.New("filters: evaluator engine unavailable")
)

// FieldError captures the field a failure relates to alongside the cause.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("filters: field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func fieldError(field string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return err
	}
	return &FieldError{Field: field, Err: err}
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("filters: %s evaluator %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
