package lesson2pdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrNilLesson   = errors.New("lesson cannot be nil")
	ErrEmptySource = errors.New("document source cannot be empty")

	// Validation errors (wrapped by ValidationError with a wire code).
	ErrPayloadTooLarge  = errors.New("request body exceeds the size limit")
	ErrMalformedInput   = errors.New("request body is not a valid lesson object")
	ErrMissingExercises = errors.New("at least one exercise is required")
	ErrTooManyExercises = errors.New("too many exercises")
	ErrInvalidExercise  = errors.New("invalid exercise")

	// Compiler detection errors.
	ErrNoCompiler = errors.New("no LaTeX compiler found")
)

// Machine-readable validation classifications, returned verbatim in the
// "code" field of API error responses.
const (
	CodePayloadTooLarge  = "PayloadTooLarge"
	CodeMalformedInput   = "MalformedInput"
	CodeMissingExercises = "MissingExercises"
	CodeTooManyExercises = "TooManyExercises"
	CodeInvalidExercise  = "InvalidExercise"
)

// ValidationError reports out-of-policy or malformed input. It carries the
// wire classification and wraps the matching sentinel, so callers can use
// either errors.As for the code or errors.Is for the category.
type ValidationError struct {
	Code string // one of the Code* constants
	msg  string
	err  error
}

func (e *ValidationError) Error() string { return e.msg }

// Unwrap returns the sentinel this error classifies under.
func (e *ValidationError) Unwrap() error { return e.err }

// newValidationError builds a ValidationError wrapping sentinel with a
// formatted human-readable message.
func newValidationError(code string, sentinel error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code: code,
		msg:  fmt.Sprintf(format, args...),
		err:  sentinel,
	}
}

// CompileKind classifies compiler invocation failures. Values double as the
// wire "code" field in API error responses.
type CompileKind string

const (
	KindCompilation CompileKind = "CompilationError"    // engine ran and rejected the document
	KindTimeout     CompileKind = "Timeout"             // engine exceeded the time budget
	KindUnavailable CompileKind = "CompilerUnavailable" // engine missing or unstartable
)

// CompileError reports a failed compiler invocation. Diagnostic holds a
// bounded, path-scrubbed excerpt of the engine's output; it is safe to log
// but should be truncated further before reaching clients (see httpapi).
type CompileError struct {
	Kind       CompileKind
	Diagnostic string
	err        error
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "compilation exceeded time limit"
	case KindUnavailable:
		if e.err != nil {
			return fmt.Sprintf("LaTeX compiler unavailable: %v", e.err)
		}
		return "LaTeX compiler unavailable"
	default:
		return "LaTeX compilation failed"
	}
}

// Unwrap exposes the underlying cause. Timeout errors wrap
// context.DeadlineExceeded, so errors.Is(err, context.DeadlineExceeded)
// matches them.
func (e *CompileError) Unwrap() error { return e.err }
