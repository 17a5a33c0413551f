package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which guard operation produced the error
type Phase string

const (
	PhaseConstruct Phase = "construct" // guard construction
	PhaseMove      Phase = "move"      // ownership transfer into a new guard
	PhaseAssign    Phase = "assign"    // ownership transfer into an existing guard
	PhaseSwap      Phase = "swap"      // exchange of two guards
	PhaseReset     Phase = "reset"     // explicit or implicit cleanup
	PhaseStack     Phase = "stack"     // scope stack operations
)

// Kind categorizes the error
type Kind string

const (
	KindTransfer     Kind = "transfer"
	KindDelete       Kind = "delete"
	KindUnsupported  Kind = "unsupported"
	KindClosed       Kind = "closed"
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
)

// Part names the half of a guard an error refers to
type Part string

const (
	PartResource Part = "resource"
	PartDeleter  Part = "deleter"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Part   Part
	Type   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Part != "" {
		b.WriteString(" of ")
		b.WriteString(string(e.Part))
	}

	if e.Type != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Part sets the guard part
func (b *Builder) Part(p Part) *Builder {
	b.err.Part = p
	return b
}

// Type sets the Go type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TransferFailed creates an error for a resource or deleter that could not
// be transferred to its new owner
func TransferFailed(phase Phase, part Part, goType string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindTransfer,
		Part:  part,
		Type:  goType,
		Cause: cause,
	}
}

// DeleteFailed creates an error for a deleter that reported a failure
func DeleteFailed(phase Phase, goType string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindDelete,
		Part:  PartDeleter,
		Type:  goType,
		Cause: cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Closed creates an error for operations on a closed owner
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %v not found", what, value),
		Value:  value,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
