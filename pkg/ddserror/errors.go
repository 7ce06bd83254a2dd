/*
Package ddserror defines the error taxonomy surfaced by the RTPS participant
core to its callers (spec.md §7). None of these carry a recovery obligation:
callers observe them as ordinary Go errors and decide what to do next. The
kinds mirror the enum-of-named-outcomes style used throughout the teacher
repository's types package (e.g. TaskState, NodeStatus) rather than a single
generic error string.
*/
package ddserror

import "fmt"

// Kind identifies one of the error outcomes spec.md §7 names.
type Kind string

const (
	NotEnabled          Kind = "not_enabled"
	AlreadyDeleted       Kind = "already_deleted"
	BadParameter         Kind = "bad_parameter"
	PreconditionNotMet   Kind = "precondition_not_met"
	ImmutablePolicy      Kind = "immutable_policy"
	InconsistentPolicy   Kind = "inconsistent_policy"
	IllegalOperation     Kind = "illegal_operation"
	OutOfResources       Kind = "out_of_resources"
	Timeout              Kind = "timeout"
	NoData               Kind = "no_data"
)

// Error is the concrete type returned for every Kind above. PreconditionNotMet
// is the only kind spec.md gives a payload to (a free-form message); the rest
// carry only their kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error with the same Kind, so callers can
// use errors.Is(err, ddserror.New(ddserror.Timeout)) style checks.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// New constructs a bare Error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Newf constructs an Error with a formatted message, used for
// PreconditionNotMet(msg) per spec.md §7.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new Error of the given kind.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}
