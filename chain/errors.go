package chain

import "net/http"

// Kind identifies the disposition of a chain error (spec §7).
type Kind string

const (
	KindValidation     Kind = "validation"
	KindBudgetExceeded Kind = "budget_exceeded"
	KindConfiguration  Kind = "configuration"
	KindClientFailure  Kind = "client_failure"
	KindIOFailure      Kind = "io_failure"
)

// Error is the only error type RunChain returns on a known failure path.
// Anything else (e.g. a panic recovered upstream) is the caller's 500.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to the HTTP status the thin handler returns.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindBudgetExceeded:
		return http.StatusPaymentRequired
	case KindConfiguration, KindClientFailure, KindIOFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func newValidationErr(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func newBudgetErr(msg string) *Error {
	return &Error{Kind: KindBudgetExceeded, Message: msg}
}

func newConfigErr(msg string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: msg, Err: err}
}

func newClientErr(msg string, err error) *Error {
	return &Error{Kind: KindClientFailure, Message: msg, Err: err}
}

func newIOErr(msg string, err error) *Error {
	return &Error{Kind: KindIOFailure, Message: msg, Err: err}
}
