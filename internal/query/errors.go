package query

import (
	"errors"
	"fmt"
)

// Kind is the machine-stable tag carried by every compile error.
type Kind string

const (
	KindInvalidFilterSyntax  Kind = "InvalidFilterSyntax"
	KindInvalidField         Kind = "InvalidField"
	KindInvalidValue         Kind = "InvalidValue"
	KindInvalidExpansion     Kind = "InvalidExpansion"
	KindInvalidSortField     Kind = "InvalidSortField"
	KindInvalidSortDirection Kind = "InvalidSortDirection"
	KindUnknownEntity        Kind = "UnknownEntity"
)

// Error is returned by every parse and compile call. Nothing is returned
// alongside it: a call either fully succeeds or fails with one Error.
type Error struct {
	Kind       Kind
	Message    string
	Suggestion string
}

func (e *Error) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Suggestion)
	}
	return e.Message
}

// Is matches another *Error of the same kind whose message is empty, so the
// Err* sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is.
var (
	ErrInvalidFilterSyntax  = &Error{Kind: KindInvalidFilterSyntax}
	ErrInvalidField         = &Error{Kind: KindInvalidField}
	ErrInvalidValue         = &Error{Kind: KindInvalidValue}
	ErrInvalidExpansion     = &Error{Kind: KindInvalidExpansion}
	ErrInvalidSortField     = &Error{Kind: KindInvalidSortField}
	ErrInvalidSortDirection = &Error{Kind: KindInvalidSortDirection}
	ErrUnknownEntity        = &Error{Kind: KindUnknownEntity}
)

// KindOf extracts the kind of a compile error.
func KindOf(err error) (Kind, bool) {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind, true
	}
	return "", false
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) withSuggestion(format string, args ...interface{}) *Error {
	e.Suggestion = fmt.Sprintf(format, args...)
	return e
}
