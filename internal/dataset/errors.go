package dataset

import (
	"errors"
	"fmt"
)

// Kind classifies a dataset or query failure so the tool boundary can
// translate it without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound reports an absent backing file.
	KindNotFound
	// KindMalformedData reports a backing file that is not valid JSON.
	KindMalformedData
	// KindContractViolation reports a parsed dataset that is missing a
	// required key or field, or carries a mis-typed value.
	KindContractViolation
	// KindReferenceNotFound reports an operation referencing a parent
	// collection entry that does not exist.
	KindReferenceNotFound
	// KindInvalidArgument reports a caller-supplied parameter that failed a
	// format check before any dataset access.
	KindInvalidArgument
	// KindTargetNotFound reports an operation targeting a record that does
	// not exist in its collection.
	KindTargetNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindMalformedData:
		return "malformed_data"
	case KindContractViolation:
		return "contract_violation"
	case KindReferenceNotFound:
		return "reference_not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindTargetNotFound:
		return "target_not_found"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Field and Value name the offending input
// when one exists, so callers can report which validation failed.
type Error struct {
	Kind  Kind
	Field string
	Value string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFound reports an absent dataset. The name should be the bare file
// name, not a full filesystem path.
func NewNotFound(name string, cause error) *Error {
	return &Error{
		Kind:  KindNotFound,
		Field: "dataset",
		Value: name,
		Msg:   fmt.Sprintf("dataset %q does not exist", name),
		Err:   cause,
	}
}

// NewMalformed reports a dataset that could not be parsed as JSON.
func NewMalformed(name string, cause error) *Error {
	return &Error{
		Kind:  KindMalformedData,
		Field: "dataset",
		Value: name,
		Msg:   fmt.Sprintf("dataset %q is not valid JSON", name),
		Err:   cause,
	}
}

// NewContractViolation reports a structural defect in a parsed dataset.
// The field uses dotted/indexed form, e.g. "events[2].id".
func NewContractViolation(field, msg string) *Error {
	return &Error{
		Kind:  KindContractViolation,
		Field: field,
		Msg:   fmt.Sprintf("invalid dataset: %s: %s", field, msg),
	}
}

// NewReferenceNotFound reports an unknown parent reference, e.g. a
// calendar_id naming no calendar.
func NewReferenceNotFound(field, value string) *Error {
	return &Error{
		Kind:  KindReferenceNotFound,
		Field: field,
		Value: value,
		Msg:   fmt.Sprintf("%s %q does not exist", field, value),
	}
}

// NewInvalidArgument reports a malformed caller parameter.
func NewInvalidArgument(field, value, msg string) *Error {
	return &Error{
		Kind:  KindInvalidArgument,
		Field: field,
		Value: value,
		Msg:   fmt.Sprintf("invalid %s %q: %s", field, value, msg),
	}
}

// NewTargetNotFound reports an unknown record target, e.g. an event_id
// naming no event.
func NewTargetNotFound(field, value string) *Error {
	return &Error{
		Kind:  KindTargetNotFound,
		Field: field,
		Value: value,
		Msg:   fmt.Sprintf("%s %q does not exist", field, value),
	}
}

// KindOf extracts the classification of err, or KindUnknown if err carries
// no dataset classification.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
