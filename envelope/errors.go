package envelope

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindDecode         Kind = "Decode"
	KindLength         Kind = "Length"
	KindFormat         Kind = "Format"
	KindMissingField   Kind = "MissingField"
	KindDuplicateField Kind = "DuplicateField"
	KindUnknownVariant Kind = "UnknownVariant"
)

// Error is the codec's structured error type.
//
// RuleID is a stable identifier (e.g., ENV-B64-001, ENV-LEN-001, REC-FLD-001)
// naming the violated rule. Field is the JSON field being decoded, if known.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error without a cause.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError returns a structured error carrying cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// MissingField reports a required field that is absent or null.
func MissingField(name string) error {
	return &Error{Kind: KindMissingField, RuleID: "REC-FLD-001", Field: name, Message: "missing field"}
}

// DuplicateField reports a field that appears more than once in one object.
func DuplicateField(name string) error {
	return &Error{Kind: KindDuplicateField, RuleID: "REC-FLD-002", Field: name, Message: "duplicate field"}
}

// InField attributes a *Error to field name. A nested field path already on
// the error is kept under name ("contract.public_key").
func InField(name string, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	cp := *e
	if cp.Field == "" {
		cp.Field = name
	} else {
		cp.Field = name + "." + cp.Field
	}
	return &cp
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
