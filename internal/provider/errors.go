package provider

import (
	"errors"
	"fmt"
)

// Kind classifies provider failures.
type Kind string

const (
	KindCancelled                Kind = "cancelled"
	KindInProgress               Kind = "in_progress"
	KindPrerequisitesUnavailable Kind = "prerequisites_unavailable"
	KindUnknown                  Kind = "unknown"
)

// Error is the only error shape a provider reports.
type Error struct {
	Kind    Kind
	Details string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Details != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Details, e.Err)
	case e.Details != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Details)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, ErrCancelled) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Details == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrCancelled                = &Error{Kind: KindCancelled}
	ErrInProgress               = &Error{Kind: KindInProgress}
	ErrPrerequisitesUnavailable = &Error{Kind: KindPrerequisitesUnavailable}
)

// Cancelled reports the user abandoned the external UI.
func Cancelled(details string) error {
	return &Error{Kind: KindCancelled, Details: details}
}

// InProgress reports another sign-in is already running.
func InProgress() error {
	return &Error{Kind: KindInProgress, Details: "sign-in already in progress"}
}

// PrerequisitesUnavailable reports the provider's platform services are unusable.
func PrerequisitesUnavailable(details string, err error) error {
	return &Error{Kind: KindPrerequisitesUnavailable, Details: details, Err: err}
}

// Unknown wraps any other failure.
func Unknown(details string, err error) error {
	return &Error{Kind: KindUnknown, Details: details, Err: err}
}

// KindOf classifies err. Anything that is not a provider error is unknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		switch pe.Kind {
		case KindCancelled, KindInProgress, KindPrerequisitesUnavailable:
			return pe.Kind
		}
	}
	return KindUnknown
}
