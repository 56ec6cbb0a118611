package environment

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTarget is returned when a deployment target name is not recognised.
	ErrUnknownTarget = errors.New("unknown deployment target")
	// ErrMissingField is returned when a required setting is empty.
	ErrMissingField = errors.New("required setting is missing")
	// ErrMalformedURL is returned when a URL setting cannot be used as-is.
	ErrMalformedURL = errors.New("malformed URL")
	// ErrMalformedDomain is returned when the Auth0 domain prefix is not a bare host prefix.
	ErrMalformedDomain = errors.New("malformed identity provider domain prefix")
	// ErrTargetMismatch is returned when the production flag disagrees with the selected target.
	ErrTargetMismatch = errors.New("production flag does not match deployment target")
	// ErrOriginMismatch is returned when the callback URL is not served from the application's origin.
	ErrOriginMismatch = errors.New("callback URL origin does not match application origin")
	// ErrInsecureURL is returned when a production URL does not use https.
	ErrInsecureURL = errors.New("production URLs must use https")
)

// FieldError ties a validation failure to the setting that caused it.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: err}
}
