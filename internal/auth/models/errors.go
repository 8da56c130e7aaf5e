package models

import (
	"errors"
	"net/http"
)

// Kind classifies a flow failure.
type Kind string

const (
	KindMissingCode              Kind = "MissingCode"
	KindTokenExchangeFailed      Kind = "TokenExchangeFailed"
	KindIdentityResolutionFailed Kind = "IdentityResolutionFailed"
	KindEmailNotFound            Kind = "EmailNotFound"
	KindBackendRejected          Kind = "BackendRejected"
	KindInternal                 Kind = "Internal"
)

// HTTPStatus is the response status for a failure of kind k.
func (k Kind) HTTPStatus() int {
	if k == KindMissingCode {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Step names a stage of the flow, used in logs.
type Step string

const (
	StepValidate Step = "validate"
	StepExchange Step = "exchange_code"
	StepIdentity Step = "resolve_identity"
	StepBackend  Step = "backend_signup"
	StepSign     Step = "derive_credential"
	StepRedirect Step = "build_redirect"
)

// ErrEmailNotFound is returned when the LinkedIn email response has no address.
var ErrEmailNotFound = errors.New("email not found in LinkedIn response")

// Error is a flow failure. Detail is safe to show to the client.
type Error struct {
	Kind     Kind
	Provider ProviderName
	Step     Step
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Provider != "" {
		msg = string(e.Provider) + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}
