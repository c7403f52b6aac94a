package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sierrasoftworks/humane-errors-go"
)

// ErrorKind classifies why a Pega operation did not succeed.
type ErrorKind string

const (
	// KindConnectionError indicates the platform could not be reached (refused, DNS, TLS).
	KindConnectionError ErrorKind = "ConnectionError"
	// KindTimeout indicates the request exceeded the configured timeout.
	KindTimeout ErrorKind = "Timeout"
	// KindAuthenticationFailed indicates the token endpoint rejected the client credentials.
	KindAuthenticationFailed ErrorKind = "AuthenticationFailed"
	// KindRequestFailed indicates an authenticated call returned an unexpected status.
	KindRequestFailed ErrorKind = "RequestFailed"
	// KindUnknownAuthError is the catch-all for failures that fit no other kind.
	KindUnknownAuthError ErrorKind = "UnknownAuthError"
	// KindNotConfigured indicates required settings are missing, so no call was attempted.
	KindNotConfigured ErrorKind = "NotConfigured"
)

// Failure describes an unsuccessful operation in terms a person can act on.
//
// Detail is the short human-readable description. Cause optionally carries a
// humane error whose advice explains how to resolve the problem.
type Failure struct {
	Kind   ErrorKind
	Detail string
	Cause  humane.Error
}

// NewFailure creates a Failure whose cause carries the given advice lines.
func NewFailure(kind ErrorKind, detail string, advice ...string) *Failure {
	return &Failure{
		Kind:   kind,
		Detail: detail,
		Cause:  humane.New(detail, advice...),
	}
}

// WrapFailure creates a Failure around an underlying Go error.
func WrapFailure(kind ErrorKind, err error, detail string, advice ...string) *Failure {
	return &Failure{
		Kind:   kind,
		Detail: detail,
		Cause:  humane.Wrap(err, detail, advice...),
	}
}

// Error implements the error interface so a Failure can be logged or wrapped.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// Unwrap exposes the humane cause to errors.As and errors.Is.
func (f *Failure) Unwrap() error {
	if f.Cause == nil {
		return nil
	}
	return f.Cause
}

// Advice collects advice lines from the cause chain, outermost first.
func (f *Failure) Advice() []string {
	var advice []string
	seen := make(map[string]struct{})

	cur := error(f.Cause)
	for cur != nil {
		if adv, ok := cur.(interface {
			Advice() []string
		}); ok {
			for _, a := range adv.Advice() {
				if _, dup := seen[a]; dup {
					continue
				}
				seen[a] = struct{}{}
				advice = append(advice, a)
			}
		}
		cur = unwrap(cur)
	}

	return advice
}

// Text renders the failure for a conversational client: the detail followed
// by any advice lines.
func (f *Failure) Text() string {
	advice := f.Advice()
	if len(advice) == 0 {
		return f.Detail
	}

	var b strings.Builder
	b.WriteString(f.Detail)
	b.WriteString("\n\nTo resolve this:")
	for _, a := range advice {
		b.WriteString("\n  - ")
		b.WriteString(a)
	}
	return b.String()
}

// unwrap steps to the next error in the chain through Unwrap or a humane Cause.
func unwrap(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	if c, ok := err.(interface{ Cause() error }); ok {
		return c.Cause()
	}
	return nil
}
