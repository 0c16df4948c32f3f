// Package remote defines the contract with the backing collaborator that
// owns each collection, the error taxonomy of that collaborator, and the
// sequence-ticket loader that keeps only the newest list result.
package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a remote failure.
type Kind int

const (
	KindOther Kind = iota
	KindAuth
	KindPermission
	KindNotFound
	KindValidation
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "other"
	}
}

// Error is a failed call to the remote collaborator. Status is zero for
// network failures, where no response was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork && e.Err != nil:
		return fmt.Sprintf("remote: network: %v", e.Err)
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("remote: %d %s: %s", e.Status, e.Kind, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("remote: %d %s", e.Status, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("remote: %s: %v", e.Kind, e.Err)
	default:
		return "remote: " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// FromStatus classifies a response status code.
func FromStatus(status int, message string) *Error {
	return &Error{Kind: kindFor(status), Status: status, Message: message}
}

func kindFor(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindPermission
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindOther
	}
}

// Network wraps a failure where no response arrived.
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// KindOf reports the remote kind carried by err.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return KindOther, false
}

// IsAuth reports whether err is an authentication failure. Such failures
// end the session and are never retried.
func IsAuth(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindAuth
}
