package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	Validation  Kind = "validation"
	Conflict    Kind = "conflict"
	NotFound    Kind = "not_found"
	Gateway     Kind = "gateway"
	Persistence Kind = "persistence"
	Relay       Kind = "relay"
	Internal    Kind = "internal"
)

// AppError carries the error taxonomy for the payment core. Retriable tells
// the caller whether repeating the same request can succeed.
type AppError struct {
	Kind      Kind
	Msg       string
	Retriable bool
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *AppError) Unwrap() error { return e.Err }

func ValidationErr(msg string) *AppError {
	return &AppError{Kind: Validation, Msg: msg}
}

// ConflictErr signals lock contention; the caller may retry later.
func ConflictErr(msg string) *AppError {
	return &AppError{Kind: Conflict, Msg: msg, Retriable: true}
}

func NotFoundErr(msg string) *AppError {
	return &AppError{Kind: NotFound, Msg: msg}
}

// GatewayErr wraps a charge provider failure. retriable distinguishes
// transient network/timeout failures from explicit declines.
func GatewayErr(msg string, retriable bool, err error) *AppError {
	return &AppError{Kind: Gateway, Msg: msg, Retriable: retriable, Err: err}
}

func PersistenceErr(msg string, err error) *AppError {
	return &AppError{Kind: Persistence, Msg: msg, Err: err}
}

func RelayErr(msg string, err error) *AppError {
	return &AppError{Kind: Relay, Msg: msg, Retriable: true, Err: err}
}

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, k Kind) bool {
	if ae, ok := As(err); ok {
		return ae.Kind == k
	}
	return false
}

func HTTPStatus(err error) int {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case Gateway:
		if ae.Retriable {
			return http.StatusBadGateway
		}
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
