package usecase

import "fmt"

type ErrorCode string

const (
	ErrorCatalogUnavailable    ErrorCode = "CATALOG_UNAVAILABLE"
	ErrorPurchaseFailed        ErrorCode = "PURCHASE_RESPONSE_FAILED"
	ErrorUnrecognizedEvent     ErrorCode = "UNRECOGNIZED_EVENT"
	ErrorAttributesUnavailable ErrorCode = "ATTRIBUTES_UNAVAILABLE"
	ErrorPendingUnavailable    ErrorCode = "PENDING_UNAVAILABLE"
	ErrorInternal              ErrorCode = "INTERNAL_ERROR"
)

// Error describes a recovered turn failure. Turns never fail outright; these
// are logged so a degraded turn can be diagnosed offline.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
