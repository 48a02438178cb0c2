package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable codes returned to clients. Handlers and tests match
// on these, never on message text.
const (
	CodeValidation           = "VALIDATION"
	CodeItemNotFound         = "ITEM_NOT_FOUND"
	CodeEmptyCart            = "EMPTY_CART"
	CodeInvalidTotal         = "INVALID_TOTAL"
	CodeCouponNotFound       = "COUPON_NOT_FOUND"
	CodeCouponInactive       = "COUPON_INACTIVE"
	CodeCouponExpired        = "COUPON_EXPIRED"
	CodeCouponBelowMinimum   = "COUPON_BELOW_MINIMUM"
	CodeCouponExhausted      = "COUPON_EXHAUSTED"
	CodeNoShippingMethod     = "NO_SHIPPING_METHOD"
	CodeUnsupportedGateway   = "UNSUPPORTED_GATEWAY"
	CodeGatewayNotConfigured = "GATEWAY_NOT_CONFIGURED"
	CodeProviderUnavailable  = "PROVIDER_UNAVAILABLE"
	CodeOrderNotFound        = "ORDER_NOT_FOUND"
	CodeTransactionNotFound  = "TRANSACTION_NOT_FOUND"
	CodeIllegalTransition    = "ILLEGAL_TRANSITION"
	CodeConflict             = "CONFLICT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInternal             = "INTERNAL"
)

// Error is the one error type that crosses the service boundary. HTTPStatus
// drives the response code; Code and Message form the response body.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, HTTPStatus: e.HTTPStatus, cause: err}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func Is(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg, HTTPStatus: http.StatusBadRequest}
}

func BadRequest(code, msg string) *Error {
	return &Error{Code: code, Message: msg, HTTPStatus: http.StatusBadRequest}
}

func NotFound(code, msg string) *Error {
	return &Error{Code: code, Message: msg, HTTPStatus: http.StatusNotFound}
}

// BusinessRule marks a request that is well-formed but conflicts with current
// state (exhausted coupon, empty cart, negative total).
func BusinessRule(code, msg string) *Error {
	return &Error{Code: code, Message: msg, HTTPStatus: http.StatusConflict}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg, HTTPStatus: http.StatusUnauthorized}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg, HTTPStatus: http.StatusForbidden}
}

// ProviderUnavailable covers network failures and timeouts talking to a
// payment provider; the caller may retry.
func ProviderUnavailable(err error) *Error {
	return &Error{
		Code:       CodeProviderUnavailable,
		Message:    "payment provider is unavailable, please retry",
		HTTPStatus: http.StatusBadGateway,
		cause:      err,
	}
}

// GatewayNotConfigured is a store-side configuration problem, not a buyer error.
func GatewayNotConfigured(provider string) *Error {
	return &Error{
		Code:       CodeGatewayNotConfigured,
		Message:    fmt.Sprintf("payment method %s is not configured for this store", provider),
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func Internal(err error) *Error {
	return &Error{
		Code:       CodeInternal,
		Message:    "internal error",
		HTTPStatus: http.StatusInternalServerError,
		cause:      err,
	}
}
