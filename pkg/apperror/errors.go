package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error classification, stable across API versions.
// Clients key user-facing messages off this value rather than parsing Message.
type Kind string

const (
	KindInvalidAmount          Kind = "INVALID_AMOUNT"
	KindInvalidDiscount        Kind = "INVALID_DISCOUNT"
	KindInsufficientRole       Kind = "INSUFFICIENT_ROLE"
	KindCartLocked             Kind = "CART_LOCKED"
	KindCartAlreadyCheckedOut  Kind = "CART_ALREADY_CHECKED_OUT"
	KindOrderNotModifiable     Kind = "ORDER_NOT_MODIFIABLE"
	KindDiscountInvalidated    Kind = "DISCOUNT_INVALIDATED"
	KindOverpayment            Kind = "OVERPAYMENT"
	KindInsufficientTender     Kind = "INSUFFICIENT_TENDER"
	KindUnbalancedSplit        Kind = "UNBALANCED_SPLIT"
	KindUnsupportedSplitMethod Kind = "UNSUPPORTED_SPLIT_METHOD"
	KindNotFound               Kind = "NOT_FOUND"
	KindConflict               Kind = "CONFLICT"
	KindBadRequest             Kind = "BAD_REQUEST"
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindForbidden              Kind = "FORBIDDEN"
	KindInternal               Kind = "INTERNAL"
)

// AppError represents an application error with HTTP status code, a stable
// kind, and optional structured detail values (offending amounts, required
// roles, and so on).
type AppError struct {
	Code    int                    `json:"code"`
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// WithDetail attaches a structured detail value and returns the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: resource + " not found"}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: message}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: message}
}

// NewInvalidAmountError reports a non-positive or malformed monetary input.
func NewInvalidAmountError(amount string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindInvalidAmount, "Payment amount must be greater than zero").
		WithDetail("amount", amount)
}

// NewInvalidDiscountError reports a discount value out of bounds for its kind.
func NewInvalidDiscountError(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindInvalidDiscount, message)
}

// NewInsufficientRoleError reports an actor whose role is below the tier
// required for the requested discount operation.
func NewInsufficientRoleError(actorRole, requiredRole string) *AppError {
	return NewAppError(http.StatusForbidden, KindInsufficientRole,
		fmt.Sprintf("Role %s cannot perform this operation, minimum required role is %s", actorRole, requiredRole)).
		WithDetail("actor_role", actorRole).
		WithDetail("required_role", requiredRole)
}

// NewCartLockedError reports a mutation attempt on a checked-out cart.
func NewCartLockedError() *AppError {
	return NewAppError(http.StatusConflict, KindCartLocked, "Cart is locked after checkout")
}

// NewCartAlreadyCheckedOutError reports a second checkout on the same cart.
func NewCartAlreadyCheckedOutError() *AppError {
	return NewAppError(http.StatusConflict, KindCartAlreadyCheckedOut, "Cart has already been checked out")
}

// NewOrderNotModifiableError reports item addition on a terminal or locked order.
func NewOrderNotModifiableError(status string) *AppError {
	return NewAppError(http.StatusConflict, KindOrderNotModifiable,
		fmt.Sprintf("Order in status %s can no longer be modified", status)).
		WithDetail("status", status)
}

// NewDiscountInvalidatedError reports an existing discount that no longer
// satisfies its constraints after an order change. The discount must be
// removed and re-applied; it is never silently adjusted.
func NewDiscountInvalidatedError(discountValue, subtotal string) *AppError {
	return NewAppError(http.StatusConflict, KindDiscountInvalidated,
		"Applied discount is no longer valid for the updated order, remove and re-apply it").
		WithDetail("discount_value", discountValue).
		WithDetail("subtotal", subtotal)
}

// NewOverpaymentError reports a payment exceeding the remaining balance.
func NewOverpaymentError(amount, remaining string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindOverpayment,
		"Payment exceeds the remaining balance").
		WithDetail("amount", amount).
		WithDetail("remaining", remaining)
}

// NewInsufficientTenderError reports cash tendered below the payment amount.
func NewInsufficientTenderError(tendered, amount string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindInsufficientTender,
		"Cash tendered is less than the payment amount").
		WithDetail("tendered", tendered).
		WithDetail("amount", amount)
}

// NewUnbalancedSplitError reports a custom split whose shares do not sum to
// the order grand total.
func NewUnbalancedSplitError(sum, grandTotal string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindUnbalancedSplit,
		"Split shares do not balance against the order total").
		WithDetail("shares_sum", sum).
		WithDetail("grand_total", grandTotal)
}

// NewUnsupportedSplitMethodError reports a split method the calculator does
// not implement.
func NewUnsupportedSplitMethodError(method string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindUnsupportedSplitMethod,
		fmt.Sprintf("Split method %s is not supported", method)).
		WithDetail("method", method)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
