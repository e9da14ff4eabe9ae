package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the API layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindBadRequest
	KindLimitExceeded
	KindUnauthenticated
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindLimitExceeded:
		return "limit_exceeded"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a failure with a fixed kind and a message safe to show to API callers.
type Error struct {
	Kind    Kind
	Message string
}

// NewError creates a new Error
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf reports the kind carried by err. Errors without one are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Accounts and credentials
var (
	ErrAccountNotFound    = NewError(KindNotFound, "User not found")
	ErrUnknownAccount     = NewError(KindUnauthenticated, "User not found")
	ErrEmailTaken         = NewError(KindConflict, "Email already registered")
	ErrPhoneTaken         = NewError(KindConflict, "Phone number already registered")
	ErrEmailAndPhoneTaken = NewError(KindConflict, "Email & Phone Number already registered")
	ErrInvalidCredentials = NewError(KindUnauthenticated, "Wrong Credentials")
	ErrMissingToken       = NewError(KindUnauthenticated, "access denied")
	ErrInvalidToken       = NewError(KindUnauthenticated, "invalid token")
	ErrTokenExpired       = NewError(KindUnauthenticated, "token expired")
	ErrForbidden          = NewError(KindForbidden, "insufficient permissions")
	ErrUnknownRole        = NewError(KindBadRequest, "unknown role")
	ErrPasswordTooLong    = NewError(KindBadRequest, fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
)

// Addresses
var (
	ErrAddressNotFound   = NewError(KindNotFound, "address not found")
	ErrAddressIncomplete = NewError(KindBadRequest, "please provide all address details")
	ErrNoAddressSelected = NewError(KindBadRequest, "please select an address before placing the order")
)

// Cart
var (
	ErrCartLineExists      = NewError(KindConflict, "product already in cart")
	ErrCartLineNotFound    = NewError(KindNotFound, "product not found in cart")
	ErrCartQuantityCeiling = NewError(KindLimitExceeded, fmt.Sprintf("you cannot add more than %d items", MaxCartQuantity))
	ErrCartQuantityFloor   = NewError(KindLimitExceeded, "you cannot decrease less than one item")
	ErrCartChanged         = NewError(KindConflict, "cart changed concurrently, please retry")
	ErrInvalidQuantity     = NewError(KindBadRequest, fmt.Sprintf("quantity must be between %d and %d", MinCartQuantity, MaxCartQuantity))
)

// Catalog
var (
	ErrProductNotFound    = NewError(KindNotFound, "product not found")
	ErrProductUnavailable = NewError(KindNotFound, "product is not available")
	ErrCategoryNotFound   = NewError(KindNotFound, "category not found")
	ErrCategoryExists     = NewError(KindConflict, "category already exists")
	ErrCategoryInUse      = NewError(KindConflict, "category still has products")
	ErrCategoryNameEmpty  = NewError(KindBadRequest, "please provide the category name")
)

// Orders
var (
	ErrOrderNotFound       = NewError(KindNotFound, "order not found")
	ErrOrderNotReturnable  = NewError(KindBadRequest, "order cannot be returned")
	ErrOrderNotCancellable = NewError(KindBadRequest, "order cannot be cancelled")
	ErrInvalidTransition   = NewError(KindBadRequest, "invalid order status transition")
	ErrUnknownOrderStatus  = NewError(KindBadRequest, "unknown order status")
	ErrCartLineNotCleared  = NewError(KindInternal, "order placed but cart line could not be removed; retry removal")
)
