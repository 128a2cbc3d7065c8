// internal/services/errors.go
package services

import "errors"

// Sentinel errors shared by the services; handlers map them onto HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrInactiveAccount    = errors.New("account is not active")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
