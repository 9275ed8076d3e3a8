package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("resource not found")
	ErrStateConflict     = errors.New("state conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternal          = errors.New("internal error")
)

// InsufficientFundsError carries the concrete amounts a caller needs to
// render an actionable message. It matches ErrInsufficientFunds under
// errors.Is.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required=%d available=%d shortfall=%d", e.Required, e.Available, e.Shortfall())
}

func (e *InsufficientFundsError) Shortfall() int64 {
	return e.Required - e.Available
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
