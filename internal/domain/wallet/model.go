package wallet

import (
	"errors"
	"time"
)

// ErrInsufficientBalance signals a conditional debit that found less than
// the required amount. The use case layer enriches it with amounts.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// Wallet is the user balance subset this core is allowed to touch.
// Deposits and withdrawals happen elsewhere; the only mutation here is the
// contest-join debit (and its compensation credit).
type Wallet struct {
	UserID    string
	Balance   int64
	UpdatedAt time.Time
}
