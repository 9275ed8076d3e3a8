package wallet

import "context"

// Repository describes wallet needs from use cases.
//
// DebitIfSufficient must check-and-debit atomically: two concurrent debits
// against a borderline balance must never both succeed.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (Wallet, bool, error)
	// DebitIfSufficient returns the balance after the debit, or the
	// untouched balance alongside ErrInsufficientBalance.
	DebitIfSufficient(ctx context.Context, userID string, amount int64) (int64, error)
	// Credit compensates a debit whose enclosing operation failed.
	Credit(ctx context.Context, userID string, amount int64) error
}
