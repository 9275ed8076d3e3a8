package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crickarena/fantasy-cricket/internal/domain/wallet"
	qb "github.com/crickarena/fantasy-cricket/internal/platform/querybuilder"
)

type walletTableModel struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUser(ctx context.Context, userID string) (wallet.Wallet, bool, error) {
	query, args, err := qb.Select("*").
		From("wallets").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return wallet.Wallet{}, false, fmt.Errorf("build get wallet query: %w", err)
	}

	var row walletTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return wallet.Wallet{}, false, nil
		}
		return wallet.Wallet{}, false, fmt.Errorf("get wallet: %w", err)
	}

	return wallet.Wallet{UserID: row.UserID, Balance: row.Balance, UpdatedAt: row.UpdatedAt}, true, nil
}

// DebitIfSufficient relies on a single conditional UPDATE so the balance
// check and the debit cannot interleave with a concurrent debit.
func (r *WalletRepository) DebitIfSufficient(ctx context.Context, userID string, amount int64) (int64, error) {
	const query = `UPDATE wallets
SET balance = balance - $2, updated_at = NOW()
WHERE user_id = $1 AND balance >= $2
RETURNING balance`

	var balance int64
	err := r.db.GetContext(ctx, &balance, query, userID, amount)
	if err == nil {
		return balance, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("debit wallet: %w", err)
	}

	// No row matched: either the wallet is missing or the balance is short.
	current, found, getErr := r.GetByUser(ctx, userID)
	if getErr != nil {
		return 0, getErr
	}
	if !found {
		return 0, fmt.Errorf("wallet for user %s not found", userID)
	}
	return current.Balance, wallet.ErrInsufficientBalance
}

func (r *WalletRepository) Credit(ctx context.Context, userID string, amount int64) error {
	query, args, err := qb.Update("wallets").
		SetExpr("balance", "balance + ?", amount).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build credit wallet query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit wallet affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("wallet for user %s not found", userID)
	}
	return nil
}
