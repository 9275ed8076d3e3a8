package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/wallet"
)

type WalletRepository struct {
	mu    sync.Mutex
	items map[string]wallet.Wallet
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{items: make(map[string]wallet.Wallet)}
}

func (r *WalletRepository) GetByUser(_ context.Context, userID string) (wallet.Wallet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userID]
	if !ok {
		return wallet.Wallet{}, false, nil
	}
	return item, true, nil
}

// DebitIfSufficient checks and debits under one lock so two borderline
// debits can never both pass.
func (r *WalletRepository) DebitIfSufficient(_ context.Context, userID string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userID]
	if !ok {
		return 0, fmt.Errorf("wallet for user %s not found", userID)
	}
	if item.Balance < amount {
		return item.Balance, wallet.ErrInsufficientBalance
	}

	item.Balance -= amount
	item.UpdatedAt = time.Now().UTC()
	r.items[userID] = item
	return item.Balance, nil
}

func (r *WalletRepository) Credit(_ context.Context, userID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[userID]
	if !ok {
		return fmt.Errorf("wallet for user %s not found", userID)
	}

	item.Balance += amount
	item.UpdatedAt = time.Now().UTC()
	r.items[userID] = item
	return nil
}

func (r *WalletRepository) Upsert(_ context.Context, item wallet.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.UserID] = item
	return nil
}
