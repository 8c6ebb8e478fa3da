package ports

import (
	"context"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// WalletRepository defines persistence for wallets and their ledgers.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) (*domain.Wallet, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	// ListMovements returns the wallet's ledger, newest first.
	ListMovements(ctx context.Context, walletID string) ([]*domain.Movement, error)
	// AppendMovement inserts the movement and adjusts the wallet balance in
	// one transaction. An EXPENSE that would drive the balance negative
	// fails with domain.ErrInsufficientFunds and leaves both untouched.
	AppendMovement(ctx context.Context, walletID string, movement *domain.Movement) (*domain.Wallet, error)
}
