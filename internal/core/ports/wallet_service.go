package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// RecordMovementInput appends one ledger entry to a user's wallet.
type RecordMovementInput struct {
	UserID string
	Amount decimal.Decimal
	Type   domain.MovementType
	Reason string
}

// WalletService exposes read access to a user's wallet and ledger, plus the
// internal movement-recording path used when exchanges are settled.
type WalletService interface {
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	GetMovements(ctx context.Context, userID string) ([]*domain.Movement, error)
	RecordMovement(ctx context.Context, input RecordMovementInput) (*domain.Wallet, error)
}
