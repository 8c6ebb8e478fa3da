package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// WalletService exposes wallet and ledger reads plus transactional
// movement recording.
type WalletService struct {
	repo   ports.WalletRepository
	logger zerolog.Logger
}

func NewWalletService(repo ports.WalletRepository, logger zerolog.Logger) *WalletService {
	return &WalletService{repo: repo, logger: logger}
}

func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *WalletService) GetMovements(ctx context.Context, userID string) ([]*domain.Movement, error) {
	wallet, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMovements(ctx, wallet.ID)
}

// RecordMovement appends a ledger entry and adjusts the balance in one
// transaction, so the stored balance always equals the ledger sum.
func (s *WalletService) RecordMovement(ctx context.Context, input ports.RecordMovementInput) (*domain.Wallet, error) {
	if !input.Type.Valid() || !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidMovement
	}

	wallet, err := s.repo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	movement := &domain.Movement{
		WalletID:  wallet.ID,
		Amount:    input.Amount,
		Type:      input.Type,
		Reason:    input.Reason,
		CreatedAt: time.Now().UTC(),
	}

	updated, err := s.repo.AppendMovement(ctx, wallet.ID, movement)
	if err != nil {
		s.logger.Error().Err(err).Str("wallet_id", wallet.ID).Msg("failed to record movement")
		return nil, err
	}

	s.logger.Info().
		Str("wallet_id", wallet.ID).
		Str("type", string(input.Type)).
		Str("amount", input.Amount.String()).
		Msg("movement recorded")

	return updated, nil
}
