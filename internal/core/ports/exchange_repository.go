package ports

import (
	"context"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// ExchangeRepository defines persistence for exchange proposals.
type ExchangeRepository interface {
	Create(ctx context.Context, exchange *domain.Exchange) (*domain.Exchange, error)
	// ListByUser returns proposals where the user is sender or receiver,
	// newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Exchange, error)
}
