package ports

import (
	"context"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// ProposeExchangeInput opens a PENDING exchange for a listed book. The
// receiver is always the book's current owner.
type ProposeExchangeInput struct {
	BookID   string
	SenderID string
}

// ExchangeService covers the implemented slice of the exchange workflow:
// proposal creation and listing. No accept/reject transitions exist.
type ExchangeService interface {
	Propose(ctx context.Context, input ProposeExchangeInput) (*domain.Exchange, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Exchange, error)
}
