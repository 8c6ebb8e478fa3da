package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// ExchangeService implements the proposal slice of the exchange workflow.
// Proposals are created PENDING and never transition; accept/reject
// semantics are intentionally absent.
type ExchangeService struct {
	repo   ports.ExchangeRepository
	books  ports.BookRepository
	logger zerolog.Logger
}

func NewExchangeService(repo ports.ExchangeRepository, books ports.BookRepository, logger zerolog.Logger) *ExchangeService {
	return &ExchangeService{repo: repo, books: books, logger: logger}
}

// Propose opens a PENDING exchange for the given book. The receiver is the
// book's current owner.
func (s *ExchangeService) Propose(ctx context.Context, input ports.ProposeExchangeInput) (*domain.Exchange, error) {
	book, err := s.books.FindByID(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	exchange := &domain.Exchange{
		BookID:     book.ID,
		SenderID:   input.SenderID,
		ReceiverID: book.OwnerID,
		Status:     domain.ExchangePending,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, exchange)
	if err != nil {
		s.logger.Error().Err(err).Str("book_id", input.BookID).Msg("failed to create exchange")
		return nil, err
	}

	s.logger.Info().
		Str("exchange_id", created.ID).
		Str("book_id", created.BookID).
		Str("sender_id", created.SenderID).
		Msg("exchange proposed")

	return created, nil
}

// ListMine returns proposals where the user participates as sender or
// receiver, newest first.
func (s *ExchangeService) ListMine(ctx context.Context, userID string) ([]*domain.Exchange, error) {
	return s.repo.ListByUser(ctx, userID)
}
