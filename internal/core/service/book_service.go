package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// BookCache abstracts the read-through cache for single-book lookups
// (Redis). All cache failures are soft: the service logs and falls back to
// the repository.
type BookCache interface {
	Get(ctx context.Context, id string) (*domain.Book, error)
	Set(ctx context.Context, book *domain.Book) error
	Invalidate(ctx context.Context, id string) error
}

// BookService implements the catalog use cases: creation, paginated
// listing, single-book retrieval, and ownership-gated update/delete.
type BookService struct {
	repo   ports.BookRepository
	users  ports.UserRepository
	cache  BookCache
	logger zerolog.Logger
}

func NewBookService(repo ports.BookRepository, users ports.UserRepository, cache BookCache, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, users: users, cache: cache, logger: logger}
}

// CreateBook validates condition and price, then persists a new listing
// owned by input.OwnerID with available defaulting to true.
func (s *BookService) CreateBook(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	if !input.Condition.Valid() {
		return nil, domain.ErrInvalidCondition
	}
	if !domain.ValidPrice(input.Price) {
		return nil, domain.ErrInvalidPrice
	}

	if _, err := s.users.FindByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	book := &domain.Book{
		Title:       input.Title,
		Author:      input.Author,
		ISBN:        input.ISBN,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Condition:   input.Condition,
		Price:       input.Price,
		Location:    input.Location,
		Available:   true,
		OwnerID:     input.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create book")
		return nil, err
	}

	s.logger.Info().Str("book_id", created.ID).Str("owner_id", created.OwnerID).Msg("book created")
	return created, nil
}

// FindAll returns one catalog page, newest first, with owner projections.
// The page contents and the totals are read from a single snapshot so the
// pagination summary can never disagree with the data.
func (s *BookService) FindAll(ctx context.Context, page, limit int) (*ports.ListBooksResult, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	books, totalBooks, err := s.repo.List(ctx, ports.ListBooksFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(totalBooks) / float64(limit)))

	return &ports.ListBooksResult{
		Data: books,
		Pagination: ports.Pagination{
			CurrentPage:     page,
			TotalPages:      totalPages,
			TotalBooks:      totalBooks,
			Limit:           limit,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}, nil
}

// FindOne returns a single book with its owner projection, reading through
// the cache when possible.
func (s *BookService) FindOne(ctx context.Context, id string) (*domain.Book, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("book_id", id).Msg("book cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, book); err != nil {
		s.logger.Warn().Err(err).Str("book_id", id).Msg("book cache write failed")
	}
	return book, nil
}

// authorizeMutation is the shared two-step guard for update and delete:
// the book must exist (NotFound otherwise), and the actor must be its
// owner or an admin (Forbidden otherwise). Existence is checked first.
func (s *BookService) authorizeMutation(ctx context.Context, id string, actor ports.Actor) (*domain.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.CanMutate(actor.ID, actor.Role) {
		return nil, domain.ErrForbidden
	}
	return book, nil
}

// UpdateBook applies a partial patch to an existing book. Owner and id are
// never patchable; a new image URL replaces the old one only when provided.
func (s *BookService) UpdateBook(ctx context.Context, id string, patch ports.UpdateBookInput, actor ports.Actor) (*ports.UpdateBookResult, error) {
	book, err := s.authorizeMutation(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if patch.Condition != nil && !patch.Condition.Valid() {
		return nil, domain.ErrInvalidCondition
	}
	if patch.Price != nil && !domain.ValidPrice(*patch.Price) {
		return nil, domain.ErrInvalidPrice
	}

	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.ISBN != nil {
		book.ISBN = *patch.ISBN
	}
	if patch.Description != nil {
		book.Description = *patch.Description
	}
	if patch.Condition != nil {
		book.Condition = *patch.Condition
	}
	if patch.Location != nil {
		book.Location = *patch.Location
	}
	if patch.Price != nil {
		book.Price = *patch.Price
	}
	if patch.Available != nil {
		book.Available = *patch.Available
	}
	if patch.ImageURL != nil {
		book.ImageURL = *patch.ImageURL
	}
	book.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, book)
	if err != nil {
		s.logger.Error().Err(err).Str("book_id", id).Msg("failed to update book")
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("book_id", id).Msg("book cache invalidation failed")
	}

	s.logger.Info().Str("book_id", id).Str("actor_id", actor.ID).Msg("book updated")
	return &ports.UpdateBookResult{Message: "Book updated successfully", Book: updated}, nil
}

// DeleteBook removes a book under the same gate as UpdateBook. Dependent
// exchange rows are removed with it.
func (s *BookService) DeleteBook(ctx context.Context, id string, actor ports.Actor) (*ports.DeleteBookResult, error) {
	if _, err := s.authorizeMutation(ctx, id, actor); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("book_id", id).Msg("failed to delete book")
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("book_id", id).Msg("book cache invalidation failed")
	}

	s.logger.Info().Str("book_id", id).Str("actor_id", actor.ID).Msg("book deleted")
	return &ports.DeleteBookResult{Message: "Book deleted successfully", DeletedBookID: id}, nil
}
