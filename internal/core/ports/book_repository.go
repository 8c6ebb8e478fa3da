package ports

import (
	"context"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// ListBooksFilter carries the pagination parameters for the catalog query.
// Both values are 1-based and already defaulted by the service layer.
type ListBooksFilter struct {
	Page  int
	Limit int
}

// BookRepository defines persistence operations for the book catalog.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	// FindByID returns the book with its owner projection populated.
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// List returns one page ordered by creation time descending, with owner
	// projections, plus the total count. The page read and the count must
	// observe the same database snapshot.
	List(ctx context.Context, filter ListBooksFilter) ([]*domain.Book, int64, error)
	// Update persists the mutable fields of book and returns the stored record.
	Update(ctx context.Context, book *domain.Book) (*domain.Book, error)
	// Delete removes the book and its dependent exchange rows.
	Delete(ctx context.Context, id string) error
}
