package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// CreateBookInput carries all data needed to list a new book. ImageURL is
// the location produced by the image-storage collaborator, or empty.
type CreateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	Description string
	Condition   domain.Condition
	Location    string
	Price       decimal.Decimal
	OwnerID     string
	ImageURL    string
}

// UpdateBookInput is a partial patch. Nil fields are left unchanged. The
// book id and owner are never patchable through this path.
type UpdateBookInput struct {
	Title       *string
	Author      *string
	ISBN        *string
	Description *string
	Condition   *domain.Condition
	Location    *string
	Price       *decimal.Decimal
	Available   *bool
	// ImageURL is set when a replacement image was uploaded.
	ImageURL *string
}

// Actor identifies the authenticated user performing a mutation.
type Actor struct {
	ID   string
	Role domain.Role
}

// Pagination summarises one catalog page.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalBooks      int64 `json:"totalBooks"`
	Limit           int   `json:"limit"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// ListBooksResult is returned by FindAll.
type ListBooksResult struct {
	Data       []*domain.Book `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// UpdateBookResult is returned by UpdateBook.
type UpdateBookResult struct {
	Message string       `json:"message"`
	Book    *domain.Book `json:"book"`
}

// DeleteBookResult is returned by DeleteBook.
type DeleteBookResult struct {
	Message       string `json:"message"`
	DeletedBookID string `json:"deletedBookId"`
}

// BookService defines the catalog use cases.
type BookService interface {
	CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	FindAll(ctx context.Context, page, limit int) (*ListBooksResult, error)
	FindOne(ctx context.Context, id string) (*domain.Book, error)
	UpdateBook(ctx context.Context, id string, patch UpdateBookInput, actor Actor) (*UpdateBookResult, error)
	DeleteBook(ctx context.Context, id string, actor Actor) (*DeleteBookResult, error)
}
