package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// createBookRequest is bound from the multipart form of POST /books/create.
// The optional cover image travels as the "image" file part and is handled
// separately from the scalar fields.
type createBookRequest struct {
	Title       string `form:"title"       validate:"required"`
	Author      string `form:"author"      validate:"required"`
	ISBN        string `form:"isbn"        validate:"omitempty,isbn"`
	Description string `form:"description"`
	Condition   string `form:"condition"   validate:"required"`
	Location    string `form:"location"    validate:"required"`
	Price       string `form:"price"       validate:"required,bookprice"`
	OwnerID     string `form:"ownerId"     validate:"required"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from the domain types so the JSON contract is not coupled to
// internal model changes.

type ownerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type bookResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	ISBN        string          `json:"isbn,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	Location    string          `json:"location"`
	Available   bool            `json:"available"`
	OwnerID     string          `json:"ownerId"`
	Owner       *ownerResponse  `json:"owner,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type listBooksResponse struct {
	Data       []bookResponse   `json:"data"`
	Pagination ports.Pagination `json:"pagination"`
}

type updateBookResponse struct {
	Message string       `json:"message"`
	Book    bookResponse `json:"book"`
}

type deleteBookResponse struct {
	Message       string `json:"message"`
	DeletedBookID string `json:"deletedBookId"`
}
