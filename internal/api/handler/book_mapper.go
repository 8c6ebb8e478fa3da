package handler

import (
	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// --- Domain → HTTP response ---

func toBookResponse(b *domain.Book) bookResponse {
	resp := bookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		Condition:   string(b.Condition),
		Price:       b.Price,
		Location:    b.Location,
		Available:   b.Available,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt.UTC(),
		UpdatedAt:   b.UpdatedAt.UTC(),
	}
	if b.Owner != nil {
		resp.Owner = &ownerResponse{ID: b.Owner.ID, Name: b.Owner.Name}
	}
	return resp
}

func toListResponse(r *ports.ListBooksResult) listBooksResponse {
	items := make([]bookResponse, len(r.Data))
	for i, b := range r.Data {
		items[i] = toBookResponse(b)
	}
	return listBooksResponse{
		Data:       items,
		Pagination: r.Pagination,
	}
}
