package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Condition describes the physical state of a listed book.
type Condition string

const (
	ConditionNew       Condition = "NEW"
	ConditionGood      Condition = "GOOD"
	ConditionFair      Condition = "FAIR"
	ConditionPoor      Condition = "POOR"
	ConditionExcellent Condition = "EXCELLENT"
)

// Valid reports whether c is one of the enumerated conditions. Unknown
// values must be rejected at validation time, never persisted.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor, ConditionExcellent:
		return true
	}
	return false
}

var ErrBookNotFound = errors.New("book not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCondition = errors.New("invalid book condition")
var ErrInvalidPrice = errors.New("price must be positive with at most two decimal places")

// ValidPrice reports whether p is a legal listing price: strictly positive
// and expressible with at most two decimal places. Trailing-zero renderings
// like "4.990" are fine; rounding to two places must not change the value.
func ValidPrice(p decimal.Decimal) bool {
	return p.IsPositive() && p.Equal(p.Round(2))
}

// Owner is the minimal projection of a book's owning user exposed on reads.
type Owner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Book is the core aggregate of the marketplace catalog. OwnerID is set at
// creation and never changes afterwards.
type Book struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	ISBN        string          `json:"isbn,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Condition   Condition       `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	Location    string          `json:"location"`
	Available   bool            `json:"available"`
	OwnerID     string          `json:"ownerId"`
	Owner       *Owner          `json:"owner,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CanMutate implements the ownership gate: a book may be modified or
// deleted only by its owner or by an admin.
func (b *Book) CanMutate(actorID string, actorRole Role) bool {
	return b.OwnerID == actorID || actorRole.IsAdmin()
}
