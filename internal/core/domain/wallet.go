package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementIncome  MovementType = "INCOME"
	MovementExpense MovementType = "EXPENSE"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementIncome || t == MovementExpense
}

var ErrWalletNotFound = errors.New("wallet not found")
var ErrInvalidMovement = errors.New("invalid movement")
var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet holds a user's balance of the exchange currency. The balance is
// only ever adjusted in the same transaction that appends a Movement, so it
// always equals the ledger sum.
type Wallet struct {
	ID      string          `json:"id"`
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

// Movement is a single append-only ledger entry. Amount is always positive;
// Type determines the sign of its effect on the balance.
type Movement struct {
	ID        string          `json:"id"`
	WalletID  string          `json:"walletId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      MovementType    `json:"type"`
	Reason    string          `json:"reason"`
	CreatedAt time.Time       `json:"createdAt"`
}
