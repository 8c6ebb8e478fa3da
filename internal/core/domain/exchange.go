package domain

import "time"

// ExchangeStatus is the lifecycle state of an exchange proposal. Only the
// PENDING state is ever produced today; the other states exist in the data
// model but no transition path is implemented.
type ExchangeStatus string

const (
	ExchangePending   ExchangeStatus = "PENDING"
	ExchangeAccepted  ExchangeStatus = "ACCEPTED"
	ExchangeRejected  ExchangeStatus = "REJECTED"
	ExchangeCompleted ExchangeStatus = "COMPLETED"
)

// Exchange is a proposal by SenderID to exchange the referenced book with
// its owner (ReceiverID).
type Exchange struct {
	ID         string         `json:"id"`
	BookID     string         `json:"bookId"`
	SenderID   string         `json:"senderId"`
	ReceiverID string         `json:"receiverId"`
	Status     ExchangeStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}
