package ports

import (
	"context"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// AuthService implements registration and credential-based session issuance.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	// ValidateUser checks credentials. Unknown email and wrong password
	// return the same error so callers cannot enumerate accounts.
	ValidateUser(ctx context.Context, email, password string) (*domain.User, error)
	// Login signs a bearer token asserting the user's identity and role.
	// Issuance is stateless; tokens cannot be revoked before expiry.
	Login(user *domain.User) (string, error)
}
