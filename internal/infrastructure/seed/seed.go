// Package seed loads the demo dataset: two users with funded wallets, two
// listed books and one pending exchange proposal.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	mongodb "github.com/bookloop/bookloop-api/internal/infrastructure/db/mongo"
)

// demoPassword is the plain-text password of every seeded account.
const demoPassword = "1234"

// Run inserts the demo dataset. It is a no-op when the first demo account
// already exists, so re-running is safe.
func Run(ctx context.Context, db *mongo.Database, log zerolog.Logger) error {
	users := mongodb.NewUserRepository(db)
	books := mongodb.NewBookRepository(db)
	wallets := mongodb.NewWalletRepository(db)
	exchanges := mongodb.NewExchangeRepository(db)

	if _, err := users.FindByEmail(ctx, "angela@example.com"); err == nil {
		log.Info().Msg("seed: demo data already present, nothing to do")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("seed: check existing data: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash demo password: %w", err)
	}

	now := time.Now().UTC()

	angela, err := users.Create(ctx, &domain.User{
		Name:         "Angela",
		Email:        "angela@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seed: create user: %w", err)
	}

	carlos, err := users.Create(ctx, &domain.User{
		Name:         "Carlos",
		Email:        "carlos@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seed: create user: %w", err)
	}

	// Wallets start empty; the opening balance arrives through the ledger so
	// the balance always equals the movement sum.
	if err := fundWallet(ctx, wallets, angela.ID, decimal.NewFromInt(50), now); err != nil {
		return err
	}
	if err := fundWallet(ctx, wallets, carlos.ID, decimal.NewFromInt(30), now); err != nil {
		return err
	}

	_, err = books.Create(ctx, &domain.Book{
		Title:       "1984",
		Author:      "George Orwell",
		ISBN:        "9780451524935",
		Description: "Distopía clásica sobre vigilancia y control.",
		ImageURL:    "https://example.com/1984.jpg",
		Condition:   domain.ConditionGood,
		Price:       decimal.NewFromInt(10),
		Location:    "Tarragona",
		Available:   true,
		OwnerID:     angela.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("seed: create book: %w", err)
	}

	principito, err := books.Create(ctx, &domain.Book{
		Title:       "El Principito",
		Author:      "Antoine de Saint-Exupéry",
		ISBN:        "9780156012195",
		Description: "Un cuento filosófico para todas las edades.",
		ImageURL:    "https://example.com/principito.jpg",
		Condition:   domain.ConditionFair,
		Price:       decimal.NewFromInt(10),
		Location:    "Tarragona",
		Available:   true,
		OwnerID:     carlos.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return fmt.Errorf("seed: create book: %w", err)
	}

	_, err = exchanges.Create(ctx, &domain.Exchange{
		BookID:     principito.ID,
		SenderID:   carlos.ID,
		ReceiverID: angela.ID,
		Status:     domain.ExchangePending,
		CreatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("seed: create exchange: %w", err)
	}

	log.Info().
		Str("users", "angela@example.com, carlos@example.com").
		Str("books", "1984, El Principito").
		Msg("seed: demo data loaded")
	return nil
}

func fundWallet(ctx context.Context, wallets *mongodb.WalletRepository, userID string, amount decimal.Decimal, now time.Time) error {
	wallet, err := wallets.Create(ctx, &domain.Wallet{
		UserID:  userID,
		Balance: decimal.Zero,
	})
	if err != nil {
		return fmt.Errorf("seed: create wallet: %w", err)
	}

	_, err = wallets.AppendMovement(ctx, wallet.ID, &domain.Movement{
		Amount:    amount,
		Type:      domain.MovementIncome,
		Reason:    "Saldo inicial",
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("seed: fund wallet: %w", err)
	}
	return nil
}
