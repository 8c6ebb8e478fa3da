package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

const (
	walletsCollection   = "wallets"
	movementsCollection = "movements"
)

type WalletRepository struct {
	db        *mongo.Database
	wallets   *mongo.Collection
	movements *mongo.Collection
}

func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{
		db:        db,
		wallets:   db.Collection(walletsCollection),
		movements: db.Collection(movementsCollection),
	}
}

type mongoWallet struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  primitive.ObjectID `bson:"user_id"`
	Balance string             `bson:"balance"`
}

type mongoMovement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	WalletID  primitive.ObjectID `bson:"wallet_id"`
	Amount    string             `bson:"amount"`
	Type      string             `bson:"type"`
	Reason    string             `bson:"reason"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (mw mongoWallet) toDomain() (*domain.Wallet, error) {
	balance, err := decimal.NewFromString(mw.Balance)
	if err != nil {
		return nil, fmt.Errorf("decode wallet balance %q: %w", mw.Balance, err)
	}
	return &domain.Wallet{
		ID:      mw.ID.Hex(),
		UserID:  mw.UserID.Hex(),
		Balance: balance,
	}, nil
}

func (mm mongoMovement) toDomain() (*domain.Movement, error) {
	amount, err := decimal.NewFromString(mm.Amount)
	if err != nil {
		return nil, fmt.Errorf("decode movement amount %q: %w", mm.Amount, err)
	}
	return &domain.Movement{
		ID:        mm.ID.Hex(),
		WalletID:  mm.WalletID.Hex(),
		Amount:    amount,
		Type:      domain.MovementType(mm.Type),
		Reason:    mm.Reason,
		CreatedAt: mm.CreatedAt.UTC(),
	}, nil
}

func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) (*domain.Wallet, error) {
	userID, err := primitive.ObjectIDFromHex(wallet.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := mongoWallet{
		UserID:  userID,
		Balance: wallet.Balance.String(),
	}

	res, err := r.wallets.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert wallet: %w", err)
	}

	created := *wallet
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *WalletRepository) FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrWalletNotFound
	}

	var mw mongoWallet
	if err := r.wallets.FindOne(ctx, bson.M{"user_id": oid}).Decode(&mw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("find wallet: %w", err)
	}
	return mw.toDomain()
}

func (r *WalletRepository) ListMovements(ctx context.Context, walletID string) ([]*domain.Movement, error) {
	oid, err := primitive.ObjectIDFromHex(walletID)
	if err != nil {
		return nil, domain.ErrWalletNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.movements.Find(ctx, bson.M{"wallet_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	var docs []mongoMovement
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}

	out := make([]*domain.Movement, 0, len(docs))
	for _, mm := range docs {
		m, err := mm.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// AppendMovement inserts the movement and writes the adjusted balance in
// one transaction; both changes land or neither does. An EXPENSE that would
// drive the balance negative aborts with ErrInsufficientFunds.
func (r *WalletRepository) AppendMovement(ctx context.Context, walletID string, movement *domain.Movement) (*domain.Wallet, error) {
	oid, err := primitive.ObjectIDFromHex(walletID)
	if err != nil {
		return nil, domain.ErrWalletNotFound
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	var updated *domain.Wallet

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var mw mongoWallet
		if err := r.wallets.FindOne(sc, bson.M{"_id": oid}).Decode(&mw); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrWalletNotFound
			}
			return nil, fmt.Errorf("find wallet: %w", err)
		}

		wallet, err := mw.toDomain()
		if err != nil {
			return nil, err
		}

		next := wallet.Balance
		switch movement.Type {
		case domain.MovementIncome:
			next = next.Add(movement.Amount)
		case domain.MovementExpense:
			next = next.Sub(movement.Amount)
		default:
			return nil, domain.ErrInvalidMovement
		}
		if next.IsNegative() {
			return nil, domain.ErrInsufficientFunds
		}

		doc := mongoMovement{
			WalletID:  oid,
			Amount:    movement.Amount.String(),
			Type:      string(movement.Type),
			Reason:    movement.Reason,
			CreatedAt: movement.CreatedAt,
		}
		if _, err := r.movements.InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("insert movement: %w", err)
		}

		if _, err := r.wallets.UpdateOne(sc, bson.M{"_id": oid}, bson.M{"$set": bson.M{"balance": next.String()}}); err != nil {
			return nil, fmt.Errorf("update balance: %w", err)
		}

		wallet.Balance = next
		updated = wallet
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// EnsureIndexes creates the wallet/ledger indexes.
func (r *WalletRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.wallets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	_, err := r.movements.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "wallet_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
