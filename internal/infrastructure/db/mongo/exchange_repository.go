package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookloop/bookloop-api/internal/core/domain"
)

type ExchangeRepository struct {
	coll *mongo.Collection
}

func NewExchangeRepository(db *mongo.Database) *ExchangeRepository {
	return &ExchangeRepository{coll: db.Collection(exchangesCollection)}
}

type mongoExchange struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	BookID     primitive.ObjectID `bson:"book_id"`
	SenderID   primitive.ObjectID `bson:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (me mongoExchange) toDomain() *domain.Exchange {
	return &domain.Exchange{
		ID:         me.ID.Hex(),
		BookID:     me.BookID.Hex(),
		SenderID:   me.SenderID.Hex(),
		ReceiverID: me.ReceiverID.Hex(),
		Status:     domain.ExchangeStatus(me.Status),
		CreatedAt:  me.CreatedAt.UTC(),
	}
}

func (r *ExchangeRepository) Create(ctx context.Context, exchange *domain.Exchange) (*domain.Exchange, error) {
	bookID, err := primitive.ObjectIDFromHex(exchange.BookID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}
	senderID, err := primitive.ObjectIDFromHex(exchange.SenderID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	receiverID, err := primitive.ObjectIDFromHex(exchange.ReceiverID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := mongoExchange{
		BookID:     bookID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     string(exchange.Status),
		CreatedAt:  exchange.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert exchange: %w", err)
	}

	created := *exchange
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ExchangeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Exchange, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": oid},
		bson.M{"receiver_id": oid},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}

	var docs []mongoExchange
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode exchanges: %w", err)
	}

	out := make([]*domain.Exchange, 0, len(docs))
	for _, me := range docs {
		out = append(out, me.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the participant and cascade-lookup indexes.
func (r *ExchangeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "book_id", Value: 1}}},
		{Keys: bson.D{{Key: "sender_id", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
