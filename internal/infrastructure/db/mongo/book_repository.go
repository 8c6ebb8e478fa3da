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
	"go.mongodb.org/mongo-driver/mongo/readconcern"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

const (
	booksCollection     = "books"
	exchangesCollection = "exchanges"
)

type BookRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{db: db, coll: db.Collection(booksCollection)}
}

// mongoBook is the persisted form. Price is stored as a string so the
// two-decimal value survives exactly.
type mongoBook struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Author      string             `bson:"author"`
	ISBN        string             `bson:"isbn,omitempty"`
	Description string             `bson:"description,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty"`
	Condition   string             `bson:"condition"`
	Price       string             `bson:"price"`
	Location    string             `bson:"location"`
	Available   bool               `bson:"available"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mb mongoBook) toDomain() (*domain.Book, error) {
	price, err := decimal.NewFromString(mb.Price)
	if err != nil {
		return nil, fmt.Errorf("decode book price %q: %w", mb.Price, err)
	}
	return &domain.Book{
		ID:          mb.ID.Hex(),
		Title:       mb.Title,
		Author:      mb.Author,
		ISBN:        mb.ISBN,
		Description: mb.Description,
		ImageURL:    mb.ImageURL,
		Condition:   domain.Condition(mb.Condition),
		Price:       price,
		Location:    mb.Location,
		Available:   mb.Available,
		OwnerID:     mb.OwnerID.Hex(),
		CreatedAt:   mb.CreatedAt.UTC(),
		UpdatedAt:   mb.UpdatedAt.UTC(),
	}, nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ownerID, err := primitive.ObjectIDFromHex(book.OwnerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := mongoBook{
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Description: book.Description,
		ImageURL:    book.ImageURL,
		Condition:   string(book.Condition),
		Price:       book.Price.String(),
		Location:    book.Location,
		Available:   book.Available,
		OwnerID:     ownerID,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	created := *book
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return r.withOwner(ctx, &created)
}

// FindByID returns the book with its owner projection populated.
func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	var mb mongoBook
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}

	book, err := mb.toDomain()
	if err != nil {
		return nil, err
	}
	return r.withOwner(ctx, book)
}

// List returns one page ordered by creation time descending plus the total
// count. Page query, count, and owner lookups run in one transaction with
// snapshot read concern, so the page and the totals observe the same state.
func (r *BookRepository) List(ctx context.Context, filter ports.ListBooksFilter) ([]*domain.Book, int64, error) {
	skip := int64((filter.Page - 1) * filter.Limit)
	limit := int64(filter.Limit)

	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, 0, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().SetReadConcern(readconcern.Snapshot())

	var books []*domain.Book
	var total int64

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		findOpts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit)

		cursor, err := r.coll.Find(sc, bson.M{}, findOpts)
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}

		var docs []mongoBook
		if err := cursor.All(sc, &docs); err != nil {
			return nil, fmt.Errorf("decode books: %w", err)
		}

		count, err := r.coll.CountDocuments(sc, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("count books: %w", err)
		}

		owners, err := r.ownerProjections(sc, docs)
		if err != nil {
			return nil, err
		}

		page := make([]*domain.Book, 0, len(docs))
		for _, mb := range docs {
			book, err := mb.toDomain()
			if err != nil {
				return nil, err
			}
			if owner, ok := owners[mb.OwnerID]; ok {
				book.Owner = owner
			}
			page = append(page, book)
		}

		books = page
		total = count
		return nil, nil
	}, txnOpts)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(book.ID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       book.Title,
		"author":      book.Author,
		"isbn":        book.ISBN,
		"description": book.Description,
		"image_url":   book.ImageURL,
		"condition":   string(book.Condition),
		"price":       book.Price.String(),
		"location":    book.Location,
		"available":   book.Available,
		"updated_at":  book.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBookNotFound
	}

	return r.FindByID(ctx, book.ID)
}

// Delete removes the book and cascades to its exchange rows in one
// transaction.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.coll.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return nil, fmt.Errorf("delete book: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrBookNotFound
		}
		if _, err := r.db.Collection(exchangesCollection).DeleteMany(sc, bson.M{"book_id": oid}); err != nil {
			return nil, fmt.Errorf("delete book exchanges: %w", err)
		}
		return nil, nil
	})
	return err
}

// EnsureIndexes creates the indexes the catalog queries rely on.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// withOwner populates the owner projection on a single book.
func (r *BookRepository) withOwner(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(book.OwnerID)
	if err != nil {
		return book, nil
	}

	var owner struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	err = r.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"name": 1})).
		Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return book, nil
		}
		return nil, fmt.Errorf("find book owner: %w", err)
	}

	book.Owner = &domain.Owner{ID: owner.ID.Hex(), Name: owner.Name}
	return book, nil
}

// ownerProjections resolves the {id,name} projections for a page of books
// with a single query.
func (r *BookRepository) ownerProjections(ctx context.Context, docs []mongoBook) (map[primitive.ObjectID]*domain.Owner, error) {
	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]struct{}, len(docs))
	for _, mb := range docs {
		if _, ok := seen[mb.OwnerID]; ok {
			continue
		}
		seen[mb.OwnerID] = struct{}{}
		ids = append(ids, mb.OwnerID)
	}
	if len(ids) == 0 {
		return map[primitive.ObjectID]*domain.Owner{}, nil
	}

	cursor, err := r.db.Collection(usersCollection).
		Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("find owners: %w", err)
	}

	var owners []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &owners); err != nil {
		return nil, fmt.Errorf("decode owners: %w", err)
	}

	out := make(map[primitive.ObjectID]*domain.Owner, len(owners))
	for _, o := range owners {
		out[o.ID] = &domain.Owner{ID: o.ID.Hex(), Name: o.Name}
	}
	return out, nil
}
