package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework-grader/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStorage indicates a database connection or write failure.
var ErrStorage = errors.New("grade storage error")

// RecordStore persists grade records. Append-only: records are never
// updated or deleted.
type RecordStore interface {
	Insert(ctx context.Context, record models.GradeRecord) error
	FindByMessageID(ctx context.Context, messageID string) (*models.GradeRecord, error)
	Close(ctx context.Context) error
}

type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store bound to the
// configured database and collection.
func NewMongoStore(ctx context.Context, cfg models.MongoConfig) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrStorage, err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", ErrStorage, err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Insert appends one grade record
func (s *MongoStore) Insert(ctx context.Context, record models.GradeRecord) error {
	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("%w: insert: %v", ErrStorage, err)
	}
	return nil
}

// FindByMessageID returns the stored record for the given message ID,
// or mongo.ErrNoDocuments wrapped in ErrStorage when absent.
func (s *MongoStore) FindByMessageID(ctx context.Context, messageID string) (*models.GradeRecord, error) {
	var record models.GradeRecord
	err := s.collection.FindOne(ctx, bson.M{"message_id": messageID}).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrStorage, err)
	}
	return &record, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
