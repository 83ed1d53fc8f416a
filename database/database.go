package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"styledecor-server/config"
)

const (
	ServicesCollection = "services"
	BookingsCollection = "bookings"
	PaymentsCollection = "payments"
)

// Store owns the Mongo client and the three collections. It is built once at
// start-up and passed to whoever needs storage.
type Store struct {
	client   *mongo.Client
	services *mongo.Collection
	bookings *mongo.Collection
	payments *mongo.Collection
	log      *zap.Logger
}

// Connect dials the cluster and pings it before returning.
func Connect(ctx context.Context, cfg *config.Database, log *zap.Logger) (*Store, error) {
	uri, err := cfg.MongoURI()
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("db is not available: %w", err)
	}
	log.Info("connected to mongodb", zap.String("database", cfg.DBName))

	store := NewStore(client.Database(cfg.DBName), log)
	store.client = client
	return store, nil
}

// NewStore wraps an already connected database.
func NewStore(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		services: db.Collection(ServicesCollection),
		bookings: db.Collection(BookingsCollection),
		payments: db.Collection(PaymentsCollection),
		log:      log,
	}
}

// EnsureIndexes creates the unique indexes that make payment confirmation
// idempotent under concurrency.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	paymentIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_transaction_id"),
		},
		{
			Keys:    bson.D{{Key: "trackingId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_tracking_id"),
		},
		{
			Keys:    bson.D{{Key: "customerEmail", Value: 1}},
			Options: options.Index().SetName("customer_email"),
		},
	}
	if _, err := s.payments.Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("cannot create payment indexes: %w", err)
	}

	bookingIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "trackingId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_tracking_id").
				SetPartialFilterExpression(bson.D{{Key: "trackingId", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
		{
			Keys:    bson.D{{Key: "userEmail", Value: 1}},
			Options: options.Index().SetName("user_email"),
		},
	}
	if _, err := s.bookings.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("cannot create booking indexes: %w", err)
	}

	s.log.Info("storage indexes ensured")
	return nil
}

// Close disconnects the client created by Connect. It is a no-op for stores
// built with NewStore.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
