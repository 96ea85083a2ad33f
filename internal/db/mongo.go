package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollVideos    = "videos"
	CollUsers     = "users"
	CollSettings  = "settings"
	CollAnalytics = "analytics"
)

const (
	maxRetries        = 3
	initialRetryDelay = 2 * time.Second
	connectTimeout    = 10 * time.Second
	defaultOpTimeout  = 10 * time.Second
)

// Options configures the MongoDB connection.
type Options struct {
	URI      string
	Database string
	// OpTimeout bounds every operation issued through the client.
	OpTimeout time.Duration
}

// Store is an open MongoDB handle. It is created by Open and must be
// released with Close; components receive it explicitly.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects, pings and ensures indexes. The connection is attempted
// maxRetries times with a doubling delay.
func Open(ctx context.Context, opts Options) (*Store, error) {
	uri := strings.TrimSpace(opts.URI)
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultOpTimeout
	}

	clientOpts := options.Client().ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout).
		SetConnectTimeout(connectTimeout).
		SetTimeout(opts.OpTimeout).
		SetMaxPoolSize(50).
		SetMinPoolSize(2)

	var (
		client *mongo.Client
		err    error
	)
	delay := initialRetryDelay
	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Info().Int("attempt", attempt).Int("max", maxRetries).Msg("connecting to mongodb")

		client, err = connect(ctx, clientOpts)
		if err == nil {
			break
		}

		log.Error().Err(err).Int("attempt", attempt).Msg("mongodb connection failed")
		if attempt == maxRetries {
			return nil, fmt.Errorf("mongodb connection failed after %d attempts: %w", maxRetries, err)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		delay *= 2
	}

	s := &Store{client: client, db: client.Database(opts.Database)}
	if err := s.EnsureIndexes(ctx); err != nil {
		log.Error().Err(err).Msg("mongodb index creation failed")
	}

	log.Info().Str("database", opts.Database).Msg("mongodb connected")
	return s, nil
}

func connect(ctx context.Context, clientOpts *options.ClientOptions) (*mongo.Client, error) {
	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, clientOpts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect failed")
		return err
	}
	log.Info().Msg("mongodb connection closed")
	return nil
}

// EnsureIndexes creates the indexes implied by the catalog, registry and
// analytics query patterns. Existing indexes are left alone.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		CollVideos: {
			{Keys: bson.D{{Key: "video_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("video_id_unique")},
			{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index().SetName("category_single")},
			{Keys: bson.D{{Key: "database", Value: 1}}, Options: options.Index().SetName("database_single")},
			{Keys: bson.D{{Key: "added_at", Value: -1}}, Options: options.Index().SetName("added_at_single")},
			{Keys: bson.D{{Key: "views", Value: -1}}, Options: options.Index().SetName("views_single")},
		},
		CollUsers: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("user_id_unique")},
			{Keys: bson.D{{Key: "joined_at", Value: -1}}, Options: options.Index().SetName("joined_at_single")},
			{Keys: bson.D{{Key: "last_active", Value: -1}}, Options: options.Index().SetName("last_active_single")},
		},
		CollAnalytics: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: options.Index().SetName("timestamp_single")},
			{Keys: bson.D{{Key: "video_id", Value: 1}}, Options: options.Index().SetName("video_id_single")},
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetName("user_id_single")},
		},
	}

	for coll, models := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	log.Info().Msg("mongodb indexes ensured")
	return nil
}
