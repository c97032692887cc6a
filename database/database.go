package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectAttempts = 3

// connectRetryWait is the pause between failed connection attempts.
var connectRetryWait = 2 * time.Second

// Store is the document store handle built once at startup and handed to
// every component that needs it.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials uri, retrying a few times, and pings the primary.
func Connect(ctx context.Context, uri, dbName string, logger logrus.FieldLogger) (*Store, error) {
	var lastErr error
	for i := 1; i <= connectAttempts; i++ {
		store, err := connectOnce(ctx, uri, dbName)
		if err == nil {
			logger.WithField("database", dbName).Info("connected to MongoDB")
			return store, nil
		}
		lastErr = err
		logger.WithError(err).WithField("attempt", i).Warn("MongoDB connection attempt failed")
		if i == connectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "connect to MongoDB")
		case <-time.After(connectRetryWait):
		}
	}
	return nil, errors.Wrapf(lastErr, "connect to MongoDB after %d attempts", connectAttempts)
}

func connectOnce(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Store{Client: client, DB: client.Database(dbName)}, nil
}

// Ping reports whether the store answers within the context deadline.
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

func (s *Store) Disconnect(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}
