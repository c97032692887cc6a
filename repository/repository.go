package repository

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names.
const (
	UsersCollection         = "users"
	PostsCollection         = "posts"
	RelationshipsCollection = "relationships"
	BestFriendsCollection   = "best_friends"
	SavedPostsCollection    = "saved_posts"
	SearchHistoryCollection = "search_history"
)

// Repository computes every view and performs every write against the
// document store. It holds no state between calls.
type Repository struct {
	users         *mongo.Collection
	posts         *mongo.Collection
	relationships *mongo.Collection
	bestFriends   *mongo.Collection
	savedPosts    *mongo.Collection
	searchHistory *mongo.Collection

	logger  logrus.FieldLogger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*Repository)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Repository) { r.metrics = m }
}

func New(db *mongo.Database, logger logrus.FieldLogger, opts ...Option) *Repository {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	r := &Repository{
		users:         db.Collection(UsersCollection),
		posts:         db.Collection(PostsCollection),
		relationships: db.Collection(RelationshipsCollection),
		bestFriends:   db.Collection(BestFriendsCollection),
		savedPosts:    db.Collection(SavedPostsCollection),
		searchHistory: db.Collection(SearchHistoryCollection),
		logger:        logger,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// clock returns the current time truncated to the store's millisecond precision.
func (r *Repository) clock() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func limitOrDefault(limit, def int64) (int64, error) {
	if limit < 0 {
		return 0, validationf("limit must not be negative, got %d", limit)
	}
	if limit == 0 {
		return def, nil
	}
	return limit, nil
}
