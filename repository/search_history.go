package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnet/models"
)

const (
	// SearchHistoryCap is the number of most recent entries kept per user.
	SearchHistoryCap = 10
	// SearchHistoryTTL is the age after which the store's TTL index expires an
	// entry, independently of the cap.
	SearchHistoryTTL = 90 * 24 * time.Hour

	DefaultSearchHistoryLimit int64 = 10
)

// AddSearch appends an entry, then trims the user's history to the
// SearchHistoryCap most recent. Duplicates of the same searched user are kept.
// If the append succeeds but the trim fails, a *PartialWriteError is returned
// and the next successful append trims again.
func (r *Repository) AddSearch(ctx context.Context, userID, searchedUserID primitive.ObjectID) (primitive.ObjectID, error) {
	entry := models.SearchHistoryEntry{
		UserID:         userID,
		SearchedUserID: searchedUserID,
		SearchedAt:     r.clock(),
	}
	res, err := r.searchHistory.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert search history entry")
	}
	id, _ := res.InsertedID.(primitive.ObjectID)

	trimmed, err := r.trimSearchHistory(ctx, userID)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", userID.Hex()).Warn("search history left above cap")
		return id, &PartialWriteError{Op: "trim search history", Err: err}
	}
	if trimmed > 0 {
		r.logger.WithField("user_id", userID.Hex()).WithField("trimmed", trimmed).Debug("search history trimmed")
	}
	return id, nil
}

// trimSearchHistory deletes every entry beyond the cap and returns how many
// were removed. Entries already expired by the TTL index are simply not
// counted; deleting by id never fails because of them.
func (r *Repository) trimSearchHistory(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	opts := options.Find().
		SetSort(bson.D{{"searched_at", -1}, {"_id", -1}}).
		SetProjection(bson.D{{"_id", 1}, {"searched_at", 1}})
	cursor, err := r.searchHistory.Find(ctx, bson.D{{"user_id", userID}}, opts)
	if err != nil {
		return 0, errors.Wrap(err, "list search history")
	}
	var entries []models.SearchHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return 0, errors.Wrap(err, "decode search history")
	}

	overflow := overflowIDs(entries, SearchHistoryCap)
	if len(overflow) == 0 {
		return 0, nil
	}
	res, err := r.searchHistory.DeleteMany(ctx, bson.D{{"_id", bson.D{{"$in", overflow}}}})
	if err != nil {
		return 0, errors.Wrap(err, "delete overflow search history")
	}
	r.metrics.trimmed(res.DeletedCount)
	return res.DeletedCount, nil
}

// overflowIDs returns the ids past the first keep entries of a list already
// sorted most recent first.
func overflowIDs(entries []models.SearchHistoryEntry, keep int) []primitive.ObjectID {
	if len(entries) <= keep {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(entries)-keep)
	for _, e := range entries[keep:] {
		ids = append(ids, e.ID)
	}
	return ids
}

func (r *Repository) SearchHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.SearchHistoryItem, error) {
	limit, err := limitOrDefault(limit, DefaultSearchHistoryLimit)
	if err != nil {
		return nil, err
	}
	cursor, err := r.searchHistory.Aggregate(ctx, searchHistoryPipeline(userID, limit))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate search history")
	}
	items := []models.SearchHistoryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode search history")
	}
	return items, nil
}

func searchHistoryPipeline(userID primitive.ObjectID, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{"user_id", userID}}),
		lookupStage(UsersCollection, "searched_user_id", "_id", "searched_user"),
		unwindStage("searched_user"),
		sortStage(bson.D{{"searched_at", -1}, {"_id", -1}}),
		limitStage(limit),
		projectStage(bson.D{
			{"_id", 0},
			{"searched_user_id", 1},
			{"searched_username", "$searched_user.username"},
			{"searched_at", 1},
		}),
	}
}
