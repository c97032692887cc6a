package database

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnet/repository"
)

// Indexes lists every index the application relies on, per collection. The
// unique pair indexes are what actually keep membership lists duplicate-free;
// the TTL index is the age-based retention rule for search history.
func Indexes() map[string][]mongo.IndexModel {
	ttl := int32(repository.SearchHistoryTTL.Seconds())
	return map[string][]mongo.IndexModel{
		repository.UsersCollection: {
			{Keys: bson.D{{"username", 1}}, Options: options.Index().SetName("username_unique").SetUnique(true)},
			{Keys: bson.D{{"email", 1}}, Options: options.Index().SetName("email_unique").SetUnique(true)},
			{Keys: bson.D{{"personal_info.location", 1}}, Options: options.Index().SetName("location_search")},
		},
		repository.PostsCollection: {
			{Keys: bson.D{{"hashtags", 1}}, Options: options.Index().SetName("hashtags_search")},
			{Keys: bson.D{{"is_viral", 1}, {"created_at", -1}}, Options: options.Index().SetName("viral_recent")},
			{Keys: bson.D{{"location", 1}}, Options: options.Index().SetName("location_filter")},
			{Keys: bson.D{{"likes_count", 1}}, Options: options.Index().SetName("likes_count_sort")},
			{Keys: bson.D{{"user_id", 1}, {"created_at", -1}}, Options: options.Index().SetName("user_posts_by_date")},
		},
		repository.RelationshipsCollection: {
			{Keys: bson.D{{"following_id", 1}}, Options: options.Index().SetName("following_lookup")},
			{Keys: bson.D{{"follower_id", 1}, {"following_id", 1}}, Options: options.Index().SetName("unique_relationship").SetUnique(true)},
		},
		repository.BestFriendsCollection: {
			{Keys: bson.D{{"user_id", 1}, {"friend_id", 1}}, Options: options.Index().SetName("unique_friendship").SetUnique(true)},
		},
		repository.SavedPostsCollection: {
			{Keys: bson.D{{"user_id", 1}, {"saved_at", -1}}, Options: options.Index().SetName("show_saved")},
			{Keys: bson.D{{"user_id", 1}, {"post_id", 1}}, Options: options.Index().SetName("unique_saved_post").SetUnique(true)},
		},
		repository.SearchHistoryCollection: {
			{Keys: bson.D{{"user_id", 1}, {"searched_at", -1}}, Options: options.Index().SetName("show_recent")},
			{Keys: bson.D{{"searched_at", 1}}, Options: options.Index().SetName("delete_after_90_days").SetExpireAfterSeconds(ttl)},
		},
	}
}

// EnsureIndexes creates any missing index. Existing indexes with the same
// definition are left alone by the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger logrus.FieldLogger) error {
	for coll, models := range Indexes() {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return errors.Wrapf(err, "create indexes on %s", coll)
		}
		logger.WithField("collection", coll).WithField("indexes", names).Debug("indexes ensured")
	}
	return nil
}
