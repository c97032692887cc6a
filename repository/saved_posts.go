package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"socialnet/models"
)

const DefaultSavedPostsLimit int64 = 50

// SavePost bookmarks postID for userID under collectionName, which defaults to
// models.DefaultCollectionName when blank.
func (r *Repository) SavePost(ctx context.Context, userID, postID primitive.ObjectID, collectionName string) (primitive.ObjectID, error) {
	collectionName = strings.TrimSpace(collectionName)
	if collectionName == "" {
		collectionName = models.DefaultCollectionName
	}
	entry := models.SavedPost{
		UserID:         userID,
		PostID:         postID,
		SavedAt:        r.clock(),
		CollectionName: collectionName,
	}
	return r.addMembership(ctx, r.savedPosts, SavedPostsCollection, savedPostKey(userID, postID), entry)
}

func (r *Repository) UnsavePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.removeMembership(ctx, r.savedPosts, SavedPostsCollection, savedPostKey(userID, postID))
}

func (r *Repository) SavedPosts(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.SavedPostItem, error) {
	limit, err := limitOrDefault(limit, DefaultSavedPostsLimit)
	if err != nil {
		return nil, err
	}
	cursor, err := r.savedPosts.Aggregate(ctx, savedPostsPipeline(userID, limit))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate saved posts")
	}
	items := []models.SavedPostItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode saved posts")
	}
	return items, nil
}

func savedPostKey(userID, postID primitive.ObjectID) bson.D {
	return bson.D{{"user_id", userID}, {"post_id", postID}}
}

// savedPostsPipeline joins each bookmark to its post and the post to its
// author; bookmarks of deleted posts or authors are dropped.
func savedPostsPipeline(userID primitive.ObjectID, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{"user_id", userID}}),
		lookupStage(PostsCollection, "post_id", "_id", "post"),
		unwindStage("post"),
		lookupStage(UsersCollection, "post.user_id", "_id", "post_author"),
		unwindStage("post_author"),
		sortStage(bson.D{{"saved_at", -1}, {"_id", 1}}),
		limitStage(limit),
		projectStage(bson.D{
			{"_id", 0},
			{"post_id", "$post._id"},
			{"saved_at", 1},
			{"collection_name", 1},
			{"post_description", "$post.description"},
			{"post_created_at", "$post.created_at"},
			{"author_username", "$post_author.username"},
			{"likes_count", "$post.likes_count"},
			{"comments_count", "$post.comments_count"},
		}),
	}
}
