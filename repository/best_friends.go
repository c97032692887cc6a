package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"socialnet/models"
)

const DefaultBestFriendsLimit int64 = 20

func (r *Repository) AddBestFriend(ctx context.Context, userID, friendID primitive.ObjectID) (primitive.ObjectID, error) {
	if userID == friendID {
		return primitive.NilObjectID, validationf("a user cannot be their own best friend")
	}
	entry := models.BestFriend{
		UserID:   userID,
		FriendID: friendID,
		AddedAt:  r.clock(),
	}
	return r.addMembership(ctx, r.bestFriends, BestFriendsCollection, bestFriendKey(userID, friendID), entry)
}

func (r *Repository) RemoveBestFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	return r.removeMembership(ctx, r.bestFriends, BestFriendsCollection, bestFriendKey(userID, friendID))
}

func (r *Repository) BestFriends(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.BestFriendItem, error) {
	limit, err := limitOrDefault(limit, DefaultBestFriendsLimit)
	if err != nil {
		return nil, err
	}
	cursor, err := r.bestFriends.Aggregate(ctx, bestFriendsPipeline(userID, limit))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate best friends")
	}
	items := []models.BestFriendItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode best friends")
	}
	return items, nil
}

func bestFriendKey(userID, friendID primitive.ObjectID) bson.D {
	return bson.D{{"user_id", userID}, {"friend_id", friendID}}
}

// bestFriendsPipeline lists friends oldest first, so the list keeps the order
// in which friends were added.
func bestFriendsPipeline(userID primitive.ObjectID, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{"user_id", userID}}),
		lookupStage(UsersCollection, "friend_id", "_id", "friend"),
		unwindStage("friend"),
		sortStage(bson.D{{"added_at", 1}, {"_id", 1}}),
		limitStage(limit),
		projectStage(bson.D{
			{"_id", 0},
			{"friend_id", 1},
			{"username", "$friend.username"},
			{"full_name", fullNameExpr("friend")},
			{"added_at", 1},
		}),
	}
}
