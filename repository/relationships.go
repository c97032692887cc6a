package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"socialnet/models"
)

const DefaultFollowingLimit int64 = 100

// Follow creates the follow edge followerID -> followingID. An inactive edge
// for the pair is reactivated in place so the pair keeps a single document.
func (r *Repository) Follow(ctx context.Context, followerID, followingID primitive.ObjectID) (primitive.ObjectID, error) {
	if followerID == followingID {
		return primitive.NilObjectID, validationf("a user cannot follow themselves")
	}
	key := followKey(followerID, followingID)

	var existing models.Relationship
	err := r.relationships.FindOne(ctx, key).Decode(&existing)
	switch {
	case err == nil && existing.Status == models.RelationshipActive:
		r.metrics.membership(RelationshipsCollection, "add", "exists")
		return primitive.NilObjectID, errors.Wrap(ErrAlreadyExists, "follow edge")
	case err == nil:
		_, err = r.relationships.UpdateOne(ctx, bson.D{{"_id", existing.ID}}, bson.D{{"$set", bson.D{
			{"status", models.RelationshipActive},
			{"followed_at", r.clock()},
		}}})
		if err != nil {
			r.metrics.membership(RelationshipsCollection, "add", "error")
			return primitive.NilObjectID, errors.Wrap(err, "reactivate follow edge")
		}
		r.metrics.membership(RelationshipsCollection, "add", "ok")
		return existing.ID, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		r.metrics.membership(RelationshipsCollection, "add", "error")
		return primitive.NilObjectID, errors.Wrap(err, "check follow edge")
	}

	edge := models.Relationship{
		FollowerID:  followerID,
		FollowingID: followingID,
		FollowedAt:  r.clock(),
		Status:      models.RelationshipActive,
	}
	return r.insertMembership(ctx, r.relationships, RelationshipsCollection, edge)
}

func (r *Repository) Unfollow(ctx context.Context, followerID, followingID primitive.ObjectID) error {
	return r.removeMembership(ctx, r.relationships, RelationshipsCollection, followKey(followerID, followingID))
}

// Following lists the users userID actively follows, most recent first.
func (r *Repository) Following(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.FollowedUser, error) {
	limit, err := limitOrDefault(limit, DefaultFollowingLimit)
	if err != nil {
		return nil, err
	}
	cursor, err := r.relationships.Aggregate(ctx, followingPipeline(userID, limit))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate following")
	}
	items := []models.FollowedUser{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode following")
	}
	return items, nil
}

func followKey(followerID, followingID primitive.ObjectID) bson.D {
	return bson.D{{"follower_id", followerID}, {"following_id", followingID}}
}

func followingPipeline(userID primitive.ObjectID, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{
			{"follower_id", userID},
			{"status", models.RelationshipActive},
		}),
		lookupStage(UsersCollection, "following_id", "_id", "followed_user"),
		unwindStage("followed_user"),
		sortStage(bson.D{{"followed_at", -1}, {"_id", 1}}),
		limitStage(limit),
		projectStage(bson.D{
			{"_id", 0},
			{"followed_user_id", "$following_id"},
			{"username", "$followed_user.username"},
			{"full_name", fullNameExpr("followed_user")},
			{"location", "$followed_user.personal_info.location"},
			{"followed_at", 1},
		}),
	}
}

// activeEdgesLookup joins the active relationships whose field equals the
// current user's _id, keeping only their ids.
func activeEdgesLookup(field, as string) bson.D {
	return bson.D{{"$lookup", bson.D{
		{"from", RelationshipsCollection},
		{"let", bson.D{{"userId", "$_id"}}},
		{"pipeline", mongo.Pipeline{
			matchStage(bson.D{{"$expr", bson.D{{"$and", bson.A{
				bson.D{{"$eq", bson.A{"$" + field, "$$userId"}}},
				bson.D{{"$eq", bson.A{"$status", models.RelationshipActive}}},
			}}}}}),
			projectStage(bson.D{{"_id", 1}}),
		}},
		{"as", as},
	}}}
}
