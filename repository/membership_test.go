package repository

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"socialnet/models"
)

func TestAddBestFriend(t *testing.T) {
	mt := newMockT(t)
	userID, friendID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("new pair", func(mt *mtest.T) {
		reg := prometheus.NewRegistry()
		metrics := NewMetrics(reg)
		repo := New(mt.DB, nil, WithClock(fixedClock), WithMetrics(metrics))
		mt.AddMockResponses(
			emptyCursor("socialnet.best_friends"),
			mtest.CreateSuccessResponse(),
		)

		id, err := repo.AddBestFriend(context.Background(), userID, friendID)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
		assert.Equal(mt, 1.0, testutil.ToFloat64(metrics.MembershipWrites.WithLabelValues(BestFriendsCollection, "add", "ok")))
	})

	mt.Run("pair already present", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialnet.best_friends", mtest.FirstBatch,
			bson.D{{"_id", primitive.NewObjectID()}}))

		id, err := repo.AddBestFriend(context.Background(), userID, friendID)
		assert.ErrorIs(mt, err, ErrAlreadyExists)
		assert.True(mt, id.IsZero())
	})

	mt.Run("concurrent add loses on unique index", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			emptyCursor("socialnet.best_friends"),
			duplicateKeyResponse(),
		)

		_, err := repo.AddBestFriend(context.Background(), userID, friendID)
		assert.ErrorIs(mt, err, ErrAlreadyExists)
	})

	mt.Run("self", func(mt *mtest.T) {
		repo := newMockRepo(mt)

		_, err := repo.AddBestFriend(context.Background(), userID, userID)
		assert.ErrorIs(mt, err, ErrValidation)
	})
}

func TestRemoveBestFriend(t *testing.T) {
	mt := newMockT(t)
	userID, friendID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("present", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(deletedResponse(1))

		assert.NoError(mt, repo.RemoveBestFriend(context.Background(), userID, friendID))
	})

	mt.Run("absent", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(deletedResponse(0))

		err := repo.RemoveBestFriend(context.Background(), userID, friendID)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestSavePost(t *testing.T) {
	mt := newMockT(t)
	userID, postID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("defaults collection name", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			emptyCursor("socialnet.saved_posts"),
			mtest.CreateSuccessResponse(),
		)

		_, err := repo.SavePost(context.Background(), userID, postID, "  ")
		require.NoError(mt, err)

		started := mt.GetAllStartedEvents()
		require.Len(mt, started, 2)
		assert.Equal(mt, "insert", started[1].CommandName)
		docs, err := started[1].Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		assert.Equal(mt, models.DefaultCollectionName, docs[0].Document().Lookup("collection_name").StringValue())
	})

	mt.Run("already saved", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialnet.saved_posts", mtest.FirstBatch,
			bson.D{{"_id", primitive.NewObjectID()}}))

		_, err := repo.SavePost(context.Background(), userID, postID, "Trips")
		assert.ErrorIs(mt, err, ErrAlreadyExists)
	})

	mt.Run("unsave missing", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(deletedResponse(0))

		assert.ErrorIs(mt, repo.UnsavePost(context.Background(), userID, postID), ErrNotFound)
	})
}

func TestFollow(t *testing.T) {
	mt := newMockT(t)
	follower, followed := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("new edge", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			emptyCursor("socialnet.relationships"),
			mtest.CreateSuccessResponse(),
		)

		id, err := repo.Follow(context.Background(), follower, followed)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
	})

	mt.Run("active edge", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "socialnet.relationships", mtest.FirstBatch, bson.D{
			{"_id", primitive.NewObjectID()},
			{"follower_id", follower},
			{"following_id", followed},
			{"status", "active"},
		}))

		_, err := repo.Follow(context.Background(), follower, followed)
		assert.ErrorIs(mt, err, ErrAlreadyExists)
	})

	mt.Run("inactive edge is reactivated", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		edgeID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "socialnet.relationships", mtest.FirstBatch, bson.D{
				{"_id", edgeID},
				{"follower_id", follower},
				{"following_id", followed},
				{"status", "inactive"},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		id, err := repo.Follow(context.Background(), follower, followed)
		require.NoError(mt, err)
		assert.Equal(mt, edgeID, id)
	})

	mt.Run("self", func(mt *mtest.T) {
		repo := newMockRepo(mt)

		_, err := repo.Follow(context.Background(), follower, follower)
		assert.ErrorIs(mt, err, ErrValidation)
	})
}
