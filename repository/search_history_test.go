package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"socialnet/models"
)

func historyEntries(n int) []models.SearchHistoryEntry {
	entries := make([]models.SearchHistoryEntry, n)
	for i := range entries {
		entries[i] = models.SearchHistoryEntry{
			ID:         primitive.NewObjectID(),
			SearchedAt: testNow.Add(-time.Duration(i) * time.Minute),
		}
	}
	return entries
}

func historyBatch(entries []models.SearchHistoryEntry) []bson.D {
	docs := make([]bson.D, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, bson.D{{"_id", e.ID}, {"searched_at", e.SearchedAt}})
	}
	return docs
}

func TestOverflowIDs(t *testing.T) {
	assert.Nil(t, overflowIDs(nil, SearchHistoryCap))
	assert.Nil(t, overflowIDs(historyEntries(SearchHistoryCap), SearchHistoryCap))

	entries := historyEntries(13)
	got := overflowIDs(entries, SearchHistoryCap)
	require.Len(t, got, 3)
	assert.Equal(t, []primitive.ObjectID{entries[10].ID, entries[11].ID, entries[12].ID}, got)
}

func TestAddSearch(t *testing.T) {
	mt := newMockT(t)
	userID, searched := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("under cap", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, "socialnet.search_history", mtest.FirstBatch, historyBatch(historyEntries(4))...),
		)

		id, err := repo.AddSearch(context.Background(), userID, searched)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
		assert.Len(mt, mt.GetAllStartedEvents(), 2)
	})

	mt.Run("trims oldest beyond cap", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		entries := historyEntries(SearchHistoryCap + 1)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, "socialnet.search_history", mtest.FirstBatch, historyBatch(entries)...),
			deletedResponse(1),
		)

		_, err := repo.AddSearch(context.Background(), userID, searched)
		require.NoError(mt, err)

		started := mt.GetAllStartedEvents()
		require.Len(mt, started, 3)
		assert.Equal(mt, "delete", started[2].CommandName)
		deletes, err := started[2].Command.Lookup("deletes").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, deletes, 1)
		values, err := deletes[0].Document().Lookup("q", "_id", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 1)
		assert.Equal(mt, entries[SearchHistoryCap].ID, values[0].ObjectID())
	})

	mt.Run("entry already expired by ttl", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, "socialnet.search_history", mtest.FirstBatch, historyBatch(historyEntries(SearchHistoryCap+1))...),
			deletedResponse(0),
		)

		_, err := repo.AddSearch(context.Background(), userID, searched)
		assert.NoError(mt, err)
	})

	mt.Run("trim failure is a partial write", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"}),
		)

		id, err := repo.AddSearch(context.Background(), userID, searched)
		assert.False(mt, id.IsZero())
		assert.ErrorIs(mt, err, ErrPartialWrite)
		var partial *PartialWriteError
		require.ErrorAs(mt, err, &partial)
		assert.Equal(mt, "trim search history", partial.Op)
	})
}

func TestSearchHistoryPipeline(t *testing.T) {
	p := searchHistoryPipeline(primitive.NewObjectID(), 5)

	assert.Equal(t, []string{"$match", "$lookup", "$unwind", "$sort", "$limit", "$project"}, stageNames(p))
	assert.Equal(t, bson.D{{"searched_at", -1}, {"_id", -1}}, stageBody(t, p, "$sort"))
	assert.Equal(t, int64(5), stageBody(t, p, "$limit"))
}

func TestSearchHistoryRejectsNegativeLimit(t *testing.T) {
	mt := newMockT(t)
	mt.Run("negative", func(mt *mtest.T) {
		repo := newMockRepo(mt)

		_, err := repo.SearchHistory(context.Background(), primitive.NewObjectID(), -1)
		assert.ErrorIs(mt, err, ErrValidation)
	})
}
