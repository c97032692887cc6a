package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func newMockRepo(mt *mtest.T) *Repository {
	return New(mt.DB, nil, WithClock(fixedClock))
}

func emptyCursor(ns string) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
}

func duplicateKeyResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

func deletedResponse(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n})
}

// stageNames returns the operator of each pipeline stage in order.
func stageNames(p mongo.Pipeline) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

// stageBody returns the body of the first stage with the given operator.
func stageBody(t *testing.T, p mongo.Pipeline, op string) interface{} {
	t.Helper()
	for _, stage := range p {
		if stage[0].Key == op {
			return stage[0].Value
		}
	}
	t.Fatalf("pipeline has no %s stage", op)
	return nil
}
