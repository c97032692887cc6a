package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// addMembership inserts doc unless a record already matches key. The lookup is
// only a fast path: the unique index on the key pair decides concurrent adds,
// and its duplicate-key failure is reported as ErrAlreadyExists too.
func (r *Repository) addMembership(ctx context.Context, coll *mongo.Collection, list string, key bson.D, doc interface{}) (primitive.ObjectID, error) {
	err := coll.FindOne(ctx, key, options.FindOne().SetProjection(bson.D{{"_id", 1}})).Err()
	switch {
	case err == nil:
		r.metrics.membership(list, "add", "exists")
		return primitive.NilObjectID, errors.Wrapf(ErrAlreadyExists, "%s entry", list)
	case !errors.Is(err, mongo.ErrNoDocuments):
		r.metrics.membership(list, "add", "error")
		return primitive.NilObjectID, errors.Wrapf(err, "check %s entry", list)
	}
	return r.insertMembership(ctx, coll, list, doc)
}

// insertMembership inserts doc and maps a unique-index violation to ErrAlreadyExists.
func (r *Repository) insertMembership(ctx context.Context, coll *mongo.Collection, list string, doc interface{}) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.metrics.membership(list, "add", "exists")
			return primitive.NilObjectID, errors.Wrapf(ErrAlreadyExists, "%s entry", list)
		}
		r.metrics.membership(list, "add", "error")
		return primitive.NilObjectID, errors.Wrapf(err, "insert %s entry", list)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		r.metrics.membership(list, "add", "error")
		return primitive.NilObjectID, errors.Errorf("insert %s entry: unexpected id type %T", list, res.InsertedID)
	}
	r.metrics.membership(list, "add", "ok")
	r.logger.WithField("list", list).WithField("id", id.Hex()).Info("membership added")
	return id, nil
}

// removeMembership deletes the record matching key, or reports ErrNotFound.
func (r *Repository) removeMembership(ctx context.Context, coll *mongo.Collection, list string, key bson.D) error {
	res, err := coll.DeleteOne(ctx, key)
	if err != nil {
		r.metrics.membership(list, "remove", "error")
		return errors.Wrapf(err, "delete %s entry", list)
	}
	if res.DeletedCount == 0 {
		r.metrics.membership(list, "remove", "missing")
		return errors.Wrapf(ErrNotFound, "%s entry", list)
	}
	r.metrics.membership(list, "remove", "ok")
	r.logger.WithField("list", list).Info("membership removed")
	return nil
}
