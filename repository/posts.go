package repository

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnet/models"
)

const (
	DefaultViralDays     int64 = 30
	DefaultViralMinLikes int64 = 10
	DefaultViralLimit    int64 = 50

	// MaxViralDays is the longest lookback whose window still fits a time.Duration.
	MaxViralDays = int64(math.MaxInt64 / int64(24*time.Hour))
)

// ViralFeedQuery selects the viral feed. A zero field means "use the
// default", so an explicit zero cannot be requested.
type ViralFeedQuery struct {
	Days     int64 `json:"days"`
	MinLikes int64 `json:"min_likes"`
	Limit    int64 `json:"limit"`
}

// Normalize applies defaults and rejects negative values and lookbacks
// longer than MaxViralDays.
func (q ViralFeedQuery) Normalize() (ViralFeedQuery, error) {
	if q.Days < 0 || q.MinLikes < 0 || q.Limit < 0 {
		return q, validationf("days, min_likes and limit must not be negative")
	}
	if q.Days > MaxViralDays {
		return q, validationf("days must not exceed %d, got %d", MaxViralDays, q.Days)
	}
	if q.Days == 0 {
		q.Days = DefaultViralDays
	}
	if q.MinLikes == 0 {
		q.MinLikes = DefaultViralMinLikes
	}
	if q.Limit == 0 {
		q.Limit = DefaultViralLimit
	}
	return q, nil
}

// CreatePost classifies and stores a new post. CreatedAt defaults to now.
func (r *Repository) CreatePost(ctx context.Context, post *models.Post) (primitive.ObjectID, error) {
	if post.UserID.IsZero() {
		return primitive.NilObjectID, validationf("user_id is required")
	}
	if post.LikesCount < 0 || post.CommentsCount < 0 {
		return primitive.NilObjectID, validationf("likes_count and comments_count must not be negative")
	}
	now := r.clock()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.Hashtags == nil {
		post.Hashtags = []string{}
	}
	if post.TaggedUsers == nil {
		post.TaggedUsers = []primitive.ObjectID{}
	}
	post.ID = primitive.NilObjectID
	ClassifyViral(post, now)

	res, err := r.posts.InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert post")
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("insert post: unexpected id type %T", res.InsertedID)
	}
	post.ID = id
	r.metrics.classified(post.IsViral)
	r.logger.WithField("post_id", id.Hex()).WithField("viral", post.IsViral).Info("post created")
	return id, nil
}

func (r *Repository) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.posts.FindOne(ctx, bson.D{{"_id", postID}}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrapf(ErrNotFound, "post %s", postID.Hex())
	}
	if err != nil {
		return nil, errors.Wrap(err, "find post")
	}
	return &post, nil
}

// PostsByDateRange lists a user's posts created within [start, end], newest first.
func (r *Repository) PostsByDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Post, error) {
	if start.After(end) {
		return nil, validationf("start_date must not be after end_date")
	}
	filter := bson.D{
		{"user_id", userID},
		{"created_at", bson.D{{"$gte", start}, {"$lte", end}}},
	}
	opts := options.Find().SetSort(bson.D{{"created_at", -1}, {"_id", -1}})
	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find posts by date range")
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "decode posts")
	}
	return posts, nil
}

// ViralFeed ranks recent viral posts by engagement score, highest first.
// Equal scores are ordered by post id so pages are reproducible.
func (r *Repository) ViralFeed(ctx context.Context, q ViralFeedQuery) ([]models.ViralPost, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	since := r.clock().Add(-time.Duration(q.Days) * 24 * time.Hour)
	r.logger.WithField("since", since).WithField("min_likes", q.MinLikes).Debug("viral feed requested")

	cursor, err := r.posts.Aggregate(ctx, viralFeedPipeline(since, q.MinLikes, q.Limit))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate viral feed")
	}
	items := []models.ViralPost{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode viral feed")
	}
	return items, nil
}

// viralFeedPipeline runs filter, join, derive, sort, limit, project in that
// order; the sort depends on the derived score.
func viralFeedPipeline(since time.Time, minLikes, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{
			{"created_at", bson.D{{"$gte", since}}},
			{"is_viral", true},
			{"likes_count", bson.D{{"$gte", minLikes}}},
		}),
		lookupStage(UsersCollection, "user_id", "_id", "user_info"),
		unwindStage("user_info"),
		bson.D{{"$addFields", bson.D{{"engagement_score", engagementScoreExpr()}}}},
		sortStage(bson.D{{"engagement_score", -1}, {"_id", 1}}),
		limitStage(limit),
		projectStage(bson.D{
			{"_id", 1},
			{"description", 1},
			{"created_at", 1},
			{"location", 1},
			{"hashtags", 1},
			{"likes_count", 1},
			{"comments_count", 1},
			{"engagement_score", 1},
			{"is_viral", 1},
			{"author", bson.D{
				{"username", "$user_info.username"},
				{"first_name", "$user_info.personal_info.first_name"},
				{"last_name", "$user_info.personal_info.last_name"},
			}},
		}),
	}
}
