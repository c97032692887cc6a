package repository

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"socialnet/models"
)

// PostCounters is the slice of a post the profile summary needs.
type PostCounters struct {
	LikesCount    int64 `bson:"likes_count"`
	CommentsCount int64 `bson:"comments_count"`
	IsViral       bool  `bson:"is_viral"`
}

type profileRow struct {
	ID             primitive.ObjectID  `bson:"_id"`
	Username       string              `bson:"username"`
	PersonalInfo   models.PersonalInfo `bson:"personal_info"`
	Stats          models.UserStats    `bson:"stats"`
	Posts          []PostCounters      `bson:"user_posts"`
	FollowersCount int64               `bson:"followers_count"`
	FollowingCount int64               `bson:"following_count"`
}

// ProfileSummary fans out from one user to their posts, followers and
// followees in a single aggregation. A missing user is ErrNotFound.
func (r *Repository) ProfileSummary(ctx context.Context, userID primitive.ObjectID) (*models.ProfileSummary, error) {
	cursor, err := r.users.Aggregate(ctx, profilePipeline(userID))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate profile summary")
	}
	var rows []profileRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode profile summary")
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "user %s", userID.Hex())
	}
	row := rows[0]

	summary := Summarize(row.Posts, row.FollowersCount, row.FollowingCount)
	summary.MainLocation = row.PersonalInfo.Location
	return &models.ProfileSummary{
		ID:           row.ID,
		Username:     row.Username,
		PersonalInfo: row.PersonalInfo,
		Stats:        row.Stats,
		Summary:      summary,
	}, nil
}

// Summarize derives the profile counters from a user's posts.
func Summarize(posts []PostCounters, followers, following int64) models.ProfileStats {
	s := models.ProfileStats{
		TotalPosts:     int64(len(posts)),
		FollowersCount: followers,
		FollowingCount: following,
	}
	for _, p := range posts {
		if p.IsViral {
			s.ViralPostsCount++
		}
		s.TotalLikes += p.LikesCount
		s.TotalComments += p.CommentsCount
	}
	if s.TotalPosts > 0 {
		s.AvgLikesPerPost = round2(float64(s.TotalLikes) / float64(s.TotalPosts))
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func profilePipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{"_id", userID}}),
		bson.D{{"$lookup", bson.D{
			{"from", PostsCollection},
			{"localField", "_id"},
			{"foreignField", "user_id"},
			{"pipeline", mongo.Pipeline{
				projectStage(bson.D{
					{"_id", 0},
					{"likes_count", bson.D{{"$ifNull", bson.A{"$likes_count", 0}}}},
					{"comments_count", bson.D{{"$ifNull", bson.A{"$comments_count", 0}}}},
					{"is_viral", bson.D{{"$eq", bson.A{"$is_viral", true}}}},
				}),
			}},
			{"as", "user_posts"},
		}}},
		activeEdgesLookup("following_id", "followers"),
		activeEdgesLookup("follower_id", "following"),
		projectStage(bson.D{
			{"_id", 1},
			{"username", 1},
			{"personal_info", 1},
			{"stats", 1},
			{"user_posts", 1},
			{"followers_count", bson.D{{"$size", "$followers"}}},
			{"following_count", bson.D{{"$size", "$following"}}},
		}),
	}
}
