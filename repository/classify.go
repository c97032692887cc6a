package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"socialnet/models"
)

const (
	// ViralLikesThreshold is the likes count at which a new post is viral.
	ViralLikesThreshold int64 = 10
	// CommentWeight multiplies comments in the engagement score.
	CommentWeight int64 = 2
)

// ClassifyViral decides viral status once, at creation. Any is_viral or
// viral_detected_at supplied by the caller is overwritten.
func ClassifyViral(p *models.Post, now time.Time) {
	if p.LikesCount >= ViralLikesThreshold {
		p.IsViral = true
		detected := now
		p.ViralDetectedAt = &detected
		return
	}
	p.IsViral = false
	p.ViralDetectedAt = nil
}

// EngagementScore ranks posts in the viral feed. It is never persisted.
func EngagementScore(likes, comments int64) int64 {
	return likes + CommentWeight*comments
}

// engagementScoreExpr is EngagementScore as an aggregation expression.
func engagementScoreExpr() bson.D {
	return bson.D{{"$add", bson.A{
		bson.D{{"$ifNull", bson.A{"$likes_count", 0}}},
		bson.D{{"$multiply", bson.A{
			bson.D{{"$ifNull", bson.A{"$comments_count", 0}}},
			CommentWeight,
		}}},
	}}}
}
