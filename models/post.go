package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Description     string               `bson:"description" json:"description"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	Location        string               `bson:"location,omitempty" json:"location,omitempty"`
	Hashtags        []string             `bson:"hashtags" json:"hashtags"`
	TaggedUsers     []primitive.ObjectID `bson:"tagged_users" json:"tagged_users"`
	LikesCount      int64                `bson:"likes_count" json:"likes_count"`
	CommentsCount   int64                `bson:"comments_count" json:"comments_count"`
	IsViral         bool                 `bson:"is_viral" json:"is_viral"`
	ViralDetectedAt *time.Time           `bson:"viral_detected_at,omitempty" json:"viral_detected_at,omitempty"`
}
