package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Read models. Each one is recomputed from stored documents on every request.

type PostAuthor struct {
	Username  string `bson:"username" json:"username"`
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
}

type ViralPost struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Description     string             `bson:"description" json:"description"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	Location        string             `bson:"location" json:"location"`
	Hashtags        []string           `bson:"hashtags" json:"hashtags"`
	LikesCount      int64              `bson:"likes_count" json:"likes_count"`
	CommentsCount   int64              `bson:"comments_count" json:"comments_count"`
	EngagementScore int64              `bson:"engagement_score" json:"engagement_score"`
	IsViral         bool               `bson:"is_viral" json:"is_viral"`
	Author          PostAuthor         `bson:"author" json:"author"`
}

type FollowedUser struct {
	FollowedUserID primitive.ObjectID `bson:"followed_user_id" json:"followed_user_id"`
	Username       string             `bson:"username" json:"username"`
	FullName       string             `bson:"full_name" json:"full_name"`
	Location       string             `bson:"location" json:"location"`
	FollowedAt     time.Time          `bson:"followed_at" json:"followed_at"`
}

type BestFriendItem struct {
	FriendID primitive.ObjectID `bson:"friend_id" json:"friend_id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"full_name" json:"full_name"`
	AddedAt  time.Time          `bson:"added_at" json:"added_at"`
}

type SavedPostItem struct {
	PostID          primitive.ObjectID `bson:"post_id" json:"post_id"`
	SavedAt         time.Time          `bson:"saved_at" json:"saved_at"`
	CollectionName  string             `bson:"collection_name" json:"collection_name"`
	PostDescription string             `bson:"post_description" json:"post_description"`
	PostCreatedAt   time.Time          `bson:"post_created_at" json:"post_created_at"`
	AuthorUsername  string             `bson:"author_username" json:"author_username"`
	LikesCount      int64              `bson:"likes_count" json:"likes_count"`
	CommentsCount   int64              `bson:"comments_count" json:"comments_count"`
}

type SearchHistoryItem struct {
	SearchedUserID   primitive.ObjectID `bson:"searched_user_id" json:"searched_user_id"`
	SearchedUsername string             `bson:"searched_username" json:"searched_username"`
	SearchedAt       time.Time          `bson:"searched_at" json:"searched_at"`
}

type ProfileStats struct {
	TotalPosts      int64   `json:"total_posts"`
	ViralPostsCount int64   `json:"viral_posts_count"`
	FollowersCount  int64   `json:"followers_count"`
	FollowingCount  int64   `json:"following_count"`
	TotalLikes      int64   `json:"total_likes"`
	TotalComments   int64   `json:"total_comments"`
	AvgLikesPerPost float64 `json:"avg_likes_per_post"`
	MainLocation    string  `json:"main_location"`
}

type ProfileSummary struct {
	ID           primitive.ObjectID `json:"id"`
	Username     string             `json:"username"`
	PersonalInfo PersonalInfo       `json:"personal_info"`
	Stats        UserStats          `json:"stats"`
	Summary      ProfileStats       `json:"summary"`
}
