package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RelationshipStatus string

const (
	RelationshipActive   RelationshipStatus = "active"
	RelationshipInactive RelationshipStatus = "inactive"
)

// Relationship is a follow edge. At most one exists per (follower, following) pair.
type Relationship struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FollowerID  primitive.ObjectID `bson:"follower_id" json:"follower_id"`
	FollowingID primitive.ObjectID `bson:"following_id" json:"following_id"`
	FollowedAt  time.Time          `bson:"followed_at" json:"followed_at"`
	Status      RelationshipStatus `bson:"status" json:"status"`
}

// BestFriend is directional: adding B to A's list says nothing about B's list.
type BestFriend struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	FriendID primitive.ObjectID `bson:"friend_id" json:"friend_id"`
	AddedAt  time.Time          `bson:"added_at" json:"added_at"`
}

const DefaultCollectionName = "Favorites"

type SavedPost struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	PostID         primitive.ObjectID `bson:"post_id" json:"post_id"`
	SavedAt        time.Time          `bson:"saved_at" json:"saved_at"`
	CollectionName string             `bson:"collection_name" json:"collection_name"`
}

type SearchHistoryEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	SearchedUserID primitive.ObjectID `bson:"searched_user_id" json:"searched_user_id"`
	SearchedAt     time.Time          `bson:"searched_at" json:"searched_at"`
}
