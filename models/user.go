package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt *time.Time         `bson:"created_at,omitempty" json:"created_at,omitempty"`

	PersonalInfo            PersonalInfo            `bson:"personal_info" json:"personal_info"`
	PrivacySettings         PrivacySettings         `bson:"privacy_settings" json:"privacy_settings"`
	NotificationPreferences NotificationPreferences `bson:"notification_preferences" json:"notification_preferences"`
	Stats                   UserStats               `bson:"stats" json:"stats"`
}

type PersonalInfo struct {
	FirstName string     `bson:"first_name" json:"first_name"`
	LastName  string     `bson:"last_name" json:"last_name"`
	BirthDate *time.Time `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Location  string     `bson:"location" json:"location"`
	Pronouns  string     `bson:"pronouns,omitempty" json:"pronouns,omitempty"`
}

type PrivacySettings struct {
	IsPrivate         bool                 `bson:"is_private" json:"is_private"`
	AllowStoryReplies bool                 `bson:"allow_story_replies" json:"allow_story_replies"`
	AllowComments     string               `bson:"allow_comments" json:"allow_comments"` // everyone, followers, none
	BlockedUsers      []primitive.ObjectID `bson:"blocked_users" json:"blocked_users"`
}

type NotificationPreferences struct {
	Language                 string               `bson:"language" json:"language"`
	AllowNotifications       bool                 `bson:"allow_notifications" json:"allow_notifications"`
	DMNotifications          bool                 `bson:"dm_notifications" json:"dm_notifications"`
	AllowedNotificationUsers []primitive.ObjectID `bson:"allowed_notification_users" json:"allowed_notification_users"`
}

type UserStats struct {
	TotalPosts      int64 `bson:"total_posts" json:"total_posts"`
	FollowersCount  int64 `bson:"followers_count" json:"followers_count"`
	FollowingCount  int64 `bson:"following_count" json:"following_count"`
	SavedPostsCount int64 `bson:"saved_posts_count" json:"saved_posts_count"`
}

// UserUpdate is a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Username     *string       `json:"username,omitempty"`
	Email        *string       `json:"email,omitempty"`
	PersonalInfo *PersonalInfo `json:"personal_info,omitempty"`
	Stats        *UserStats    `json:"stats,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.PersonalInfo == nil && u.Stats == nil
}

// UserPrivacy is the projection returned by the privacy settings lookup.
type UserPrivacy struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Username        string             `bson:"username" json:"username"`
	PrivacySettings PrivacySettings    `bson:"privacy_settings" json:"privacy_settings"`
}

// UserNotifications is the projection returned by the notification preferences lookup.
type UserNotifications struct {
	ID                      primitive.ObjectID      `bson:"_id" json:"id"`
	Username                string                  `bson:"username" json:"username"`
	NotificationPreferences NotificationPreferences `bson:"notification_preferences" json:"notification_preferences"`
}

// UserLocationMatch is one row of a location search.
type UserLocationMatch struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PersonalInfo PersonalInfo       `bson:"personal_info" json:"personal_info"`
	Stats        UserStats          `bson:"stats" json:"stats"`
}
