package repository

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialnet/models"
)

const DefaultLocationLimit int64 = 20

func (r *Repository) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return r.findUser(ctx, bson.D{{"_id", userID}}, "user "+userID.Hex())
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationf("username is required")
	}
	return r.findUser(ctx, bson.D{{"username", username}}, "username "+username)
}

func (r *Repository) findUser(ctx context.Context, filter bson.D, what string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrap(ErrNotFound, what)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

// UsersByLocation matches location as a case-insensitive substring of
// personal_info.location. The text is matched literally.
func (r *Repository) UsersByLocation(ctx context.Context, location string, limit int64) ([]models.UserLocationMatch, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, validationf("location is required")
	}
	limit, err := limitOrDefault(limit, DefaultLocationLimit)
	if err != nil {
		return nil, err
	}
	filter := bson.D{{"personal_info.location", primitive.Regex{Pattern: regexp.QuoteMeta(location), Options: "i"}}}
	opts := options.Find().
		SetProjection(bson.D{{"username", 1}, {"personal_info", 1}, {"stats", 1}}).
		SetSort(bson.D{{"_id", 1}}).
		SetLimit(limit)
	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find users by location")
	}
	users := []models.UserLocationMatch{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

// CreateUser stores a new user. Username and email are unique; a clash is
// ErrAlreadyExists.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if user.Username == "" || user.Email == "" {
		return primitive.NilObjectID, validationf("username and email are required")
	}
	if user.CreatedAt == nil {
		now := r.clock()
		user.CreatedAt = &now
	}
	if user.PrivacySettings.BlockedUsers == nil {
		user.PrivacySettings.BlockedUsers = []primitive.ObjectID{}
	}
	if user.NotificationPreferences.AllowedNotificationUsers == nil {
		user.NotificationPreferences.AllowedNotificationUsers = []primitive.ObjectID{}
	}
	user.ID = primitive.NilObjectID

	res, err := r.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, errors.Wrap(ErrAlreadyExists, "username or email")
	}
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert user")
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	user.ID = id
	r.logger.WithField("user_id", id.Hex()).Info("user created")
	return id, nil
}

// UpdateUser applies the non-nil fields of update and returns the stored user.
func (r *Repository) UpdateUser(ctx context.Context, userID primitive.ObjectID, update models.UserUpdate) (*models.User, error) {
	if update.Empty() {
		return nil, validationf("no fields to update")
	}
	set := bson.D{}
	if update.Username != nil {
		if strings.TrimSpace(*update.Username) == "" {
			return nil, validationf("username must not be empty")
		}
		set = append(set, bson.E{Key: "username", Value: strings.TrimSpace(*update.Username)})
	}
	if update.Email != nil {
		if strings.TrimSpace(*update.Email) == "" {
			return nil, validationf("email must not be empty")
		}
		set = append(set, bson.E{Key: "email", Value: strings.TrimSpace(*update.Email)})
	}
	if update.PersonalInfo != nil {
		set = append(set, bson.E{Key: "personal_info", Value: *update.PersonalInfo})
	}
	if update.Stats != nil {
		set = append(set, bson.E{Key: "stats", Value: *update.Stats})
	}
	if err := r.setUserFields(ctx, userID, set); err != nil {
		return nil, err
	}
	return r.GetUser(ctx, userID)
}

func (r *Repository) PrivacySettings(ctx context.Context, userID primitive.ObjectID) (*models.UserPrivacy, error) {
	var out models.UserPrivacy
	if err := r.projectUser(ctx, userID, "privacy_settings", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePrivacySettings replaces the whole privacy_settings subdocument.
func (r *Repository) UpdatePrivacySettings(ctx context.Context, userID primitive.ObjectID, settings models.PrivacySettings) (*models.UserPrivacy, error) {
	if settings.BlockedUsers == nil {
		settings.BlockedUsers = []primitive.ObjectID{}
	}
	if err := r.setUserFields(ctx, userID, bson.D{{"privacy_settings", settings}}); err != nil {
		return nil, err
	}
	return r.PrivacySettings(ctx, userID)
}

func (r *Repository) NotificationPreferences(ctx context.Context, userID primitive.ObjectID) (*models.UserNotifications, error) {
	var out models.UserNotifications
	if err := r.projectUser(ctx, userID, "notification_preferences", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNotificationPreferences replaces the whole notification_preferences subdocument.
func (r *Repository) UpdateNotificationPreferences(ctx context.Context, userID primitive.ObjectID, prefs models.NotificationPreferences) (*models.UserNotifications, error) {
	if prefs.AllowedNotificationUsers == nil {
		prefs.AllowedNotificationUsers = []primitive.ObjectID{}
	}
	if err := r.setUserFields(ctx, userID, bson.D{{"notification_preferences", prefs}}); err != nil {
		return nil, err
	}
	return r.NotificationPreferences(ctx, userID)
}

func (r *Repository) projectUser(ctx context.Context, userID primitive.ObjectID, field string, out interface{}) error {
	opts := options.FindOne().SetProjection(bson.D{{"username", 1}, {field, 1}})
	err := r.users.FindOne(ctx, bson.D{{"_id", userID}}, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.Wrapf(ErrNotFound, "user %s", userID.Hex())
	}
	if err != nil {
		return errors.Wrapf(err, "find user %s", field)
	}
	return nil
}

func (r *Repository) setUserFields(ctx context.Context, userID primitive.ObjectID, set bson.D) error {
	res, err := r.users.UpdateOne(ctx, bson.D{{"_id", userID}}, bson.D{{"$set", set}})
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(ErrAlreadyExists, "username or email")
	}
	if err != nil {
		return errors.Wrap(err, "update user")
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrNotFound, "user %s", userID.Hex())
	}
	return nil
}
