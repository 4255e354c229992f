package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobtrackr/backend/internal/models"
)

// Users handles user document CRUD in MongoDB.
type Users struct {
	col *mongo.Collection
}

func NewUsers(db *mongo.Database) *Users {
	return &Users{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index. Registration pre-checks for
// an existing email, but the index is what makes concurrent registrations
// collapse to a single account.
func (s *Users) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Users) Create(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Users) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"refresh_token": token})
}

// SetRefreshToken replaces the user's single active session value. An empty
// token clears the field, revoking every refresh token derived from it.
func (s *Users) SetRefreshToken(ctx context.Context, id, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now()}}
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	}
	_, err = s.col.UpdateByID(ctx, oid, update)
	return err
}

// UpdateProfile applies the non-empty fields, clears the stored refresh
// token and returns the updated document.
func (s *Users) UpdateProfile(ctx context.Context, id, name, email, hashedPassword string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = email
	}
	if hashedPassword != "" {
		set["password"] = hashedPassword
	}

	var u models.User
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": set, "$unset": bson.M{"refresh_token": ""}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetAvatar stores a new avatar URL and returns the updated document.
func (s *Users) SetAvatar(ctx context.Context, id, avatarURL string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var u models.User
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"avatar": avatarURL, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// PushApplication appends an application back-reference to the user.
func (s *Users) PushApplication(ctx context.Context, id string, appID primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	_, err = s.col.UpdateByID(ctx, oid, bson.M{
		"$push": bson.M{"applications": appID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	return err
}

func (s *Users) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
