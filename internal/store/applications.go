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

// Applications handles application document CRUD in MongoDB.
type Applications struct {
	col *mongo.Collection
}

func NewApplications(db *mongo.Database) *Applications {
	return &Applications{col: db.Collection("applications")}
}

func (s *Applications) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "company_name", Value: 1},
			{Key: "position", Value: 1},
			{Key: "location", Value: 1},
			{Key: "status", Value: 1},
			{Key: "applied_date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Applications) List(ctx context.Context, user primitive.ObjectID, skip, limit int64) ([]models.Application, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "applied_date", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Applications) Count(ctx context.Context, user primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"user": user})
}

// GetByID fetches by id alone, without an owner filter.
func (s *Applications) GetByID(ctx context.Context, id string) (*models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Applications) GetOwned(ctx context.Context, id string, user primitive.ObjectID) (*models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid, "user": user})
}

func (s *Applications) Exists(ctx context.Context, a models.Application) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{
		"company_name": a.CompanyName,
		"position":     a.Position,
		"location":     a.Location,
		"status":       a.Status,
		"applied_date": a.AppliedDate,
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Applications) Create(ctx context.Context, a *models.Application) (*models.Application, error) {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return a, nil
}

func (s *Applications) Update(ctx context.Context, id string, a models.Application) (*models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var updated models.Application
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"company_name": a.CompanyName,
			"position":     a.Position,
			"location":     a.Location,
			"status":       a.Status,
			"applied_date": a.AppliedDate,
			"salary":       a.Salary,
			"job_url":      a.JobURL,
			"notes":        a.Notes,
			"user":         a.User,
			"updated_at":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Applications) Delete(ctx context.Context, id string, user primitive.ObjectID) (*models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var a models.Application
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": oid, "user": user}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Applications) findOne(ctx context.Context, filter bson.M) (*models.Application, error) {
	var a models.Application
	err := s.col.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
