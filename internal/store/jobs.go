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

// Jobs handles job document CRUD in MongoDB.
type Jobs struct {
	col *mongo.Collection
}

func NewJobs(db *mongo.Database) *Jobs {
	return &Jobs{col: db.Collection("jobs")}
}

// EnsureIndexes creates the uniqueness constraint that backs the duplicate
// pre-check: concurrent creates racing past the check still collapse to one
// persisted document.
func (s *Jobs) EnsureIndexes(ctx context.Context) error {
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

// List returns one page of the user's jobs, most recently applied first.
func (s *Jobs) List(ctx context.Context, user primitive.ObjectID, skip, limit int64) ([]models.Job, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "applied_date", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var jobs []models.Job
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Jobs) Count(ctx context.Context, user primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"user": user})
}

// GetByID fetches by id alone, without an owner filter.
func (s *Jobs) GetByID(ctx context.Context, id string) (*models.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetOwned fetches a job only when it matches both id and owner.
func (s *Jobs) GetOwned(ctx context.Context, id string, user primitive.ObjectID) (*models.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid, "user": user})
}

// Exists reports whether an identical entry is already tracked.
func (s *Jobs) Exists(ctx context.Context, j models.Job) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{
		"company_name": j.CompanyName,
		"position":     j.Position,
		"location":     j.Location,
		"status":       j.Status,
		"applied_date": j.AppliedDate,
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Jobs) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	now := time.Now()
	j.CreatedAt = now
	j.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, j)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	j.ID = res.InsertedID.(primitive.ObjectID)
	return j, nil
}

// Update overwrites the document's fields and returns the updated job.
func (s *Jobs) Update(ctx context.Context, id string, j models.Job) (*models.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id: %w", err)
	}
	var updated models.Job
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"company_name": j.CompanyName,
			"position":     j.Position,
			"location":     j.Location,
			"status":       j.Status,
			"applied_date": j.AppliedDate,
			"salary":       j.Salary,
			"job_url":      j.JobURL,
			"notes":        j.Notes,
			"user":         j.User,
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

// Delete removes a job only when it matches both id and owner, returning the
// deleted document.
func (s *Jobs) Delete(ctx context.Context, id string, user primitive.ObjectID) (*models.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var j models.Job
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": oid, "user": user}).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Jobs) findOne(ctx context.Context, filter bson.M) (*models.Job, error) {
	var j models.Job
	err := s.col.FindOne(ctx, filter).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}
