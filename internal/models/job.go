package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuses a tracked job or application can be in.
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusRejected  = "Rejected"
	StatusOffer     = "Offer"
	StatusSaved     = "Saved"
)

// Job is a tracked job document owned by exactly one user.
type Job struct {
	ID          primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	CompanyName string             `json:"company_name" bson:"company_name"`
	Position    string             `json:"position"     bson:"position"`
	Location    string             `json:"location"     bson:"location"`
	Status      string             `json:"status"       bson:"status"`
	AppliedDate time.Time          `json:"applied_date" bson:"applied_date"`
	Salary      string             `json:"salary"       bson:"salary"`
	JobURL      string             `json:"job_url"      bson:"job_url"`
	Notes       string             `json:"notes"        bson:"notes"`
	User        primitive.ObjectID `json:"user"         bson:"user"`
	CreatedAt   time.Time          `json:"created_at"   bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"   bson:"updated_at"`
}

// JobRequest is the JSON body for creating or updating a job.
type JobRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=3"`
	Position    string `json:"position"     validate:"required,min=3"`
	Location    string `json:"location"     validate:"required,min=3"`
	Status      string `json:"status"       validate:"required,oneof=Applied Interview Rejected Offer Saved"`
	AppliedDate string `json:"applied_date" validate:"required,datetime=2006-01-02"`
	Salary      string `json:"salary"       validate:"omitempty"`
	JobURL      string `json:"job_url"      validate:"omitempty"`
	Notes       string `json:"notes"        validate:"omitempty"`
}

// ToJob converts a validated request into a document, filling optional
// fields with "N/A" and stamping the owner.
func (r JobRequest) ToJob(owner primitive.ObjectID) Job {
	date, _ := time.Parse("2006-01-02", r.AppliedDate)
	return Job{
		CompanyName: r.CompanyName,
		Position:    r.Position,
		Location:    r.Location,
		Status:      r.Status,
		AppliedDate: date,
		Salary:      orNA(r.Salary),
		JobURL:      orNA(r.JobURL),
		Notes:       orNA(r.Notes),
		User:        owner,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
