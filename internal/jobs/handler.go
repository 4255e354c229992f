package jobs

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobtrackr/backend/internal/auth"
	"github.com/jobtrackr/backend/internal/models"
	"github.com/jobtrackr/backend/internal/validate"
	"github.com/jobtrackr/backend/internal/web"
)

// Store defines the job persistence the handlers need. Lookup methods
// return (nil, nil) when no document matches.
type Store interface {
	List(ctx context.Context, user primitive.ObjectID, skip, limit int64) ([]models.Job, error)
	Count(ctx context.Context, user primitive.ObjectID) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetOwned(ctx context.Context, id string, user primitive.ObjectID) (*models.Job, error)
	Exists(ctx context.Context, j models.Job) (bool, error)
	Create(ctx context.Context, j *models.Job) (*models.Job, error)
	Update(ctx context.Context, id string, j models.Job) (*models.Job, error)
	Delete(ctx context.Context, id string, user primitive.ObjectID) (*models.Job, error)
}

// Handler holds the job HTTP handlers.
type Handler struct {
	jobs Store
}

func NewHandler(jobs Store) *Handler {
	return &Handler{jobs: jobs}
}

// owner resolves the authenticated caller's id from the request context.
func owner(r *http.Request) (primitive.ObjectID, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// List returns one page of the caller's jobs, applied-date descending.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := owner(r)
	if !ok {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	page, limit, skip, err := web.Pagination(r)
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	jobs, err := h.jobs.List(r.Context(), user, skip, limit)
	if err != nil {
		log.Printf("jobs: list: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while getting all jobs")
		return
	}
	if len(jobs) == 0 {
		web.JSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"jobs":    []models.Job{},
			"message": "No jobs found",
		})
		return
	}

	total, err := h.jobs.Count(r.Context(), user)
	if err != nil {
		log.Printf("jobs: count: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while getting all jobs")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"jobs":        jobs,
		"totalJobs":   total,
		"totalPage":   web.TotalPages(total),
		"currentPage": page,
		"message":     "Jobs fetched successfully",
	})
}

// Get fetches a job by id. No owner filter is applied: any authenticated
// caller can read any job by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("jobs: get: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error getting job")
		return
	}
	if job == nil {
		web.Fail(w, http.StatusNotFound, "Job not found")
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Job fetched successfully",
		"job":     job,
	})
}

// Create validates and inserts a new job owned by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := owner(r)
	if !ok {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	var req models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		web.ValidationFailed(w, errs)
		return
	}

	job := req.ToJob(user)
	exists, err := h.jobs.Exists(r.Context(), job)
	if err != nil {
		log.Printf("jobs: duplicate check: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while creating job")
		return
	}
	if exists {
		web.Fail(w, http.StatusBadRequest, "Job already exists")
		return
	}

	created, err := h.jobs.Create(r.Context(), &job)
	if err != nil {
		log.Printf("jobs: create: %v", err)
		web.Fail(w, http.StatusBadRequest, "Error while creating job")
		return
	}

	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"job":     created,
		"message": "Job created successfully",
	})
}

// Update overwrites a job the caller owns.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := owner(r)
	if !ok {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	var req models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		web.ValidationFailed(w, errs)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.jobs.GetOwned(r.Context(), id, user)
	if err != nil {
		log.Printf("jobs: update lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating job")
		return
	}
	if existing == nil {
		web.Fail(w, http.StatusNotFound, "Job not found")
		return
	}

	updated, err := h.jobs.Update(r.Context(), id, req.ToJob(user))
	if err != nil || updated == nil {
		log.Printf("jobs: update: %v", err)
		web.Fail(w, http.StatusBadRequest, "Error while updating job")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"job":     updated,
		"message": "Job updated successfully",
	})
}

// Delete removes a job the caller owns and returns the deleted document.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := owner(r)
	if !ok {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	deleted, err := h.jobs.Delete(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		log.Printf("jobs: delete: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while deleting job")
		return
	}
	if deleted == nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request or job not found")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"job":     deleted,
		"message": "Job deleted successfully",
	})
}
