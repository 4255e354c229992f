package applications

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

// Store defines the application persistence the handlers need. Lookup
// methods return (nil, nil) when no document matches.
type Store interface {
	List(ctx context.Context, user primitive.ObjectID, skip, limit int64) ([]models.Application, error)
	Count(ctx context.Context, user primitive.ObjectID) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	GetOwned(ctx context.Context, id string, user primitive.ObjectID) (*models.Application, error)
	Exists(ctx context.Context, a models.Application) (bool, error)
	Create(ctx context.Context, a *models.Application) (*models.Application, error)
	Update(ctx context.Context, id string, a models.Application) (*models.Application, error)
	Delete(ctx context.Context, id string, user primitive.ObjectID) (*models.Application, error)
}

// UserStore is the slice of user persistence needed to keep the owner's
// back-reference list in step with created applications.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	PushApplication(ctx context.Context, id string, appID primitive.ObjectID) error
}

// Handler holds the application HTTP handlers.
type Handler struct {
	apps  Store
	users UserStore
}

func NewHandler(apps Store, users UserStore) *Handler {
	return &Handler{apps: apps, users: users}
}

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

// List returns one page of the caller's applications, applied-date
// descending.
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

	apps, err := h.apps.List(r.Context(), user, skip, limit)
	if err != nil {
		log.Printf("applications: list: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while getting all applications")
		return
	}
	if len(apps) == 0 {
		web.JSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"applications": []models.Application{},
			"message":      "No applications found",
		})
		return
	}

	total, err := h.apps.Count(r.Context(), user)
	if err != nil {
		log.Printf("applications: count: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while getting all applications")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"applications":      apps,
		"totalApplications": total,
		"totalPage":         web.TotalPages(total),
		"currentPage":       page,
		"message":           "Applications fetched successfully",
	})
}

// Get fetches an application by id. No owner filter is applied.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.apps.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("applications: get: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error getting application")
		return
	}
	if app == nil {
		web.Fail(w, http.StatusNotFound, "Application not found")
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Application fetched successfully",
		"application": app,
	})
}

// Create validates and inserts a new application, then pushes its id onto
// the owner's back-reference list.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := owner(r)
	if !ok {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	caller, err := h.users.GetByID(r.Context(), user.Hex())
	if err != nil {
		log.Printf("applications: caller lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while creating application")
		return
	}
	if caller == nil {
		web.Fail(w, http.StatusBadRequest, "User not found")
		return
	}

	var req models.ApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		web.ValidationFailed(w, errs)
		return
	}

	app := req.ToApplication(user)
	exists, err := h.apps.Exists(r.Context(), app)
	if err != nil {
		log.Printf("applications: duplicate check: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while creating application")
		return
	}
	if exists {
		web.Fail(w, http.StatusBadRequest, "Application already exists")
		return
	}

	created, err := h.apps.Create(r.Context(), &app)
	if err != nil {
		log.Printf("applications: create: %v", err)
		web.Fail(w, http.StatusBadRequest, "Error while creating application")
		return
	}

	if err := h.users.PushApplication(r.Context(), user.Hex(), created.ID); err != nil {
		log.Printf("applications: push back-reference: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while creating application")
		return
	}

	web.JSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"application": created,
		"message":     "Application created successfully",
	})
}

// Update overwrites an application the caller owns.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := owner(r)
	if !ok {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	var req models.ApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		web.ValidationFailed(w, errs)
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.apps.GetOwned(r.Context(), id, user)
	if err != nil {
		log.Printf("applications: update lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating application")
		return
	}
	if existing == nil {
		web.Fail(w, http.StatusNotFound, "Application not found")
		return
	}

	updated, err := h.apps.Update(r.Context(), id, req.ToApplication(user))
	if err != nil || updated == nil {
		log.Printf("applications: update: %v", err)
		web.Fail(w, http.StatusBadRequest, "Error while updating application")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"application": updated,
		"message":     "Application updated successfully",
	})
}

// Delete removes an application the caller owns and returns the deleted
// document. The owner's back-reference list is left as is.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := owner(r)
	if !ok {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	deleted, err := h.apps.Delete(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		log.Printf("applications: delete: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while deleting application")
		return
	}
	if deleted == nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request or application not found")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"application": deleted,
		"message":     "Application deleted successfully",
	})
}
