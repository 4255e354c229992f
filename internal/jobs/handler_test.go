package jobs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jobtrackr/backend/internal/auth"
	"github.com/jobtrackr/backend/internal/jobs"
	"github.com/jobtrackr/backend/internal/models"
)

// fakeJobs is an in-memory jobs.Store that records pagination arguments.
type fakeJobs struct {
	jobs      []models.Job
	lastSkip  int64
	lastLimit int64
}

func (f *fakeJobs) List(_ context.Context, user primitive.ObjectID, skip, limit int64) ([]models.Job, error) {
	f.lastSkip, f.lastLimit = skip, limit
	var out []models.Job
	for _, j := range f.jobs {
		if j.User == user {
			out = append(out, j)
		}
	}
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobs) Count(_ context.Context, user primitive.ObjectID) (int64, error) {
	var n int64
	for _, j := range f.jobs {
		if j.User == user {
			n++
		}
	}
	return n, nil
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].ID.Hex() == id {
			return &f.jobs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeJobs) GetOwned(_ context.Context, id string, user primitive.ObjectID) (*models.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].ID.Hex() == id && f.jobs[i].User == user {
			return &f.jobs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeJobs) Exists(_ context.Context, j models.Job) (bool, error) {
	for _, e := range f.jobs {
		if e.CompanyName == j.CompanyName && e.Position == j.Position &&
			e.Location == j.Location && e.Status == j.Status && e.AppliedDate.Equal(j.AppliedDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJobs) Create(_ context.Context, j *models.Job) (*models.Job, error) {
	j.ID = primitive.NewObjectID()
	f.jobs = append(f.jobs, *j)
	return j, nil
}

func (f *fakeJobs) Update(_ context.Context, id string, j models.Job) (*models.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].ID.Hex() == id {
			j.ID = f.jobs[i].ID
			f.jobs[i] = j
			return &f.jobs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeJobs) Delete(_ context.Context, id string, user primitive.ObjectID) (*models.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].ID.Hex() == id && f.jobs[i].User == user {
			deleted := f.jobs[i]
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, nil
}

func authed(req *http.Request, user primitive.ObjectID) *http.Request {
	claims := &auth.Claims{Email: "a@x.com", ID: user.Hex()}
	return req.WithContext(auth.ContextWithClaims(req.Context(), claims))
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func seedJob(f *fakeJobs, user primitive.ObjectID, company string, applied time.Time) models.Job {
	j := models.Job{
		ID:          primitive.NewObjectID(),
		CompanyName: company,
		Position:    "Engineer",
		Location:    "Remote",
		Status:      models.StatusApplied,
		AppliedDate: applied,
		Salary:      "N/A",
		JobURL:      "N/A",
		Notes:       "N/A",
		User:        user,
	}
	f.jobs = append(f.jobs, j)
	return j
}

func TestList_PaginationUsesFixedSkip(t *testing.T) {
	user := primitive.NewObjectID()
	f := &fakeJobs{}
	for i := 0; i < 25; i++ {
		seedJob(f, user, "Company", time.Now().AddDate(0, 0, -i))
	}
	h := jobs.NewHandler(f)

	// A custom limit is passed through, but skip still advances by the
	// fixed page size.
	req := authed(httptest.NewRequest("GET", "/api/v1/jobs?page=2&limit=5", nil), user)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), f.lastSkip)
	assert.Equal(t, int64(5), f.lastLimit)
	assert.Contains(t, rec.Body.String(), `"totalJobs":25`)
	assert.Contains(t, rec.Body.String(), `"totalPage":3`)
	assert.Contains(t, rec.Body.String(), `"currentPage":2`)
}

func TestList_Empty(t *testing.T) {
	h := jobs.NewHandler(&fakeJobs{})
	req := authed(httptest.NewRequest("GET", "/api/v1/jobs", nil), primitive.NewObjectID())
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No jobs found")
	assert.Contains(t, rec.Body.String(), `"jobs":[]`)
}

func TestList_InvalidQuery(t *testing.T) {
	h := jobs.NewHandler(&fakeJobs{})
	req := authed(httptest.NewRequest("GET", "/api/v1/jobs?page=-1", nil), primitive.NewObjectID())
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid query parameters")
}

func TestGet_NoOwnerFilter(t *testing.T) {
	f := &fakeJobs{}
	foreign := seedJob(f, primitive.NewObjectID(), "Acme", time.Now())
	h := jobs.NewHandler(f)

	// A different authenticated user can still read the job by id.
	req := authed(httptest.NewRequest("GET", "/api/v1/jobs/"+foreign.ID.Hex(), nil), primitive.NewObjectID())
	rec := httptest.NewRecorder()
	h.Get(rec, withID(req, foreign.ID.Hex()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme")
}

func TestGet_NotFound(t *testing.T) {
	h := jobs.NewHandler(&fakeJobs{})
	req := httptest.NewRequest("GET", "/api/v1/jobs/unknown", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, withID(req, primitive.NewObjectID().Hex()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Job not found")
}

func TestCreate(t *testing.T) {
	user := primitive.NewObjectID()
	f := &fakeJobs{}
	h := jobs.NewHandler(f)

	body := `{"company_name":"Acme","position":"Engineer","location":"Remote","status":"Applied","applied_date":"2026-08-01"}`
	req := authed(httptest.NewRequest("POST", "/api/v1/jobs", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.jobs, 1)
	assert.Equal(t, user, f.jobs[0].User)
	assert.Equal(t, "N/A", f.jobs[0].Salary)
	assert.Equal(t, "N/A", f.jobs[0].Notes)
}

func TestCreate_Duplicate(t *testing.T) {
	user := primitive.NewObjectID()
	f := &fakeJobs{}
	applied, _ := time.Parse("2006-01-02", "2026-08-01")
	seedJob(f, user, "Acme", applied)
	h := jobs.NewHandler(f)

	body := `{"company_name":"Acme","position":"Engineer","location":"Remote","status":"Applied","applied_date":"2026-08-01"}`
	req := authed(httptest.NewRequest("POST", "/api/v1/jobs", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Job already exists")
	assert.Len(t, f.jobs, 1)
}

func TestUpdate_ForeignJob(t *testing.T) {
	f := &fakeJobs{}
	foreign := seedJob(f, primitive.NewObjectID(), "Acme", time.Now())
	h := jobs.NewHandler(f)

	body := `{"company_name":"Evil","position":"Engineer","location":"Remote","status":"Offer","applied_date":"2026-08-01"}`
	req := authed(httptest.NewRequest("PUT", "/api/v1/jobs/"+foreign.ID.Hex(), strings.NewReader(body)), primitive.NewObjectID())
	rec := httptest.NewRecorder()
	h.Update(rec, withID(req, foreign.ID.Hex()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Acme", f.jobs[0].CompanyName)
}

func TestUpdate(t *testing.T) {
	user := primitive.NewObjectID()
	f := &fakeJobs{}
	j := seedJob(f, user, "Acme", time.Now())
	h := jobs.NewHandler(f)

	body := `{"company_name":"Acme","position":"Engineer","location":"Remote","status":"Offer","applied_date":"2026-08-01"}`
	req := authed(httptest.NewRequest("PUT", "/api/v1/jobs/"+j.ID.Hex(), strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	h.Update(rec, withID(req, j.ID.Hex()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusOffer, f.jobs[0].Status)
	assert.Contains(t, rec.Body.String(), "Job updated successfully")
}

func TestDelete_ForeignJob(t *testing.T) {
	f := &fakeJobs{}
	foreign := seedJob(f, primitive.NewObjectID(), "Acme", time.Now())
	h := jobs.NewHandler(f)

	req := authed(httptest.NewRequest("DELETE", "/api/v1/jobs/"+foreign.ID.Hex(), nil), primitive.NewObjectID())
	rec := httptest.NewRecorder()
	h.Delete(rec, withID(req, foreign.ID.Hex()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, f.jobs, 1)
}

func TestDelete(t *testing.T) {
	user := primitive.NewObjectID()
	f := &fakeJobs{}
	j := seedJob(f, user, "Acme", time.Now())
	h := jobs.NewHandler(f)

	req := authed(httptest.NewRequest("DELETE", "/api/v1/jobs/"+j.ID.Hex(), nil), user)
	rec := httptest.NewRecorder()
	h.Delete(rec, withID(req, j.ID.Hex()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.jobs)
	assert.Contains(t, rec.Body.String(), "Acme")
}

func TestUnauthenticated(t *testing.T) {
	h := jobs.NewHandler(&fakeJobs{})
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/v1/jobs", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
