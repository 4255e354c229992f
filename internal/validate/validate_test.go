package validate_test

import (
	"testing"

	"github.com/jobtrackr/backend/internal/models"
	"github.com/jobtrackr/backend/internal/validate"
)

func fieldsOf(errs []validate.FieldError) map[string]string {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[e.Field] = e.Rule
	}
	return m
}

func TestRegisterRequest_Valid(t *testing.T) {
	errs := validate.Struct(models.RegisterRequest{
		Name:            "Ann",
		Email:           "a@x.com",
		Password:        "secretpw",
		ConfirmPassword: "secretpw",
	})
	if errs != nil {
		t.Errorf("valid register request produced errors: %v", errs)
	}
}

func TestRegisterRequest_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		req      models.RegisterRequest
		field    string
		rule     string
	}{
		{"short name", models.RegisterRequest{Name: "Al", Email: "a@x.com", Password: "secretpw", ConfirmPassword: "secretpw"}, "name", "min"},
		{"bad email", models.RegisterRequest{Name: "Ann", Email: "not-an-email", Password: "secretpw", ConfirmPassword: "secretpw"}, "email", "email"},
		{"short password", models.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "short", ConfirmPassword: "short"}, "password", "min"},
		{"long password", models.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ConfirmPassword: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, "password", "max"},
		{"mismatch", models.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "secretpw", ConfirmPassword: "differentpw"}, "confirm_password", "eqfield"},
		{"missing name", models.RegisterRequest{Email: "a@x.com", Password: "secretpw", ConfirmPassword: "secretpw"}, "name", "required"},
	}
	for _, c := range cases {
		errs := validate.Struct(c.req)
		if errs == nil {
			t.Errorf("%s: expected errors, got none", c.name)
			continue
		}
		if rule, ok := fieldsOf(errs)[c.field]; !ok || rule != c.rule {
			t.Errorf("%s: want %s failure on %q, got %v", c.name, c.rule, c.field, errs)
		}
	}
}

func TestJobRequest_StatusEnum(t *testing.T) {
	base := models.JobRequest{
		CompanyName: "Acme",
		Position:    "Engineer",
		Location:    "Remote",
		AppliedDate: "2026-08-01",
	}

	for _, status := range []string{"Applied", "Interview", "Rejected", "Offer", "Saved"} {
		req := base
		req.Status = status
		if errs := validate.Struct(req); errs != nil {
			t.Errorf("status %q: unexpected errors: %v", status, errs)
		}
	}

	req := base
	req.Status = "Ghosted"
	errs := validate.Struct(req)
	if errs == nil {
		t.Fatal("invalid status accepted")
	}
	if rule := fieldsOf(errs)["status"]; rule != "oneof" {
		t.Errorf("want oneof failure on status, got %v", errs)
	}
}

func TestJobRequest_DateFormat(t *testing.T) {
	req := models.JobRequest{
		CompanyName: "Acme",
		Position:    "Engineer",
		Location:    "Remote",
		Status:      "Applied",
		AppliedDate: "01/08/2026",
	}
	errs := validate.Struct(req)
	if errs == nil {
		t.Fatal("malformed applied_date accepted")
	}
	if rule := fieldsOf(errs)["applied_date"]; rule != "datetime" {
		t.Errorf("want datetime failure on applied_date, got %v", errs)
	}
}

func TestLoginRequest(t *testing.T) {
	if errs := validate.Struct(models.LoginRequest{Email: "a@x.com", Password: "secretpw"}); errs != nil {
		t.Errorf("valid login request produced errors: %v", errs)
	}
	errs := validate.Struct(models.LoginRequest{Email: "a@x.com", Password: "short"})
	if errs == nil {
		t.Fatal("short password accepted")
	}
	if msg := errs[0].Message; msg == "" {
		t.Error("field error has empty message")
	}
}
