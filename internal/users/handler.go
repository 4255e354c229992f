package users

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrackr/backend/internal/auth"
	"github.com/jobtrackr/backend/internal/media"
	"github.com/jobtrackr/backend/internal/models"
	"github.com/jobtrackr/backend/internal/validate"
	"github.com/jobtrackr/backend/internal/web"
)

const (
	bcryptCost    = 10
	maxAvatarSize = 5 << 20
)

// Store defines the user persistence the profile handlers need. Lookup
// methods return (nil, nil) when no user matches.
type Store interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name, email, hashedPassword string) (*models.User, error)
	SetAvatar(ctx context.Context, id, avatarURL string) (*models.User, error)
}

// Media hosts avatar images. Upload consumes a local temp file and returns
// the durable URL; Delete is best-effort by stored URL.
type Media interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Delete(ctx context.Context, avatarURL string)
}

// Handler holds the user profile HTTP handlers.
type Handler struct {
	users   Store
	avatars Media
}

func NewHandler(users Store, avatars Media) *Handler {
	return &Handler{users: users, avatars: avatars}
}

func (h *Handler) caller(r *http.Request) (*models.User, error) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return nil, nil
	}
	return h.users.GetByID(r.Context(), claims.ID)
}

// GetMe returns the authenticated user's profile.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.caller(r)
	if err != nil {
		log.Printf("users: get: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while getting user")
		return
	}
	if user == nil {
		web.Fail(w, http.StatusBadRequest, "User not found")
		return
	}
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UpdateMe changes name, email or password after verifying the current
// password. The stored refresh token is cleared and both cookies expired,
// forcing a fresh login.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		web.ValidationFailed(w, errs)
		return
	}

	user, err := h.caller(r)
	if err != nil {
		log.Printf("users: update lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating user")
		return
	}
	if user == nil {
		web.Fail(w, http.StatusBadRequest, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	hashed := ""
	if req.NewPassword != "" {
		hp, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			log.Printf("users: hash: %v", err)
			web.Fail(w, http.StatusInternalServerError, "Error while updating user")
			return
		}
		hashed = string(hp)
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID.Hex(), req.Name, req.Email, hashed)
	if err != nil || updated == nil {
		log.Printf("users: update: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating user")
		return
	}

	auth.ClearAuthCookies(w)
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    updated,
		"message": "User updated successfully, please login again",
	})
}

// UpdateAvatar replaces the user's avatar: the prior hosted image is
// deleted, the uploaded file is pushed to the media host and the new URL is
// persisted. The local temp copy never outlives the request.
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := h.caller(r)
	if err != nil {
		log.Printf("users: avatar lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating avatar")
		return
	}
	if user == nil {
		web.Fail(w, http.StatusBadRequest, "User not found")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid avatar upload")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		web.Fail(w, http.StatusBadRequest, "Avatar file is required")
		return
	}
	defer file.Close()

	tmpPath, err := saveTemp(file, filepath.Ext(header.Filename))
	if err != nil {
		log.Printf("users: save temp avatar: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating avatar")
		return
	}

	h.avatars.Delete(r.Context(), user.Avatar)

	url, err := h.avatars.Upload(r.Context(), tmpPath)
	if err != nil {
		log.Printf("users: avatar upload: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating avatar")
		return
	}

	updated, err := h.users.SetAvatar(r.Context(), user.ID.Hex(), url)
	if err != nil || updated == nil {
		log.Printf("users: persist avatar: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while updating avatar")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    updated,
		"message": "Avatar updated successfully",
	})
}

// DeleteAvatar reverts the user to the generated default avatar.
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := h.caller(r)
	if err != nil {
		log.Printf("users: avatar lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while deleting avatar")
		return
	}
	if user == nil {
		web.Fail(w, http.StatusBadRequest, "User not found")
		return
	}

	h.avatars.Delete(r.Context(), user.Avatar)

	updated, err := h.users.SetAvatar(r.Context(), user.ID.Hex(), media.DefaultAvatarURL(user.Name))
	if err != nil || updated == nil {
		log.Printf("users: reset avatar: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while deleting avatar")
		return
	}

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    updated,
		"message": "Avatar deleted successfully",
	})
}

// saveTemp copies an uploaded file to a temp path for the media host to
// consume. The media store removes it after upload.
func saveTemp(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "avatar-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
