package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrackr/backend/internal/media"
	"github.com/jobtrackr/backend/internal/models"
	"github.com/jobtrackr/backend/internal/validate"
	"github.com/jobtrackr/backend/internal/web"
)

// bcryptCost is the work factor applied to every stored password.
const bcryptCost = 10

// UserStore defines the user persistence the auth handlers need. Lookup
// methods return (nil, nil) when no user matches.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
}

// Handler holds the auth HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenManager
}

func NewHandler(users UserStore, tokens *TokenManager) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// Register creates a new user account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		web.ValidationFailed(w, errs)
		return
	}

	existing, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("register: lookup %s: %v", req.Email, err)
		web.Fail(w, http.StatusInternalServerError, "Error while registering user")
		return
	}
	if existing != nil {
		web.Fail(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Printf("register: hash: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while registering user")
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   media.DefaultAvatarURL(req.Name),
		Role:     models.RoleUser,
	}
	if _, err := h.users.Create(r.Context(), user); err != nil {
		log.Printf("register: create %s: %v", req.Email, err)
		web.Fail(w, http.StatusBadRequest, "Error while registering user")
		return
	}

	// TODO: send verification email and flip Verified once confirmed.

	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
	})
}

// Login verifies credentials, issues the token pair and stores the refresh
// token as the user's single active session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validate.Struct(req); errs != nil {
		web.ValidationFailed(w, errs)
		return
	}

	// Same message for unknown email and bad password.
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("login: lookup %s: %v", req.Email, err)
		web.Fail(w, http.StatusInternalServerError, "Error while logging user")
		return
	}
	if user == nil {
		web.Fail(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	id := user.ID.Hex()
	accessToken, err := h.tokens.Issue(user.Email, id, AccessTTL)
	if err != nil {
		log.Printf("login: issue access token: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while logging user")
		return
	}
	refreshToken, err := h.tokens.Issue(user.Email, id, RefreshTTL)
	if err != nil {
		log.Printf("login: issue refresh token: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while logging user")
		return
	}

	// Replacing the stored value invalidates any prior session.
	if err := h.users.SetRefreshToken(r.Context(), id, refreshToken); err != nil {
		log.Printf("login: store refresh token: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while logging user")
		return
	}

	setAuthCookie(w, AccessCookie, accessToken, AccessTTL)
	setAuthCookie(w, RefreshCookie, refreshToken, RefreshTTL)
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "User logged in successfully",
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must exactly match the value stored on a user document, which makes
// clearing that value an implicit revocation of all outstanding tokens.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}
	if _, err := h.tokens.Verify(cookie.Value); err != nil {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	user, err := h.users.GetByRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		log.Printf("refresh: lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while refreshing token")
		return
	}
	if user == nil {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	accessToken, err := h.tokens.Issue(user.Email, user.ID.Hex(), AccessTTL)
	if err != nil {
		log.Printf("refresh: issue: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while refreshing token")
		return
	}

	setAuthCookie(w, AccessCookie, accessToken, AccessTTL)
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Access token refreshed successfully",
		"accessToken": accessToken,
	})
}

// Logout clears the stored refresh token and both cookies.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	user, err := h.users.GetByRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		log.Printf("logout: lookup: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while logging out user")
		return
	}
	if user == nil {
		web.Fail(w, http.StatusUnauthorized, "Unauthorized Access")
		return
	}

	if err := h.users.SetRefreshToken(r.Context(), user.ID.Hex(), ""); err != nil {
		log.Printf("logout: clear token: %v", err)
		web.Fail(w, http.StatusInternalServerError, "Error while logging out user")
		return
	}

	ClearAuthCookies(w)
	web.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User logged out successfully",
	})
}

func setAuthCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(ttl / time.Second),
	})
}

// ClearAuthCookies expires both session cookies.
func ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			MaxAge:   -1,
		})
	}
}
