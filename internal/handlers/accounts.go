package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type accountResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	SkinType       string `json:"skin_type"`
	SkinProblems   string `json:"skin_problems"`
	Specialization string `json:"specialization"`
	IsStaff        bool   `json:"is_staff"`
}

func projectAccount(user *models.User) accountResponse {
	return accountResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		SkinType:       user.SkinType,
		SkinProblems:   user.SkinProblems,
		Specialization: user.Specialization,
		IsStaff:        user.IsStaff,
	}
}

// Signup registers a new account and signs it in.
func Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sessionManager == nil || database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "registration not available")
		return
	}

	var payload credentialsRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	email := strings.TrimSpace(payload.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeJSONError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(payload.Password) < 8 {
		writeJSONError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	user, err := createUser(r, email, payload.Name, payload.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSONError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		applog.Error(r.Context(), "failed to create account", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create account")
		return
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session after signup", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to sign in")
		return
	}

	writeJSON(w, http.StatusCreated, projectAccount(user))
}

// Login processes credential submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sessionManager == nil || database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "authentication not available")
		return
	}

	var payload credentialsRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := authenticate(r, email, payload.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			writeJSONError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "unable to sign in")
		return
	}

	writeJSON(w, http.StatusOK, projectAccount(user))
}

// Logout destroys the current session.
func Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated account, including its skincare profile.
func Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var user models.User
	if err := database.WithContext(r.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		applog.Error(r.Context(), "failed to load account", "error", err, "id", userID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load account")
		return
	}

	writeJSON(w, http.StatusOK, projectAccount(&user))
}
