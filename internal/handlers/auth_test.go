package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	original := database
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:handlers-%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	database = db
	return db, func() {
		database = original
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func authenticateRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, userID uint) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionUserIDKey, int(userID))
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	return req
}

func authenticateStaffRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, userID uint) *http.Request {
	t.Helper()
	req = authenticateRequest(t, sm, req, userID)
	sm.Put(req.Context(), sessionStaffKey, true)
	return req
}

func TestActiveSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActiveSession(req) {
		t.Fatal("expected inactive session when manager is nil")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserIDKey, 42)

	if !ActiveSession(req) {
		t.Fatal("expected active session when flags are set")
	}
}

func TestCurrentUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected currentUserID to fail without session manager")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)

	if _, ok := currentUserID(req); ok {
		t.Fatal("expected false when user id not set")
	}

	sm.Put(req.Context(), sessionUserIDKey, 7)
	id, ok := currentUserID(req)
	if !ok || id != 7 {
		t.Fatalf("expected user id 7, got %d (ok=%t)", id, ok)
	}
}

func TestEstablishSession(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)

	user := &models.User{Model: gorm.Model{ID: 3}, Email: "user@example.com", IsStaff: true}
	if err := establishSession(req, user); err != nil {
		t.Fatalf("establishSession returned error: %v", err)
	}

	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}
	if got := sm.GetInt(req.Context(), sessionUserIDKey); got != 3 {
		t.Fatalf("expected session user id 3, got %d", got)
	}
	if got := sm.GetString(req.Context(), sessionUserEmailKey); got != "user@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if !sm.GetBool(req.Context(), sessionStaffKey) {
		t.Fatal("expected staff flag to be carried into the session")
	}
}

func TestEstablishSessionWithoutManager(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	if err := establishSession(req, &models.User{}); err == nil {
		t.Fatal("expected error when session manager is nil")
	}
}

func TestCreateUser(t *testing.T) {
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil)
	user, err := createUser(req, "Example@Email.com", "  Test User  ", "password123")
	if err != nil {
		t.Fatalf("createUser returned error: %v", err)
	}
	if user.Email != "example@email.com" {
		t.Fatalf("expected email to be lowercased, got %q", user.Email)
	}
	if user.Name != "Test User" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("password hash does not match original: %v", err)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", "example@email.com").Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("expected user persisted, count=%d err=%v", count, err)
	}
}

func TestCreateUserWithoutDatabase(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil)
	if _, err := createUser(req, "test@example.com", "User", "password"); !errors.Is(err, gorm.ErrInvalidDB) {
		t.Fatalf("expected ErrInvalidDB, got %v", err)
	}
}

func TestFindUserByEmail(t *testing.T) {
	_, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := findUserByEmail(req, "missing@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing user, got %v", err)
	}

	if _, err := createUser(req, "user@example.com", "User", "password123"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	user, err := findUserByEmail(req, "USER@example.com")
	if err != nil {
		t.Fatalf("findUserByEmail returned error: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("expected lowercase email, got %q", user.Email)
	}
}

func TestAuthenticate(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)

	if _, err := createUser(req, "user@example.com", "User", "password123"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	user, err := authenticate(req, "user@example.com", "password123")
	if err != nil {
		t.Fatalf("expected authentication to succeed: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("unexpected authenticated user %q", user.Email)
	}
	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}

	if _, err := authenticate(req, "user@example.com", "wrong"); !errors.Is(err, errInvalidCredentials) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, err := authenticate(req, "missing@example.com", "password123"); !errors.Is(err, errInvalidCredentials) {
		t.Fatalf("expected invalid credentials error for unknown email, got %v", err)
	}
}

func TestRequireAuthentication(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	called := false
	handler := RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req.WithContext(ctx))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without session, got %d", w.Code)
	}
	if called {
		t.Fatal("expected wrapped handler to be skipped")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req = authenticateRequest(t, sm, req, 9)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !called {
		t.Fatalf("expected wrapped handler to run for active session, got %d", w.Code)
	}
}

func TestRequireStaff(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodPost, "/api/ingredients/import", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	w := httptest.NewRecorder()
	if requireStaff(w, req.WithContext(ctx)) {
		t.Fatal("expected rejection without a session")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/ingredients/import", nil)
	req = authenticateRequest(t, sm, req, 4)
	w = httptest.NewRecorder()
	if requireStaff(w, req) {
		t.Fatal("expected rejection for a non-staff session")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/ingredients/import", nil)
	req = authenticateStaffRequest(t, sm, req, 4)
	w = httptest.NewRecorder()
	if !requireStaff(w, req) {
		t.Fatal("expected staff session to pass")
	}
}
