package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReviewCreateAndList(t *testing.T) {
	db, sm := withCatalogTestEnv(t)
	user := seedTestUser(t, db, "user@example.com", false)
	seedTestCosmetic(t, db, "5901234123457", "Hydra Cream")

	body, _ := json.Marshal(reviewRequest{CosmeticBarcode: "5901234123457", Title: "Lovely", Content: "Works well", Rating: 5})
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = authenticateRequest(t, sm, req, user.ID)
	w := httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created reviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.UserID != user.ID || created.Rating != 5 {
		t.Fatalf("unexpected review %+v", created)
	}
	if created.ReviewDate.IsZero() {
		t.Fatal("expected review date to be stamped")
	}

	// anonymous readers can list per cosmetic
	req = httptest.NewRequest(http.MethodGet, "/api/reviews?cosmetic=5901234123457", nil)
	w = httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var results []reviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Lovely" {
		t.Fatalf("unexpected review list %+v", results)
	}
}

func TestReviewValidation(t *testing.T) {
	db, sm := withCatalogTestEnv(t)
	user := seedTestUser(t, db, "user@example.com", false)
	seedTestCosmetic(t, db, "5901234123457", "Hydra Cream")

	tests := []struct {
		name    string
		payload reviewRequest
		status  int
	}{
		{"missing title", reviewRequest{CosmeticBarcode: "5901234123457", Rating: 3}, http.StatusBadRequest},
		{"rating too low", reviewRequest{CosmeticBarcode: "5901234123457", Title: "Bad", Rating: 0}, http.StatusBadRequest},
		{"rating too high", reviewRequest{CosmeticBarcode: "5901234123457", Title: "Bad", Rating: 6}, http.StatusBadRequest},
		{"unknown cosmetic", reviewRequest{CosmeticBarcode: "0000000000000", Title: "Ghost", Rating: 3}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = authenticateRequest(t, sm, req, user.ID)
			w := httptest.NewRecorder()
			ReviewResource(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestReviewUpdateOwnership(t *testing.T) {
	db, sm := withCatalogTestEnv(t)
	author := seedTestUser(t, db, "author@example.com", false)
	other := seedTestUser(t, db, "other@example.com", false)
	seedTestCosmetic(t, db, "5901234123457", "Hydra Cream")

	body, _ := json.Marshal(reviewRequest{CosmeticBarcode: "5901234123457", Title: "Original", Rating: 4})
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = authenticateRequest(t, sm, req, author.ID)
	w := httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var created reviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// another user cannot edit it
	body, _ = json.Marshal(reviewRequest{Title: "Hijacked", Rating: 1})
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/reviews/%d", created.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = authenticateRequest(t, sm, req, other.ID)
	w = httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign update, got %d", w.Code)
	}

	// the author can
	body, _ = json.Marshal(reviewRequest{Title: "Revised", Rating: 3})
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/reviews/%d", created.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = authenticateRequest(t, sm, req, author.ID)
	w = httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for author update, got %d", w.Code)
	}
}

func TestReviewDeleteModeration(t *testing.T) {
	db, sm := withCatalogTestEnv(t)
	author := seedTestUser(t, db, "author@example.com", false)
	other := seedTestUser(t, db, "other@example.com", false)
	staff := seedTestUser(t, db, "staff@example.com", true)
	seedTestCosmetic(t, db, "5901234123457", "Hydra Cream")

	create := func() reviewResponse {
		body, _ := json.Marshal(reviewRequest{CosmeticBarcode: "5901234123457", Title: "Target", Rating: 2})
		req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = authenticateRequest(t, sm, req, author.ID)
		w := httptest.NewRecorder()
		ReviewResource(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", w.Code)
		}
		var created reviewResponse
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return created
	}

	first := create()

	// non-author non-staff cannot delete
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", first.ID), nil)
	req = authenticateRequest(t, sm, req, other.ID)
	w := httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign delete, got %d", w.Code)
	}

	// staff moderate any review
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", first.ID), nil)
	req = authenticateStaffRequest(t, sm, req, staff.ID)
	w = httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for staff delete, got %d", w.Code)
	}

	second := create()

	// authors remove their own
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", second.ID), nil)
	req = authenticateRequest(t, sm, req, author.ID)
	w = httptest.NewRecorder()
	ReviewResource(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for author delete, got %d", w.Code)
	}
}
