package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

type reviewRequest struct {
	CosmeticBarcode string `json:"cosmetic_barcode"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	Rating          int    `json:"rating"`
}

type reviewResponse struct {
	ID              uint      `json:"id"`
	CosmeticBarcode string    `json:"cosmetic_barcode"`
	UserID          uint      `json:"user_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Rating          int       `json:"rating"`
	ReviewDate      time.Time `json:"review_date"`
}

func projectReview(review models.Review) reviewResponse {
	return reviewResponse{
		ID:              review.ID,
		CosmeticBarcode: review.CosmeticBarcode,
		UserID:          review.UserID,
		Title:           review.Title,
		Content:         review.Content,
		Rating:          review.Rating,
		ReviewDate:      review.ReviewDate,
	}
}

// ReviewResource handles CRUD interactions for cosmetic reviews. Reviews are
// readable by anyone but writable only by their author.
func ReviewResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/reviews")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listReviews(w, r)
		case http.MethodPost:
			createReview(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	reviewID := uint(idValue)

	switch r.Method {
	case http.MethodGet:
		showReview(w, r, reviewID)
	case http.MethodPut:
		updateReview(w, r, reviewID)
	case http.MethodDelete:
		deleteReview(w, r, reviewID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).Model(&models.Review{}).Order("review_date desc")

	if barcode := strings.TrimSpace(r.URL.Query().Get("cosmetic")); barcode != "" {
		query = query.Where("cosmetic_barcode = ?", barcode)
	}

	var results []models.Review
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list reviews", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load reviews")
		return
	}

	responses := make([]reviewResponse, 0, len(results))
	for _, review := range results {
		responses = append(responses, projectReview(review))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showReview(w http.ResponseWriter, r *http.Request, reviewID uint) {
	ctx := r.Context()
	var review models.Review
	if err := database.WithContext(ctx).First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load review", "error", err, "id", reviewID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load review")
		return
	}

	writeJSON(w, http.StatusOK, projectReview(review))
}

func createReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload reviewRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	barcode := strings.TrimSpace(payload.CosmeticBarcode)
	title := strings.TrimSpace(payload.Title)
	if barcode == "" || title == "" {
		writeJSONError(w, http.StatusBadRequest, "cosmetic_barcode and title are required")
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		writeJSONError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	var count int64
	if err := database.WithContext(ctx).Model(&models.Cosmetic{}).Where("barcode = ?", barcode).Count(&count).Error; err != nil || count == 0 {
		writeJSONError(w, http.StatusNotFound, "cosmetic not found")
		return
	}

	review := models.Review{
		CosmeticBarcode: barcode,
		UserID:          userID,
		Title:           title,
		Content:         strings.TrimSpace(payload.Content),
		Rating:          payload.Rating,
		ReviewDate:      time.Now().UTC(),
	}

	if err := database.WithContext(ctx).Create(&review).Error; err != nil {
		applog.Error(ctx, "failed to create review", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to create review")
		return
	}

	writeJSON(w, http.StatusCreated, projectReview(review))
}

func updateReview(w http.ResponseWriter, r *http.Request, reviewID uint) {
	ctx := r.Context()
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var review models.Review
	if err := database.WithContext(ctx).Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load review for update", "error", err, "id", reviewID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load review")
		return
	}

	var payload reviewRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		writeJSONError(w, http.StatusBadRequest, "title is required")
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		writeJSONError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	updates := map[string]any{
		"title":   title,
		"content": strings.TrimSpace(payload.Content),
		"rating":  payload.Rating,
	}

	if err := database.WithContext(ctx).Model(&review).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update review", "error", err, "id", reviewID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update review")
		return
	}

	writeJSON(w, http.StatusOK, projectReview(review))
}

func deleteReview(w http.ResponseWriter, r *http.Request, reviewID uint) {
	ctx := r.Context()
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// Staff moderate any review; authors remove their own.
	query := database.WithContext(ctx)
	if isStaff(r) {
		query = query.Where("id = ?", reviewID)
	} else {
		query = query.Where("id = ? AND user_id = ?", reviewID, userID)
	}

	result := query.Delete(&models.Review{})
	if result.Error != nil {
		applog.Error(ctx, "failed to delete review", "error", result.Error, "id", reviewID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete review")
		return
	}
	if result.RowsAffected == 0 {
		http.NotFound(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
