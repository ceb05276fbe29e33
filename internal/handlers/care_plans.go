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

type carePlanRequest struct {
	PlanName    string     `json:"plan_name"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type carePlanEntryRequest struct {
	CosmeticBarcode string `json:"cosmetic_barcode"`
	Frequency       string `json:"frequency"`
	TimeOfDay       string `json:"time_of_day"`
	Notes           string `json:"notes"`
}

type carePlanRatingRequest struct {
	Rating bool `json:"rating"`
}

type carePlanEntryResponse struct {
	ID              uint   `json:"id"`
	PlanID          uint   `json:"plan_id"`
	CosmeticBarcode string `json:"cosmetic_barcode"`
	Frequency       string `json:"frequency"`
	TimeOfDay       string `json:"time_of_day"`
	Notes           string `json:"notes"`
}

type carePlanResponse struct {
	ID          uint                    `json:"id"`
	UserID      uint                    `json:"user_id"`
	PlanName    string                  `json:"plan_name"`
	Description string                  `json:"description"`
	StartDate   time.Time               `json:"start_date"`
	EndDate     *time.Time              `json:"end_date"`
	Entries     []carePlanEntryResponse `json:"entries"`
	Upvotes     int64                   `json:"upvotes"`
	Downvotes   int64                   `json:"downvotes"`
}

func projectCarePlanEntry(entry models.CarePlanEntry) carePlanEntryResponse {
	return carePlanEntryResponse{
		ID:              entry.ID,
		PlanID:          entry.PlanID,
		CosmeticBarcode: entry.CosmeticBarcode,
		Frequency:       entry.Frequency,
		TimeOfDay:       entry.TimeOfDay,
		Notes:           entry.Notes,
	}
}

func projectCarePlan(r *http.Request, plan models.CarePlan) carePlanResponse {
	entries := make([]carePlanEntryResponse, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		entries = append(entries, projectCarePlanEntry(entry))
	}

	resp := carePlanResponse{
		ID:          plan.ID,
		UserID:      plan.UserID,
		PlanName:    plan.PlanName,
		Description: plan.Description,
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
		Entries:     entries,
	}

	ctx := r.Context()
	if err := database.WithContext(ctx).Model(&models.CarePlanRating{}).
		Where("plan_id = ? AND rating = ?", plan.ID, true).Count(&resp.Upvotes).Error; err != nil {
		applog.Error(ctx, "failed to count care plan upvotes", "error", err, "plan", plan.ID)
	}
	if err := database.WithContext(ctx).Model(&models.CarePlanRating{}).
		Where("plan_id = ? AND rating = ?", plan.ID, false).Count(&resp.Downvotes).Error; err != nil {
		applog.Error(ctx, "failed to count care plan downvotes", "error", err, "plan", plan.ID)
	}

	return resp
}

// CarePlanResource handles CRUD interactions for care plans and their nested
// entries and ratings. Plans are owned records: only the owner may read or
// modify them, except ratings which any authenticated user may cast.
func CarePlanResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/care-plans")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listCarePlans(w, r, userID)
		case http.MethodPost:
			createCarePlan(w, r, userID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	planID := uint(idValue)

	if len(segments) > 1 {
		switch segments[1] {
		case "entries":
			handleCarePlanEntries(w, r, planID, userID, segments[2:])
		case "rating":
			if r.Method != http.MethodPut {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			rateCarePlan(w, r, planID, userID)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showCarePlan(w, r, planID, userID)
	case http.MethodPut:
		updateCarePlan(w, r, planID, userID)
	case http.MethodDelete:
		deleteCarePlan(w, r, planID, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func findOwnedPlan(r *http.Request, planID, userID uint) (*models.CarePlan, error) {
	var plan models.CarePlan
	err := database.WithContext(r.Context()).
		Preload("Entries").
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func listCarePlans(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var plans []models.CarePlan
	err := database.WithContext(ctx).
		Preload("Entries").
		Where("user_id = ?", userID).
		Order("start_date desc").
		Find(&plans).Error
	if err != nil {
		applog.Error(ctx, "failed to list care plans", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load care plans")
		return
	}

	responses := make([]carePlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, projectCarePlan(r, plan))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showCarePlan(w http.ResponseWriter, r *http.Request, planID, userID uint) {
	plan, err := findOwnedPlan(r, planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(r.Context(), "failed to load care plan", "error", err, "id", planID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load care plan")
		return
	}

	writeJSON(w, http.StatusOK, projectCarePlan(r, *plan))
}

func createCarePlan(w http.ResponseWriter, r *http.Request, userID uint) {
	var payload carePlanRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.PlanName)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "plan_name is required")
		return
	}

	start := payload.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}

	plan := models.CarePlan{
		UserID:      userID,
		PlanName:    name,
		Description: strings.TrimSpace(payload.Description),
		StartDate:   start,
		EndDate:     payload.EndDate,
	}

	if err := database.WithContext(r.Context()).Create(&plan).Error; err != nil {
		applog.Error(r.Context(), "failed to create care plan", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create care plan")
		return
	}

	writeJSON(w, http.StatusCreated, projectCarePlan(r, plan))
}

func updateCarePlan(w http.ResponseWriter, r *http.Request, planID, userID uint) {
	plan, err := findOwnedPlan(r, planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(r.Context(), "failed to load care plan for update", "error", err, "id", planID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load care plan")
		return
	}

	var payload carePlanRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.PlanName)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "plan_name is required")
		return
	}

	updates := map[string]any{
		"plan_name":   name,
		"description": strings.TrimSpace(payload.Description),
		"end_date":    payload.EndDate,
	}
	if !payload.StartDate.IsZero() {
		updates["start_date"] = payload.StartDate
	}

	if err := database.WithContext(r.Context()).Model(plan).Updates(updates).Error; err != nil {
		applog.Error(r.Context(), "failed to update care plan", "error", err, "id", planID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update care plan")
		return
	}

	writeJSON(w, http.StatusOK, projectCarePlan(r, *plan))
}

func deleteCarePlan(w http.ResponseWriter, r *http.Request, planID, userID uint) {
	result := database.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&models.CarePlan{})
	if result.Error != nil {
		applog.Error(r.Context(), "failed to delete care plan", "error", result.Error, "id", planID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete care plan")
		return
	}
	if result.RowsAffected == 0 {
		http.NotFound(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleCarePlanEntries(w http.ResponseWriter, r *http.Request, planID, userID uint, rest []string) {
	if _, err := findOwnedPlan(r, planID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(r.Context(), "failed to load care plan for entries", "error", err, "id", planID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load care plan")
		return
	}

	if len(rest) == 0 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		createCarePlanEntry(w, r, planID)
		return
	}

	entryID, err := strconv.ParseUint(rest[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteCarePlanEntry(w, r, planID, uint(entryID))
}

func createCarePlanEntry(w http.ResponseWriter, r *http.Request, planID uint) {
	var payload carePlanEntryRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	barcode := strings.TrimSpace(payload.CosmeticBarcode)
	if barcode == "" {
		writeJSONError(w, http.StatusBadRequest, "cosmetic_barcode is required")
		return
	}

	var count int64
	if err := database.WithContext(r.Context()).Model(&models.Cosmetic{}).Where("barcode = ?", barcode).Count(&count).Error; err != nil || count == 0 {
		writeJSONError(w, http.StatusNotFound, "cosmetic not found")
		return
	}

	entry := models.CarePlanEntry{
		PlanID:          planID,
		CosmeticBarcode: barcode,
		Frequency:       strings.TrimSpace(payload.Frequency),
		TimeOfDay:       strings.TrimSpace(payload.TimeOfDay),
		Notes:           strings.TrimSpace(payload.Notes),
	}

	if err := database.WithContext(r.Context()).Create(&entry).Error; err != nil {
		applog.Error(r.Context(), "failed to create care plan entry", "error", err, "plan", planID)
		writeJSONError(w, http.StatusInternalServerError, "unable to create care plan entry")
		return
	}

	writeJSON(w, http.StatusCreated, projectCarePlanEntry(entry))
}

func deleteCarePlanEntry(w http.ResponseWriter, r *http.Request, planID, entryID uint) {
	result := database.WithContext(r.Context()).
		Where("id = ? AND plan_id = ?", entryID, planID).
		Delete(&models.CarePlanEntry{})
	if result.Error != nil {
		applog.Error(r.Context(), "failed to delete care plan entry", "error", result.Error, "id", entryID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete care plan entry")
		return
	}
	if result.RowsAffected == 0 {
		http.NotFound(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// rateCarePlan records a thumbs up/down vote, replacing any prior vote from
// the same user.
func rateCarePlan(w http.ResponseWriter, r *http.Request, planID, userID uint) {
	ctx := r.Context()

	var count int64
	if err := database.WithContext(ctx).Model(&models.CarePlan{}).Where("id = ?", planID).Count(&count).Error; err != nil || count == 0 {
		http.NotFound(w, r)
		return
	}

	var payload carePlanRatingRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	var rating models.CarePlanRating
	err := database.WithContext(ctx).
		Unscoped().
		Where("plan_id = ? AND user_id = ?", planID, userID).
		First(&rating).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.CarePlanRating{PlanID: planID, UserID: userID, Rating: payload.Rating}
		err = database.WithContext(ctx).Create(&rating).Error
	case err == nil:
		err = database.WithContext(ctx).Unscoped().Model(&rating).
			Updates(map[string]any{"rating": payload.Rating, "deleted_at": nil}).Error
	}
	if err != nil {
		applog.Error(ctx, "failed to record care plan rating", "error", err, "plan", planID)
		writeJSONError(w, http.StatusInternalServerError, "unable to record rating")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"rating": payload.Rating})
}
