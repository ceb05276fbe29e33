package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

type cosmeticRequest struct {
	Barcode      string `json:"barcode"`
	ProductName  string `json:"product_name"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	PurchaseLink string `json:"purchase_link"`
}

type cosmeticResponse struct {
	Barcode      string    `json:"barcode"`
	ProductName  string    `json:"product_name"`
	Manufacturer string    `json:"manufacturer"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	PurchaseLink string    `json:"purchase_link"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func projectCosmetic(cosmetic models.Cosmetic) cosmeticResponse {
	return cosmeticResponse{
		Barcode:      cosmetic.Barcode,
		ProductName:  cosmetic.ProductName,
		Manufacturer: cosmetic.Manufacturer,
		Description:  cosmetic.Description,
		Category:     cosmetic.Category,
		PurchaseLink: cosmetic.PurchaseLink,
		IsVerified:   cosmetic.IsVerified,
		CreatedAt:    cosmetic.CreatedAt,
		UpdatedAt:    cosmetic.UpdatedAt,
	}
}

// CosmeticResource handles REST-style interactions for cosmetic records,
// including the nested composition collection.
func CosmeticResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "cosmetic request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/cosmetics")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listCosmetics(w, r)
		case http.MethodPost:
			createCosmetic(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	barcode := segments[0]

	if len(segments) > 1 {
		switch segments[1] {
		case "verify":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			verifyCosmetic(w, r, barcode)
		case "composition":
			switch r.Method {
			case http.MethodGet:
				listCosmeticComposition(w, r, barcode)
			case http.MethodDelete:
				clearCosmeticComposition(w, r, barcode)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showCosmetic(w, r, barcode)
	case http.MethodPut:
		updateCosmetic(w, r, barcode)
	case http.MethodDelete:
		deleteCosmetic(w, r, barcode)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listCosmetics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).Model(&models.Cosmetic{}).Order("product_name asc")

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"lower(product_name) LIKE ? OR lower(barcode) LIKE ? OR lower(manufacturer) LIKE ?",
			like, like, like,
		)
	}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if verified := strings.TrimSpace(r.URL.Query().Get("verified")); verified != "" {
		query = query.Where("is_verified = ?", verified == "true")
	}

	var results []models.Cosmetic
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list cosmetics", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load cosmetics")
		return
	}

	responses := make([]cosmeticResponse, 0, len(results))
	for _, cosmetic := range results {
		responses = append(responses, projectCosmetic(cosmetic))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showCosmetic(w http.ResponseWriter, r *http.Request, barcode string) {
	ctx := r.Context()
	var cosmetic models.Cosmetic
	if err := database.WithContext(ctx).First(&cosmetic, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load cosmetic", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to load cosmetic")
		return
	}

	writeJSON(w, http.StatusOK, projectCosmetic(cosmetic))
}

func createCosmetic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := currentUserID(r); !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload cosmeticRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	barcode := strings.TrimSpace(payload.Barcode)
	name := strings.TrimSpace(payload.ProductName)
	if barcode == "" || name == "" {
		writeJSONError(w, http.StatusBadRequest, "barcode and product_name are required")
		return
	}
	if len(barcode) > 13 {
		writeJSONError(w, http.StatusBadRequest, "barcode must be at most 13 characters")
		return
	}

	cosmetic := models.Cosmetic{
		Barcode:      barcode,
		ProductName:  name,
		Manufacturer: strings.TrimSpace(payload.Manufacturer),
		Description:  strings.TrimSpace(payload.Description),
		Category:     strings.TrimSpace(payload.Category),
		PurchaseLink: strings.TrimSpace(payload.PurchaseLink),
		// User submissions wait for moderation; staff entries skip it.
		IsVerified: isStaff(r),
	}

	if err := database.WithContext(ctx).Create(&cosmetic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSONError(w, http.StatusConflict, "a cosmetic with this barcode already exists")
			return
		}
		applog.Error(ctx, "failed to create cosmetic", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to create cosmetic")
		return
	}

	writeJSON(w, http.StatusCreated, projectCosmetic(cosmetic))
}

func updateCosmetic(w http.ResponseWriter, r *http.Request, barcode string) {
	ctx := r.Context()
	if _, ok := currentUserID(r); !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var cosmetic models.Cosmetic
	if err := database.WithContext(ctx).First(&cosmetic, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load cosmetic for update", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to load cosmetic")
		return
	}

	var payload cosmeticRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.ProductName)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "product_name is required")
		return
	}

	updates := map[string]any{
		"product_name":  name,
		"manufacturer":  strings.TrimSpace(payload.Manufacturer),
		"description":   strings.TrimSpace(payload.Description),
		"category":      strings.TrimSpace(payload.Category),
		"purchase_link": strings.TrimSpace(payload.PurchaseLink),
	}

	if err := database.WithContext(ctx).Model(&cosmetic).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update cosmetic", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to update cosmetic")
		return
	}

	writeJSON(w, http.StatusOK, projectCosmetic(cosmetic))
}

func deleteCosmetic(w http.ResponseWriter, r *http.Request, barcode string) {
	if !requireStaff(w, r) {
		return
	}

	ctx := r.Context()
	result := database.WithContext(ctx).Delete(&models.Cosmetic{}, "barcode = ?", barcode)
	if result.Error != nil {
		applog.Error(ctx, "failed to delete cosmetic", "error", result.Error, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete cosmetic")
		return
	}
	if result.RowsAffected == 0 {
		http.NotFound(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func verifyCosmetic(w http.ResponseWriter, r *http.Request, barcode string) {
	if !requireStaff(w, r) {
		return
	}

	ctx := r.Context()
	var cosmetic models.Cosmetic
	if err := database.WithContext(ctx).First(&cosmetic, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load cosmetic for verification", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to load cosmetic")
		return
	}

	if err := database.WithContext(ctx).Model(&cosmetic).Update("is_verified", true).Error; err != nil {
		applog.Error(ctx, "failed to verify cosmetic", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to verify cosmetic")
		return
	}

	applog.Info(ctx, "cosmetic verified", "barcode", barcode)
	writeJSON(w, http.StatusOK, projectCosmetic(cosmetic))
}
