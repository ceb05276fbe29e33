package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

type favoriteRequest struct {
	CosmeticBarcode string `json:"cosmetic_barcode"`
}

type favoriteResponse struct {
	ID              uint              `json:"id"`
	CosmeticBarcode string            `json:"cosmetic_barcode"`
	Cosmetic        *cosmeticResponse `json:"cosmetic,omitempty"`
}

func projectFavorite(favorite models.FavoriteProduct) favoriteResponse {
	resp := favoriteResponse{
		ID:              favorite.ID,
		CosmeticBarcode: favorite.CosmeticBarcode,
	}
	if favorite.Cosmetic != nil {
		projected := projectCosmetic(*favorite.Cosmetic)
		resp.Cosmetic = &projected
	}
	return resp
}

// FavoriteResource handles a user's bookmarked cosmetics.
func FavoriteResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/favorites")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listFavorites(w, r, userID)
		case http.MethodPost:
			createFavorite(w, r, userID)
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

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteFavorite(w, r, uint(idValue), userID)
}

func listFavorites(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var favorites []models.FavoriteProduct
	err := database.WithContext(ctx).
		Preload("Cosmetic").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favorites).Error
	if err != nil {
		applog.Error(ctx, "failed to list favorites", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load favorites")
		return
	}

	responses := make([]favoriteResponse, 0, len(favorites))
	for _, favorite := range favorites {
		responses = append(responses, projectFavorite(favorite))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createFavorite(w http.ResponseWriter, r *http.Request, userID uint) {
	ctx := r.Context()
	var payload favoriteRequest
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
	if err := database.WithContext(ctx).Model(&models.Cosmetic{}).Where("barcode = ?", barcode).Count(&count).Error; err != nil || count == 0 {
		writeJSONError(w, http.StatusNotFound, "cosmetic not found")
		return
	}

	favorite := models.FavoriteProduct{
		UserID:          userID,
		CosmeticBarcode: barcode,
	}

	if err := database.WithContext(ctx).Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSONError(w, http.StatusConflict, "cosmetic is already a favorite")
			return
		}
		applog.Error(ctx, "failed to create favorite", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to create favorite")
		return
	}

	writeJSON(w, http.StatusCreated, projectFavorite(favorite))
}

func deleteFavorite(w http.ResponseWriter, r *http.Request, favoriteID, userID uint) {
	ctx := r.Context()
	// Hard delete so the (user, cosmetic) unique slot frees up immediately.
	result := database.WithContext(ctx).
		Unscoped().
		Where("id = ? AND user_id = ?", favoriteID, userID).
		Delete(&models.FavoriteProduct{})
	if result.Error != nil {
		applog.Error(ctx, "failed to delete favorite", "error", result.Error, "id", favoriteID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete favorite")
		return
	}
	if result.RowsAffected == 0 {
		http.NotFound(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
