package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kowalczyk-j/cosmetics-analyser/internal/composition"
	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

type compositionRequest struct {
	CosmeticBarcode    string `json:"cosmetic_barcode"`
	IngredientRefNo    int    `json:"ingredient_ref_no"`
	OrderInComposition *uint  `json:"order_in_composition"`
}

type compositionIngredientSummary struct {
	CosingRefNo            int    `json:"cosing_ref_no"`
	INCIName               string `json:"inci_name"`
	CommonName             string `json:"common_name"`
	Function               string `json:"function"`
	SafetyRating           string `json:"safety_rating"`
	RestrictionDescription string `json:"restriction_description"`
}

type compositionLinkResponse struct {
	ID                 uint                          `json:"id"`
	CosmeticBarcode    string                        `json:"cosmetic_barcode"`
	IngredientRefNo    int                           `json:"ingredient_ref_no"`
	OrderInComposition *uint                         `json:"order_in_composition"`
	Ingredient         *compositionIngredientSummary `json:"ingredient,omitempty"`
}

// cleanScore summarizes a composition's stored safety ratings: neutral
// ingredients are worth one point, beneficial two, harmful zero, and the
// score is the share of the maximum attainable points.
type cleanScore struct {
	Harmful    int `json:"harmful"`
	Neutral    int `json:"neutral"`
	Beneficial int `json:"beneficial"`
	Total      int `json:"total"`
	Score      int `json:"score"`
}

type compositionListResponse struct {
	Links      []compositionLinkResponse `json:"links"`
	CleanScore cleanScore                `json:"clean_score"`
}

func projectCompositionLink(link models.CosmeticComposition) compositionLinkResponse {
	resp := compositionLinkResponse{
		ID:                 link.ID,
		CosmeticBarcode:    link.CosmeticBarcode,
		IngredientRefNo:    link.IngredientRefNo,
		OrderInComposition: link.OrderInComposition,
	}
	if link.Ingredient != nil {
		resp.Ingredient = &compositionIngredientSummary{
			CosingRefNo:            link.Ingredient.CosingRefNo,
			INCIName:               link.Ingredient.INCIName,
			CommonName:             link.Ingredient.CommonName,
			Function:               link.Ingredient.Function,
			SafetyRating:           link.Ingredient.SafetyRating,
			RestrictionDescription: link.Ingredient.RestrictionDescription,
		}
	}
	return resp
}

func scoreComposition(links []models.CosmeticComposition) cleanScore {
	score := cleanScore{}
	for _, link := range links {
		rating := models.SafetyNeutral
		if link.Ingredient != nil && link.Ingredient.SafetyRating != "" {
			rating = link.Ingredient.SafetyRating
		}
		switch rating {
		case models.SafetyHarmful:
			score.Harmful++
		case models.SafetyBeneficial:
			score.Beneficial++
		default:
			score.Neutral++
		}
	}

	score.Total = score.Harmful + score.Neutral + score.Beneficial
	if score.Total > 0 {
		points := score.Neutral + 2*score.Beneficial
		max := 2 * score.Total
		score.Score = int(float64(points)/float64(max)*100 + 0.5)
	}
	return score
}

// CompositionResource handles creation and deletion of individual
// composition links.
func CompositionResource(w http.ResponseWriter, r *http.Request) {
	if database == nil || compositions == nil {
		applog.Debug(r.Context(), "composition request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if _, ok := currentUserID(r); !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/compositions")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listCompositionLinks(w, r)
		case http.MethodPost:
			createCompositionLink(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid composition link identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteCompositionLink(w, r, uint(idValue))
}

func listCompositionLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if barcode := strings.TrimSpace(r.URL.Query().Get("cosmetic")); barcode != "" {
		listCosmeticComposition(w, r, barcode)
		return
	}

	var links []models.CosmeticComposition
	err := database.WithContext(ctx).
		Preload("Ingredient").
		Order("cosmetic_barcode asc, order_in_composition asc").
		Find(&links).Error
	if err != nil {
		applog.Error(ctx, "failed to list composition links", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load composition links")
		return
	}

	responses := make([]compositionLinkResponse, 0, len(links))
	for _, link := range links {
		responses = append(responses, projectCompositionLink(link))
	}
	writeJSON(w, http.StatusOK, responses)
}

func createCompositionLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload compositionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	barcode := strings.TrimSpace(payload.CosmeticBarcode)
	if barcode == "" || payload.IngredientRefNo == 0 {
		writeJSONError(w, http.StatusBadRequest, "cosmetic_barcode and ingredient_ref_no are required")
		return
	}
	if payload.OrderInComposition != nil && *payload.OrderInComposition == 0 {
		writeJSONError(w, http.StatusBadRequest, "order_in_composition must be positive")
		return
	}

	link, err := compositions.CreateLink(ctx, barcode, payload.IngredientRefNo, payload.OrderInComposition)
	if err != nil {
		switch {
		case errors.Is(err, composition.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "cosmetic or ingredient not found")
		case errors.Is(err, composition.ErrDuplicateLink):
			writeJSONError(w, http.StatusConflict, "ingredient is already part of this composition")
		case errors.Is(err, composition.ErrPositionConflict):
			writeJSONError(w, http.StatusConflict, "composition position is already taken")
		default:
			applog.Error(ctx, "failed to create composition link", "error", err, "barcode", barcode)
			writeJSONError(w, http.StatusInternalServerError, "unable to create composition link")
		}
		return
	}

	writeJSON(w, http.StatusCreated, projectCompositionLink(*link))
}

func deleteCompositionLink(w http.ResponseWriter, r *http.Request, id uint) {
	if !requireStaff(w, r) {
		return
	}

	if err := compositions.DeleteLink(r.Context(), id); err != nil {
		if errors.Is(err, composition.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(r.Context(), "failed to delete composition link", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete composition link")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func listCosmeticComposition(w http.ResponseWriter, r *http.Request, barcode string) {
	ctx := r.Context()
	links, err := compositions.ListForCosmetic(ctx, barcode)
	if err != nil {
		applog.Error(ctx, "failed to list composition", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to load composition")
		return
	}

	responses := make([]compositionLinkResponse, 0, len(links))
	for _, link := range links {
		responses = append(responses, projectCompositionLink(link))
	}

	writeJSON(w, http.StatusOK, compositionListResponse{
		Links:      responses,
		CleanScore: scoreComposition(links),
	})
}

func clearCosmeticComposition(w http.ResponseWriter, r *http.Request, barcode string) {
	if !requireStaff(w, r) {
		return
	}

	removed, err := compositions.DeleteAllForCosmetic(r.Context(), barcode)
	if err != nil {
		applog.Error(r.Context(), "failed to clear composition", "error", err, "barcode", barcode)
		writeJSONError(w, http.StatusInternalServerError, "unable to clear composition")
		return
	}

	applog.Info(r.Context(), "composition cleared", "barcode", barcode, "removed", removed)
	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}
