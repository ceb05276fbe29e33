package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/kowalczyk-j/cosmetics-analyser/internal/cosing"
	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

type ingredientResponse struct {
	CosingRefNo            int    `json:"cosing_ref_no"`
	INCIName               string `json:"inci_name"`
	CommonName             string `json:"common_name"`
	Description            string `json:"description"`
	Function               string `json:"function"`
	Restrictions           string `json:"restrictions"`
	UpdateDate             string `json:"update_date"`
	SafetyRating           string `json:"safety_rating"`
	RestrictionDescription string `json:"restriction_description"`
}

func projectIngredient(ingredient models.IngredientINCI) ingredientResponse {
	return ingredientResponse{
		CosingRefNo:            ingredient.CosingRefNo,
		INCIName:               ingredient.INCIName,
		CommonName:             ingredient.CommonName,
		Description:            ingredient.Description,
		Function:               ingredient.Function,
		Restrictions:           ingredient.Restrictions,
		UpdateDate:             ingredient.UpdateDate,
		SafetyRating:           ingredient.SafetyRating,
		RestrictionDescription: ingredient.RestrictionDescription,
	}
}

// IngredientResource handles read access to the COSING catalog plus the
// staff-only import and recalculation operations. Ingredients are never
// created or edited directly by end users.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if database == nil || importer == nil {
		applog.Debug(r.Context(), "ingredient request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/ingredients")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		listIngredients(w, r)
		return
	case "import":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		importIngredients(w, r)
		return
	case "recalculate":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		recalculateIngredients(w, r)
		return
	}

	refNo, err := strconv.Atoi(path)
	if err != nil {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	showIngredient(w, r, refNo)
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).Model(&models.IngredientINCI{}).Order("inci_name asc")

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(inci_name) LIKE ? OR lower(common_name) LIKE ?", like, like)
	}
	if function := strings.TrimSpace(r.URL.Query().Get("function")); function != "" {
		query = query.Where("function = ?", function)
	}
	if rating := strings.TrimSpace(r.URL.Query().Get("safety")); rating != "" {
		query = query.Where("safety_rating = ?", rating)
	}

	var results []models.IngredientINCI
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list ingredients", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredients")
		return
	}

	responses := make([]ingredientResponse, 0, len(results))
	for _, ingredient := range results {
		responses = append(responses, projectIngredient(ingredient))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showIngredient(w http.ResponseWriter, r *http.Request, refNo int) {
	ctx := r.Context()
	var ingredient models.IngredientINCI
	if err := database.WithContext(ctx).First(&ingredient, "cosing_ref_no = ?", refNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient", "error", err, "ref_no", refNo)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
		return
	}

	writeJSON(w, http.StatusOK, projectIngredient(ingredient))
}

// importIngredients ingests a COSING export uploaded either as a multipart
// "file" part or as the raw request body.
func importIngredients(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	ctx := r.Context()
	source := io.Reader(r.Body)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "multipart upload requires a file part")
			return
		}
		defer file.Close()
		source = file
	}

	opts := cosing.Options{UTF8: r.URL.Query().Get("encoding") == "utf-8"}
	report, err := importer.Import(ctx, source, opts)
	if err != nil {
		applog.Error(ctx, "cosing import failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to import ingredient file")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func recalculateIngredients(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	report, err := importer.RecalculateAll(r.Context())
	if err != nil {
		applog.Error(r.Context(), "safety recalculation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to recalculate safety ratings")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
