package cosing

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	applog "github.com/kowalczyk-j/cosmetics-analyser/internal/log"
	"github.com/kowalczyk-j/cosmetics-analyser/internal/safety"
	"github.com/kowalczyk-j/cosmetics-analyser/models"
)

// RecalculationReport summarizes one recalculation sweep.
type RecalculationReport struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

const recalculateBatchSize = 500

// RecalculateAll recomputes the safety rating and restriction description of
// every stored ingredient from its raw function and restriction text. The
// sweep is idempotent: a row is written only when either derived value
// actually changed, so a second run over unchanged data reports zero
// updates and performs no writes.
func (i *Importer) RecalculateAll(ctx context.Context) (RecalculationReport, error) {
	report := RecalculationReport{}

	var batch []models.IngredientINCI
	result := i.db.WithContext(ctx).FindInBatches(&batch, recalculateBatchSize, func(tx *gorm.DB, _ int) error {
		for _, ingredient := range batch {
			report.Total++

			rating := string(safety.Classify(ingredient.Function, ingredient.Restrictions))
			description := safety.DescribeRestrictions(ingredient.Restrictions)
			if rating == ingredient.SafetyRating && description == ingredient.RestrictionDescription {
				continue
			}

			err := i.db.WithContext(ctx).
				Model(&models.IngredientINCI{}).
				Where("cosing_ref_no = ?", ingredient.CosingRefNo).
				Updates(map[string]any{
					"safety_rating":           rating,
					"restriction_description": description,
				}).Error
			if err != nil {
				return fmt.Errorf("update ingredient %d: %w", ingredient.CosingRefNo, err)
			}
			report.Updated++
		}
		return nil
	})
	if result.Error != nil {
		return report, fmt.Errorf("recalculate safety ratings: %w", result.Error)
	}

	applog.Info(ctx, "safety recalculation finished", "updated", report.Updated, "total", report.Total)
	return report, nil
}
