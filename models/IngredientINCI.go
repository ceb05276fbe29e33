package models

import "time"

// Safety rating values stored on IngredientINCI. The rating is derived from
// the COSING function and restriction columns but persisted so reads never
// recompute it; see internal/safety.
const (
	SafetyHarmful    = "harmful"
	SafetyNeutral    = "neutral"
	SafetyBeneficial = "beneficial"
)

// IngredientINCI is a single entry of the EU COSING ingredient catalog,
// keyed by its regulatory reference number. Rows are created and updated
// only by the bulk import and the recalculation sweep, never by end users.
type IngredientINCI struct {
	CosingRefNo            int       `gorm:"primaryKey;autoIncrement:false" json:"cosing_ref_no"`
	INCIName               string    `gorm:"size:200;not null;index" json:"inci_name"`
	CommonName             string    `gorm:"size:200;index" json:"common_name"`
	Description            string    `gorm:"type:text" json:"description"`
	Function               string    `gorm:"size:200;index" json:"function"`
	Restrictions           string    `gorm:"type:text" json:"restrictions"`
	UpdateDate             string    `gorm:"size:20" json:"update_date"`
	SafetyRating           string    `gorm:"size:20;not null;default:neutral;index" json:"safety_rating"`
	RestrictionDescription string    `gorm:"type:text" json:"restriction_description"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
