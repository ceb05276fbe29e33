package models

import "time"

// CosmeticComposition links a Cosmetic to one of its INCI ingredients,
// ordered the way the label lists them (1 = highest concentration).
//
// Two database-level unique constraints back the sequencer invariants: an
// ingredient may appear only once per product, and no two links of the same
// product share a position. Position gaps after deletes are expected.
//
// Links are hard-deleted; a soft-delete column would keep removed rows
// inside the unique constraints and block re-adding an ingredient.
type CosmeticComposition struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CosmeticBarcode    string          `gorm:"size:13;not null;uniqueIndex:idx_composition_ingredient;uniqueIndex:idx_composition_position" json:"cosmetic_barcode"`
	IngredientRefNo    int             `gorm:"not null;uniqueIndex:idx_composition_ingredient;index" json:"ingredient_ref_no"`
	OrderInComposition *uint           `gorm:"uniqueIndex:idx_composition_position" json:"order_in_composition"`
	Cosmetic           *Cosmetic       `gorm:"foreignKey:CosmeticBarcode;references:Barcode" json:"cosmetic,omitempty"`
	Ingredient         *IngredientINCI `gorm:"foreignKey:IngredientRefNo;references:CosingRefNo" json:"ingredient,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
