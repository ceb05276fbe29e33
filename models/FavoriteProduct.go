package models

import "gorm.io/gorm"

// FavoriteProduct bookmarks a cosmetic for a user.
type FavoriteProduct struct {
	gorm.Model
	UserID          uint      `gorm:"not null;uniqueIndex:idx_favorite_user_product" json:"user_id"`
	CosmeticBarcode string    `gorm:"size:13;not null;uniqueIndex:idx_favorite_user_product" json:"cosmetic_barcode"`
	Cosmetic        *Cosmetic `gorm:"foreignKey:CosmeticBarcode;references:Barcode" json:"cosmetic,omitempty"`
}
