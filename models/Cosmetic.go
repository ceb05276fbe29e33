package models

import "time"

// Cosmetic is a retail product identified by its EAN barcode. User-submitted
// products start unverified; staff flip the flag after moderation.
type Cosmetic struct {
	Barcode      string    `gorm:"primaryKey;size:13" json:"barcode"`
	ProductName  string    `gorm:"size:100;not null;index" json:"product_name"`
	Manufacturer string    `gorm:"size:50;index" json:"manufacturer"`
	Description  string    `gorm:"type:text" json:"description"`
	Category     string    `gorm:"size:50;index" json:"category"`
	PurchaseLink string    `gorm:"size:200" json:"purchase_link"`
	IsVerified   bool      `gorm:"not null;default:false;index" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
