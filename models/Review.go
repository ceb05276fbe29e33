package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a user's opinion on a cosmetic, rated 1-5.
type Review struct {
	gorm.Model
	CosmeticBarcode string    `gorm:"size:13;not null;index" json:"cosmetic_barcode"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Title           string    `gorm:"size:100;not null" json:"title"`
	Content         string    `gorm:"type:text" json:"content"`
	Rating          int       `gorm:"not null" json:"rating"`
	ReviewDate      time.Time `json:"review_date"`
	Cosmetic        *Cosmetic `gorm:"foreignKey:CosmeticBarcode;references:Barcode" json:"cosmetic,omitempty"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
