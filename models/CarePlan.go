package models

import (
	"time"

	"gorm.io/gorm"
)

// CarePlan is a user-authored skincare routine spanning a date range.
type CarePlan struct {
	gorm.Model
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	PlanName    string          `gorm:"size:50;not null" json:"plan_name"`
	Description string          `gorm:"type:text" json:"description"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Entries     []CarePlanEntry `gorm:"foreignKey:PlanID" json:"entries,omitempty"`
}

// CarePlanEntry schedules one cosmetic inside a plan.
type CarePlanEntry struct {
	gorm.Model
	PlanID          uint      `gorm:"not null;index" json:"plan_id"`
	CosmeticBarcode string    `gorm:"size:13;not null" json:"cosmetic_barcode"`
	Frequency       string    `gorm:"size:50" json:"frequency"`
	TimeOfDay       string    `gorm:"size:50" json:"time_of_day"`
	Notes           string    `gorm:"type:text" json:"notes"`
	Cosmetic        *Cosmetic `gorm:"foreignKey:CosmeticBarcode;references:Barcode" json:"cosmetic,omitempty"`
}

// CarePlanRating is a thumbs up/down vote on a plan, one per user.
type CarePlanRating struct {
	gorm.Model
	PlanID uint `gorm:"not null;uniqueIndex:idx_plan_rating_voter" json:"plan_id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_plan_rating_voter" json:"user_id"`
	Rating bool `gorm:"not null" json:"rating"`
}
