package models

import "gorm.io/gorm"

// User represents an application account together with its skincare profile.
// Staff accounts may verify cosmetics and run the COSING import.
type User struct {
	gorm.Model
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string `gorm:"not null" json:"-"`
	Name           string `json:"name"`
	SkinType       string `gorm:"size:50;default:normal" json:"skin_type"`
	SkinProblems   string `gorm:"type:text" json:"skin_problems"`
	Specialization string `gorm:"size:20;default:user" json:"specialization"`
	IsStaff        bool   `gorm:"not null;default:false" json:"is_staff"`
}
