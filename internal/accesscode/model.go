package accesscode

import (
	"time"
)

// AccessCode is a single-use code redeemable for a premium window.
type AccessCode struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Code         string     `json:"code" gorm:"uniqueIndex;size:20;not null"`
	DurationDays int        `json:"durationDays" gorm:"not null"`
	IsUsed       bool       `json:"isUsed" gorm:"not null;default:false"`
	UsedByUserID *uint      `json:"usedByUserId"`
	CreatedAt    time.Time  `json:"createdAt"`
	ActivatedAt  *time.Time `json:"activatedAt"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	Notes        string     `json:"notes" gorm:"size:500"`
}

// Statistics summarizes the code pool for the admin dashboard.
type Statistics struct {
	TotalCodes  int64 `json:"total"`
	UsedCodes   int64 `json:"used"`
	UnusedCodes int64 `json:"unused"`
	RecentCodes int64 `json:"recent"`
}
