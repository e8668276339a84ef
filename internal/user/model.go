package user

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName     string     `gorm:"size:255" json:"fullName"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Role         Role       `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	PremiumUntil *time.Time `json:"premiumUntil"`

	// Monthly AI usage counters, reset lazily when UsageMonth rolls over
	TailorCount      int    `gorm:"not null;default:0" json:"tailorCount"`
	CoverLetterCount int    `gorm:"not null;default:0" json:"coverLetterCount"`
	UsageMonth       string `gorm:"size:7" json:"-"` // "2026-09"

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsPremium reports whether the user has an unexpired premium window.
func (u *User) IsPremium() bool {
	return u.PremiumUntil != nil && u.PremiumUntil.After(time.Now())
}

// ExtendPremium appends days to a live premium window, or starts a new
// window from now if the current one is absent or expired.
func (u *User) ExtendPremium(days int, now time.Time) {
	var until time.Time
	if u.PremiumUntil != nil && u.PremiumUntil.After(now) {
		until = u.PremiumUntil.AddDate(0, 0, days)
	} else {
		until = now.AddDate(0, 0, days)
	}
	u.PremiumUntil = &until
}

// RollUsageMonth zeroes the usage counters when the stored month tag no
// longer matches now. Returns true if a reset happened.
func (u *User) RollUsageMonth(now time.Time) bool {
	month := now.Format("2006-01")
	if u.UsageMonth == month {
		return false
	}
	u.UsageMonth = month
	u.TailorCount = 0
	u.CoverLetterCount = 0
	return true
}
