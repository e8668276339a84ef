package accesscode

import (
	"crypto/rand"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"resai/internal/user"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomSegment returns n uppercase alphanumeric characters.
func randomSegment(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf)
}

// newCode produces a code unique among all stored codes, retrying on
// collision. Format: RES-XXXX-XXXX.
func newCode(gdb *gorm.DB) (string, error) {
	for {
		code := "RES-" + randomSegment(4) + "-" + randomSegment(4)
		var count int64
		if err := gdb.Model(&AccessCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}

// Generate creates and stores a single access code.
func Generate(gdb *gorm.DB, durationDays int, notes string) (*AccessCode, error) {
	code, err := newCode(gdb)
	if err != nil {
		return nil, err
	}
	ac := AccessCode{
		Code:         code,
		DurationDays: durationDays,
		Notes:        notes,
	}
	if err := gdb.Create(&ac).Error; err != nil {
		return nil, err
	}
	log.Printf("[AccessCode] Generated code %s for %d days", ac.Code, durationDays)
	return &ac, nil
}

// GenerateBulk repeats single generation count times.
func GenerateBulk(gdb *gorm.DB, count, durationDays int, notes string) ([]AccessCode, error) {
	codes := make([]AccessCode, 0, count)
	for i := 0; i < count; i++ {
		ac, err := Generate(gdb, durationDays, notes)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *ac)
	}
	return codes, nil
}

// Activate redeems a code for a user. Returns false (not an error) when
// the code is unknown or already used, or the user does not exist.
// On success the code is marked used and the user's premium window is
// extended or started. Both writes commit together: a failure on either
// leaves the code unconsumed.
func Activate(gdb *gorm.DB, code string, userID uint) (bool, error) {
	activated := false
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var ac AccessCode
		if err := tx.Where("code = ?", strings.ToUpper(code)).First(&ac).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				log.Printf("[AccessCode] Code not found: %s", code)
				return nil
			}
			return err
		}
		if ac.IsUsed {
			log.Printf("[AccessCode] Code already used: %s", ac.Code)
			return nil
		}

		var u user.User
		if err := tx.First(&u, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				log.Printf("[AccessCode] User not found: %d", userID)
				return nil
			}
			return err
		}

		now := time.Now()
		expires := now.AddDate(0, 0, ac.DurationDays)
		ac.IsUsed = true
		ac.UsedByUserID = &u.ID
		ac.ActivatedAt = &now
		ac.ExpiresAt = &expires
		if err := tx.Save(&ac).Error; err != nil {
			return err
		}

		u.ExtendPremium(ac.DurationDays, now)
		if err := tx.Save(&u).Error; err != nil {
			return err
		}

		log.Printf("[AccessCode] Activated %s for user %d (premium until %v)", ac.Code, userID, u.PremiumUntil)
		activated = true
		return nil
	})
	return activated, err
}

// Delete removes a code. Used codes are undeletable; returns false when
// the code is missing or used.
func Delete(gdb *gorm.DB, id uint) (bool, error) {
	var ac AccessCode
	if err := gdb.First(&ac, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	if ac.IsUsed {
		log.Printf("[AccessCode] Cannot delete used code: %s", ac.Code)
		return false, nil
	}
	if err := gdb.Delete(&ac).Error; err != nil {
		return false, err
	}
	log.Printf("[AccessCode] Deleted unused code: %s", ac.Code)
	return true, nil
}

// All returns every stored code, newest first.
func All(gdb *gorm.DB) ([]AccessCode, error) {
	var codes []AccessCode
	err := gdb.Order("created_at desc").Find(&codes).Error
	return codes, err
}

// Unused returns unredeemed codes, newest first.
func Unused(gdb *gorm.DB) ([]AccessCode, error) {
	var codes []AccessCode
	err := gdb.Where("is_used = ?", false).Order("created_at desc").Find(&codes).Error
	return codes, err
}

// Used returns redeemed codes, most recently activated first.
func Used(gdb *gorm.DB) ([]AccessCode, error) {
	var codes []AccessCode
	err := gdb.Where("is_used = ?", true).Order("activated_at desc").Find(&codes).Error
	return codes, err
}

// Stats counts the code pool, including codes created in the trailing
// 30 days.
func Stats(gdb *gorm.DB) (Statistics, error) {
	var s Statistics
	if err := gdb.Model(&AccessCode{}).Count(&s.TotalCodes).Error; err != nil {
		return s, err
	}
	if err := gdb.Model(&AccessCode{}).Where("is_used = ?", true).Count(&s.UsedCodes).Error; err != nil {
		return s, err
	}
	s.UnusedCodes = s.TotalCodes - s.UsedCodes
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := gdb.Model(&AccessCode{}).Where("created_at > ?", thirtyDaysAgo).Count(&s.RecentCodes).Error; err != nil {
		return s, err
	}
	return s, nil
}
