package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resai/internal/accesscode"
	"resai/internal/db"
	"resai/internal/resume"
	"resai/internal/user"
)

type GenerateCodeRequest struct {
	DurationDays int    `json:"durationDays"`
	Notes        string `json:"notes"`
}

type GenerateBulkRequest struct {
	Count        int    `json:"count"`
	DurationDays int    `json:"durationDays"`
	Notes        string `json:"notes"`
}

func GenerateCodeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.DurationDays <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "durationDays must be positive"}})
			return
		}
		code, err := accesscode.Generate(db.DB, req.DurationDays, req.Notes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to generate code"}})
			return
		}
		c.JSON(http.StatusCreated, code)
	}
}

func GenerateBulkCodesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateBulkRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.DurationDays <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "durationDays must be positive"}})
			return
		}
		if req.Count < 1 || req.Count > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "count must be between 1 and 100"}})
			return
		}
		codes, err := accesscode.GenerateBulk(db.DB, req.Count, req.DurationDays, req.Notes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to generate codes"}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"codes": codes, "count": len(codes)})
	}
}

func ListCodesHandler() gin.HandlerFunc {
	return codesListHandler(accesscode.All)
}

func ListUnusedCodesHandler() gin.HandlerFunc {
	return codesListHandler(accesscode.Unused)
}

func ListUsedCodesHandler() gin.HandlerFunc {
	return codesListHandler(accesscode.Used)
}

func codesListHandler(list func(gdb *gorm.DB) ([]accesscode.AccessCode, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		codes, err := list(db.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to list codes"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"codes": codes})
	}
}

func DeleteCodeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid code id"}})
			return
		}
		deleted, err := accesscode.Delete(db.DB, uint(id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to delete code"}})
			return
		}
		if !deleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Code not found or already used"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Code deleted"})
	}
}

func ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []user.User
		if err := db.DB.Order("created_at desc").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to list users"}})
			return
		}
		out := make([]gin.H, 0, len(users))
		for i := range users {
			u := &users[i]
			out = append(out, gin.H{
				"id":           u.ID,
				"email":        u.Email,
				"fullName":     u.FullName,
				"role":         u.Role,
				"isPremium":    u.IsPremium(),
				"premiumUntil": u.PremiumUntil,
				"createdAt":    u.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}

func GetUserDetailHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadUserParam(c)
		if !ok {
			return
		}
		var resumes []resume.Resume
		if err := db.DB.Where("user_id = ?", u.ID).Order("updated_at desc").Find(&resumes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load resumes"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":               u.ID,
			"email":            u.Email,
			"fullName":         u.FullName,
			"role":             u.Role,
			"isPremium":        u.IsPremium(),
			"premiumUntil":     u.PremiumUntil,
			"tailorCount":      u.TailorCount,
			"coverLetterCount": u.CoverLetterCount,
			"resumeCount":      len(resumes),
			"resumes":          resumes,
			"createdAt":        u.CreatedAt,
		})
	}
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func UpdateUserRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadUserParam(c)
		if !ok {
			return
		}
		var req UpdateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		role := user.Role(req.Role)
		if role != user.RoleAdmin && role != user.RoleUser {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Role must be ADMIN or USER"}})
			return
		}
		u.Role = role
		if err := db.DB.Save(u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to update role"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "role": u.Role})
	}
}

type GrantPremiumRequest struct {
	Days int `json:"days"`
}

func GrantPremiumHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadUserParam(c)
		if !ok {
			return
		}
		var req GrantPremiumRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if req.Days <= 0 {
			req.Days = 30
		}
		u.ExtendPremium(req.Days, time.Now())
		if err := db.DB.Save(u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to grant premium"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "premiumUntil": u.PremiumUntil})
	}
}

func RevokePremiumHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadUserParam(c)
		if !ok {
			return
		}
		u.PremiumUntil = nil
		if err := db.DB.Save(u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to revoke premium"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "premiumUntil": nil})
	}
}

func StatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalUsers, premiumUsers, totalResumes int64
		if err := db.DB.Model(&user.User{}).Count(&totalUsers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to compute stats"}})
			return
		}
		if err := db.DB.Model(&user.User{}).Where("premium_until > ?", time.Now()).Count(&premiumUsers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to compute stats"}})
			return
		}
		if err := db.DB.Model(&resume.Resume{}).Count(&totalResumes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to compute stats"}})
			return
		}
		codeStats, err := accesscode.Stats(db.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to compute stats"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users": gin.H{
				"total":   totalUsers,
				"premium": premiumUsers,
				"free":    totalUsers - premiumUsers,
			},
			"resumes": gin.H{"total": totalResumes},
			"codes":   codeStats,
		})
	}
}

func loadUserParam(c *gin.Context) (*user.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
		return nil, false
	}
	var u user.User
	if err := db.DB.First(&u, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "User not found"}})
		return nil, false
	}
	return &u, true
}
