package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resai/internal/accesscode"
	"resai/internal/auth"
	"resai/internal/config"
	"resai/internal/db"
	"resai/internal/user"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func SignupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || !strings.Contains(email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "A valid email is required"}})
			return
		}
		if len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Password must be at least 8 characters"}})
			return
		}

		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to hash password"}})
			return
		}
		u := user.User{
			Email:        email,
			FullName:     strings.TrimSpace(req.FullName),
			PasswordHash: hash,
			Role:         user.RoleUser,
		}
		if err := db.DB.Create(&u).Error; err != nil {
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") {
				c.JSON(http.StatusConflict, gin.H{"error": gin.H{"message": "Email already registered"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to create user"}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":       u.ID,
			"email":    u.Email,
			"fullName": u.FullName,
			"role":     u.Role,
		})
	}
}

func LoginHandler(cfg *config.Config, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		var u user.User
		if err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&u).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid email or password"}})
			return
		}
		if err := user.CheckPassword(u.PasswordHash, req.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid email or password"}})
			return
		}
		token, err := auth.GenerateJWT(cfg.Server.JWTSecret, u.ID, u.Email, string(u.Role), 7*24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to generate token"}})
			return
		}
		_ = auth.SetSession(rdb, u.ID, token, 7*24*time.Hour)
		c.JSON(http.StatusOK, LoginResponse{
			Token:  token,
			UserID: u.ID,
			Email:  u.Email,
			Role:   string(u.Role),
		})
	}
}

func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		_ = auth.DeleteSession(rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		var u user.User
		if err := db.DB.First(&u, userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "User not found"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":           u.ID,
			"email":        u.Email,
			"fullName":     u.FullName,
			"role":         u.Role,
			"isPremium":    u.IsPremium(),
			"premiumUntil": u.PremiumUntil,
			"createdAt":    u.CreatedAt,
		})
	}
}

type ActivateCodeRequest struct {
	Code string `json:"code"`
}

// POST /codes/activate redeems an access code for the calling user.
func ActivateCodeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		var req ActivateCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Code is required"}})
			return
		}
		activated, err := accesscode.Activate(db.DB, strings.TrimSpace(req.Code), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to activate code"}})
			return
		}
		if !activated {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid or already used code"}})
			return
		}
		var u user.User
		if err := db.DB.First(&u, userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load user"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":      "Premium access activated",
			"premiumUntil": u.PremiumUntil,
		})
	}
}
