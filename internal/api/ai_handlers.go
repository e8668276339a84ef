package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resai/internal/ai"
)

type GenerateRequest struct {
	UserInput string            `json:"userInput"`
	Context   map[string]string `json:"context"`
	Language  string            `json:"language"`
}

func (r *GenerateRequest) validate(c *gin.Context) bool {
	if strings.TrimSpace(r.UserInput) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "userInput is required"}})
		return false
	}
	if r.Context == nil {
		r.Context = map[string]string{}
	}
	return true
}

func GenerateSummaryHandler(svc *ai.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if !req.validate(c) {
			return
		}
		content, err := svc.GenerateSummary(req.UserInput, req.Language)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "Generation failed"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"content": content})
	}
}

func GenerateExperienceBulletsHandler(svc *ai.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if !req.validate(c) {
			return
		}
		content, err := svc.GenerateExperienceBullets(req.UserInput, req.Context, req.Language)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "Generation failed"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"content": content})
	}
}

func GenerateProjectBulletsHandler(svc *ai.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if !req.validate(c) {
			return
		}
		content, err := svc.GenerateProjectBullets(req.UserInput, req.Context, req.Language)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "Generation failed"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"content": content})
	}
}
