package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resai/internal/ai"
	"resai/internal/config"
	"resai/internal/db"
	"resai/internal/resume"
	"resai/internal/user"
)

type CreateResumeRequest struct {
	Title      string         `json:"title"`
	Data       map[string]any `json:"data"`
	AIMetadata map[string]any `json:"aiMetadata"`
	Language   string         `json:"language"`
}

type UpdateResumeRequest struct {
	Title      *string        `json:"title"`
	Data       map[string]any `json:"data"`
	AIMetadata map[string]any `json:"aiMetadata"`
}

// loadOwnedResume fetches a resume scoped to the calling user. A resume
// owned by someone else is indistinguishable from a missing one.
func loadOwnedResume(c *gin.Context, userID uint) (*resume.Resume, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Resume not found"}})
		return nil, false
	}
	var r resume.Resume
	if err := db.DB.Where("id = ? AND user_id = ?", id, userID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Resume not found"}})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
		}
		return nil, false
	}
	return &r, true
}

func CreateResumeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		var req CreateResumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Title is required"}})
			return
		}
		r := resume.Resume{
			UserID:   userID,
			Title:    strings.TrimSpace(req.Title),
			Language: req.Language,
		}
		if req.Data == nil {
			req.Data = map[string]any{}
		}
		if err := r.SetDocument(req.Data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid resume data"}})
			return
		}
		if req.AIMetadata != nil {
			raw, err := json.Marshal(req.AIMetadata)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid resume data"}})
				return
			}
			r.AIMetadata = datatypes.JSON(raw)
		}
		r.Version = 1
		if err := db.DB.Create(&r).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to create resume"}})
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func ListResumesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		var resumes []resume.Resume
		if err := db.DB.Where("user_id = ?", userID).Order("updated_at desc").Find(&resumes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to list resumes"}})
			return
		}
		c.JSON(http.StatusOK, resumes)
	}
}

func GetResumeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		r, ok := loadOwnedResume(c, userID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func UpdateResumeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		r, ok := loadOwnedResume(c, userID)
		if !ok {
			return
		}
		var req UpdateResumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if err := r.Apply(resume.Update{Title: req.Title, Data: req.Data, AIMetadata: req.AIMetadata}); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid resume data"}})
			return
		}
		if err := db.DB.Save(r).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to update resume"}})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func DeleteResumeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Resume not found"}})
			return
		}
		res := db.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&resume.Resume{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to delete resume"}})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Resume not found"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Resume deleted"})
	}
}

type TailorRequest struct {
	JobDescription string `json:"jobDescription"`
	JobURL         string `json:"jobUrl"`
	Language       string `json:"language"`
}

// resolveJobDescription returns the inline description, or fetches and
// extracts the posting text when only a URL was provided.
func resolveJobDescription(c *gin.Context, req TailorRequest) (string, bool) {
	desc := strings.TrimSpace(req.JobDescription)
	if desc != "" {
		return desc, true
	}
	if strings.TrimSpace(req.JobURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "jobDescription or jobUrl is required"}})
		return "", false
	}
	desc, err := fetchJobPosting(strings.TrimSpace(req.JobURL))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Could not extract a job description from the URL"}})
		return "", false
	}
	return desc, true
}

// loadQuotaUser loads the calling user and lazily rolls the monthly
// usage counters over.
func loadQuotaUser(c *gin.Context, userID uint) (*user.User, bool) {
	var u user.User
	if err := db.DB.First(&u, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load user"}})
		return nil, false
	}
	if u.RollUsageMonth(time.Now()) {
		if err := db.DB.Save(&u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load user"}})
			return nil, false
		}
	}
	return &u, true
}

func TailorResumeHandler(cfg *config.Config, svc *ai.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		r, ok := loadOwnedResume(c, userID)
		if !ok {
			return
		}
		var req TailorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		jobDescription, ok := resolveJobDescription(c, req)
		if !ok {
			return
		}

		doc, err := r.Document()
		if err != nil || len(doc) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Resume has no content to tailor"}})
			return
		}

		u, ok := loadQuotaUser(c, userID)
		if !ok {
			return
		}
		if !u.IsPremium() && u.TailorCount >= cfg.Limits.FreeTailorsPerMonth {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Monthly tailoring limit reached. Activate premium for unlimited use."}})
			return
		}

		language := strings.TrimSpace(req.Language)
		if language == "" {
			language = r.Lang()
		}
		tailored := svc.TailorResume(doc, jobDescription, language)

		if err := r.SetDocument(tailored); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to store tailored resume"}})
			return
		}
		r.Version++
		if err := r.RecordTailoring(jobDescription, language, time.Now()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to store tailored resume"}})
			return
		}
		// The document write and the usage counter commit together
		u.TailorCount++
		if err := db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(r).Error; err != nil {
				return err
			}
			return tx.Save(u).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to store tailored resume"}})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func CoverLetterHandler(cfg *config.Config, svc *ai.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			return
		}
		r, ok := loadOwnedResume(c, userID)
		if !ok {
			return
		}
		var req TailorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		jobDescription, ok := resolveJobDescription(c, req)
		if !ok {
			return
		}

		doc, err := r.Document()
		if err != nil || len(doc) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Resume has no content"}})
			return
		}

		u, ok := loadQuotaUser(c, userID)
		if !ok {
			return
		}
		if !u.IsPremium() && u.CoverLetterCount >= cfg.Limits.FreeCoverLettersPerMonth {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Monthly cover letter limit reached. Activate premium for unlimited use."}})
			return
		}

		language := strings.TrimSpace(req.Language)
		if language == "" {
			language = r.Lang()
		}
		letter, err := svc.GenerateCoverLetter(doc, jobDescription, language)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "Cover letter generation failed"}})
			return
		}

		u.CoverLetterCount++
		if err := db.DB.Save(u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to record usage"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"coverLetter": letter})
	}
}
