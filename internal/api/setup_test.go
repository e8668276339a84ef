package api

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resai/internal/accesscode"
	"resai/internal/config"
	"resai/internal/db"
	"resai/internal/resume"
	"resai/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// MIGRATE ALL MODELS USED IN TESTS!
	if err := dbConn.AutoMigrate(
		&user.User{},
		&resume.Resume{},
		&accesscode.AccessCode{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	return dbConn
}

func resetTables(t *testing.T) {
	for _, table := range []string{"users", "resumes", "access_codes"} {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s table: %v", table, err)
		}
	}
}

func seedUser(t *testing.T, email string, role user.Role) user.User {
	hash, err := user.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	u := user.User{Email: email, FullName: "Test User", PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func seedResume(t *testing.T, userID uint, title string, data map[string]any) resume.Resume {
	r := resume.Resume{UserID: userID, Title: title, Language: "en", Version: 1}
	if data == nil {
		data = map[string]any{}
	}
	if err := r.SetDocument(data); err != nil {
		t.Fatalf("failed to set resume data: %v", err)
	}
	if err := db.DB.Create(&r).Error; err != nil {
		t.Fatalf("failed to seed resume: %v", err)
	}
	return r
}

// authAs stubs the auth middleware for handler-level tests.
func authAs(u user.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", u.ID)
		c.Set("email", u.Email)
		c.Set("userRole", string(u.Role))
		c.Next()
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "testsecret"
	cfg.Limits.FreeTailorsPerMonth = 3
	cfg.Limits.FreeCoverLettersPerMonth = 3
	return cfg
}

// deadRedis returns a client pointing nowhere. Handlers that only do
// best-effort session writes still work against it.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func timeNowMonth() string {
	return time.Now().Format("2006-01")
}

func timeNowPlusDays(d int) time.Time {
	return time.Now().AddDate(0, 0, d)
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func toStrUint(x uint) string {
	return fmt.Sprintf("%d", x)
}
