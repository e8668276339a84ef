package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"resai/internal/accesscode"
	"resai/internal/config"
	"resai/internal/resume"
	"resai/internal/user"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&user.User{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&resume.Resume{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&accesscode.AccessCode{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
