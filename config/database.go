package config

import (
	"fmt"
	"log"
	"os"

	"novelbranch/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", "postgres"),
		getenv("DB_NAME", "novelbranch"),
		getenv("DB_SSLMODE", "disable"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Novel{},
		&models.Chapter{},
		&models.MergeRequest{},
	); err != nil {
		return err
	}

	// One active (pending or approved) merge request per fork chapter.
	// AutoMigrate cannot express a partial index, so it is created here.
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_merge_requests_active
		ON merge_requests (from_chapter_id)
		WHERE status IN ('pending', 'approved')
	`).Error
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
