package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config captures the minimal settings required to open the sqlite database.
type Config struct {
	// Path is the database file; ":memory:" gives a throwaway database.
	Path string
}

// Connect opens the sqlite database and migrates the three store tables.
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if err := db.AutoMigrate(&userRow{}, &salesRow{}, &feedbackRow{}); err != nil {
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}

	return db, nil
}
