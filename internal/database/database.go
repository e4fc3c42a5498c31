// Package database owns the gorm connection and schema migrations.
package database

import (
	"fmt"

	"github.com/Payamchegini021/Melody-generator/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a Postgres connection from a database URL.
func Connect(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Migrate applies the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&store.MelodyRecord{}); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
