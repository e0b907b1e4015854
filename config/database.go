package config

import (
	"fmt"
	"log"

	"courtfinder/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB mở kết nối Postgres và migrate các bảng
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	log.Println("Successfully connected to db")
	return db, nil
}
