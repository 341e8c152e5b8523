package gormrepo

import (
	"gorm.io/gorm"

	"github.com/srgjo27/party_rental/internal/core/domain"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Item{}, &domain.Category{}, &domain.Client{})
}
