package postgres

import (
	"github.com/yoockh/ayuda/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transcription{}, &models.Summary{})
}
