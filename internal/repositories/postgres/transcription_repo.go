package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/ayuda/internal/models"
	"github.com/yoockh/ayuda/internal/repositories"
	"github.com/yoockh/ayuda/internal/utils"
	"gorm.io/gorm"
)

type transcriptionRepo struct {
	db *gorm.DB
}

func NewTranscriptionRepo(db *gorm.DB) repositories.TranscriptionRepository {
	return &transcriptionRepo{db: db}
}

func (r *transcriptionRepo) Insert(ctx context.Context, t *models.Transcription) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transcriptionRepo) GetByID(ctx context.Context, id string) (*models.Transcription, error) {
	var row models.Transcription
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}
