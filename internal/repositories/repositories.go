package repositories

import (
	"context"

	"github.com/yoockh/ayuda/internal/models"
)

// Both stores return utils.ErrNotFound for missing records.

type TranscriptionRepository interface {
	Insert(ctx context.Context, t *models.Transcription) error
	GetByID(ctx context.Context, id string) (*models.Transcription, error)
}

type SummaryRepository interface {
	Insert(ctx context.Context, s *models.Summary) error
	GetByID(ctx context.Context, id string) (*models.Summary, error)
	List(ctx context.Context, limit int) ([]models.Summary, error)
}
