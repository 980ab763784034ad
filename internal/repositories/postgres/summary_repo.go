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

type summaryRepo struct {
	db *gorm.DB
}

func NewSummaryRepo(db *gorm.DB) repositories.SummaryRepository {
	return &summaryRepo{db: db}
}

func (r *summaryRepo) Insert(ctx context.Context, s *models.Summary) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *summaryRepo) GetByID(ctx context.Context, id string) (*models.Summary, error) {
	var row models.Summary
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *summaryRepo) List(ctx context.Context, limit int) ([]models.Summary, error) {
	if limit <= 0 {
		limit = 100
	}
	rows := []models.Summary{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
