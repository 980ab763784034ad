package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/ayuda/internal/models"
	"github.com/yoockh/ayuda/internal/repositories"
	"github.com/yoockh/ayuda/internal/utils"
)

type TranscriptionService interface {
	Create(ctx context.Context, t *models.Transcription) error
	Get(ctx context.Context, id string) (*models.Transcription, error)
}

type transcriptionService struct {
	repo repositories.TranscriptionRepository
}

func NewTranscriptionService(repo repositories.TranscriptionRepository) TranscriptionService {
	return &transcriptionService{repo: repo}
}

func (s *transcriptionService) Create(ctx context.Context, t *models.Transcription) error {
	const op = "TranscriptionService.Create"

	if t == nil {
		return utils.E(utils.CodeInvalidArgument, op, "transcription is required", nil)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return utils.E(utils.CodePersistence, op, "failed to persist transcription", err)
	}
	return nil
}

func (s *transcriptionService) Get(ctx context.Context, id string) (*models.Transcription, error) {
	const op = "TranscriptionService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	// ids are uuids; anything else cannot name a stored record
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "transcription not found", utils.ErrNotFound)
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "transcription not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get transcription", err)
	}
	return t, nil
}
