package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/ayuda/internal/cache"
	"github.com/yoockh/ayuda/internal/models"
	"github.com/yoockh/ayuda/internal/repositories"
	"github.com/yoockh/ayuda/internal/utils"
)

type SummaryService interface {
	Create(ctx context.Context, transcriptionID, content string) (*models.Summary, error)
	Get(ctx context.Context, id string) (*models.Summary, error)
	List(ctx context.Context) ([]models.Summary, error)
}

type summaryService struct {
	repo   repositories.SummaryRepository
	list   *cache.SummaryList
	logger *logrus.Logger
}

func NewSummaryService(repo repositories.SummaryRepository, c cache.Cache, ttl time.Duration, logger *logrus.Logger) SummaryService {
	if logger == nil {
		logger = logrus.New()
	}
	return &summaryService{repo: repo, list: cache.NewSummaryList(c, ttl), logger: logger}
}

func (s *summaryService) Create(ctx context.Context, transcriptionID, content string) (*models.Summary, error) {
	const op = "SummaryService.Create"

	if strings.TrimSpace(content) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content is required", nil)
	}

	row := &models.Summary{
		ID:              uuid.NewString(),
		TranscriptionID: transcriptionID,
		Content:         content,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodePersistence, op, "failed to persist summary", err)
	}

	if err := s.list.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("summary list cache invalidation failed")
	}
	return row, nil
}

func (s *summaryService) Get(ctx context.Context, id string) (*models.Summary, error) {
	const op = "SummaryService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	// ids are uuids; anything else cannot name a stored record
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "summary not found", utils.ErrNotFound)
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "summary not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get summary", err)
	}
	return row, nil
}

func (s *summaryService) List(ctx context.Context) ([]models.Summary, error) {
	const op = "SummaryService.List"

	cached, hit, err := s.list.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("summary list cache read failed")
	}
	if hit {
		return cached, nil
	}

	rows, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list summaries", err)
	}

	if err := s.list.Store(ctx, rows); err != nil {
		s.logger.WithError(err).Warn("summary list cache write failed")
	}
	return rows, nil
}
