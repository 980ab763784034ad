package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/yoockh/ayuda/config"
	"github.com/yoockh/ayuda/internal/cache"
	"github.com/yoockh/ayuda/internal/providers/llm"
	"github.com/yoockh/ayuda/internal/providers/stt"
	"github.com/yoockh/ayuda/internal/repositories"
	mongorepo "github.com/yoockh/ayuda/internal/repositories/mongo"
	pgrepo "github.com/yoockh/ayuda/internal/repositories/postgres"
	"github.com/yoockh/ayuda/internal/services"
	"github.com/yoockh/ayuda/internal/storage"
	"github.com/yoockh/ayuda/internal/transcription"
)

// app holds every long-lived client for one process.
type app struct {
	Pipeline       services.PipelineService
	Transcriptions services.TranscriptionService
	Summaries      services.SummaryService

	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func buildApp(ctx context.Context, c *config.Config, log *logrus.Logger) (*app, error) {
	a := &app{}
	built := false
	defer func() {
		if !built {
			_ = a.Close()
		}
	}()

	var gcpOpts []option.ClientOption
	if c.GoogleCredentials != "" {
		gcpOpts = append(gcpOpts, option.WithCredentialsFile(c.GoogleCredentials))
	}

	var (
		store storage.BlobStore
		jobs  stt.JobService
	)
	switch c.CloudProvider {
	case config.ProviderGCP:
		gcs, err := storage.NewGCSStore(ctx, c.BucketName, gcpOpts...)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		a.closers = append(a.closers, gcs.Close)
		store = gcs
		// recognition results are written back to the same bucket
		gs, err := stt.NewGoogleSpeech(ctx, gcs, gcpOpts...)
		if err != nil {
			return nil, fmt.Errorf("speech: %w", err)
		}
		jobs = gs
	default:
		awsCfg, err := config.NewAWS(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		s3 := storage.NewS3Store(awsCfg, c.BucketName)
		a.closers = append(a.closers, s3.Close)
		store = s3
		jobs = stt.NewAWSTranscribe(awsCfg, c.BucketName)
	}
	a.closers = append(a.closers, jobs.Close)

	var summarizer llm.Summarizer
	switch c.Summarizer {
	case config.SummarizerVertex:
		v, err := llm.NewVertexGemini(ctx, c.VertexProjectID, c.VertexLocation, c.VertexModel)
		if err != nil {
			return nil, fmt.Errorf("vertex: %w", err)
		}
		summarizer = v
	default:
		summarizer = llm.NewHuggingFace(c.HuggingFaceEndpoint, c.HuggingFaceAPIKey, c.SummarizerTimeout)
	}
	a.closers = append(a.closers, summarizer.Close)

	trRepo, sumRepo, err := buildRepos(ctx, a, c)
	if err != nil {
		return nil, err
	}

	var listCache cache.Cache
	if c.RedisAddr != "" {
		rdb, err := config.NewRedis(ctx, c.RedisAddr)
		if err != nil {
			// the cache is optional; serve uncached rather than refuse to start
			log.WithError(err).Warn("redis unavailable, summary list cache disabled")
		} else {
			a.closers = append(a.closers, rdb.Close)
			listCache = cache.NewRedisCache(rdb, "ayuda")
		}
	}

	a.Transcriptions = services.NewTranscriptionService(trRepo)
	a.Summaries = services.NewSummaryService(sumRepo, listCache, c.SummaryCacheTTL, log)

	orch := transcription.NewOrchestrator(jobs, transcription.Options{
		Interval: c.PollInterval,
		Timeout:  c.PollTimeout,
		Limiter:  rate.NewLimiter(rate.Limit(c.PollRatePerSec), 1),
		Logger:   log,
	})

	a.Pipeline = services.NewPipelineService(services.PipelineConfig{
		Store:          store,
		Jobs:           orch,
		Summarizer:     summarizer,
		Transcriptions: a.Transcriptions,
		Summaries:      a.Summaries,
		LanguageCode:   c.LanguageCode,
		Diarization:    stt.Diarization{Enabled: c.DiarizationEnabled, MaxSpeakers: c.MaxSpeakers},
		Logger:         log,
	})
	built = true
	return a, nil
}

func buildRepos(ctx context.Context, a *app, c *config.Config) (repositories.TranscriptionRepository, repositories.SummaryRepository, error) {
	switch c.DBDriver {
	case config.DriverPostgres:
		db, err := config.NewPostgres(c.PostgresURI)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		if err := pgrepo.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return pgrepo.NewTranscriptionRepo(db), pgrepo.NewSummaryRepo(db), nil
	default:
		client, err := config.NewMongo(ctx, c.MongoURI)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo: %w", err)
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		db := client.Database(c.MongoDB)
		if err := config.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return mongorepo.NewTranscriptionRepo(db), mongorepo.NewSummaryRepo(db), nil
	}
}
