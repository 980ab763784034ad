package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/ayuda/internal/models"
	"github.com/yoockh/ayuda/internal/providers/llm"
	"github.com/yoockh/ayuda/internal/providers/stt"
	"github.com/yoockh/ayuda/internal/storage"
	"github.com/yoockh/ayuda/internal/transcript"
	"github.com/yoockh/ayuda/internal/transcription"
	"github.com/yoockh/ayuda/internal/utils"
)

type Stage string

const (
	StageUpload               Stage = "upload"
	StageSubmit               Stage = "submit"
	StagePoll                 Stage = "poll"
	StageFetchResult          Stage = "fetch_result"
	StageParse                Stage = "parse"
	StageSummarize            Stage = "summarize"
	StagePersistTranscription Stage = "persist_transcription"
	StagePersistSummary       Stage = "persist_summary"
)

// Failure is the outward name of a stage failure.
func (s Stage) Failure() string {
	switch s {
	case StageUpload:
		return "UploadFailed"
	case StageSubmit:
		return "JobSubmissionFailed"
	case StagePoll, StageFetchResult:
		return "TranscriptionJobFailed"
	case StageParse:
		return "TranscriptParseFailed"
	case StageSummarize:
		return "SummarizationFailed"
	default:
		return "PersistenceFailed"
	}
}

// StageError carries the stage a run stopped at and the stage's own error.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return string(e.Stage) + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

type AudioUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type PipelineResult struct {
	Transcription *models.Transcription `json:"transcription"`
	Summary       *models.Summary       `json:"summary"`
}

type TranscriptionJobs interface {
	Submit(ctx context.Context, src storage.ObjectRef, languageCode string, d stt.Diarization) (*transcription.Job, error)
	PollUntilTerminal(ctx context.Context, job *transcription.Job) (transcription.Outcome, error)
}

type PipelineService interface {
	Run(ctx context.Context, in AudioUpload) (*PipelineResult, error)
}

type PipelineConfig struct {
	Store          storage.BlobStore
	Jobs           TranscriptionJobs
	Summarizer     llm.Summarizer
	Transcriptions TranscriptionService
	Summaries      SummaryService

	LanguageCode string
	Diarization  stt.Diarization

	Logger *logrus.Logger
}

type pipelineService struct {
	cfg PipelineConfig
	log *logrus.Logger
}

func NewPipelineService(cfg PipelineConfig) PipelineService {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	return &pipelineService{cfg: cfg, log: log}
}

// Run executes one upload end to end. Stages run strictly in order and the
// first failure stops the run. A Transcription saved before a later stage
// fails stays saved; a Summary is only written after its Transcription.
func (s *pipelineService) Run(ctx context.Context, in AudioUpload) (*PipelineResult, error) {
	const op = "PipelineService.Run"

	if len(in.Data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio file is empty", nil)
	}
	if in.ContentType == "" {
		in.ContentType = "application/octet-stream"
	}

	key := storage.NewObjectKey(in.Filename)
	log := s.log.WithFields(logrus.Fields{"key": key, "filename": in.Filename})

	ref, err := s.cfg.Store.Put(ctx, key, in.Data, in.ContentType)
	if err != nil {
		return nil, s.fail(log, StageUpload, err)
	}
	log.WithField("uri", ref.URI).Info("audio uploaded")

	job, err := s.cfg.Jobs.Submit(ctx, ref, s.cfg.LanguageCode, s.cfg.Diarization)
	if err != nil {
		return nil, s.fail(log, StageSubmit, err)
	}
	log = log.WithField("job_name", job.Name)

	outcome, err := s.cfg.Jobs.PollUntilTerminal(ctx, job)
	if err != nil {
		return nil, s.fail(log, StagePoll, err)
	}

	raw, err := s.cfg.Store.Get(ctx, outcome.ResultKey)
	if err != nil {
		return nil, s.fail(log, StageFetchResult, err)
	}

	tr, err := transcript.Parse(raw)
	if err != nil {
		return nil, s.fail(log, StageParse, err)
	}
	tr.JobName = job.Name
	tr.SourceKey = key
	tr.Language = s.cfg.LanguageCode

	if err := s.cfg.Transcriptions.Create(ctx, tr); err != nil {
		return nil, s.fail(log, StagePersistTranscription, err)
	}
	log = log.WithField("transcription_id", tr.ID)
	log.WithField("segments", len(tr.Segments)).Info("transcription saved")

	text, err := s.cfg.Summarizer.Summarize(ctx, tr.Text)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrSummarizationEmpty
	}
	if err != nil {
		return nil, s.fail(log, StageSummarize, err)
	}

	sum, err := s.cfg.Summaries.Create(ctx, tr.ID, text)
	if err != nil {
		return nil, s.fail(log, StagePersistSummary, err)
	}
	log.WithField("summary_id", sum.ID).Info("summary saved")

	return &PipelineResult{Transcription: tr, Summary: sum}, nil
}

func (s *pipelineService) fail(log *logrus.Entry, stage Stage, err error) error {
	log.WithError(err).WithField("stage", stage).Error("pipeline stage failed")
	return utils.E(stageCode(stage, err), "PipelineService.Run", stage.Failure(), &StageError{Stage: stage, Err: err})
}

func stageCode(stage Stage, err error) utils.Code {
	switch stage {
	case StagePoll:
		switch {
		case errors.Is(err, transcription.ErrTranscriptionFailed):
			return utils.CodeJobFailed
		case errors.Is(err, transcription.ErrPollTimeout):
			return utils.CodeTimeout
		}
	case StageFetchResult:
		// the job reported success but its output is missing
		if errors.Is(err, storage.ErrObjectNotFound) {
			return utils.CodeMalformedResult
		}
	case StageParse:
		return utils.CodeMalformedResult
	case StagePersistTranscription, StagePersistSummary:
		return utils.CodePersistence
	}
	return utils.CodeUnavailable
}
