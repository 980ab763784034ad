package transcription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yoockh/ayuda/internal/providers/stt"
	"github.com/yoockh/ayuda/internal/storage"
)

var (
	// ErrTranscriptionFailed means the remote job ended in FAILED.
	ErrTranscriptionFailed = errors.New("transcription job failed")
	// ErrPollTimeout means the job was still running at the poll deadline.
	// The remote job is not cancelled.
	ErrPollTimeout = errors.New("transcription poll deadline exceeded")

	errStillRunning = errors.New("job still running")
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 15 * time.Minute
)

type Outcome struct {
	Status        Status
	ResultKey     string
	FailureReason string
	Polls         int
}

type Options struct {
	Interval time.Duration
	Timeout  time.Duration

	// Limiter caps status queries across every run sharing the orchestrator.
	Limiter *rate.Limiter
	// Timer drives the waits between polls; nil uses a real timer.
	Timer backoff.Timer
	// MaxStatusErrors is how many status queries in a row may fail before
	// polling gives up.
	MaxStatusErrors int

	Logger *logrus.Logger
}

// Orchestrator submits transcription jobs and waits for them to finish. It
// holds no per-run state and is safe for concurrent use.
type Orchestrator struct {
	svc  stt.JobService
	opts Options
}

func NewOrchestrator(svc stt.JobService, opts Options) *Orchestrator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPollTimeout
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if opts.MaxStatusErrors <= 0 {
		opts.MaxStatusErrors = 3
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Orchestrator{svc: svc, opts: opts}
}

// Submit registers a new job for the stored object. The media format comes
// from the object key's extension.
func (o *Orchestrator) Submit(ctx context.Context, src storage.ObjectRef, languageCode string, d stt.Diarization) (*Job, error) {
	if !src.Valid() {
		return nil, fmt.Errorf("%w: malformed object reference %+v", stt.ErrSubmission, src)
	}
	if languageCode == "" {
		return nil, fmt.Errorf("%w: language code is required", stt.ErrSubmission)
	}

	job := &Job{
		Name:         uuid.NewString(),
		Source:       src,
		LanguageCode: languageCode,
		Diarization:  d,
		Status:       StatusSubmitted,
	}

	err := o.svc.StartJob(ctx, stt.JobRequest{
		Name:         job.Name,
		MediaURI:     src.URI,
		MediaFormat:  stt.MediaFormat(src.Key),
		LanguageCode: languageCode,
		Diarization:  d,
	})
	if err != nil {
		if !errors.Is(err, stt.ErrSubmission) {
			err = fmt.Errorf("%w: %v", stt.ErrSubmission, err)
		}
		return nil, err
	}

	o.opts.Logger.WithFields(logrus.Fields{
		"job_name": job.Name,
		"media":    src.URI,
		"language": languageCode,
	}).Info("transcription job submitted")
	return job, nil
}

// PollUntilTerminal queries the job at a fixed interval until it completes,
// fails, or the poll deadline passes. The first query is immediate, so a job
// that needs n readings to finish costs n-1 waits.
func (o *Orchestrator) PollUntilTerminal(ctx context.Context, job *Job) (Outcome, error) {
	if job == nil || job.Name == "" {
		return Outcome{}, errors.New("poll: job has no name")
	}
	if job.Status.Terminal() {
		return outcomeOf(job, 0), terminalErr(job)
	}

	pollCtx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	log := o.opts.Logger.WithField("job_name", job.Name)
	polls, statusErrs := 0, 0

	op := func() error {
		if err := o.opts.Limiter.Wait(pollCtx); err != nil {
			if pollCtx.Err() != nil {
				return backoff.Permanent(pollCtx.Err())
			}
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrPollTimeout, err))
		}

		polls++
		snap, err := o.svc.GetJob(pollCtx, job.Name)
		if err != nil {
			if pollCtx.Err() != nil {
				return backoff.Permanent(pollCtx.Err())
			}
			statusErrs++
			if statusErrs >= o.opts.MaxStatusErrors {
				return backoff.Permanent(fmt.Errorf("query job status: %w", err))
			}
			log.WithError(err).Warn("job status query failed")
			return err
		}
		statusErrs = 0

		next, err := statusFromState(snap.State)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := job.Advance(next); err != nil {
			if errors.Is(err, ErrBackwardTransition) {
				log.WithField("reported", next).Debug("ignoring stale job status")
				return errStillRunning
			}
			return backoff.Permanent(err)
		}

		switch job.Status {
		case StatusCompleted:
			job.ResultKey = snap.ResultKey
			return nil
		case StatusFailed:
			job.FailureReason = snap.FailureReason
			return backoff.Permanent(terminalErr(job))
		}
		return errStillRunning
	}

	notify := func(_ error, wait time.Duration) {
		log.WithFields(logrus.Fields{"status": job.Status, "wait": wait.String()}).Debug("job not finished")
	}

	b := backoff.WithContext(&backoff.ConstantBackOff{Interval: o.opts.Interval}, pollCtx)
	err := backoff.RetryNotifyWithTimer(op, b, notify, o.opts.Timer)
	out := outcomeOf(job, polls)

	switch {
	case err == nil:
		if out.ResultKey == "" {
			return out, errors.New("completed job reported no result location")
		}
		log.WithFields(logrus.Fields{"polls": polls, "result_key": out.ResultKey}).Info("transcription job completed")
		return out, nil
	case errors.Is(err, ErrTranscriptionFailed), errors.Is(err, ErrPollTimeout):
		return out, err
	case ctx.Err() != nil:
		return out, ctx.Err()
	case pollCtx.Err() != nil, errors.Is(err, errStillRunning):
		return out, fmt.Errorf("%w: %s after %d polls (last status %s)", ErrPollTimeout, o.opts.Timeout, polls, job.Status)
	default:
		return out, err
	}
}

func outcomeOf(job *Job, polls int) Outcome {
	return Outcome{
		Status:        job.Status,
		ResultKey:     job.ResultKey,
		FailureReason: job.FailureReason,
		Polls:         polls,
	}
}

func terminalErr(job *Job) error {
	if job.Status != StatusFailed {
		return nil
	}
	reason := job.FailureReason
	if reason == "" {
		reason = "no reason given"
	}
	return fmt.Errorf("%w: %s", ErrTranscriptionFailed, reason)
}
