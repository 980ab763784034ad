package stt

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrSubmission means the remote service refused the job or the request was
// malformed before it was sent.
var ErrSubmission = errors.New("transcription job submission rejected")

// Remote job states as reported by a provider.
const (
	StateQueued     = "QUEUED"
	StateInProgress = "IN_PROGRESS"
	StateCompleted  = "COMPLETED"
	StateFailed     = "FAILED"
)

type Diarization struct {
	Enabled     bool
	MaxSpeakers int
}

type JobRequest struct {
	Name         string
	MediaURI     string
	MediaFormat  string
	LanguageCode string
	Diarization  Diarization
}

// JobSnapshot is one status reading. ResultKey is set once the job is
// COMPLETED and names the output document in the job's bucket.
type JobSnapshot struct {
	State         string
	ResultKey     string
	FailureReason string
}

// JobService runs asynchronous transcription jobs.
type JobService interface {
	StartJob(ctx context.Context, req JobRequest) error
	GetJob(ctx context.Context, name string) (JobSnapshot, error)
	Close() error
}

// MediaFormat infers the remote media format from a file name extension.
func MediaFormat(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "oga" {
		return "ogg"
	}
	return ext
}
