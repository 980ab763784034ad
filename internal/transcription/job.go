package transcription

import (
	"errors"
	"fmt"

	"github.com/yoockh/ayuda/internal/providers/stt"
	"github.com/yoockh/ayuda/internal/storage"
)

type Status string

const (
	StatusSubmitted  Status = "SUBMITTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// ErrBackwardTransition is returned when a reading would move a job to an
// earlier state. Remote services occasionally report stale states; the job
// keeps its current status.
var ErrBackwardTransition = errors.New("backward status transition")

// ErrTerminal is returned when a finished job is asked to change state.
var ErrTerminal = errors.New("job already terminal")

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func rank(s Status) int {
	switch s {
	case StatusSubmitted:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted, StatusFailed:
		return 2
	default:
		return -1
	}
}

type Job struct {
	Name         string
	Source       storage.ObjectRef
	LanguageCode string
	Diarization  stt.Diarization
	Status       Status

	ResultKey     string
	FailureReason string
}

// Advance applies a status reading. Repeating the current status is a no-op.
func (j *Job) Advance(to Status) error {
	if to == j.Status {
		return nil
	}
	if rank(to) < 0 {
		return fmt.Errorf("unknown status %q", to)
	}
	if j.Status.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrTerminal, j.Status, to)
	}
	if rank(to) < rank(j.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrBackwardTransition, j.Status, to)
	}
	j.Status = to
	return nil
}

func statusFromState(state string) (Status, error) {
	switch state {
	case stt.StateQueued:
		return StatusSubmitted, nil
	case stt.StateInProgress:
		return StatusInProgress, nil
	case stt.StateCompleted:
		return StatusCompleted, nil
	case stt.StateFailed:
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("unknown remote job state %q", state)
	}
}
