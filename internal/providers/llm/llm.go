package llm

import (
	"context"
	"errors"
)

var (
	// ErrSummarizationUnavailable covers transport failures and non-success
	// responses from the endpoint.
	ErrSummarizationUnavailable = errors.New("summarization unavailable")
	// ErrSummarizationEmpty means the endpoint answered but sent no summary.
	ErrSummarizationEmpty = errors.New("summarization returned no summary")
)

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Close() error
}
