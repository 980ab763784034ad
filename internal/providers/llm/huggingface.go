package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"

// HuggingFace calls a hosted inference endpoint that answers
// [{"summary_text": "..."}] on success and {"error": "..."} otherwise.
type HuggingFace struct {
	endpoint string
	token    string
	http     *http.Client
}

func NewHuggingFace(endpoint, token string, timeout time.Duration) *HuggingFace {
	if endpoint == "" {
		endpoint = DefaultHuggingFaceEndpoint
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HuggingFace{endpoint: endpoint, token: token, http: &http.Client{Timeout: timeout}}
}

func (h *HuggingFace) Close() error { return nil }

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfSummary struct {
	SummaryText *string `json:"summary_text"`
}

type hfError struct {
	Error any `json:"error"`
}

func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(hfRequest{Inputs: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarizationUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarizationUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrSummarizationUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrSummarizationUnavailable, errorMessage(resp.StatusCode, raw))
	}

	var out []hfSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: unexpected response body", ErrSummarizationEmpty)
	}
	if len(out) == 0 || out[0].SummaryText == nil {
		return "", ErrSummarizationEmpty
	}
	return *out[0].SummaryText, nil
}

func errorMessage(status int, raw []byte) string {
	var e hfError
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != nil {
		switch v := e.Error.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
	}
	return fmt.Sprintf("summarization endpoint returned status %d", status)
}
