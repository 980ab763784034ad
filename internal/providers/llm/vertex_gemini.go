package llm

import (
	"context"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

const summaryPrompt = "Summarize the following conversation transcript in a short paragraph. " +
	"Mention who said what when speakers are labeled.\n\nTranscript:\n"

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Summarize(ctx context.Context, text string) (string, error) {
	var out strings.Builder

	it := v.model.GenerateContentStream(ctx, vertexgenai.Text(summaryPrompt+text))
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSummarizationUnavailable, err)
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					out.WriteString(string(t))
				}
			}
		}
	}

	summary := strings.TrimSpace(out.String())
	if summary == "" {
		return "", ErrSummarizationEmpty
	}
	return summary, nil
}
