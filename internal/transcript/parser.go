package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yoockh/ayuda/internal/models"
)

// ErrMalformedTranscript means the job finished but its output holds no
// usable transcript. Retrying the same document cannot help.
var ErrMalformedTranscript = errors.New("malformed transcript")

// Parse turns a job output document into a Transcription carrying the flat
// text and the speaker segments. Identity and bookkeeping fields are left for
// the caller. Parse is deterministic.
func Parse(raw []byte) (*models.Transcription, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTranscript, err)
	}
	if len(doc.Results.Transcripts) == 0 || doc.Results.Transcripts[0].Transcript == nil {
		return nil, fmt.Errorf("%w: no transcript found", ErrMalformedTranscript)
	}

	segments, err := Segments(doc.Results)
	if err != nil {
		return nil, err
	}

	return &models.Transcription{
		Text:     *doc.Results.Transcripts[0].Transcript,
		Segments: segments,
		Speakers: speakers(segments),
	}, nil
}

type timedWord struct {
	start, end float64
	content    string
}

// Segments assigns each timed item to every speaker segment that fully
// contains it (inclusive bounds). An item straddling a boundary belongs to
// neither neighbour. Without speaker labels the result is empty.
func Segments(res Results) ([]models.TranscriptSegment, error) {
	out := []models.TranscriptSegment{}
	if res.SpeakerLabels == nil {
		return out, nil
	}

	words := make([]timedWord, 0, len(res.Items))
	for i, it := range res.Items {
		if it.StartTime == "" || it.EndTime == "" {
			continue
		}
		start, err := parseSeconds(it.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: items[%d].start_time: %v", ErrMalformedTranscript, i, err)
		}
		end, err := parseSeconds(it.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: items[%d].end_time: %v", ErrMalformedTranscript, i, err)
		}
		content := ""
		if len(it.Alternatives) > 0 {
			content = it.Alternatives[0].Content
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		words = append(words, timedWord{start: start, end: end, content: content})
	}

	for i, seg := range res.SpeakerLabels.Segments {
		start, err := parseSeconds(seg.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: segments[%d].start_time: %v", ErrMalformedTranscript, i, err)
		}
		end, err := parseSeconds(seg.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: segments[%d].end_time: %v", ErrMalformedTranscript, i, err)
		}

		parts := make([]string, 0, 8)
		for _, w := range words {
			if w.start >= start && w.end <= end {
				parts = append(parts, w.content)
			}
		}

		out = append(out, models.TranscriptSegment{
			Speaker: seg.SpeakerLabel,
			Start:   start,
			End:     end,
			Content: strings.Join(parts, " "),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func parseSeconds(v string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}

// speakers lists distinct labels in order of first appearance.
func speakers(segs []models.TranscriptSegment) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, s := range segs {
		if s.Speaker == "" {
			continue
		}
		if _, ok := seen[s.Speaker]; ok {
			continue
		}
		seen[s.Speaker] = struct{}{}
		out = append(out, s.Speaker)
	}
	return out
}
