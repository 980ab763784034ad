package transcript

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/yoockh/ayuda/internal/models"
)

const helloWorld = `{"results":{"transcripts":[{"transcript":"hello world"}],"speaker_labels":{"segments":[{"speaker_label":"spk_0","start_time":"0.0","end_time":"1.0"}]},"items":[{"start_time":"0.0","end_time":"0.5","alternatives":[{"content":"hello"}]},{"start_time":"0.5","end_time":"1.0","alternatives":[{"content":"world"}]}]}}`

func TestParseHelloWorld(t *testing.T) {
	tr, err := Parse([]byte(helloWorld))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tr.Text != "hello world" {
		t.Fatalf("text = %q, want %q", tr.Text, "hello world")
	}
	want := []models.TranscriptSegment{{Speaker: "spk_0", Start: 0.0, End: 1.0, Content: "hello world"}}
	if !reflect.DeepEqual([]models.TranscriptSegment(tr.Segments), want) {
		t.Fatalf("segments = %+v, want %+v", tr.Segments, want)
	}
	if !reflect.DeepEqual([]string(tr.Speakers), []string{"spk_0"}) {
		t.Fatalf("speakers = %v", tr.Speakers)
	}
}

func TestParseTextIsFirstTranscriptVerbatim(t *testing.T) {
	raw := `{"results":{"transcripts":[{"transcript":"  Keep  spacing, exactly. "},{"transcript":"second"}]}}`
	tr, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tr.Text != "  Keep  spacing, exactly. " {
		t.Fatalf("text = %q", tr.Text)
	}
}

func TestParseMissingTranscripts(t *testing.T) {
	for name, raw := range map[string]string{
		"no results":        `{}`,
		"no transcripts":    `{"results":{"items":[]}}`,
		"empty transcripts": `{"results":{"transcripts":[]}}`,
		"null transcript":   `{"results":{"transcripts":[{}]}}`,
		"not json":          `<html>`,
	} {
		_, err := Parse([]byte(raw))
		if !errors.Is(err, ErrMalformedTranscript) {
			t.Errorf("%s: err = %v, want ErrMalformedTranscript", name, err)
		}
	}
}

func TestParseWithoutSpeakerLabels(t *testing.T) {
	raw := `{"results":{"transcripts":[{"transcript":"solo"}],"items":[{"start_time":"0.0","end_time":"0.4","alternatives":[{"content":"solo"}]}]}}`
	tr, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tr.Text != "solo" {
		t.Fatalf("text = %q", tr.Text)
	}
	if tr.Segments == nil || len(tr.Segments) != 0 {
		t.Fatalf("segments = %#v, want empty non-nil", tr.Segments)
	}
}

func TestSegmentsInclusiveBoundsAndStraddling(t *testing.T) {
	res := Results{
		SpeakerLabels: &SpeakerLabels{Segments: []SpeakerSegment{
			{SpeakerLabel: "spk_1", StartTime: "2.0", EndTime: "4.0"},
			{SpeakerLabel: "spk_0", StartTime: "0.0", EndTime: "2.0"},
		}},
		Items: []Item{
			{StartTime: "0.0", EndTime: "2.0", Alternatives: []Alternative{{Content: "edge"}}},
			{StartTime: "1.5", EndTime: "2.5", Alternatives: []Alternative{{Content: "straddle"}}},
			{Type: "punctuation", Alternatives: []Alternative{{Content: "."}}},
			{StartTime: "2.0", EndTime: "3.0", Alternatives: []Alternative{{Content: "right"}}},
			{StartTime: "3.0", EndTime: "4.0", Alternatives: []Alternative{{Content: "side"}}},
		},
	}

	segs, err := Segments(res)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	want := []models.TranscriptSegment{
		{Speaker: "spk_0", Start: 0, End: 2, Content: "edge"},
		{Speaker: "spk_1", Start: 2, End: 4, Content: "right side"},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Fatalf("segments = %+v, want %+v", segs, want)
	}
}

func TestSegmentsSkipItemsWithoutContent(t *testing.T) {
	res := Results{
		SpeakerLabels: &SpeakerLabels{Segments: []SpeakerSegment{
			{SpeakerLabel: "spk_0", StartTime: "0.0", EndTime: "1.5"},
		}},
		Items: []Item{
			{StartTime: "0.0", EndTime: "0.5", Alternatives: []Alternative{{Content: "hello"}}},
			{StartTime: "0.5", EndTime: "0.7"},
			{StartTime: "0.7", EndTime: "0.9", Alternatives: []Alternative{{Content: " "}}},
			{StartTime: "0.9", EndTime: "1.5", Alternatives: []Alternative{{Content: "world"}}},
		},
	}
	segs, err := Segments(res)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if len(segs) != 1 || segs[0].Content != "hello world" {
		t.Fatalf("segments = %+v, want content %q", segs, "hello world")
	}
}

// An item lands in a segment iff item.start >= seg.start && item.end <= seg.end,
// so with non-overlapping segments no item is counted twice.
func TestSegmentsMembershipProperty(t *testing.T) {
	bounds := []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}
	segs := [][2]float64{{0, 1}, {1.25, 2}}

	for _, s := range bounds {
		for _, e := range bounds {
			if e < s {
				continue
			}
			res := Results{
				SpeakerLabels: &SpeakerLabels{Segments: []SpeakerSegment{
					{SpeakerLabel: "a", StartTime: ftoa(segs[0][0]), EndTime: ftoa(segs[0][1])},
					{SpeakerLabel: "b", StartTime: ftoa(segs[1][0]), EndTime: ftoa(segs[1][1])},
				}},
				Items: []Item{{StartTime: ftoa(s), EndTime: ftoa(e), Alternatives: []Alternative{{Content: "w"}}}},
			}
			got, err := Segments(res)
			if err != nil {
				t.Fatalf("segments: %v", err)
			}
			hits := 0
			for i, seg := range got {
				in := s >= segs[i][0] && e <= segs[i][1]
				if (seg.Content == "w") != in {
					t.Fatalf("item [%v,%v] in segment %v: got %v, want %v", s, e, segs[i], seg.Content == "w", in)
				}
				if in {
					hits++
				}
			}
			if hits > 1 {
				t.Fatalf("item [%v,%v] appeared in %d segments", s, e, hits)
			}
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	a, err := Parse([]byte(helloWorld))
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	b, err := Parse([]byte(helloWorld))
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) || !reflect.DeepEqual(a, b) {
		t.Fatalf("parse not deterministic:\n%s\n%s", ja, jb)
	}
}

func TestParseBadSegmentTime(t *testing.T) {
	raw := `{"results":{"transcripts":[{"transcript":"x"}],"speaker_labels":{"segments":[{"speaker_label":"spk_0","start_time":"zero","end_time":"1.0"}]}}}`
	if _, err := Parse([]byte(raw)); !errors.Is(err, ErrMalformedTranscript) {
		t.Fatalf("err = %v, want ErrMalformedTranscript", err)
	}
}

func ftoa(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
