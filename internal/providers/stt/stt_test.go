package stt

import (
	"encoding/json"
	"testing"
	"time"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/yoockh/ayuda/internal/transcript"
)

func TestMediaFormat(t *testing.T) {
	cases := map[string]string{
		"call.WAV":          "wav",
		"a.b.mp3":           "mp3",
		"voice.oga":         "ogg",
		"noext":             "",
		"uuid-rec.webm":     "webm",
		"dir.v2/memo.m4a":   "m4a",
		"recording.flac.gz": "gz",
	}
	for in, want := range cases {
		if got := MediaFormat(in); got != want {
			t.Errorf("MediaFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObjectKeyFromURI(t *testing.T) {
	cases := []struct {
		uri, bucket, want string
	}{
		{"https://s3.us-east-1.amazonaws.com/ayudabucket/transcripts/job.json", "ayudabucket", "transcripts/job.json"},
		{"https://ayudabucket.s3.us-east-1.amazonaws.com/transcripts/job.json", "ayudabucket", "transcripts/job.json"},
		{"s3://ayudabucket/transcripts/job.json", "ayudabucket", "transcripts/job.json"},
		{"https://s3.us-east-1.amazonaws.com/other/transcripts/job.json", "ayudabucket", ""},
		{"", "ayudabucket", ""},
	}
	for _, tc := range cases {
		if got := objectKeyFromURI(tc.uri, tc.bucket); got != tc.want {
			t.Errorf("objectKeyFromURI(%q) = %q, want %q", tc.uri, got, tc.want)
		}
	}
}

func TestAWSState(t *testing.T) {
	cases := map[types.TranscriptionJobStatus]string{
		types.TranscriptionJobStatusQueued:     StateQueued,
		types.TranscriptionJobStatusInProgress: StateInProgress,
		types.TranscriptionJobStatusCompleted:  StateCompleted,
		types.TranscriptionJobStatusFailed:     StateFailed,
	}
	for in, want := range cases {
		if got := awsState(in); got != want {
			t.Errorf("awsState(%s) = %s, want %s", in, got, want)
		}
	}
}

func word(w string, start, end time.Duration, tag int32) *speechpb.WordInfo {
	return &speechpb.WordInfo{
		Word:       w,
		StartTime:  durationpb.New(start),
		EndTime:    durationpb.New(end),
		SpeakerTag: tag,
	}
}

func TestDocumentFromSpeechDiarized(t *testing.T) {
	results := []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "hello there"}}},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: " general kenobi"}}},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Words: []*speechpb.WordInfo{
			word("hello", 0, 500*time.Millisecond, 1),
			word("there", 500*time.Millisecond, time.Second, 1),
			word("general", 1200*time.Millisecond, 1600*time.Millisecond, 2),
			word("kenobi", 1600*time.Millisecond, 2*time.Second, 2),
		}}}},
	}

	doc := DocumentFromSpeech("job-1", results, true)
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	tr, err := transcript.Parse(raw)
	if err != nil {
		t.Fatalf("parse normalized document: %v", err)
	}
	if tr.Text != "hello there general kenobi" {
		t.Fatalf("text = %q", tr.Text)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("segments = %+v, want 2", tr.Segments)
	}
	if s := tr.Segments[0]; s.Speaker != "spk_0" || s.Content != "hello there" || s.Start != 0 || s.End != 1 {
		t.Fatalf("segment 0 = %+v", s)
	}
	if s := tr.Segments[1]; s.Speaker != "spk_1" || s.Content != "general kenobi" || s.Start != 1.2 || s.End != 2 {
		t.Fatalf("segment 1 = %+v", s)
	}
	if doc.Results.SpeakerLabels.Speakers != 2 {
		t.Fatalf("speakers = %d, want 2", doc.Results.SpeakerLabels.Speakers)
	}
}

func TestDocumentFromSpeechWithoutDiarization(t *testing.T) {
	results := []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{
			Transcript: "just me",
			Words:      []*speechpb.WordInfo{word("just", 0, 300*time.Millisecond, 0), word("me", 300*time.Millisecond, 600*time.Millisecond, 0)},
		}}},
	}
	doc := DocumentFromSpeech("job-2", results, false)
	if doc.Results.SpeakerLabels != nil {
		t.Fatal("speaker labels must be absent without diarization")
	}
	if len(doc.Results.Items) != 2 || doc.Results.Items[1].StartTime != "0.300" {
		t.Fatalf("items = %+v", doc.Results.Items)
	}
	if *doc.Results.Transcripts[0].Transcript != "just me" {
		t.Fatalf("transcript = %q", *doc.Results.Transcripts[0].Transcript)
	}
}
