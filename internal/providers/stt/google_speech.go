package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/yoockh/ayuda/internal/storage"
	"github.com/yoockh/ayuda/internal/transcript"
)

type googleEncoding struct {
	enc        speechpb.RecognitionConfig_AudioEncoding
	sampleRate int32
}

// wav and flac carry their own header, so the encoding is left unspecified.
var googleEncodings = map[string]googleEncoding{
	"wav":  {speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0},
	"flac": {speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, 0},
	"ogg":  {speechpb.RecognitionConfig_OGG_OPUS, 48000},
	"webm": {speechpb.RecognitionConfig_WEBM_OPUS, 48000},
	"amr":  {speechpb.RecognitionConfig_AMR, 8000},
}

// GoogleSpeech runs LongRunningRecognize operations. Speech-to-Text returns
// the result inline, so on completion the response is rewritten into the
// transcript document shape and stored next to the audio; callers then read
// it back like any other job output.
type GoogleSpeech struct {
	c       *speech.Client
	results storage.BlobStore

	// local job name -> operation name
	ops *opIndex
}

func NewGoogleSpeech(ctx context.Context, results storage.BlobStore, opts ...option.ClientOption) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{c: c, results: results, ops: newOpIndex()}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) StartJob(ctx context.Context, req JobRequest) error {
	enc, ok := googleEncodings[req.MediaFormat]
	if !ok {
		return fmt.Errorf("%w: unsupported media format %q", ErrSubmission, req.MediaFormat)
	}
	if !strings.HasPrefix(req.MediaURI, "gs://") {
		return fmt.Errorf("%w: media uri %q is not a gs:// object", ErrSubmission, req.MediaURI)
	}

	cfg := &speechpb.RecognitionConfig{
		Encoding:                   enc.enc,
		SampleRateHertz:            enc.sampleRate,
		LanguageCode:               req.LanguageCode,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
	}
	if req.Diarization.Enabled {
		cfg.DiarizationConfig = &speechpb.SpeakerDiarizationConfig{
			EnableSpeakerDiarization: true,
			MinSpeakerCount:          1,
			MaxSpeakerCount:          int32(req.Diarization.MaxSpeakers),
		}
	}

	op, err := g.c.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{
		Config: cfg,
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Uri{Uri: req.MediaURI}},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	g.ops.put(req.Name, opRecord{operation: op.Name(), diarize: req.Diarization.Enabled})
	return nil
}

func (g *GoogleSpeech) GetJob(ctx context.Context, name string) (JobSnapshot, error) {
	rec, ok := g.ops.get(name)
	if !ok {
		return JobSnapshot{}, fmt.Errorf("unknown transcription job %q", name)
	}

	op := g.c.LongRunningRecognizeOperation(rec.operation)
	resp, err := op.Poll(ctx)
	if err != nil {
		if op.Done() {
			return JobSnapshot{State: StateFailed, FailureReason: err.Error()}, nil
		}
		return JobSnapshot{}, err
	}
	if !op.Done() || resp == nil {
		return JobSnapshot{State: StateInProgress}, nil
	}

	doc := DocumentFromSpeech(name, resp.GetResults(), rec.diarize)
	raw, err := json.Marshal(doc)
	if err != nil {
		return JobSnapshot{}, err
	}
	key := resultKey(name)
	if _, err := g.results.Put(ctx, key, raw, "application/json"); err != nil {
		return JobSnapshot{}, err
	}
	return JobSnapshot{State: StateCompleted, ResultKey: key}, nil
}

// DocumentFromSpeech converts recognition results into the transcript
// document. With diarization on, the last result repeats every word of the
// audio tagged with its speaker; consecutive words of one speaker form a
// segment.
func DocumentFromSpeech(jobName string, results []*speechpb.SpeechRecognitionResult, diarize bool) transcript.Document {
	var texts []string
	var words []*speechpb.WordInfo
	for _, r := range results {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			texts = append(texts, t)
		}
		if !diarize {
			words = append(words, alts[0].GetWords()...)
		}
	}
	if diarize && len(results) > 0 {
		if alts := results[len(results)-1].GetAlternatives(); len(alts) > 0 {
			words = alts[0].GetWords()
		}
	}

	text := strings.Join(texts, " ")
	doc := transcript.Document{
		JobName: jobName,
		Status:  StateCompleted,
		Results: transcript.Results{
			Transcripts: []transcript.Transcript{{Transcript: &text}},
			Items:       make([]transcript.Item, 0, len(words)),
		},
	}

	var segs []transcript.SpeakerSegment
	for _, w := range words {
		label := ""
		if diarize && w.GetSpeakerTag() > 0 {
			label = "spk_" + strconv.Itoa(int(w.GetSpeakerTag())-1)
		}
		start, end := seconds(w.GetStartTime()), seconds(w.GetEndTime())
		doc.Results.Items = append(doc.Results.Items, transcript.Item{
			StartTime:    start,
			EndTime:      end,
			Type:         "pronunciation",
			Alternatives: []transcript.Alternative{{Content: w.GetWord()}},
			SpeakerLabel: label,
		})

		if label == "" {
			continue
		}
		if n := len(segs); n > 0 && segs[n-1].SpeakerLabel == label {
			segs[n-1].EndTime = end
			continue
		}
		segs = append(segs, transcript.SpeakerSegment{SpeakerLabel: label, StartTime: start, EndTime: end})
	}

	if diarize {
		doc.Results.SpeakerLabels = &transcript.SpeakerLabels{
			Speakers: countSpeakers(segs),
			Segments: segs,
		}
	}
	return doc
}

func seconds(d *durationpb.Duration) string {
	return strconv.FormatFloat(d.AsDuration().Seconds(), 'f', 3, 64)
}

func countSpeakers(segs []transcript.SpeakerSegment) int {
	seen := map[string]struct{}{}
	for _, s := range segs {
		seen[s.SpeakerLabel] = struct{}{}
	}
	return len(seen)
}
