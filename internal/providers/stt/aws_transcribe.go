package stt

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

var awsMediaFormats = map[string]types.MediaFormat{
	"mp3":  types.MediaFormatMp3,
	"mp4":  types.MediaFormatMp4,
	"wav":  types.MediaFormatWav,
	"flac": types.MediaFormatFlac,
	"ogg":  types.MediaFormatOgg,
	"amr":  types.MediaFormatAmr,
	"webm": types.MediaFormatWebm,
	"m4a":  types.MediaFormatM4a,
}

// AWSTranscribe runs Amazon Transcribe jobs whose output lands in the same
// bucket as the source audio, under transcripts/<job>.json.
type AWSTranscribe struct {
	c            *transcribe.Client
	outputBucket string
}

func NewAWSTranscribe(cfg aws.Config, outputBucket string) *AWSTranscribe {
	return &AWSTranscribe{c: transcribe.NewFromConfig(cfg), outputBucket: outputBucket}
}

func (a *AWSTranscribe) Close() error { return nil }

func resultKey(jobName string) string { return "transcripts/" + jobName + ".json" }

func (a *AWSTranscribe) StartJob(ctx context.Context, req JobRequest) error {
	format, ok := awsMediaFormats[req.MediaFormat]
	if !ok {
		return fmt.Errorf("%w: unsupported media format %q", ErrSubmission, req.MediaFormat)
	}

	in := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(req.Name),
		LanguageCode:         types.LanguageCode(req.LanguageCode),
		Media:                &types.Media{MediaFileUri: aws.String(req.MediaURI)},
		MediaFormat:          format,
		OutputBucketName:     aws.String(a.outputBucket),
		OutputKey:            aws.String(resultKey(req.Name)),
	}
	if req.Diarization.Enabled {
		in.Settings = &types.Settings{
			ShowSpeakerLabels: aws.Bool(true),
			MaxSpeakerLabels:  aws.Int32(int32(req.Diarization.MaxSpeakers)),
		}
	}

	if _, err := a.c.StartTranscriptionJob(ctx, in); err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	return nil
}

func (a *AWSTranscribe) GetJob(ctx context.Context, name string) (JobSnapshot, error) {
	out, err := a.c.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		return JobSnapshot{}, err
	}
	job := out.TranscriptionJob
	if job == nil {
		return JobSnapshot{}, fmt.Errorf("transcription job %s: empty response", name)
	}

	snap := JobSnapshot{State: awsState(job.TranscriptionJobStatus)}
	switch snap.State {
	case StateFailed:
		snap.FailureReason = aws.ToString(job.FailureReason)
	case StateCompleted:
		snap.ResultKey = resultKey(name)
		if job.Transcript != nil {
			if k := objectKeyFromURI(aws.ToString(job.Transcript.TranscriptFileUri), a.outputBucket); k != "" {
				snap.ResultKey = k
			}
		}
	}
	return snap, nil
}

func awsState(s types.TranscriptionJobStatus) string {
	switch s {
	case types.TranscriptionJobStatusInProgress:
		return StateInProgress
	case types.TranscriptionJobStatusCompleted:
		return StateCompleted
	case types.TranscriptionJobStatusFailed:
		return StateFailed
	default:
		return StateQueued
	}
}

// objectKeyFromURI handles both path-style
// (https://s3.<region>.amazonaws.com/<bucket>/<key>) and virtual-hosted
// (https://<bucket>.s3.<region>.amazonaws.com/<key>) result locations.
func objectKeyFromURI(raw, bucket string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}
	p := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(u.Host, bucket+".") {
		return p
	}
	if strings.HasPrefix(p, bucket+"/") {
		return strings.TrimPrefix(p, bucket+"/")
	}
	if u.Scheme == "s3" && u.Host == bucket {
		return p
	}
	return ""
}
